package api

import (
	"embed"
	"html/template"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lehmann314159/kabyedict/internal/models"
	"github.com/lehmann314159/kabyedict/internal/services"
)

//go:embed templates/*.html
var templatesFS embed.FS

// WebHandler handles HTML template rendering
type WebHandler struct {
	dict      *services.DictionaryService
	templates map[string]*template.Template
	logger    logrus.FieldLogger
}

// NewWebHandler creates a new WebHandler with parsed templates
func NewWebHandler(dict *services.DictionaryService, logger logrus.FieldLogger) (*WebHandler, error) {
	funcMap := template.FuncMap{
		"date": func(t time.Time) string {
			return t.Format("2006-01-02 15:04")
		},
	}

	// Parse layout template first
	layoutTmpl, err := template.New("layout.html").Funcs(funcMap).ParseFS(templatesFS, "templates/layout.html")
	if err != nil {
		return nil, err
	}

	// Define page templates that use the layout
	pageTemplates := []string{
		"formulaire.html",
		"liste_mots.html",
		"recherche.html",
		"statistiques.html",
	}

	templates := make(map[string]*template.Template)

	for _, page := range pageTemplates {
		// Clone the layout template for each page
		tmpl, err := layoutTmpl.Clone()
		if err != nil {
			return nil, err
		}
		// Parse the page template and the shared entries table into the cloned layout
		tmpl, err = tmpl.ParseFS(templatesFS, "templates/"+page, "templates/entries.html")
		if err != nil {
			return nil, err
		}
		templates[page] = tmpl
	}

	return &WebHandler{
		dict:      dict,
		templates: templates,
		logger:    logger,
	}, nil
}

// FormData contains data for the submission form
type FormData struct {
	Title string
}

// Form shows the submission form
func (h *WebHandler) Form(w http.ResponseWriter, r *http.Request) {
	h.render(w, "formulaire.html", FormData{Title: "Ajouter un mot kabyè"})
}

// ListData contains data for the listing page
type ListData struct {
	Title string
	Words []models.Entry
}

// List shows every entry ordered by Kabyè word
func (h *WebHandler) List(w http.ResponseWriter, r *http.Request) {
	words, err := h.dict.ListWords(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("failed to list words")
		h.renderError(w, "Impossible de charger les mots", http.StatusInternalServerError)
		return
	}
	h.render(w, "liste_mots.html", ListData{Title: "Liste des mots", Words: words})
}

// SearchData contains data for the search page
type SearchData struct {
	Title string
	Query string
	Words []models.Entry
}

// Search shows the entries matching the q parameter
func (h *WebHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	words, err := h.dict.SearchWords(r.Context(), query)
	if err != nil {
		h.logger.WithError(err).Error("failed to search words")
		h.renderError(w, "Impossible d'effectuer la recherche", http.StatusInternalServerError)
		return
	}
	h.render(w, "recherche.html", SearchData{Title: "Recherche", Query: query, Words: words})
}

// StatsData contains data for the statistics page
type StatsData struct {
	Title string
	Stats *models.Statistics
}

// Stats shows counts by category and contributor
func (h *WebHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dict.Statistics(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("failed to compute statistics")
		h.renderError(w, "Impossible de calculer les statistiques", http.StatusInternalServerError)
		return
	}
	h.render(w, "statistiques.html", StatsData{Title: "Statistiques", Stats: stats})
}

// render renders a full page with layout
func (h *WebHandler) render(w http.ResponseWriter, page string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	tmpl, ok := h.templates[page]
	if !ok {
		http.Error(w, "Template not found: "+page, http.StatusInternalServerError)
		return
	}

	// Execute the layout template (which includes the content)
	if err := tmpl.ExecuteTemplate(w, "layout.html", data); err != nil {
		h.logger.WithError(err).WithField("template", page).Error("template error")
		http.Error(w, "Template error", http.StatusInternalServerError)
	}
}

// renderError renders an error page
func (h *WebHandler) renderError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte("<html><body><h1>Erreur</h1><p>" + template.HTMLEscapeString(message) +
		"</p><a href='/'>Retour à l'accueil</a></body></html>"))
}
