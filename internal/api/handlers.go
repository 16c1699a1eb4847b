package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/lehmann314159/kabyedict/internal/models"
	"github.com/lehmann314159/kabyedict/internal/services"
)

// User-facing messages, in the language of the dictionary's contributors
const (
	msgMissingField  = "Mot kabyè et traduction française sont obligatoires"
	msgDuplicateWord = "Ce mot existe déjà dans le dictionnaire"
	msgStorage       = "Erreur de stockage, le mot n'a pas été enregistré"
	msgInvalidBody   = "Requête invalide"

	msgImportForm    = "Formulaire d'import invalide"
	msgImportFile    = "Aucun fichier CSV reçu (champ \"file\")"
	msgImportCSV     = "Fichier CSV invalide : colonnes du mot kabyè et de la traduction obligatoires"
	msgImportStorage = "Erreur de stockage, l'import a été interrompu"
)

// Handler contains all HTTP handlers of the JSON endpoints
type Handler struct {
	dict   *services.DictionaryService
	logger logrus.FieldLogger
}

// NewHandler creates a new handler
func NewHandler(dict *services.DictionaryService, logger logrus.FieldLogger) *Handler {
	return &Handler{
		dict:   dict,
		logger: logger,
	}
}

// ErrorResponse is the uniform body of every failed request
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// AddWordResponse is returned after a successful submission
type AddWordResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Word    *models.Entry `json:"word"`
}

// ImportFailureResponse reports an interrupted import with what was done before it stopped
type ImportFailureResponse struct {
	ErrorResponse
	*services.ImportResult
}

// HealthResponse reports liveness and the dictionary size
type HealthResponse struct {
	Status     string `json:"status"`
	TotalWords int    `json:"total_words"`
}

// writeJSON writes a JSON response, leaving non-ASCII text unescaped
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.Encode(data)
}

// writeError writes an error response
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Success: false, Error: message})
}

// errorStatus maps service errors to a status code and message
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, services.ErrMissingRequiredField):
		return http.StatusBadRequest, msgMissingField
	case errors.Is(err, services.ErrDuplicateWord):
		return http.StatusConflict, msgDuplicateWord
	default:
		return http.StatusInternalServerError, msgStorage
	}
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, message := errorStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.WithError(err).WithField("path", r.URL.Path).Error("request failed")
	}
	writeError(w, status, message)
}

// decodeEntryRequest reads a submission from a JSON or form-encoded body
func decodeEntryRequest(r *http.Request) (*models.CreateEntryRequest, error) {
	var req models.CreateEntryRequest

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			return nil, err
		}
		return &req, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	req = models.CreateEntryRequest{
		KabyeWord:           r.FormValue("kabye_word"),
		Phonetic:            r.FormValue("phonetic"),
		FrenchTranslation:   r.FormValue("french_translation"),
		GrammaticalCategory: r.FormValue("grammatical_category"),
		UsageExample:        r.FormValue("usage_example"),
		VerifiedBy:          r.FormValue("verified_by"),
	}
	return &req, nil
}

// AddWord handles POST /sauvegarder
func (h *Handler) AddWord(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	req, err := decodeEntryRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, msgInvalidBody)
		return
	}

	entry, err := h.dict.AddWord(r.Context(), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, AddWordResponse{
		Success: true,
		Message: fmt.Sprintf("✅ Mot \"%s\" sauvegardé !", entry.KabyeWord),
		Word:    entry,
	})
}

// ListWords handles GET /api/mots
func (h *Handler) ListWords(w http.ResponseWriter, r *http.Request) {
	words, err := h.dict.ListWords(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, words)
}

// SearchWords handles GET /api/recherche?q=
func (h *Handler) SearchWords(w http.ResponseWriter, r *http.Request) {
	words, err := h.dict.SearchWords(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, words)
}

// Statistics handles GET /api/statistiques
func (h *Handler) Statistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.dict.Statistics(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// ExportJSON handles GET /api/export
func (h *Handler) ExportJSON(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.dict.ExportJSON(r.Context(), &buf); err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Disposition", "attachment; filename=dictionnaire_kabye.json")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// ExportCSV handles GET /api/export.csv
func (h *Handler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.dict.ExportCSV(r.Context(), &buf); err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename=dictionnaire_kabye.csv")
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// ImportWords handles POST /api/import
func (h *Handler) ImportWords(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil { // 10 MB max
		writeError(w, http.StatusBadRequest, msgImportForm)
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, msgImportFile)
		return
	}
	defer file.Close()

	result, err := h.dict.ImportCSV(r.Context(), file)
	switch {
	case errors.Is(err, services.ErrStorageFailure):
		h.logger.WithError(err).WithField("imported", result.Imported).Error("import interrupted")
		writeJSON(w, http.StatusInternalServerError, ImportFailureResponse{
			ErrorResponse: ErrorResponse{Success: false, Error: msgImportStorage},
			ImportResult:  result,
		})
		return
	case err != nil:
		writeError(w, http.StatusBadRequest, msgImportCSV)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// HealthCheck handles GET /sante
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	total, err := h.dict.Count(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "OK", TotalWords: total})
}
