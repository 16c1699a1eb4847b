package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

// NewRouter creates a router serving the JSON endpoints only
func NewRouter(h *Handler, logger logrus.FieldLogger) *chi.Mux {
	r := chi.NewRouter()
	useMiddleware(r, logger)
	mountAPI(r, h)
	return r
}

// NewWebRouter creates a router with both the HTML pages and the JSON endpoints
func NewWebRouter(h *Handler, wh *WebHandler, logger logrus.FieldLogger) *chi.Mux {
	r := chi.NewRouter()
	useMiddleware(r, logger)

	// Web routes (HTML pages)
	r.Get("/", wh.Form)
	r.Get("/mots", wh.List)
	r.Get("/recherche", wh.Search)
	r.Get("/statistiques", wh.Stats)

	mountAPI(r, h)
	return r
}

func useMiddleware(r chi.Router, logger logrus.FieldLogger) {
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(Recoverer(logger))
	r.Use(Logger(logger))
	r.Use(CORS)
}

func mountAPI(r chi.Router, h *Handler) {
	// Health check endpoint
	r.Get("/sante", h.HealthCheck)
	r.Get("/santé", h.HealthCheck)

	// Submission from the form page
	r.Post("/sauvegarder", h.AddWord)

	r.Route("/api", func(r chi.Router) {
		r.Use(JSONContentType)

		r.Get("/mots", h.ListWords)
		r.Get("/recherche", h.SearchWords)
		r.Get("/statistiques", h.Statistics)
		r.Get("/export", h.ExportJSON)
		r.Get("/export.csv", h.ExportCSV)
		r.Post("/import", h.ImportWords)
	})
}
