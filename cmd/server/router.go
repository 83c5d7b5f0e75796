package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/studyforge/studyforge/internal/api"
	apiMiddleware "github.com/studyforge/studyforge/internal/api/middleware"
)

// setupRouter creates and configures the application router with all routes
// and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)
	// go-chi/cors falls back to allowing every origin when the list is
	// empty, so an empty list means no CORS handling at all instead.
	if len(app.config.CORS.AllowedOrigins) > 0 {
		r.Use(apiMiddleware.CORS(app.config.CORS.AllowedOrigins))
	}

	extractHandler := api.NewExtractHandler(app.extractor)
	studyHandler := api.NewStudyHandler(app.study)

	r.Route("/api", func(r chi.Router) {
		r.Post("/extract", extractHandler.ExtractFromURL)
		r.Post("/upload", extractHandler.UploadPDF)
		r.Post("/process", studyHandler.Process)
		r.Post("/anki", studyHandler.GenerateDeck)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("Failed to write health check response", "error", err)
		}
	})

	return r
}
