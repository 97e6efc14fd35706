package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
)

const (
	// ExportRateLimit caps PDF exports per client IP
	ExportRateLimit = 10
	// EntryRateLimit caps photo additions per client IP
	EntryRateLimit = 120
)

// Routes builds the API router
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/healthcheck", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("OK")); err != nil {
			slog.Error("Unable to write healthcheck", "err", err)
		}
	})

	r.Route("/api/projects", func(r chi.Router) {
		r.Get("/", h.HandleListProjects)
		r.Post("/", h.HandleCreateProject)

		r.Route("/{projectID}", func(r chi.Router) {
			r.Get("/", h.HandleGetProject)
			r.Put("/", h.HandleUpdateProject)
			r.Delete("/", h.HandleDeleteProject)

			r.Post("/logo", h.HandleSetLogo)
			r.Delete("/logo", h.HandleDeleteLogo)

			r.With(httprate.LimitByIP(EntryRateLimit, time.Minute)).Post("/entries", h.HandleAddEntry)
			r.Delete("/entries", h.HandleClearEntries)
			r.Delete("/entries/{entryID}", h.HandleDeleteEntry)
			r.Post("/entries/{entryID}/move", h.HandleMoveEntry)
			r.Post("/entries/{entryID}/caption", h.HandleCaptionEntry)

			r.With(httprate.LimitByIP(ExportRateLimit, time.Minute)).Get("/export", h.HandleExport)
		})
	})

	return r
}
