package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/lehigh-university-libraries/photolog/internal/render"
)

// HandleExport renders the project as a PDF download. Edits made while the
// export runs are not included.
func (h *Handler) HandleExport(w http.ResponseWriter, r *http.Request) {
	project, ok := h.getProjectOrError(w, chi.URLParam(r, "projectID"))
	if !ok {
		return
	}

	meta, entries := project.Snapshot()

	var buf bytes.Buffer
	result, err := h.exporter.Export(r.Context(), meta, entries, &buf)
	if errors.Is(err, render.ErrNothingToExport) {
		slog.Info("Nothing to export", "project_id", project.ID)
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if err != nil {
		if r.Context().Err() != nil {
			slog.Info("Export cancelled", "project_id", project.ID)
			return
		}
		h.writeError(w, "Failed to export project: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	if len(result.Degraded) > 0 {
		w.Header().Set("X-Degraded-Entries", strconv.Itoa(len(result.Degraded)))
	}
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("Unable to write export", "project_id", project.ID, "err", err)
	}
}
