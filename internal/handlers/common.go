package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/lehigh-university-libraries/photolog/internal/captions"
	"github.com/lehigh-university-libraries/photolog/internal/export"
	"github.com/lehigh-university-libraries/photolog/internal/images"
	"github.com/lehigh-university-libraries/photolog/internal/models"
	"github.com/lehigh-university-libraries/photolog/internal/storage"
)

// maxUploadSize limits multipart bodies to one photo plus form fields
const maxUploadSize = images.MaxImageBytes + 1024*1024

// maxJSONEntrySize fits a base64 data URL of the largest photo
const maxJSONEntrySize = images.MaxImageBytes*4/3 + 1024*1024

type Handler struct {
	projectStore *storage.ProjectStore
	exporter     *export.Service
	images       *images.Provider
	captioner    captions.Provider
}

// New creates the API handler. captioner may be nil, in which case caption
// drafting answers 503.
func New(store *storage.ProjectStore, exporter *export.Service, provider *images.Provider, captioner captions.Provider) *Handler {
	return &Handler{
		projectStore: store,
		exporter:     exporter,
		images:       provider,
		captioner:    captioner,
	}
}

// Response helpers
func (h *Handler) writeJSON(w http.ResponseWriter, data interface{}) {
	h.writeJSONStatus(w, http.StatusOK, data)
}

func (h *Handler) writeJSONStatus(w http.ResponseWriter, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Unable to encode JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, message string, code int) {
	if code >= http.StatusInternalServerError {
		slog.Error(message, "status", code)
	} else {
		slog.Warn(message, "status", code)
	}
	http.Error(w, message, code)
}

// writeStoreError maps storage errors to status codes
func (h *Handler) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, storage.ErrProjectNotFound):
		h.writeError(w, "Project not found", http.StatusNotFound)
	case errors.Is(err, storage.ErrEntryNotFound):
		h.writeError(w, "Entry not found", http.StatusNotFound)
	case errors.Is(err, storage.ErrInvalidPosition):
		h.writeError(w, err.Error(), http.StatusBadRequest)
	default:
		h.writeError(w, err.Error(), http.StatusInternalServerError)
	}
}

// Project helpers
func (h *Handler) getProjectOrError(w http.ResponseWriter, projectID string) (*models.Project, bool) {
	project, exists := h.projectStore.Get(projectID)
	if !exists {
		h.writeError(w, "Project not found", http.StatusNotFound)
		return nil, false
	}
	return project, true
}

// readImageUpload reads the "file" part of a multipart request
func (h *Handler) readImageUpload(r *http.Request) (*models.ImageData, *multipart.FileHeader, error) {
	file, header, err := r.FormFile("file")
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, images.MaxImageBytes+1))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read file contents: %w", err)
	}

	img, err := h.images.FromBytes(data, header.Filename)
	if err != nil {
		return nil, nil, err
	}
	return img, header, nil
}
