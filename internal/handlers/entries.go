package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/lehigh-university-libraries/photolog/internal/captions"
	"github.com/lehigh-university-libraries/photolog/internal/models"
)

// HandleAddEntry appends a photo and its description. The photo comes
// either from a multipart "file" part or, for JSON requests, from
// image_url (http(s) or data URL).
func (h *Handler) HandleAddEntry(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	if _, ok := h.getProjectOrError(w, projectID); !ok {
		return
	}

	var (
		img         *models.ImageData
		description string
		err         error
	)

	contentType := r.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		r.Body = http.MaxBytesReader(w, r.Body, maxJSONEntrySize)
		img, description, err = h.entryFromJSON(r)
	} else {
		img, description, err = h.entryFromForm(w, r)
	}
	if err != nil {
		h.writeError(w, err.Error(), http.StatusBadRequest)
		return
	}

	entry := models.NewEntry(img, description)
	project, err := h.projectStore.AddEntry(projectID, entry)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}

	slog.Info("Entry added", "project_id", projectID, "entry_id", entry.ID, "entries", len(project.Entries))
	h.writeJSONStatus(w, http.StatusCreated, entry)
}

func (h *Handler) entryFromJSON(r *http.Request) (*models.ImageData, string, error) {
	var request struct {
		ImageURL    string `json:"image_url"`
		Description string `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		return nil, "", fmt.Errorf("invalid JSON: %w", err)
	}

	if request.ImageURL == "" {
		return nil, "", errors.New("image_url is required")
	}
	if strings.TrimSpace(request.Description) == "" {
		return nil, "", errors.New("description is required")
	}

	var (
		img *models.ImageData
		err error
	)
	switch {
	case strings.HasPrefix(request.ImageURL, "data:"):
		img, err = h.images.FromDataURL(request.ImageURL)
	case strings.HasPrefix(request.ImageURL, "http://"), strings.HasPrefix(request.ImageURL, "https://"):
		img, err = h.images.FromURL(r.Context(), request.ImageURL)
	default:
		return nil, "", errors.New("image_url must be an http(s) or data URL")
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to process image URL: %w", err)
	}

	return img, request.Description, nil
}

func (h *Handler) entryFromForm(w http.ResponseWriter, r *http.Request) (*models.ImageData, string, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	img, _, err := h.readImageUpload(r)
	if err != nil {
		return nil, "", err
	}

	description := r.FormValue("description")
	if strings.TrimSpace(description) == "" {
		return nil, "", errors.New("description is required")
	}
	return img, description, nil
}

func (h *Handler) HandleClearEntries(w http.ResponseWriter, r *http.Request) {
	project, err := h.projectStore.ClearEntries(chi.URLParam(r, "projectID"))
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, project)
}

func (h *Handler) HandleDeleteEntry(w http.ResponseWriter, r *http.Request) {
	project, err := h.projectStore.RemoveEntry(chi.URLParam(r, "projectID"), chi.URLParam(r, "entryID"))
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, project)
}

// HandleMoveEntry moves an entry to the zero-based position "to"
func (h *Handler) HandleMoveEntry(w http.ResponseWriter, r *http.Request) {
	var request struct {
		To *int `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}
	if request.To == nil {
		h.writeError(w, "to is required", http.StatusBadRequest)
		return
	}

	project, err := h.projectStore.MoveEntry(chi.URLParam(r, "projectID"), chi.URLParam(r, "entryID"), *request.To)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, project)
}

// HandleCaptionEntry drafts a description for the entry's photo. The draft
// is stored only when the request sets "apply".
func (h *Handler) HandleCaptionEntry(w http.ResponseWriter, r *http.Request) {
	if h.captioner == nil {
		h.writeError(w, "Caption drafting is not configured", http.StatusServiceUnavailable)
		return
	}

	projectID := chi.URLParam(r, "projectID")
	entryID := chi.URLParam(r, "entryID")

	project, ok := h.getProjectOrError(w, projectID)
	if !ok {
		return
	}

	var entry *models.Entry
	for i := range project.Entries {
		if project.Entries[i].ID == entryID {
			entry = &project.Entries[i]
			break
		}
	}
	if entry == nil {
		h.writeError(w, "Entry not found", http.StatusNotFound)
		return
	}

	var request struct {
		Prompt string `json:"prompt"`
		Apply  bool   `json:"apply"`
	}
	// an empty body means default options
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil && !errors.Is(err, io.EOF) {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	description, err := h.captioner.Describe(r.Context(), entry.Image, request.Prompt)
	if errors.Is(err, captions.ErrNoImage) {
		h.writeError(w, "Entry has no photo to describe", http.StatusBadRequest)
		return
	}
	if err != nil {
		h.writeError(w, "Failed to draft description: "+err.Error(), http.StatusBadGateway)
		return
	}

	if request.Apply {
		if _, err := h.projectStore.SetDescription(projectID, entryID, description); err != nil {
			h.writeStoreError(w, err)
			return
		}
	}

	h.writeJSON(w, map[string]any{
		"entry_id":    entryID,
		"description": description,
		"applied":     request.Apply,
	})
}
