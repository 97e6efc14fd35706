package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
)

type projectRequest struct {
	Title string `json:"title"`
}

func (h *Handler) HandleListProjects(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, h.projectStore.GetAll())
}

func (h *Handler) HandleCreateProject(w http.ResponseWriter, r *http.Request) {
	var request projectRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	project := h.projectStore.Create(request.Title)
	h.writeJSONStatus(w, http.StatusCreated, project)
}

func (h *Handler) HandleGetProject(w http.ResponseWriter, r *http.Request) {
	project, ok := h.getProjectOrError(w, chi.URLParam(r, "projectID"))
	if !ok {
		return
	}
	h.writeJSON(w, project)
}

// HandleUpdateProject renames a project
func (h *Handler) HandleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var request projectRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, "Invalid JSON: "+err.Error(), http.StatusBadRequest)
		return
	}

	project, err := h.projectStore.SetTitle(chi.URLParam(r, "projectID"), request.Title)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, project)
}

func (h *Handler) HandleDeleteProject(w http.ResponseWriter, r *http.Request) {
	projectID := chi.URLParam(r, "projectID")
	if _, ok := h.getProjectOrError(w, projectID); !ok {
		return
	}
	h.projectStore.Delete(projectID)
	w.WriteHeader(http.StatusNoContent)
}

// HandleSetLogo replaces the header logo with the uploaded image
func (h *Handler) HandleSetLogo(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	logo, _, err := h.readImageUpload(r)
	if err != nil {
		h.writeError(w, "Invalid logo: "+err.Error(), http.StatusBadRequest)
		return
	}

	project, err := h.projectStore.SetLogo(chi.URLParam(r, "projectID"), logo)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, project)
}

func (h *Handler) HandleDeleteLogo(w http.ResponseWriter, r *http.Request) {
	project, err := h.projectStore.SetLogo(chi.URLParam(r, "projectID"), nil)
	if err != nil {
		h.writeStoreError(w, err)
		return
	}
	h.writeJSON(w, project)
}
