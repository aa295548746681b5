package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reqstudio/reqstudio/internal/projectservice"
)

// ListProjects handles GET /projects.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.ListProjects(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"projects": projects})
}

// CreateProject handles POST /projects.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req projectservice.CreateProjectParams
	if !decodeBody(w, r, &req) {
		return
	}
	project, err := h.projects.CreateProject(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"project": project})
}

// GetProject handles GET /projects/{projectID}, returning the project
// composed with its stats.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	project, err := h.projects.GetProjectWithStats(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"project": project})
}

// UpdateProject handles PUT /projects/{projectID}.
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	var req projectservice.UpdateProjectParams
	if !decodeBody(w, r, &req) {
		return
	}
	project, err := h.projects.UpdateProject(r.Context(), chi.URLParam(r, "projectID"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"project": project})
}

// DeleteProject handles DELETE /projects/{projectID}.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := h.projects.DeleteProject(r.Context(), chi.URLParam(r, "projectID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Backup handles POST /backup, triggering a fire-and-forget copy of the live
// database. Failures surface only in the log.
func (h *Handler) Backup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Path string `json:"path"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("path is required"))
		return
	}
	h.store.BackupAsync(req.Path)
	writeJSON(w, http.StatusAccepted, map[string]any{"path": req.Path})
}
