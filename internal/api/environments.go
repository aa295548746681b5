package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reqstudio/reqstudio/internal/envservice"
)

// ListEnvironments handles GET /projects/{projectID}/environments.
func (h *Handler) ListEnvironments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID := chi.URLParam(r, "projectID")

	if _, err := h.projects.GetProject(ctx, projectID); err != nil {
		writeError(w, err)
		return
	}
	envs, err := h.envs.EnvironmentsByProject(ctx, projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"environments": envs})
}

// CreateEnvironment handles POST /projects/{projectID}/environments.
func (h *Handler) CreateEnvironment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID := chi.URLParam(r, "projectID")

	if _, err := h.projects.GetProject(ctx, projectID); err != nil {
		writeError(w, err)
		return
	}

	var req envservice.CreateEnvironmentParams
	if !decodeBody(w, r, &req) {
		return
	}
	req.ProjectID = projectID

	env, err := h.envs.CreateEnvironment(ctx, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"environment": env})
}

// GetEnvironment handles GET /environments/{envID}.
func (h *Handler) GetEnvironment(w http.ResponseWriter, r *http.Request) {
	env, err := h.envs.GetEnvironment(r.Context(), chi.URLParam(r, "envID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"environment": env})
}

// UpdateEnvironment handles PUT /environments/{envID}.
func (h *Handler) UpdateEnvironment(w http.ResponseWriter, r *http.Request) {
	var req envservice.UpdateEnvironmentParams
	if !decodeBody(w, r, &req) {
		return
	}
	env, err := h.envs.UpdateEnvironment(r.Context(), chi.URLParam(r, "envID"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"environment": env})
}

// DeleteEnvironment handles DELETE /environments/{envID}.
func (h *Handler) DeleteEnvironment(w http.ResponseWriter, r *http.Request) {
	if err := h.envs.DeleteEnvironment(r.Context(), chi.URLParam(r, "envID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
