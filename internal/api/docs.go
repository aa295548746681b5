package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reqstudio/reqstudio/internal/docservice"
)

// ListDocumentation handles GET /projects/{projectID}/documentation.
func (h *Handler) ListDocumentation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID := chi.URLParam(r, "projectID")

	if _, err := h.projects.GetProject(ctx, projectID); err != nil {
		writeError(w, err)
		return
	}
	pages, err := h.docs.PagesByProject(ctx, projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documentation": pages})
}

// CreateDocumentation handles POST /projects/{projectID}/documentation.
func (h *Handler) CreateDocumentation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID := chi.URLParam(r, "projectID")

	if _, err := h.projects.GetProject(ctx, projectID); err != nil {
		writeError(w, err)
		return
	}

	var req docservice.CreatePageParams
	if !decodeBody(w, r, &req) {
		return
	}
	req.ProjectID = projectID

	page, err := h.docs.CreatePage(ctx, req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"page": page})
}

// GetDocumentation handles GET /documentation/{docID}.
func (h *Handler) GetDocumentation(w http.ResponseWriter, r *http.Request) {
	page, err := h.docs.GetPage(r.Context(), chi.URLParam(r, "docID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"page": page})
}

// UpdateDocumentation handles PUT /documentation/{docID}.
func (h *Handler) UpdateDocumentation(w http.ResponseWriter, r *http.Request) {
	var req docservice.UpdatePageParams
	if !decodeBody(w, r, &req) {
		return
	}
	page, err := h.docs.UpdatePage(r.Context(), chi.URLParam(r, "docID"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"page": page})
}

// DeleteDocumentation handles DELETE /documentation/{docID}.
func (h *Handler) DeleteDocumentation(w http.ResponseWriter, r *http.Request) {
	if err := h.docs.DeletePage(r.Context(), chi.URLParam(r, "docID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
