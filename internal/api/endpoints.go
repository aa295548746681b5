package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/reqstudio/reqstudio/internal/endpointservice"
	"github.com/reqstudio/reqstudio/internal/jsonval"
)

// ListProjectEndpoints handles GET /projects/{projectID}/endpoints. The
// response carries the flat list, the folder grouping, and the stats in one
// envelope so the editor can render its sidebar from a single fetch.
func (h *Handler) ListProjectEndpoints(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID := chi.URLParam(r, "projectID")

	if _, err := h.projects.GetProject(ctx, projectID); err != nil {
		writeError(w, err)
		return
	}
	endpoints, err := h.endpoints.EndpointsByProject(ctx, projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	grouped, err := h.endpoints.EndpointsByFolder(ctx, projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	stats, err := h.endpoints.EndpointStats(ctx, projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"endpoints":        endpoints,
		"groupedEndpoints": grouped,
		"stats":            stats,
	})
}

// CreateProjectEndpoint handles POST /projects/{projectID}/endpoints.
// Method defaults to GET and title to "New Endpoint" so the editor can
// create a stub from just a path.
func (h *Handler) CreateProjectEndpoint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projectID := chi.URLParam(r, "projectID")

	if _, err := h.projects.GetProject(ctx, projectID); err != nil {
		writeError(w, err)
		return
	}

	var req struct {
		Path          string        `json:"path"`
		Method        string        `json:"method"`
		Title         string        `json:"title"`
		Description   string        `json:"description"`
		OperationID   string        `json:"operationId"`
		Tags          []string      `json:"tags"`
		RequestBody   jsonval.Value `json:"requestBody"`
		Responses     jsonval.Value `json:"responses"`
		Parameters    jsonval.Value `json:"parameters"`
		Documentation string        `json:"documentation"`
		Deprecated    bool          `json:"deprecated"`
		Folder        string        `json:"folder"`
		SortOrder     int           `json:"sortOrder"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Method == "" {
		req.Method = http.MethodGet
	}
	if req.Title == "" {
		req.Title = "New Endpoint"
	}

	endpoint, err := h.endpoints.CreateEndpoint(ctx, endpointservice.CreateEndpointParams{
		ProjectID:     projectID,
		Method:        req.Method,
		Path:          req.Path,
		Title:         req.Title,
		Description:   req.Description,
		OperationID:   req.OperationID,
		Tags:          req.Tags,
		RequestBody:   req.RequestBody,
		Responses:     req.Responses,
		Parameters:    req.Parameters,
		Documentation: req.Documentation,
		Deprecated:    req.Deprecated,
		Folder:        req.Folder,
		SortOrder:     req.SortOrder,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"endpoint": endpoint})
}

// GetEndpoint handles GET /endpoints/{endpointID}.
func (h *Handler) GetEndpoint(w http.ResponseWriter, r *http.Request) {
	endpoint, err := h.endpoints.GetEndpoint(r.Context(), chi.URLParam(r, "endpointID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"endpoint": endpoint})
}

// UpdateEndpoint handles PUT /endpoints/{endpointID}.
func (h *Handler) UpdateEndpoint(w http.ResponseWriter, r *http.Request) {
	var req endpointservice.UpdateEndpointParams
	if !decodeBody(w, r, &req) {
		return
	}
	endpoint, err := h.endpoints.UpdateEndpoint(r.Context(), chi.URLParam(r, "endpointID"), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"endpoint": endpoint})
}

// DeleteEndpoint handles DELETE /endpoints/{endpointID}.
func (h *Handler) DeleteEndpoint(w http.ResponseWriter, r *http.Request) {
	if err := h.endpoints.DeleteEndpoint(r.Context(), chi.URLParam(r, "endpointID")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DuplicateEndpoint handles POST /endpoints/{endpointID}/duplicate.
func (h *Handler) DuplicateEndpoint(w http.ResponseWriter, r *http.Request) {
	endpoint, err := h.endpoints.DuplicateEndpoint(r.Context(), chi.URLParam(r, "endpointID"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"endpoint": endpoint})
}

// ReorderEndpoints handles PUT /projects/{projectID}/endpoints/reorder.
func (h *Handler) ReorderEndpoints(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EndpointIDs []string `json:"endpointIds"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if err := h.endpoints.ReorderEndpoints(r.Context(), req.EndpointIDs); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SearchEndpoints handles GET /projects/{projectID}/endpoints/search.
func (h *Handler) SearchEndpoints(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query().Get("q")
	if q == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("query parameter 'q' is required"))
		return
	}
	results, err := h.endpoints.SearchEndpoints(r.Context(), chi.URLParam(r, "projectID"), q)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"endpoints": results})
}

// ValidateEndpointPath handles GET /projects/{projectID}/endpoints/validate-path,
// the read-only pre-submit collision check.
func (h *Handler) ValidateEndpointPath(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	method := q.Get("method")
	path := q.Get("path")
	if method == "" || path == "" {
		writeJSON(w, http.StatusBadRequest, errorBody("method and path are required"))
		return
	}
	valid, err := h.endpoints.ValidateEndpointPath(r.Context(), chi.URLParam(r, "projectID"),
		method, path, q.Get("excludeId"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"valid": valid})
}
