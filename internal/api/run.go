package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// RunEndpoint handles POST /endpoints/{endpointID}/run, exercising the
// endpoint against its live target and recording the round trip.
func (h *Handler) RunEndpoint(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EnvironmentID string `json:"environmentId"`
	}
	// The body is optional; a bare POST runs against the project base URL.
	if r.ContentLength != 0 {
		if !decodeBody(w, r, &req) {
			return
		}
	}
	result, err := h.runner.Run(r.Context(), chi.URLParam(r, "endpointID"), req.EnvironmentID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"result": result})
}

// EndpointHistory handles GET /endpoints/{endpointID}/history.
func (h *Handler) EndpointHistory(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	history, err := h.runner.History(r.Context(), chi.URLParam(r, "endpointID"), limit)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": history})
}
