// Package runner exercises one endpoint against its live target and appends
// the round trip to the request history.
package runner

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/reqstudio/reqstudio/internal/apperr"
	"github.com/reqstudio/reqstudio/internal/jsonval"
	"github.com/reqstudio/reqstudio/internal/store"
)

// fallback target when neither the project nor an environment sets one.
const defaultBaseURL = "https://api.example.com"

// maxResponseBytes caps how much of a response body is captured.
const maxResponseBytes = 1 << 20

// Runner executes endpoint requests with a bounded client.
type Runner struct {
	store  *store.Store
	client *http.Client
}

// New creates a Runner. A zero timeout leaves the client unbounded.
func New(st *store.Store, timeout time.Duration) *Runner {
	return &Runner{
		store:  st,
		client: &http.Client{Timeout: timeout},
	}
}

// Result is the snapshot returned to the caller after a run.
type Result struct {
	HistoryID string        `json:"historyId"`
	URL       string        `json:"url"`
	Status    int           `json:"status"`
	Duration  int64         `json:"duration"`
	Body      jsonval.Value `json:"body,omitzero"`
}

// Run executes the endpoint against its resolved base URL. When
// environmentID is set, the environment's base URL (with {{var}}
// substitution applied) overrides the project's. The round trip is recorded
// as an immutable history row before returning.
func (r *Runner) Run(ctx context.Context, endpointID, environmentID string) (*Result, error) {
	endpoint, err := r.store.GetEndpoint(endpointID)
	if err != nil {
		return nil, err
	}
	project, err := r.store.GetProject(endpoint.ProjectID)
	if err != nil {
		return nil, err
	}

	baseURL := project.BaseURL
	if environmentID != "" {
		env, err := r.store.GetEnvironment(environmentID)
		if err != nil {
			return nil, err
		}
		if env.ProjectID != endpoint.ProjectID {
			return nil, fmt.Errorf("%w: environment belongs to a different project", apperr.ErrValidation)
		}
		baseURL = env.ResolveBaseURL()
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	fullURL := baseURL + endpoint.Path

	var reqBody io.Reader
	sendBody := endpoint.Method != http.MethodGet && endpoint.Method != http.MethodHead && !endpoint.RequestBody.IsZero()
	if sendBody {
		reqBody = bytes.NewReader([]byte(endpoint.RequestBody.String()))
	}

	req, err := http.NewRequestWithContext(ctx, endpoint.Method, fullURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", apperr.ErrValidation, err)
	}
	req.Header.Set("Content-Type", "application/json")

	snapshot := map[string]any{
		"method": endpoint.Method,
		"url":    fullURL,
		"headers": map[string]string{
			"Content-Type": "application/json",
		},
	}
	if sendBody {
		snapshot["body"] = endpoint.RequestBody
	}
	requestVal, err := jsonval.FromAny(snapshot)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	resp, err := r.client.Do(req)
	duration := time.Since(start).Milliseconds()
	if err != nil {
		return nil, fmt.Errorf("runner: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("runner: read response: %w", err)
	}
	responseVal := sniffBody(resp.Header.Get("Content-Type"), body)

	history := &store.RequestHistory{
		ID:            uuid.NewString(),
		EndpointID:    endpoint.ID,
		EnvironmentID: environmentID,
		Request:       requestVal,
		Response:      responseVal,
		Status:        resp.StatusCode,
		Duration:      duration,
		CreatedAt:     time.Now().UTC(),
	}
	if err := r.store.InsertHistory(history); err != nil {
		return nil, err
	}

	return &Result{
		HistoryID: history.ID,
		URL:       fullURL,
		Status:    resp.StatusCode,
		Duration:  duration,
		Body:      responseVal,
	}, nil
}

// History returns an endpoint's recorded runs, newest first.
func (r *Runner) History(_ context.Context, endpointID string, limit int) ([]store.RequestHistory, error) {
	if _, err := r.store.GetEndpoint(endpointID); err != nil {
		return nil, err
	}
	return r.store.HistoryByEndpoint(endpointID, limit)
}

// sniffBody parses JSON responses into structured form and wraps everything
// else as a plain string.
func sniffBody(contentType string, body []byte) jsonval.Value {
	if len(bytes.TrimSpace(body)) == 0 {
		return jsonval.Value{}
	}
	if strings.Contains(contentType, "application/json") {
		if v, err := jsonval.Parse(body); err == nil {
			return v
		}
	}
	v, err := jsonval.FromAny(string(body))
	if err != nil {
		return jsonval.Value{}
	}
	return v
}
