// Package endpointservice implements the endpoint data-management rules:
// field validation, (method, path) uniqueness, folder grouping, ordering,
// duplication, stats aggregation, and search.
package endpointservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/reqstudio/reqstudio/internal/apperr"
	"github.com/reqstudio/reqstudio/internal/jsonval"
	"github.com/reqstudio/reqstudio/internal/store"
)

// DefaultFolder is the fallback grouping bucket for endpoints without one.
const DefaultFolder = "General"

var httpMethods = []any{"GET", "POST", "PUT", "DELETE", "PATCH", "HEAD", "OPTIONS"}

// Service coordinates endpoint operations.
type Service struct {
	store *store.Store
}

// NewService creates a new endpoint service.
func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// CreateEndpointParams are the caller-supplied fields for a new endpoint.
type CreateEndpointParams struct {
	ProjectID     string        `json:"projectId"`
	Method        string        `json:"method"`
	Path          string        `json:"path"`
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

// Validate checks the required fields and the method whitelist.
func (p CreateEndpointParams) Validate() error {
	return validation.ValidateStruct(&p,
		validation.Field(&p.ProjectID, validation.Required.Error("endpoint must be assigned to a project")),
		validation.Field(&p.Method, validation.Required.Error("http method is required"), validation.In(httpMethods...)),
		validation.Field(&p.Path, validation.Required.Error("endpoint path cannot be empty")),
		validation.Field(&p.Title, validation.Required.Error("endpoint title is required")),
	)
}

// UpdateEndpointParams carries a partial update; nil fields are left as-is.
type UpdateEndpointParams struct {
	Method        *string        `json:"method"`
	Path          *string        `json:"path"`
	Title         *string        `json:"title"`
	Description   *string        `json:"description"`
	OperationID   *string        `json:"operationId"`
	Tags          *[]string      `json:"tags"`
	RequestBody   *jsonval.Value `json:"requestBody"`
	Responses     *jsonval.Value `json:"responses"`
	Parameters    *jsonval.Value `json:"parameters"`
	Documentation *string        `json:"documentation"`
	Deprecated    *bool          `json:"deprecated"`
	Folder        *string        `json:"folder"`
	SortOrder     *int           `json:"sortOrder"`
}

// Stats aggregates one project's endpoints in a single pass.
type Stats struct {
	TotalEndpoints  int            `json:"totalEndpoints"`
	MethodCounts    map[string]int `json:"methodCounts"`
	FolderCounts    map[string]int `json:"folderCounts"`
	DeprecatedCount int            `json:"deprecatedCount"`
	DocumentedCount int            `json:"documentedCount"`
}

// CreateEndpoint validates, normalizes, and persists a new endpoint.
// The path gains a leading slash when missing, the folder defaults to
// General, and a duplicate (method, path) within the project is rejected.
func (s *Service) CreateEndpoint(_ context.Context, p CreateEndpointParams) (*store.Endpoint, error) {
	p.Path = strings.TrimSpace(p.Path)
	p.Title = strings.TrimSpace(p.Title)
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrValidation, err)
	}
	if !strings.HasPrefix(p.Path, "/") {
		p.Path = "/" + p.Path
	}
	if p.Folder == "" {
		p.Folder = DefaultFolder
	}

	if err := s.checkUnique(p.ProjectID, p.Method, p.Path, ""); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	endpoint := &store.Endpoint{
		ID:            uuid.NewString(),
		ProjectID:     p.ProjectID,
		Method:        p.Method,
		Path:          p.Path,
		Title:         p.Title,
		Description:   p.Description,
		Tags:          p.Tags,
		OperationID:   p.OperationID,
		Deprecated:    p.Deprecated,
		RequestBody:   p.RequestBody,
		Responses:     p.Responses,
		Parameters:    p.Parameters,
		Documentation: p.Documentation,
		Folder:        p.Folder,
		SortOrder:     p.SortOrder,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.InsertEndpoint(endpoint); err != nil {
		return nil, err
	}
	return endpoint, nil
}

// GetEndpoint returns one endpoint.
func (s *Service) GetEndpoint(_ context.Context, id string) (*store.Endpoint, error) {
	return s.store.GetEndpoint(id)
}

// EndpointsByProject returns a project's endpoints in display order.
func (s *Service) EndpointsByProject(_ context.Context, projectID string) ([]store.Endpoint, error) {
	return s.store.EndpointsByProject(projectID)
}

// UpdateEndpoint merges the supplied fields into the existing record. When
// method or path changes, the uniqueness invariant is re-checked against the
// merged values, excluding the record itself.
func (s *Service) UpdateEndpoint(_ context.Context, id string, p UpdateEndpointParams) (*store.Endpoint, error) {
	existing, err := s.store.GetEndpoint(id)
	if err != nil {
		return nil, err
	}

	if p.Method != nil || p.Path != nil {
		method := existing.Method
		if p.Method != nil {
			method = *p.Method
		}
		path := existing.Path
		if p.Path != nil {
			path = strings.TrimSpace(*p.Path)
			if path == "" {
				return nil, fmt.Errorf("%w: endpoint path cannot be empty", apperr.ErrValidation)
			}
			if !strings.HasPrefix(path, "/") {
				path = "/" + path
			}
		}
		if err := validation.Validate(method, validation.In(httpMethods...)); err != nil {
			return nil, fmt.Errorf("%w: method: %v", apperr.ErrValidation, err)
		}
		if err := s.checkUnique(existing.ProjectID, method, path, id); err != nil {
			return nil, err
		}
		existing.Method = method
		existing.Path = path
	}

	if p.Title != nil {
		if strings.TrimSpace(*p.Title) == "" {
			return nil, fmt.Errorf("%w: endpoint title is required", apperr.ErrValidation)
		}
		existing.Title = strings.TrimSpace(*p.Title)
	}
	if p.Description != nil {
		existing.Description = *p.Description
	}
	if p.OperationID != nil {
		existing.OperationID = *p.OperationID
	}
	if p.Tags != nil {
		existing.Tags = *p.Tags
	}
	if p.RequestBody != nil {
		existing.RequestBody = *p.RequestBody
	}
	if p.Responses != nil {
		existing.Responses = *p.Responses
	}
	if p.Parameters != nil {
		existing.Parameters = *p.Parameters
	}
	if p.Documentation != nil {
		existing.Documentation = *p.Documentation
	}
	if p.Deprecated != nil {
		existing.Deprecated = *p.Deprecated
	}
	if p.Folder != nil {
		existing.Folder = *p.Folder
		if existing.Folder == "" {
			existing.Folder = DefaultFolder
		}
	}
	if p.SortOrder != nil {
		existing.SortOrder = *p.SortOrder
	}
	existing.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateEndpoint(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteEndpoint hard-deletes an endpoint.
func (s *Service) DeleteEndpoint(_ context.Context, id string) error {
	return s.store.DeleteEndpoint(id)
}

// EndpointsByFolder partitions a project's endpoints into folder buckets,
// preserving display order within each bucket.
func (s *Service) EndpointsByFolder(_ context.Context, projectID string) (map[string][]store.Endpoint, error) {
	endpoints, err := s.store.EndpointsByProject(projectID)
	if err != nil {
		return nil, err
	}
	grouped := map[string][]store.Endpoint{}
	for _, e := range endpoints {
		folder := e.Folder
		if folder == "" {
			folder = DefaultFolder
		}
		grouped[folder] = append(grouped[folder], e)
	}
	return grouped, nil
}

// ReorderEndpoints atomically assigns each id its list index as sort order.
func (s *Service) ReorderEndpoints(_ context.Context, ids []string) error {
	if len(ids) == 0 {
		return fmt.Errorf("%w: endpoint ids are required", apperr.ErrValidation)
	}
	return s.store.UpdateEndpointOrder(ids)
}

// DuplicateEndpoint clones a record with suffixed path, title, and
// operationId, then funnels the clone through CreateEndpoint so every normal
// validation rule reapplies.
func (s *Service) DuplicateEndpoint(ctx context.Context, id string) (*store.Endpoint, error) {
	original, err := s.store.GetEndpoint(id)
	if err != nil {
		return nil, err
	}

	operationID := original.OperationID
	if operationID != "" {
		operationID += "_copy"
	}
	return s.CreateEndpoint(ctx, CreateEndpointParams{
		ProjectID:     original.ProjectID,
		Method:        original.Method,
		Path:          original.Path + "-copy",
		Title:         original.Title + " (Copy)",
		Description:   original.Description,
		OperationID:   operationID,
		Tags:          original.Tags,
		RequestBody:   original.RequestBody,
		Responses:     original.Responses,
		Parameters:    original.Parameters,
		Documentation: original.Documentation,
		Deprecated:    original.Deprecated,
		Folder:        original.Folder,
		SortOrder:     original.SortOrder,
	})
}

// EndpointStats computes the per-project aggregates in one pass.
func (s *Service) EndpointStats(_ context.Context, projectID string) (*Stats, error) {
	endpoints, err := s.store.EndpointsByProject(projectID)
	if err != nil {
		return nil, err
	}

	stats := &Stats{
		TotalEndpoints: len(endpoints),
		MethodCounts:   map[string]int{},
		FolderCounts:   map[string]int{},
	}
	for _, e := range endpoints {
		stats.MethodCounts[e.Method]++
		folder := e.Folder
		if folder == "" {
			folder = DefaultFolder
		}
		stats.FolderCounts[folder]++
		if e.Deprecated {
			stats.DeprecatedCount++
		}
		if strings.TrimSpace(e.Documentation) != "" {
			stats.DocumentedCount++
		}
	}
	return stats, nil
}

// SearchEndpoints returns every endpoint whose title, path, description,
// method, or folder contains the query, case-insensitively.
func (s *Service) SearchEndpoints(_ context.Context, projectID, query string) ([]store.Endpoint, error) {
	endpoints, err := s.store.EndpointsByProject(projectID)
	if err != nil {
		return nil, err
	}

	term := strings.ToLower(query)
	matches := []store.Endpoint{}
	for _, e := range endpoints {
		if strings.Contains(strings.ToLower(e.Title), term) ||
			strings.Contains(strings.ToLower(e.Path), term) ||
			strings.Contains(strings.ToLower(e.Description), term) ||
			strings.Contains(strings.ToLower(e.Method), term) ||
			strings.Contains(strings.ToLower(e.Folder), term) {
			matches = append(matches, e)
		}
	}
	return matches, nil
}

// ValidateEndpointPath answers whether (method, path) is free within the
// project, ignoring the endpoint identified by excludeID.
func (s *Service) ValidateEndpointPath(_ context.Context, projectID, method, path, excludeID string) (bool, error) {
	err := s.checkUnique(projectID, method, path, excludeID)
	if err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *Service) checkUnique(projectID, method, path, excludeID string) error {
	existing, err := s.store.EndpointByMethodAndPath(projectID, method, path)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil
		}
		return err
	}
	if excludeID != "" && existing.ID == excludeID {
		return nil
	}
	return fmt.Errorf("%w: endpoint %s %s already exists in this project", apperr.ErrConflict, method, path)
}
