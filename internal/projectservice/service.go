// Package projectservice implements validation and orchestration for
// project records atop the store.
package projectservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/reqstudio/reqstudio/internal/apperr"
	"github.com/reqstudio/reqstudio/internal/store"
)

// Service coordinates project operations.
type Service struct {
	store *store.Store
}

// NewService creates a new project service.
func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// CreateProjectParams are the caller-supplied fields for a new project.
type CreateProjectParams struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Version     string `json:"version"`
	BaseURL     string `json:"baseUrl"`
}

// UpdateProjectParams carries a partial update; nil fields are left as-is.
type UpdateProjectParams struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Version     *string `json:"version"`
	BaseURL     *string `json:"baseUrl"`
}

// ProjectWithStats is the single aggregate read composing a project with its
// endpoint/documentation counters.
type ProjectWithStats struct {
	store.Project
	Stats store.ProjectStats `json:"stats"`
}

// CreateProject validates and persists a new project. Version defaults to
// "1.0.0" when absent.
func (s *Service) CreateProject(_ context.Context, p CreateProjectParams) (*store.Project, error) {
	if strings.TrimSpace(p.Name) == "" {
		return nil, fmt.Errorf("%w: project name cannot be empty", apperr.ErrValidation)
	}
	if p.Version == "" {
		p.Version = "1.0.0"
	}

	now := time.Now().UTC()
	project := &store.Project{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(p.Name),
		Description: p.Description,
		Version:     p.Version,
		BaseURL:     p.BaseURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.InsertProject(project); err != nil {
		return nil, err
	}
	return project, nil
}

// GetProject returns one project.
func (s *Service) GetProject(_ context.Context, id string) (*store.Project, error) {
	return s.store.GetProject(id)
}

// ListProjects returns all projects, most recently updated first.
func (s *Service) ListProjects(_ context.Context) ([]store.Project, error) {
	return s.store.ListProjects()
}

// UpdateProject merges the supplied fields into the existing record and
// refreshes updatedAt. A blank name is rejected.
func (s *Service) UpdateProject(_ context.Context, id string, p UpdateProjectParams) (*store.Project, error) {
	existing, err := s.store.GetProject(id)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		if strings.TrimSpace(*p.Name) == "" {
			return nil, fmt.Errorf("%w: project name cannot be empty", apperr.ErrValidation)
		}
		existing.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		existing.Description = *p.Description
	}
	if p.Version != nil {
		existing.Version = *p.Version
	}
	if p.BaseURL != nil {
		existing.BaseURL = *p.BaseURL
	}
	existing.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateProject(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteProject hard-deletes a project and everything it owns.
func (s *Service) DeleteProject(_ context.Context, id string) error {
	return s.store.DeleteProject(id)
}

// GetProjectWithStats composes the project read with its counters.
func (s *Service) GetProjectWithStats(_ context.Context, id string) (*ProjectWithStats, error) {
	project, err := s.store.GetProject(id)
	if err != nil {
		return nil, err
	}
	stats, err := s.store.GetProjectStats(id)
	if err != nil {
		return nil, err
	}
	return &ProjectWithStats{Project: *project, Stats: *stats}, nil
}
