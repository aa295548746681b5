// Package envservice manages per-project environments: named variable sets
// that parameterize a base URL.
package envservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/reqstudio/reqstudio/internal/apperr"
	"github.com/reqstudio/reqstudio/internal/store"
)

// Service coordinates environment operations.
type Service struct {
	store *store.Store
}

// NewService creates a new environment service.
func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// CreateEnvironmentParams are the caller-supplied fields for a new
// environment.
type CreateEnvironmentParams struct {
	ProjectID string            `json:"projectId"`
	Name      string            `json:"name"`
	BaseURL   string            `json:"baseUrl"`
	Variables map[string]string `json:"variables"`
}

// UpdateEnvironmentParams carries a partial update; nil fields are left
// as-is.
type UpdateEnvironmentParams struct {
	Name      *string            `json:"name"`
	BaseURL   *string            `json:"baseUrl"`
	Variables *map[string]string `json:"variables"`
}

// CreateEnvironment validates and persists a new environment.
func (s *Service) CreateEnvironment(_ context.Context, p CreateEnvironmentParams) (*store.Environment, error) {
	p.Name = strings.TrimSpace(p.Name)
	if p.ProjectID == "" {
		return nil, fmt.Errorf("%w: environment must be assigned to a project", apperr.ErrValidation)
	}
	if p.Name == "" {
		return nil, fmt.Errorf("%w: environment name is required", apperr.ErrValidation)
	}
	if p.BaseURL == "" {
		return nil, fmt.Errorf("%w: environment base URL is required", apperr.ErrValidation)
	}

	now := time.Now().UTC()
	env := &store.Environment{
		ID:        uuid.NewString(),
		ProjectID: p.ProjectID,
		Name:      p.Name,
		BaseURL:   p.BaseURL,
		Variables: p.Variables,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.InsertEnvironment(env); err != nil {
		return nil, err
	}
	return env, nil
}

// GetEnvironment returns one environment.
func (s *Service) GetEnvironment(_ context.Context, id string) (*store.Environment, error) {
	return s.store.GetEnvironment(id)
}

// EnvironmentsByProject returns a project's environments.
func (s *Service) EnvironmentsByProject(_ context.Context, projectID string) ([]store.Environment, error) {
	return s.store.EnvironmentsByProject(projectID)
}

// UpdateEnvironment merges the supplied fields into the existing record.
func (s *Service) UpdateEnvironment(_ context.Context, id string, p UpdateEnvironmentParams) (*store.Environment, error) {
	existing, err := s.store.GetEnvironment(id)
	if err != nil {
		return nil, err
	}
	if p.Name != nil {
		if strings.TrimSpace(*p.Name) == "" {
			return nil, fmt.Errorf("%w: environment name is required", apperr.ErrValidation)
		}
		existing.Name = strings.TrimSpace(*p.Name)
	}
	if p.BaseURL != nil {
		if *p.BaseURL == "" {
			return nil, fmt.Errorf("%w: environment base URL is required", apperr.ErrValidation)
		}
		existing.BaseURL = *p.BaseURL
	}
	if p.Variables != nil {
		existing.Variables = *p.Variables
	}
	existing.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateEnvironment(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeleteEnvironment hard-deletes an environment; history rows keep their
// snapshots with a nulled environment reference.
func (s *Service) DeleteEnvironment(_ context.Context, id string) error {
	return s.store.DeleteEnvironment(id)
}
