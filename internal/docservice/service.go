// Package docservice manages a project's documentation pages: slug
// uniqueness, parent nesting, sibling ordering, and the published flag.
package docservice

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/reqstudio/reqstudio/internal/apperr"
	"github.com/reqstudio/reqstudio/internal/store"
)

// Service coordinates documentation operations.
type Service struct {
	store *store.Store
}

// NewService creates a new documentation service.
func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// CreatePageParams are the caller-supplied fields for a new page.
type CreatePageParams struct {
	ProjectID string `json:"projectId"`
	Title     string `json:"title"`
	Content   string `json:"content"`
	Slug      string `json:"slug"`
	ParentID  string `json:"parentId"`
	SortOrder int    `json:"sortOrder"`
	Published *bool  `json:"published"`
}

// UpdatePageParams carries a partial update; nil fields are left as-is.
type UpdatePageParams struct {
	Title     *string `json:"title"`
	Content   *string `json:"content"`
	Slug      *string `json:"slug"`
	ParentID  *string `json:"parentId"`
	SortOrder *int    `json:"sortOrder"`
	Published *bool   `json:"published"`
}

// CreatePage validates and persists a new documentation page. The slug must
// be unique within the project; pages default to published.
func (s *Service) CreatePage(_ context.Context, p CreatePageParams) (*store.Documentation, error) {
	p.Title = strings.TrimSpace(p.Title)
	p.Slug = strings.TrimSpace(p.Slug)
	if p.ProjectID == "" {
		return nil, fmt.Errorf("%w: page must be assigned to a project", apperr.ErrValidation)
	}
	if p.Title == "" {
		return nil, fmt.Errorf("%w: page title is required", apperr.ErrValidation)
	}
	if p.Slug == "" {
		return nil, fmt.Errorf("%w: page slug is required", apperr.ErrValidation)
	}
	if err := s.checkSlug(p.ProjectID, p.Slug, ""); err != nil {
		return nil, err
	}

	published := true
	if p.Published != nil {
		published = *p.Published
	}

	now := time.Now().UTC()
	page := &store.Documentation{
		ID:        uuid.NewString(),
		ProjectID: p.ProjectID,
		Title:     p.Title,
		Content:   p.Content,
		Slug:      p.Slug,
		ParentID:  p.ParentID,
		SortOrder: p.SortOrder,
		Published: published,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.store.InsertDocumentation(page); err != nil {
		return nil, err
	}
	return page, nil
}

// GetPage returns one page.
func (s *Service) GetPage(_ context.Context, id string) (*store.Documentation, error) {
	return s.store.GetDocumentation(id)
}

// PagesByProject returns a project's pages in sibling order.
func (s *Service) PagesByProject(_ context.Context, projectID string) ([]store.Documentation, error) {
	return s.store.DocumentationByProject(projectID)
}

// UpdatePage merges the supplied fields into the existing page, re-checking
// slug uniqueness when the slug changes.
func (s *Service) UpdatePage(_ context.Context, id string, p UpdatePageParams) (*store.Documentation, error) {
	existing, err := s.store.GetDocumentation(id)
	if err != nil {
		return nil, err
	}

	if p.Slug != nil {
		slug := strings.TrimSpace(*p.Slug)
		if slug == "" {
			return nil, fmt.Errorf("%w: page slug is required", apperr.ErrValidation)
		}
		if slug != existing.Slug {
			if err := s.checkSlug(existing.ProjectID, slug, id); err != nil {
				return nil, err
			}
		}
		existing.Slug = slug
	}
	if p.Title != nil {
		if strings.TrimSpace(*p.Title) == "" {
			return nil, fmt.Errorf("%w: page title is required", apperr.ErrValidation)
		}
		existing.Title = strings.TrimSpace(*p.Title)
	}
	if p.Content != nil {
		existing.Content = *p.Content
	}
	if p.ParentID != nil {
		existing.ParentID = *p.ParentID
	}
	if p.SortOrder != nil {
		existing.SortOrder = *p.SortOrder
	}
	if p.Published != nil {
		existing.Published = *p.Published
	}
	existing.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateDocumentation(existing); err != nil {
		return nil, err
	}
	return existing, nil
}

// DeletePage hard-deletes a page; child pages cascade.
func (s *Service) DeletePage(_ context.Context, id string) error {
	return s.store.DeleteDocumentation(id)
}

func (s *Service) checkSlug(projectID, slug, excludeID string) error {
	existing, err := s.store.DocumentationBySlug(projectID, slug)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil
		}
		return err
	}
	if excludeID != "" && existing.ID == excludeID {
		return nil
	}
	return fmt.Errorf("%w: page slug %q already exists in this project", apperr.ErrConflict, slug)
}
