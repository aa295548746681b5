package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/reqstudio/reqstudio/internal/apperr"
)

// Documentation is one page in a project's documentation tree. Pages nest
// through ParentID and order among siblings through SortOrder.
type Documentation struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Slug      string    `json:"slug"`
	ParentID  string    `json:"parentId,omitempty"`
	SortOrder int       `json:"sortOrder"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

const documentationColumns = `id, project_id, title, content, slug, parent_id, sort_order,
	published, created_at, updated_at`

// InsertDocumentation writes a new page. A duplicate (project, slug)
// surfaces as apperr.ErrConflict.
func (s *Store) InsertDocumentation(d *Documentation) error {
	_, err := s.conn.Exec(`
		INSERT INTO documentation (`+documentationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, d.ID, d.ProjectID, d.Title, d.Content, d.Slug, nullableString(d.ParentID),
		d.SortOrder, d.Published, d.CreatedAt, d.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("store: documentation slug %q: %w", d.Slug, apperr.ErrConflict)
		}
		return fmt.Errorf("store: insert documentation: %w", err)
	}
	return nil
}

// GetDocumentation returns one page by id, or apperr.ErrNotFound.
func (s *Store) GetDocumentation(id string) (*Documentation, error) {
	row := s.conn.QueryRow(`SELECT `+documentationColumns+` FROM documentation WHERE id = ?`, id)
	d, err := scanDocumentation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("store: documentation %s: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("store: get documentation: %w", err)
	}
	return d, nil
}

// DocumentationByProject returns a project's pages in sibling order.
func (s *Store) DocumentationByProject(projectID string) ([]Documentation, error) {
	rows, err := s.conn.Query(`
		SELECT `+documentationColumns+` FROM documentation
		WHERE project_id = ? ORDER BY sort_order, created_at
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("store: documentation by project: %w", err)
	}
	defer rows.Close()

	out := []Documentation{}
	for rows.Next() {
		d, err := scanDocumentation(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *d)
	}
	return out, rows.Err()
}

// DocumentationBySlug is the slug-uniqueness lookup within one project.
func (s *Store) DocumentationBySlug(projectID, slug string) (*Documentation, error) {
	row := s.conn.QueryRow(`
		SELECT `+documentationColumns+` FROM documentation
		WHERE project_id = ? AND slug = ?
	`, projectID, slug)
	d, err := scanDocumentation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("store: documentation slug %q: %w", slug, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("store: documentation by slug: %w", err)
	}
	return d, nil
}

// UpdateDocumentation rewrites the mutable columns of an existing page.
func (s *Store) UpdateDocumentation(d *Documentation) error {
	res, err := s.conn.Exec(`
		UPDATE documentation SET title = ?, content = ?, slug = ?, parent_id = ?,
			sort_order = ?, published = ?, updated_at = ?
		WHERE id = ?
	`, d.Title, d.Content, d.Slug, nullableString(d.ParentID), d.SortOrder, d.Published,
		d.UpdatedAt, d.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("store: documentation slug %q: %w", d.Slug, apperr.ErrConflict)
		}
		return fmt.Errorf("store: update documentation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("store: documentation %s: %w", d.ID, apperr.ErrNotFound)
	}
	return nil
}

// DeleteDocumentation hard-deletes a page; child pages cascade.
func (s *Store) DeleteDocumentation(id string) error {
	res, err := s.conn.Exec(`DELETE FROM documentation WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete documentation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("store: documentation %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func scanDocumentation(r rowScanner) (*Documentation, error) {
	var (
		d      Documentation
		parent sql.NullString
	)
	if err := r.Scan(&d.ID, &d.ProjectID, &d.Title, &d.Content, &d.Slug, &parent,
		&d.SortOrder, &d.Published, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	d.ParentID = parent.String
	return &d, nil
}
