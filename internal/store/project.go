package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/reqstudio/reqstudio/internal/apperr"
)

// Project is the top-level container for one API's endpoints, documentation
// pages, and environments.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Version     string    `json:"version"`
	BaseURL     string    `json:"baseUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// ProjectStats holds the per-project aggregate counters.
type ProjectStats struct {
	EndpointCount      int `json:"endpointCount"`
	DocumentationCount int `json:"documentationCount"`
}

// InsertProject writes a new project row.
func (s *Store) InsertProject(p *Project) error {
	_, err := s.conn.Exec(`
		INSERT INTO projects (id, name, description, version, base_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, p.ID, p.Name, p.Description, p.Version, p.BaseURL, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("store: insert project: %w", err)
	}
	return nil
}

// GetProject returns one project by id, or apperr.ErrNotFound.
func (s *Store) GetProject(id string) (*Project, error) {
	row := s.conn.QueryRow(`
		SELECT id, name, description, version, base_url, created_at, updated_at
		FROM projects WHERE id = ?
	`, id)
	p, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("store: project %s: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("store: get project: %w", err)
	}
	return p, nil
}

// ListProjects returns every project, most recently updated first.
func (s *Store) ListProjects() ([]Project, error) {
	rows, err := s.conn.Query(`
		SELECT id, name, description, version, base_url, created_at, updated_at
		FROM projects ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("store: list projects: %w", err)
	}
	defer rows.Close()

	out := []Project{}
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// UpdateProject rewrites the mutable columns of an existing project.
func (s *Store) UpdateProject(p *Project) error {
	res, err := s.conn.Exec(`
		UPDATE projects SET name = ?, description = ?, version = ?, base_url = ?, updated_at = ?
		WHERE id = ?
	`, p.Name, p.Description, p.Version, p.BaseURL, p.UpdatedAt, p.ID)
	if err != nil {
		return fmt.Errorf("store: update project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("store: project %s: %w", p.ID, apperr.ErrNotFound)
	}
	return nil
}

// DeleteProject hard-deletes a project. Endpoints, documentation pages, and
// environments cascade via foreign keys.
func (s *Store) DeleteProject(id string) error {
	res, err := s.conn.Exec(`DELETE FROM projects WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete project: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("store: project %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

// GetProjectStats counts the project's endpoints and documentation pages.
func (s *Store) GetProjectStats(projectID string) (*ProjectStats, error) {
	var st ProjectStats
	if err := s.conn.QueryRow(`SELECT COUNT(*) FROM endpoints WHERE project_id = ?`, projectID).Scan(&st.EndpointCount); err != nil {
		return nil, fmt.Errorf("store: count endpoints: %w", err)
	}
	if err := s.conn.QueryRow(`SELECT COUNT(*) FROM documentation WHERE project_id = ?`, projectID).Scan(&st.DocumentationCount); err != nil {
		return nil, fmt.Errorf("store: count documentation: %w", err)
	}
	return &st, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(r rowScanner) (*Project, error) {
	var p Project
	if err := r.Scan(&p.ID, &p.Name, &p.Description, &p.Version, &p.BaseURL, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
