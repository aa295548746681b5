package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/reqstudio/reqstudio/internal/apperr"
)

// Environment is a named set of variable substitutions and a base URL,
// used to target different deployments of the same API.
type Environment struct {
	ID        string            `json:"id"`
	ProjectID string            `json:"projectId"`
	Name      string            `json:"name"`
	BaseURL   string            `json:"baseUrl"`
	Variables map[string]string `json:"variables"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// ResolveBaseURL substitutes {{key}} placeholders in the base URL with the
// environment's variables. Unknown placeholders are left untouched.
func (e *Environment) ResolveBaseURL() string {
	url := e.BaseURL
	for k, v := range e.Variables {
		url = strings.ReplaceAll(url, "{{"+k+"}}", v)
	}
	return url
}

const environmentColumns = `id, project_id, name, base_url, variables, created_at, updated_at`

// InsertEnvironment writes a new environment row.
func (s *Store) InsertEnvironment(e *Environment) error {
	vars, err := marshalVariables(e.Variables)
	if err != nil {
		return err
	}
	_, err = s.conn.Exec(`
		INSERT INTO environments (`+environmentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.ProjectID, e.Name, e.BaseURL, vars, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("store: insert environment: %w", err)
	}
	return nil
}

// GetEnvironment returns one environment by id, or apperr.ErrNotFound.
func (s *Store) GetEnvironment(id string) (*Environment, error) {
	row := s.conn.QueryRow(`SELECT `+environmentColumns+` FROM environments WHERE id = ?`, id)
	e, err := scanEnvironment(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("store: environment %s: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("store: get environment: %w", err)
	}
	return e, nil
}

// EnvironmentsByProject returns a project's environments by creation order.
func (s *Store) EnvironmentsByProject(projectID string) ([]Environment, error) {
	rows, err := s.conn.Query(`
		SELECT `+environmentColumns+` FROM environments
		WHERE project_id = ? ORDER BY created_at
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("store: environments by project: %w", err)
	}
	defer rows.Close()

	out := []Environment{}
	for rows.Next() {
		e, err := scanEnvironment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// UpdateEnvironment rewrites the mutable columns of an existing environment.
func (s *Store) UpdateEnvironment(e *Environment) error {
	vars, err := marshalVariables(e.Variables)
	if err != nil {
		return err
	}
	res, err := s.conn.Exec(`
		UPDATE environments SET name = ?, base_url = ?, variables = ?, updated_at = ?
		WHERE id = ?
	`, e.Name, e.BaseURL, vars, e.UpdatedAt, e.ID)
	if err != nil {
		return fmt.Errorf("store: update environment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("store: environment %s: %w", e.ID, apperr.ErrNotFound)
	}
	return nil
}

// DeleteEnvironment hard-deletes an environment. Request history rows that
// reference it get their environment_id nulled rather than removed.
func (s *Store) DeleteEnvironment(id string) error {
	res, err := s.conn.Exec(`DELETE FROM environments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete environment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("store: environment %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

func marshalVariables(vars map[string]string) (any, error) {
	if len(vars) == 0 {
		return nil, nil
	}
	data, err := json.Marshal(vars)
	if err != nil {
		return nil, fmt.Errorf("store: marshal variables: %w", err)
	}
	return string(data), nil
}

func scanEnvironment(r rowScanner) (*Environment, error) {
	var (
		e    Environment
		vars sql.NullString
	)
	if err := r.Scan(&e.ID, &e.ProjectID, &e.Name, &e.BaseURL, &vars, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Variables = map[string]string{}
	if vars.Valid && vars.String != "" {
		if err := json.Unmarshal([]byte(vars.String), &e.Variables); err != nil {
			return nil, fmt.Errorf("store: unmarshal variables: %w", err)
		}
	}
	return &e, nil
}
