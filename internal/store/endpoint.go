package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/reqstudio/reqstudio/internal/apperr"
	"github.com/reqstudio/reqstudio/internal/jsonval"
)

// Endpoint is one documented/testable HTTP route within a project.
type Endpoint struct {
	ID            string        `json:"id"`
	ProjectID     string        `json:"projectId"`
	Method        string        `json:"method"`
	Path          string        `json:"path"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Tags          []string      `json:"tags"`
	OperationID   string        `json:"operationId"`
	Deprecated    bool          `json:"deprecated"`
	RequestBody   jsonval.Value `json:"requestBody,omitzero"`
	Responses     jsonval.Value `json:"responses,omitzero"`
	Parameters    jsonval.Value `json:"parameters,omitzero"`
	Documentation string        `json:"documentation"`
	Folder        string        `json:"folder"`
	SortOrder     int           `json:"sortOrder"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

const endpointColumns = `id, project_id, method, path, title, description, tags, operation_id,
	deprecated, request_body, responses, parameters, documentation, folder, sort_order,
	created_at, updated_at`

// InsertEndpoint writes a new endpoint row. A duplicate (project, method,
// path) surfaces as apperr.ErrConflict.
func (s *Store) InsertEndpoint(e *Endpoint) error {
	tags, err := marshalTags(e.Tags)
	if err != nil {
		return err
	}
	_, err = s.conn.Exec(`
		INSERT INTO endpoints (`+endpointColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, e.ProjectID, e.Method, e.Path, e.Title, e.Description, tags, e.OperationID,
		e.Deprecated, e.RequestBody, e.Responses, e.Parameters, e.Documentation, e.Folder,
		e.SortOrder, e.CreatedAt, e.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("store: endpoint %s %s: %w", e.Method, e.Path, apperr.ErrConflict)
		}
		return fmt.Errorf("store: insert endpoint: %w", err)
	}
	return nil
}

// GetEndpoint returns one endpoint by id, or apperr.ErrNotFound.
func (s *Store) GetEndpoint(id string) (*Endpoint, error) {
	row := s.conn.QueryRow(`SELECT `+endpointColumns+` FROM endpoints WHERE id = ?`, id)
	e, err := scanEndpoint(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("store: endpoint %s: %w", id, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("store: get endpoint: %w", err)
	}
	return e, nil
}

// EndpointsByProject returns a project's endpoints in display order.
func (s *Store) EndpointsByProject(projectID string) ([]Endpoint, error) {
	rows, err := s.conn.Query(`
		SELECT `+endpointColumns+` FROM endpoints
		WHERE project_id = ? ORDER BY sort_order, created_at
	`, projectID)
	if err != nil {
		return nil, fmt.Errorf("store: endpoints by project: %w", err)
	}
	defer rows.Close()

	out := []Endpoint{}
	for rows.Next() {
		e, err := scanEndpoint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *e)
	}
	return out, rows.Err()
}

// EndpointByMethodAndPath is the uniqueness lookup, returning
// apperr.ErrNotFound when no endpoint occupies (method, path).
func (s *Store) EndpointByMethodAndPath(projectID, method, path string) (*Endpoint, error) {
	row := s.conn.QueryRow(`
		SELECT `+endpointColumns+` FROM endpoints
		WHERE project_id = ? AND method = ? AND path = ?
	`, projectID, method, path)
	e, err := scanEndpoint(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("store: endpoint %s %s: %w", method, path, apperr.ErrNotFound)
		}
		return nil, fmt.Errorf("store: endpoint by method and path: %w", err)
	}
	return e, nil
}

// UpdateEndpoint rewrites the mutable columns of an existing endpoint.
func (s *Store) UpdateEndpoint(e *Endpoint) error {
	tags, err := marshalTags(e.Tags)
	if err != nil {
		return err
	}
	res, err := s.conn.Exec(`
		UPDATE endpoints SET method = ?, path = ?, title = ?, description = ?, tags = ?,
			operation_id = ?, deprecated = ?, request_body = ?, responses = ?, parameters = ?,
			documentation = ?, folder = ?, sort_order = ?, updated_at = ?
		WHERE id = ?
	`, e.Method, e.Path, e.Title, e.Description, tags, e.OperationID, e.Deprecated,
		e.RequestBody, e.Responses, e.Parameters, e.Documentation, e.Folder, e.SortOrder,
		e.UpdatedAt, e.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("store: endpoint %s %s: %w", e.Method, e.Path, apperr.ErrConflict)
		}
		return fmt.Errorf("store: update endpoint: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("store: endpoint %s: %w", e.ID, apperr.ErrNotFound)
	}
	return nil
}

// DeleteEndpoint hard-deletes an endpoint; request history cascades.
func (s *Store) DeleteEndpoint(id string) error {
	res, err := s.conn.Exec(`DELETE FROM endpoints WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("store: delete endpoint: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("store: endpoint %s: %w", id, apperr.ErrNotFound)
	}
	return nil
}

// UpdateEndpointOrder assigns each id its list index as the new sort_order
// inside one transaction, so an interrupted drag-and-drop reorder cannot
// leave sort orders partially updated. An unknown id rolls everything back.
func (s *Store) UpdateEndpointOrder(ids []string) error {
	tx, err := s.conn.Begin()
	if err != nil {
		return fmt.Errorf("store: begin reorder tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	stmt, err := tx.Prepare(`UPDATE endpoints SET sort_order = ? WHERE id = ?`)
	if err != nil {
		return fmt.Errorf("store: prepare reorder: %w", err)
	}
	defer stmt.Close()

	for i, id := range ids {
		res, err := stmt.Exec(i, id)
		if err != nil {
			return fmt.Errorf("store: reorder endpoint %s: %w", id, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("store: reorder endpoint %s: %w", id, apperr.ErrNotFound)
		}
	}
	return tx.Commit()
}

func marshalTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	data, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("store: marshal tags: %w", err)
	}
	return string(data), nil
}

func scanEndpoint(r rowScanner) (*Endpoint, error) {
	var (
		e    Endpoint
		tags string
	)
	if err := r.Scan(&e.ID, &e.ProjectID, &e.Method, &e.Path, &e.Title, &e.Description,
		&tags, &e.OperationID, &e.Deprecated, &e.RequestBody, &e.Responses, &e.Parameters,
		&e.Documentation, &e.Folder, &e.SortOrder, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.Tags = []string{}
	if tags != "" {
		if err := json.Unmarshal([]byte(tags), &e.Tags); err != nil {
			return nil, fmt.Errorf("store: unmarshal tags: %w", err)
		}
	}
	return &e, nil
}
