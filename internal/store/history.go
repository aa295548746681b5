package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/reqstudio/reqstudio/internal/jsonval"
)

// RequestHistory is one append-only record of an exercised request. Rows are
// never updated; they disappear only when their endpoint is deleted, and an
// environment deletion nulls the reference instead of cascading.
type RequestHistory struct {
	ID            string        `json:"id"`
	EndpointID    string        `json:"endpointId"`
	EnvironmentID string        `json:"environmentId,omitempty"`
	Request       jsonval.Value `json:"request"`
	Response      jsonval.Value `json:"response,omitzero"`
	Status        int           `json:"status"`
	Duration      int64         `json:"duration"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// InsertHistory appends one request-history row.
func (s *Store) InsertHistory(h *RequestHistory) error {
	_, err := s.conn.Exec(`
		INSERT INTO request_history (id, endpoint_id, environment_id, request, response, status, duration, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, h.ID, h.EndpointID, nullableString(h.EnvironmentID), h.Request, h.Response,
		h.Status, h.Duration, h.CreatedAt)
	if err != nil {
		return fmt.Errorf("store: insert history: %w", err)
	}
	return nil
}

// HistoryByEndpoint returns an endpoint's history, newest first.
func (s *Store) HistoryByEndpoint(endpointID string, limit int) ([]RequestHistory, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.conn.Query(`
		SELECT id, endpoint_id, environment_id, request, response, status, duration, created_at
		FROM request_history WHERE endpoint_id = ?
		ORDER BY created_at DESC LIMIT ?
	`, endpointID, limit)
	if err != nil {
		return nil, fmt.Errorf("store: history by endpoint: %w", err)
	}
	defer rows.Close()

	out := []RequestHistory{}
	for rows.Next() {
		var (
			h   RequestHistory
			env sql.NullString
		)
		if err := rows.Scan(&h.ID, &h.EndpointID, &env, &h.Request, &h.Response,
			&h.Status, &h.Duration, &h.CreatedAt); err != nil {
			return nil, err
		}
		h.EnvironmentID = env.String
		out = append(out, h)
	}
	return out, rows.Err()
}
