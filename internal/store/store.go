// Package store provides the SQLite persistence layer for projects,
// endpoints, documentation pages, environments, and request history.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/mattn/go-sqlite3"
)

// Store wraps the single process-wide database handle.
type Store struct {
	conn *sql.DB
	path string
}

// Open opens (or creates) the SQLite database at path and applies the schema.
// The parent directory is created if missing. WAL journaling and foreign-key
// enforcement are set through the DSN.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("store: create db dir: %w", err)
		}
	}
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &Store{conn: conn, path: path}, nil
}

// DefaultPath returns the deterministic database location under the user's
// application-data directory.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("store: resolve user config dir: %w", err)
	}
	return filepath.Join(dir, "reqstudio", "databases", "reqstudio.db"), nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Backup copies the live database to dst using VACUUM INTO. The destination
// must not already exist.
func (s *Store) Backup(dst string) error {
	if dir := filepath.Dir(dst); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("store: create backup dir: %w", err)
		}
	}
	if _, err := s.conn.Exec(`VACUUM INTO ?`, dst); err != nil {
		return fmt.Errorf("store: backup: %w", err)
	}
	return nil
}

// BackupAsync runs Backup in the background. Failures are logged, never
// propagated.
func (s *Store) BackupAsync(dst string) {
	go func() {
		if err := s.Backup(dst); err != nil {
			slog.Error("database backup failed", slog.String("dst", dst), slog.String("error", err.Error()))
			return
		}
		slog.Info("database backup completed", slog.String("dst", dst))
	}()
}

// isUniqueViolation reports whether err is a UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var serr sqlite3.Error
	return errors.As(err, &serr) && serr.ExtendedCode == sqlite3.ErrConstraintUnique
}
