// Package sqlite provides an ErrorStore backed by a local SQLite file, using
// the pure Go modernc driver.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"infracheck/internal/infra/persistence/sqlutil"
	"infracheck/pkg/domain"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.ErrorStore = (*Store)(nil)

const defaultPath = "infracheck.db"

const (
	createTableSQL = `CREATE TABLE IF NOT EXISTS infra_layer_error (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		infra_id INTEGER NOT NULL,
		information TEXT NOT NULL
	)`
	createIndexSQL  = `CREATE INDEX IF NOT EXISTS infra_layer_error_infra_id_idx ON infra_layer_error (infra_id)`
	insertErrorsSQL = `INSERT INTO infra_layer_error (infra_id, information)
		SELECT ?, value FROM json_each(?) ORDER BY key`
	deleteErrorsSQL = `DELETE FROM infra_layer_error WHERE infra_id = ?`
	selectErrorsSQL = `SELECT information FROM infra_layer_error WHERE infra_id = ? ORDER BY id`
)

// Store persists error rows to a SQLite database file.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore opens (or creates) the database at path and ensures the error table.
func NewStore(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = defaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
		return nil, fmt.Errorf("create dirs: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// a single connection serializes writers and keeps :memory: databases shared
	db.SetMaxOpenConns(1)
	for _, stmt := range []string{createTableSQL, createIndexSQL} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("create error table: %w", err)
		}
	}
	return &Store{db: db, path: path}, nil
}

// InsertErrors appends payloads with one INSERT ... SELECT over json_each.
func (s *Store) InsertErrors(ctx context.Context, infraID int64, payloads []json.RawMessage) (int64, error) {
	return sqlutil.BulkInsert(ctx, s.db, insertErrorsSQL, infraID, payloads)
}

// ReplaceErrors clears and rewrites the rows of infraID in one transaction.
func (s *Store) ReplaceErrors(ctx context.Context, infraID int64, payloads []json.RawMessage) (int64, error) {
	return sqlutil.Replace(ctx, s.db, deleteErrorsSQL, insertErrorsSQL, infraID, payloads)
}

// ListErrors returns the rows of infraID in insertion order.
func (s *Store) ListErrors(ctx context.Context, infraID int64) ([]json.RawMessage, error) {
	return sqlutil.List(ctx, s.db, selectErrorsSQL, infraID)
}

// Close closes the database handle.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for tests.
func (s *Store) DB() *sql.DB { return s.db }

// Path returns the database file path.
func (s *Store) Path() string { return s.path }
