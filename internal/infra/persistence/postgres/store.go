// Package postgres provides a Postgres-backed ErrorStore. Error rows live in
// a single table keyed by infrastructure id, with the error document stored
// as JSONB.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"

	"infracheck/internal/infra/persistence/sqlutil"
	"infracheck/pkg/domain"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.ErrorStore = (*Store)(nil)

const (
	defaultDriver = "pgx"
	defaultDSN    = "postgres://localhost/infracheck?sslmode=disable"
)

const (
	createTableSQL = `CREATE TABLE IF NOT EXISTS infra_layer_error (
		id BIGSERIAL PRIMARY KEY,
		infra_id BIGINT NOT NULL,
		information JSONB NOT NULL
	)`
	createIndexSQL = `CREATE INDEX IF NOT EXISTS infra_layer_error_infra_id_idx ON infra_layer_error (infra_id)`
	// One statement for the whole batch; ordinality keeps row ids in input order.
	insertErrorsSQL = `INSERT INTO infra_layer_error (infra_id, information)
		SELECT $1::bigint, e.value FROM jsonb_array_elements($2::jsonb) WITH ORDINALITY AS e(value, ordinality)
		ORDER BY e.ordinality`
	deleteErrorsSQL = `DELETE FROM infra_layer_error WHERE infra_id = $1`
	selectErrorsSQL = `SELECT information FROM infra_layer_error WHERE infra_id = $1 ORDER BY id`
)

var (
	sqlOpen = sql.Open
	openMu  sync.Mutex
)

// Store persists error rows to Postgres.
type Store struct {
	db *sql.DB
}

// NewStore opens the database at dsn (falls back to defaultDSN), checks the
// connection and ensures the error table exists.
func NewStore(ctx context.Context, dsn string) (*Store, error) {
	if dsn == "" {
		dsn = defaultDSN
	}
	openMu.Lock()
	db, err := sqlOpen(defaultDriver, dsn)
	openMu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	for _, stmt := range []string{createTableSQL, createIndexSQL} {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("ensure error table: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// InsertErrors writes payloads with a single INSERT ... SELECT statement.
func (s *Store) InsertErrors(ctx context.Context, infraID int64, payloads []json.RawMessage) (int64, error) {
	return sqlutil.BulkInsert(ctx, s.db, insertErrorsSQL, infraID, payloads)
}

// ReplaceErrors deletes the rows of infraID and inserts payloads in one
// transaction.
func (s *Store) ReplaceErrors(ctx context.Context, infraID int64, payloads []json.RawMessage) (int64, error) {
	return sqlutil.Replace(ctx, s.db, deleteErrorsSQL, insertErrorsSQL, infraID, payloads)
}

// ListErrors returns the rows of infraID in insertion order.
func (s *Store) ListErrors(ctx context.Context, infraID int64) ([]json.RawMessage, error) {
	return sqlutil.List(ctx, s.db, selectErrorsSQL, infraID)
}

// Close releases the connection pool.
func (s *Store) Close() error { return s.db.Close() }

// DB exposes the underlying sql.DB for integration testing hooks.
func (s *Store) DB() *sql.DB { return s.db }

// OverrideSQLOpen swaps the sqlOpen function for tests and returns a restore function.
func OverrideSQLOpen(fn func(driverName, dataSourceName string) (*sql.DB, error)) func() {
	openMu.Lock()
	defer openMu.Unlock()
	prev := sqlOpen
	sqlOpen = fn
	return func() {
		openMu.Lock()
		defer openMu.Unlock()
		sqlOpen = prev
	}
}
