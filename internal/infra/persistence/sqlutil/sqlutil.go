// Package sqlutil holds the database/sql plumbing shared by the SQL error
// stores. Each dialect supplies its own statements; the helpers only fix the
// argument order: the infrastructure id first, then the batch as one JSON
// array.
package sqlutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// Execer is satisfied by *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// Querier is satisfied by *sql.DB and *sql.Tx.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// JSONArray joins payloads into a single JSON array document.
func JSONArray(payloads []json.RawMessage) (string, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, p := range payloads {
		if !json.Valid(p) {
			return "", fmt.Errorf("payload %d is not valid JSON", i)
		}
		if i > 0 {
			buf.WriteByte(',')
		}
		if err := json.Compact(&buf, p); err != nil {
			return "", fmt.Errorf("compact payload %d: %w", i, err)
		}
	}
	buf.WriteByte(']')
	return buf.String(), nil
}

// BulkInsert runs insertQuery once for the whole batch and reports the rows
// the database says it wrote. An empty batch touches nothing.
func BulkInsert(ctx context.Context, db Execer, insertQuery string, infraID int64, payloads []json.RawMessage) (int64, error) {
	if len(payloads) == 0 {
		return 0, nil
	}
	doc, err := JSONArray(payloads)
	if err != nil {
		return 0, err
	}
	res, err := db.ExecContext(ctx, insertQuery, infraID, doc)
	if err != nil {
		return 0, fmt.Errorf("bulk insert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return n, nil
}

// Replace deletes the rows of infraID and bulk inserts payloads inside one
// transaction. Nothing is committed unless both statements succeed.
func Replace(ctx context.Context, db *sql.DB, deleteQuery, insertQuery string, infraID int64, payloads []json.RawMessage) (n int64, err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if _, err = tx.ExecContext(ctx, deleteQuery, infraID); err != nil {
		return 0, fmt.Errorf("clear errors: %w", err)
	}
	if n, err = BulkInsert(ctx, tx, insertQuery, infraID, payloads); err != nil {
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit: %w", err)
	}
	committed = true
	return n, nil
}

// List scans the single JSON column selected by query.
func List(ctx context.Context, db Querier, query string, infraID int64) ([]json.RawMessage, error) {
	rows, err := db.QueryContext(ctx, query, infraID)
	if err != nil {
		return nil, fmt.Errorf("query errors: %w", err)
	}
	defer func() { _ = rows.Close() }()
	var out []json.RawMessage
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return nil, fmt.Errorf("scan error row: %w", err)
		}
		out = append(out, json.RawMessage(raw))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate error rows: %w", err)
	}
	return out, nil
}
