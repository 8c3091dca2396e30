package domain

import (
	"context"
	"encoding/json"
)

// ErrorStore is the storage boundary for generated error records. Payloads
// are opaque structured documents, one row per payload, scoped by infra id.
type ErrorStore interface {
	// InsertErrors writes all payloads for infraID in a single set-oriented
	// operation and returns the number of rows written.
	InsertErrors(ctx context.Context, infraID int64, payloads []json.RawMessage) (int64, error)
	// ReplaceErrors removes the previous rows of infraID and inserts payloads
	// within one transaction. It returns the number of rows inserted.
	ReplaceErrors(ctx context.Context, infraID int64, payloads []json.RawMessage) (int64, error)
	// ListErrors returns the stored payloads of infraID in insertion order.
	ListErrors(ctx context.Context, infraID int64) ([]json.RawMessage, error)
	Close() error
}
