// Package memory provides an in-process ErrorStore used by tests and
// ephemeral validation runs.
package memory

import (
	"context"
	"encoding/json"
	"sync"

	"infracheck/pkg/domain"
)

// Compile-time contract assertion ensuring the store satisfies the domain interface.
var _ domain.ErrorStore = (*Store)(nil)

// Store keeps error rows per infrastructure in process memory.
type Store struct {
	mu   sync.RWMutex
	rows map[int64][]json.RawMessage
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{rows: make(map[int64][]json.RawMessage)}
}

// InsertErrors appends payloads to the rows of infraID.
func (s *Store) InsertErrors(_ context.Context, infraID int64, payloads []json.RawMessage) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows[infraID] = append(s.rows[infraID], clonePayloads(payloads)...)
	return int64(len(payloads)), nil
}

// ReplaceErrors drops the rows of infraID and stores payloads instead.
func (s *Store) ReplaceErrors(_ context.Context, infraID int64, payloads []json.RawMessage) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(payloads) == 0 {
		delete(s.rows, infraID)
		return 0, nil
	}
	s.rows[infraID] = clonePayloads(payloads)
	return int64(len(payloads)), nil
}

// ListErrors returns a copy of the rows of infraID.
func (s *Store) ListErrors(_ context.Context, infraID int64) ([]json.RawMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePayloads(s.rows[infraID]), nil
}

// Close implements domain.ErrorStore.
func (s *Store) Close() error { return nil }

func clonePayloads(in []json.RawMessage) []json.RawMessage {
	out := make([]json.RawMessage, len(in))
	for i, p := range in {
		out[i] = append(json.RawMessage(nil), p...)
	}
	return out
}
