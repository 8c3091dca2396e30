package core

import (
	"context"
	"encoding/json"
	"fmt"

	"infracheck/internal/infracache"
	"infracheck/pkg/domain"
)

// ConsistencyFault is raised with panic when a store reports a row count that
// differs from the number of errors handed to it. It signals a defect in the
// generator or the storage adapter and is never returned as an error.
type ConsistencyFault struct {
	InfraID   int64
	Generated int
	Persisted int64
}

func (f *ConsistencyFault) Error() string {
	return fmt.Sprintf("infra %d: persisted %d error rows, generated %d", f.InfraID, f.Persisted, f.Generated)
}

// EncodeErrors serializes errors to the structured payloads stored per row.
func EncodeErrors(errs []domain.InfraError) ([]json.RawMessage, error) {
	payloads := make([]json.RawMessage, len(errs))
	for i, e := range errs {
		raw, err := json.Marshal(e)
		if err != nil {
			return nil, fmt.Errorf("encode error %d (%s): %w", i, e.Object(), err)
		}
		payloads[i] = raw
	}
	return payloads, nil
}

// DecodeErrors is the inverse of EncodeErrors.
func DecodeErrors(payloads []json.RawMessage) ([]domain.InfraError, error) {
	out := make([]domain.InfraError, len(payloads))
	for i, raw := range payloads {
		if err := json.Unmarshal(raw, &out[i]); err != nil {
			return nil, fmt.Errorf("decode error row %d: %w", i, err)
		}
	}
	return out, nil
}

// InsertErrors writes errs for infraID with one bulk insert.
func InsertErrors(ctx context.Context, store domain.ErrorStore, infraID int64, errs []domain.InfraError) error {
	return persist(ctx, store.InsertErrors, infraID, errs)
}

// ReplaceErrors swaps the stored errors of infraID for errs atomically.
func ReplaceErrors(ctx context.Context, store domain.ErrorStore, infraID int64, errs []domain.InfraError) error {
	return persist(ctx, store.ReplaceErrors, infraID, errs)
}

// InsertDetectorErrors generates the detector errors of cache and inserts
// them for infraID.
func InsertDetectorErrors(ctx context.Context, store domain.ErrorStore, infraID int64, cache *infracache.InfraCache) error {
	return InsertErrors(ctx, store, infraID, GenerateDetectorErrors(cache))
}

type writeFunc func(ctx context.Context, infraID int64, payloads []json.RawMessage) (int64, error)

func persist(ctx context.Context, write writeFunc, infraID int64, errs []domain.InfraError) error {
	payloads, err := EncodeErrors(errs)
	if err != nil {
		return err
	}
	count, err := write(ctx, infraID, payloads)
	if err != nil {
		return fmt.Errorf("persist %d errors for infra %d: %w", len(errs), infraID, err)
	}
	if count != int64(len(errs)) {
		panic(&ConsistencyFault{InfraID: infraID, Generated: len(errs), Persisted: count})
	}
	return nil
}
