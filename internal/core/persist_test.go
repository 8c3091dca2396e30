package core

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infracheck/internal/infra/persistence/memory"
	"infracheck/internal/infracache"
	"infracheck/pkg/domain"
)

// shortStore drops one row from every write.
type shortStore struct {
	*memory.Store
	calls int
}

func (s *shortStore) InsertErrors(ctx context.Context, infraID int64, payloads []json.RawMessage) (int64, error) {
	s.calls++
	n, err := s.Store.InsertErrors(ctx, infraID, payloads)
	return n - 1, err
}

type failingStore struct {
	*memory.Store
}

var errStorageDown = errors.New("storage down")

func (failingStore) InsertErrors(context.Context, int64, []json.RawMessage) (int64, error) {
	return 0, errStorageDown
}

func (failingStore) ReplaceErrors(context.Context, int64, []json.RawMessage) (int64, error) {
	return 0, errStorageDown
}

func scenarioErrors() []domain.InfraError {
	cache := infracache.NewSmallInfraCache()
	cache.Add(infracache.NewDetector("D1", "A", 530))
	cache.Add(infracache.NewDetector("D2", "E", 10))
	return GenerateDetectorErrors(cache)
}

func TestInsertDetectorErrorsStoresOneRowPerError(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	cache := infracache.NewSmallInfraCache()
	cache.Add(infracache.NewDetector("D1", "A", 530))
	cache.Add(infracache.NewDetector("D2", "E", 10))

	require.NoError(t, InsertDetectorErrors(ctx, store, 42, cache))

	rows, err := store.ListErrors(ctx, 42)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.JSONEq(t, `{"obj_id":"D1","obj_type":"Detector","field":"position","is_warning":false,
		"error_type":"out_of_range","position":530,"expected_range":[0,500]}`, string(rows[0]))
	assert.JSONEq(t, `{"obj_id":"D2","obj_type":"Detector","field":"track","is_warning":false,
		"error_type":"invalid_reference","reference":{"type":"TrackSection","id":"E"}}`, string(rows[1]))

	decoded, err := DecodeErrors(rows)
	require.NoError(t, err)
	assert.Equal(t, scenarioErrors(), decoded)
}

func TestInsertErrorsPanicsOnCountMismatch(t *testing.T) {
	store := &shortStore{Store: memory.NewStore()}
	defer func() {
		r := recover()
		require.NotNil(t, r, "expected a panic")
		fault, ok := r.(*ConsistencyFault)
		require.True(t, ok, "panic value %T", r)
		assert.Equal(t, int64(9), fault.InfraID)
		assert.Equal(t, 2, fault.Generated)
		assert.Equal(t, int64(1), fault.Persisted)
		assert.Contains(t, fault.Error(), "infra 9")
		assert.Equal(t, 1, store.calls)
	}()
	_ = InsertErrors(context.Background(), store, 9, scenarioErrors())
}

func TestInsertErrorsWrapsStorageFailure(t *testing.T) {
	ctx := context.Background()
	store := failingStore{memory.NewStore()}
	err := InsertErrors(ctx, store, 3, scenarioErrors())
	require.ErrorIs(t, err, errStorageDown)
	assert.Contains(t, err.Error(), "persist 2 errors for infra 3")

	err = ReplaceErrors(ctx, store, 3, scenarioErrors())
	require.ErrorIs(t, err, errStorageDown)
}

func TestInsertErrorsEmptyBatch(t *testing.T) {
	store := memory.NewStore()
	require.NoError(t, InsertErrors(context.Background(), store, 1, nil))
	rows, err := store.ListErrors(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestEncodeErrorsRejectsMissingDetail(t *testing.T) {
	_, err := EncodeErrors([]domain.InfraError{{ObjID: "D1", ObjType: domain.ObjectTypeDetector}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encode error 0")
}

func TestDecodeErrorsReportsRow(t *testing.T) {
	_, err := DecodeErrors([]json.RawMessage{json.RawMessage(`{"error_type":"nope"}`)})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode error row 0")
}
