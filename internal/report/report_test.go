package report

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infracheck/internal/blob"
	"infracheck/internal/core"
	"infracheck/internal/graph"
	"infracheck/internal/infra/persistence/memory"
	"infracheck/internal/infracache"
	"infracheck/pkg/domain"
)

func sampleReport() core.Report {
	cache := infracache.NewSmallInfraCache()
	cache.Add(infracache.NewDetector("D1", "A", 530))
	cache.Add(infracache.NewDetector("D2", "E", 10))
	errs := core.GenerateDetectorErrors(cache)
	return core.Report{
		RunID:     "6f1c1c6e-4b7e-4a35-9d43-8f0c1a1b2c3d",
		InfraID:   12,
		StartedAt: time.Date(2024, 5, 1, 8, 30, 0, 0, time.UTC),
		Duration:  1500 * time.Microsecond,
		Errors:    errs,
		Topology:  graph.Load(cache).Summary(),
		Counts:    map[domain.ObjectType]map[domain.ErrorType]int{
			domain.ObjectTypeDetector: {
				domain.ErrorTypeOutOfRange:       1,
				domain.ErrorTypeInvalidReference: 1,
			},
		},
	}
}

func TestExportAndRead(t *testing.T) {
	ctx := context.Background()
	store := blob.NewMemory()
	r := sampleReport()

	key, err := NewExporter(store, WithLevel(zstd.SpeedBestCompression)).Export(ctx, r)
	require.NoError(t, err)
	assert.Equal(t, "reports/infra-12/6f1c1c6e-4b7e-4a35-9d43-8f0c1a1b2c3d.json.zst", key)

	info, err := store.Head(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, ContentType, info.ContentType)
	assert.Equal(t, "2", info.Metadata["errors"])

	got, err := Read(ctx, store, key)
	require.NoError(t, err)
	assert.Equal(t, r, got)
}

func TestExportThroughS3(t *testing.T) {
	ctx := context.Background()
	store := blob.NewMockS3ForTests()
	r := sampleReport()
	key, err := NewExporter(store).Export(ctx, r)
	require.NoError(t, err)
	got, err := Read(ctx, store, key)
	require.NoError(t, err)
	assert.Equal(t, r.Errors, got.Errors)
}

func TestServiceExportsReport(t *testing.T) {
	ctx := context.Background()
	store := blob.NewMemory()
	svc := core.NewService(memory.NewStore(), core.WithExporter(NewExporter(store)))

	cache := infracache.NewSmallInfraCache()
	cache.Add(infracache.NewDetector("D1", "A", 530))
	r, err := svc.Validate(ctx, 5, cache)
	require.NoError(t, err)

	infos, err := List(ctx, store, 5)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, Key(5, r.RunID), infos[0].Key)

	none, err := List(ctx, store, 50)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestListFollowsRunOrder(t *testing.T) {
	ctx := context.Background()
	store := blob.NewMemory()
	svc := core.NewService(memory.NewStore(), core.WithExporter(NewExporter(store)))

	var want []string
	for i := 0; i < 4; i++ {
		r, err := svc.Validate(ctx, 8, infracache.NewSmallInfraCache())
		require.NoError(t, err)
		want = append(want, Key(8, r.RunID))
	}

	infos, err := List(ctx, store, 8)
	require.NoError(t, err)
	got := make([]string, len(infos))
	for i, info := range infos {
		got[i] = info.Key
	}
	assert.Equal(t, want, got)
}

func TestExportRequiresRunID(t *testing.T) {
	_, err := NewExporter(blob.NewMemory()).Export(context.Background(), core.Report{InfraID: 1})
	require.Error(t, err)
}

func TestExportRefusesOverwrite(t *testing.T) {
	ctx := context.Background()
	store := blob.NewMemory()
	e := NewExporter(store)
	r := sampleReport()
	_, err := e.Export(ctx, r)
	require.NoError(t, err)
	_, err = e.Export(ctx, r)
	require.ErrorIs(t, err, blob.ErrExists)
}

func TestReadErrors(t *testing.T) {
	ctx := context.Background()
	store := blob.NewMemory()
	_, err := Read(ctx, store, Key(1, "missing"))
	require.ErrorIs(t, err, blob.ErrNotFound)

	_, err = store.Put(ctx, "reports/infra-1/bad.json.zst", bytes.NewReader([]byte("not zstd")), blob.PutOptions{})
	require.NoError(t, err)
	_, err = Read(ctx, store, "reports/infra-1/bad.json.zst")
	require.Error(t, err)
}
