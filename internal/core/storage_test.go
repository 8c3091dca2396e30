package core

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infracheck/internal/infra/persistence/memory"
	"infracheck/internal/infra/persistence/postgres"
	"infracheck/internal/infra/persistence/postgres/testutil"
	"infracheck/internal/infra/persistence/sqlite"
)

func TestOpenErrorStoreDrivers(t *testing.T) {
	ctx := context.Background()

	store, err := OpenErrorStore(ctx, StorageConfig{Driver: StorageMemory})
	require.NoError(t, err)
	assert.IsType(t, &memory.Store{}, store)

	path := filepath.Join(t.TempDir(), "errors.db")
	store, err = OpenErrorStore(ctx, StorageConfig{SQLitePath: path})
	require.NoError(t, err)
	sqliteStore, ok := store.(*sqlite.Store)
	require.True(t, ok, "empty driver selects sqlite, got %T", store)
	assert.Equal(t, path, sqliteStore.Path())
	require.NoError(t, store.Close())

	db, _ := testutil.NewStubDB()
	restore := postgres.OverrideSQLOpen(func(_, _ string) (*sql.DB, error) { return db, nil })
	defer restore()
	store, err = OpenErrorStore(ctx, StorageConfig{Driver: StoragePostgres, PostgresDSN: "postgres://stub"})
	require.NoError(t, err)
	assert.IsType(t, &postgres.Store{}, store)
}

func TestOpenErrorStoreUnknownDriver(t *testing.T) {
	_, err := OpenErrorStore(context.Background(), StorageConfig{Driver: "oracle"})
	require.ErrorIs(t, err, ErrUnknownStorageDriver)
	assert.Contains(t, err.Error(), "oracle")
}
