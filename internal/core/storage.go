package core

import (
	"context"
	"errors"
	"fmt"

	"infracheck/internal/infra/persistence/memory"
	"infracheck/internal/infra/persistence/postgres"
	"infracheck/internal/infra/persistence/sqlite"
	"infracheck/pkg/domain"
)

// StorageDriver identifies a concrete error store implementation.
type StorageDriver string

const (
	StorageMemory   StorageDriver = "memory"   // in-memory only (tests / ephemeral)
	StorageSQLite   StorageDriver = "sqlite"   // embedded sqlite file
	StoragePostgres StorageDriver = "postgres" // PostgreSQL server
)

// ErrUnknownStorageDriver is returned by OpenErrorStore for unsupported drivers.
var ErrUnknownStorageDriver = errors.New("unknown storage driver")

// StorageConfig selects and configures an error store.
type StorageConfig struct {
	Driver      StorageDriver
	SQLitePath  string
	PostgresDSN string
}

// OpenErrorStore opens the backend named by cfg.Driver. An empty driver
// selects sqlite.
func OpenErrorStore(ctx context.Context, cfg StorageConfig) (domain.ErrorStore, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = StorageSQLite
	}
	switch driver {
	case StorageMemory:
		return memory.NewStore(), nil
	case StorageSQLite:
		return sqlite.NewStore(ctx, cfg.SQLitePath)
	case StoragePostgres:
		return postgres.NewStore(ctx, cfg.PostgresDSN)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStorageDriver, driver)
	}
}
