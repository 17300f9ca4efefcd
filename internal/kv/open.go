package kv

import (
	"context"
	"fmt"

	"github.com/mesh-intelligence/trailmap/internal/postgres"
	"github.com/mesh-intelligence/trailmap/internal/sqlite"
	"github.com/mesh-intelligence/trailmap/pkg/types"
)

// Open validates cfg and opens the backend it names.
func Open(ctx context.Context, cfg types.Config) (types.KVStore, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	switch cfg.Backend {
	case types.BackendFile:
		return OpenFile(cfg.DataDir)
	case types.BackendSQLite:
		return sqlite.Open(ctx, cfg.DataDir)
	case types.BackendPostgres:
		return postgres.Open(ctx, cfg.DSN, postgres.PoolOptions{})
	case types.BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("%q: %w", cfg.Backend, types.ErrBackendUnknown)
	}
}
