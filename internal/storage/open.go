package storage

import (
	"context"
	"fmt"

	"github.com/Veraticus/xpense/internal/service"
)

// Backend names a KeyValueStore implementation.
type Backend string

// Supported backends.
const (
	BackendMemory Backend = "memory"
	BackendSQLite Backend = "sqlite"
	BackendRedis  Backend = "redis"
)

// IsValid reports whether b names a known backend.
func (b Backend) IsValid() bool {
	switch b {
	case BackendMemory, BackendSQLite, BackendRedis:
		return true
	}
	return false
}

// Options selects and configures a backend.
type Options struct {
	Backend    Backend
	SQLitePath string
	Redis      RedisOptions
}

// Open constructs the store named by opts.Backend, migrating sqlite databases.
func Open(ctx context.Context, opts Options) (service.KeyValueStore, error) {
	switch opts.Backend {
	case BackendMemory, "":
		return NewMemoryStore(), nil

	case BackendSQLite:
		store, err := NewSQLiteStore(opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		return store, nil

	case BackendRedis:
		return NewRedisStore(ctx, opts.Redis)

	default:
		return nil, fmt.Errorf("unknown storage backend %q", opts.Backend)
	}
}
