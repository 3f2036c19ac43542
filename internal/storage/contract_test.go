package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/xpense/internal/common"
	"github.com/Veraticus/xpense/internal/service"
)

type storeFactory func(t *testing.T) service.KeyValueStore

func backends() map[string]storeFactory {
	return map[string]storeFactory{
		"memory": func(t *testing.T) service.KeyValueStore {
			t.Helper()
			return NewMemoryStore()
		},
		"sqlite": func(t *testing.T) service.KeyValueStore {
			t.Helper()
			store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
			require.NoError(t, err)
			require.NoError(t, store.Migrate(context.Background()))
			return store
		},
		"redis": func(t *testing.T) service.KeyValueStore {
			t.Helper()
			mr := miniredis.RunT(t)
			client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
			return NewRedisStoreFromClient(client, "test:")
		},
	}
}

func forEachBackend(t *testing.T, fn func(t *testing.T, store service.KeyValueStore)) {
	t.Helper()
	for name, factory := range backends() {
		t.Run(name, func(t *testing.T) {
			store := factory(t)
			t.Cleanup(func() { _ = store.Close() })
			fn(t, store)
		})
	}
}

func TestStore_GetMissingKey(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store service.KeyValueStore) {
		_, err := store.Get(context.Background(), service.KeyUser)
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestStore_CommitAndGet(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store service.KeyValueStore) {
		ctx := context.Background()

		require.NoError(t, store.Commit(ctx, service.Write{
			Key:           service.KeyToken,
			Value:         `"mock_jwt"`,
			ExpectVersion: 0,
		}))

		entry, err := store.Get(ctx, service.KeyToken)
		require.NoError(t, err)
		assert.Equal(t, `"mock_jwt"`, entry.Value)
		assert.Equal(t, int64(1), entry.Version)

		require.NoError(t, store.Commit(ctx, service.Write{
			Key:           service.KeyToken,
			Value:         `"other"`,
			ExpectVersion: entry.Version,
		}))

		entry, err = store.Get(ctx, service.KeyToken)
		require.NoError(t, err)
		assert.Equal(t, `"other"`, entry.Value)
		assert.Equal(t, int64(2), entry.Version)
	})
}

func TestStore_VersionConflict(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store service.KeyValueStore) {
		ctx := context.Background()

		require.NoError(t, store.Commit(ctx, service.Write{Key: service.KeyExpenses, Value: "[]"}))

		// Key exists, so "must be absent" fails.
		err := store.Commit(ctx, service.Write{Key: service.KeyExpenses, Value: "[1]", ExpectVersion: 0})
		assert.ErrorIs(t, err, common.ErrVersionConflict)

		err = store.Commit(ctx, service.Write{Key: service.KeyExpenses, Value: "[1]", ExpectVersion: 7})
		assert.ErrorIs(t, err, common.ErrVersionConflict)

		entry, err := store.Get(ctx, service.KeyExpenses)
		require.NoError(t, err)
		assert.Equal(t, "[]", entry.Value)
	})
}

func TestStore_AnyVersionOverwrites(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store service.KeyValueStore) {
		ctx := context.Background()
		w := service.Write{Key: service.KeyUser, Value: "{}", ExpectVersion: service.AnyVersion}

		require.NoError(t, store.Commit(ctx, w))
		require.NoError(t, store.Commit(ctx, w))

		entry, err := store.Get(ctx, service.KeyUser)
		require.NoError(t, err)
		assert.Equal(t, int64(2), entry.Version)
	})
}

func TestStore_CommitIsAtomic(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store service.KeyValueStore) {
		ctx := context.Background()

		require.NoError(t, store.Commit(ctx, service.Write{Key: service.KeyCategories, Value: `["a"]`}))

		err := store.Commit(ctx,
			service.Write{Key: service.KeyExpenses, Value: `["new"]`, ExpectVersion: 0},
			service.Write{Key: service.KeyCategories, Value: `["b"]`, ExpectVersion: 5},
		)
		require.ErrorIs(t, err, common.ErrVersionConflict)

		_, err = store.Get(ctx, service.KeyExpenses)
		assert.ErrorIs(t, err, common.ErrNotFound, "first write must not be applied")

		entry, err := store.Get(ctx, service.KeyCategories)
		require.NoError(t, err)
		assert.Equal(t, `["a"]`, entry.Value)
	})
}

func TestStore_Delete(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store service.KeyValueStore) {
		ctx := context.Background()

		require.NoError(t, store.Commit(ctx,
			service.Write{Key: service.KeyUser, Value: "{}"},
			service.Write{Key: service.KeyToken, Value: `"t"`},
		))

		require.NoError(t, store.Commit(ctx,
			service.Write{Key: service.KeyUser, Delete: true, ExpectVersion: service.AnyVersion},
			service.Write{Key: service.KeyToken, Delete: true, ExpectVersion: service.AnyVersion},
		))

		for _, key := range []string{service.KeyUser, service.KeyToken} {
			_, err := store.Get(ctx, key)
			assert.ErrorIs(t, err, common.ErrNotFound, key)
		}

		// Deleting an absent key is fine.
		require.NoError(t, store.Commit(ctx, service.Write{Key: service.KeyUser, Delete: true}))
	})
}

func TestStore_RejectsBadBatches(t *testing.T) {
	forEachBackend(t, func(t *testing.T, store service.KeyValueStore) {
		ctx := context.Background()

		assert.ErrorIs(t, store.Commit(ctx), ErrEmptySlice)
		assert.ErrorIs(t, store.Commit(ctx, service.Write{Key: " "}), ErrEmptyString)
		assert.ErrorIs(t, store.Commit(ctx,
			service.Write{Key: "k", Value: "1"},
			service.Write{Key: "k", Value: "2"},
		), ErrDuplicateKey)
		assert.ErrorIs(t, store.Commit(ctx, service.Write{Key: "k", ExpectVersion: -2}), ErrBadVersion)

		//nolint:staticcheck // nil context is the case under test
		_, err := store.Get(nil, "k")
		assert.ErrorIs(t, err, ErrNilContext)
	})
}
