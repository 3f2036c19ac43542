package storage

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/xpense/internal/common"
	"github.com/Veraticus/xpense/internal/service"
)

func TestRedisStore_UsesPrefixedHashes(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := NewRedisStore(context.Background(), RedisOptions{Addr: mr.Addr(), Prefix: "xp:"})
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	require.NoError(t, store.Commit(context.Background(), service.Write{Key: service.KeyToken, Value: `"jwt"`}))

	assert.True(t, mr.Exists("xp:"+service.KeyToken))
	assert.Equal(t, `"jwt"`, mr.HGet("xp:"+service.KeyToken, "value"))
	assert.Equal(t, "1", mr.HGet("xp:"+service.KeyToken, "version"))
}

func TestRedisStore_CorruptVersion(t *testing.T) {
	mr := miniredis.RunT(t)
	mr.HSet("p:"+service.KeyUser, "value", "{}", "version", "nope")

	store := NewRedisStoreFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "p:")
	defer func() { _ = store.Close() }()

	_, err := store.Get(context.Background(), service.KeyUser)
	require.Error(t, err)
	assert.NotErrorIs(t, err, common.ErrNotFound)
}

func TestRedisStore_ConflictFromAnotherWriter(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	first := NewRedisStoreFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "")
	second := NewRedisStoreFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), "")
	defer func() { _ = first.Close() }()
	defer func() { _ = second.Close() }()

	require.NoError(t, first.Commit(ctx, service.Write{Key: service.KeyExpenses, Value: "[]"}))
	seen, err := first.Get(ctx, service.KeyExpenses)
	require.NoError(t, err)

	require.NoError(t, second.Commit(ctx, service.Write{
		Key: service.KeyExpenses, Value: `[{"id":"x"}]`, ExpectVersion: seen.Version,
	}))

	err = first.Commit(ctx, service.Write{
		Key: service.KeyExpenses, Value: `[{"id":"y"}]`, ExpectVersion: seen.Version,
	})
	assert.ErrorIs(t, err, common.ErrVersionConflict)
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := NewRedisStore(ctx, RedisOptions{Addr: addr})
	assert.Error(t, err)
}
