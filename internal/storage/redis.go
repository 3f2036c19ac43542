package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/Veraticus/xpense/internal/common"
	"github.com/Veraticus/xpense/internal/service"
)

const (
	redisFieldValue   = "value"
	redisFieldVersion = "version"
)

// RedisOptions configures a RedisStore.
type RedisOptions struct {
	Addr     string
	Password string
	Prefix   string
	DB       int
}

// RedisStore implements service.KeyValueStore with one hash per key.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(ctx context.Context, opts RedisOptions) (*RedisStore, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(opts.Addr, "addr"); err != nil {
		return nil, err
	}

	client := redis.NewClient(&redis.Options{
		Addr:         opts.Addr,
		Password:     opts.Password,
		DB:           opts.DB,
		DialTimeout:  10 * time.Second,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	err := common.WithRetry(ctx, func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return client.Ping(pingCtx).Err()
	}, service.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: 200 * time.Millisecond,
		MaxDelay:     2 * time.Second,
		Multiplier:   2,
	})
	if err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", opts.Addr, err)
	}

	slog.Debug("Connected to redis", "addr", opts.Addr, "db", opts.DB)
	return NewRedisStoreFromClient(client, opts.Prefix), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix}
}

// Close closes the underlying client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) redisKey(key string) string {
	return s.prefix + key
}

// Get returns the entry stored under key.
func (s *RedisStore) Get(ctx context.Context, key string) (service.Entry, error) {
	if err := validateContext(ctx); err != nil {
		return service.Entry{}, err
	}
	if err := validateString(key, "key"); err != nil {
		return service.Entry{}, err
	}

	fields, err := s.client.HGetAll(ctx, s.redisKey(key)).Result()
	if err != nil {
		return service.Entry{}, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	if len(fields) == 0 {
		return service.Entry{}, notFound(key)
	}
	return decodeRedisEntry(key, fields)
}

// Commit watches every touched key, checks versions, then writes in MULTI/EXEC.
// A concurrent writer aborts the transaction with a version conflict.
func (s *RedisStore) Commit(ctx context.Context, writes ...service.Write) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateWrites(writes); err != nil {
		return err
	}

	keys := make([]string, len(writes))
	for i, w := range writes {
		keys[i] = s.redisKey(w.Key)
	}

	txf := func(tx *redis.Tx) error {
		current := make([]int64, len(writes))
		for i, w := range writes {
			version, err := s.versionTx(ctx, tx, w.Key)
			if err != nil {
				return err
			}
			if err := checkVersion(w, version); err != nil {
				return err
			}
			current[i] = version
		}

		_, err := tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for i, w := range writes {
				if w.Delete {
					pipe.Del(ctx, keys[i])
					continue
				}
				pipe.HSet(ctx, keys[i],
					redisFieldValue, w.Value,
					redisFieldVersion, current[i]+1)
			}
			return nil
		})
		return err
	}

	err := s.client.Watch(ctx, txf, keys...)
	if errors.Is(err, redis.TxFailedErr) {
		return fmt.Errorf("concurrent write to %v: %w", keys, common.ErrVersionConflict)
	}
	if err != nil {
		return err
	}

	slog.Debug("committed writes", common.FieldBackend, BackendRedis, common.FieldCount, len(writes))
	return nil
}

func (s *RedisStore) versionTx(ctx context.Context, tx *redis.Tx, key string) (int64, error) {
	raw, err := tx.HGet(ctx, s.redisKey(key), redisFieldVersion).Result()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read version of %q: %w", key, err)
	}
	version, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("corrupt version for %q: %w", key, err)
	}
	return version, nil
}

func decodeRedisEntry(key string, fields map[string]string) (service.Entry, error) {
	value, ok := fields[redisFieldValue]
	if !ok {
		return service.Entry{}, fmt.Errorf("key %q has no value field", key)
	}
	version, err := strconv.ParseInt(fields[redisFieldVersion], 10, 64)
	if err != nil {
		return service.Entry{}, fmt.Errorf("corrupt version for %q: %w", key, err)
	}
	return service.Entry{Value: value, Version: version}, nil
}
