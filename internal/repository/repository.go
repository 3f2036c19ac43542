// Package repository implements the category and expense record layer on top
// of a key-value store, simulating the latency of a remote API.
package repository

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/xpense/internal/common"
	"github.com/Veraticus/xpense/internal/model"
	"github.com/Veraticus/xpense/internal/service"
)

// Simulated round-trip times per operation.
const (
	latencyGetCategories  = 300 * time.Millisecond
	latencySaveCategory   = 500 * time.Millisecond
	latencyDeleteCategory = 500 * time.Millisecond
	latencyGetExpenses    = 400 * time.Millisecond
	latencyAddExpense     = 600 * time.Millisecond
	latencyUpdateExpense  = 600 * time.Millisecond
	latencyDeleteExpense  = 400 * time.Millisecond
)

// Options tunes a Repository. Zero values select production defaults.
type Options struct {
	Logger          *slog.Logger
	Clock           func() time.Time
	NewID           func() string
	DefaultCurrency string
	LatencyScale    float64
}

// Repository is the record layer over a service.KeyValueStore.
type Repository struct {
	store    service.KeyValueStore
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
	currency string
	latency  common.Latency
	mu       sync.Mutex
}

var _ service.Repository = (*Repository)(nil)

// New creates a repository backed by store.
func New(store service.KeyValueStore, opts Options) *Repository {
	r := &Repository{
		store:    store,
		logger:   opts.Logger,
		now:      opts.Clock,
		newID:    opts.NewID,
		currency: opts.DefaultCurrency,
		latency:  common.Latency{Scale: opts.LatencyScale},
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.newID == nil {
		r.newID = uuid.NewString
	}
	if r.currency == "" {
		r.currency = model.DefaultCurrency
	}
	return r
}

// load decodes the JSON document under key into dst. It reports false with
// version 0 when the key has never been written.
func (r *Repository) load(ctx context.Context, key string, dst any) (bool, int64, error) {
	entry, err := r.store.Get(ctx, key)
	if errors.Is(err, common.ErrNotFound) {
		return false, 0, nil
	}
	if err != nil {
		return false, 0, common.NewStorageError("read", key, err)
	}
	if err := json.Unmarshal([]byte(entry.Value), dst); err != nil {
		return false, 0, common.NewStorageError("decode", key, err)
	}
	return true, entry.Version, nil
}

// put encodes value into a versioned write.
func put(key string, value any, version int64) (service.Write, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return service.Write{}, common.NewStorageError("encode", key, err)
	}
	return service.Write{Key: key, Value: string(data), ExpectVersion: version}, nil
}

func (r *Repository) commit(ctx context.Context, writes ...service.Write) error {
	if err := r.store.Commit(ctx, writes...); err != nil {
		return common.NewStorageError("write", writes[0].Key, err)
	}
	return nil
}

// categories returns the persisted collection or the bootstrap set.
func (r *Repository) categories(ctx context.Context) ([]model.Category, int64, error) {
	var cats []model.Category
	found, version, err := r.load(ctx, service.KeyCategories, &cats)
	if err != nil {
		return nil, 0, err
	}
	if !found {
		return BootstrapCategories(), 0, nil
	}
	return cats, version, nil
}

// expenses returns the persisted collection or the bootstrap set.
func (r *Repository) expenses(ctx context.Context) ([]model.Expense, int64, error) {
	var items []model.Expense
	found, version, err := r.load(ctx, service.KeyExpenses, &items)
	if err != nil {
		return nil, 0, err
	}
	if !found {
		return BootstrapExpenses(r.now()), 0, nil
	}
	if items == nil {
		items = []model.Expense{}
	}
	return items, version, nil
}
