// Package testutil provides fixtures shared by the xpense package tests:
// isolated stores, seeded collections, a controllable clock and
// deterministic identifiers.
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/Veraticus/xpense/internal/model"
	"github.com/Veraticus/xpense/internal/service"
	"github.com/Veraticus/xpense/internal/storage"
)

// TestStore wraps a key-value store scoped to one test.
type TestStore struct {
	Store service.KeyValueStore
	t     *testing.T
}

// SetupTestStore creates an empty in-memory store.
//
// Example:
//
//	ts := testutil.SetupTestStore(t)
//	ts.SeedCategories(model.Category{ID: "a", Name: "Food"})
//	repo := repository.New(ts.Store, repository.Options{})
func SetupTestStore(t *testing.T) *TestStore {
	t.Helper()

	store := storage.NewMemoryStore()
	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestStore{Store: store, t: t}
}

// SetupSQLiteStore creates a migrated SQLite store in a temporary directory.
func SetupSQLiteStore(t *testing.T) *TestStore {
	t.Helper()

	store, err := storage.NewSQLiteStore(filepath.Join(t.TempDir(), "xpense.db"))
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestStore{Store: store, t: t}
}

// SeedCategories persists cats as the category collection.
func (s *TestStore) SeedCategories(cats ...model.Category) {
	s.t.Helper()
	s.SeedJSON(service.KeyCategories, cats)
}

// SeedExpenses persists items as the expense collection.
func (s *TestStore) SeedExpenses(items ...model.Expense) {
	s.t.Helper()
	if items == nil {
		items = []model.Expense{}
	}
	s.SeedJSON(service.KeyExpenses, items)
}

// SeedJSON encodes v and stores it under key, overwriting any value.
func (s *TestStore) SeedJSON(key string, v any) {
	s.t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		s.t.Fatalf("failed to encode seed for %q: %v", key, err)
	}
	s.SeedRaw(key, string(data))
}

// SeedRaw stores value verbatim under key.
func (s *TestStore) SeedRaw(key, value string) {
	s.t.Helper()
	err := s.Store.Commit(context.Background(), service.Write{
		Key:           key,
		Value:         value,
		ExpectVersion: service.AnyVersion,
	})
	if err != nil {
		s.t.Fatalf("failed to seed %q: %v", key, err)
	}
}

// MustLoad decodes the stored value under key into dst or fails the test.
func (s *TestStore) MustLoad(key string, dst any) {
	s.t.Helper()
	entry, err := s.Store.Get(context.Background(), key)
	if err != nil {
		s.t.Fatalf("failed to load %q: %v", key, err)
	}
	if err := json.Unmarshal([]byte(entry.Value), dst); err != nil {
		s.t.Fatalf("failed to decode %q: %v", key, err)
	}
}

// Has reports whether key holds a value.
func (s *TestStore) Has(key string) bool {
	s.t.Helper()
	_, err := s.Store.Get(context.Background(), key)
	return err == nil
}

// Clock is a manually advanced time source.
type Clock struct {
	now time.Time
	mu  sync.Mutex
}

// NewClock returns a clock frozen at start.
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current frozen time.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// SequentialIDs returns a generator yielding prefix-1, prefix-2, ...
func SequentialIDs(prefix string) func() string {
	var (
		mu sync.Mutex
		n  int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

// Expense builds an expense with the fields most tests care about.
func Expense(id string, amount float64, categoryID string, date time.Time) model.Expense {
	return model.Expense{
		ID:         id,
		Amount:     amount,
		Currency:   model.DefaultCurrency,
		Date:       date,
		CategoryID: categoryID,
		CreatedAt:  date,
		UpdatedAt:  date,
	}
}
