package storage

import (
	"context"
	"sync"

	"github.com/Veraticus/xpense/internal/service"
)

// MemoryStore keeps entries in process memory. Nothing survives a restart.
type MemoryStore struct {
	entries map[string]service.Entry
	mu      sync.Mutex
	closed  bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]service.Entry)}
}

// Get returns the entry stored under key.
func (s *MemoryStore) Get(ctx context.Context, key string) (service.Entry, error) {
	if err := validateContext(ctx); err != nil {
		return service.Entry{}, err
	}
	if err := validateString(key, "key"); err != nil {
		return service.Entry{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return service.Entry{}, ErrClosed
	}
	entry, ok := s.entries[key]
	if !ok {
		return service.Entry{}, notFound(key)
	}
	return entry, nil
}

// Commit applies writes atomically under the store lock.
func (s *MemoryStore) Commit(ctx context.Context, writes ...service.Write) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateWrites(writes); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	// Check every version before touching anything.
	for _, w := range writes {
		if err := checkVersion(w, s.entries[w.Key].Version); err != nil {
			return err
		}
	}

	for _, w := range writes {
		if w.Delete {
			delete(s.entries, w.Key)
			continue
		}
		s.entries[w.Key] = service.Entry{
			Value:   w.Value,
			Version: s.entries[w.Key].Version + 1,
		}
	}
	return nil
}

// Close marks the store unusable.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
