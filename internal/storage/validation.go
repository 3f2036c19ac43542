// Package storage provides the key-value persistence layer for the xpense client.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/xpense/internal/common"
	"github.com/Veraticus/xpense/internal/service"
)

// Validation errors.
var (
	ErrNilContext   = errors.New("context cannot be nil")
	ErrEmptyString  = errors.New("string parameter cannot be empty")
	ErrEmptySlice   = errors.New("slice cannot be empty")
	ErrDuplicateKey = errors.New("key written twice in one commit")
	ErrBadVersion   = errors.New("expected version must be AnyVersion or >= 0")
	ErrClosed       = errors.New("store is closed")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateWrites checks a commit batch before any backend touches it.
func validateWrites(writes []service.Write) error {
	if len(writes) == 0 {
		return fmt.Errorf("%w: writes", ErrEmptySlice)
	}

	seen := make(map[string]struct{}, len(writes))
	for i, w := range writes {
		if err := validateString(w.Key, "key"); err != nil {
			return fmt.Errorf("write at index %d: %w", i, err)
		}
		if w.ExpectVersion < service.AnyVersion {
			return fmt.Errorf("write at index %d: %w", i, ErrBadVersion)
		}
		if _, dup := seen[w.Key]; dup {
			return fmt.Errorf("%w: %s", ErrDuplicateKey, w.Key)
		}
		seen[w.Key] = struct{}{}
	}
	return nil
}

// checkVersion compares the version a writer observed with the stored one.
func checkVersion(w service.Write, current int64) error {
	if w.ExpectVersion == service.AnyVersion || w.ExpectVersion == current {
		return nil
	}
	return fmt.Errorf("key %q: expected version %d, found %d: %w",
		w.Key, w.ExpectVersion, current, common.ErrVersionConflict)
}

// notFound builds the error returned by Get for an absent key.
func notFound(key string) error {
	return fmt.Errorf("key %q: %w", key, common.ErrNotFound)
}
