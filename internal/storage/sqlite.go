package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/Veraticus/xpense/internal/common"
	"github.com/Veraticus/xpense/internal/service"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements service.KeyValueStore on a single SQLite table.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// NewSQLiteStore opens (and creates if needed) the database at dbPath.
// Call Migrate before use.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := validateString(dbPath, "dbPath"); err != nil {
		return nil, err
	}

	if dbPath != ":memory:" {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite doesn't benefit from multiple connections, and an in-memory
	// database only exists on the connection that created it.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &SQLiteStore{
		db:     db,
		dbPath: dbPath,
	}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Get returns the entry stored under key.
func (s *SQLiteStore) Get(ctx context.Context, key string) (service.Entry, error) {
	if err := validateContext(ctx); err != nil {
		return service.Entry{}, err
	}
	if err := validateString(key, "key"); err != nil {
		return service.Entry{}, err
	}

	var entry service.Entry
	err := s.db.QueryRowContext(ctx,
		`SELECT value, version FROM kv WHERE key = ?`, key,
	).Scan(&entry.Value, &entry.Version)

	if errors.Is(err, sql.ErrNoRows) {
		return service.Entry{}, notFound(key)
	}
	if err != nil {
		return service.Entry{}, fmt.Errorf("failed to query key %q: %w", key, err)
	}
	return entry, nil
}

// Commit applies all writes inside one SQL transaction.
func (s *SQLiteStore) Commit(ctx context.Context, writes ...service.Write) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateWrites(writes); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	for _, w := range writes {
		current, err := s.versionTx(ctx, tx, w.Key)
		if err != nil {
			return err
		}
		if err := checkVersion(w, current); err != nil {
			return err
		}

		if w.Delete {
			if _, err := tx.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, w.Key); err != nil {
				return fmt.Errorf("failed to delete key %q: %w", w.Key, err)
			}
			continue
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO kv (key, value, version, updated_at)
			VALUES (?, ?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET
				value = excluded.value,
				version = excluded.version,
				updated_at = excluded.updated_at`,
			w.Key, w.Value, current+1, now)
		if err != nil {
			return fmt.Errorf("failed to write key %q: %w", w.Key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	slog.Debug("committed writes", common.FieldBackend, BackendSQLite, common.FieldCount, len(writes))
	return nil
}

func (s *SQLiteStore) versionTx(ctx context.Context, tx *sql.Tx, key string) (int64, error) {
	var version int64
	err := tx.QueryRowContext(ctx, `SELECT version FROM kv WHERE key = ?`, key).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read version of %q: %w", key, err)
	}
	return version, nil
}
