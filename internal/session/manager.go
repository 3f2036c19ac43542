// Package session manages the signed-in user, their token and profile.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Veraticus/xpense/internal/common"
	"github.com/Veraticus/xpense/internal/model"
	"github.com/Veraticus/xpense/internal/service"
)

const latencyUpdateProfile = 600 * time.Millisecond

// Options tunes a Manager.
type Options struct {
	Logger       *slog.Logger
	LatencyScale float64
}

// Manager implements service.SessionManager over a key-value store.
type Manager struct {
	store   service.KeyValueStore
	logger  *slog.Logger
	latency common.Latency
	mu      sync.Mutex
}

var _ service.SessionManager = (*Manager)(nil)

// NewManager creates a session manager backed by store.
func NewManager(store service.KeyValueStore, opts Options) *Manager {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:   store,
		logger:  logger,
		latency: common.Latency{Scale: opts.LatencyScale},
	}
}

// Login authenticates through auth and stores the resulting session.
func (m *Manager) Login(ctx context.Context, auth service.Authenticator, creds service.Credentials) (model.User, error) {
	user, token, err := auth.Authenticate(ctx, creds)
	if err != nil {
		return model.User{}, fmt.Errorf("authentication failed: %w", err)
	}
	if err := m.SetSession(ctx, user, token); err != nil {
		return model.User{}, err
	}

	m.logger.Info("Logged in", common.FieldID, user.ID, "email", user.Email)
	return user, nil
}

// SetSession stores user and token together, replacing any previous session.
func (m *Manager) SetSession(ctx context.Context, user model.User, token string) error {
	if token == "" {
		return common.NewValidationError("token", "must not be empty")
	}

	userJSON, err := json.Marshal(user)
	if err != nil {
		return common.NewStorageError("encode", service.KeyUser, err)
	}
	tokenJSON, err := json.Marshal(token)
	if err != nil {
		return common.NewStorageError("encode", service.KeyToken, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	err = m.store.Commit(ctx,
		service.Write{Key: service.KeyUser, Value: string(userJSON), ExpectVersion: service.AnyVersion},
		service.Write{Key: service.KeyToken, Value: string(tokenJSON), ExpectVersion: service.AnyVersion},
	)
	if err != nil {
		return common.NewStorageError("write", service.KeyUser, err)
	}
	return nil
}

// GetSession returns the stored user. Both user and token must be present.
func (m *Manager) GetSession(ctx context.Context) (model.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, _, err := m.token(ctx); err != nil {
		return model.User{}, err
	}
	user, _, err := m.user(ctx)
	return user, err
}

// Token returns the stored token.
func (m *Manager) Token(ctx context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	token, _, err := m.token(ctx)
	return token, err
}

// UpdateProfile merges patch into the stored user.
func (m *Manager) UpdateProfile(ctx context.Context, patch model.ProfilePatch) (model.User, error) {
	if err := m.latency.Wait(ctx, latencyUpdateProfile); err != nil {
		return model.User{}, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	current, version, err := m.user(ctx)
	if err != nil {
		return model.User{}, err
	}

	updated := patch.Apply(current)
	data, err := json.Marshal(updated)
	if err != nil {
		return model.User{}, common.NewStorageError("encode", service.KeyUser, err)
	}

	err = m.store.Commit(ctx, service.Write{
		Key:           service.KeyUser,
		Value:         string(data),
		ExpectVersion: version,
	})
	if err != nil {
		return model.User{}, common.NewStorageError("write", service.KeyUser, err)
	}

	m.logger.Info("Updated profile", common.FieldOperation, "update_profile", common.FieldID, updated.ID)
	return updated, nil
}

// Logout ends the session. Records are kept.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.remove(ctx, service.KeyUser, service.KeyToken); err != nil {
		return err
	}
	m.logger.Info("Logged out")
	return nil
}

// Reset removes every persisted key, returning the client to first-run state.
func (m *Manager) Reset(ctx context.Context) error {
	if err := m.remove(ctx, service.AllKeys...); err != nil {
		return err
	}
	m.logger.Warn("Reset all local data", common.FieldCount, len(service.AllKeys))
	return nil
}

func (m *Manager) remove(ctx context.Context, keys ...string) error {
	writes := make([]service.Write, len(keys))
	for i, key := range keys {
		writes[i] = service.Write{Key: key, Delete: true, ExpectVersion: service.AnyVersion}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.store.Commit(ctx, writes...); err != nil {
		return common.NewStorageError("delete", keys[0], err)
	}
	return nil
}

func (m *Manager) user(ctx context.Context) (model.User, int64, error) {
	entry, err := m.store.Get(ctx, service.KeyUser)
	if errors.Is(err, common.ErrNotFound) {
		return model.User{}, 0, common.ErrNoSession
	}
	if err != nil {
		return model.User{}, 0, common.NewStorageError("read", service.KeyUser, err)
	}

	var user model.User
	if err := json.Unmarshal([]byte(entry.Value), &user); err != nil {
		return model.User{}, 0, common.NewStorageError("decode", service.KeyUser, err)
	}
	return user, entry.Version, nil
}

func (m *Manager) token(ctx context.Context) (string, int64, error) {
	entry, err := m.store.Get(ctx, service.KeyToken)
	if errors.Is(err, common.ErrNotFound) {
		return "", 0, common.ErrNoSession
	}
	if err != nil {
		return "", 0, common.NewStorageError("read", service.KeyToken, err)
	}

	var token string
	if err := json.Unmarshal([]byte(entry.Value), &token); err != nil {
		return "", 0, common.NewStorageError("decode", service.KeyToken, err)
	}
	if token == "" {
		return "", 0, common.ErrNoSession
	}
	return token, entry.Version, nil
}
