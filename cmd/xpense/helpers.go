package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/xpense/internal/cli"
	"github.com/Veraticus/xpense/internal/common"
	"github.com/Veraticus/xpense/internal/config"
	"github.com/Veraticus/xpense/internal/model"
	"github.com/Veraticus/xpense/internal/repository"
	"github.com/Veraticus/xpense/internal/service"
	"github.com/Veraticus/xpense/internal/session"
	"github.com/Veraticus/xpense/internal/storage"
)

// app holds what every command needs once configuration is loaded.
type app struct {
	v        *viper.Viper
	store    service.KeyValueStore
	repo     service.Repository
	sessions service.SessionManager
	cfgFile  string
	cfg      config.Config
}

// open connects to the configured backend and builds the repository and
// session manager on top of it.
func (a *app) open(ctx context.Context) error {
	if a.store != nil {
		return nil
	}

	store, err := storage.Open(ctx, a.cfg.StorageOptions())
	if err != nil {
		return fmt.Errorf("failed to open %s storage: %w", a.cfg.Backend, err)
	}

	logger := slog.Default()
	a.store = store
	a.repo = repository.New(store, repository.Options{
		Logger:          logger,
		DefaultCurrency: a.cfg.Currency,
		LatencyScale:    a.cfg.LatencyScale,
	})
	a.sessions = session.NewManager(store, session.Options{
		Logger:       logger,
		LatencyScale: a.cfg.LatencyScale,
	})
	return nil
}

func (a *app) close() {
	if a.store == nil {
		return
	}
	if err := a.store.Close(); err != nil {
		slog.Warn("Failed to close storage", common.FieldBackend, a.cfg.Backend, "error", err)
	}
	a.store = nil
}

// signedIn opens storage and returns the current user. Record commands are
// only available with an active session.
func (a *app) signedIn(ctx context.Context) (model.User, error) {
	if err := a.open(ctx); err != nil {
		return model.User{}, err
	}
	user, err := a.sessions.GetSession(ctx)
	if err != nil {
		if errors.Is(err, common.ErrNoSession) {
			return model.User{}, common.NewUserError("not logged in, run 'xpense login' first", nil)
		}
		return model.User{}, err
	}
	return user, nil
}

// currency is the user's display currency, falling back to the configured one.
func (a *app) currency(user model.User) string {
	if user.Preferences.Currency != "" {
		return user.Preferences.Currency
	}
	return a.cfg.Currency
}

// retryConflicts reruns op when another process wrote the same key between
// our read and our write.
func retryConflicts(ctx context.Context, op func() error) error {
	conflictsOnly := func() error {
		err := op()
		if err == nil || errors.Is(err, common.ErrVersionConflict) {
			return err
		}
		return &common.RetryableError{Err: err, Retryable: false}
	}
	return common.WithRetry(ctx, conflictsOnly, service.RetryOptions{
		MaxAttempts:  3,
		InitialDelay: 50 * time.Millisecond,
		MaxDelay:     500 * time.Millisecond,
		Multiplier:   2,
	})
}

func prompter(cmd *cobra.Command) *cli.Prompter {
	return cli.NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
}

// confirm asks before a destructive action unless force is set.
func confirm(cmd *cobra.Command, force bool, question string) (bool, error) {
	if force {
		return true, nil
	}
	ok, err := prompter(cmd).Confirm(cmd.Context(), question)
	if err != nil {
		return false, fmt.Errorf("failed to read input: %w", err)
	}
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Canceled."))
	}
	return ok, nil
}

// stringFlag returns a pointer to the flag value when the user set it.
func stringFlag(cmd *cobra.Command, name string) *string {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetString(name)
	return &v
}

func float64Flag(cmd *cobra.Command, name string) *float64 {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetFloat64(name)
	return &v
}

func boolFlag(cmd *cobra.Command, name string) *bool {
	if !cmd.Flags().Changed(name) {
		return nil
	}
	v, _ := cmd.Flags().GetBool(name)
	return &v
}
