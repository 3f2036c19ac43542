package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/xpense/internal/cli"
	"github.com/Veraticus/xpense/internal/common"
	"github.com/Veraticus/xpense/internal/config"
)

var version = "dev"

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:   "xpense",
		Short: "👛 Personal expense tracker",
		Long: `xpense keeps track of your day-to-day spending.

Record expenses, organise them into colored categories, import bank
statements and see where the money went.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			return a.initConfig()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: $HOME/.config/xpense/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-format", "console", "log format (console, json)")
	rootCmd.PersistentFlags().String("backend", "", "storage backend (memory, sqlite, redis)")
	rootCmd.PersistentFlags().String("db", "", "sqlite database path")

	_ = a.v.BindPFlag(config.KeyLogLevel, rootCmd.PersistentFlags().Lookup("log-level"))
	_ = a.v.BindPFlag(config.KeyLogFormat, rootCmd.PersistentFlags().Lookup("log-format"))
	_ = a.v.BindPFlag(config.KeyStorageBackend, rootCmd.PersistentFlags().Lookup("backend"))
	_ = a.v.BindPFlag(config.KeySQLitePath, rootCmd.PersistentFlags().Lookup("db"))

	rootCmd.AddCommand(loginCmd(a))
	rootCmd.AddCommand(logoutCmd(a))
	rootCmd.AddCommand(resetCmd(a))
	rootCmd.AddCommand(profileCmd(a))
	rootCmd.AddCommand(categoriesCmd(a))
	rootCmd.AddCommand(expensesCmd(a))
	rootCmd.AddCommand(dashboardCmd(a))
	rootCmd.AddCommand(versionCmd())

	return rootCmd
}

func main() {
	// A missing .env is fine
	_ = godotenv.Load()

	ctx, cancel := context.WithCancel(context.Background())

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		slog.Info("Received interrupt signal, shutting down gracefully...")
		cancel()
	}()

	err := newRootCmd().ExecuteContext(ctx)
	cancel()

	if err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(describeError(err)))
		os.Exit(1)
	}
}

func (a *app) initConfig() error {
	if a.cfgFile != "" {
		a.v.SetConfigFile(a.cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("failed to get home directory: %w", err)
		}

		a.v.AddConfigPath(filepath.Join(home, ".config", "xpense"))
		a.v.AddConfigPath(".")
		a.v.SetConfigName("config")
		a.v.SetConfigType("yaml")
	}

	// XPENSE_STORAGE_BACKEND, XPENSE_DEFAULTS_CURRENCY, ...
	a.v.SetEnvPrefix("XPENSE")
	a.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	a.v.AutomaticEnv()

	if err := a.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	if err := common.SetupLogger(cfg.LogLevel, cfg.LogFormat); err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}
	return nil
}

// describeError turns repository errors into something a user can act on.
func describeError(err error) string {
	var userErr *common.UserError
	switch {
	case errors.As(err, &userErr):
		return userErr.Error()
	case errors.Is(err, common.ErrNoSession):
		return "not logged in, run 'xpense login' first"
	case errors.Is(err, common.ErrVersionConflict):
		return "your data was changed by another xpense process, please try again"
	case errors.Is(err, context.Canceled):
		return "canceled"
	default:
		return err.Error()
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "xpense %s\n", version)
		},
	}
}
