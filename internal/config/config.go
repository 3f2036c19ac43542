// Package config loads and validates xpense settings from flags, environment and config.yaml.
package config

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/xpense/internal/common"
	"github.com/Veraticus/xpense/internal/model"
	"github.com/Veraticus/xpense/internal/storage"
)

// Configuration keys.
const (
	KeyStorageBackend = "storage.backend"
	KeySQLitePath     = "storage.sqlite.path"
	KeyRedisAddr      = "storage.redis.addr"
	KeyRedisPassword  = "storage.redis.password"
	KeyRedisDB        = "storage.redis.db"
	KeyRedisPrefix    = "storage.redis.prefix"
	KeyLatencyScale   = "latency.scale"
	KeyCurrency       = "defaults.currency"
	KeyTimezone       = "display.timezone"
	KeyPageSize       = "display.page_size"
	KeyLogLevel       = "logging.level"
	KeyLogFormat      = "logging.format"
)

// Config is the fully resolved client configuration.
type Config struct {
	Backend      storage.Backend
	SQLitePath   string
	RedisAddr    string
	RedisPass    string
	RedisPrefix  string
	Currency     string
	Timezone     string
	LogLevel     string
	LogFormat    string
	RedisDB      int
	PageSize     int
	LatencyScale float64
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() Config {
	return Config{
		Backend:      storage.BackendSQLite,
		SQLitePath:   "~/.local/share/xpense/xpense.db",
		RedisAddr:    "localhost:6379",
		RedisPrefix:  "xpense:",
		Currency:     model.DefaultCurrency,
		Timezone:     "UTC",
		LogLevel:     "info",
		LogFormat:    "console",
		PageSize:     10,
		LatencyScale: 1,
	}
}

// SetDefaults registers DefaultConfig with v so unset keys resolve.
func SetDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault(KeyStorageBackend, string(d.Backend))
	v.SetDefault(KeySQLitePath, d.SQLitePath)
	v.SetDefault(KeyRedisAddr, d.RedisAddr)
	v.SetDefault(KeyRedisPassword, "")
	v.SetDefault(KeyRedisDB, d.RedisDB)
	v.SetDefault(KeyRedisPrefix, d.RedisPrefix)
	v.SetDefault(KeyLatencyScale, d.LatencyScale)
	v.SetDefault(KeyCurrency, d.Currency)
	v.SetDefault(KeyTimezone, d.Timezone)
	v.SetDefault(KeyPageSize, d.PageSize)
	v.SetDefault(KeyLogLevel, d.LogLevel)
	v.SetDefault(KeyLogFormat, d.LogFormat)
}

// Load reads and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	SetDefaults(v)

	cfg := Config{
		Backend:      storage.Backend(strings.ToLower(v.GetString(KeyStorageBackend))),
		SQLitePath:   ExpandPath(v.GetString(KeySQLitePath)),
		RedisAddr:    v.GetString(KeyRedisAddr),
		RedisPass:    v.GetString(KeyRedisPassword),
		RedisDB:      v.GetInt(KeyRedisDB),
		RedisPrefix:  v.GetString(KeyRedisPrefix),
		LatencyScale: v.GetFloat64(KeyLatencyScale),
		Currency:     strings.ToUpper(v.GetString(KeyCurrency)),
		Timezone:     v.GetString(KeyTimezone),
		PageSize:     v.GetInt(KeyPageSize),
		LogLevel:     v.GetString(KeyLogLevel),
		LogFormat:    v.GetString(KeyLogFormat),
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every problem with the configuration at once.
func (c Config) Validate() error {
	var errs []error

	if !c.Backend.IsValid() {
		errs = append(errs, fmt.Errorf("%w: %s must be one of memory, sqlite, redis (got %q)",
			common.ErrInvalidConfig, KeyStorageBackend, c.Backend))
	}
	if c.Backend == storage.BackendSQLite && strings.TrimSpace(c.SQLitePath) == "" {
		errs = append(errs, fmt.Errorf("%w: %s", common.ErrMissingConfig, KeySQLitePath))
	}
	if c.Backend == storage.BackendRedis && strings.TrimSpace(c.RedisAddr) == "" {
		errs = append(errs, fmt.Errorf("%w: %s", common.ErrMissingConfig, KeyRedisAddr))
	}
	if c.RedisDB < 0 {
		errs = append(errs, fmt.Errorf("%w: %s cannot be negative", common.ErrInvalidConfig, KeyRedisDB))
	}
	if c.LatencyScale < 0 || math.IsNaN(c.LatencyScale) || math.IsInf(c.LatencyScale, 0) {
		errs = append(errs, fmt.Errorf("%w: %s must be a non-negative number", common.ErrInvalidConfig, KeyLatencyScale))
	}
	if len(c.Currency) != 3 {
		errs = append(errs, fmt.Errorf("%w: %s must be a 3-letter code (got %q)", common.ErrInvalidConfig, KeyCurrency, c.Currency))
	}
	if c.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("%w: %s must be positive", common.ErrInvalidConfig, KeyPageSize))
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("%w: %s: %v", common.ErrInvalidConfig, KeyTimezone, err))
	}
	if _, err := common.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", KeyLogLevel, err))
	}
	switch c.LogFormat {
	case "console", "json", "":
	default:
		errs = append(errs, fmt.Errorf("%w: %s must be console or json (got %q)", common.ErrInvalidConfig, KeyLogFormat, c.LogFormat))
	}

	return errors.Join(errs...)
}

// Location returns the time zone used to interpret calendar days.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// StorageOptions converts the configuration into storage.Open options.
func (c Config) StorageOptions() storage.Options {
	return storage.Options{
		Backend:    c.Backend,
		SQLitePath: c.SQLitePath,
		Redis: storage.RedisOptions{
			Addr:     c.RedisAddr,
			Password: c.RedisPass,
			DB:       c.RedisDB,
			Prefix:   c.RedisPrefix,
		},
	}
}
