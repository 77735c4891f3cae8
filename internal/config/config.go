package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// EnvPrefix is prepended to every variable, e.g. MEDIA_GALLERY_HTTP_PORT.
const EnvPrefix = "MEDIA_GALLERY"

// Config holds the configuration for the media service
// Environment variables are automatically parsed from MEDIA_GALLERY_ prefix
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string      `envconfig:"LOG_LEVEL" default:"info"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Catalog database: postgres or sqlite; auto picks sqlite when SQLITE_PATH is set
	DBDriver    string `envconfig:"DB_DRIVER" default:"auto"`
	PostgresDSN string `envconfig:"POSTGRES_DSN" default:""`
	SQLitePath  string `envconfig:"SQLITE_PATH" default:""`

	// Interaction state: file, badger or redis
	StateDriver string `envconfig:"STATE_DRIVER" default:"file"`
	StateDir    string `envconfig:"STATE_DIR" default:"App_Data"`
	RedisAddr   string `envconfig:"REDIS_ADDR" default:"localhost:6379"`

	// Directory media paths are resolved against; empty disables the feeds
	MediaRoot string `envconfig:"MEDIA_ROOT" default:""`

	// Feed sampling
	FeedBatchSize   int   `envconfig:"FEED_BATCH_SIZE" default:"50"`
	FeedMaxAttempts int   `envconfig:"FEED_MAX_ATTEMPTS" default:"5"`
	FeedSeed        int64 `envconfig:"FEED_SEED" default:"0"`

	// Paging
	DefaultPageSize int `envconfig:"DEFAULT_PAGE_SIZE" default:"20"`
	MaxPageSize     int `envconfig:"MAX_PAGE_SIZE" default:"500"`
	PhotoTagLimit   int `envconfig:"PHOTO_TAG_LIMIT" default:"12"`

	// Health check configuration
	HealthIntervalSeconds     int `envconfig:"HEALTH_INTERVAL_SECONDS" default:"30"`
	HealthProbeTimeoutSeconds int `envconfig:"HEALTH_PROBE_TIMEOUT_SECONDS" default:"2"`

	// Bootstrap
	BootstrapTimeoutSeconds int `envconfig:"BOOTSTRAP_TIMEOUT_SECONDS" default:"5"`
}

// ResolveDefaults validates drivers and derives DBDriver when set to "auto" or empty.
func (c *Config) ResolveDefaults() error {
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))
	if c.DBDriver == "" || c.DBDriver == "auto" {
		if c.SQLitePath != "" {
			c.DBDriver = "sqlite"
		} else {
			c.DBDriver = "postgres"
		}
	}
	allowedDB := map[string]bool{"postgres": true, "sqlite": true}
	if !allowedDB[c.DBDriver] {
		return fmt.Errorf("unsupported DB_DRIVER: %s", c.DBDriver)
	}

	c.StateDriver = strings.ToLower(strings.TrimSpace(c.StateDriver))
	if c.StateDriver == "" {
		c.StateDriver = "file"
	}
	allowedState := map[string]bool{"file": true, "badger": true, "redis": true}
	if !allowedState[c.StateDriver] {
		return fmt.Errorf("unsupported STATE_DRIVER: %s", c.StateDriver)
	}

	if c.MaxPageSize < 1 || c.MaxPageSize > 500 {
		return fmt.Errorf("MAX_PAGE_SIZE must be within [1, 500], got %d", c.MaxPageSize)
	}
	if c.DefaultPageSize < 1 || c.DefaultPageSize > c.MaxPageSize {
		return fmt.Errorf("DEFAULT_PAGE_SIZE must be within [1, %d], got %d", c.MaxPageSize, c.DefaultPageSize)
	}
	if c.FeedBatchSize < 1 {
		return fmt.Errorf("FEED_BATCH_SIZE must be positive, got %d", c.FeedBatchSize)
	}
	if c.FeedMaxAttempts < 1 {
		return fmt.Errorf("FEED_MAX_ATTEMPTS must be positive, got %d", c.FeedMaxAttempts)
	}
	return nil
}

// New creates a new Config by parsing environment variables
// Environment variables should be prefixed with MEDIA_GALLERY_
// Example: MEDIA_GALLERY_MEDIA_ROOT, MEDIA_GALLERY_HTTP_PORT
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}

	if err := cfg.ResolveDefaults(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Int("port", cfg.HTTPPort).
		Str("db_driver", cfg.DBDriver).
		Bool("postgres_dsn_present", cfg.PostgresDSN != "").
		Str("sqlite_path", cfg.SQLitePath).
		Str("state_driver", cfg.StateDriver).
		Str("state_dir", cfg.StateDir).
		Str("media_root", cfg.MediaRoot).
		Int("feed_batch_size", cfg.FeedBatchSize).
		Int("feed_max_attempts", cfg.FeedMaxAttempts).
		Int("max_page_size", cfg.MaxPageSize).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config specifically for testing
func NewForTesting() *Config {
	return &Config{
		Environment:               EnvTesting,
		LogLevel:                  "debug",
		HTTPPort:                  8080,
		DBDriver:                  "sqlite",
		SQLitePath:                "testdata/catalog.db",
		StateDriver:               "file",
		StateDir:                  "testdata/state",
		RedisAddr:                 "localhost:6379",
		MediaRoot:                 "testdata/media",
		FeedBatchSize:             50,
		FeedMaxAttempts:           5,
		FeedSeed:                  1,
		DefaultPageSize:           20,
		MaxPageSize:               500,
		PhotoTagLimit:             12,
		HealthIntervalSeconds:     1,
		HealthProbeTimeoutSeconds: 1,
		BootstrapTimeoutSeconds:   1,
	}
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func (c *Config) HealthInterval() time.Duration {
	return time.Duration(c.HealthIntervalSeconds) * time.Second
}

func (c *Config) HealthProbeTimeout() time.Duration {
	return time.Duration(c.HealthProbeTimeoutSeconds) * time.Second
}

func (c *Config) BootstrapTimeout() time.Duration {
	return time.Duration(c.BootstrapTimeoutSeconds) * time.Second
}
