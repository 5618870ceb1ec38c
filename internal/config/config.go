// Package config provides configuration for the lecture chat server.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Store backends selectable with STORE_BACKEND.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendRedis  = "redis"
)

// Config holds the server configuration.
type Config struct {
	// Server settings
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Store settings
	StoreBackend string `envconfig:"STORE_BACKEND" default:"sqlite"`
	DatabaseURL  string `envconfig:"DATABASE_URL" default:"file:lecturechat.db?_busy_timeout=5000"`
	BadgerPath   string `envconfig:"BADGER_PATH" default:"data/badger"`
	RedisURL     string `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`

	// Client-facing settings
	AppBaseURL   string        `envconfig:"APP_BASE_URL" default:"http://localhost:8501"`
	PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"3s"`

	// Limits
	MaxMessageLength int    `envconfig:"MAX_MESSAGE_LENGTH" default:"2000"`
	RateLimit        string `envconfig:"RATE_LIMIT" default:"20-S"`

	// Logging
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load loads configuration from .env (if present) and environment variables.
func Load() (*Config, error) {
	// production environments may not have a .env file
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that envconfig cannot.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendMemory, BackendSQLite, BackendBadger, BackendRedis:
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("POLL_INTERVAL must be positive, got %s", c.PollInterval)
	}
	if c.MaxMessageLength < 0 {
		return fmt.Errorf("MAX_MESSAGE_LENGTH must not be negative")
	}
	return nil
}
