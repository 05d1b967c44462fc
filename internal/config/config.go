// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

// Package config loads and validates the Tokenatlas configuration.
//
// Configuration is loaded via Koanf v2 with layered sources, highest
// priority last:
//
//  1. Built-in defaults
//  2. Optional YAML config file (config.yaml, or CONFIG_PATH)
//  3. Environment variables
package config

import (
	"time"
)

// Config is the root configuration for the Tokenatlas server.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Database DatabaseConfig `koanf:"database"`
	Security SecurityConfig `koanf:"security"`
	Discord  DiscordConfig  `koanf:"discord"`
	Checker  CheckerConfig  `koanf:"checker"`
	Logging  LoggingConfig  `koanf:"logging"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host        string        `koanf:"host"`
	Port        int           `koanf:"port"`
	Timeout     time.Duration `koanf:"timeout"`
	Environment string        `koanf:"environment"`
}

// DatabaseConfig holds DuckDB settings.
type DatabaseConfig struct {
	// Path is the DuckDB database file. ":memory:" opens an in-memory
	// database, used by tests.
	Path                   string `koanf:"path"`
	MaxMemory              string `koanf:"max_memory"`
	Threads                int    `koanf:"threads"` // 0 = runtime.NumCPU()
	PreserveInsertionOrder bool   `koanf:"preserve_insertion_order"`
}

// SecurityConfig holds authentication and HTTP protection settings.
type SecurityConfig struct {
	// AuthMode selects the admin authentication scheme: jwt, basic or none.
	AuthMode          string        `koanf:"auth_mode"`
	JWTSecret         string        `koanf:"jwt_secret"`
	SessionTimeout    time.Duration `koanf:"session_timeout"`
	AdminUsername     string        `koanf:"admin_username"`
	AdminPassword     string        `koanf:"admin_password"`
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// DiscordConfig holds settings for the outbound Discord API client.
type DiscordConfig struct {
	BaseURL string        `koanf:"base_url"`
	Timeout time.Duration `koanf:"timeout"`

	// RetryDelay is the fixed wait applied before retrying a throttled
	// (HTTP 429) request. The Discord web client observes the same 5s.
	RetryDelay time.Duration `koanf:"retry_delay"`

	// MaxRetries caps how many throttled retries a single call may spend
	// before it is treated as failed.
	MaxRetries int `koanf:"max_retries"`

	// RequestsPerSecond paces outbound calls; 0 disables pacing.
	RequestsPerSecond float64 `koanf:"requests_per_second"`

	// BreakerEnabled wraps the client in a circuit breaker.
	BreakerEnabled bool `koanf:"breaker_enabled"`
}

// CheckerConfig holds settings for the token validation pipeline.
type CheckerConfig struct {
	// Origin is the label attached to every token persisted by this
	// deployment, surfaced later in the per-origin rate statistics.
	Origin string `koanf:"origin"`

	// PersistTimeout bounds each detached persistence write.
	PersistTimeout time.Duration `koanf:"persist_timeout"`
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// defaultConfig returns a Config with all default values. These are applied
// first, then overridden by the config file and environment variables.
func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8472,
			Timeout:     30 * time.Second,
			Environment: "development",
		},
		Database: DatabaseConfig{
			Path:                   "/data/tokenatlas.duckdb",
			MaxMemory:              "1GB",
			Threads:                0,
			PreserveInsertionOrder: true,
		},
		Security: SecurityConfig{
			AuthMode:        "jwt",
			JWTSecret:       "",
			SessionTimeout:  24 * time.Hour,
			AdminUsername:   "",
			AdminPassword:   "",
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Discord: DiscordConfig{
			BaseURL:           "https://discord.com/api/v10",
			Timeout:           30 * time.Second,
			RetryDelay:        5 * time.Second,
			MaxRetries:        120,
			RequestsPerSecond: 0,
			BreakerEnabled:    true,
		},
		Checker: CheckerConfig{
			Origin:         "Tokenatlas Web",
			PersistTimeout: 15 * time.Second,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// IsDevelopment reports whether the server runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Server.Environment != "production"
}
