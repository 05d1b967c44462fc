// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateSecurity(); err != nil {
		return err
	}
	if err := c.validateDiscord(); err != nil {
		return err
	}
	if err := c.validateChecker(); err != nil {
		return err
	}
	return c.validateLogging()
}

// validateServer validates HTTP server settings.
func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	return nil
}

// validateDatabase validates DuckDB settings.
func (c *Config) validateDatabase() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DUCKDB_PATH is required")
	}
	if c.Database.Threads < 0 {
		return fmt.Errorf("DUCKDB_THREADS must not be negative")
	}
	return nil
}

// validateSecurity validates authentication and rate limit settings.
func (c *Config) validateSecurity() error {
	switch c.Security.AuthMode {
	case "jwt":
		if len(c.Security.JWTSecret) < 32 {
			return fmt.Errorf("JWT_SECRET must be at least 32 characters when AUTH_MODE=jwt (got %d)", len(c.Security.JWTSecret))
		}
	case "basic":
		if c.Security.AdminUsername == "" {
			return fmt.Errorf("ADMIN_USERNAME is required when AUTH_MODE=basic")
		}
		if c.Security.AdminPassword == "" {
			return fmt.Errorf("ADMIN_PASSWORD is required when AUTH_MODE=basic")
		}
	case "none":
		// Explicitly unauthenticated. main() logs a warning.
	default:
		return fmt.Errorf("AUTH_MODE must be one of: jwt, basic, none (got %q)", c.Security.AuthMode)
	}

	if c.Security.SessionTimeout <= 0 {
		return fmt.Errorf("SESSION_TIMEOUT must be positive")
	}
	if !c.Security.RateLimitDisabled {
		if c.Security.RateLimitReqs < 1 {
			return fmt.Errorf("RATE_LIMIT_REQS must be at least 1")
		}
		if c.Security.RateLimitWindow <= 0 {
			return fmt.Errorf("RATE_LIMIT_WINDOW must be positive")
		}
	}
	return nil
}

// validateDiscord validates the outbound Discord client settings.
func (c *Config) validateDiscord() error {
	if c.Discord.BaseURL == "" {
		return fmt.Errorf("DISCORD_BASE_URL is required")
	}
	if err := validateHTTPURL(c.Discord.BaseURL, "DISCORD_BASE_URL"); err != nil {
		return err
	}
	if c.Discord.Timeout <= 0 {
		return fmt.Errorf("DISCORD_TIMEOUT must be positive")
	}
	if c.Discord.RetryDelay <= 0 {
		return fmt.Errorf("DISCORD_RETRY_DELAY must be positive")
	}
	if c.Discord.MaxRetries < 0 {
		return fmt.Errorf("DISCORD_MAX_RETRIES must not be negative")
	}
	if c.Discord.RequestsPerSecond < 0 {
		return fmt.Errorf("DISCORD_REQUESTS_PER_SECOND must not be negative")
	}
	return nil
}

// validateChecker validates the token validation pipeline settings.
func (c *Config) validateChecker() error {
	if strings.TrimSpace(c.Checker.Origin) == "" {
		return fmt.Errorf("CHECKER_ORIGIN must not be empty")
	}
	if c.Checker.PersistTimeout <= 0 {
		return fmt.Errorf("CHECKER_PERSIST_TIMEOUT must be positive")
	}
	return nil
}

// validateLogging validates logger settings.
func (c *Config) validateLogging() error {
	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal", "disabled":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error, fatal, disabled (got %q)", c.Logging.Level)
	}
	switch strings.ToLower(c.Logging.Format) {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console (got %q)", c.Logging.Format)
	}
	return nil
}

// validateHTTPURL checks that the value parses as an absolute http(s) URL.
func validateHTTPURL(raw, name string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https scheme (got %q)", name, u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("%s is missing a host", name)
	}
	return nil
}
