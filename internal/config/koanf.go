// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where config files are searched, in order.
// The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/tokenatlas/config.yaml",
	"/etc/tokenatlas/config.yml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "CONFIG_PATH"

// Load loads configuration with layered sources: defaults, then an optional
// YAML file, then environment variables (highest priority), and validates
// the result.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile returns the first existing config file path, or "".
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths lists config paths parsed as comma-separated slices when
// provided through environment variables.
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated env values to slices for the
// known slice fields. YAML-provided slices pass through untouched.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to config paths.
// Variables not listed here are ignored, so unrelated environment noise
// cannot leak into the configuration.
var envMappings = map[string]string{
	"http_host":        "server.host",
	"http_port":        "server.port",
	"http_timeout":     "server.timeout",
	"environment":      "server.environment",
	"duckdb_path":      "database.path",
	"duckdb_memory":    "database.max_memory",
	"duckdb_threads":   "database.threads",
	"auth_mode":        "security.auth_mode",
	"jwt_secret":       "security.jwt_secret",
	"session_timeout":  "security.session_timeout",
	"admin_username":   "security.admin_username",
	"admin_password":   "security.admin_password",
	"rate_limit_reqs":  "security.rate_limit_reqs",
	"rate_limit_window": "security.rate_limit_window",
	"disable_rate_limit": "security.rate_limit_disabled",
	"cors_origins":     "security.cors_origins",
	"discord_base_url": "discord.base_url",
	"discord_timeout":  "discord.timeout",
	"discord_retry_delay": "discord.retry_delay",
	"discord_max_retries": "discord.max_retries",
	"discord_requests_per_second": "discord.requests_per_second",
	"discord_breaker_enabled":     "discord.breaker_enabled",
	"checker_origin":   "checker.origin",
	"checker_persist_timeout": "checker.persist_timeout",
	"log_level":        "logging.level",
	"log_format":       "logging.format",
	"log_caller":       "logging.caller",
}

// envTransformFunc maps environment variable names to koanf config paths.
// Returning "" drops the variable.
func envTransformFunc(key string) string {
	if path, ok := envMappings[strings.ToLower(key)]; ok {
		return path
	}
	return ""
}
