// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := defaultConfig()
	cfg.Security.AuthMode = "none"
	return cfg
}

func TestDefaultConfigValidatesWithAuthNone(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantSub string
	}{
		{
			name:    "port too low",
			mutate:  func(c *Config) { c.Server.Port = 0 },
			wantSub: "HTTP_PORT",
		},
		{
			name:    "port too high",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantSub: "HTTP_PORT",
		},
		{
			name:    "empty database path",
			mutate:  func(c *Config) { c.Database.Path = "" },
			wantSub: "DUCKDB_PATH",
		},
		{
			name:    "unknown auth mode",
			mutate:  func(c *Config) { c.Security.AuthMode = "oauth" },
			wantSub: "AUTH_MODE",
		},
		{
			name: "jwt mode without secret",
			mutate: func(c *Config) {
				c.Security.AuthMode = "jwt"
				c.Security.JWTSecret = "short"
			},
			wantSub: "JWT_SECRET",
		},
		{
			name: "basic mode without password",
			mutate: func(c *Config) {
				c.Security.AuthMode = "basic"
				c.Security.AdminUsername = "admin"
				c.Security.AdminPassword = ""
			},
			wantSub: "ADMIN_PASSWORD",
		},
		{
			name:    "discord base url wrong scheme",
			mutate:  func(c *Config) { c.Discord.BaseURL = "ftp://discord.com/api" },
			wantSub: "DISCORD_BASE_URL",
		},
		{
			name:    "negative max retries",
			mutate:  func(c *Config) { c.Discord.MaxRetries = -1 },
			wantSub: "DISCORD_MAX_RETRIES",
		},
		{
			name:    "blank checker origin",
			mutate:  func(c *Config) { c.Checker.Origin = "   " },
			wantSub: "CHECKER_ORIGIN",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Logging.Level = "verbose" },
			wantSub: "LOG_LEVEL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("Validate() error %q does not mention %q", err, tt.wantSub)
			}
		})
	}
}

func TestValidateJWTModeWithSecret(t *testing.T) {
	t.Parallel()

	cfg := validConfig()
	cfg.Security.AuthMode = "jwt"
	cfg.Security.JWTSecret = strings.Repeat("s", 32)
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v, want nil", err)
	}
}

func TestLoadAppliesEnvironmentOverrides(t *testing.T) {
	t.Setenv("AUTH_MODE", "none")
	t.Setenv("HTTP_PORT", "9000")
	t.Setenv("CHECKER_ORIGIN", "Intake East")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Server.Port = %d, want 9000", cfg.Server.Port)
	}
	if cfg.Checker.Origin != "Intake East" {
		t.Errorf("Checker.Origin = %q, want %q", cfg.Checker.Origin, "Intake East")
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.Security.CORSOrigins) != len(want) {
		t.Fatalf("CORSOrigins = %v, want %v", cfg.Security.CORSOrigins, want)
	}
	for i := range want {
		if cfg.Security.CORSOrigins[i] != want[i] {
			t.Errorf("CORSOrigins[%d] = %q, want %q", i, cfg.Security.CORSOrigins[i], want[i])
		}
	}
}

func TestLoadIgnoresUnrelatedEnvVars(t *testing.T) {
	t.Setenv("AUTH_MODE", "none")
	t.Setenv("PATH_INFO", "/tmp/should-not-leak")
	t.Setenv("SERVER_SOFTWARE", "test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}
	if cfg.Database.Path != defaultConfig().Database.Path {
		t.Errorf("Database.Path = %q, want default", cfg.Database.Path)
	}
}

func TestLoadReadsConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  port: 8123\nsecurity:\n  auth_mode: none\nchecker:\n  origin: File Origin\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}
	if cfg.Server.Port != 8123 {
		t.Errorf("Server.Port = %d, want 8123", cfg.Server.Port)
	}
	if cfg.Checker.Origin != "File Origin" {
		t.Errorf("Checker.Origin = %q, want %q", cfg.Checker.Origin, "File Origin")
	}
	// Values not set in the file keep their defaults.
	if cfg.Discord.RetryDelay != 5*time.Second {
		t.Errorf("Discord.RetryDelay = %v, want 5s", cfg.Discord.RetryDelay)
	}
}

func TestEnvOverridesConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte("server:\n  port: 8123\nsecurity:\n  auth_mode: none\n")
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv(ConfigPathEnvVar, path)
	t.Setenv("HTTP_PORT", "8999")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}
	if cfg.Server.Port != 8999 {
		t.Errorf("Server.Port = %d, want env override 8999", cfg.Server.Port)
	}
}
