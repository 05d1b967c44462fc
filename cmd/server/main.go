// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

// Package main is the entry point for the Tokenatlas server.
//
// Tokenatlas is a self-hosted service that extracts Discord-token-shaped
// strings from pasted text, validates them against the Discord API, and
// keeps the resulting account intelligence in DuckDB.
//
// # Application Architecture
//
// The server initializes components in the following order:
//
//  1. Configuration: Koanf v2 layering defaults, config.yaml and env vars
//  2. Database: DuckDB with the accounts/tokens/admin_users schema
//  3. Discord client: rate limited, optionally behind a circuit breaker
//  4. Checker: token queue, in-memory account store and the run loop
//  5. Authentication: JWT, Basic or no-auth mode
//  6. HTTP server: Chi-routed JSON API plus /metrics
//
// All long-running parts sit in a suture supervisor tree and shut down
// gracefully on SIGINT or SIGTERM.
//
// # Configuration
//
// Environment variables override config.yaml which overrides defaults.
// For JWT authentication (default):
//   - JWT_SECRET: 32+ character secret for token signing
//
// For Basic authentication:
//   - AUTH_MODE=basic, ADMIN_USERNAME, ADMIN_PASSWORD
//
// Development without auth:
//   - AUTH_MODE=none
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tokenatlas/tokenatlas/internal/api"
	"github.com/tokenatlas/tokenatlas/internal/auth"
	"github.com/tokenatlas/tokenatlas/internal/checker"
	"github.com/tokenatlas/tokenatlas/internal/config"
	"github.com/tokenatlas/tokenatlas/internal/database"
	"github.com/tokenatlas/tokenatlas/internal/discord"
	"github.com/tokenatlas/tokenatlas/internal/logging"
	"github.com/tokenatlas/tokenatlas/internal/supervisor"
	"github.com/tokenatlas/tokenatlas/internal/supervisor/services"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().
		Str("version", version).
		Str("db_path", cfg.Database.Path).
		Str("auth_mode", cfg.Security.AuthMode).
		Str("origin", cfg.Checker.Origin).
		Msg("Starting Tokenatlas")

	db, err := database.New(&cfg.Database)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing database")
		}
	}()
	logging.Info().Msg("Database initialized")

	// Outbound Discord client, optionally wrapped in a circuit breaker so
	// sustained API failures stop burning the retry budget.
	var discordClient discord.API = discord.NewClient(&cfg.Discord)
	if cfg.Discord.BreakerEnabled {
		discordClient = discord.NewBreakerClient(discordClient)
		logging.Info().Msg("Discord client circuit breaker enabled")
	}

	queue := checker.NewQueue()
	store := checker.NewAccountStore()
	runner := checker.NewRunner(queue, store, discordClient, db, cfg.Checker.Origin, cfg.Checker.PersistTimeout)

	jwtManager, authenticator, err := buildAuthenticator(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to configure authentication")
	}

	handler := api.NewHandler(db, queue, store, runner, cfg, jwtManager, version)
	router := api.NewRouter(handler, cfg, authenticator).Setup()

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       2 * cfg.Server.Timeout,
	}

	tree := supervisor.NewTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	tree.AddCheckerService(services.NewCheckerService(runner, 10*time.Second))
	tree.AddAPIService(services.NewHTTPServerService(server, 10*time.Second))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errCh := tree.ServeBackground(ctx)
	logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
		cancel()
		if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
			logging.Error().Err(err).Msg("Supervisor tree stopped with error")
		}
	case err := <-errCh:
		if err != nil && !errors.Is(err, context.Canceled) {
			logging.Fatal().Err(err).Msg("Supervisor tree failed")
		}
	}

	if report, err := tree.UnstoppedServiceReport(); err == nil && len(report) > 0 {
		for _, svc := range report {
			logging.Warn().Str("service", svc.Name).Msg("Service missed shutdown timeout")
		}
	}

	logging.Info().Msg("Tokenatlas stopped")
}

// buildAuthenticator maps the configured auth mode to an authenticator for
// the protected route groups. In jwt mode the manager is also handed to the
// login handler for session issuance.
func buildAuthenticator(cfg *config.Config) (*auth.JWTManager, auth.Authenticator, error) {
	switch cfg.Security.AuthMode {
	case "jwt":
		manager, err := auth.NewJWTManager(&cfg.Security)
		if err != nil {
			return nil, nil, err
		}
		return manager, &auth.JWTAuthenticator{Manager: manager}, nil

	case "basic":
		manager, err := auth.NewBasicAuthManager(cfg.Security.AdminUsername, cfg.Security.AdminPassword)
		if err != nil {
			return nil, nil, err
		}
		return nil, &auth.BasicAuthenticator{Manager: manager}, nil

	case "none":
		logging.Warn().Msg("Authentication disabled (AUTH_MODE=none); do not expose this instance publicly")
		return nil, auth.NoneAuthenticator{}, nil

	default:
		return nil, nil, fmt.Errorf("unsupported auth mode %q", cfg.Security.AuthMode)
	}
}
