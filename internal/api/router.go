// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tokenatlas/tokenatlas/internal/auth"
	"github.com/tokenatlas/tokenatlas/internal/config"
	"github.com/tokenatlas/tokenatlas/internal/logging"
	"github.com/tokenatlas/tokenatlas/internal/metrics"
)

// Router wires handlers into the Chi routing tree.
type Router struct {
	handler       *Handler
	config        *config.Config
	authenticator auth.Authenticator
}

// NewRouter creates a router for the given handler and authenticator.
func NewRouter(handler *Handler, cfg *config.Config, authenticator auth.Authenticator) *Router {
	return &Router{
		handler:       handler,
		config:        cfg,
		authenticator: authenticator,
	}
}

// Setup builds the full routing tree with the middleware stack.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to every route. CORS must be global so
	// OPTIONS preflight requests are answered.
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(requestLogging)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   router.config.Security.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Public endpoints.
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		// Strict limit on login to slow credential stuffing.
		r.With(router.rateLimit(5, 5*time.Minute)).Post("/login", router.handler.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(router.rateLimit(router.config.Security.RateLimitReqs, router.config.Security.RateLimitWindow))
		r.Use(requestMetrics)

		r.Post("/api/v1/tokens/extract", router.handler.ExtractTokens)
		r.Get("/api/v1/accounts/{id}/preview", router.handler.AccountPreview)
	})

	// Checker endpoints, gated by the configured auth mode.
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.rateLimit(router.config.Security.RateLimitReqs, router.config.Security.RateLimitWindow))
		r.Use(requestMetrics)
		r.Use(auth.Middleware(router.authenticator))

		r.Post("/tokens", router.handler.SetTokens)
		r.Get("/tokens", router.handler.ListTokens)
		r.Delete("/tokens", router.handler.ClearTokens)
		r.Post("/tokens/remove", router.handler.RemoveToken)

		r.Post("/check/start", router.handler.CheckStart)
		r.Post("/check/stop", router.handler.CheckStop)
		r.Get("/check/status", router.handler.CheckStatus)

		r.Get("/results", router.handler.Results)
		r.Delete("/results/{id}", router.handler.ResultDelete)
		r.Get("/results/export", router.handler.ResultsExport)

		// Admin data surface.
		r.Get("/accounts", router.handler.Accounts)
		r.Get("/accounts/by-token", router.handler.AccountByToken)
		r.Get("/accounts/{id}", router.handler.AccountByID)
		r.Delete("/accounts/{id}", router.handler.AccountDelete)

		r.Get("/stats", router.handler.Stats)
		r.Get("/stats/countries", router.handler.StatsCountries)
		r.Get("/stats/token-rates", router.handler.StatsTokenRates)

		r.Get("/users", router.handler.UsersList)
		r.Get("/users/{id}", router.handler.UserGet)
		r.Delete("/users/{id}", router.handler.UserDelete)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}

// rateLimit returns an IP-keyed limiter, or a no-op when rate limiting is
// disabled (tests, trusted deployments).
func (router *Router) rateLimit(requests int, window time.Duration) func(http.Handler) http.Handler {
	if router.config.Security.RateLimitDisabled {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.LimitByIP(requests, window)
}

// requestLogging emits one structured log line per request.
func requestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		logging.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", chimiddleware.GetReqID(r.Context())).
			Msg("Request handled")
	})
}

// requestMetrics records Prometheus counters and latency per route pattern.
func requestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		endpoint := r.URL.Path
		if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
			if pattern := routeCtx.RoutePattern(); pattern != "" {
				endpoint = pattern
			}
		}
		metrics.RecordAPIRequest(r.Method, endpoint, ww.Status(), time.Since(start))
	})
}
