// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

// Package metrics defines the Prometheus instrumentation for Tokenatlas:
// API endpoint latency and throughput, outbound Discord request outcomes,
// checker pipeline progress, and DuckDB query performance. All collectors
// register through promauto on the default registry and are exposed on
// /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API endpoint metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Outbound Discord client metrics
	DiscordRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discord_requests_total",
			Help: "Total number of outbound Discord API requests",
		},
		[]string{"endpoint", "outcome"}, // outcome: success, throttled, error
	)

	DiscordRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "discord_request_duration_seconds",
			Help:    "Duration of outbound Discord API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	DiscordRetriesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "discord_rate_limit_retries_total",
			Help: "Total number of retries issued after HTTP 429 responses",
		},
	)

	// Circuit breaker metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Checker pipeline metrics
	CheckerTokensProcessed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "checker_tokens_processed_total",
			Help: "Total number of tokens dequeued for validation",
		},
	)

	CheckerTokensSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checker_tokens_skipped_total",
			Help: "Total number of tokens dropped during validation",
		},
		[]string{"reason"}, // decode, timestamp, lookup
	)

	CheckerAccountsClassified = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "checker_accounts_classified_total",
			Help: "Total number of accounts classified by validation runs",
		},
		[]string{"verified"},
	)

	CheckerPersistFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "checker_persist_failures_total",
			Help: "Total number of detached persistence writes that failed",
		},
	)

	CheckerQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "checker_queue_depth",
			Help: "Current number of tokens in the pending queue",
		},
	)

	// Database metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table"},
	)
)

// RecordAPIRequest records an API request outcome with duration.
func RecordAPIRequest(method, endpoint string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordDiscordRequest records an outbound Discord request outcome.
func RecordDiscordRequest(endpoint, outcome string, duration time.Duration) {
	DiscordRequestsTotal.WithLabelValues(endpoint, outcome).Inc()
	DiscordRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordDBQuery records a database query with duration, and any error.
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation, table).Inc()
	}
}
