// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

package discord

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tokenatlas/tokenatlas/internal/logging"
	"github.com/tokenatlas/tokenatlas/internal/metrics"
	"github.com/tokenatlas/tokenatlas/internal/models"
)

// BreakerClient wraps an API with a circuit breaker so a Discord outage
// fails validation runs fast instead of stalling the queue on timeouts.
//
// The breaker uses real time for its interval and timeout windows. Tests
// should exercise the wrapped client directly.
type BreakerClient struct {
	inner API
	cb    *gobreaker.CircuitBreaker[any]
	name  string
}

// NewBreakerClient wraps inner with a circuit breaker.
//
// Configuration:
//   - 3 concurrent requests allowed in half-open state
//   - 1 minute measurement window in closed state
//   - 30 second timeout before attempting recovery
//   - opens at a 60% failure rate over at least 10 requests
func NewBreakerClient(inner API) *BreakerClient {
	cbName := "discord-api"
	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0)

	cb := gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			fromStr := stateToString(from)
			toStr := stateToString(to)
			logging.Info().Str("from", fromStr).Str("to", toStr).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, fromStr, toStr).Inc()
		},
		// Throttling is handled by the retry loop and must not trip the
		// breaker. Only transport and server errors count as failures.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			if errors.Is(err, ErrRetriesExhausted) {
				return true
			}
			var statusErr *StatusError
			if errors.As(err, &statusErr) && statusErr.Code < 500 {
				return true
			}
			return false
		},
	})

	return &BreakerClient{inner: inner, cb: cb, name: cbName}
}

// FetchSelf implements API.
func (b *BreakerClient) FetchSelf(ctx context.Context, token string) (*models.User, error) {
	result, err := b.cb.Execute(func() (any, error) {
		return b.inner.FetchSelf(ctx, token)
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.User), nil
}

// FetchBillingCountry implements API.
func (b *BreakerClient) FetchBillingCountry(ctx context.Context, token string) (string, error) {
	result, err := b.cb.Execute(func() (any, error) {
		return b.inner.FetchBillingCountry(ctx, token)
	})
	if err != nil {
		return "", err
	}
	return result.(string), nil
}

// stateToString converts a circuit breaker state to its label value.
func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// stateToFloat converts a circuit breaker state to its gauge value.
func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
