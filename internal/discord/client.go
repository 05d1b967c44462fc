// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

// Package discord implements the outbound client for the Discord identity
// API. Two endpoints are consumed: the self lookup (GET /users/@me) and the
// billing country probe (GET /users/@me/billing/country-code), both
// authenticated with the account token under test.
//
// Throttled responses (HTTP 429) are retried after a fixed delay, up to a
// configured cap. Any other non-2xx status is unrecoverable for that call.
package discord

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tokenatlas/tokenatlas/internal/config"
	"github.com/tokenatlas/tokenatlas/internal/metrics"
	"github.com/tokenatlas/tokenatlas/internal/models"
)

// API is the identity service surface the checker depends on.
type API interface {
	// FetchSelf resolves the account owning the token.
	FetchSelf(ctx context.Context, token string) (*models.User, error)

	// FetchBillingCountry probes the billing country endpoint. It succeeds
	// only for accounts meeting the verification bar, which is the signal
	// the checker uses to correct the reported verified flag.
	FetchBillingCountry(ctx context.Context, token string) (string, error)
}

// ErrRetriesExhausted reports that a call stayed throttled through every
// permitted retry.
var ErrRetriesExhausted = errors.New("discord: rate limit retries exhausted")

// StatusError is returned for non-2xx, non-429 responses.
type StatusError struct {
	Endpoint string
	Code     int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("discord: %s returned HTTP %d", e.Endpoint, e.Code)
}

// Client is the concrete Discord API client.
//
// Thread safety: safe for concurrent use; each call builds its own request.
type Client struct {
	baseURL    string
	client     *http.Client
	retryDelay time.Duration
	maxRetries int
	limiter    *rate.Limiter
}

// NewClient creates a Discord API client from configuration.
func NewClient(cfg *config.DiscordConfig) *Client {
	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return &Client{
		baseURL:    cfg.BaseURL,
		client:     &http.Client{Timeout: cfg.Timeout},
		retryDelay: cfg.RetryDelay,
		maxRetries: cfg.MaxRetries,
		limiter:    limiter,
	}
}

// FetchSelf implements API.
func (c *Client) FetchSelf(ctx context.Context, token string) (*models.User, error) {
	body, err := c.get(ctx, "/users/@me", token)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("discord: decoding /users/@me response: %w", err)
	}
	return &user, nil
}

// billingCountryResponse is the billing country probe payload.
type billingCountryResponse struct {
	CountryCode string `json:"country_code"`
}

// FetchBillingCountry implements API.
func (c *Client) FetchBillingCountry(ctx context.Context, token string) (string, error) {
	body, err := c.get(ctx, "/users/@me/billing/country-code", token)
	if err != nil {
		return "", err
	}
	var resp billingCountryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", fmt.Errorf("discord: decoding billing country response: %w", err)
	}
	return resp.CountryCode, nil
}

// get performs an authenticated GET with throttling retries. A 429 response
// waits retryDelay and tries again, up to maxRetries times. Waits abort on
// context cancellation.
func (c *Client) get(ctx context.Context, endpoint, token string) ([]byte, error) {
	for attempt := 0; ; attempt++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}

		start := time.Now()
		body, status, err := c.doOnce(ctx, endpoint, token)
		if err != nil {
			metrics.RecordDiscordRequest(endpoint, "error", time.Since(start))
			return nil, err
		}

		switch {
		case status >= 200 && status < 300:
			metrics.RecordDiscordRequest(endpoint, "success", time.Since(start))
			return body, nil
		case status == http.StatusTooManyRequests:
			metrics.RecordDiscordRequest(endpoint, "throttled", time.Since(start))
			if attempt >= c.maxRetries {
				return nil, fmt.Errorf("%w: %s after %d attempts", ErrRetriesExhausted, endpoint, attempt+1)
			}
			metrics.DiscordRetriesTotal.Inc()
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		default:
			metrics.RecordDiscordRequest(endpoint, "error", time.Since(start))
			return nil, &StatusError{Endpoint: endpoint, Code: status}
		}
	}
}

// doOnce issues a single request and drains the body.
func (c *Client) doOnce(ctx context.Context, endpoint, token string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint, http.NoBody)
	if err != nil {
		return nil, 0, fmt.Errorf("discord: building request: %w", err)
	}
	// User tokens are presented raw, without a Bearer prefix.
	req.Header.Set("Authorization", token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("discord: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, 0, fmt.Errorf("discord: reading response: %w", err)
	}
	return body, resp.StatusCode, nil
}
