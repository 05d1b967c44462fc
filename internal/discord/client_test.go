// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

package discord

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tokenatlas/tokenatlas/internal/config"
)

func testConfig(baseURL string) *config.DiscordConfig {
	return &config.DiscordConfig{
		BaseURL:    baseURL,
		Timeout:    5 * time.Second,
		RetryDelay: 10 * time.Millisecond,
		MaxRetries: 5,
	}
}

func TestFetchSelf(t *testing.T) {
	t.Parallel()

	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/@me" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"175928847299117063","username":"wumpus","discriminator":"0","verified":true,"premium_type":2}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	user, err := client.FetchSelf(context.Background(), "tok-abc")
	if err != nil {
		t.Fatalf("FetchSelf: %v", err)
	}
	if gotAuth != "tok-abc" {
		t.Errorf("Authorization header = %q, want raw token", gotAuth)
	}
	if user.ID != "175928847299117063" {
		t.Errorf("user.ID = %q", user.ID)
	}
	if user.PremiumType != 2 {
		t.Errorf("user.PremiumType = %d, want 2", user.PremiumType)
	}
}

func TestFetchBillingCountry(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/users/@me/billing/country-code" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"country_code":"DE"}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	country, err := client.FetchBillingCountry(context.Background(), "tok")
	if err != nil {
		t.Fatalf("FetchBillingCountry: %v", err)
	}
	if country != "DE" {
		t.Errorf("country = %q, want DE", country)
	}
}

func TestThrottledTwiceThenSuccess(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) <= 2 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"id":"175928847299117063","username":"wumpus","discriminator":"0"}`))
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	user, err := client.FetchSelf(context.Background(), "tok")
	if err != nil {
		t.Fatalf("FetchSelf after throttling: %v", err)
	}
	if user.Username != "wumpus" {
		t.Errorf("user.Username = %q", user.Username)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server saw %d calls, want 3 (2 throttled + 1 success)", got)
	}
}

func TestThrottledRetriesExhausted(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.MaxRetries = 2
	client := NewClient(cfg)

	_, err := client.FetchSelf(context.Background(), "tok")
	if !errors.Is(err, ErrRetriesExhausted) {
		t.Fatalf("FetchSelf error = %v, want ErrRetriesExhausted", err)
	}
}

func TestNonThrottlingErrorIsFinal(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := NewClient(testConfig(server.URL))
	_, err := client.FetchSelf(context.Background(), "revoked")

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("FetchSelf error = %v, want StatusError", err)
	}
	if statusErr.Code != http.StatusUnauthorized {
		t.Errorf("StatusError.Code = %d, want 401", statusErr.Code)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server saw %d calls, want 1 (no retry on non-429)", got)
	}
}

func TestRetryWaitAbortsOnCancel(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.RetryDelay = 10 * time.Second
	client := NewClient(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.FetchSelf(ctx, "tok")
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("FetchSelf error = %v, want DeadlineExceeded", err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Errorf("cancellation took %v, retry wait did not abort", elapsed)
	}
}
