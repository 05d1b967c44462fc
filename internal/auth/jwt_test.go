// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/tokenatlas/tokenatlas/internal/config"
)

func newTestJWTManager(t *testing.T, timeout time.Duration) *JWTManager {
	t.Helper()
	m, err := NewJWTManager(&config.SecurityConfig{
		JWTSecret:      strings.Repeat("s", 32),
		SessionTimeout: timeout,
	})
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	return m
}

func TestJWTRoundTrip(t *testing.T) {
	t.Parallel()

	m := newTestJWTManager(t, time.Hour)
	token, err := m.GenerateToken("alice", "admin")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Username != "alice" || claims.Role != "admin" {
		t.Errorf("claims = %+v", claims)
	}
}

func TestJWTExpired(t *testing.T) {
	t.Parallel()

	m := newTestJWTManager(t, -time.Minute)
	token, err := m.GenerateToken("alice", "admin")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := m.ValidateToken(token); err == nil {
		t.Error("ValidateToken accepted an expired token")
	}
}

func TestJWTWrongSecret(t *testing.T) {
	t.Parallel()

	m := newTestJWTManager(t, time.Hour)
	token, err := m.GenerateToken("alice", "admin")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	other, err := NewJWTManager(&config.SecurityConfig{
		JWTSecret:      strings.Repeat("x", 32),
		SessionTimeout: time.Hour,
	})
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	if _, err := other.ValidateToken(token); err == nil {
		t.Error("ValidateToken accepted a token signed with another secret")
	}
}

func TestJWTGarbageToken(t *testing.T) {
	t.Parallel()

	m := newTestJWTManager(t, time.Hour)
	if _, err := m.ValidateToken("not.a.jwt"); err == nil {
		t.Error("ValidateToken accepted garbage")
	}
}

func TestNewJWTManagerRequiresSecret(t *testing.T) {
	t.Parallel()

	if _, err := NewJWTManager(&config.SecurityConfig{SessionTimeout: time.Hour}); err == nil {
		t.Error("NewJWTManager accepted an empty secret")
	}
}
