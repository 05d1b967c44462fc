// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/goccy/go-json"

	"github.com/tokenatlas/tokenatlas/internal/auth"
	"github.com/tokenatlas/tokenatlas/internal/models"
)

func seedAccount(t *testing.T, env *testEnv, id, username string, tokens ...string) {
	t.Helper()
	err := env.db.CreateOrUpdate(context.Background(), models.Account{
		User:   models.User{ID: id, Username: username, Discriminator: "0", Verified: true},
		Tokens: tokens,
	}, env.cfg.Checker.Origin)
	if err != nil {
		t.Fatalf("seed account %s: %v", id, err)
	}
}

func TestLoginBootstrapsFirstOperator(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, "jwt")

	// First login creates the operator.
	rec := env.do(t, http.MethodPost, "/api/v1/auth/login",
		LoginRequest{Username: "root", Password: "hunter2-secure"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("bootstrap login status = %d, body %s", rec.Code, rec.Body.String())
	}
	var login LoginResponse
	if err := json.Unmarshal(decode(t, rec).Data, &login); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	if login.Token == "" || login.Username != "root" {
		t.Errorf("login = %+v", login)
	}

	count, err := env.db.CountAdminUsers(context.Background())
	if err != nil || count != 1 {
		t.Fatalf("CountAdminUsers = %d, %v, want 1", count, err)
	}

	// Second login must verify against the stored hash.
	rec = env.do(t, http.MethodPost, "/api/v1/auth/login",
		LoginRequest{Username: "root", Password: "wrong-password"}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("wrong password status = %d, want 401", rec.Code)
	}
	rec = env.do(t, http.MethodPost, "/api/v1/auth/login",
		LoginRequest{Username: "root", Password: "hunter2-secure"}, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("repeat login status = %d, want 200", rec.Code)
	}

	// Unknown usernames no longer bootstrap and look like bad passwords.
	rec = env.do(t, http.MethodPost, "/api/v1/auth/login",
		LoginRequest{Username: "intruder", Password: "hunter2-secure"}, nil)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("unknown user status = %d, want 401", rec.Code)
	}
}

func TestProtectedRoutesRequireJWT(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, "jwt")

	if rec := env.do(t, http.MethodGet, "/api/v1/results", nil, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated status = %d, want 401", rec.Code)
	}

	rec := env.do(t, http.MethodPost, "/api/v1/auth/login",
		LoginRequest{Username: "root", Password: "hunter2-secure"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d", rec.Code)
	}
	var login LoginResponse
	if err := json.Unmarshal(decode(t, rec).Data, &login); err != nil {
		t.Fatalf("decode login: %v", err)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/results", nil,
		map[string]string{"Authorization": "Bearer " + login.Token})
	if rec.Code != http.StatusOK {
		t.Errorf("authenticated status = %d, want 200", rec.Code)
	}

	// Public routes stay open.
	if rec := env.do(t, http.MethodGet, "/api/v1/health", nil, nil); rec.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200", rec.Code)
	}
}

func TestLoginDisabledOutsideJWTMode(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, "none")

	rec := env.do(t, http.MethodPost, "/api/v1/auth/login",
		LoginRequest{Username: "root", Password: "hunter2-secure"}, nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", rec.Code)
	}
}

func TestAccountEndpoints(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, "none")

	tok := makeToken("175928847299117063", "aaaaaa")
	seedAccount(t, env, "175928847299117063", "wumpus", tok)

	rec := env.do(t, http.MethodGet, "/api/v1/accounts", nil, nil)
	var listed struct {
		Accounts []models.StoredAccount `json:"accounts"`
		Count    int                    `json:"count"`
	}
	if err := json.Unmarshal(decode(t, rec).Data, &listed); err != nil {
		t.Fatalf("decode accounts: %v", err)
	}
	if listed.Count != 1 || listed.Accounts[0].User.Username != "wumpus" {
		t.Errorf("accounts = %+v", listed)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/accounts/175928847299117063", nil, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("by id status = %d, want 200", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/api/v1/accounts/175928847299117099", nil, nil); rec.Code != http.StatusNotFound {
		t.Errorf("missing id status = %d, want 404", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/accounts/by-token?value="+tok, nil, nil)
	if rec.Code != http.StatusOK {
		t.Errorf("by token status = %d, want 200", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/api/v1/accounts/by-token?value=garbage", nil, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("malformed token status = %d, want 400", rec.Code)
	}

	if rec := env.do(t, http.MethodDelete, "/api/v1/accounts/175928847299117063", nil, nil); rec.Code != http.StatusOK {
		t.Errorf("delete status = %d, want 200", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/api/v1/accounts/175928847299117063", nil, nil); rec.Code != http.StatusNotFound {
		t.Errorf("deleted account status = %d, want 404", rec.Code)
	}
}

func TestAccountPreview(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, "none")

	seedAccount(t, env, "175928847299117063", "wumpus",
		makeToken("175928847299117063", "aaaaaa"),
		makeToken("175928847299117063", "bbbbbb"))

	rec := env.do(t, http.MethodGet, "/api/v1/accounts/175928847299117063/preview", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("preview status = %d, body %s", rec.Code, rec.Body.String())
	}
	var payload struct {
		Preview models.AccountPreview `json:"preview"`
		Badges  []string              `json:"badges"`
	}
	if err := json.Unmarshal(decode(t, rec).Data, &payload); err != nil {
		t.Fatalf("decode preview: %v", err)
	}
	if payload.Preview.Username != "wumpus" || payload.Preview.TokenCount != 2 {
		t.Errorf("preview = %+v", payload.Preview)
	}

	// Short ids are rejected before touching the database.
	if rec := env.do(t, http.MethodGet, "/api/v1/accounts/12345/preview", nil, nil); rec.Code != http.StatusBadRequest {
		t.Errorf("short id status = %d, want 400", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/api/v1/accounts/99999999999999999/preview", nil, nil); rec.Code != http.StatusNotFound {
		t.Errorf("missing preview status = %d, want 404", rec.Code)
	}
}

func TestStatsEndpoints(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, "none")

	seedAccount(t, env, "175928847299117063", "wumpus", makeToken("175928847299117063", "aaaaaa"))

	rec := env.do(t, http.MethodGet, "/api/v1/stats", nil, nil)
	var stats models.Stats
	if err := json.Unmarshal(decode(t, rec).Data, &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.Verified != 1 || stats.Unverified != 0 {
		t.Errorf("stats = %+v", stats)
	}

	if rec := env.do(t, http.MethodGet, "/api/v1/stats/countries", nil, nil); rec.Code != http.StatusOK {
		t.Errorf("countries status = %d, want 200", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/v1/stats/token-rates", nil, nil)
	var rates struct {
		Rates []models.TokenRatePoint `json:"rates"`
	}
	if err := json.Unmarshal(decode(t, rec).Data, &rates); err != nil {
		t.Fatalf("decode rates: %v", err)
	}
	if len(rates.Rates) != 1 || rates.Rates[0].Count != 1 {
		t.Errorf("rates = %+v", rates.Rates)
	}
}

func TestOperatorEndpoints(t *testing.T) {
	t.Parallel()
	env := newTestEnv(t, "jwt")
	ctx := context.Background()

	hash, err := auth.HashPassword("hunter2-secure")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	root, err := env.db.CreateAdminUser(ctx, "root", hash)
	if err != nil {
		t.Fatalf("CreateAdminUser: %v", err)
	}
	second, err := env.db.CreateAdminUser(ctx, "backup", hash)
	if err != nil {
		t.Fatalf("CreateAdminUser: %v", err)
	}

	rec := env.do(t, http.MethodPost, "/api/v1/auth/login",
		LoginRequest{Username: "root", Password: "hunter2-secure"}, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("login status = %d", rec.Code)
	}
	var login LoginResponse
	if err := json.Unmarshal(decode(t, rec).Data, &login); err != nil {
		t.Fatalf("decode login: %v", err)
	}
	authz := map[string]string{"Authorization": "Bearer " + login.Token}

	rec = env.do(t, http.MethodGet, "/api/v1/users", nil, authz)
	var listed struct {
		Users []models.AdminUser `json:"users"`
		Count int                `json:"count"`
	}
	if err := json.Unmarshal(decode(t, rec).Data, &listed); err != nil {
		t.Fatalf("decode users: %v", err)
	}
	if listed.Count != 2 {
		t.Errorf("users = %+v, want 2", listed)
	}

	if rec := env.do(t, http.MethodGet, "/api/v1/users/"+second.ID, nil, authz); rec.Code != http.StatusOK {
		t.Errorf("get user status = %d, want 200", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/api/v1/users/nope", nil, authz); rec.Code != http.StatusNotFound {
		t.Errorf("missing user status = %d, want 404", rec.Code)
	}

	// Operators cannot delete themselves.
	rec = env.do(t, http.MethodDelete, "/api/v1/users/"+root.ID, nil, authz)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("self delete status = %d, want 400", rec.Code)
	}

	// Deleting the other operator works, then the survivor is protected.
	if rec := env.do(t, http.MethodDelete, "/api/v1/users/"+second.ID, nil, authz); rec.Code != http.StatusOK {
		t.Errorf("delete status = %d, want 200", rec.Code)
	}
	rec = env.do(t, http.MethodDelete, "/api/v1/users/"+root.ID, nil, authz)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("last operator delete status = %d, want 400", rec.Code)
	}
	if envl := decode(t, rec); envl.Error == nil || envl.Error.Code != "BAD_REQUEST" {
		t.Errorf("error = %+v", envl.Error)
	}

	// The only-operator rule wins over not-found: with one operator left,
	// deleting an unknown id answers 400, not 404.
	rec = env.do(t, http.MethodDelete, "/api/v1/users/nope", nil, authz)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown id with lone operator status = %d, want 400", rec.Code)
	}
	if envl := decode(t, rec); envl.Error == nil || envl.Error.Code != "BAD_REQUEST" {
		t.Errorf("error = %+v", envl.Error)
	}
}
