// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tokenatlas/tokenatlas/internal/auth"
	"github.com/tokenatlas/tokenatlas/internal/database"
	"github.com/tokenatlas/tokenatlas/internal/logging"
)

// LoginResponse is the payload of a successful login.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Username  string    `json:"username"`
	Role      string    `json:"role"`
}

// Login authenticates an operator against the admin_users table and issues
// a JWT session. The very first successful login bootstraps the operator
// table: when no admin user exists yet, the submitted credentials become
// the first account.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	if h.config.Security.AuthMode != "jwt" || h.jwtManager == nil {
		respondError(w, http.StatusForbidden, "AUTH_DISABLED", "JWT authentication is not enabled", nil)
		return
	}

	if !h.authenticate(w, r, &req) {
		return
	}

	token, err := h.jwtManager.GenerateToken(req.Username, "admin")
	if err != nil {
		respondError(w, http.StatusInternalServerError, "TOKEN_GENERATION_FAILED", "Failed to generate session token", err)
		return
	}
	expiresAt := time.Now().Add(h.config.Security.SessionTimeout)

	http.SetCookie(w, &http.Cookie{
		Name:     auth.SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteStrictMode,
	})

	respondSuccess(w, http.StatusOK, LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Username:  req.Username,
		Role:      "admin",
	}, start)
}

// authenticate verifies credentials, bootstrapping the first operator when
// the table is empty. Replies on failure and returns false.
func (h *Handler) authenticate(w http.ResponseWriter, r *http.Request, req *LoginRequest) bool {
	ctx := r.Context()

	count, err := h.db.CountAdminUsers(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to query operators", err)
		return false
	}

	if count == 0 {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			respondError(w, http.StatusBadRequest, "WEAK_PASSWORD", err.Error(), nil)
			return false
		}
		if _, err := h.db.CreateAdminUser(ctx, req.Username, hash); err != nil {
			respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to create first operator", err)
			return false
		}
		logging.Info().Str("username", sanitizeLogValue(req.Username)).Msg("Bootstrapped first admin user")
		return true
	}

	user, err := h.db.GetAdminUserByUsername(ctx, req.Username)
	if errors.Is(err, database.ErrAdminUserNotFound) {
		// Same response as a wrong password so usernames cannot be probed.
		respondError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
		return false
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load operator", err)
		return false
	}
	if !auth.CheckPassword(user.Hash, req.Password) {
		respondError(w, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid username or password", nil)
		return false
	}
	return true
}
