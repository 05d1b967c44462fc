// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tokenatlas/tokenatlas/internal/logging"
)

// SessionCookieName is the cookie carrying the JWT session token for
// browser clients.
const SessionCookieName = "tokenatlas_session"

type contextKey string

const usernameKey contextKey = "auth.username"

// Authenticator resolves the requesting operator from an HTTP request.
type Authenticator interface {
	// Authenticate returns the authenticated username, or an error for
	// anonymous or invalid requests.
	Authenticate(r *http.Request) (string, error)
}

// JWTAuthenticator authenticates via a Bearer token or the session cookie.
type JWTAuthenticator struct {
	Manager *JWTManager
}

// Authenticate implements Authenticator.
func (a *JWTAuthenticator) Authenticate(r *http.Request) (string, error) {
	tokenString := ""
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		tokenString = strings.TrimPrefix(header, "Bearer ")
	} else if cookie, err := r.Cookie(SessionCookieName); err == nil {
		tokenString = cookie.Value
	}
	if tokenString == "" {
		return "", fmt.Errorf("missing credentials")
	}

	claims, err := a.Manager.ValidateToken(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Username, nil
}

// BasicAuthenticator authenticates via HTTP Basic credentials.
type BasicAuthenticator struct {
	Manager *BasicAuthManager
}

// Authenticate implements Authenticator.
func (a *BasicAuthenticator) Authenticate(r *http.Request) (string, error) {
	return a.Manager.ValidateCredentials(r.Header.Get("Authorization"))
}

// NoneAuthenticator accepts every request. Used when AUTH_MODE=none.
type NoneAuthenticator struct{}

// Authenticate implements Authenticator.
func (NoneAuthenticator) Authenticate(*http.Request) (string, error) {
	return "anonymous", nil
}

// Middleware gates a route group behind the authenticator. Failed requests
// receive a 401 with the standard error envelope; authenticated usernames
// land in the request context.
func Middleware(authenticator Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, err := authenticator.Authenticate(r)
			if err != nil {
				logging.Debug().Err(err).Str("path", r.URL.Path).Msg("Authentication failed")
				if basic, ok := authenticator.(*BasicAuthenticator); ok {
					w.Header().Set("WWW-Authenticate", basic.Manager.WWWAuthenticateHeader())
				}
				writeUnauthorized(w)
				return
			}
			ctx := context.WithValue(r.Context(), usernameKey, username)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UsernameFromContext returns the authenticated username, if any.
func UsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameKey).(string)
	return username, ok
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	body := map[string]any{
		"status": "error",
		"error": map[string]any{
			"code":    "AUTHENTICATION_ERROR",
			"message": "Authentication required",
		},
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Warn().Err(err).Msg("Failed to write 401 response")
	}
}
