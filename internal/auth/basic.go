// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

package auth

import (
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// BasicAuthManager handles HTTP Basic Authentication against the single
// configured admin credential pair.
type BasicAuthManager struct {
	username     string
	passwordHash []byte
}

// NewBasicAuthManager creates a Basic Auth manager. The password is bcrypt
// hashed once at startup so requests only pay the comparison cost.
func NewBasicAuthManager(username, password string) (*BasicAuthManager, error) {
	if username == "" {
		return nil, fmt.Errorf("username is required")
	}
	if password == "" {
		return nil, fmt.Errorf("password is required")
	}
	if len(password) < 8 {
		return nil, fmt.Errorf("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	return &BasicAuthManager{username: username, passwordHash: hash}, nil
}

// ValidateCredentials checks an Authorization header carrying Basic
// credentials and returns the username when they match.
func (m *BasicAuthManager) ValidateCredentials(authHeader string) (string, error) {
	if !strings.HasPrefix(authHeader, "Basic ") {
		return "", fmt.Errorf("invalid authorization header format")
	}

	credentials, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(authHeader, "Basic "))
	if err != nil {
		return "", fmt.Errorf("failed to decode credentials")
	}

	parts := strings.SplitN(string(credentials), ":", 2)
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid credentials format")
	}

	if !m.validateUsernamePassword(parts[0], parts[1]) {
		return "", fmt.Errorf("invalid username or password")
	}
	return parts[0], nil
}

// validateUsernamePassword compares credentials in constant time.
func (m *BasicAuthManager) validateUsernamePassword(username, password string) bool {
	usernameMatch := subtle.ConstantTimeCompare([]byte(username), []byte(m.username)) == 1
	passwordMatch := bcrypt.CompareHashAndPassword(m.passwordHash, []byte(password)) == nil
	return usernameMatch && passwordMatch
}

// WWWAuthenticateHeader returns the value sent with 401 responses.
func (m *BasicAuthManager) WWWAuthenticateHeader() string {
	return `Basic realm="Tokenatlas", charset="UTF-8"`
}
