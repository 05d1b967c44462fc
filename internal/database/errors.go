// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

package database

import (
	"errors"
	"io"

	"github.com/tokenatlas/tokenatlas/internal/logging"
)

var (
	// ErrAccountNotFound is returned when no account matches the lookup.
	ErrAccountNotFound = errors.New("database: account not found")

	// ErrAdminUserNotFound is returned when no admin user matches.
	ErrAdminUserNotFound = errors.New("database: admin user not found")

	// ErrAdminUserExists is returned when creating a duplicate username.
	ErrAdminUserExists = errors.New("database: admin username already taken")

	// ErrLastAdminUser guards deletion of the only remaining operator.
	ErrLastAdminUser = errors.New("database: cannot delete the only admin user")
)

// closeQuietly closes a resource and explicitly ignores any error.
// For cleanup in error paths where Close errors are not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}

// closeWithLog closes a resource and logs any error.
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}
