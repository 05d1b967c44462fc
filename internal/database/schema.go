// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

package database

import (
	"fmt"
)

// initialize creates the schema if it does not exist.
func (db *DB) initialize() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS accounts (
			id            VARCHAR PRIMARY KEY,
			username      VARCHAR NOT NULL,
			discriminator VARCHAR NOT NULL,
			avatar        VARCHAR,
			email         VARCHAR,
			verified      BOOLEAN NOT NULL DEFAULT FALSE,
			accent_color  INTEGER,
			banner        VARCHAR,
			bot           BOOLEAN NOT NULL DEFAULT FALSE,
			flags         BIGINT NOT NULL DEFAULT 0,
			global_name   VARCHAR,
			locale        VARCHAR,
			mfa_enabled   BOOLEAN NOT NULL DEFAULT FALSE,
			premium_type  INTEGER NOT NULL DEFAULT 0,
			public_flags  BIGINT NOT NULL DEFAULT 0,
			is_system     BOOLEAN NOT NULL DEFAULT FALSE,
			phone         VARCHAR,
			nsfw_allowed  BOOLEAN,
			bio           VARCHAR,
			banner_color  VARCHAR,
			created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS tokens (
			value      VARCHAR PRIMARY KEY,
			account_id VARCHAR NOT NULL,
			origin     VARCHAR,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tokens_account_id ON tokens(account_id)`,
		`CREATE INDEX IF NOT EXISTS idx_tokens_origin_created ON tokens(origin, created_at)`,
		`CREATE TABLE IF NOT EXISTS admin_users (
			id            VARCHAR PRIMARY KEY,
			username      VARCHAR NOT NULL UNIQUE,
			password_hash VARCHAR NOT NULL,
			created_at    TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("schema statement failed: %w", err)
		}
	}
	return nil
}
