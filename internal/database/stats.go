// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tokenatlas/tokenatlas/internal/metrics"
	"github.com/tokenatlas/tokenatlas/internal/models"
)

// GetStats returns the dashboard tallies. Nitro counts verified accounts
// holding any paid subscription tier.
func (db *DB) GetStats(ctx context.Context) (*models.Stats, error) {
	start := time.Now()
	var stats models.Stats
	err := db.conn.QueryRowContext(ctx, `
		SELECT
			COUNT(*) FILTER (WHERE verified),
			COUNT(*) FILTER (WHERE NOT verified),
			COUNT(*) FILTER (WHERE verified AND premium_type > 0)
		FROM accounts`).
		Scan(&stats.Verified, &stats.Unverified, &stats.Nitro)
	metrics.RecordDBQuery("SELECT", "accounts", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}
	return &stats, nil
}

// GetLocaleDistribution returns account counts grouped by locale, largest
// first. Accounts without a locale group under the empty string.
func (db *DB) GetLocaleDistribution(ctx context.Context) ([]models.LocaleStats, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT COALESCE(locale, ''), COUNT(*)
		FROM accounts
		GROUP BY COALESCE(locale, '')
		ORDER BY COUNT(*) DESC, COALESCE(locale, '')`)
	metrics.RecordDBQuery("SELECT", "accounts", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to load locale distribution: %w", err)
	}
	defer closeWithLog(rows, "locale rows")

	var out []models.LocaleStats
	for rows.Next() {
		var ls models.LocaleStats
		if err := rows.Scan(&ls.Locale, &ls.Count); err != nil {
			return nil, fmt.Errorf("failed to scan locale row: %w", err)
		}
		out = append(out, ls)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("locale iteration failed: %w", err)
	}
	return out, nil
}

// GetTokenRates returns per-origin daily token counts over the trailing
// 12 days, oldest day first. Tokens without an origin label group under
// the empty string. Days with no tokens for an origin produce no point.
func (db *DB) GetTokenRates(ctx context.Context) ([]models.TokenRatePoint, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `
		SELECT COALESCE(origin, ''), strftime(created_at, '%Y-%m-%d') AS day, COUNT(*)
		FROM tokens
		WHERE created_at >= CURRENT_TIMESTAMP - INTERVAL 12 DAY
		GROUP BY COALESCE(origin, ''), day
		ORDER BY day, COALESCE(origin, '')`)
	metrics.RecordDBQuery("SELECT", "tokens", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to load token rates: %w", err)
	}
	defer closeWithLog(rows, "token rate rows")

	var out []models.TokenRatePoint
	for rows.Next() {
		var p models.TokenRatePoint
		if err := rows.Scan(&p.Origin, &p.Day, &p.Count); err != nil {
			return nil, fmt.Errorf("failed to scan token rate row: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("token rate iteration failed: %w", err)
	}
	return out, nil
}
