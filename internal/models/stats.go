// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

package models

// Stats represents the top-level account tallies shown on the dashboard.
// Nitro counts only verified accounts with a paid subscription tier.
type Stats struct {
	Verified   int `json:"verified"`
	Unverified int `json:"unverified"`
	Nitro      int `json:"nitro"`
}

// LocaleStats represents the account count for one locale.
type LocaleStats struct {
	Locale string `json:"locale"`
	Count  int    `json:"count"`
}

// TokenRatePoint is one cell of the origin-by-day ingestion chart: how many
// tokens labeled with Origin were first persisted on Day.
type TokenRatePoint struct {
	Origin string `json:"origin"`
	Day    string `json:"day"` // YYYY-MM-DD
	Count  int    `json:"count"`
}

// CheckerStatus reports the validation pipeline state.
type CheckerStatus struct {
	Running   bool   `json:"running"`
	RunID     string `json:"run_id,omitempty"`
	Queued    int    `json:"queued"`
	Processed int    `json:"processed"`
	Valid     int    `json:"valid"`
}
