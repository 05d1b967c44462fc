// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

// Package api provides the HTTP surface of Tokenatlas using the Chi router.
//
// Handler methods are split across files by concern:
//   - handlers.go: Handler struct, constructor, shared response helpers
//   - handlers_health.go: health and readiness endpoints
//   - handlers_auth.go: login and session issuance
//   - handlers_tokens.go: token extraction and the pending queue
//   - handlers_check.go: validation run lifecycle
//   - handlers_results.go: in-memory results and export
//   - handlers_accounts.go: persisted account reads, preview, deletion
//   - handlers_stats.go: aggregate statistics
//   - handlers_users.go: operator management
//   - router.go: route registration and middleware stack
package api
