// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

/*
Package models defines data structures for the Tokenatlas application.

This package contains all data models shared across packages: the Discord
account profile as returned by the identity API, the in-memory checker
account record, persisted admin users, API request/response structures, and
the aggregate statistics payloads served by the admin surface. It is the
single source of truth for data structure definitions.

Key Components:

  - User: Discord account profile (the /users/@me field set)
  - Account: a profile plus every token observed resolving to it
  - APIResponse: standardized API response wrapper
  - Stats / LocaleStats / OriginDayCount: aggregate query payloads
  - AdminUser: dashboard operator credentials

Field names follow the Discord wire format (snake_case JSON tags) so that
profiles round-trip through the database and the API without translation.
*/
package models
