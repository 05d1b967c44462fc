// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

package models

import (
	"time"
)

// APIResponse represents a standardized API response wrapper used by all HTTP
// endpoints. It provides consistent structure for both successful and error
// responses, with metadata for observability.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"checked": 12, "valid": 3},
//	  "metadata": {"timestamp": "2026-08-29T12:00:00Z", "query_time_ms": 4}
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "VALIDATION_ERROR",
//	    "message": "id must be at least 17 characters",
//	    "details": {"field": "id"}
//	  },
//	  "metadata": {"timestamp": "2026-08-29T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata for observability.
//
// Fields:
//   - Timestamp: server time when the response was generated (RFC3339)
//   - QueryTimeMS: database query execution time in milliseconds
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Common error codes:
//   - VALIDATION_ERROR: invalid input parameters
//   - DATABASE_ERROR: query execution failure
//   - AUTHENTICATION_ERROR: invalid or missing credentials
//   - NOT_FOUND: resource doesn't exist
//   - CONFLICT: request violates a uniqueness or lifecycle rule
//   - RATE_LIMIT_EXCEEDED: too many requests
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// HealthStatus represents the health check response.
type HealthStatus struct {
	Status            string  `json:"status"`
	Version           string  `json:"version"`
	DatabaseConnected bool    `json:"database_connected"`
	CheckerRunning    bool    `json:"checker_running"`
	Uptime            float64 `json:"uptime_seconds"`
}
