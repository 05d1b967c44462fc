// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tokenatlas/tokenatlas/internal/auth"
	"github.com/tokenatlas/tokenatlas/internal/checker"
	"github.com/tokenatlas/tokenatlas/internal/config"
	"github.com/tokenatlas/tokenatlas/internal/database"
	"github.com/tokenatlas/tokenatlas/internal/logging"
	"github.com/tokenatlas/tokenatlas/internal/models"
	"github.com/tokenatlas/tokenatlas/internal/validation"
)

// Handler contains dependencies for API handlers.
type Handler struct {
	db         *database.DB
	queue      *checker.Queue
	store      *checker.AccountStore
	runner     *checker.Runner
	config     *config.Config
	jwtManager *auth.JWTManager
	version    string
	startTime  time.Time
}

// NewHandler creates a new API handler with all required dependencies.
// jwtManager may be nil when auth_mode is basic or none; the login endpoint
// then reports authentication as disabled.
func NewHandler(db *database.DB, queue *checker.Queue, store *checker.AccountStore, runner *checker.Runner, cfg *config.Config, jwtManager *auth.JWTManager, version string) *Handler {
	return &Handler{
		db:         db,
		queue:      queue,
		store:      store,
		runner:     runner,
		config:     cfg,
		jwtManager: jwtManager,
		version:    version,
		startTime:  time.Now(),
	}
}

// sanitizeLogValue removes control characters from strings so attacker
// supplied values cannot forge log entries.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response with proper headers.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondSuccess wraps data in the standard success envelope.
func respondSuccess(w http.ResponseWriter, status int, data interface{}, start time.Time) {
	respondJSON(w, status, &models.APIResponse{
		Status: "success",
		Data:   data,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(start).Milliseconds(),
		},
	})
}

// respondError sends an error response.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().Str("code", sanitizeLogValue(code)).Str("error", sanitizeLogValue(err.Error())).Msg("API Error")
	}

	respondJSON(w, status, &models.APIResponse{
		Status: "error",
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	})
}

// decodeBody decodes a JSON request body into dst, replying 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_REQUEST", "Invalid request body", err)
		return false
	}
	return true
}

// validateRequest validates a struct using go-playground/validator.
// Returns nil if validation passes, or a models.APIError otherwise.
func validateRequest(v interface{}) *models.APIError {
	validationErr := validation.ValidateStruct(v)
	if validationErr == nil {
		return nil
	}

	apiErr := validationErr.ToAPIError()
	return &models.APIError{
		Code:    apiErr.Code,
		Message: apiErr.Message,
		Details: apiErr.Details,
	}
}
