// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tokenatlas/tokenatlas/internal/database"
	"github.com/tokenatlas/tokenatlas/internal/models"
	"github.com/tokenatlas/tokenatlas/internal/token"
)

// minSnowflakeLength guards the public preview endpoint against scanning
// with short ids. Discord snowflakes are at least 17 digits.
const minSnowflakeLength = 17

// Accounts lists every persisted account with its stored tokens.
func (h *Handler) Accounts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	accounts, err := h.db.ListAccounts(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list accounts", err)
		return
	}
	if accounts == nil {
		accounts = []models.StoredAccount{}
	}
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"accounts": accounts,
		"count":    len(accounts),
	}, start)
}

// AccountByID fetches one persisted account.
func (h *Handler) AccountByID(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "id")

	account, err := h.db.GetAccountByID(r.Context(), id)
	if errors.Is(err, database.ErrAccountNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("No account %s", id), nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load account", err)
		return
	}
	respondSuccess(w, http.StatusOK, account, start)
}

// AccountByToken fetches the persisted account owning the given token value.
func (h *Handler) AccountByToken(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	value := r.URL.Query().Get("value")
	if !token.IsValid(value) {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "value must be a well-formed token", nil)
		return
	}

	account, err := h.db.GetAccountByToken(r.Context(), value)
	if errors.Is(err, database.ErrAccountNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "No account holds that token", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load account", err)
		return
	}
	respondSuccess(w, http.StatusOK, account, start)
}

// AccountDelete removes a persisted account and its tokens.
func (h *Handler) AccountDelete(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "id")

	err := h.db.DeleteAccount(r.Context(), id)
	if errors.Is(err, database.ErrAccountNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("No account %s", id), nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete account", err)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"deleted": id,
	}, start)
}

// AccountPreview is the public reduced view of a persisted account:
// identity fields, badge flags and the stored token count. Requires an id
// of plausible snowflake length.
func (h *Handler) AccountPreview(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "id")

	if len(id) < minSnowflakeLength {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			fmt.Sprintf("id must be at least %d characters", minSnowflakeLength), nil)
		return
	}

	preview, err := h.db.GetAccountPreview(r.Context(), id)
	if errors.Is(err, database.ErrAccountNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("No account %s", id), nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load preview", err)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"preview": preview,
		"badges":  token.Badges(preview.Flags),
	}, start)
}
