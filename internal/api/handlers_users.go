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

	"github.com/tokenatlas/tokenatlas/internal/auth"
	"github.com/tokenatlas/tokenatlas/internal/database"
	"github.com/tokenatlas/tokenatlas/internal/logging"
	"github.com/tokenatlas/tokenatlas/internal/models"
)

// UsersList returns every operator account.
func (h *Handler) UsersList(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	users, err := h.db.ListAdminUsers(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list operators", err)
		return
	}
	if users == nil {
		users = []models.AdminUser{}
	}
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"users": users,
		"count": len(users),
	}, start)
}

// UserGet fetches one operator by id.
func (h *Handler) UserGet(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "id")

	user, err := h.db.GetAdminUserByID(r.Context(), id)
	if errors.Is(err, database.ErrAdminUserNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("No operator %s", id), nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load operator", err)
		return
	}
	respondSuccess(w, http.StatusOK, user, start)
}

// UserDelete removes an operator. Two rules guard it: the last remaining
// operator cannot be deleted, and operators cannot delete themselves.
func (h *Handler) UserDelete(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "id")

	// The only-operator rule is checked before the lookup, so a delete
	// against a lone operator table answers 400 whatever id it names.
	count, err := h.db.CountAdminUsers(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to count operators", err)
		return
	}
	if count <= 1 {
		respondError(w, http.StatusBadRequest, "BAD_REQUEST", "The only operator cannot be deleted", nil)
		return
	}

	target, err := h.db.GetAdminUserByID(r.Context(), id)
	if errors.Is(err, database.ErrAdminUserNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("No operator %s", id), nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load operator", err)
		return
	}

	if requester, ok := auth.UsernameFromContext(r.Context()); ok && requester == target.Username {
		respondError(w, http.StatusBadRequest, "BAD_REQUEST", "You cannot delete yourself", nil)
		return
	}

	err = h.db.DeleteAdminUser(r.Context(), id)
	switch {
	case errors.Is(err, database.ErrLastAdminUser):
		respondError(w, http.StatusBadRequest, "BAD_REQUEST", "The only operator cannot be deleted", nil)
		return
	case errors.Is(err, database.ErrAdminUserNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("No operator %s", id), nil)
		return
	case err != nil:
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to delete operator", err)
		return
	}

	logging.Info().Str("id", sanitizeLogValue(id)).Str("username", sanitizeLogValue(target.Username)).Msg("Operator deleted")
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"deleted": id,
	}, start)
}
