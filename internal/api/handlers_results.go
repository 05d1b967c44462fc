// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tokenatlas/tokenatlas/internal/export"
	"github.com/tokenatlas/tokenatlas/internal/models"
)

// Results returns the in-memory account store, optionally filtered by
// classification: verified, unverified or nitro.
func (h *Handler) Results(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	accounts := h.store.Accounts()
	filter := r.URL.Query().Get("filter")
	switch filter {
	case "":
		// No filtering.
	case "verified", "unverified", "nitro":
		accounts = filterAccounts(accounts, filter)
	default:
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "filter must be one of: verified, unverified, nitro", nil)
		return
	}
	if accounts == nil {
		accounts = []models.Account{}
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"accounts": accounts,
		"count":    len(accounts),
	}, start)
}

func filterAccounts(accounts []models.Account, filter string) []models.Account {
	var out []models.Account
	for _, acc := range accounts {
		switch filter {
		case "verified":
			if acc.User.Verified {
				out = append(out, acc)
			}
		case "unverified":
			if !acc.User.Verified {
				out = append(out, acc)
			}
		case "nitro":
			if acc.User.HasNitro() {
				out = append(out, acc)
			}
		}
	}
	return out
}

// ResultDelete removes one account record from the in-memory results.
// The durable copy in DuckDB is not touched.
func (h *Handler) ResultDelete(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := chi.URLParam(r, "id")

	var target *models.Account
	for _, acc := range h.store.Accounts() {
		if acc.User.ID == id {
			target = &acc
			break
		}
	}
	if target == nil || !h.store.Remove(*target) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", fmt.Sprintf("No result for account %s", id), nil)
		return
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"removed": id,
		"count":   h.store.Len(),
	}, start)
}

// ResultsExport streams the in-memory results in the requested format:
// text (one token per line), json or csv.
func (h *Handler) ResultsExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	data, err := export.Render(format, h.store.Accounts())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "EXPORT_FAILED", "Failed to render export", err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.Filename()))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
