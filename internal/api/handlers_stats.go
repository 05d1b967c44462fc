// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

package api

import (
	"net/http"
	"time"

	"github.com/tokenatlas/tokenatlas/internal/models"
)

// Stats returns verified, unverified and nitro account counts.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	stats, err := h.db.GetStats(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to compute stats", err)
		return
	}
	respondSuccess(w, http.StatusOK, stats, start)
}

// StatsCountries returns the locale distribution of persisted accounts.
func (h *Handler) StatsCountries(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	locales, err := h.db.GetLocaleDistribution(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to compute locale distribution", err)
		return
	}
	if locales == nil {
		locales = []models.LocaleStats{}
	}
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"locales": locales,
	}, start)
}

// StatsTokenRates returns per-origin daily token counts over the trailing
// twelve days.
func (h *Handler) StatsTokenRates(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	rates, err := h.db.GetTokenRates(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to compute token rates", err)
		return
	}
	if rates == nil {
		rates = []models.TokenRatePoint{}
	}
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"rates": rates,
	}, start)
}
