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

// Health reports overall service health including database connectivity
// and checker state.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	dbConnected := h.db != nil && h.db.Ping(r.Context()) == nil

	status := "healthy"
	httpStatus := http.StatusOK
	if !dbConnected {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	respondSuccess(w, httpStatus, models.HealthStatus{
		Status:            status,
		Version:           h.version,
		DatabaseConnected: dbConnected,
		CheckerRunning:    h.runner.Status().Running,
		Uptime:            time.Since(h.startTime).Seconds(),
	}, start)
}

// HealthLive is the liveness probe. It succeeds whenever the process can
// serve HTTP at all.
func (h *Handler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"alive"}`))
}

// HealthReady is the readiness probe. It fails while the database is
// unreachable.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if h.db == nil || h.db.Ping(r.Context()) != nil {
		respondError(w, http.StatusServiceUnavailable, "NOT_READY", "Database not reachable", nil)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ready"}`))
}
