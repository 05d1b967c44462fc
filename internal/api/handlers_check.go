// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/tokenatlas/tokenatlas/internal/checker"
	"github.com/tokenatlas/tokenatlas/internal/logging"
)

// CheckStart launches a validation run over the pending queue.
// Only one run may be active at a time.
func (h *Handler) CheckStart(w http.ResponseWriter, _ *http.Request) {
	start := time.Now()

	runID, err := h.runner.StartRun()
	if errors.Is(err, checker.ErrRunActive) {
		respondError(w, http.StatusConflict, "CHECK_ALREADY_RUNNING", "A validation run is already active", nil)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "CHECK_START_FAILED", "Failed to start validation run", err)
		return
	}

	logging.Info().Str("run_id", runID).Int("queued", h.queue.Len()).Msg("Validation run started")
	respondSuccess(w, http.StatusAccepted, map[string]interface{}{
		"run_id": runID,
		"queued": h.queue.Len(),
	}, start)
}

// CheckStop requests cancellation of the active run. The run stops at the
// next token boundary; the in-flight token finishes first.
func (h *Handler) CheckStop(w http.ResponseWriter, _ *http.Request) {
	start := time.Now()
	h.runner.StopRun()
	respondSuccess(w, http.StatusOK, h.runner.Status(), start)
}

// CheckStatus reports the validation run state.
func (h *Handler) CheckStatus(w http.ResponseWriter, _ *http.Request) {
	start := time.Now()
	respondSuccess(w, http.StatusOK, h.runner.Status(), start)
}
