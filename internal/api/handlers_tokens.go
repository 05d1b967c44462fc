// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

package api

import (
	"net/http"
	"time"

	"github.com/tokenatlas/tokenatlas/internal/token"
)

// ExtractTokens scans the posted text for token-shaped substrings and
// returns the matches in order of appearance. Nothing is queued; clients
// submit the selection separately via SetTokens.
func (h *Handler) ExtractTokens(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req ExtractRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	matches := token.Extract(req.Text)
	if matches == nil {
		matches = []string{}
	}
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"tokens": matches,
		"count":  len(matches),
	}, start)
}

// SetTokens updates the pending queue. mode=replace swaps the queue for
// the submitted set; mode=add (the default) unions the submitted tokens
// into the existing queue. Duplicates collapse either way.
func (h *Handler) SetTokens(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req TokensRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	switch req.Mode {
	case "replace":
		h.queue.Replace(req.Tokens)
	default:
		h.queue.Add(req.Tokens)
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"queued": h.queue.Len(),
	}, start)
}

// ListTokens returns the pending queue in order.
func (h *Handler) ListTokens(w http.ResponseWriter, _ *http.Request) {
	start := time.Now()
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"tokens": h.queue.Snapshot(),
		"count":  h.queue.Len(),
	}, start)
}

// RemoveToken deletes one token from the pending queue.
func (h *Handler) RemoveToken(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req RemoveTokenRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, http.StatusBadRequest, apiErr.Code, apiErr.Message, nil)
		return
	}

	if !h.queue.Remove(req.Token) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Token not queued", nil)
		return
	}
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"queued": h.queue.Len(),
	}, start)
}

// ClearTokens empties the pending queue.
func (h *Handler) ClearTokens(w http.ResponseWriter, _ *http.Request) {
	start := time.Now()
	h.queue.Replace(nil)
	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"queued": 0,
	}, start)
}
