// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

package api

// ExtractRequest carries pasted text or file contents to scan for tokens.
type ExtractRequest struct {
	Text string `json:"text" validate:"required,min=1,max=10485760"`
}

// TokensRequest updates the pending queue. Mode "replace" swaps the queue
// contents (paste flow); "add" unions in new tokens (file import flow).
type TokensRequest struct {
	Tokens []string `json:"tokens" validate:"required,min=1,dive,discordtoken"`
	Mode   string   `json:"mode" validate:"omitempty,oneof=add replace"`
}

// RemoveTokenRequest deletes one token from the pending queue.
type RemoveTokenRequest struct {
	Token string `json:"token" validate:"required,discordtoken"`
}

// LoginRequest carries operator credentials.
type LoginRequest struct {
	Username string `json:"username" validate:"required,min=1,max=128"`
	Password string `json:"password" validate:"required,min=8,max=512"`
}
