// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

package checker

import (
	"sync"

	"github.com/tokenatlas/tokenatlas/internal/models"
)

// AccountStore is the in-memory collection of classified accounts for the
// current session, keyed by account id with insertion order preserved.
//
// Thread safety: safe for concurrent use.
type AccountStore struct {
	mu       sync.RWMutex
	accounts []models.Account
}

// NewAccountStore creates an empty account store.
func NewAccountStore() *AccountStore {
	return &AccountStore{}
}

// Upsert merges account into the store. If an entry with the same id
// exists, the incoming tokens are appended to its token list; token values
// are NOT de-duplicated across repeated upserts, so resubmitting a token
// shows up as a repeated entry. Otherwise the account is inserted as new.
func (s *AccountStore) Upsert(account models.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].User.ID == account.User.ID {
			// Existing profile attributes are kept; only tokens accumulate.
			s.accounts[i].Tokens = append(s.accounts[i].Tokens, account.Tokens...)
			return
		}
	}
	entry := models.Account{User: account.User}
	entry.Tokens = append(entry.Tokens, account.Tokens...)
	s.accounts = append(s.accounts, entry)
}

// Remove deletes the entry matching the whole record: same id and the same
// accumulated token list. Removing a matching record drops the entire
// account including every token it collected. Reports whether an entry was
// removed.
func (s *AccountStore) Remove(account models.Account) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.accounts {
		if s.accounts[i].User.ID != account.User.ID {
			continue
		}
		if !equalTokens(s.accounts[i].Tokens, account.Tokens) {
			continue
		}
		s.accounts = append(s.accounts[:i], s.accounts[i+1:]...)
		return true
	}
	return false
}

// Accounts returns a copy of the stored accounts in insertion order.
func (s *AccountStore) Accounts() []models.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Account, len(s.accounts))
	for i := range s.accounts {
		out[i] = models.Account{User: s.accounts[i].User}
		out[i].Tokens = append([]string(nil), s.accounts[i].Tokens...)
	}
	return out
}

// Len returns the number of stored accounts.
func (s *AccountStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.accounts)
}

// Clear drops every stored account.
func (s *AccountStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accounts = nil
}

func equalTokens(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
