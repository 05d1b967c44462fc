// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

package checker

import (
	"testing"

	"github.com/tokenatlas/tokenatlas/internal/models"
)

func TestAccountStoreUpsertMergesTokens(t *testing.T) {
	t.Parallel()

	s := NewAccountStore()
	user := models.User{ID: "1", Username: "wumpus", Discriminator: "0"}
	s.Upsert(models.Account{User: user, Tokens: []string{"tok-a"}})
	s.Upsert(models.Account{User: user, Tokens: []string{"tok-b"}})

	accounts := s.Accounts()
	if len(accounts) != 1 {
		t.Fatalf("Accounts = %d entries, want 1", len(accounts))
	}
	tokens := accounts[0].Tokens
	if len(tokens) != 2 || tokens[0] != "tok-a" || tokens[1] != "tok-b" {
		t.Errorf("Tokens = %v, want [tok-a tok-b] in submission order", tokens)
	}
}

func TestAccountStoreUpsertDoesNotDeduplicateTokens(t *testing.T) {
	t.Parallel()

	// Resubmitting the same token appends again. Intentional: repeated
	// entries make resubmission visible in results.
	s := NewAccountStore()
	user := models.User{ID: "1", Username: "wumpus", Discriminator: "0"}
	s.Upsert(models.Account{User: user, Tokens: []string{"tok-a"}})
	s.Upsert(models.Account{User: user, Tokens: []string{"tok-a"}})

	accounts := s.Accounts()
	if len(accounts[0].Tokens) != 2 {
		t.Errorf("Tokens = %v, want the duplicate preserved", accounts[0].Tokens)
	}
}

func TestAccountStoreUpsertDistinctAccounts(t *testing.T) {
	t.Parallel()

	s := NewAccountStore()
	s.Upsert(models.Account{User: models.User{ID: "1"}, Tokens: []string{"a"}})
	s.Upsert(models.Account{User: models.User{ID: "2"}, Tokens: []string{"b"}})

	if s.Len() != 2 {
		t.Errorf("Len = %d, want 2", s.Len())
	}
}

func TestAccountStoreRemoveWholeRecord(t *testing.T) {
	t.Parallel()

	s := NewAccountStore()
	user := models.User{ID: "1", Username: "wumpus", Discriminator: "0"}
	s.Upsert(models.Account{User: user, Tokens: []string{"tok-a"}})
	s.Upsert(models.Account{User: user, Tokens: []string{"tok-b"}})

	// Removal matches the accumulated record, not a single submission.
	if s.Remove(models.Account{User: user, Tokens: []string{"tok-a"}}) {
		t.Error("Remove with stale token list succeeded, want whole-record match")
	}
	if !s.Remove(models.Account{User: user, Tokens: []string{"tok-a", "tok-b"}}) {
		t.Error("Remove with full token list failed")
	}
	if s.Len() != 0 {
		t.Errorf("Len = %d after removal, want 0", s.Len())
	}
}

func TestAccountStoreAccountsReturnsCopy(t *testing.T) {
	t.Parallel()

	s := NewAccountStore()
	s.Upsert(models.Account{User: models.User{ID: "1"}, Tokens: []string{"a"}})

	got := s.Accounts()
	got[0].Tokens[0] = "mutated"

	if s.Accounts()[0].Tokens[0] != "a" {
		t.Error("mutating the returned slice leaked into the store")
	}
}
