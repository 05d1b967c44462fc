// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

package models

import (
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestUserTag(t *testing.T) {
	t.Parallel()

	legacy := User{Username: "wumpus", Discriminator: "0001"}
	if got := legacy.Tag(); got != "wumpus#0001" {
		t.Errorf("Tag() = %q, want wumpus#0001", got)
	}
	if legacy.IsMigrated() {
		t.Error("IsMigrated() = true for legacy discriminator")
	}

	migrated := User{Username: "wumpus", Discriminator: "0"}
	if got := migrated.Tag(); got != "@wumpus" {
		t.Errorf("Tag() = %q, want @wumpus", got)
	}
	if !migrated.IsMigrated() {
		t.Error("IsMigrated() = false for sentinel discriminator")
	}
}

func TestUserHasNitro(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		verified bool
		premium  int
		want     bool
	}{
		{"verified with premium", true, 2, true},
		{"verified without premium", true, 0, false},
		{"unverified with premium", false, 2, false},
		{"unverified without premium", false, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := User{Verified: tt.verified, PremiumType: tt.premium}
			if got := u.HasNitro(); got != tt.want {
				t.Errorf("HasNitro() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUserJSONRoundTrip(t *testing.T) {
	t.Parallel()

	raw := `{"id":"175928847299117063","username":"wumpus","discriminator":"0","verified":true,` +
		`"global_name":"Wumpus","locale":"en-US","premium_type":2,"flags":64,"nsfw_allowed":null}`

	var u User
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if u.ID != "175928847299117063" {
		t.Errorf("ID = %q", u.ID)
	}
	if u.GlobalName == nil || *u.GlobalName != "Wumpus" {
		t.Errorf("GlobalName = %v, want Wumpus", u.GlobalName)
	}
	if u.NSFWAllowed != nil {
		t.Errorf("NSFWAllowed = %v, want nil for JSON null", u.NSFWAllowed)
	}

	out, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if !strings.Contains(string(out), `"premium_type":2`) {
		t.Errorf("Marshal output missing premium_type: %s", out)
	}
}

func TestAdminUserHashNotSerialized(t *testing.T) {
	t.Parallel()

	u := AdminUser{ID: "u1", Username: "root", Hash: "$2a$12$secret"}
	out, err := json.Marshal(u)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(out), "secret") {
		t.Errorf("AdminUser JSON leaked the password hash: %s", out)
	}
}
