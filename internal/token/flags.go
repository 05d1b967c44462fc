// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

package token

import (
	"sort"
	"strings"
)

// BadgeFlags maps badge names to their bit in the account flags bitmask.
// The set mirrors the public Discord user flags that render as profile
// badges.
var BadgeFlags = map[string]int64{
	"DISCORD_EMPLOYEE":             1 << 0,
	"PARTNERED_SERVER_OWNER":       1 << 1,
	"HYPESQUAD_EVENTS":             1 << 2,
	"BUGHUNTER_LEVEL_1":            1 << 3,
	"HOUSE_BRAVERY":                1 << 6,
	"HOUSE_BRILLIANCE":             1 << 7,
	"HOUSE_BALANCE":                1 << 8,
	"EARLY_SUPPORTER":              1 << 9,
	"TEAM_USER":                    1 << 10,
	"BUGHUNTER_LEVEL_2":            1 << 14,
	"VERIFIED_BOT":                 1 << 16,
	"EARLY_VERIFIED_BOT_DEVELOPER": 1 << 17,
	"MODERATOR_PROGRAMS_ALUMNI":    1 << 18,
	"ACTIVE_DEVELOPER":             1 << 22,
	"SUPPORTS_COMMANDS":            1 << 23,
	"USES_AUTOMOD":                 1 << 24,
}

// HasFlag reports whether the flags bitmask carries the named badge.
// Unknown badge names report false.
func HasFlag(flags int64, badge string) bool {
	bit, ok := BadgeFlags[badge]
	if !ok {
		return false
	}
	return flags&bit == bit
}

// Badges returns the names of every badge set in the flags bitmask,
// sorted so the list is stable across calls.
func Badges(flags int64) []string {
	var names []string
	for name, bit := range BadgeFlags {
		if flags&bit == bit {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// BadgeTitle renders a badge constant as a display label, for example
// "EARLY_SUPPORTER" becomes "Early Supporter".
func BadgeTitle(badge string) string {
	words := strings.Split(strings.ToLower(badge), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
