// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

// Package token implements the Discord token grammar: extraction of token
// strings from free-form text, full-value validation, and decoding of the
// account snowflake embedded in a token's first segment.
package token

import (
	"encoding/base64"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Pattern is the three-part dot-delimited token grammar: an alphanumeric id
// segment, a short timestamp segment and an HMAC segment, the latter two in
// the URL-safe alphabet.
const Pattern = `[A-Za-z0-9]{24,28}\.[\w-]{6}\.[\w-]{27,38}`

var (
	// extractRegex matches tokens anywhere inside surrounding text.
	extractRegex = regexp.MustCompile(Pattern)

	// validateRegex matches only when the whole value is a token.
	validateRegex = regexp.MustCompile(`^` + Pattern + `$`)
)

// Extract scans text for every non-overlapping substring matching the token
// grammar and returns them in order of appearance. No semantic checks are
// applied; the id segment may still fail to decode later.
func Extract(text string) []string {
	return extractRegex.FindAllString(text, -1)
}

// IsValid reports whether value as a whole matches the token grammar.
func IsValid(value string) bool {
	return validateRegex.MatchString(value)
}

// DecodeUserID base64-decodes the segment before the first dot and returns
// the account snowflake it encodes.
func DecodeUserID(value string) (string, error) {
	seg, _, found := strings.Cut(value, ".")
	if !found || seg == "" {
		return "", fmt.Errorf("token has no id segment")
	}

	decoded, err := base64.RawStdEncoding.DecodeString(seg)
	if err != nil {
		// Some encoders pad the segment.
		decoded, err = base64.StdEncoding.DecodeString(seg)
		if err != nil {
			return "", fmt.Errorf("id segment is not valid base64: %w", err)
		}
	}

	id := string(decoded)
	if _, err := strconv.ParseUint(id, 10, 64); err != nil {
		return "", fmt.Errorf("decoded id %q is not a snowflake: %w", id, err)
	}
	return id, nil
}

// DiscordEpoch is the snowflake epoch in milliseconds since the Unix epoch
// (2015-01-01T00:00:00Z).
const DiscordEpoch = 1420070400000

// snowflakeDivisor shifts out the worker, process and increment bits,
// leaving the millisecond offset from the epoch.
const snowflakeDivisor = 4194304 // 1 << 22

// SnowflakeTime converts a snowflake id to the creation time it encodes.
func SnowflakeTime(id string) (time.Time, error) {
	n, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid snowflake %q: %w", id, err)
	}
	ms := int64(n/snowflakeDivisor) + DiscordEpoch
	return time.UnixMilli(ms).UTC(), nil
}

// PlausibleCreation reports whether ts lies strictly between the snowflake
// epoch and now. Ids decoding outside that window cannot belong to a real
// account.
func PlausibleCreation(ts time.Time, now time.Time) bool {
	epoch := time.UnixMilli(DiscordEpoch)
	return ts.After(epoch) && ts.Before(now)
}
