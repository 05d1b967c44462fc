// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

package models

import (
	"time"
)

// User is a Discord account profile as returned by the identity API
// (GET /users/@me). JSON tags follow the Discord wire format so profiles
// round-trip without translation; optional and nullable fields are pointers.
type User struct {
	ID            string  `json:"id"`
	Username      string  `json:"username"`
	Discriminator string  `json:"discriminator"`
	Avatar        *string `json:"avatar,omitempty"`
	Email         *string `json:"email,omitempty"`
	Verified      bool    `json:"verified"`
	AccentColor   *int    `json:"accent_color,omitempty"`
	Banner        *string `json:"banner,omitempty"`
	Bot           bool    `json:"bot,omitempty"`
	Flags         int64   `json:"flags,omitempty"`
	GlobalName    *string `json:"global_name,omitempty"`
	Locale        string  `json:"locale,omitempty"`
	MFAEnabled    bool    `json:"mfa_enabled,omitempty"`
	PremiumType   int     `json:"premium_type,omitempty"`
	PublicFlags   int64   `json:"public_flags,omitempty"`
	System        bool    `json:"system,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	NSFWAllowed   *bool   `json:"nsfw_allowed,omitempty"`
	Bio           *string `json:"bio,omitempty"`
	BannerColor   *string `json:"banner_color,omitempty"`
}

// IsMigrated reports whether the account uses the username-only naming
// scheme. Migrated accounts carry the sentinel discriminator "0".
func (u *User) IsMigrated() bool {
	return u.Discriminator == "0"
}

// Tag returns the display name: "@username" for migrated accounts,
// "username#discriminator" for legacy ones.
func (u *User) Tag() string {
	if u.IsMigrated() {
		return "@" + u.Username
	}
	return u.Username + "#" + u.Discriminator
}

// HasNitro reports whether the account holds a paid subscription tier.
// Only verified accounts count; premium claims on unverified profiles are
// not trustworthy.
func (u *User) HasNitro() bool {
	return u.Verified && u.PremiumType > 0
}

// Account pairs a profile with every token observed resolving to it during
// validation runs. The checker merges results into Account values keyed by
// User.ID.
type Account struct {
	User   User     `json:"user"`
	Tokens []string `json:"tokens"`
}

// StoredToken is a persisted token row attached to an account.
type StoredToken struct {
	Value     string    `json:"value"`
	Origin    *string   `json:"origin,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// StoredAccount is a persisted account with its token rows, as served by
// the admin read endpoints.
type StoredAccount struct {
	User      User          `json:"user"`
	Tokens    []StoredToken `json:"tokens"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// AccountPreview is the unauthenticated single-account lookup payload. It
// exposes only presentation fields and a token count, never token values
// or contact details.
type AccountPreview struct {
	ID            string    `json:"id"`
	Username      string    `json:"username"`
	Discriminator string    `json:"discriminator"`
	Avatar        *string   `json:"avatar,omitempty"`
	Flags         int64     `json:"flags"`
	PremiumType   int       `json:"premium_type"`
	CreatedAt     time.Time `json:"created_at"`
	TokenCount    int       `json:"token_count"`
}

// AdminUser is a dashboard operator. PasswordHash is a bcrypt digest and is
// never serialized.
type AdminUser struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Hash      string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
