// Tokenatlas - Discord Token Validation and Account Analytics
// Copyright 2026 Tokenatlas Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tokenatlas/tokenatlas

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tokenatlas/tokenatlas/internal/metrics"
	"github.com/tokenatlas/tokenatlas/internal/models"
)

// accountColumns is the column list scanned by scanAccountRow, in order.
const accountColumns = `id, username, discriminator, avatar, email, verified,
	accent_color, banner, bot, flags, global_name, locale, mfa_enabled,
	premium_type, public_flags, is_system, phone, nsfw_allowed, bio,
	banner_color, created_at, updated_at`

// CreateOrUpdate upserts an account and its tokens.
//
// If the account is new, it is created together with every submitted token,
// each tagged with origin. If it exists, only tokens not already on record
// are appended; when at least one new token lands, the account attribute
// fields are overwritten with the latest submitted values. Resubmitting an
// identical token set is a no-op.
func (db *DB) CreateOrUpdate(ctx context.Context, account models.Account, origin string) error {
	start := time.Now()
	err := db.createOrUpdate(ctx, account, origin)
	metrics.RecordDBQuery("UPSERT", "accounts", time.Since(start), err)
	return err
}

func (db *DB) createOrUpdate(ctx context.Context, account models.Account, origin string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	err = tx.QueryRowContext(ctx,
		`SELECT COUNT(*) > 0 FROM accounts WHERE id = ?`, account.User.ID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check account existence: %w", err)
	}

	if !exists {
		if err := insertAccount(ctx, tx, account.User); err != nil {
			return err
		}
		if err := insertTokens(ctx, tx, account.User.ID, account.Tokens, origin); err != nil {
			return err
		}
		return tx.Commit()
	}

	seen := make(map[string]struct{})
	rows, err := tx.QueryContext(ctx,
		`SELECT value FROM tokens WHERE account_id = ?`, account.User.ID)
	if err != nil {
		return fmt.Errorf("failed to load existing tokens: %w", err)
	}
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			closeQuietly(rows)
			return fmt.Errorf("failed to scan token value: %w", err)
		}
		seen[value] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		closeQuietly(rows)
		return fmt.Errorf("token iteration failed: %w", err)
	}
	closeWithLog(rows, "token rows")

	var unseen []string
	for _, t := range account.Tokens {
		if _, ok := seen[t]; !ok {
			unseen = append(unseen, t)
		}
	}
	if len(unseen) == 0 {
		return tx.Commit()
	}

	if err := updateAccount(ctx, tx, account.User); err != nil {
		return err
	}
	if err := insertTokens(ctx, tx, account.User.ID, unseen, origin); err != nil {
		return err
	}
	return tx.Commit()
}

func insertAccount(ctx context.Context, tx *sql.Tx, u models.User) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO accounts (id, username, discriminator, avatar, email,
			verified, accent_color, banner, bot, flags, global_name, locale,
			mfa_enabled, premium_type, public_flags, is_system, phone,
			nsfw_allowed, bio, banner_color)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Discriminator, u.Avatar, u.Email, u.Verified,
		u.AccentColor, u.Banner, u.Bot, u.Flags, u.GlobalName, u.Locale,
		u.MFAEnabled, u.PremiumType, u.PublicFlags, u.System, u.Phone,
		u.NSFWAllowed, u.Bio, u.BannerColor)
	if err != nil {
		return fmt.Errorf("failed to insert account %s: %w", u.ID, err)
	}
	return nil
}

func updateAccount(ctx context.Context, tx *sql.Tx, u models.User) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE accounts SET username = ?, discriminator = ?, avatar = ?,
			email = ?, verified = ?, accent_color = ?, banner = ?, bot = ?,
			flags = ?, global_name = ?, locale = ?, mfa_enabled = ?,
			premium_type = ?, public_flags = ?, is_system = ?, phone = ?,
			nsfw_allowed = ?, bio = ?, banner_color = ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		u.Username, u.Discriminator, u.Avatar, u.Email, u.Verified,
		u.AccentColor, u.Banner, u.Bot, u.Flags, u.GlobalName, u.Locale,
		u.MFAEnabled, u.PremiumType, u.PublicFlags, u.System, u.Phone,
		u.NSFWAllowed, u.Bio, u.BannerColor, u.ID)
	if err != nil {
		return fmt.Errorf("failed to update account %s: %w", u.ID, err)
	}
	return nil
}

func insertTokens(ctx context.Context, tx *sql.Tx, accountID string, tokens []string, origin string) error {
	var originVal any
	if origin != "" {
		originVal = origin
	}
	for _, value := range tokens {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO tokens (value, account_id, origin) VALUES (?, ?, ?)`,
			value, accountID, originVal)
		if err != nil {
			return fmt.Errorf("failed to insert token for account %s: %w", accountID, err)
		}
	}
	return nil
}

// GetAccountByID fetches one account with its tokens.
// Returns ErrAccountNotFound when the id is unknown.
func (db *DB) GetAccountByID(ctx context.Context, id string) (*models.StoredAccount, error) {
	start := time.Now()
	row := db.conn.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ?`, id)
	account, err := scanAccountRow(row)
	metrics.RecordDBQuery("SELECT", "accounts", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	if err := db.attachTokens(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// GetAccountByToken fetches the account owning the given token value.
// Returns ErrAccountNotFound when no account carries that token.
func (db *DB) GetAccountByToken(ctx context.Context, tokenValue string) (*models.StoredAccount, error) {
	start := time.Now()
	row := db.conn.QueryRowContext(ctx, `
		SELECT `+accountColumns+` FROM accounts
		WHERE id = (SELECT account_id FROM tokens WHERE value = ? LIMIT 1)`,
		tokenValue)
	account, err := scanAccountRow(row)
	metrics.RecordDBQuery("SELECT", "accounts", time.Since(start), err)
	if err != nil {
		return nil, err
	}
	if err := db.attachTokens(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// ListAccounts fetches every account with its tokens, oldest first.
func (db *DB) ListAccounts(ctx context.Context) ([]models.StoredAccount, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts ORDER BY created_at, id`)
	metrics.RecordDBQuery("SELECT", "accounts", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer closeWithLog(rows, "account rows")

	var accounts []models.StoredAccount
	for rows.Next() {
		account, err := scanAccountRows(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("account iteration failed: %w", err)
	}

	for i := range accounts {
		if err := db.attachTokens(ctx, &accounts[i]); err != nil {
			return nil, err
		}
	}
	return accounts, nil
}

// GetAccountPreview fetches the public preview of one account.
// Returns ErrAccountNotFound when the id is unknown.
func (db *DB) GetAccountPreview(ctx context.Context, id string) (*models.AccountPreview, error) {
	start := time.Now()
	var p models.AccountPreview
	err := db.conn.QueryRowContext(ctx, `
		SELECT a.id, a.username, a.discriminator, a.avatar, a.flags,
			a.premium_type, a.created_at,
			(SELECT COUNT(*) FROM tokens t WHERE t.account_id = a.id)
		FROM accounts a WHERE a.id = ?`, id).
		Scan(&p.ID, &p.Username, &p.Discriminator, &p.Avatar, &p.Flags,
			&p.PremiumType, &p.CreatedAt, &p.TokenCount)
	metrics.RecordDBQuery("SELECT", "accounts", time.Since(start), err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load account preview: %w", err)
	}
	return &p, nil
}

// DeleteAccount removes an account and all its tokens.
// Returns ErrAccountNotFound when the id is unknown.
func (db *DB) DeleteAccount(ctx context.Context, id string) error {
	start := time.Now()
	err := db.deleteAccount(ctx, id)
	metrics.RecordDBQuery("DELETE", "accounts", time.Since(start), err)
	return err
}

func (db *DB) deleteAccount(ctx context.Context, id string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete account %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrAccountNotFound
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tokens WHERE account_id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete tokens for account %s: %w", id, err)
	}
	return tx.Commit()
}

// attachTokens loads the token rows for account, oldest first.
func (db *DB) attachTokens(ctx context.Context, account *models.StoredAccount) error {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT value, origin, created_at FROM tokens
		WHERE account_id = ? ORDER BY created_at, value`, account.User.ID)
	if err != nil {
		return fmt.Errorf("failed to load tokens: %w", err)
	}
	defer closeWithLog(rows, "token rows")

	for rows.Next() {
		var t models.StoredToken
		if err := rows.Scan(&t.Value, &t.Origin, &t.CreatedAt); err != nil {
			return fmt.Errorf("failed to scan token row: %w", err)
		}
		account.Tokens = append(account.Tokens, t)
	}
	return rows.Err()
}

// rowScanner abstracts sql.Row and sql.Rows for the shared scan logic.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccountRow(row *sql.Row) (*models.StoredAccount, error) {
	account, err := scanAccountInto(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	return account, err
}

func scanAccountRows(rows *sql.Rows) (*models.StoredAccount, error) {
	return scanAccountInto(rows)
}

func scanAccountInto(scanner rowScanner) (*models.StoredAccount, error) {
	var a models.StoredAccount
	err := scanner.Scan(
		&a.User.ID, &a.User.Username, &a.User.Discriminator, &a.User.Avatar,
		&a.User.Email, &a.User.Verified, &a.User.AccentColor, &a.User.Banner,
		&a.User.Bot, &a.User.Flags, &a.User.GlobalName, &a.User.Locale,
		&a.User.MFAEnabled, &a.User.PremiumType, &a.User.PublicFlags,
		&a.User.System, &a.User.Phone, &a.User.NSFWAllowed, &a.User.Bio,
		&a.User.BannerColor, &a.CreatedAt, &a.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan account row: %w", err)
	}
	return &a, nil
}
