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

	"github.com/google/uuid"

	"github.com/tokenatlas/tokenatlas/internal/metrics"
	"github.com/tokenatlas/tokenatlas/internal/models"
)

// CreateAdminUser inserts a new operator with the given bcrypt hash.
// Returns ErrAdminUserExists when the username is taken.
func (db *DB) CreateAdminUser(ctx context.Context, username, passwordHash string) (*models.AdminUser, error) {
	start := time.Now()
	user, err := db.createAdminUser(ctx, username, passwordHash)
	metrics.RecordDBQuery("INSERT", "admin_users", time.Since(start), err)
	return user, err
}

func (db *DB) createAdminUser(ctx context.Context, username, passwordHash string) (*models.AdminUser, error) {
	var taken bool
	err := db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) > 0 FROM admin_users WHERE username = ?`, username).Scan(&taken)
	if err != nil {
		return nil, fmt.Errorf("failed to check admin username: %w", err)
	}
	if taken {
		return nil, ErrAdminUserExists
	}

	user := &models.AdminUser{
		ID:        uuid.NewString(),
		Username:  username,
		Hash:      passwordHash,
		CreatedAt: time.Now().UTC(),
	}
	_, err = db.conn.ExecContext(ctx,
		`INSERT INTO admin_users (id, username, password_hash, created_at) VALUES (?, ?, ?, ?)`,
		user.ID, user.Username, user.Hash, user.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert admin user: %w", err)
	}
	return user, nil
}

// GetAdminUserByUsername fetches one operator by username.
// Returns ErrAdminUserNotFound when absent.
func (db *DB) GetAdminUserByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	start := time.Now()
	var user models.AdminUser
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM admin_users WHERE username = ?`,
		username).
		Scan(&user.ID, &user.Username, &user.Hash, &user.CreatedAt)
	metrics.RecordDBQuery("SELECT", "admin_users", time.Since(start), err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAdminUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load admin user: %w", err)
	}
	return &user, nil
}

// GetAdminUserByID fetches one operator by id.
// Returns ErrAdminUserNotFound when absent.
func (db *DB) GetAdminUserByID(ctx context.Context, id string) (*models.AdminUser, error) {
	start := time.Now()
	var user models.AdminUser
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, username, password_hash, created_at FROM admin_users WHERE id = ?`,
		id).
		Scan(&user.ID, &user.Username, &user.Hash, &user.CreatedAt)
	metrics.RecordDBQuery("SELECT", "admin_users", time.Since(start), err)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAdminUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load admin user: %w", err)
	}
	return &user, nil
}

// ListAdminUsers fetches every operator, oldest first.
func (db *DB) ListAdminUsers(ctx context.Context) ([]models.AdminUser, error) {
	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, username, password_hash, created_at FROM admin_users ORDER BY created_at, id`)
	metrics.RecordDBQuery("SELECT", "admin_users", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to list admin users: %w", err)
	}
	defer closeWithLog(rows, "admin user rows")

	var users []models.AdminUser
	for rows.Next() {
		var u models.AdminUser
		if err := rows.Scan(&u.ID, &u.Username, &u.Hash, &u.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan admin user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("admin user iteration failed: %w", err)
	}
	return users, nil
}

// CountAdminUsers returns the number of operators on record.
func (db *DB) CountAdminUsers(ctx context.Context) (int, error) {
	var count int
	err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM admin_users`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count admin users: %w", err)
	}
	return count, nil
}

// DeleteAdminUser removes an operator by id. The last remaining operator
// cannot be deleted; that returns ErrLastAdminUser.
func (db *DB) DeleteAdminUser(ctx context.Context, id string) error {
	start := time.Now()
	err := db.deleteAdminUser(ctx, id)
	metrics.RecordDBQuery("DELETE", "admin_users", time.Since(start), err)
	return err
}

func (db *DB) deleteAdminUser(ctx context.Context, id string) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM admin_users`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count admin users: %w", err)
	}
	if count <= 1 {
		return ErrLastAdminUser
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM admin_users WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete admin user %s: %w", id, err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrAdminUserNotFound
	}
	return tx.Commit()
}
