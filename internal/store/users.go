// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"strings"

	"github.com/olegiv/agency-go/internal/model"
)

const userColumns = `id, email, name, password_hash, role, last_login_at, created_at, updated_at`

func scanUser(s scanner) (model.User, error) {
	var (
		u    model.User
		role string
	)
	err := s.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &role, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt)
	u.Role = model.ParseRole(role)
	return u, err
}

// GetUserByID returns the user with the given id.
func (q *Queries) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	return queryOne(ctx, q, "get_user", `SELECT `+userColumns+` FROM users WHERE id = ?`, scanUser, id)
}

// GetUserByEmail returns the user with the given email, compared case-insensitively.
func (q *Queries) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return queryOne(ctx, q, "get_user_by_email",
		`SELECT `+userColumns+` FROM users WHERE email = ?`, scanUser, normalizeEmail(email))
}

// CreateUser inserts a user and returns the stored row.
func (q *Queries) CreateUser(ctx context.Context, in model.UserInput) (model.User, error) {
	ts := q.now()
	id, err := q.insert(ctx, "create_user",
		`INSERT INTO users (email, name, password_hash, role, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		normalizeEmail(in.Email), in.Name, in.PasswordHash, string(in.Role), ts, ts,
	)
	if err != nil {
		return model.User{}, err
	}
	return q.GetUserByID(ctx, id)
}

// CountUsers returns the number of users.
func (q *Queries) CountUsers(ctx context.Context) (int64, error) {
	return q.queryInt64(ctx, "count_users", `SELECT COUNT(*) FROM users`)
}

// UpdateUserLastLogin records a successful sign-in.
func (q *Queries) UpdateUserLastLogin(ctx context.Context, id int64) error {
	var patch Patch
	patch.Set("last_login_at", q.now())
	return q.update(ctx, "update_user_last_login", "users", id, &patch)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
