// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/olegiv/agency-go/internal/auth"
	"github.com/olegiv/agency-go/internal/model"
)

// DefaultAdminName is the display name of the seeded administrator.
const DefaultAdminName = "Administrator"

// SeedAdmin creates the initial administrator when the users table is
// empty. It is a no-op when either credential is blank or users exist.
func SeedAdmin(ctx context.Context, q *Queries, email, password string) error {
	if email == "" || password == "" {
		return nil
	}

	count, err := q.CountUsers(ctx)
	if err != nil {
		return fmt.Errorf("counting users: %w", err)
	}
	if count > 0 {
		slog.Info("users already exist, skipping admin seed")
		return nil
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	user, err := q.CreateUser(ctx, model.UserInput{
		Email:        email,
		Name:         DefaultAdminName,
		PasswordHash: passwordHash,
		Role:         model.RoleAdmin,
	})
	if err != nil {
		return fmt.Errorf("creating admin user: %w", err)
	}

	slog.Info("created initial admin user", "id", user.ID, "email", user.Email)
	return nil
}
