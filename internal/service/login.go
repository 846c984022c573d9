// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/olegiv/agency-go/internal/auth"
	"github.com/olegiv/agency-go/internal/middleware"
	"github.com/olegiv/agency-go/internal/model"
	"github.com/olegiv/agency-go/internal/store"
)

// ErrInvalidCredentials is returned for an unknown email or wrong password.
var ErrInvalidCredentials = errors.New("invalid email or password")

// AccountLockedError is returned while an account is locked out.
type AccountLockedError struct {
	RetryAfter time.Duration
}

func (e *AccountLockedError) Error() string {
	return fmt.Sprintf("account temporarily locked, retry in %s", e.RetryAfter.Round(time.Second))
}

// LoginService verifies credentials against the users table.
type LoginService struct {
	queries    *store.Queries
	protection *middleware.LoginProtection
}

// NewLoginService creates a LoginService. protection may be nil to disable
// account lockout.
func NewLoginService(q *store.Queries, protection *middleware.LoginProtection) *LoginService {
	return &LoginService{queries: q, protection: protection}
}

// Authenticate returns the user owning email when password matches.
func (s *LoginService) Authenticate(ctx context.Context, email, password string) (model.User, error) {
	key := strings.ToLower(strings.TrimSpace(email))

	if s.protection != nil {
		if locked, remaining := s.protection.IsAccountLocked(key); locked {
			return model.User{}, &AccountLockedError{RetryAfter: remaining}
		}
	}

	user, err := s.queries.GetUserByEmail(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		s.fail(key)
		return model.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return model.User{}, fmt.Errorf("loading user: %w", err)
	}

	ok, err := auth.CheckPassword(password, user.PasswordHash)
	if err != nil {
		slog.Error("stored password hash is unreadable", "user_id", user.ID, "error", err)
		s.fail(key)
		return model.User{}, ErrInvalidCredentials
	}
	if !ok {
		s.fail(key)
		return model.User{}, ErrInvalidCredentials
	}

	if s.protection != nil {
		s.protection.RecordSuccessfulLogin(key)
	}
	if err := s.queries.UpdateUserLastLogin(ctx, user.ID); err != nil {
		slog.Warn("recording last login failed", "user_id", user.ID, "error", err)
	}
	return user, nil
}

func (s *LoginService) fail(email string) {
	if s.protection == nil {
		return
	}
	if locked, d := s.protection.RecordFailedAttempt(email); locked {
		slog.Warn("login locked", "email", email, "duration", d)
	}
}
