// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package auth

import "github.com/olegiv/agency-go/internal/model"

// Claims are the identity facts carried by a session.
type Claims struct {
	UserID int64
	Role   model.Role
}

// State is the per-request authentication state of a caller.
type State int

// Authentication states.
const (
	Unauthenticated State = iota
	AuthenticatedNonAdmin
	AuthenticatedAdmin
)

func (s State) String() string {
	switch s {
	case AuthenticatedNonAdmin:
		return "authenticated_non_admin"
	case AuthenticatedAdmin:
		return "authenticated_admin"
	default:
		return "unauthenticated"
	}
}

// StateOf classifies the claims decoded from a session. Nil claims, or claims
// without a user, are Unauthenticated.
func StateOf(c *Claims) State {
	if c == nil || c.UserID <= 0 {
		return Unauthenticated
	}
	if !c.Role.CanManageContent() {
		return AuthenticatedNonAdmin
	}
	return AuthenticatedAdmin
}

// IsAdmin is the single authorization predicate for admin pages and
// mutating API routes.
func IsAdmin(c *Claims) bool {
	return StateOf(c) == AuthenticatedAdmin
}
