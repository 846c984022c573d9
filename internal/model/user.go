// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package model defines the domain types of the agency site: content
// entities, their write inputs and patches, users and roles.
package model

import (
	"database/sql"
	"time"
)

// Role is a user's authorization role.
type Role string

// Known roles. Any other stored value parses to RoleUnknown.
const (
	RoleAdmin   Role = "admin"
	RoleEditor  Role = "editor"
	RoleUnknown Role = ""
)

// ParseRole converts a stored role string into a Role.
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin
	case RoleEditor:
		return RoleEditor
	default:
		return RoleUnknown
	}
}

// CanManageContent reports whether the role may use the admin panel and
// mutating API routes.
func (r Role) CanManageContent() bool {
	switch r {
	case RoleAdmin:
		return true
	case RoleEditor, RoleUnknown:
		return false
	}
	return false
}

// User is an account that can sign in to the admin panel.
type User struct {
	ID           int64        `json:"id"`
	Email        string       `json:"email"`
	Name         string       `json:"name"`
	PasswordHash string       `json:"-"`
	Role         Role         `json:"role"`
	LastLoginAt  sql.NullTime `json:"-"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// IsAdmin returns true if the user has admin role.
func (u *User) IsAdmin() bool {
	return u.Role.CanManageContent()
}

// UserInput holds the fields needed to create a user.
type UserInput struct {
	Email        string
	Name         string
	PasswordHash string
	Role         Role
}
