// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package session configures the server-side session store and maps session
// data to authorization claims.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"

	"github.com/olegiv/agency-go/internal/auth"
	"github.com/olegiv/agency-go/internal/model"
)

// Session data keys.
const (
	KeyUserID = "user_id"
	KeyRole   = "role"
)

// CookieName is the session cookie name in development. Production uses the
// __Host- prefixed variant.
const CookieName = "agency_session"

// Lifetime is the absolute session lifetime.
const Lifetime = 24 * time.Hour

// New creates a session manager. SQLite deployments keep sessions in the
// sessions table created by the migrations; other drivers use the in-process
// store.
func New(db *sql.DB, driver string, isDev bool) *scs.SessionManager {
	sm := scs.New()

	if driver == "sqlite" && db != nil {
		sm.Store = sqlite3store.New(db)
	} else {
		sm.Store = memstore.New()
	}

	sm.Lifetime = Lifetime
	sm.Cookie.Name = CookieName
	sm.Cookie.Path = "/"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Secure = !isDev
	if !isDev {
		sm.Cookie.Name = "__Host-" + CookieName
	}

	return sm
}

// Login renews the session token and stores the user's identity.
func Login(ctx context.Context, sm *scs.SessionManager, u model.User) error {
	if err := sm.RenewToken(ctx); err != nil {
		return fmt.Errorf("renewing session token: %w", err)
	}
	sm.Put(ctx, KeyUserID, u.ID)
	sm.Put(ctx, KeyRole, string(u.Role))
	return nil
}

// Logout destroys the session.
func Logout(ctx context.Context, sm *scs.SessionManager) error {
	if err := sm.Destroy(ctx); err != nil {
		return fmt.Errorf("destroying session: %w", err)
	}
	return nil
}

// ClaimsFrom returns the claims carried by the request session, or nil when
// the session holds no user. Expired or unknown tokens load as empty sessions
// and therefore yield nil.
func ClaimsFrom(ctx context.Context, sm *scs.SessionManager) *auth.Claims {
	id := sm.GetInt64(ctx, KeyUserID)
	if id <= 0 {
		return nil
	}
	return &auth.Claims{
		UserID: id,
		Role:   model.ParseRole(sm.GetString(ctx, KeyRole)),
	}
}
