// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/agency-go/internal/auth"
	"github.com/olegiv/agency-go/internal/session"
)

// Admin page paths.
const (
	AdminLoginPath     = "/admin/login"
	AdminDashboardPath = "/admin"
)

// ContextKeyClaims holds the *auth.Claims of an authenticated admin.
const ContextKeyClaims ContextKey = "claims"

// AdminGate creates middleware for the /admin route group.
//
// Callers that are not authenticated admins are sent to the login page with
// 303 See Other; admins asking for the login page are sent to the dashboard.
// A missing, expired or corrupt session counts as unauthenticated.
func AdminGate(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := session.ClaimsFrom(r.Context(), sm)
			state := auth.StateOf(claims)
			onLogin := isLoginPath(r.URL.Path)

			switch {
			case state == auth.AuthenticatedAdmin && onLogin:
				http.Redirect(w, r, AdminDashboardPath, http.StatusSeeOther)
				return
			case state != auth.AuthenticatedAdmin && !onLogin:
				if state == auth.AuthenticatedNonAdmin {
					slog.Warn("non-admin session denied admin page",
						"user_id", claims.UserID, "path", r.URL.Path)
				}
				http.Redirect(w, r, AdminLoginPath, http.StatusSeeOther)
				return
			}

			if state == auth.AuthenticatedAdmin {
				r = r.WithContext(context.WithValue(r.Context(), ContextKeyClaims, claims))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetClaims returns the admin claims stored by AdminGate or RequireAdminAPI.
// Returns nil if none are in context.
func GetClaims(r *http.Request) *auth.Claims {
	claims, _ := r.Context().Value(ContextKeyClaims).(*auth.Claims)
	return claims
}

func isLoginPath(p string) bool {
	if p != "/" {
		p = strings.TrimSuffix(p, "/")
	}
	return p == AdminLoginPath
}
