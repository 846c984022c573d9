// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/agency-go/internal/auth"
	"github.com/olegiv/agency-go/internal/session"
)

// RequireAdminAPI creates middleware for mutating API routes. It re-derives
// the caller from the session independently of AdminGate and answers 401
// with a JSON error body unless the caller is an admin.
func RequireAdminAPI(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := session.ClaimsFrom(r.Context(), sm)
			if !auth.IsAdmin(claims) {
				writeJSONError(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			ctx := context.WithValue(r.Context(), ContextKeyClaims, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalClaims stores admin claims in the context when present, without
// rejecting anyone. Public API routes use it to widen what admins can see.
func OptionalClaims(sm *scs.SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if claims := session.ClaimsFrom(r.Context(), sm); auth.IsAdmin(claims) {
				r = r.WithContext(context.WithValue(r.Context(), ContextKeyClaims, claims))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// writeJSONError writes {"error": message} with the given status.
func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
