// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/olegiv/agency-go/internal/locale"
)

// LocaleCookieName is the cookie holding the visitor's preferred locale.
const LocaleCookieName = "agency_locale"

const localeCookieMaxAge = 365 * 24 * time.Hour

// localeExcludedPrefixes are path prefixes that never carry a locale segment.
var localeExcludedPrefixes = []string{
	"/api/",
	"/admin/",
	"/uploads/",
	"/static/",
	"/health",
	"/metrics",
}

// LocaleRedirect creates middleware that makes every public page URL start
// with a supported locale.
//
// Requests already prefixed with a supported locale pass through with the
// locale stored in the context and the preference cookie refreshed. Other
// requests are answered with 307 to /<locale><path>, where the locale comes
// from the preference cookie, then Accept-Language, then the default.
func LocaleRedirect(set *locale.Set) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p := r.URL.Path
			if isLocaleExcluded(p) {
				next.ServeHTTP(w, r)
				return
			}

			if code, ok := localePrefix(set, p); ok {
				setLocaleCookie(w, code)
				ctx := context.WithValue(r.Context(), ContextKeyLocale, code)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			target := "/" + ResolveLocale(set, r)
			if p != "/" && p != "" {
				target += p
			}
			if r.URL.RawQuery != "" {
				target += "?" + r.URL.RawQuery
			}
			http.Redirect(w, r, target, http.StatusTemporaryRedirect)
		})
	}
}

// ResolveLocale picks the locale for a request without a locale prefix.
func ResolveLocale(set *locale.Set, r *http.Request) string {
	if c, err := r.Cookie(LocaleCookieName); err == nil && set.Supports(c.Value) {
		return strings.ToLower(c.Value)
	}
	return set.FromAcceptLanguage(r.Header.Get("Accept-Language"))
}

// GetLocale returns the locale stored by LocaleRedirect, or defaultCode
// when the request did not pass through it.
func GetLocale(r *http.Request, defaultCode string) string {
	if code, ok := r.Context().Value(ContextKeyLocale).(string); ok && code != "" {
		return code
	}
	return defaultCode
}

// WithLocale returns a copy of ctx carrying code as the request locale.
func WithLocale(ctx context.Context, code string) context.Context {
	return context.WithValue(ctx, ContextKeyLocale, code)
}

func isLocaleExcluded(p string) bool {
	if p == "/admin" || p == "/api" {
		return true
	}
	for _, prefix := range localeExcludedPrefixes {
		if strings.HasPrefix(p, prefix) {
			return true
		}
	}
	// favicon.ico, robots.txt, style.css and friends
	return path.Ext(path.Base(p)) != ""
}

func localePrefix(set *locale.Set, p string) (string, bool) {
	seg := strings.TrimPrefix(p, "/")
	if idx := strings.IndexByte(seg, '/'); idx >= 0 {
		seg = seg[:idx]
	}
	if seg == "" || !set.Supports(seg) {
		return "", false
	}
	return strings.ToLower(seg), true
}

func setLocaleCookie(w http.ResponseWriter, code string) {
	http.SetCookie(w, &http.Cookie{
		Name:     LocaleCookieName,
		Value:    code,
		Path:     "/",
		MaxAge:   int(localeCookieMaxAge.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
