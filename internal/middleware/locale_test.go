// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/olegiv/agency-go/internal/locale"
)

func newLocaleHandler(set *locale.Set, seen *string) http.Handler {
	return LocaleRedirect(set)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*seen = GetLocale(r, "none")
		w.WriteHeader(http.StatusOK)
	}))
}

func TestLocaleRedirect(t *testing.T) {
	set := locale.NewSet([]string{"en", "ar"}, "en")

	tests := []struct {
		name         string
		path         string
		cookie       string
		acceptLang   string
		wantStatus   int
		wantLocation string
		wantLocale   string
	}{
		{name: "root default", path: "/", wantStatus: http.StatusTemporaryRedirect, wantLocation: "/en"},
		{name: "root arabic header", path: "/", acceptLang: "ar-EG,ar;q=0.9,en;q=0.8", wantStatus: http.StatusTemporaryRedirect, wantLocation: "/ar"},
		{name: "header order wins over weight", path: "/about", acceptLang: "fr-FR, ar;q=0.5, en;q=0.9", wantStatus: http.StatusTemporaryRedirect, wantLocation: "/ar/about"},
		{name: "unsupported header", path: "/services", acceptLang: "fr-FR,de", wantStatus: http.StatusTemporaryRedirect, wantLocation: "/en/services"},
		{name: "malformed header", path: "/services", acceptLang: ";;;,,=", wantStatus: http.StatusTemporaryRedirect, wantLocation: "/en/services"},
		{name: "cookie beats header", path: "/blog", cookie: "ar", acceptLang: "en", wantStatus: http.StatusTemporaryRedirect, wantLocation: "/ar/blog"},
		{name: "unsupported cookie ignored", path: "/blog", cookie: "fr", acceptLang: "ar", wantStatus: http.StatusTemporaryRedirect, wantLocation: "/ar/blog"},
		{name: "query preserved", path: "/projects?page=2&q=a%20b", wantStatus: http.StatusTemporaryRedirect, wantLocation: "/en/projects?page=2&q=a%20b"},
		{name: "english prefix", path: "/en/services", wantStatus: http.StatusOK, wantLocale: "en"},
		{name: "arabic prefix", path: "/ar", wantStatus: http.StatusOK, wantLocale: "ar"},
		{name: "uppercase prefix", path: "/AR/blog", wantStatus: http.StatusOK, wantLocale: "ar"},
		{name: "locale-like segment", path: "/english/page", wantStatus: http.StatusTemporaryRedirect, wantLocation: "/en/english/page"},
		{name: "api excluded", path: "/api/services", wantStatus: http.StatusOK, wantLocale: "none"},
		{name: "admin excluded", path: "/admin", wantStatus: http.StatusOK, wantLocale: "none"},
		{name: "admin subpath excluded", path: "/admin/login", wantStatus: http.StatusOK, wantLocale: "none"},
		{name: "uploads excluded", path: "/uploads/a.jpg", wantStatus: http.StatusOK, wantLocale: "none"},
		{name: "static excluded", path: "/static/css/site.css", wantStatus: http.StatusOK, wantLocale: "none"},
		{name: "health excluded", path: "/health/live", wantStatus: http.StatusOK, wantLocale: "none"},
		{name: "metrics excluded", path: "/metrics", wantStatus: http.StatusOK, wantLocale: "none"},
		{name: "favicon excluded", path: "/favicon.ico", wantStatus: http.StatusOK, wantLocale: "none"},
		{name: "robots excluded", path: "/robots.txt", wantStatus: http.StatusOK, wantLocale: "none"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			h := newLocaleHandler(set, &seen)

			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: LocaleCookieName, Value: tt.cookie})
			}
			if tt.acceptLang != "" {
				req.Header.Set("Accept-Language", tt.acceptLang)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if tt.wantLocation != "" {
				if got := rec.Header().Get("Location"); got != tt.wantLocation {
					t.Errorf("Location = %q, want %q", got, tt.wantLocation)
				}
			}
			if tt.wantLocale != "" && seen != tt.wantLocale {
				t.Errorf("locale = %q, want %q", seen, tt.wantLocale)
			}
		})
	}
}

func TestLocaleRedirect_EverySupportedLocale(t *testing.T) {
	set := locale.NewSet([]string{"en", "ar", "fr"}, "en")

	for _, code := range set.Codes() {
		t.Run(code, func(t *testing.T) {
			var seen string
			h := newLocaleHandler(set, &seen)

			req := httptest.NewRequest(http.MethodGet, "/team", nil)
			req.Header.Set("Accept-Language", code)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			if rec.Code != http.StatusTemporaryRedirect {
				t.Fatalf("status = %d", rec.Code)
			}
			if got := rec.Header().Get("Location"); got != "/"+code+"/team" {
				t.Errorf("Location = %q", got)
			}

			rec = httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/"+code+"/team", nil))
			if rec.Code != http.StatusOK || seen != code {
				t.Errorf("prefixed request: status %d, locale %q", rec.Code, seen)
			}
		})
	}
}

func TestLocaleRedirect_DefaultLocale(t *testing.T) {
	set := locale.NewSet([]string{"en", "ar"}, "ar")
	var seen string
	h := newLocaleHandler(set, &seen)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	if got := rec.Header().Get("Location"); got != "/ar" {
		t.Errorf("Location = %q, want /ar", got)
	}
}

func TestLocaleRedirect_SetsPreferenceCookie(t *testing.T) {
	set := locale.NewSet([]string{"en", "ar"}, "en")
	var seen string
	h := newLocaleHandler(set, &seen)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ar/contact", nil))

	var found *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == LocaleCookieName {
			found = c
		}
	}
	if found == nil {
		t.Fatal("expected locale cookie")
	}
	if found.Value != "ar" || found.Path != "/" {
		t.Errorf("cookie = %+v", found)
	}
}

func TestGetLocale_Default(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := GetLocale(req, "en"); got != "en" {
		t.Errorf("GetLocale = %q, want en", got)
	}

	req = req.WithContext(WithLocale(req.Context(), "ar"))
	if got := GetLocale(req, "en"); got != "ar" {
		t.Errorf("GetLocale = %q, want ar", got)
	}
}
