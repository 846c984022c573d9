// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/agency-go/internal/cache"
	"github.com/olegiv/agency-go/internal/handler"
	"github.com/olegiv/agency-go/internal/handler/api"
	"github.com/olegiv/agency-go/internal/i18n"
	"github.com/olegiv/agency-go/internal/locale"
	"github.com/olegiv/agency-go/internal/mail"
	"github.com/olegiv/agency-go/internal/middleware"
	"github.com/olegiv/agency-go/internal/render"
	"github.com/olegiv/agency-go/internal/service"
	"github.com/olegiv/agency-go/internal/session"
	"github.com/olegiv/agency-go/internal/store"
	"github.com/olegiv/agency-go/internal/testutil"
	"github.com/olegiv/agency-go/web"
)

type discardSender struct{}

func (discardSender) Send(context.Context, mail.Message) error { return nil }

func newTestServer(t *testing.T) (http.Handler, *store.Queries, string) {
	t.Helper()
	require.NoError(t, i18n.Init())

	db := testutil.MemoryDB(t)
	q := store.New(db)
	sm := session.New(nil, "mysql", true)
	mem := cache.NewMemoryCache(time.Minute, time.Minute)
	t.Cleanup(func() { _ = mem.Close() })
	locales := locale.NewSet([]string{"en", "ar"}, "en")
	uploads := t.TempDir()

	templatesFS, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)
	staticFS, err := fs.Sub(web.Static, "static")
	require.NoError(t, err)
	renderer, err := render.New(render.Config{TemplatesFS: templatesFS, SessionManager: sm, Locales: locales, IsDev: true})
	require.NoError(t, err)

	protection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	content := service.NewContentService(q, mem)
	login := service.NewLoginService(q, protection)
	contact := service.NewContactService(discardSender{}, "office@example.com")
	media := service.NewMediaService(uploads)
	apiHandler := api.NewHandler(api.Deps{
		Queries: q, Sessions: sm, Content: content, Login: login,
		Contact: contact, Media: media,
	})

	a := &app{
		sessions: sm,
		locales:  locales,
		frontend: handler.NewFrontendHandler(handler.FrontendDeps{
			Queries: q, Content: content, Contact: contact, Renderer: renderer,
			Locales: locales, Logger: testutil.TestLogger(), IsDev: true,
		}),
		admin: handler.NewAdminHandler(handler.AdminDeps{
			Queries: q, Sessions: sm, Login: login, Content: content,
			API: apiHandler, Media: media, Renderer: renderer, Logger: testutil.TestLogger(),
		}),
		health:          handler.NewHealthHandler(db, sm, uploads),
		api:             apiHandler,
		loginProtection: protection,
		contactLimiter:  middleware.NewIPRateLimiter(10, 10),
		security:        middleware.DefaultSecurityHeadersConfig(true),
		csrf:            middleware.DefaultCSRFConfig([]byte(strings.Repeat("k", 32)), true, "localhost:8080"),
		static:          staticFS,
		uploadsDir:      uploads,
	}
	return a.routes(), q, uploads
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRoutes_LocaleRedirect(t *testing.T) {
	h, _, _ := newTestServer(t)

	tests := []struct {
		name   string
		path   string
		accept string
		cookie string
		want   string
	}{
		{"root defaults to english", "/", "", "", "/en"},
		{"arabic browser", "/", "ar-EG,ar;q=0.9", "", "/ar"},
		{"unsupported language falls back", "/services", "fr-FR", "", "/en/services"},
		{"cookie beats header", "/blog", "en-US", "ar", "/ar/blog"},
		{"query string kept", "/projects?category=web", "", "", "/en/projects?category=web"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.accept != "" {
				req.Header.Set("Accept-Language", tt.accept)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: middleware.LocaleCookieName, Value: tt.cookie})
			}
			rec := serve(h, req)
			assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
			assert.Equal(t, tt.want, rec.Header().Get("Location"))
		})
	}
}

func TestRoutes_LocalizedPages(t *testing.T) {
	h, _, _ := newTestServer(t)

	for _, path := range []string{"/en", "/ar", "/en/services", "/ar/projects", "/en/blog", "/ar/team", "/en/contact"} {
		rec := serve(h, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"), path)
	}
}

func TestRoutes_UnlocalizedPaths(t *testing.T) {
	h, _, uploads := newTestServer(t)
	require.NoError(t, os.WriteFile(filepath.Join(uploads, "logo.txt"), []byte("logo"), 0o644))

	tests := []struct {
		path string
		want int
	}{
		{"/health", http.StatusOK},
		{"/health/live", http.StatusOK},
		{"/metrics", http.StatusOK},
		{"/static/css/site.css", http.StatusOK},
		{"/static/css/", http.StatusNotFound},
		{"/uploads/logo.txt", http.StatusOK},
		{"/uploads/", http.StatusNotFound},
		{"/robots.txt", http.StatusOK},
		{"/sitemap.xml", http.StatusOK},
		{"/api/services", http.StatusOK},
		{"/admin", http.StatusSeeOther},
		{"/admin/login", http.StatusOK},
	}
	for _, tt := range tests {
		rec := serve(h, httptest.NewRequest(http.MethodGet, tt.path, nil))
		assert.Equal(t, tt.want, rec.Code, tt.path)
	}
}

func TestRoutes_AdminGate(t *testing.T) {
	h, _, _ := newTestServer(t)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/admin", nil))
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))
}

func TestRoutes_APIMutationNeedsSession(t *testing.T) {
	h, q, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/api/services",
		strings.NewReader(`{"title":{"en":"Web"},"short_description":{"en":"x"},"icon":"Globe"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := serve(h, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	n, err := q.CountServices(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRoutes_CrossOriginFormRejected(t *testing.T) {
	h, _, _ := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader("email=a%40b.c&password=x"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Sec-Fetch-Site", "cross-site")
	rec := serve(h, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRoutes_NotFound(t *testing.T) {
	h, _, _ := newTestServer(t)

	rec := serve(h, httptest.NewRequest(http.MethodGet, "/en/missing/page", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")

	rec = serve(h, httptest.NewRequest(http.MethodGet, "/api/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
