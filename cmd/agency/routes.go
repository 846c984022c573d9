// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"io/fs"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/olegiv/agency-go/internal/handler"
	"github.com/olegiv/agency-go/internal/handler/api"
	"github.com/olegiv/agency-go/internal/locale"
	"github.com/olegiv/agency-go/internal/middleware"
)

// app holds everything the router needs.
type app struct {
	sessions        *scs.SessionManager
	locales         *locale.Set
	frontend        *handler.FrontendHandler
	admin           *handler.AdminHandler
	health          *handler.HealthHandler
	api             *api.Handler
	loginProtection *middleware.LoginProtection
	contactLimiter  *middleware.IPRateLimiter
	security        middleware.SecurityHeadersConfig
	csrf            middleware.CSRFConfig
	static          fs.FS
	uploadsDir      string
}

// registerFrontendRoutes registers the public pages below a locale prefix.
func registerFrontendRoutes(r chi.Router, h *handler.FrontendHandler, contactLimit func(http.Handler) http.Handler) {
	r.Get("/", h.Home)
	r.Get(handler.RouteServices, h.Services)
	r.Get(handler.RouteServices+handler.RouteParamSlug, h.Service)
	r.Get(handler.RouteProjects, h.Projects)
	r.Get(handler.RouteProjects+handler.RouteParamSlug, h.Project)
	r.Get(handler.RouteBlog, h.Blog)
	r.Get(handler.RouteBlog+handler.RouteParamSlug, h.Post)
	r.Get(handler.RouteTeam, h.Team)
	r.Get(handler.RouteContact, h.Contact)
	r.With(contactLimit).Post(handler.RouteContact, h.SubmitContact)
}

// routes builds the application router.
func (a *app) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger)
	r.Use(middleware.Metrics)
	r.Use(chimw.Recoverer)
	r.Use(chimw.GetHead)
	r.Use(middleware.SecurityHeaders(a.security))
	r.Use(a.sessions.LoadAndSave)
	r.Use(middleware.CSRF(a.csrf))
	r.Use(middleware.LocaleRedirect(a.locales))

	// Operational endpoints
	r.Get("/health", a.health.Health)
	r.Get("/health/live", a.health.Liveness)
	r.Handle("/metrics", promhttp.Handler())

	// Files
	r.Handle("/static/*", http.StripPrefix("/static/", noDirListing(http.FileServerFS(a.static))))
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", noDirListing(http.FileServer(http.Dir(a.uploadsDir)))))
	r.Get("/robots.txt", a.frontend.Robots)
	r.Get("/sitemap.xml", a.frontend.Sitemap)

	// JSON API
	r.Mount("/api", a.api.Routes(api.Limits{
		Login:   a.loginProtection.Middleware,
		Contact: a.contactLimiter.Middleware,
	}))

	// Admin pages
	r.Route(middleware.AdminDashboardPath, func(r chi.Router) {
		r.Use(middleware.AdminGate(a.sessions))
		r.Get("/", a.admin.Dashboard)
		r.Get("/login", a.admin.LoginForm)
		r.With(a.loginProtection.Middleware).Post("/login", a.admin.Login)
		r.Post("/logout", a.admin.Logout)
		a.admin.ContentRoutes(r)
	})

	// Public site; LocaleRedirect guarantees the first segment is a supported locale
	r.Route("/{locale}", func(r chi.Router) {
		registerFrontendRoutes(r, a.frontend, a.contactLimiter.Middleware)
	})

	r.NotFound(a.frontend.NotFound)

	return r
}

// noDirListing answers directory requests with 404 instead of an index.
func noDirListing(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "" || strings.HasSuffix(r.URL.Path, "/") {
			http.NotFound(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}
