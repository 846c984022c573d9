// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/agency-go/internal/cache"
	"github.com/olegiv/agency-go/internal/handler/api"
	"github.com/olegiv/agency-go/internal/i18n"
	"github.com/olegiv/agency-go/internal/middleware"
	"github.com/olegiv/agency-go/internal/model"
	"github.com/olegiv/agency-go/internal/render"
	"github.com/olegiv/agency-go/internal/service"
	"github.com/olegiv/agency-go/internal/session"
	"github.com/olegiv/agency-go/internal/store"
	"github.com/olegiv/agency-go/internal/version"
)

// AdminHandler serves the admin login, the dashboard and the content
// managers. Content forms are saved through the JSON API's operations.
type AdminHandler struct {
	queries  *store.Queries
	sessions *scs.SessionManager
	login    *service.LoginService
	content  *service.ContentService
	api      *api.Handler
	media    *service.MediaService
	renderer *render.Renderer
	logger   *slog.Logger
}

// AdminDeps holds the collaborators of AdminHandler.
type AdminDeps struct {
	Queries  *store.Queries
	Sessions *scs.SessionManager
	Login    *service.LoginService
	Content  *service.ContentService
	// API performs content writes; Media stores images uploaded with forms.
	API      *api.Handler
	Media    *service.MediaService
	Renderer *render.Renderer
	Logger   *slog.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(d AdminDeps) *AdminHandler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminHandler{
		queries:  d.Queries,
		sessions: d.Sessions,
		login:    d.Login,
		content:  d.Content,
		api:      d.API,
		media:    d.Media,
		renderer: d.Renderer,
		logger:   logger,
	}
}

// LoginData is the data for the login page.
type LoginData struct {
	Email string
}

// Counts holds the number of rows per content type.
type Counts struct {
	Services   int64
	Categories int64
	Projects   int64
	Posts      int64
	Team       int64
}

// DashboardData is the data for the dashboard page.
type DashboardData struct {
	User    model.User
	Counts  Counts
	Cache   cache.Stats
	Version version.Info
}

// uiLocale picks the admin UI language, since admin URLs carry no locale prefix.
func uiLocale(r *http.Request) string {
	return i18n.MatchLanguage(r.Header.Get("Accept-Language"))
}

func (h *AdminHandler) render(w http.ResponseWriter, r *http.Request, status int, name string, data render.TemplateData) {
	if err := h.renderer.RenderStatus(w, r, status, name, data); err != nil {
		h.logger.Error("failed to render template", "template", name, "error", err)
		http.Error(w, "Template rendering error", http.StatusInternalServerError)
	}
}

func (h *AdminHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, email, flashKey string, args ...any) {
	loc := uiLocale(r)
	data := render.TemplateData{
		Title:  i18n.T(loc, "admin.login"),
		Locale: loc,
		Data:   LoginData{Email: email},
	}
	if flashKey != "" {
		data.Flash = i18n.T(loc, flashKey, args...)
		data.FlashType = render.FlashError
	}
	h.render(w, r, status, "admin/login", data)
}

// LoginForm handles GET /admin/login.
func (h *AdminHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, r, http.StatusOK, "", "")
}

// Login handles POST /admin/login.
func (h *AdminHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	email := strings.TrimSpace(r.PostFormValue("email"))
	password := r.PostFormValue("password")

	u, err := h.login.Authenticate(r.Context(), email, password)
	var locked *service.AccountLockedError
	switch {
	case errors.As(err, &locked):
		w.Header().Set("Retry-After", strconv.Itoa(int(locked.RetryAfter.Seconds())+1))
		h.renderLogin(w, r, http.StatusTooManyRequests, email, "admin.too_many_attempts")
		return
	case errors.Is(err, service.ErrInvalidCredentials):
		h.renderLogin(w, r, http.StatusUnauthorized, email, "admin.invalid_credentials")
		return
	case err != nil:
		h.logger.Error("login failed", "error", err)
		h.renderLogin(w, r, http.StatusInternalServerError, email, "error.body")
		return
	}

	if !u.Role.CanManageContent() {
		h.logger.Warn("non-admin login to admin panel refused", "user_id", u.ID)
		h.renderLogin(w, r, http.StatusForbidden, email, "admin.not_authorized")
		return
	}

	if err := session.Login(r.Context(), h.sessions, u); err != nil {
		h.logger.Error("starting session failed", "user_id", u.ID, "error", err)
		h.renderLogin(w, r, http.StatusInternalServerError, email, "error.body")
		return
	}
	h.logger.Info("user logged in", "user_id", u.ID)
	http.Redirect(w, r, middleware.AdminDashboardPath, http.StatusSeeOther)
}

// Logout handles POST /admin/logout.
func (h *AdminHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := session.Logout(r.Context(), h.sessions); err != nil {
		h.logger.Error("ending session failed", "error", err)
	}
	http.Redirect(w, r, middleware.AdminLoginPath, http.StatusSeeOther)
}

// Dashboard handles GET /admin.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	loc := uiLocale(r)

	var u model.User
	if claims := middleware.GetClaims(r); claims != nil {
		var err error
		if u, err = h.queries.GetUserByID(ctx, claims.UserID); err != nil {
			h.logger.Warn("loading dashboard user failed", "user_id", claims.UserID, "error", err)
		}
	}

	data := DashboardData{
		User:    u,
		Counts:  h.counts(ctx),
		Version: version.Get(),
	}
	if h.content != nil {
		data.Cache = h.content.Stats()
	}

	h.render(w, r, http.StatusOK, "admin/dashboard", render.TemplateData{
		Title:   i18n.T(loc, "admin.dashboard"),
		Locale:  loc,
		Data:    data,
		IsAdmin: true,
	})
}

// counts collects row counts. A failed count is logged and shown as zero.
func (h *AdminHandler) counts(ctx context.Context) Counts {
	count := func(what string, fn func(context.Context) (int64, error)) int64 {
		n, err := fn(ctx)
		if err != nil {
			h.logger.Error("counting rows failed", "content", what, "error", err)
		}
		return n
	}
	return Counts{
		Services:   count("services", h.queries.CountServices),
		Categories: count("categories", h.queries.CountCategories),
		Projects:   count("projects", h.queries.CountProjects),
		Posts:      count("posts", h.queries.CountBlogPosts),
		Team:       count("team", h.queries.CountTeamMembers),
	}
}
