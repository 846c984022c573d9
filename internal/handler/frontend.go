// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/agency-go/internal/i18n"
	"github.com/olegiv/agency-go/internal/locale"
	"github.com/olegiv/agency-go/internal/middleware"
	"github.com/olegiv/agency-go/internal/model"
	"github.com/olegiv/agency-go/internal/render"
	"github.com/olegiv/agency-go/internal/service"
	"github.com/olegiv/agency-go/internal/store"
)

// Home page section sizes.
const (
	homeServices = 6
	homeProjects = 3
	homePosts    = 3
)

// FrontendHandler renders the public site.
type FrontendHandler struct {
	queries  *store.Queries
	content  *service.ContentService
	contact  *service.ContactService
	renderer *render.Renderer
	locales  *locale.Set
	logger   *slog.Logger
	siteURL  string
	isDev    bool
}

// FrontendDeps holds the collaborators of FrontendHandler.
type FrontendDeps struct {
	Queries  *store.Queries
	Content  *service.ContentService
	Contact  *service.ContactService
	Renderer *render.Renderer
	Locales  *locale.Set
	Logger   *slog.Logger
	// SiteURL overrides the request-derived base URL of robots.txt and the sitemap.
	SiteURL string
	IsDev   bool
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(d FrontendDeps) *FrontendHandler {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &FrontendHandler{
		queries:  d.Queries,
		content:  d.Content,
		contact:  d.Contact,
		renderer: d.Renderer,
		locales:  d.Locales,
		logger:   logger,
		siteURL:  d.SiteURL,
		isDev:    d.IsDev,
	}
}

// ProjectView is a project with its category resolved.
type ProjectView struct {
	model.Project
	Category *model.Category
}

// HomeData is the data for the home page.
type HomeData struct {
	Services []model.Service
	Projects []ProjectView
	Posts    []model.BlogPost
}

// ProjectsData is the data for the projects page.
type ProjectsData struct {
	Projects   []ProjectView
	Categories []model.Category
	// Category is the slug of the active filter, if any.
	Category string
}

// Home handles GET /{locale}.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	services := list(ctx, h.logger, "services", h.content.Services)
	projects := h.projectViews(ctx, list(ctx, h.logger, "projects", h.content.PublishedProjects))
	posts := list(ctx, h.logger, "posts", h.content.PublishedPosts)

	data := h.base(r, "nav.home")
	data.Title = i18n.T(data.Locale, "site.name")
	data.Description = i18n.T(data.Locale, "site.tagline")
	data.Data = HomeData{
		Services: head(services, homeServices),
		Projects: head(projects, homeProjects),
		Posts:    head(posts, homePosts),
	}
	h.render(w, r, http.StatusOK, "pages/home", data)
}

// Services handles GET /{locale}/services.
func (h *FrontendHandler) Services(w http.ResponseWriter, r *http.Request) {
	data := h.base(r, "services.title")
	data.Data = list(r.Context(), h.logger, "services", h.content.Services)
	h.render(w, r, http.StatusOK, "pages/services", data)
}

// Service handles GET /{locale}/services/{slug}.
func (h *FrontendHandler) Service(w http.ResponseWriter, r *http.Request) {
	s, err := h.queries.GetServiceBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		h.renderLookupError(w, r, "service", err)
		return
	}

	data := h.base(r, "services.title")
	data.Title = s.Title.Get(data.Locale)
	data.Description = s.ShortDescription.Get(data.Locale)
	data.Data = s
	h.render(w, r, http.StatusOK, "pages/service", data)
}

// Projects handles GET /{locale}/projects with an optional ?category= slug filter.
func (h *FrontendHandler) Projects(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	projects := h.projectViews(ctx, list(ctx, h.logger, "projects", h.content.PublishedProjects))
	categories := list(ctx, h.logger, "categories", h.content.Categories)

	filter := strings.TrimSpace(r.URL.Query().Get("category"))
	if filter != "" {
		kept := projects[:0]
		for _, p := range projects {
			if p.Category != nil && p.Category.Slug == filter {
				kept = append(kept, p)
			}
		}
		projects = kept
	}

	data := h.base(r, "projects.title")
	data.Data = ProjectsData{Projects: projects, Categories: categories, Category: filter}
	h.render(w, r, http.StatusOK, "pages/projects", data)
}

// Project handles GET /{locale}/projects/{slug}. Drafts are not found.
func (h *FrontendHandler) Project(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	p, err := h.queries.GetProjectBySlug(ctx, chi.URLParam(r, "slug"))
	if err == nil && !p.IsPublished() {
		err = store.ErrNotFound
	}
	if err != nil {
		h.renderLookupError(w, r, "project", err)
		return
	}

	view := h.projectViews(ctx, []model.Project{p})[0]
	data := h.base(r, "projects.title")
	data.Title = p.Title.Get(data.Locale)
	data.Description = p.Description.Get(data.Locale)
	data.Data = view
	h.render(w, r, http.StatusOK, "pages/project", data)
}

// Blog handles GET /{locale}/blog.
func (h *FrontendHandler) Blog(w http.ResponseWriter, r *http.Request) {
	data := h.base(r, "blog.title")
	data.Data = list(r.Context(), h.logger, "posts", h.content.PublishedPosts)
	h.render(w, r, http.StatusOK, "pages/blog", data)
}

// Post handles GET /{locale}/blog/{slug}. Drafts are not found.
func (h *FrontendHandler) Post(w http.ResponseWriter, r *http.Request) {
	p, err := h.queries.GetBlogPostBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err == nil && !p.IsPublished() {
		err = store.ErrNotFound
	}
	if err != nil {
		h.renderLookupError(w, r, "blog post", err)
		return
	}

	data := h.base(r, "blog.title")
	data.Title = p.Title.Get(data.Locale)
	data.Description = p.Excerpt.Get(data.Locale)
	data.Data = p
	h.render(w, r, http.StatusOK, "pages/post", data)
}

// Team handles GET /{locale}/team.
func (h *FrontendHandler) Team(w http.ResponseWriter, r *http.Request) {
	data := h.base(r, "team.title")
	data.Data = list(r.Context(), h.logger, "team", h.content.Team)
	h.render(w, r, http.StatusOK, "pages/team", data)
}

// NotFound renders the 404 page in the request locale.
func (h *FrontendHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	h.renderNotFound(w, r)
}

// list loads a public collection. Failures are logged and shown as an
// empty state.
func list[T any](ctx context.Context, logger *slog.Logger, what string, load func(context.Context) ([]T, error)) []T {
	items, err := load(ctx)
	if err != nil {
		logger.Error("loading public content failed", "content", what, "error", err)
		return nil
	}
	return items
}

// projectViews resolves the categories of projects.
func (h *FrontendHandler) projectViews(ctx context.Context, projects []model.Project) []ProjectView {
	byID := make(map[int64]model.Category)
	for _, c := range list(ctx, h.logger, "categories", h.content.Categories) {
		byID[c.ID] = c
	}

	views := make([]ProjectView, 0, len(projects))
	for _, p := range projects {
		v := ProjectView{Project: p}
		if p.CategoryID != nil {
			if c, ok := byID[*p.CategoryID]; ok {
				v.Category = &c
			}
		}
		views = append(views, v)
	}
	return views
}

func head[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// localeOf returns the request locale set by the locale middleware.
func (h *FrontendHandler) localeOf(r *http.Request) string {
	return middleware.GetLocale(r, h.locales.Default())
}

// base builds the shared template data, titled with the i18n key titleKey.
func (h *FrontendHandler) base(r *http.Request, titleKey string) render.TemplateData {
	loc := h.localeOf(r)
	p := strings.TrimPrefix(r.URL.Path, "/"+loc)
	return render.TemplateData{
		Title:  i18n.T(loc, titleKey),
		Locale: loc,
		Path:   p,
	}
}

// render renders a page, falling back to a plain error when the template
// itself fails.
func (h *FrontendHandler) render(w http.ResponseWriter, r *http.Request, status int, name string, data render.TemplateData) {
	if err := h.renderer.RenderStatus(w, r, status, name, data); err != nil {
		h.logger.Error("failed to render template", "template", name, "error", err)
		http.Error(w, "Template rendering error", http.StatusInternalServerError)
	}
}

// renderLookupError renders 404 for missing rows and the error page for
// anything else.
func (h *FrontendHandler) renderLookupError(w http.ResponseWriter, r *http.Request, what string, err error) {
	if errors.Is(err, store.ErrNotFound) {
		h.renderNotFound(w, r)
		return
	}
	h.logger.Error("loading page content failed", "content", what, "path", r.URL.Path, "error", err)
	data := h.base(r, "error.title")
	h.render(w, r, http.StatusInternalServerError, "pages/error", data)
}

// renderNotFound renders the 404 page.
func (h *FrontendHandler) renderNotFound(w http.ResponseWriter, r *http.Request) {
	data := h.base(r, "notfound.title")
	h.render(w, r, http.StatusNotFound, "pages/notfound", data)
}
