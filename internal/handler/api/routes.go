// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/agency-go/internal/middleware"
)

// Limits are the per-route rate limit middlewares. Nil entries disable
// limiting for that route.
type Limits struct {
	Login   func(http.Handler) http.Handler
	Contact func(http.Handler) http.Handler
}

func passthrough(next http.Handler) http.Handler { return next }

func orPassthrough(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	if mw == nil {
		return passthrough
	}
	return mw
}

// Routes returns the /api router. Reads are public and widened for admins;
// every mutation requires an admin session.
func (h *Handler) Routes(limits Limits) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.OptionalClaims(h.sessions))
	admin := middleware.RequireAdminAPI(h.sessions)

	r.Route("/auth", func(r chi.Router) {
		r.With(orPassthrough(limits.Login)).Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Get("/session", h.Session)
	})
	r.With(orPassthrough(limits.Contact)).Post("/contact", h.SubmitContact)

	type resource struct {
		list, get, create, update, del http.HandlerFunc
		bySlug                         http.HandlerFunc
		publish, unpublish             http.HandlerFunc
	}
	mount := func(pattern string, res resource) {
		r.Route(pattern, func(r chi.Router) {
			r.Get("/", res.list)
			r.Get("/{id}", res.get)
			if res.bySlug != nil {
				r.Get("/slug/{slug}", res.bySlug)
			}
			r.Group(func(r chi.Router) {
				r.Use(admin)
				r.Post("/", res.create)
				r.Put("/{id}", res.update)
				r.Delete("/{id}", res.del)
				if res.publish != nil {
					r.Post("/{id}/publish", res.publish)
					r.Delete("/{id}/publish", res.unpublish)
				}
			})
		})
	}
	mount("/services", resource{
		list: h.ListServices, get: h.GetService, bySlug: h.GetServiceBySlug,
		create: h.CreateService, update: h.UpdateService, del: h.DeleteService,
	})
	mount("/categories", resource{
		list: h.ListCategories, get: h.GetCategory, bySlug: h.GetCategoryBySlug,
		create: h.CreateCategory, update: h.UpdateCategory, del: h.DeleteCategory,
	})
	mount("/projects", resource{
		list: h.ListProjects, get: h.GetProject, bySlug: h.GetProjectBySlug,
		create: h.CreateProject, update: h.UpdateProject, del: h.DeleteProject,
		publish: h.PublishProject, unpublish: h.UnpublishProject,
	})
	mount("/posts", resource{
		list: h.ListPosts, get: h.GetPost, bySlug: h.GetPostBySlug,
		create: h.CreatePost, update: h.UpdatePost, del: h.DeletePost,
		publish: h.PublishPost, unpublish: h.UnpublishPost,
	})
	mount("/team", resource{
		list: h.ListTeam, get: h.GetTeamMember,
		create: h.CreateTeamMember, update: h.UpdateTeamMember, del: h.DeleteTeamMember,
	})

	r.With(admin).Post("/upload", h.Upload)

	r.Route("/admin", func(r chi.Router) {
		r.Use(admin)
		r.Post("/test-email", h.SendTestEmail)
		r.Get("/cache", h.CacheStats)
		r.Delete("/cache", h.ClearCache)
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusNotFound, "not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "method not allowed", nil)
	})
	return r
}
