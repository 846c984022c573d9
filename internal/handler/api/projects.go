// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/microcosm-cc/bluemonday"

	"github.com/olegiv/agency-go/internal/model"
	"github.com/olegiv/agency-go/internal/service"
	"github.com/olegiv/agency-go/internal/store"
)

const entityProject = "project"

// richText sanitizes stored HTML content.
var richText = bluemonday.UGCPolicy()

// statusFilter reads ?status= for admin list requests. Empty means all.
func statusFilter(r *http.Request) (model.Status, error) {
	raw := r.URL.Query().Get("status")
	if raw == "" {
		return "", nil
	}
	st := model.Status(raw)
	if !st.Valid() {
		return "", newValidationError("status", "status must be one of: draft, published")
	}
	return st, nil
}

// ListProjects handles GET /api/projects. Anonymous callers see published
// projects only; admins see all and may filter by ?status=.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var (
		items []model.Project
		err   error
	)
	switch {
	case !isAdmin(r) && h.content != nil:
		items, err = h.content.PublishedProjects(ctx)
	case !isAdmin(r):
		items, err = h.queries.ListPublishedProjects(ctx)
	default:
		var st model.Status
		if st, err = statusFilter(r); err == nil {
			if st == "" {
				items, err = h.queries.ListProjects(ctx)
			} else {
				items, err = h.queries.ListProjectsByStatus(ctx, st)
			}
		}
	}
	if err != nil {
		writeError(w, r, entityProject, err)
		return
	}
	WriteList(w, items)
}

// visibleProject hides drafts from non-admin callers.
func visibleProject(r *http.Request, p model.Project, err error) (model.Project, error) {
	if err == nil && !p.IsPublished() && !isAdmin(r) {
		return model.Project{}, errNotVisible
	}
	return p, err
}

// GetProject handles GET /api/projects/{id}.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	p, ok := fetchByID(w, r, entityProject, h.queries.GetProjectByID)
	if !ok {
		return
	}
	p, err := visibleProject(r, p, nil)
	respond(w, r, entityProject, p, err)
}

// GetProjectBySlug handles GET /api/projects/slug/{slug}.
func (h *Handler) GetProjectBySlug(w http.ResponseWriter, r *http.Request) {
	p, err := h.queries.GetProjectBySlug(r.Context(), chi.URLParam(r, "slug"))
	p, err = visibleProject(r, p, err)
	respond(w, r, entityProject, p, err)
}

func parseProjectPatch(p *payload, creating bool) model.ProjectPatch {
	req := nonEmpty
	if creating {
		req = mandatory
	}
	patch := model.ProjectPatch{
		Title:         p.text("title", req),
		Description:   p.text("description", optional),
		Content:       p.text("content", optional),
		FeaturedImage: p.str("featured_image", optional, "max=500"),
		Client:        p.str("client", optional, "max=200"),
		CategoryID:    p.nullableID("category_id"),
		Status:        p.status("status"),
		PublishedAt:   p.nullableTime("published_at"),
	}
	if patch.Content != nil {
		sanitized := patch.Content.Map(richText.Sanitize)
		patch.Content = &sanitized
	}
	if creating {
		slug := p.slugOrDerived(patch.Title)
		patch.Slug = &slug
	} else {
		patch.Slug = p.str("slug", nonEmpty, "slug")
	}
	return patch
}

// checkProjectRefs verifies the slug is free and the category exists.
func (h *Handler) checkProjectRefs(ctx context.Context, p *payload, patch model.ProjectPatch, id int64) error {
	if patch.Slug != nil {
		if err := h.checkSlug(ctx, p, store.TableProjects, *patch.Slug, id); err != nil {
			return err
		}
	}
	if patch.CategoryID != nil && patch.CategoryID.Valid {
		_, err := h.queries.GetCategoryByID(ctx, patch.CategoryID.Int64)
		if errors.Is(err, store.ErrNotFound) {
			p.errs.Add("category_id", "category not found")
		} else if err != nil {
			return err
		}
	}
	return nil
}

// CreateProject handles POST /api/projects.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	p, err := decodePayload(w, r)
	if err == nil {
		var proj model.Project
		if proj, err = h.createProject(r.Context(), p); err == nil {
			WriteCreated(w, proj)
			return
		}
	}
	writeError(w, r, entityProject, err)
}

// UpdateProject handles PUT /api/projects/{id}.
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, entityProject, err)
		return
	}
	p, err := decodePayload(w, r)
	if err == nil {
		var proj model.Project
		if proj, err = h.updateProject(r.Context(), id, p); err == nil {
			WriteSuccess(w, proj)
			return
		}
	}
	writeError(w, r, entityProject, err)
}

func (h *Handler) createProject(ctx context.Context, p *payload) (model.Project, error) {
	patch := parseProjectPatch(p, true)
	if err := h.checkProjectRefs(ctx, p, patch, 0); err != nil {
		return model.Project{}, err
	}
	if err := p.errs.Err(); err != nil {
		return model.Project{}, err
	}

	in := model.ProjectInput{
		Title:         *patch.Title,
		Description:   deref(patch.Description),
		Content:       deref(patch.Content),
		Slug:          *patch.Slug,
		FeaturedImage: deref(patch.FeaturedImage),
		Client:        deref(patch.Client),
		Status:        model.StatusDraft,
	}
	if patch.Status != nil {
		in.Status = *patch.Status
	}
	if patch.CategoryID != nil && patch.CategoryID.Valid {
		in.CategoryID = &patch.CategoryID.Int64
	}
	in.PublishedAt = timePtr(patch.PublishedAt)

	proj, err := h.queries.CreateProject(ctx, in)
	if err != nil {
		return model.Project{}, err
	}
	h.invalidate(ctx, service.EntityProjects)
	return proj, nil
}

func (h *Handler) updateProject(ctx context.Context, id int64, p *payload) (model.Project, error) {
	patch := parseProjectPatch(p, false)
	if err := h.checkProjectRefs(ctx, p, patch, id); err != nil {
		return model.Project{}, err
	}
	if err := p.errs.Err(); err != nil {
		return model.Project{}, err
	}

	proj, err := h.queries.UpdateProject(ctx, id, patch)
	if err != nil {
		return model.Project{}, err
	}
	h.invalidate(ctx, service.EntityProjects)
	return proj, nil
}

// DeleteProject handles DELETE /api/projects/{id}.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	proj, ok := fetchByID(w, r, entityProject, h.queries.DeleteProject)
	if !ok {
		return
	}
	h.invalidate(r.Context(), service.EntityProjects)
	WriteSuccess(w, proj)
}

// PublishProject handles POST /api/projects/{id}/publish.
func (h *Handler) PublishProject(w http.ResponseWriter, r *http.Request) {
	h.setProjectPublished(w, r, h.queries.PublishProject)
}

// UnpublishProject handles DELETE /api/projects/{id}/publish.
func (h *Handler) UnpublishProject(w http.ResponseWriter, r *http.Request) {
	h.setProjectPublished(w, r, h.queries.UnpublishProject)
}

func (h *Handler) setProjectPublished(w http.ResponseWriter, r *http.Request, fn func(context.Context, int64) (model.Project, error)) {
	proj, ok := fetchByID(w, r, entityProject, fn)
	if !ok {
		return
	}
	h.invalidate(r.Context(), service.EntityProjects)
	WriteSuccess(w, proj)
}

// timePtr converts a parsed nullable timestamp into an input value.
func timePtr(nt *sql.NullTime) *time.Time {
	if nt == nil || !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
