// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/agency-go/internal/model"
	"github.com/olegiv/agency-go/internal/service"
	"github.com/olegiv/agency-go/internal/store"
)

const entityCategory = "category"

// ListCategories handles GET /api/categories.
func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	var (
		items []model.Category
		err   error
	)
	if isAdmin(r) || h.content == nil {
		items, err = h.queries.ListCategories(r.Context())
	} else {
		items, err = h.content.Categories(r.Context())
	}
	if err != nil {
		writeError(w, r, entityCategory, err)
		return
	}
	WriteList(w, items)
}

// GetCategory handles GET /api/categories/{id}.
func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	if c, ok := fetchByID(w, r, entityCategory, h.queries.GetCategoryByID); ok {
		WriteSuccess(w, c)
	}
}

// GetCategoryBySlug handles GET /api/categories/slug/{slug}.
func (h *Handler) GetCategoryBySlug(w http.ResponseWriter, r *http.Request) {
	c, err := h.queries.GetCategoryBySlug(r.Context(), chi.URLParam(r, "slug"))
	respond(w, r, entityCategory, c, err)
}

func parseCategoryPatch(p *payload, creating bool) model.CategoryPatch {
	req := nonEmpty
	if creating {
		req = mandatory
	}
	patch := model.CategoryPatch{
		Name:        p.text("name", req),
		Description: p.text("description", optional),
	}
	if creating {
		slug := p.slugOrDerived(patch.Name)
		patch.Slug = &slug
	} else {
		patch.Slug = p.str("slug", nonEmpty, "slug")
	}
	return patch
}

// CreateCategory handles POST /api/categories.
func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	p, err := decodePayload(w, r)
	if err == nil {
		var c model.Category
		if c, err = h.createCategory(r.Context(), p); err == nil {
			WriteCreated(w, c)
			return
		}
	}
	writeError(w, r, entityCategory, err)
}

// UpdateCategory handles PUT /api/categories/{id}.
func (h *Handler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, entityCategory, err)
		return
	}
	p, err := decodePayload(w, r)
	if err == nil {
		var c model.Category
		if c, err = h.updateCategory(r.Context(), id, p); err == nil {
			WriteSuccess(w, c)
			return
		}
	}
	writeError(w, r, entityCategory, err)
}

func (h *Handler) createCategory(ctx context.Context, p *payload) (model.Category, error) {
	patch := parseCategoryPatch(p, true)
	if err := h.checkSlug(ctx, p, store.TableCategories, *patch.Slug, 0); err != nil {
		return model.Category{}, err
	}
	if err := p.errs.Err(); err != nil {
		return model.Category{}, err
	}

	c, err := h.queries.CreateCategory(ctx, model.CategoryInput{
		Name:        *patch.Name,
		Description: deref(patch.Description),
		Slug:        *patch.Slug,
	})
	if err != nil {
		return model.Category{}, err
	}
	h.invalidate(ctx, service.EntityCategories)
	return c, nil
}

func (h *Handler) updateCategory(ctx context.Context, id int64, p *payload) (model.Category, error) {
	patch := parseCategoryPatch(p, false)
	if patch.Slug != nil {
		if err := h.checkSlug(ctx, p, store.TableCategories, *patch.Slug, id); err != nil {
			return model.Category{}, err
		}
	}
	if err := p.errs.Err(); err != nil {
		return model.Category{}, err
	}

	c, err := h.queries.UpdateCategory(ctx, id, patch)
	if err != nil {
		return model.Category{}, err
	}
	h.invalidate(ctx, service.EntityCategories)
	return c, nil
}

// DeleteCategory handles DELETE /api/categories/{id}. A category still
// referenced by projects is refused with the blocking project titles.
func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	c, ok := fetchByID(w, r, entityCategory, h.queries.DeleteCategory)
	if !ok {
		return
	}
	h.invalidate(r.Context(), service.EntityCategories)
	WriteSuccess(w, c)
}
