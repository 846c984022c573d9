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

const entityService = "service"

// checkSlug adds a slug error when another row of table already uses slug.
func (h *Handler) checkSlug(ctx context.Context, p *payload, table store.Table, slug string, excludeID int64) error {
	if slug == "" || p.errs.Has("slug") {
		return nil
	}
	exists, err := h.queries.SlugExists(ctx, table, slug, excludeID)
	if err != nil {
		return err
	}
	if exists {
		p.errs.Add("slug", "slug is already in use")
	}
	return nil
}

// ListServices handles GET /api/services.
func (h *Handler) ListServices(w http.ResponseWriter, r *http.Request) {
	var (
		items []model.Service
		err   error
	)
	if isAdmin(r) || h.content == nil {
		items, err = h.queries.ListServices(r.Context())
	} else {
		items, err = h.content.Services(r.Context())
	}
	if err != nil {
		writeError(w, r, entityService, err)
		return
	}
	WriteList(w, items)
}

// GetService handles GET /api/services/{id}.
func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	if s, ok := fetchByID(w, r, entityService, h.queries.GetServiceByID); ok {
		WriteSuccess(w, s)
	}
}

// GetServiceBySlug handles GET /api/services/slug/{slug}.
func (h *Handler) GetServiceBySlug(w http.ResponseWriter, r *http.Request) {
	s, err := h.queries.GetServiceBySlug(r.Context(), chi.URLParam(r, "slug"))
	respond(w, r, entityService, s, err)
}

func parseServicePatch(p *payload, creating bool) model.ServicePatch {
	req := nonEmpty
	if creating {
		req = mandatory
	}
	patch := model.ServicePatch{
		Title:            p.text("title", req),
		ShortDescription: p.text("short_description", req),
		Description:      p.text("description", optional),
		Icon:             p.str("icon", req, "service_icon"),
	}
	if creating {
		slug := p.slugOrDerived(patch.Title)
		patch.Slug = &slug
	} else {
		patch.Slug = p.str("slug", nonEmpty, "slug")
	}
	return patch
}

// CreateService handles POST /api/services.
func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	p, err := decodePayload(w, r)
	if err == nil {
		var s model.Service
		if s, err = h.createService(r.Context(), p); err == nil {
			WriteCreated(w, s)
			return
		}
	}
	writeError(w, r, entityService, err)
}

// UpdateService handles PUT /api/services/{id}.
func (h *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, entityService, err)
		return
	}
	p, err := decodePayload(w, r)
	if err == nil {
		var s model.Service
		if s, err = h.updateService(r.Context(), id, p); err == nil {
			WriteSuccess(w, s)
			return
		}
	}
	writeError(w, r, entityService, err)
}

func (h *Handler) createService(ctx context.Context, p *payload) (model.Service, error) {
	patch := parseServicePatch(p, true)
	if err := h.checkSlug(ctx, p, store.TableServices, *patch.Slug, 0); err != nil {
		return model.Service{}, err
	}
	if err := p.errs.Err(); err != nil {
		return model.Service{}, err
	}

	s, err := h.queries.CreateService(ctx, model.ServiceInput{
		Title:            *patch.Title,
		Slug:             *patch.Slug,
		ShortDescription: *patch.ShortDescription,
		Description:      deref(patch.Description),
		Icon:             *patch.Icon,
	})
	if err != nil {
		return model.Service{}, err
	}
	h.invalidate(ctx, service.EntityServices)
	return s, nil
}

func (h *Handler) updateService(ctx context.Context, id int64, p *payload) (model.Service, error) {
	patch := parseServicePatch(p, false)
	if patch.Slug != nil {
		if err := h.checkSlug(ctx, p, store.TableServices, *patch.Slug, id); err != nil {
			return model.Service{}, err
		}
	}
	if err := p.errs.Err(); err != nil {
		return model.Service{}, err
	}

	s, err := h.queries.UpdateService(ctx, id, patch)
	if err != nil {
		return model.Service{}, err
	}
	h.invalidate(ctx, service.EntityServices)
	return s, nil
}

// DeleteService handles DELETE /api/services/{id}.
func (h *Handler) DeleteService(w http.ResponseWriter, r *http.Request) {
	s, ok := fetchByID(w, r, entityService, h.queries.DeleteService)
	if !ok {
		return
	}
	h.invalidate(r.Context(), service.EntityServices)
	WriteSuccess(w, s)
}

// deref returns *p or the zero value.
func deref[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}
