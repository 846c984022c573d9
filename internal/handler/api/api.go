// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package api provides the JSON API used by the admin panel and public
// clients.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"

	"github.com/olegiv/agency-go/internal/mail"
	"github.com/olegiv/agency-go/internal/middleware"
	"github.com/olegiv/agency-go/internal/service"
	"github.com/olegiv/agency-go/internal/store"
)

// Deps holds the collaborators of the API handlers.
type Deps struct {
	Queries  *store.Queries
	Sessions *scs.SessionManager
	Content  *service.ContentService
	Login    *service.LoginService
	Contact  *service.ContactService
	Media    *service.MediaService
	// TestMailer sends the admin test email; TestMailTo is its default recipient.
	TestMailer mail.Sender
	TestMailTo string
}

// Handler holds shared dependencies for all API handlers.
type Handler struct {
	queries    *store.Queries
	sessions   *scs.SessionManager
	content    *service.ContentService
	login      *service.LoginService
	contact    *service.ContactService
	media      *service.MediaService
	testMailer mail.Sender
	testMailTo string
}

// NewHandler creates a new API handler.
func NewHandler(d Deps) *Handler {
	return &Handler{
		queries:    d.Queries,
		sessions:   d.Sessions,
		content:    d.Content,
		login:      d.Login,
		contact:    d.Contact,
		media:      d.Media,
		testMailer: d.TestMailer,
		testMailTo: d.TestMailTo,
	}
}

// isAdmin reports whether the caller carries admin claims. Claims are placed
// in the context by middleware.OptionalClaims or middleware.RequireAdminAPI.
func isAdmin(r *http.Request) bool {
	return middleware.GetClaims(r) != nil
}

// parseID reads the {id} URL parameter.
func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, newValidationError("id", "id must be a positive integer")
	}
	return id, nil
}

// invalidate drops cached public data for entity after a successful mutation.
func (h *Handler) invalidate(ctx context.Context, entity string) {
	if h.content != nil {
		h.content.Invalidate(ctx, entity)
	}
}

// fetchByID runs fetch with the {id} URL parameter and writes any error.
func fetchByID[T any](w http.ResponseWriter, r *http.Request, entity string, fetch func(context.Context, int64) (T, error)) (T, bool) {
	var zero T
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, entity, err)
		return zero, false
	}
	v, err := fetch(r.Context(), id)
	if err != nil {
		writeError(w, r, entity, err)
		return zero, false
	}
	return v, true
}

// respond writes v as a 200 envelope, or the mapped error.
func respond[T any](w http.ResponseWriter, r *http.Request, entity string, v T, err error) {
	if err != nil {
		writeError(w, r, entity, err)
		return
	}
	WriteSuccess(w, v)
}

var errNotVisible = errors.New("not visible to caller")
