// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/agency-go/internal/store"
)

// Response is the standard API response wrapper.
type Response struct {
	Data any   `json:"data"`
	Meta *Meta `json:"meta,omitempty"`
}

// Meta carries list metadata.
type Meta struct {
	Total int `json:"total"`
}

// ErrorResponse is the standard API error body.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Warn("writing json response failed", "error", err)
	}
}

// WriteSuccess writes {"data": data} with 200.
func WriteSuccess(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusOK, Response{Data: data})
}

// WriteCreated writes {"data": data} with 201.
func WriteCreated(w http.ResponseWriter, data any) {
	WriteJSON(w, http.StatusCreated, Response{Data: data})
}

// WriteList writes {"data": items, "meta": {"total": n}}. A nil slice is
// written as [].
func WriteList[T any](w http.ResponseWriter, items []T) {
	if items == nil {
		items = []T{}
	}
	WriteJSON(w, http.StatusOK, Response{Data: items, Meta: &Meta{Total: len(items)}})
}

// WriteError writes an error body.
func WriteError(w http.ResponseWriter, statusCode int, message string, details map[string]string) {
	WriteJSON(w, statusCode, ErrorResponse{Error: message, Details: details})
}

// describeError maps err to a status and body. Anything not recognised is
// a 500 with a generic message, reported as internal so the caller logs it.
func describeError(entity string, err error) (status int, body ErrorResponse, internal bool) {
	var (
		verr  *ValidationError
		inUse *store.CategoryInUseError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, ErrorResponse{Error: verr.Message, Details: verr.Fields}, false
	case errors.As(err, &inUse):
		return http.StatusBadRequest, ErrorResponse{
			Error:   "category is in use",
			Details: map[string]string{"projects": inUse.Error()},
		}, false
	case errors.Is(err, store.ErrNotFound), errors.Is(err, errNotVisible):
		return http.StatusNotFound, ErrorResponse{Error: entity + " not found"}, false
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusBadRequest, ErrorResponse{
			Error:   "validation failed",
			Details: map[string]string{"slug": "slug is already in use"},
		}, false
	default:
		return http.StatusInternalServerError, ErrorResponse{Error: "internal server error"}, true
	}
}

// writeError maps err to a status at the route boundary. The detail of an
// internal error is only logged.
func writeError(w http.ResponseWriter, r *http.Request, entity string, err error) {
	status, body, internal := describeError(entity, err)
	if internal {
		slog.Error("api request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", chimw.GetReqID(r.Context()),
			"error", err,
		)
	}
	WriteJSON(w, status, body)
}
