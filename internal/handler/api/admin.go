// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"net/http"

	"github.com/olegiv/agency-go/internal/mail"
)

// TestEmailRequest is the optional body of POST /api/admin/test-email.
type TestEmailRequest struct {
	To string `json:"to" validate:"omitempty,email"`
}

// SendTestEmail handles POST /api/admin/test-email.
func (h *Handler) SendTestEmail(w http.ResponseWriter, r *http.Request) {
	var req TestEmailRequest
	if r.ContentLength != 0 {
		if err := decodeStruct(w, r, &req); err != nil {
			writeError(w, r, "email", err)
			return
		}
	}
	to := req.To
	if to == "" {
		to = h.testMailTo
	}
	if to == "" {
		writeError(w, r, "email", newValidationError("to", "to is required"))
		return
	}
	if h.testMailer == nil {
		WriteError(w, http.StatusBadRequest, mail.ErrNotConfigured.Error(), nil)
		return
	}

	err := h.testMailer.Send(r.Context(), mail.TestMessage(to))
	switch {
	case errors.Is(err, mail.ErrNotConfigured):
		WriteError(w, http.StatusBadRequest, err.Error(), nil)
	case err != nil:
		writeError(w, r, "email", err)
	default:
		WriteSuccess(w, map[string]string{"sent_to": to})
	}
}

// CacheStats handles GET /api/admin/cache.
func (h *Handler) CacheStats(w http.ResponseWriter, r *http.Request) {
	if h.content == nil {
		WriteSuccess(w, nil)
		return
	}
	WriteSuccess(w, h.content.Stats())
}

// ClearCache handles DELETE /api/admin/cache.
func (h *Handler) ClearCache(w http.ResponseWriter, r *http.Request) {
	if h.content != nil {
		if err := h.content.Clear(r.Context()); err != nil {
			writeError(w, r, "cache", err)
			return
		}
	}
	WriteSuccess(w, map[string]bool{"cleared": true})
}
