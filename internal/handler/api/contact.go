// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/agency-go/internal/model"
)

// SubmitContact handles POST /api/contact.
func (h *Handler) SubmitContact(w http.ResponseWriter, r *http.Request) {
	var msg model.ContactMessage
	if err := decodeStruct(w, r, &msg); err != nil {
		writeError(w, r, "message", err)
		return
	}

	ref, err := h.contact.Submit(r.Context(), msg, r.UserAgent())
	if err != nil {
		slog.Error("contact relay failed",
			"request_id", chimw.GetReqID(r.Context()),
			"error", err,
		)
		WriteError(w, http.StatusInternalServerError, "message could not be sent", nil)
		return
	}
	WriteJSON(w, http.StatusAccepted, Response{Data: map[string]string{"reference": ref}})
}
