// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/olegiv/agency-go/internal/model"
	"github.com/olegiv/agency-go/internal/service"
	"github.com/olegiv/agency-go/internal/session"
)

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse describes the signed-in caller.
type SessionResponse struct {
	UserID int64      `json:"user_id"`
	Role   model.Role `json:"role"`
	Email  string     `json:"email,omitempty"`
	Name   string     `json:"name,omitempty"`
	Admin  bool       `json:"admin"`
}

func sessionResponse(u model.User) SessionResponse {
	return SessionResponse{
		UserID: u.ID,
		Role:   u.Role,
		Email:  u.Email,
		Name:   u.Name,
		Admin:  u.Role.CanManageContent(),
	}
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeStruct(w, r, &req); err != nil {
		writeError(w, r, "user", err)
		return
	}

	u, err := h.login.Authenticate(r.Context(), req.Email, req.Password)
	var locked *service.AccountLockedError
	switch {
	case errors.As(err, &locked):
		w.Header().Set("Retry-After", strconv.Itoa(int(locked.RetryAfter.Seconds())+1))
		WriteError(w, http.StatusTooManyRequests, locked.Error(), nil)
		return
	case errors.Is(err, service.ErrInvalidCredentials):
		WriteError(w, http.StatusUnauthorized, "invalid email or password", nil)
		return
	case err != nil:
		writeError(w, r, "user", err)
		return
	}

	if err := session.Login(r.Context(), h.sessions, u); err != nil {
		writeError(w, r, "user", err)
		return
	}
	slog.Info("user logged in via api", "user_id", u.ID)
	WriteSuccess(w, sessionResponse(u))
}

// Logout handles POST /api/auth/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := session.Logout(r.Context(), h.sessions); err != nil {
		writeError(w, r, "user", err)
		return
	}
	WriteSuccess(w, map[string]bool{"logged_out": true})
}

// Session handles GET /api/auth/session.
func (h *Handler) Session(w http.ResponseWriter, r *http.Request) {
	claims := session.ClaimsFrom(r.Context(), h.sessions)
	if claims == nil {
		WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	u, err := h.queries.GetUserByID(r.Context(), claims.UserID)
	if err != nil {
		// The account was removed after the session was issued.
		WriteError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	WriteSuccess(w, sessionResponse(u))
}
