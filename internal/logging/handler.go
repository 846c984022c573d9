// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package logging provides a slog handler that enriches records with
// request-scoped attributes.
package logging

import (
	"context"
	"io"
	"log/slog"
	"strings"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/agency-go/internal/auth"
	"github.com/olegiv/agency-go/internal/middleware"
)

// ContextHandler is a slog.Handler that wraps another handler and adds the
// request id, locale and admin user id found in the record's context.
type ContextHandler struct {
	inner slog.Handler
}

// NewContextHandler creates a new ContextHandler that wraps the given handler.
func NewContextHandler(inner slog.Handler) *ContextHandler {
	return &ContextHandler{inner: inner}
}

// New returns a text logger writing to w at the named level.
func New(w io.Writer, level string) *slog.Logger {
	text := slog.NewTextHandler(w, &slog.HandlerOptions{Level: ParseLevel(level)})
	return slog.New(NewContextHandler(text))
}

// ParseLevel maps debug, warn and error to their slog levels. Anything else
// is info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Enabled implements slog.Handler.
func (h *ContextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *ContextHandler) Handle(ctx context.Context, r slog.Record) error {
	if ctx != nil {
		h.addContextAttrs(ctx, &r)
	}
	return h.inner.Handle(ctx, r)
}

// WithAttrs implements slog.Handler.
func (h *ContextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &ContextHandler{inner: h.inner.WithAttrs(attrs)}
}

// WithGroup implements slog.Handler.
func (h *ContextHandler) WithGroup(name string) slog.Handler {
	return &ContextHandler{inner: h.inner.WithGroup(name)}
}

// addContextAttrs appends request attributes the record does not already carry.
func (h *ContextHandler) addContextAttrs(ctx context.Context, r *slog.Record) {
	present := make(map[string]bool)
	r.Attrs(func(a slog.Attr) bool {
		present[a.Key] = true
		return true
	})

	if id := chimw.GetReqID(ctx); id != "" && !present["request_id"] {
		r.AddAttrs(slog.String("request_id", id))
	}
	if code, ok := ctx.Value(middleware.ContextKeyLocale).(string); ok && code != "" && !present["locale"] {
		r.AddAttrs(slog.String("locale", code))
	}
	if claims, ok := ctx.Value(middleware.ContextKeyClaims).(*auth.Claims); ok && claims != nil && !present["user_id"] {
		r.AddAttrs(slog.Int64("user_id", claims.UserID))
	}
}
