// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/olegiv/agency-go/internal/auth"
	"github.com/olegiv/agency-go/internal/middleware"
	"github.com/olegiv/agency-go/internal/model"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestContextHandler_AddsRequestAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info")

	ctx := context.WithValue(context.Background(), chimw.RequestIDKey, "req-42")
	ctx = middleware.WithLocale(ctx, "ar")
	ctx = context.WithValue(ctx, middleware.ContextKeyClaims, &auth.Claims{UserID: 7, Role: model.RoleAdmin})

	logger.InfoContext(ctx, "hello")

	out := buf.String()
	for _, want := range []string{"msg=hello", "request_id=req-42", "locale=ar", "user_id=7"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q missing %q", out, want)
		}
	}
}

func TestContextHandler_KeepsExplicitAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info")

	ctx := context.WithValue(context.Background(), chimw.RequestIDKey, "from-ctx")
	logger.InfoContext(ctx, "hello", "request_id", "explicit")

	out := buf.String()
	if strings.Contains(out, "from-ctx") {
		t.Errorf("context request id duplicated an explicit attribute: %q", out)
	}
	if !strings.Contains(out, "request_id=explicit") {
		t.Errorf("log output %q missing explicit request id", out)
	}
}

func TestContextHandler_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "warn")

	logger.Info("quiet")
	logger.Warn("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Error("info record written at warn level")
	}
	if !strings.Contains(out, "loud") {
		t.Error("warn record missing")
	}
}

func TestContextHandler_WithAttrsAndGroup(t *testing.T) {
	var buf bytes.Buffer
	logger := New(&buf, "info").With("component", "store").WithGroup("db")

	logger.Info("query", "rows", 3)

	out := buf.String()
	if !strings.Contains(out, "component=store") || !strings.Contains(out, "db.rows=3") {
		t.Errorf("log output %q missing attrs", out)
	}
}
