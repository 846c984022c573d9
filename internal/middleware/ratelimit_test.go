// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPRateLimiter_Middleware(t *testing.T) {
	l := NewIPRateLimiter(0.001, 2)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	send := func(method, path, remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusAccepted, send(http.MethodPost, "/api/contact", "10.0.0.1:1000").Code)
	assert.Equal(t, http.StatusAccepted, send(http.MethodPost, "/api/contact", "10.0.0.1:1001").Code)

	rec := send(http.MethodPost, "/api/contact", "10.0.0.1:1002")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"too many requests"}`, rec.Body.String())

	// GETs are not counted and other clients have their own budget.
	assert.Equal(t, http.StatusAccepted, send(http.MethodGet, "/api/contact", "10.0.0.1:1003").Code)
	assert.Equal(t, http.StatusAccepted, send(http.MethodPost, "/api/contact", "10.0.0.2:1000").Code)

	rec = send(http.MethodPost, "/admin/login", "10.0.0.1:1004")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
}

func TestLimiterCache_ClearIfExceeds(t *testing.T) {
	lc := newLimiterCache[string](1, 1)
	lc.get("a")
	lc.get("b")

	assert.False(t, lc.clearIfExceeds(2))
	lc.get("c")
	assert.True(t, lc.clearIfExceeds(2))
	assert.Empty(t, lc.limiters)
}

func TestLoginProtection_Lockout(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{
		MaxFailedAttempts: 3,
		LockoutDuration:   time.Minute,
		AttemptWindow:     10 * time.Minute,
	})
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	lp.now = func() time.Time { return now }

	const email = "admin@example.com"
	assert.Equal(t, 3, lp.RemainingAttempts(email))

	locked, _ := lp.RecordFailedAttempt(email)
	assert.False(t, locked)
	locked, _ = lp.RecordFailedAttempt(email)
	assert.False(t, locked)
	assert.Equal(t, 1, lp.RemainingAttempts(email))

	locked, d := lp.RecordFailedAttempt(email)
	require.True(t, locked)
	assert.Equal(t, time.Minute, d)

	isLocked, remaining := lp.IsAccountLocked(email)
	assert.True(t, isLocked)
	assert.Equal(t, time.Minute, remaining)

	now = now.Add(2 * time.Minute)
	isLocked, _ = lp.IsAccountLocked(email)
	assert.False(t, isLocked)

	// The second lockout doubles.
	lp.RecordFailedAttempt(email)
	lp.RecordFailedAttempt(email)
	locked, d = lp.RecordFailedAttempt(email)
	require.True(t, locked)
	assert.Equal(t, 2*time.Minute, d)

	lp.RecordSuccessfulLogin(email)
	isLocked, _ = lp.IsAccountLocked(email)
	assert.False(t, isLocked)
	assert.Equal(t, 3, lp.RemainingAttempts(email))
}

func TestLoginProtection_WindowReset(t *testing.T) {
	lp := NewLoginProtection(LoginProtectionConfig{MaxFailedAttempts: 2, AttemptWindow: time.Minute})
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	lp.now = func() time.Time { return now }

	lp.RecordFailedAttempt("a@example.com")
	now = now.Add(2 * time.Minute)

	locked, _ := lp.RecordFailedAttempt("a@example.com")
	assert.False(t, locked, "attempt outside the window starts a new count")
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:5555"
	assert.Equal(t, "192.0.2.10", ClientIP(req))

	req.RemoteAddr = "192.0.2.11"
	assert.Equal(t, "192.0.2.11", ClientIP(req))
}
