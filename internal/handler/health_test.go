// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/agency-go/internal/session"
	"github.com/olegiv/agency-go/internal/store"
	"github.com/olegiv/agency-go/internal/testutil"
)

func TestHealth_AnonymousGetsStatusOnly(t *testing.T) {
	db := testutil.MemoryDB(t)
	sm := session.New(nil, "mysql", true)
	h := NewHealthHandler(db, sm, t.TempDir())

	rec := httptest.NewRecorder()
	sm.LoadAndSave(http.HandlerFunc(h.Health)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	var got map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Contains(t, []string{statusHealthy, statusDegraded}, got["status"])
	assert.NotContains(t, got, "checks")
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestHealth_AdminGetsChecks(t *testing.T) {
	db := testutil.MemoryDB(t)
	sm := session.New(nil, "mysql", true)
	admin := testutil.CreateAdmin(t, store.New(db), "admin@example.com", testPassword)
	cookie := testutil.LoginCookie(t, sm, admin)
	h := NewHealthHandler(db, sm, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/health?verbose=true", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	sm.LoadAndSave(http.HandlerFunc(h.Health)).ServeHTTP(rec, req)

	var got HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, statusHealthy, got.Checks["database"].Status)
	assert.Contains(t, got.Checks, "disk")
	require.NotNil(t, got.System)
	assert.NotEmpty(t, got.System.GoVersion)
	assert.NotEmpty(t, got.Version)
}

func TestHealth_DatabaseDown(t *testing.T) {
	db := testutil.MemoryDB(t)
	require.NoError(t, db.Close())
	h := NewHealthHandler(db, nil, t.TempDir())

	rec := httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unhealthy"}`, rec.Body.String())
}

func TestHealth_Liveness(t *testing.T) {
	h := NewHealthHandler(nil, nil, "")

	rec := httptest.NewRecorder()
	h.Liveness(rec, httptest.NewRequest(http.MethodGet, "/health/live", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"alive"}`, rec.Body.String())
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   uint64
		want string
	}{
		{512, "512 B"},
		{2048, "2.00 KB"},
		{5 * 1024 * 1024, "5.00 MB"},
		{3 * 1024 * 1024 * 1024, "3.00 GB"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatBytes(tt.in))
	}
}
