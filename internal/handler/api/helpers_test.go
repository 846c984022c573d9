// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/agency-go/internal/cache"
	"github.com/olegiv/agency-go/internal/mail"
	"github.com/olegiv/agency-go/internal/model"
	"github.com/olegiv/agency-go/internal/service"
	"github.com/olegiv/agency-go/internal/session"
	"github.com/olegiv/agency-go/internal/store"
	"github.com/olegiv/agency-go/internal/testutil"
)

const adminPassword = "correct horse battery"

type recordingSender struct {
	sent []mail.Message
	err  error
}

func (s *recordingSender) Send(_ context.Context, msg mail.Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

// testEnv is a fully wired API backed by an in-memory database.
type testEnv struct {
	q       *store.Queries
	sm      *scs.SessionManager
	handler http.Handler
	mailer  *recordingSender
	admin   model.User
	// adminCookie and editorCookie are valid sessions for each role.
	adminCookie  *http.Cookie
	editorCookie *http.Cookie
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	q := store.New(testutil.MemoryDB(t))
	sm := session.New(nil, "mysql", true)
	mem := cache.NewMemoryCache(time.Minute, time.Minute)
	t.Cleanup(func() { _ = mem.Close() })

	mailer := &recordingSender{}
	h := NewHandler(Deps{
		Queries:    q,
		Sessions:   sm,
		Content:    service.NewContentService(q, mem),
		Login:      service.NewLoginService(q, nil),
		Contact:    service.NewContactService(mailer, "office@example.com"),
		Media:      service.NewMediaService(t.TempDir()),
		TestMailer: mailer,
		TestMailTo: "admin@example.com",
	})

	admin := testutil.CreateAdmin(t, q, "admin@example.com", adminPassword)
	editor := testutil.CreateEditor(t, q, "editor@example.com", adminPassword)

	return &testEnv{
		q:            q,
		sm:           sm,
		handler:      sm.LoadAndSave(h.Routes(Limits{})),
		mailer:       mailer,
		admin:        admin,
		adminCookie:  testutil.LoginCookie(t, sm, admin),
		editorCookie: testutil.LoginCookie(t, sm, editor),
	}
}

func (e *testEnv) do(t *testing.T, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// envelope is a decoded success response.
type envelope[T any] struct {
	Data T     `json:"data"`
	Meta *Meta `json:"meta"`
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()
	var env envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), "body: %s", rec.Body.String())
	return env
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var er ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &er), "body: %s", rec.Body.String())
	return er
}

const serviceBody = `{
	"title": {"en": "Web Design", "ar": "تصميم المواقع"},
	"short_description": {"en": "Fast sites", "ar": "مواقع سريعة"},
	"icon": "Globe"
}`
