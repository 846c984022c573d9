// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/agency-go/internal/cache"
	"github.com/olegiv/agency-go/internal/handler/api"
	"github.com/olegiv/agency-go/internal/i18n"
	"github.com/olegiv/agency-go/internal/locale"
	"github.com/olegiv/agency-go/internal/mail"
	"github.com/olegiv/agency-go/internal/middleware"
	"github.com/olegiv/agency-go/internal/model"
	"github.com/olegiv/agency-go/internal/render"
	"github.com/olegiv/agency-go/internal/service"
	"github.com/olegiv/agency-go/internal/session"
	"github.com/olegiv/agency-go/internal/store"
	"github.com/olegiv/agency-go/internal/testutil"
	"github.com/olegiv/agency-go/web"
)

const testPassword = "correct horse battery"

func TestMain(m *testing.M) {
	if err := i18n.Init(); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

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

// testEnv wires the page handlers to an in-memory database behind a
// router shaped like the production one.
type testEnv struct {
	q        *store.Queries
	sm       *scs.SessionManager
	frontend *FrontendHandler
	mailer   *recordingSender
	router   http.Handler
	admin    model.User
	editor   model.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	q := store.New(testutil.MemoryDB(t))
	sm := session.New(nil, "mysql", true)
	mem := cache.NewMemoryCache(time.Minute, time.Minute)
	t.Cleanup(func() { _ = mem.Close() })
	locales := locale.NewSet([]string{"en", "ar"}, "en")

	templatesFS, err := fs.Sub(web.Templates, "templates")
	require.NoError(t, err)
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sm,
		Locales:        locales,
		IsDev:          true,
	})
	require.NoError(t, err)

	content := service.NewContentService(q, mem)
	mailer := &recordingSender{}
	frontend := NewFrontendHandler(FrontendDeps{
		Queries:  q,
		Content:  content,
		Contact:  service.NewContactService(mailer, "office@example.com"),
		Renderer: renderer,
		Locales:  locales,
		Logger:   testutil.TestLogger(),
		SiteURL:  "https://agency.example",
		IsDev:    false,
	})
	login := service.NewLoginService(q, nil)
	apiHandler := api.NewHandler(api.Deps{Queries: q, Sessions: sm, Content: content, Login: login})
	admin := NewAdminHandler(AdminDeps{
		Queries:  q,
		Sessions: sm,
		Login:    login,
		Content:  content,
		API:      apiHandler,
		Media:    service.NewMediaService(t.TempDir()),
		Renderer: renderer,
		Logger:   testutil.TestLogger(),
	})

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave)
	r.Use(middleware.LocaleRedirect(locales))
	r.Get("/robots.txt", frontend.Robots)
	r.Get("/sitemap.xml", frontend.Sitemap)
	r.Route(middleware.AdminDashboardPath, func(r chi.Router) {
		r.Use(middleware.AdminGate(sm))
		r.Get("/", admin.Dashboard)
		r.Get("/login", admin.LoginForm)
		r.Post("/login", admin.Login)
		r.Post("/logout", admin.Logout)
		admin.ContentRoutes(r)
	})
	r.Route("/{locale}", func(r chi.Router) {
		r.Get("/", frontend.Home)
		r.Get(RouteServices, frontend.Services)
		r.Get(RouteServices+RouteParamSlug, frontend.Service)
		r.Get(RouteProjects, frontend.Projects)
		r.Get(RouteProjects+RouteParamSlug, frontend.Project)
		r.Get(RouteBlog, frontend.Blog)
		r.Get(RouteBlog+RouteParamSlug, frontend.Post)
		r.Get(RouteTeam, frontend.Team)
		r.Get(RouteContact, frontend.Contact)
		r.Post(RouteContact, frontend.SubmitContact)
	})
	r.NotFound(frontend.NotFound)

	return &testEnv{
		q:        q,
		sm:       sm,
		frontend: frontend,
		mailer:   mailer,
		router:   r,
		admin:    testutil.CreateAdmin(t, q, "admin@example.com", testPassword),
		editor:   testutil.CreateEditor(t, q, "editor@example.com", testPassword),
	}
}

func (e *testEnv) get(t *testing.T, path string, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func (e *testEnv) postForm(t *testing.T, path string, form url.Values, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// sessionCookie returns the session cookie set on rec, or nil.
func (e *testEnv) sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == e.sm.Cookie.Name {
			return c
		}
	}
	return nil
}

func body(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	b, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	return string(b)
}

func text(en, ar string) locale.Text {
	return locale.Text{"en": en, "ar": ar}
}

func (e *testEnv) seedService(t *testing.T, slug string) model.Service {
	t.Helper()
	s, err := e.q.CreateService(context.Background(), model.ServiceInput{
		Title:            text("Web Design", "تصميم المواقع"),
		Slug:             slug,
		ShortDescription: text("Fast sites", "مواقع سريعة"),
		Icon:             "Globe",
	})
	require.NoError(t, err)
	return s
}

func (e *testEnv) seedProject(t *testing.T, slug string, status model.Status, categoryID *int64) model.Project {
	t.Helper()
	p, err := e.q.CreateProject(context.Background(), model.ProjectInput{
		Title:       text("Project "+slug, "مشروع "+slug),
		Description: text("About "+slug, "حول "+slug),
		Content:     text("<p>Body</p>", "<p>محتوى</p>"),
		Slug:        slug,
		CategoryID:  categoryID,
		Status:      status,
	})
	require.NoError(t, err)
	return p
}

func (e *testEnv) seedPost(t *testing.T, slug string, status model.Status, content string) model.BlogPost {
	t.Helper()
	p, err := e.q.CreateBlogPost(context.Background(), model.BlogPostInput{
		Title:    text("Post "+slug, "مقال "+slug),
		Excerpt:  text("Excerpt", "مقتطف"),
		Content:  text(content, content),
		Slug:     slug,
		AuthorID: e.admin.ID,
		Status:   status,
	})
	require.NoError(t, err)
	return p
}
