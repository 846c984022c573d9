// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/agency-go/internal/middleware"
	"github.com/olegiv/agency-go/internal/model"
)

// adminCookie signs the seeded admin in through the login form.
func (e *testEnv) adminCookie(t *testing.T) *http.Cookie {
	t.Helper()
	rec := e.postForm(t, middleware.AdminLoginPath, loginForm("admin@example.com", testPassword), nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	cookie := e.sessionCookie(rec)
	require.NotNil(t, cookie)
	return cookie
}

func (e *testEnv) postMultipart(t *testing.T, path string, fields map[string]string, fileField, fileName string, file []byte, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := mw.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = fw.Write(file)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func serviceForm(titleEN, titleAR, icon string) url.Values {
	return url.Values{
		"title.en":             {titleEN},
		"title.ar":             {titleAR},
		"short_description.en": {"Fast sites"},
		"short_description.ar": {"مواقع سريعة"},
		"icon":                 {icon},
	}
}

func TestAdminContent_RequiresAdminSession(t *testing.T) {
	e := newTestEnv(t)

	rec := e.get(t, "/admin/projects", nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, middleware.AdminLoginPath, rec.Header().Get("Location"))

	rec = e.postForm(t, "/admin/services", serviceForm("Web Design", "", "Globe"), nil)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, middleware.AdminLoginPath, rec.Header().Get("Location"))

	n, err := e.q.CountServices(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAdminContent_CreateService(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.adminCookie(t)

	rec := e.get(t, "/admin/services/new", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	form := body(t, rec)
	assert.Contains(t, form, `name="title.en"`)
	assert.Contains(t, form, `name="title.ar"`)
	assert.Contains(t, form, `<option value="Globe"`)

	rec = e.postForm(t, "/admin/services", serviceForm("Web Design", "تصميم المواقع", "Globe"), cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code, body(t, rec))
	assert.Equal(t, "/admin/services", rec.Header().Get("Location"))

	services, err := e.q.ListServices(context.Background())
	require.NoError(t, err)
	require.Len(t, services, 1)
	assert.Equal(t, "web-design", services[0].Slug, "slug derived from the English title")
	assert.Equal(t, "تصميم المواقع", services[0].Title.Get("ar"))

	rec = e.get(t, "/admin/services", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	list := body(t, rec)
	assert.Contains(t, list, "Web Design")
	assert.Contains(t, list, "Saved.")
}

func TestAdminContent_RefusedSaveShowsErrorInline(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.adminCookie(t)

	rec := e.postForm(t, "/admin/services", serviceForm("", "تصميم المواقع", "Rocket"), cookie)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	html := body(t, rec)
	assert.Contains(t, html, "validation failed")
	assert.Contains(t, html, "title.en is required")
	assert.Contains(t, html, "icon must be one of")
	assert.Contains(t, html, `value="تصميم المواقع"`, "submitted values are kept")

	n, err := e.q.CountServices(context.Background())
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAdminContent_DuplicateSlugShowsError(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.adminCookie(t)
	e.seedService(t, "web-design")

	rec := e.postForm(t, "/admin/services", serviceForm("Web Design", "", "Globe"), cookie)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body(t, rec), "slug is already in use")
}

func TestAdminContent_EditService(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.adminCookie(t)
	s := e.seedService(t, "web-design")
	path := fmt.Sprintf("/admin/services/%d", s.ID)

	rec := e.get(t, path, cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	form := body(t, rec)
	assert.Contains(t, form, `value="Web Design"`)
	assert.Contains(t, form, `value="تصميم المواقع"`)
	assert.Contains(t, form, `value="web-design"`)
	assert.Contains(t, form, `action="`+path+`"`)

	values := serviceForm("Web Design", "تصميم المواقع", "Code")
	values.Set("slug", "design")
	rec = e.postForm(t, path, values, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code, body(t, rec))

	got, err := e.q.GetServiceByID(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, "design", got.Slug)
	assert.Equal(t, "Code", got.Icon)

	values.Set("slug", "")
	rec = e.postForm(t, path, values, cookie)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body(t, rec), "slug is required")
}

func TestAdminContent_DeleteCategoryInUse(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.adminCookie(t)
	ctx := context.Background()

	cat, err := e.q.CreateCategory(ctx, model.CategoryInput{Name: text("Branding", "العلامة التجارية"), Slug: "branding"})
	require.NoError(t, err)
	p := e.seedProject(t, "logo", model.StatusDraft, &cat.ID)
	path := fmt.Sprintf("/admin/categories/%d/delete", cat.ID)

	rec := e.postForm(t, path, nil, cookie)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	html := body(t, rec)
	assert.Contains(t, html, "category is in use")
	assert.Contains(t, html, "Project logo")
	_, err = e.q.GetCategoryByID(ctx, cat.ID)
	require.NoError(t, err, "a refused delete keeps the category")

	_, err = e.q.DeleteProject(ctx, p.ID)
	require.NoError(t, err)
	rec = e.postForm(t, path, nil, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/categories", rec.Header().Get("Location"))
	n, err := e.q.CountCategories(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestAdminContent_PublishProject(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.adminCookie(t)
	ctx := context.Background()
	p := e.seedProject(t, "rebrand", model.StatusDraft, nil)

	rec := e.get(t, "/admin/projects", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	list := body(t, rec)
	assert.Contains(t, list, "Project rebrand", "drafts are listed for admins")
	assert.Contains(t, list, fmt.Sprintf(`action="/admin/projects/%d/publish"`, p.ID))

	rec = e.postForm(t, fmt.Sprintf("/admin/projects/%d/publish", p.ID), nil, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	got, err := e.q.GetProjectByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusPublished, got.Status)
	require.NotNil(t, got.PublishedAt)

	rec = e.get(t, "/en/projects/rebrand", nil)
	assert.Equal(t, http.StatusOK, rec.Code, "published through the admin panel shows on the site")

	rec = e.postForm(t, fmt.Sprintf("/admin/projects/%d/unpublish", p.ID), nil, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	got, err = e.q.GetProjectByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusDraft, got.Status)
	assert.Nil(t, got.PublishedAt)

	rec = e.postForm(t, "/admin/projects/999/publish", nil, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, body(t, rec), "project not found")
}

func TestAdminContent_ProjectCategoryAndStatus(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.adminCookie(t)
	ctx := context.Background()

	cat, err := e.q.CreateCategory(ctx, model.CategoryInput{Name: text("Branding", "العلامة التجارية"), Slug: "branding"})
	require.NoError(t, err)

	rec := e.get(t, "/admin/projects/new", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, body(t, rec), fmt.Sprintf(`<option value="%d"`, cat.ID))

	rec = e.postForm(t, "/admin/projects", url.Values{
		"title.en":    {"Rebrand"},
		"category_id": {fmt.Sprint(cat.ID)},
		"status":      {"published"},
	}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code, body(t, rec))

	projects, err := e.q.ListProjects(ctx)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.NotNil(t, projects[0].CategoryID)
	assert.Equal(t, cat.ID, *projects[0].CategoryID)
	assert.Equal(t, model.StatusPublished, projects[0].Status)

	rec = e.postForm(t, fmt.Sprintf("/admin/projects/%d", projects[0].ID), url.Values{
		"title.en":    {"Rebrand"},
		"slug":        {"rebrand"},
		"category_id": {""},
		"status":      {"draft"},
	}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code, body(t, rec))
	got, err := e.q.GetProjectByID(ctx, projects[0].ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryID, "an empty category clears it")
	assert.Equal(t, model.StatusDraft, got.Status)
}

func TestAdminContent_PostAuthorIsCaller(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.adminCookie(t)

	rec := e.postForm(t, "/admin/posts", url.Values{
		"title.en":   {"Hello"},
		"content.en": {"# Hi"},
	}, cookie)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body(t, rec), "slug is required")

	rec = e.postForm(t, "/admin/posts", url.Values{
		"title.en":   {"Hello"},
		"slug":       {"hello"},
		"content.en": {"# Hi"},
		"status":     {"draft"},
	}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code, body(t, rec))

	post, err := e.q.GetBlogPostBySlug(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, e.admin.ID, post.AuthorID)
}

func TestAdminContent_TeamMemberWithImage(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.adminCookie(t)
	fields := map[string]string{
		"name":                  "Layla Haddad",
		"position.en":           "Designer",
		"position.ar":           "مصممة",
		"display_order":         "2",
		"social_links.linkedin": "https://www.linkedin.com/in/layla",
	}

	rec := e.postMultipart(t, "/admin/team", fields, "image_file", "notes.txt", []byte("plain text"), cookie)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body(t, rec), "file must be a JPEG, PNG, GIF or WebP image")

	rec = e.postMultipart(t, "/admin/team", fields, "image_file", "layla.png", pngBytes(t), cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code, body(t, rec))

	members, err := e.q.ListTeamMembers(context.Background())
	require.NoError(t, err)
	require.Len(t, members, 1)
	m := members[0]
	assert.True(t, strings.HasPrefix(m.Image, "/uploads/"), m.Image)
	assert.Equal(t, "https://www.linkedin.com/in/layla", m.SocialLinks["linkedin"])
	assert.Equal(t, 2, m.DisplayOrder)

	rec = e.get(t, fmt.Sprintf("/admin/team/%d", m.ID), cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	form := body(t, rec)
	assert.Contains(t, form, `value="https://www.linkedin.com/in/layla"`)
	assert.Contains(t, form, `value="`+m.Image+`"`)

	fields["display_order"] = "first"
	rec = e.postMultipart(t, fmt.Sprintf("/admin/team/%d", m.ID), fields, "", "", nil, cookie)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, body(t, rec), "display_order must be an integer")
}

func TestAdminContent_MissingRow(t *testing.T) {
	e := newTestEnv(t)
	cookie := e.adminCookie(t)

	for _, path := range []string{"/admin/projects/999", "/admin/projects/abc", "/admin/team/0"} {
		rec := e.get(t, path, cookie)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
		assert.Contains(t, body(t, rec), "The requested item does not exist.", path)
	}

	rec := e.postForm(t, "/admin/services/999", serviceForm("Web Design", "", "Globe"), cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = e.postForm(t, "/admin/posts/999/delete", nil, cookie)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, body(t, rec), "blog post not found")
}

func TestFlatten(t *testing.T) {
	catID := int64(7)
	values, err := flatten(model.Project{
		Title:      text("Rebrand", "إعادة العلامة"),
		Slug:       "rebrand",
		CategoryID: &catID,
		Status:     model.StatusDraft,
	})
	require.NoError(t, err)
	assert.Equal(t, "Rebrand", values["title.en"])
	assert.Equal(t, "إعادة العلامة", values["title.ar"])
	assert.Equal(t, "rebrand", values["slug"])
	assert.Equal(t, "7", values["category_id"])
	assert.Equal(t, "draft", values["status"])
}
