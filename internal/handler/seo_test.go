// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/agency-go/internal/model"
)

func TestRobots(t *testing.T) {
	e := newTestEnv(t)

	rec := e.get(t, "/robots.txt", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	txt := body(t, rec)
	assert.Contains(t, txt, "Disallow: /admin\n")
	assert.Contains(t, txt, "Sitemap: https://agency.example/sitemap.xml")
	assert.Equal(t, "text/plain; charset=utf-8", rec.Header().Get("Content-Type"))
}

func TestRobots_ClosedInDevelopment(t *testing.T) {
	e := newTestEnv(t)
	e.frontend.isDev = true

	rec := httptest.NewRecorder()
	e.frontend.Robots(rec, httptest.NewRequest(http.MethodGet, "/robots.txt", nil))
	assert.Equal(t, "User-agent: *\nDisallow: /\n", rec.Body.String())
}

func TestSitemap_ListsPublishedContent(t *testing.T) {
	e := newTestEnv(t)
	e.seedService(t, "web-design")
	e.seedProject(t, "live", model.StatusPublished, nil)
	e.seedProject(t, "draft", model.StatusDraft, nil)
	e.seedPost(t, "launch", model.StatusPublished, "hello")

	rec := e.get(t, "/sitemap.xml", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	xml := body(t, rec)

	for _, want := range []string{
		"<loc>https://agency.example/en</loc>",
		"<loc>https://agency.example/ar/services/web-design</loc>",
		"<loc>https://agency.example/en/projects/live</loc>",
		"<loc>https://agency.example/ar/blog/launch</loc>",
		`hreflang="ar"`,
	} {
		assert.Contains(t, xml, want)
	}
	assert.NotContains(t, xml, "/projects/draft")
}

func TestSiteBaseURL_FromRequest(t *testing.T) {
	h := &FrontendHandler{}

	req := httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil)
	req.Host = "agency.test"
	assert.Equal(t, "http://agency.test", h.siteBaseURL(req))

	req.Header.Set("X-Forwarded-Proto", "https")
	assert.Equal(t, "https://agency.test", h.siteBaseURL(req))
}
