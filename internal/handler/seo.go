// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"time"

	"github.com/olegiv/agency-go/internal/seo"
)

// Robots serves robots.txt. Development sites are closed to crawlers.
func (h *FrontendHandler) Robots(w http.ResponseWriter, r *http.Request) {
	content := seo.NewRobotsBuilder(seo.RobotsConfig{
		SiteURL:     h.siteBaseURL(r),
		DisallowAll: h.isDev,
	}).Build()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write([]byte(content))
}

// Sitemap serves sitemap.xml listing every public page in every locale.
// Drafts are never listed.
func (h *FrontendHandler) Sitemap(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	b := seo.NewSitemapBuilder(h.siteBaseURL(r), h.locales.Codes())

	b.AddHomepage()
	for _, p := range []string{RouteServices, RouteProjects, RouteBlog, RouteTeam, RouteContact} {
		b.Add(seo.Entry{Path: p, ChangeFreq: seo.ChangeFreqWeekly, Priority: "0.7"})
	}

	for _, s := range list(ctx, h.logger, "services", h.content.Services) {
		b.Add(seo.Entry{Path: RouteServices + "/" + s.Slug, UpdatedAt: s.UpdatedAt,
			ChangeFreq: seo.ChangeFreqMonthly, Priority: "0.8"})
	}
	for _, p := range list(ctx, h.logger, "projects", h.content.PublishedProjects) {
		b.Add(seo.Entry{Path: RouteProjects + "/" + p.Slug, UpdatedAt: lastModified(p.UpdatedAt, p.PublishedAt),
			ChangeFreq: seo.ChangeFreqMonthly, Priority: "0.6"})
	}
	for _, p := range list(ctx, h.logger, "blog posts", h.content.PublishedPosts) {
		b.Add(seo.Entry{Path: RouteBlog + "/" + p.Slug, UpdatedAt: lastModified(p.UpdatedAt, p.PublishedAt),
			ChangeFreq: seo.ChangeFreqWeekly, Priority: "0.6"})
	}

	out, err := b.Build()
	if err != nil {
		h.logger.Error("building sitemap failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(out)
}

// siteBaseURL returns the configured site URL or one derived from r.
func (h *FrontendHandler) siteBaseURL(r *http.Request) string {
	if h.siteURL != "" {
		return h.siteURL
	}
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func lastModified(updated time.Time, published *time.Time) time.Time {
	if published != nil && published.After(updated) {
		return *published
	}
	return updated
}
