// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package seo builds robots.txt and the locale-aware sitemap.
package seo

import (
	"encoding/xml"
	"strings"
	"time"
)

// XML namespaces used by the sitemap document.
const (
	XMLNamespace      = "http://www.sitemaps.org/schemas/sitemap/0.9"
	XHTMLXMLNamespace = "http://www.w3.org/1999/xhtml"
)

// ChangeFreq represents the change frequency of a URL.
type ChangeFreq string

// Valid change frequency values.
const (
	ChangeFreqDaily   ChangeFreq = "daily"
	ChangeFreqWeekly  ChangeFreq = "weekly"
	ChangeFreqMonthly ChangeFreq = "monthly"
)

// Alternate is an hreflang link to the same page in another locale.
type Alternate struct {
	Rel      string `xml:"rel,attr"`
	HrefLang string `xml:"hreflang,attr"`
	Href     string `xml:"href,attr"`
}

// SitemapURL represents a single URL entry in the sitemap.
type SitemapURL struct {
	Loc        string      `xml:"loc"`
	LastMod    string      `xml:"lastmod,omitempty"`
	ChangeFreq ChangeFreq  `xml:"changefreq,omitempty"`
	Priority   string      `xml:"priority,omitempty"`
	Alternates []Alternate `xml:"xhtml:link"`
}

// Sitemap represents the complete sitemap document.
type Sitemap struct {
	XMLName    xml.Name     `xml:"urlset"`
	XMLNS      string       `xml:"xmlns,attr"`
	XHTMLXMLNS string       `xml:"xmlns:xhtml,attr"`
	URLs       []SitemapURL `xml:"url"`
}

// Entry is a locale-independent page path such as "/blog/launch".
type Entry struct {
	Path       string
	UpdatedAt  time.Time
	ChangeFreq ChangeFreq
	Priority   string
}

// SitemapBuilder builds sitemap XML. Every entry is emitted once per locale
// with hreflang alternates pointing at its siblings.
type SitemapBuilder struct {
	siteURL string
	locales []string
	urls    []SitemapURL
}

// NewSitemapBuilder creates a new sitemap builder.
func NewSitemapBuilder(siteURL string, locales []string) *SitemapBuilder {
	return &SitemapBuilder{
		siteURL: strings.TrimSuffix(siteURL, "/"),
		locales: locales,
		urls:    make([]SitemapURL, 0),
	}
}

// AddHomepage adds the locale home pages.
func (b *SitemapBuilder) AddHomepage() {
	b.Add(Entry{Path: "", ChangeFreq: ChangeFreqDaily, Priority: "1.0"})
}

// Add adds one entry in every locale.
func (b *SitemapBuilder) Add(e Entry) {
	path := e.Path
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	alternates := make([]Alternate, 0, len(b.locales))
	for _, code := range b.locales {
		alternates = append(alternates, Alternate{
			Rel:      "alternate",
			HrefLang: code,
			Href:     b.siteURL + "/" + code + path,
		})
	}

	for _, alt := range alternates {
		url := SitemapURL{
			Loc:        alt.Href,
			ChangeFreq: e.ChangeFreq,
			Priority:   e.Priority,
			Alternates: alternates,
		}
		if !e.UpdatedAt.IsZero() {
			url.LastMod = e.UpdatedAt.UTC().Format(time.RFC3339)
		}
		b.urls = append(b.urls, url)
	}
}

// Len returns the number of URLs added so far.
func (b *SitemapBuilder) Len() int {
	return len(b.urls)
}

// Build generates the sitemap XML.
func (b *SitemapBuilder) Build() ([]byte, error) {
	sitemap := Sitemap{
		XMLNS:      XMLNamespace,
		XHTMLXMLNS: XHTMLXMLNamespace,
		URLs:       b.urls,
	}

	output := []byte(xml.Header)
	xmlBytes, err := xml.MarshalIndent(sitemap, "", "  ")
	if err != nil {
		return nil, err
	}

	return append(output, xmlBytes...), nil
}
