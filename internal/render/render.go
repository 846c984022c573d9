// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package render parses the embedded HTML templates and renders pages in the
// request's locale.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/olegiv/agency-go/internal/i18n"
	"github.com/olegiv/agency-go/internal/locale"
)

// Flash types.
const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

const (
	flashKey     = "flash"
	flashTypeKey = "flash_type"
)

// Renderer handles template rendering with caching.
type Renderer struct {
	templates      map[string]*template.Template
	sessionManager *scs.SessionManager
	locales        *locale.Set
	markdown       goldmark.Markdown
	policy         *bluemonday.Policy
	isDev          bool
}

// Config holds renderer configuration.
type Config struct {
	TemplatesFS    fs.FS
	SessionManager *scs.SessionManager
	Locales        *locale.Set
	IsDev          bool
}

// New creates a new Renderer with parsed templates.
func New(cfg Config) (*Renderer, error) {
	locales := cfg.Locales
	if locales == nil {
		locales = locale.NewSet([]string{locale.Default}, locale.Default)
	}

	r := &Renderer{
		templates:      make(map[string]*template.Template),
		sessionManager: cfg.SessionManager,
		locales:        locales,
		markdown:       goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy:         bluemonday.UGCPolicy(),
		isDev:          cfg.IsDev,
	}

	if err := r.parseTemplates(cfg.TemplatesFS); err != nil {
		return nil, err
	}

	return r, nil
}

// parseTemplates parses every page in pages/ with the site layout and every
// page in admin/ with the admin layout. Partials are shared.
func (r *Renderer) parseTemplates(templatesFS fs.FS) error {
	partials, err := templateFiles(templatesFS, "partials")
	if err != nil {
		return fmt.Errorf("getting partials: %w", err)
	}

	sets := []struct {
		dir    string
		layout string
	}{
		{dir: "pages", layout: "layouts/base.html"},
		{dir: "admin", layout: "layouts/admin.html"},
	}

	for _, set := range sets {
		pages, err := templateFiles(templatesFS, set.dir)
		if err != nil {
			return fmt.Errorf("getting %s templates: %w", set.dir, err)
		}

		for _, tmplPath := range pages {
			name := set.dir + "/" + strings.TrimSuffix(path.Base(tmplPath), ".html")

			// Parse in order: layout, partials, page template
			files := append([]string{set.layout}, partials...)
			files = append(files, tmplPath)

			tmpl, err := template.New("").Funcs(r.TemplateFuncs()).ParseFS(templatesFS, files...)
			if err != nil {
				return fmt.Errorf("parsing template %s: %w", name, err)
			}
			r.templates[name] = tmpl
		}
	}

	return nil
}

// templateFiles returns all .html files in a directory. A missing directory
// yields no files.
func templateFiles(templatesFS fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(templatesFS, dir)
	if err != nil {
		return nil, nil
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".html") {
			files = append(files, path.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// Has reports whether a template was parsed under name.
func (r *Renderer) Has(name string) bool {
	_, ok := r.templates[name]
	return ok
}

// TemplateFuncs returns custom template functions.
func (r *Renderer) TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"t": func(lang, key string, args ...any) string {
			return i18n.T(lang, key, args...)
		},
		"loc": func(text locale.Text, code string) string {
			return text.Get(code)
		},
		"markdown": r.renderMarkdown,
		"sanitize": func(s string) template.HTML {
			return template.HTML(r.policy.Sanitize(s)) //nolint:gosec // sanitized by bluemonday
		},
		"dir": locale.Direction,
		"localePath": func(code string, parts ...string) string {
			return LocalePath(code, parts...)
		},
		"date": FormatDate,
		"truncate": func(s string, length int) string {
			runes := []rune(s)
			if len(runes) <= length {
				return s
			}
			return strings.TrimSpace(string(runes[:length])) + "…"
		},
		"add": func(a, b int) int {
			return a + b
		},
		"dict": dict,
	}
}

// dict builds a map from key/value pairs so partials can take several
// arguments. Odd trailing keys and non-string keys are ignored.
func dict(pairs ...any) map[string]any {
	m := make(map[string]any, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		if k, ok := pairs[i].(string); ok {
			m[k] = pairs[i+1]
		}
	}
	return m
}

// renderMarkdown converts Markdown to sanitized HTML.
func (r *Renderer) renderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := r.markdown.Convert([]byte(src), &buf); err != nil {
		slog.Warn("markdown conversion failed", "error", err)
		return template.HTML(template.HTMLEscapeString(src)) //nolint:gosec // escaped
	}
	return template.HTML(r.policy.SanitizeBytes(buf.Bytes())) //nolint:gosec // sanitized by bluemonday
}

// LocalePath builds a site path under the locale prefix, e.g.
// LocalePath("ar", "projects", "rebrand") is "/ar/projects/rebrand".
func LocalePath(code string, parts ...string) string {
	elems := append([]string{"/", code}, parts...)
	return path.Join(elems...)
}

// FormatDate formats a time or *time.Time for display. Nil and zero times
// render as "".
func FormatDate(v any, code string) string {
	var t time.Time
	switch tv := v.(type) {
	case time.Time:
		t = tv
	case *time.Time:
		if tv == nil {
			return ""
		}
		t = *tv
	default:
		return ""
	}
	if t.IsZero() {
		return ""
	}
	if code == "ar" {
		return t.Format("2006/01/02")
	}
	return t.Format("Jan 2, 2006")
}

// LocaleLink is a language switcher entry.
type LocaleLink struct {
	Code   string
	URL    string
	Active bool
}

// TemplateData holds data passed to templates.
type TemplateData struct {
	Title       string
	Description string
	Locale      string
	Dir         string
	// Path is the request path below the locale prefix, used to build
	// language switcher links.
	Path        string
	Locales     []LocaleLink
	Data        any
	Flash       string
	FlashType   string
	CurrentYear int
	IsAdmin     bool
}

// Render renders a template with status 200.
func (r *Renderer) Render(w http.ResponseWriter, req *http.Request, name string, data TemplateData) error {
	return r.RenderStatus(w, req, http.StatusOK, name, data)
}

// RenderStatus renders a template with the given status code.
func (r *Renderer) RenderStatus(w http.ResponseWriter, req *http.Request, status int, name string, data TemplateData) error {
	tmpl, ok := r.templates[name]
	if !ok {
		return fmt.Errorf("template %s not found", name)
	}

	// Add default data
	data.CurrentYear = time.Now().Year()
	if data.Locale == "" {
		data.Locale = r.locales.Default()
	}
	data.Dir = locale.Direction(data.Locale)
	data.Locales = r.localeLinks(data.Locale, data.Path)

	if r.sessionManager != nil {
		if flash := r.sessionManager.PopString(req.Context(), flashKey); flash != "" {
			data.Flash = flash
			data.FlashType = r.sessionManager.PopString(req.Context(), flashTypeKey)
			if data.FlashType == "" {
				data.FlashType = FlashInfo
			}
		}
	}

	// Render to buffer first to catch errors
	buf := new(bytes.Buffer)
	if err := tmpl.ExecuteTemplate(buf, "base", data); err != nil {
		return fmt.Errorf("executing template %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Content-Language", data.Locale)
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
	return nil
}

func (r *Renderer) localeLinks(current, p string) []LocaleLink {
	codes := r.locales.Codes()
	links := make([]LocaleLink, 0, len(codes))
	for _, code := range codes {
		links = append(links, LocaleLink{
			Code:   code,
			URL:    LocalePath(code, p),
			Active: code == current,
		})
	}
	return links
}

// SetFlash sets a flash message in the session.
func (r *Renderer) SetFlash(req *http.Request, message, flashType string) {
	if r.sessionManager != nil {
		r.sessionManager.Put(req.Context(), flashKey, message)
		r.sessionManager.Put(req.Context(), flashTypeKey, flashType)
	}
}
