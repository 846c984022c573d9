// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/agency-go/internal/handler/api"
	"github.com/olegiv/agency-go/internal/i18n"
	"github.com/olegiv/agency-go/internal/locale"
	"github.com/olegiv/agency-go/internal/middleware"
	"github.com/olegiv/agency-go/internal/model"
	"github.com/olegiv/agency-go/internal/render"
	"github.com/olegiv/agency-go/internal/service"
)

// Kinds of admin form inputs.
const (
	KindText      = "text"
	KindLocalized = "localized"
	KindLong      = "long"
	KindNumber    = "number"
	KindImage     = "image"
	KindIcon      = "icon"
	KindStatus    = "status"
	KindCategory  = "category"
	KindSocial    = "social"
)

// SocialPlatforms are the team member profile links offered by the form.
var SocialPlatforms = []string{"linkedin", "github", "twitter", "instagram", "dribbble", "behance"}

// maxAdminForm bounds an admin form body, uploads included.
const maxAdminForm = service.MaxUploadSize + 1<<20

// FormField describes one input of an admin edit form.
type FormField struct {
	Name     string
	Kind     string
	Required bool
	// Derived fields may be left empty on create; the slug is then built
	// from the English title.
	Derived bool
}

type adminResource struct {
	res    api.Resource
	fields []FormField
}

var adminResources = []adminResource{
	{res: api.ResourceServices, fields: []FormField{
		{Name: "title", Kind: KindLocalized, Required: true},
		{Name: "slug", Kind: KindText, Derived: true},
		{Name: "short_description", Kind: KindLocalized, Required: true},
		{Name: "description", Kind: KindLong},
		{Name: "icon", Kind: KindIcon, Required: true},
	}},
	{res: api.ResourceCategories, fields: []FormField{
		{Name: "name", Kind: KindLocalized, Required: true},
		{Name: "slug", Kind: KindText, Derived: true},
		{Name: "description", Kind: KindLong},
	}},
	{res: api.ResourceProjects, fields: []FormField{
		{Name: "title", Kind: KindLocalized, Required: true},
		{Name: "slug", Kind: KindText, Derived: true},
		{Name: "description", Kind: KindLong},
		{Name: "content", Kind: KindLong},
		{Name: "client", Kind: KindText},
		{Name: "category_id", Kind: KindCategory},
		{Name: "featured_image", Kind: KindImage},
		{Name: "status", Kind: KindStatus},
	}},
	{res: api.ResourcePosts, fields: []FormField{
		{Name: "title", Kind: KindLocalized, Required: true},
		{Name: "slug", Kind: KindText, Required: true},
		{Name: "excerpt", Kind: KindLong},
		{Name: "content", Kind: KindLong, Required: true},
		{Name: "featured_image", Kind: KindImage},
		{Name: "status", Kind: KindStatus},
	}},
	{res: api.ResourceTeam, fields: []FormField{
		{Name: "name", Kind: KindText, Required: true},
		{Name: "position", Kind: KindLocalized, Required: true},
		{Name: "bio", Kind: KindLong},
		{Name: "image", Kind: KindImage},
		{Name: "display_order", Kind: KindNumber},
		{Name: "social_links", Kind: KindSocial},
	}},
}

// ListRow is one row of an admin list page.
type ListRow struct {
	ID       int64
	Title    string
	Subtitle string
	Status   model.Status
	Updated  time.Time
}

// ListData is the data for an admin list page.
type ListData struct {
	Resource    string
	Publishable bool
	Rows        []ListRow
	// Error and Details are the API error body of a refused action.
	Error   string
	Details map[string]string
}

// Option is a select entry.
type Option struct {
	Value string
	Label string
}

// EditData is the data for an admin edit form.
type EditData struct {
	Resource    string
	ID          int64
	Publishable bool
	Fields      []FormField
	// Values hold the inputs keyed by input name, e.g. "title.ar".
	Values     map[string]string
	Error      string
	Details    map[string]string
	Locales    []string
	Icons      []string
	Categories []Option
	Platforms  []string
	Statuses   []string
}

// ContentRoutes registers the content managers below the admin route group.
func (h *AdminHandler) ContentRoutes(r chi.Router) {
	for _, res := range adminResources {
		r.Route("/"+string(res.res), func(r chi.Router) {
			r.Get("/", h.list(res))
			r.Get("/new", h.newForm(res))
			r.Post("/", h.save(res))
			r.Get("/{id}", h.editForm(res))
			r.Post("/{id}", h.save(res))
			r.Post("/{id}/delete", h.remove(res))
			if res.res.Publishable() {
				r.Post("/{id}/publish", h.publish(res, true))
				r.Post("/{id}/unpublish", h.publish(res, false))
			}
		})
	}
}

func listPath(res adminResource) string {
	return middleware.AdminDashboardPath + "/" + string(res.res)
}

func (h *AdminHandler) list(res adminResource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.renderList(w, r, res, http.StatusOK, api.ErrorResponse{})
	}
}

func (h *AdminHandler) renderList(w http.ResponseWriter, r *http.Request, res adminResource, status int, failure api.ErrorResponse) {
	loc := uiLocale(r)
	rows, err := h.listRows(r.Context(), res.res, loc)
	if err != nil {
		h.logger.Error("loading admin list failed", "resource", res.res, "error", err)
		h.renderAdminError(w, r, http.StatusInternalServerError, "error.body")
		return
	}
	h.render(w, r, status, "admin/list", render.TemplateData{
		Title:  i18n.T(loc, "admin.count."+string(res.res)),
		Locale: loc,
		Data: ListData{
			Resource:    string(res.res),
			Publishable: res.res.Publishable(),
			Rows:        rows,
			Error:       failure.Error,
			Details:     failure.Details,
		},
		IsAdmin: true,
	})
}

func (h *AdminHandler) newForm(res adminResource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		values := map[string]string{}
		if res.res.Publishable() {
			values["status"] = string(model.StatusDraft)
		}
		h.renderForm(w, r, res, http.StatusOK, 0, values, api.ErrorResponse{})
	}
}

func (h *AdminHandler) editForm(res adminResource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.rowID(w, r)
		if !ok {
			return
		}
		row, err := h.loadRow(r.Context(), res.res, id)
		if err != nil {
			h.renderFailure(w, r, res, err)
			return
		}
		values, err := flatten(row)
		if err != nil {
			h.renderFailure(w, r, res, err)
			return
		}
		h.renderForm(w, r, res, http.StatusOK, id, values, api.ErrorResponse{})
	}
}

func (h *AdminHandler) renderForm(w http.ResponseWriter, r *http.Request, res adminResource, status int, id int64, values map[string]string, failure api.ErrorResponse) {
	loc := uiLocale(r)
	data := EditData{
		Resource:    string(res.res),
		ID:          id,
		Publishable: res.res.Publishable(),
		Fields:      res.fields,
		Values:      values,
		Error:       failure.Error,
		Details:     failure.Details,
		Locales:     locale.ContentLocales,
		Icons:       model.ServiceIcons,
		Platforms:   SocialPlatforms,
		Statuses:    []string{string(model.StatusDraft), string(model.StatusPublished)},
	}
	if res.res == api.ResourceProjects {
		cats, err := h.queries.ListCategories(r.Context())
		if err != nil {
			h.logger.Error("loading categories failed", "error", err)
		}
		for _, c := range cats {
			data.Categories = append(data.Categories, Option{
				Value: strconv.FormatInt(c.ID, 10),
				Label: c.Name.Get(loc),
			})
		}
	}

	titleKey := "admin.new"
	if id != 0 {
		titleKey = "admin.edit"
	}
	h.render(w, r, status, "admin/edit", render.TemplateData{
		Title:   i18n.T(loc, titleKey) + " · " + i18n.T(loc, "admin.count."+string(res.res)),
		Locale:  loc,
		Data:    data,
		IsAdmin: true,
	})
}

// save handles POST /admin/{resource} and /admin/{resource}/{id}. A refused
// save re-renders the form with the API error body and the submitted values.
func (h *AdminHandler) save(res adminResource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var id int64
		if chi.URLParam(r, "id") != "" {
			var ok bool
			if id, ok = h.rowID(w, r); !ok {
				return
			}
		}

		r.Body = http.MaxBytesReader(w, r.Body, maxAdminForm)
		if err := parseAdminForm(r); err != nil {
			http.Error(w, "Bad Request", http.StatusBadRequest)
			return
		}
		values := submittedValues(r)

		fields, uploadErrs := h.formFields(r, res, id == 0, values)
		if len(uploadErrs) > 0 {
			h.renderForm(w, r, res, http.StatusBadRequest, id, values, api.ErrorResponse{
				Error:   "validation failed",
				Details: uploadErrs,
			})
			return
		}

		var authorID int64
		if c := middleware.GetClaims(r); c != nil {
			authorID = c.UserID
		}
		savedID, err := h.api.Save(r.Context(), res.res, id, fields, authorID)
		if err != nil {
			status, failure := api.Describe(res.res, err)
			if status == http.StatusNotFound {
				h.renderAdminError(w, r, status, "admin.not_found")
				return
			}
			if status >= http.StatusInternalServerError {
				h.logger.Error("admin save failed", "resource", res.res, "id", id, "error", err)
			}
			h.renderForm(w, r, res, status, id, values, failure)
			return
		}

		h.logger.Info("content saved", "resource", res.res, "id", savedID, "created", id == 0)
		h.renderer.SetFlash(r, i18n.T(uiLocale(r), "admin.saved"), render.FlashSuccess)
		http.Redirect(w, r, listPath(res), http.StatusSeeOther)
	}
}

// remove handles POST /admin/{resource}/{id}/delete.
func (h *AdminHandler) remove(res adminResource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.rowID(w, r)
		if !ok {
			return
		}
		if err := h.api.Remove(r.Context(), res.res, id); err != nil {
			h.actionFailed(w, r, res, err)
			return
		}
		h.logger.Info("content deleted", "resource", res.res, "id", id)
		h.renderer.SetFlash(r, i18n.T(uiLocale(r), "admin.deleted"), render.FlashSuccess)
		http.Redirect(w, r, listPath(res), http.StatusSeeOther)
	}
}

// publish handles POST /admin/{resource}/{id}/publish and /unpublish.
func (h *AdminHandler) publish(res adminResource, published bool) http.HandlerFunc {
	flashKey := "admin.unpublished"
	if published {
		flashKey = "admin.published"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := h.rowID(w, r)
		if !ok {
			return
		}
		if err := h.api.SetPublished(r.Context(), res.res, id, published); err != nil {
			h.actionFailed(w, r, res, err)
			return
		}
		h.logger.Info("publication changed", "resource", res.res, "id", id, "published", published)
		h.renderer.SetFlash(r, i18n.T(uiLocale(r), flashKey), render.FlashSuccess)
		http.Redirect(w, r, listPath(res), http.StatusSeeOther)
	}
}

// actionFailed shows a refused list action above the list.
func (h *AdminHandler) actionFailed(w http.ResponseWriter, r *http.Request, res adminResource, err error) {
	status, failure := api.Describe(res.res, err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("admin action failed", "resource", res.res, "path", r.URL.Path, "error", err)
	}
	h.renderList(w, r, res, status, failure)
}

func (h *AdminHandler) renderFailure(w http.ResponseWriter, r *http.Request, res adminResource, err error) {
	status, _ := api.Describe(res.res, err)
	if status == http.StatusNotFound {
		h.renderAdminError(w, r, status, "admin.not_found")
		return
	}
	h.logger.Error("loading admin row failed", "resource", res.res, "error", err)
	h.renderAdminError(w, r, http.StatusInternalServerError, "error.body")
}

func (h *AdminHandler) renderAdminError(w http.ResponseWriter, r *http.Request, status int, key string) {
	loc := uiLocale(r)
	h.render(w, r, status, "admin/error", render.TemplateData{
		Title:   i18n.T(loc, "error.title"),
		Locale:  loc,
		Data:    i18n.T(loc, key),
		IsAdmin: true,
	})
}

// rowID reads the {id} parameter. Malformed ids are answered with 404.
func (h *AdminHandler) rowID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		h.renderAdminError(w, r, http.StatusNotFound, "admin.not_found")
		return 0, false
	}
	return id, true
}

func parseAdminForm(r *http.Request) error {
	err := r.ParseMultipartForm(maxAdminForm)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

// submittedValues keeps the posted inputs for re-rendering the form.
func submittedValues(r *http.Request) map[string]string {
	values := make(map[string]string, len(r.PostForm))
	for k, v := range r.PostForm {
		if len(v) > 0 {
			values[k] = v[0]
		}
	}
	return values
}

// formFields converts the posted form into the JSON members the API
// expects. Uploaded images are stored first and their URL replaces the
// field value; upload failures are returned keyed by field.
func (h *AdminHandler) formFields(r *http.Request, res adminResource, creating bool, values map[string]string) (api.Fields, map[string]string) {
	fields := api.Fields{}
	var uploadErrs map[string]string

	for _, f := range res.fields {
		value := strings.TrimSpace(r.PostFormValue(f.Name))
		switch f.Kind {
		case KindLocalized, KindLong:
			text := map[string]string{}
			for _, code := range locale.ContentLocales {
				if v := strings.TrimSpace(r.PostFormValue(f.Name + "." + code)); v != "" {
					text[code] = v
				}
			}
			fields[f.Name] = rawJSON(text)
		case KindNumber:
			if value != "" {
				fields[f.Name] = numberOrString(value)
			}
		case KindCategory:
			if value == "" {
				fields[f.Name] = json.RawMessage("null")
			} else {
				fields[f.Name] = numberOrString(value)
			}
		case KindSocial:
			links := map[string]string{}
			for _, platform := range SocialPlatforms {
				if u := strings.TrimSpace(r.PostFormValue(f.Name + "." + platform)); u != "" {
					links[platform] = u
				}
			}
			fields[f.Name] = rawJSON(links)
		case KindImage:
			url, err := h.uploadImage(r, f.Name+"_file")
			if err != nil {
				if uploadErrs == nil {
					uploadErrs = map[string]string{}
				}
				uploadErrs[f.Name] = err.Error()
				continue
			}
			if url != "" {
				value = url
				values[f.Name] = url
			}
			fields[f.Name] = rawJSON(value)
		default:
			if value == "" && creating && f.Derived {
				continue
			}
			fields[f.Name] = rawJSON(value)
		}
	}
	return fields, uploadErrs
}

var errUploadFailed = errors.New("image could not be stored")

// uploadImage stores the file posted as name and returns its public URL,
// or "" when no file was chosen.
func (h *AdminHandler) uploadImage(r *http.Request, name string) (string, error) {
	if h.media == nil || r.MultipartForm == nil {
		return "", nil
	}
	file, header, err := r.FormFile(name)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	defer func() { _ = file.Close() }()

	result, err := h.media.Upload(file, header)
	switch {
	case errors.Is(err, service.ErrFileTooLarge), errors.Is(err, service.ErrNotAnImage), errors.Is(err, service.ErrBadFilename):
		return "", err
	case err != nil:
		h.logger.Error("admin image upload failed", "field", name, "error", err)
		return "", errUploadFailed
	}
	h.logger.Info("image uploaded", "url", result.URL, "size", result.Size)
	return result.URL, nil
}

func rawJSON(v any) json.RawMessage {
	b, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("null")
	}
	return b
}

// numberOrString sends integers as JSON numbers and anything else as a
// string, which the API rejects with a field error.
func numberOrString(s string) json.RawMessage {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return rawJSON(n)
	}
	return rawJSON(s)
}

// flatten turns a row into form values through its JSON form. Nested
// objects become "field.key" entries.
func flatten(row any) (map[string]string, error) {
	b, err := json.Marshal(row)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}

	values := make(map[string]string, len(m))
	for k, v := range m {
		switch tv := v.(type) {
		case map[string]any:
			for sub, sv := range tv {
				if s, ok := sv.(string); ok {
					values[k+"."+sub] = s
				}
			}
		case string:
			values[k] = tv
		case float64:
			values[k] = strconv.FormatFloat(tv, 'f', -1, 64)
		}
	}
	return values, nil
}

func (h *AdminHandler) loadRow(ctx context.Context, res api.Resource, id int64) (any, error) {
	switch res {
	case api.ResourceServices:
		return h.queries.GetServiceByID(ctx, id)
	case api.ResourceCategories:
		return h.queries.GetCategoryByID(ctx, id)
	case api.ResourceProjects:
		return h.queries.GetProjectByID(ctx, id)
	case api.ResourcePosts:
		return h.queries.GetBlogPostByID(ctx, id)
	case api.ResourceTeam:
		return h.queries.GetTeamMemberByID(ctx, id)
	}
	return nil, api.ErrUnknownResource
}

func (h *AdminHandler) listRows(ctx context.Context, res api.Resource, loc string) ([]ListRow, error) {
	var rows []ListRow
	switch res {
	case api.ResourceServices:
		items, err := h.queries.ListServices(ctx)
		if err != nil {
			return nil, err
		}
		for _, s := range items {
			rows = append(rows, ListRow{ID: s.ID, Title: s.Title.Get(loc), Subtitle: s.Slug, Updated: s.UpdatedAt})
		}
	case api.ResourceCategories:
		items, err := h.queries.ListCategories(ctx)
		if err != nil {
			return nil, err
		}
		for _, c := range items {
			rows = append(rows, ListRow{ID: c.ID, Title: c.Name.Get(loc), Subtitle: c.Slug, Updated: c.UpdatedAt})
		}
	case api.ResourceProjects:
		items, err := h.queries.ListProjects(ctx)
		if err != nil {
			return nil, err
		}
		for _, p := range items {
			rows = append(rows, ListRow{ID: p.ID, Title: p.Title.Get(loc), Subtitle: p.Slug, Status: p.Status, Updated: p.UpdatedAt})
		}
	case api.ResourcePosts:
		items, err := h.queries.ListBlogPosts(ctx)
		if err != nil {
			return nil, err
		}
		for _, p := range items {
			rows = append(rows, ListRow{ID: p.ID, Title: p.Title.Get(loc), Subtitle: p.Slug, Status: p.Status, Updated: p.UpdatedAt})
		}
	case api.ResourceTeam:
		items, err := h.queries.ListTeamMembers(ctx)
		if err != nil {
			return nil, err
		}
		for _, m := range items {
			rows = append(rows, ListRow{ID: m.ID, Title: m.Name, Subtitle: m.Position.Get(loc), Updated: m.UpdatedAt})
		}
	default:
		return nil, api.ErrUnknownResource
	}
	return rows, nil
}
