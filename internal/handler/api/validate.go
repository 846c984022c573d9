// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/olegiv/agency-go/internal/locale"
	"github.com/olegiv/agency-go/internal/model"
	"github.com/olegiv/agency-go/internal/util"
)

// maxBodyBytes bounds JSON request bodies.
const maxBodyBytes = 1 << 20

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	mustRegister(v, "slug", func(fl validator.FieldLevel) bool {
		return util.IsValidSlug(fl.Field().String())
	})
	mustRegister(v, "service_icon", func(fl validator.FieldLevel) bool {
		return model.IsServiceIcon(fl.Field().String())
	})
	mustRegister(v, "web_url", func(fl validator.FieldLevel) bool {
		return isWebURL(fl.Field().String())
	})
	return v
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(err)
	}
}

func isWebURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// tagMessage renders a failed validator tag as a short message.
func tagMessage(field, tag, param string) string {
	switch tag {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return field + " must be at least " + param + " characters"
	case "max":
		return field + " must be at most " + param + " characters"
	case "slug":
		return field + " must contain only lowercase letters, digits and single hyphens"
	case "service_icon":
		return field + " must be one of: " + strings.Join(model.ServiceIcons, ", ")
	case "oneof":
		return field + " must be one of: " + strings.ReplaceAll(param, " ", ", ")
	case "web_url":
		return field + " must be an absolute http(s) URL"
	default:
		return field + " is invalid"
	}
}

// validateStruct runs the struct tags of v and converts failures to a
// *ValidationError keyed by JSON field name.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return err
	}
	verr := &ValidationError{Message: "validation failed"}
	for _, fe := range ves {
		verr.Add(fe.Field(), tagMessage(fe.Field(), fe.Tag(), fe.Param()))
	}
	return verr
}

// decodeStruct decodes a JSON body into dst and validates it.
func decodeStruct(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return newValidationError("body", "body must be a JSON object")
	}
	return validateStruct(dst)
}

// need states whether a payload field must be present and non-empty.
type need int

const (
	optional  need = iota // may be absent or empty
	nonEmpty              // may be absent; when present it must not be empty
	mandatory             // must be present and non-empty
)

// payload is a JSON object body kept as raw members, so each field's JSON
// shape can be checked before it is converted.
type payload struct {
	raw  map[string]json.RawMessage
	errs *ValidationError
}

func decodePayload(w http.ResponseWriter, r *http.Request) (*payload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil || raw == nil {
		return nil, newValidationError("body", "body must be a JSON object")
	}
	return &payload{raw: raw, errs: &ValidationError{Message: "validation failed"}}, nil
}

func (p *payload) has(name string) bool {
	_, ok := p.raw[name]
	return ok
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func (p *payload) missing(name string, n need) {
	if n == mandatory {
		p.errs.Add(name, name+" is required")
	}
}

// text reads a localized field, which must be an object of locale → text.
// A required text needs a non-empty English value.
func (p *payload) text(name string, n need) *locale.Text {
	raw, ok := p.raw[name]
	if !ok {
		p.missing(name, n)
		return nil
	}

	var m map[string]string
	if isNull(raw) || json.Unmarshal(raw, &m) != nil {
		p.errs.Add(name, name+" must be an object of locale → text")
		return nil
	}

	t := make(locale.Text, len(m))
	for code, v := range m {
		t[strings.ToLower(strings.TrimSpace(code))] = strings.TrimSpace(v)
	}
	if n != optional && !t.HasDefault() {
		p.errs.Add(name, name+".en is required")
	}
	return &t
}

// str reads a string field and checks it against the validator tag, if any.
func (p *payload) str(name string, n need, tag string) *string {
	raw, ok := p.raw[name]
	if !ok {
		p.missing(name, n)
		return nil
	}

	var s string
	if isNull(raw) || json.Unmarshal(raw, &s) != nil {
		p.errs.Add(name, name+" must be a string")
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		if n != optional {
			p.errs.Add(name, name+" is required")
		}
		return &s
	}
	p.check(name, s, tag)
	return &s
}

// check validates a single value with a validator tag expression.
func (p *payload) check(name string, value any, tag string) {
	if tag == "" {
		return
	}
	err := validate.Var(value, tag)
	var ves validator.ValidationErrors
	if errors.As(err, &ves) && len(ves) > 0 {
		p.errs.Add(name, tagMessage(name, ves[0].Tag(), ves[0].Param()))
	}
}

func (p *payload) integer(name string) *int {
	raw, ok := p.raw[name]
	if !ok {
		return nil
	}
	var v int
	if isNull(raw) || json.Unmarshal(raw, &v) != nil {
		p.errs.Add(name, name+" must be an integer")
		return nil
	}
	return &v
}

// nullableID reads an id that may be null to clear it.
func (p *payload) nullableID(name string) *sql.NullInt64 {
	raw, ok := p.raw[name]
	if !ok {
		return nil
	}
	if isNull(raw) {
		return &sql.NullInt64{}
	}
	var v int64
	if json.Unmarshal(raw, &v) != nil || v <= 0 {
		p.errs.Add(name, name+" must be a positive integer or null")
		return nil
	}
	return &sql.NullInt64{Int64: v, Valid: true}
}

// nullableTime reads an RFC 3339 timestamp that may be null.
func (p *payload) nullableTime(name string) *sql.NullTime {
	raw, ok := p.raw[name]
	if !ok {
		return nil
	}
	if isNull(raw) {
		return &sql.NullTime{}
	}
	var s string
	if json.Unmarshal(raw, &s) != nil {
		p.errs.Add(name, name+" must be an RFC 3339 timestamp or null")
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		p.errs.Add(name, name+" must be an RFC 3339 timestamp or null")
		return nil
	}
	return &sql.NullTime{Time: t.UTC(), Valid: true}
}

func (p *payload) status(name string) *model.Status {
	s := p.str(name, nonEmpty, "oneof=draft published")
	if s == nil || p.errs.Has(name) {
		return nil
	}
	st := model.Status(*s)
	return &st
}

// socialLinks reads an object of platform → URL. Empty URLs mean absent.
func (p *payload) socialLinks(name string) *model.SocialLinks {
	raw, ok := p.raw[name]
	if !ok {
		return nil
	}
	var m map[string]string
	if isNull(raw) || json.Unmarshal(raw, &m) != nil {
		p.errs.Add(name, name+" must be an object of platform → URL")
		return nil
	}

	links := make(model.SocialLinks, len(m))
	for platform, u := range m {
		platform = strings.ToLower(strings.TrimSpace(platform))
		u = strings.TrimSpace(u)
		if platform == "" {
			p.errs.Add(name, name+" platform names must not be empty")
			continue
		}
		if u == "" {
			continue
		}
		p.check(name+"."+platform, u, "web_url")
		links[platform] = u
	}
	return &links
}

// slugOrDerived returns the given slug, or one derived from the English
// text when the field is absent.
func (p *payload) slugOrDerived(from *locale.Text) string {
	if p.has("slug") {
		if s := p.str("slug", mandatory, "slug"); s != nil {
			return *s
		}
		return ""
	}
	if from == nil {
		return ""
	}
	slug := util.Slugify(from.Get("en"))
	if slug == "" {
		p.errs.Add("slug", "slug is required")
	}
	return slug
}
