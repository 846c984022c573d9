// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package locale provides the multilingual text type stored in content
// columns and helpers for working with locale codes.
package locale

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Default is the locale every localized field falls back to.
const Default = "en"

// ContentLocales are the translations every content Text is edited in.
var ContentLocales = []string{Default, "ar"}

// Text maps a locale code to a translated string, e.g. {"en": "Web Design", "ar": "تصميم الويب"}.
// It is persisted as JSON text.
type Text map[string]string

// NewText creates a Text with the given English value.
func NewText(en string) Text {
	return Text{Default: en}
}

// Get returns the value for code, falling back to English, then to any
// non-empty translation (lowest locale code first), then to "".
func (t Text) Get(code string) string {
	if v := t[strings.ToLower(code)]; v != "" {
		return v
	}
	if v := t[Default]; v != "" {
		return v
	}
	codes := make([]string, 0, len(t))
	for c, v := range t {
		if v != "" {
			codes = append(codes, c)
		}
	}
	if len(codes) == 0 {
		return ""
	}
	sort.Strings(codes)
	return t[codes[0]]
}

// HasDefault reports whether the English value is populated.
func (t Text) HasDefault() bool {
	return strings.TrimSpace(t[Default]) != ""
}

// IsEmpty reports whether no locale has a non-blank value.
func (t Text) IsEmpty() bool {
	for _, v := range t {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Map applies fn to every translation and returns a new Text.
func (t Text) Map(fn func(string) string) Text {
	out := make(Text, len(t))
	for c, v := range t {
		out[c] = fn(v)
	}
	return out
}

// Value implements driver.Valuer.
func (t Text) Value() (driver.Value, error) {
	if t == nil {
		return "{}", nil
	}
	b, err := json.Marshal(map[string]string(t))
	if err != nil {
		return nil, fmt.Errorf("encoding localized text: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (t *Text) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*t = Text{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("scanning localized text: unsupported type %T", src)
	}
	if len(raw) == 0 {
		*t = Text{}
		return nil
	}
	m := map[string]string{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("decoding localized text: %w", err)
	}
	*t = m
	return nil
}
