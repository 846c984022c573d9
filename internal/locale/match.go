// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package locale

import "strings"

// Set is the fixed collection of locales the site is served in.
type Set struct {
	codes       []string
	lookup      map[string]bool
	defaultCode string
}

// NewSet builds a Set. Codes are lower-cased; defaultCode must be one of codes,
// otherwise the first code becomes the default.
func NewSet(codes []string, defaultCode string) *Set {
	s := &Set{lookup: make(map[string]bool, len(codes))}
	for _, c := range codes {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" || s.lookup[c] {
			continue
		}
		s.codes = append(s.codes, c)
		s.lookup[c] = true
	}
	defaultCode = strings.ToLower(defaultCode)
	if !s.lookup[defaultCode] && len(s.codes) > 0 {
		defaultCode = s.codes[0]
	}
	s.defaultCode = defaultCode
	return s
}

// Codes returns the supported locale codes in configuration order.
func (s *Set) Codes() []string {
	out := make([]string, len(s.codes))
	copy(out, s.codes)
	return out
}

// Default returns the default locale.
func (s *Set) Default() string {
	return s.defaultCode
}

// Supports reports whether code is a supported locale (case-insensitive).
func (s *Set) Supports(code string) bool {
	return s.lookup[strings.ToLower(code)]
}

// Match returns the supported locale for a language tag, trying the full
// tag first and then its primary subtag ("ar-EG" -> "ar").
func (s *Set) Match(tag string) (string, bool) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if tag == "" {
		return "", false
	}
	if s.lookup[tag] {
		return tag, true
	}
	if idx := strings.IndexAny(tag, "-_"); idx > 0 {
		if primary := tag[:idx]; s.lookup[primary] {
			return primary, true
		}
	}
	return "", false
}

// ParseAcceptLanguage splits an Accept-Language header into language tags in
// header order, dropping quality weights. Malformed entries are skipped.
func ParseAcceptLanguage(header string) []string {
	var tags []string
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag == "" || tag == "*" || !isTag(tag) {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}

// FromAcceptLanguage returns the first supported locale named by the header,
// or the default locale when none matches.
func (s *Set) FromAcceptLanguage(header string) string {
	for _, tag := range ParseAcceptLanguage(header) {
		if code, ok := s.Match(tag); ok {
			return code
		}
	}
	return s.defaultCode
}

// Direction returns the text direction for a locale.
func Direction(code string) string {
	switch strings.ToLower(code) {
	case "ar", "fa", "he", "ur":
		return "rtl"
	default:
		return "ltr"
	}
}

func isTag(s string) bool {
	if len(s) > 35 {
		return false
	}
	for _, r := range s {
		if !((r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_') {
			return false
		}
	}
	return true
}
