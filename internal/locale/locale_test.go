// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package locale

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextGet(t *testing.T) {
	tests := []struct {
		name string
		text Text
		code string
		want string
	}{
		{"requested locale", Text{"en": "Web Design", "ar": "تصميم الويب"}, "ar", "تصميم الويب"},
		{"uppercase code", Text{"en": "Web Design", "ar": "تصميم الويب"}, "AR", "تصميم الويب"},
		{"fallback to english", Text{"en": "Web Design"}, "ar", "Web Design"},
		{"blank translation falls back", Text{"en": "Web Design", "ar": ""}, "ar", "Web Design"},
		{"no english uses any", Text{"ar": "تصميم"}, "fr", "تصميم"},
		{"empty", Text{}, "en", ""},
		{"nil", nil, "en", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.text.Get(tt.code))
		})
	}
}

func TestTextValueScan(t *testing.T) {
	in := Text{"en": "A", "ar": "ب"}

	v, err := in.Value()
	require.NoError(t, err)

	var out Text
	require.NoError(t, out.Scan(v))
	assert.Equal(t, in, out)

	var fromBytes Text
	require.NoError(t, fromBytes.Scan([]byte(`{"en":"x"}`)))
	assert.Equal(t, "x", fromBytes.Get("en"))

	var fromNil Text
	require.NoError(t, fromNil.Scan(nil))
	assert.NotNil(t, fromNil)
	assert.True(t, fromNil.IsEmpty())

	var bad Text
	assert.Error(t, bad.Scan("not json"))
	assert.Error(t, bad.Scan(42))
}

func TestTextHasDefault(t *testing.T) {
	assert.True(t, NewText("Hello").HasDefault())
	assert.False(t, Text{"ar": "مرحبا"}.HasDefault())
	assert.False(t, Text{"en": "   "}.HasDefault())
}

func TestParseAcceptLanguage(t *testing.T) {
	tests := []struct {
		header string
		want   []string
	}{
		{"ar-EG,ar;q=0.9,en;q=0.8", []string{"ar-EG", "ar", "en"}},
		{" en , ar;q=0.5 ", []string{"en", "ar"}},
		{"", nil},
		{";;;,,", nil},
		{"*", nil},
		{"en<script>", nil},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAcceptLanguage(tt.header))
		})
	}
}

func TestSetFromAcceptLanguage(t *testing.T) {
	s := NewSet([]string{"en", "ar"}, "en")

	tests := []struct {
		header string
		want   string
	}{
		{"ar", "ar"},
		{"en", "en"},
		{"ar-SA,en;q=0.8", "ar"},
		{"fr-FR,ar;q=0.5", "ar"},
		{"fr,de", "en"},
		{"", "en"},
		{"%%%garbage%%%", "en"},
		{"AR", "ar"},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, s.FromAcceptLanguage(tt.header))
		})
	}
}

func TestNewSetDefault(t *testing.T) {
	s := NewSet([]string{" EN", "ar", "ar"}, "de")
	assert.Equal(t, []string{"en", "ar"}, s.Codes())
	assert.Equal(t, "en", s.Default())
	assert.True(t, s.Supports("AR"))
	assert.False(t, s.Supports("de"))
}

func TestDirection(t *testing.T) {
	assert.Equal(t, "rtl", Direction("ar"))
	assert.Equal(t, "ltr", Direction("en"))
}
