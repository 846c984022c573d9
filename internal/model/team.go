// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/olegiv/agency-go/internal/locale"
)

// SocialLinks maps a platform name ("linkedin", "github", ...) to a profile URL.
// Platforms without a URL are omitted.
type SocialLinks map[string]string

// Platforms returns the platform names with a URL, sorted.
func (s SocialLinks) Platforms() []string {
	out := make([]string, 0, len(s))
	for p, u := range s {
		if u != "" {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}

// Value implements driver.Valuer.
func (s SocialLinks) Value() (driver.Value, error) {
	clean := make(map[string]string, len(s))
	for p, u := range s {
		if u != "" {
			clean[p] = u
		}
	}
	b, err := json.Marshal(clean)
	if err != nil {
		return nil, fmt.Errorf("encoding social links: %w", err)
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (s *SocialLinks) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*s = SocialLinks{}
		return nil
	case string:
		raw = []byte(v)
	case []byte:
		raw = v
	default:
		return fmt.Errorf("scanning social links: unsupported type %T", src)
	}
	m := map[string]string{}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &m); err != nil {
			return fmt.Errorf("decoding social links: %w", err)
		}
	}
	*s = m
	return nil
}

// TeamMember is a person shown on the team page.
type TeamMember struct {
	ID           int64       `json:"id"`
	Name         string      `json:"name"`
	Position     locale.Text `json:"position"`
	Bio          locale.Text `json:"bio"`
	Image        string      `json:"image"`
	SocialLinks  SocialLinks `json:"social_links"`
	DisplayOrder int         `json:"display_order"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// TeamMemberInput holds the fields for creating a team member.
type TeamMemberInput struct {
	Name         string
	Position     locale.Text
	Bio          locale.Text
	Image        string
	SocialLinks  SocialLinks
	DisplayOrder int
}

// TeamMemberPatch holds the fields to change on a team member.
type TeamMemberPatch struct {
	Name         *string
	Position     *locale.Text
	Bio          *locale.Text
	Image        *string
	SocialLinks  *SocialLinks
	DisplayOrder *int
}
