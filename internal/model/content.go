// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package model

import (
	"database/sql"
	"time"

	"github.com/olegiv/agency-go/internal/locale"
)

// Status is the publication state of a project or blog post.
type Status string

// Publication states.
const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	return s == StatusDraft || s == StatusPublished
}

// ServiceIcons is the fixed icon set services may reference.
var ServiceIcons = []string{
	"Globe", "Code", "Smartphone", "PenTool", "TrendingUp", "Search",
	"Megaphone", "BarChart", "ShoppingCart", "Camera", "Layers", "Shield",
}

// IsServiceIcon reports whether name is in ServiceIcons.
func IsServiceIcon(name string) bool {
	for _, icon := range ServiceIcons {
		if icon == name {
			return true
		}
	}
	return false
}

// Service is an offering listed on the services page.
type Service struct {
	ID               int64       `json:"id"`
	Title            locale.Text `json:"title"`
	Slug             string      `json:"slug"`
	ShortDescription locale.Text `json:"short_description"`
	Description      locale.Text `json:"description"`
	Icon             string      `json:"icon"`
	CreatedAt        time.Time   `json:"created_at"`
	UpdatedAt        time.Time   `json:"updated_at"`
}

// ServiceInput holds the fields for creating a service.
type ServiceInput struct {
	Title            locale.Text
	Slug             string
	ShortDescription locale.Text
	Description      locale.Text
	Icon             string
}

// ServicePatch holds the fields to change on a service; nil fields are left untouched.
type ServicePatch struct {
	Title            *locale.Text
	Slug             *string
	ShortDescription *locale.Text
	Description      *locale.Text
	Icon             *string
}

// Category groups projects.
type Category struct {
	ID          int64       `json:"id"`
	Name        locale.Text `json:"name"`
	Description locale.Text `json:"description"`
	Slug        string      `json:"slug"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// CategoryInput holds the fields for creating a category.
type CategoryInput struct {
	Name        locale.Text
	Description locale.Text
	Slug        string
}

// CategoryPatch holds the fields to change on a category.
type CategoryPatch struct {
	Name        *locale.Text
	Description *locale.Text
	Slug        *string
}

// Project is a portfolio entry.
type Project struct {
	ID            int64       `json:"id"`
	Title         locale.Text `json:"title"`
	Description   locale.Text `json:"description"`
	Content       locale.Text `json:"content"`
	Slug          string      `json:"slug"`
	FeaturedImage string      `json:"featured_image"`
	Client        string      `json:"client"`
	CategoryID    *int64      `json:"category_id"`
	Status        Status      `json:"status"`
	PublishedAt   *time.Time  `json:"published_at"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// IsPublished reports whether the project is publicly visible.
func (p *Project) IsPublished() bool {
	return p.Status == StatusPublished
}

// ProjectInput holds the fields for creating a project.
type ProjectInput struct {
	Title         locale.Text
	Description   locale.Text
	Content       locale.Text
	Slug          string
	FeaturedImage string
	Client        string
	CategoryID    *int64
	Status        Status
	PublishedAt   *time.Time
}

// ProjectPatch holds the fields to change on a project. A CategoryID with
// Valid=false clears the category.
type ProjectPatch struct {
	Title         *locale.Text
	Description   *locale.Text
	Content       *locale.Text
	Slug          *string
	FeaturedImage *string
	Client        *string
	CategoryID    *sql.NullInt64
	Status        *Status
	PublishedAt   *sql.NullTime
}

// BlogPost is an article on the blog.
type BlogPost struct {
	ID            int64       `json:"id"`
	Title         locale.Text `json:"title"`
	Excerpt       locale.Text `json:"excerpt"`
	Content       locale.Text `json:"content"`
	Slug          string      `json:"slug"`
	FeaturedImage string      `json:"featured_image"`
	AuthorID      int64       `json:"author_id"`
	AuthorName    string      `json:"author_name"`
	Status        Status      `json:"status"`
	PublishedAt   *time.Time  `json:"published_at"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// IsPublished reports whether the post is publicly visible.
func (p *BlogPost) IsPublished() bool {
	return p.Status == StatusPublished
}

// BlogPostInput holds the fields for creating a blog post.
type BlogPostInput struct {
	Title         locale.Text
	Excerpt       locale.Text
	Content       locale.Text
	Slug          string
	FeaturedImage string
	AuthorID      int64
	Status        Status
	PublishedAt   *time.Time
}

// BlogPostPatch holds the fields to change on a blog post.
type BlogPostPatch struct {
	Title         *locale.Text
	Excerpt       *locale.Text
	Content       *locale.Text
	Slug          *string
	FeaturedImage *string
	AuthorID      *int64
	Status        *Status
	PublishedAt   *sql.NullTime
}
