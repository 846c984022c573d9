// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"
)

// Table names a slugged content table.
type Table string

// Slugged content tables.
const (
	TableServices   Table = "services"
	TableCategories Table = "categories"
	TableProjects   Table = "projects"
	TableBlogPosts  Table = "blog_posts"
)

func (t Table) valid() bool {
	switch t {
	case TableServices, TableCategories, TableProjects, TableBlogPosts:
		return true
	}
	return false
}

// SlugExists reports whether another row in table already uses slug.
// Pass excludeID 0 when creating.
func (q *Queries) SlugExists(ctx context.Context, table Table, slug string, excludeID int64) (bool, error) {
	if !table.valid() {
		return false, fmt.Errorf("slug check: unknown table %q", table)
	}
	n, err := q.queryInt64(ctx, "slug_exists",
		"SELECT COUNT(*) FROM "+string(table)+" WHERE slug = ? AND id != ?", slug, excludeID)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
