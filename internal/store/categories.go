// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"

	"github.com/olegiv/agency-go/internal/locale"
	"github.com/olegiv/agency-go/internal/model"
)

const categoryColumns = `id, name, description, slug, created_at, updated_at`

func scanCategory(s scanner) (model.Category, error) {
	var c model.Category
	err := s.Scan(&c.ID, &c.Name, &c.Description, &c.Slug, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// ListCategories returns all categories in creation order.
func (q *Queries) ListCategories(ctx context.Context) ([]model.Category, error) {
	return queryAll(ctx, q, "list_categories",
		`SELECT `+categoryColumns+` FROM categories ORDER BY created_at ASC, id ASC`, scanCategory)
}

// GetCategoryByID returns the category with the given id.
func (q *Queries) GetCategoryByID(ctx context.Context, id int64) (model.Category, error) {
	return queryOne(ctx, q, "get_category",
		`SELECT `+categoryColumns+` FROM categories WHERE id = ?`, scanCategory, id)
}

// GetCategoryBySlug returns the category with the given slug.
func (q *Queries) GetCategoryBySlug(ctx context.Context, slug string) (model.Category, error) {
	return queryOne(ctx, q, "get_category_by_slug",
		`SELECT `+categoryColumns+` FROM categories WHERE slug = ?`, scanCategory, slug)
}

// CreateCategory inserts a category and returns the stored row.
func (q *Queries) CreateCategory(ctx context.Context, in model.CategoryInput) (model.Category, error) {
	ts := q.now()
	id, err := q.insert(ctx, "create_category",
		`INSERT INTO categories (name, description, slug, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		in.Name, in.Description, in.Slug, ts, ts,
	)
	if err != nil {
		return model.Category{}, err
	}
	return q.GetCategoryByID(ctx, id)
}

// UpdateCategory applies the non-nil fields of p and returns the stored row.
func (q *Queries) UpdateCategory(ctx context.Context, id int64, p model.CategoryPatch) (model.Category, error) {
	var patch Patch
	if p.Name != nil {
		patch.Set("name", *p.Name)
	}
	if p.Description != nil {
		patch.Set("description", *p.Description)
	}
	if p.Slug != nil {
		patch.Set("slug", *p.Slug)
	}

	if err := q.update(ctx, "update_category", "categories", id, &patch); err != nil {
		return model.Category{}, err
	}
	return q.GetCategoryByID(ctx, id)
}

// DeleteCategory removes a category that no project references. When
// projects still use it a *CategoryInUseError is returned and nothing is
// deleted.
func (q *Queries) DeleteCategory(ctx context.Context, id int64) (model.Category, error) {
	var prior model.Category
	err := q.inTx(ctx, func(tx *Queries) error {
		var err error
		if prior, err = tx.GetCategoryByID(ctx, id); err != nil {
			return err
		}
		if err := tx.checkCategoryUnused(ctx, id); err != nil {
			return err
		}
		return tx.deleteByID(ctx, "delete_category", "categories", id)
	})
	if err != nil {
		return model.Category{}, fmt.Errorf("deleting category %d: %w", id, err)
	}
	return prior, nil
}

func (q *Queries) checkCategoryUnused(ctx context.Context, id int64) error {
	count, err := q.queryInt64(ctx, "count_category_projects",
		`SELECT COUNT(*) FROM projects WHERE category_id = ?`, id)
	if err != nil {
		return err
	}
	if count == 0 {
		return nil
	}

	titles, err := queryAll(ctx, q, "list_category_project_titles",
		`SELECT title FROM projects WHERE category_id = ? ORDER BY created_at ASC, id ASC LIMIT ?`,
		func(s scanner) (string, error) {
			var t locale.Text
			if err := s.Scan(&t); err != nil {
				return "", err
			}
			return t.Get(locale.Default), nil
		}, id, maxBlockingTitles)
	if err != nil {
		return err
	}

	return &CategoryInUseError{Count: count, Titles: titles}
}

// CountCategories returns the number of categories.
func (q *Queries) CountCategories(ctx context.Context) (int64, error) {
	return q.queryInt64(ctx, "count_categories", `SELECT COUNT(*) FROM categories`)
}
