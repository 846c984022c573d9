// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/olegiv/agency-go/internal/model"
)

const projectColumns = `id, title, description, content, slug, featured_image, client,
	category_id, status, published_at, created_at, updated_at`

func scanProject(s scanner) (model.Project, error) {
	var (
		p           model.Project
		categoryID  sql.NullInt64
		publishedAt sql.NullTime
		status      string
	)
	err := s.Scan(
		&p.ID, &p.Title, &p.Description, &p.Content, &p.Slug, &p.FeaturedImage, &p.Client,
		&categoryID, &status, &publishedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	p.CategoryID = nullInt64Ptr(categoryID)
	p.PublishedAt = nullTimePtr(publishedAt)
	p.Status = model.Status(status)
	return p, err
}

// ListProjects returns all projects, newest first, regardless of status.
func (q *Queries) ListProjects(ctx context.Context) ([]model.Project, error) {
	return queryAll(ctx, q, "list_projects",
		`SELECT `+projectColumns+` FROM projects ORDER BY created_at DESC, id DESC`, scanProject)
}

// ListProjectsByStatus returns the projects with the given status, newest first.
func (q *Queries) ListProjectsByStatus(ctx context.Context, status model.Status) ([]model.Project, error) {
	return queryAll(ctx, q, "list_projects_by_status",
		`SELECT `+projectColumns+` FROM projects WHERE status = ? ORDER BY created_at DESC, id DESC`,
		scanProject, string(status))
}

// ListPublishedProjects returns the publicly visible projects, newest first.
func (q *Queries) ListPublishedProjects(ctx context.Context) ([]model.Project, error) {
	return q.ListProjectsByStatus(ctx, model.StatusPublished)
}

// GetProjectByID returns the project with the given id.
func (q *Queries) GetProjectByID(ctx context.Context, id int64) (model.Project, error) {
	return queryOne(ctx, q, "get_project",
		`SELECT `+projectColumns+` FROM projects WHERE id = ?`, scanProject, id)
}

// GetProjectBySlug returns the project with the given slug.
func (q *Queries) GetProjectBySlug(ctx context.Context, slug string) (model.Project, error) {
	return queryOne(ctx, q, "get_project_by_slug",
		`SELECT `+projectColumns+` FROM projects WHERE slug = ?`, scanProject, slug)
}

// CreateProject inserts a project and returns the stored row.
func (q *Queries) CreateProject(ctx context.Context, in model.ProjectInput) (model.Project, error) {
	ts := q.now()
	status, publishedAt := initialPublication(in.Status, in.PublishedAt, ts)

	var categoryID any
	if in.CategoryID != nil {
		categoryID = *in.CategoryID
	}

	id, err := q.insert(ctx, "create_project",
		`INSERT INTO projects (title, description, content, slug, featured_image, client,
			category_id, status, published_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Title, in.Description, in.Content, in.Slug, in.FeaturedImage, in.Client,
		categoryID, string(status), publishedAt, ts, ts,
	)
	if err != nil {
		return model.Project{}, err
	}
	return q.GetProjectByID(ctx, id)
}

// UpdateProject applies the non-nil fields of p and returns the stored row.
// Status changes keep published_at consistent with the final status.
func (q *Queries) UpdateProject(ctx context.Context, id int64, p model.ProjectPatch) (model.Project, error) {
	var updated model.Project
	err := q.inTx(ctx, func(tx *Queries) error {
		cur, err := tx.GetProjectByID(ctx, id)
		if err != nil {
			return err
		}

		var patch Patch
		if p.Title != nil {
			patch.Set("title", *p.Title)
		}
		if p.Description != nil {
			patch.Set("description", *p.Description)
		}
		if p.Content != nil {
			patch.Set("content", *p.Content)
		}
		if p.Slug != nil {
			patch.Set("slug", *p.Slug)
		}
		if p.FeaturedImage != nil {
			patch.Set("featured_image", *p.FeaturedImage)
		}
		if p.Client != nil {
			patch.Set("client", *p.Client)
		}
		if p.CategoryID != nil {
			patch.Set("category_id", *p.CategoryID)
		}
		patchPublication(&patch, cur.Status, cur.PublishedAt, p.Status, p.PublishedAt, tx.now())

		if err := tx.update(ctx, "update_project", "projects", id, &patch); err != nil {
			return err
		}
		updated, err = tx.GetProjectByID(ctx, id)
		return err
	})
	if err != nil {
		return model.Project{}, fmt.Errorf("updating project %d: %w", id, err)
	}
	return updated, nil
}

// PublishProject marks a project published. An existing published_at is kept.
func (q *Queries) PublishProject(ctx context.Context, id int64) (model.Project, error) {
	status := model.StatusPublished
	return q.UpdateProject(ctx, id, model.ProjectPatch{Status: &status})
}

// UnpublishProject returns a project to draft and clears published_at.
func (q *Queries) UnpublishProject(ctx context.Context, id int64) (model.Project, error) {
	status := model.StatusDraft
	return q.UpdateProject(ctx, id, model.ProjectPatch{Status: &status})
}

// DeleteProject removes a project and returns it as it was before deletion.
func (q *Queries) DeleteProject(ctx context.Context, id int64) (model.Project, error) {
	var prior model.Project
	err := q.inTx(ctx, func(tx *Queries) error {
		var err error
		if prior, err = tx.GetProjectByID(ctx, id); err != nil {
			return err
		}
		return tx.deleteByID(ctx, "delete_project", "projects", id)
	})
	if err != nil {
		return model.Project{}, fmt.Errorf("deleting project %d: %w", id, err)
	}
	return prior, nil
}

// CountProjects returns the number of projects.
func (q *Queries) CountProjects(ctx context.Context) (int64, error) {
	return q.queryInt64(ctx, "count_projects", `SELECT COUNT(*) FROM projects`)
}
