// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/olegiv/agency-go/internal/model"
)

const blogPostSelect = `SELECT p.id, p.title, p.excerpt, p.content, p.slug, p.featured_image,
	p.author_id, COALESCE(u.name, ''), p.status, p.published_at, p.created_at, p.updated_at
	FROM blog_posts p LEFT JOIN users u ON u.id = p.author_id`

func scanBlogPost(s scanner) (model.BlogPost, error) {
	var (
		p           model.BlogPost
		publishedAt sql.NullTime
		status      string
	)
	err := s.Scan(
		&p.ID, &p.Title, &p.Excerpt, &p.Content, &p.Slug, &p.FeaturedImage,
		&p.AuthorID, &p.AuthorName, &status, &publishedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	p.PublishedAt = nullTimePtr(publishedAt)
	p.Status = model.Status(status)
	return p, err
}

// ListBlogPosts returns all posts, newest first, regardless of status.
func (q *Queries) ListBlogPosts(ctx context.Context) ([]model.BlogPost, error) {
	return queryAll(ctx, q, "list_blog_posts",
		blogPostSelect+` ORDER BY p.created_at DESC, p.id DESC`, scanBlogPost)
}

// ListBlogPostsByStatus returns the posts with the given status, newest first.
func (q *Queries) ListBlogPostsByStatus(ctx context.Context, status model.Status) ([]model.BlogPost, error) {
	return queryAll(ctx, q, "list_blog_posts_by_status",
		blogPostSelect+` WHERE p.status = ? ORDER BY p.created_at DESC, p.id DESC`,
		scanBlogPost, string(status))
}

// ListPublishedBlogPosts returns the publicly visible posts, newest first.
func (q *Queries) ListPublishedBlogPosts(ctx context.Context) ([]model.BlogPost, error) {
	return q.ListBlogPostsByStatus(ctx, model.StatusPublished)
}

// GetBlogPostByID returns the post with the given id.
func (q *Queries) GetBlogPostByID(ctx context.Context, id int64) (model.BlogPost, error) {
	return queryOne(ctx, q, "get_blog_post", blogPostSelect+` WHERE p.id = ?`, scanBlogPost, id)
}

// GetBlogPostBySlug returns the post with the given slug.
func (q *Queries) GetBlogPostBySlug(ctx context.Context, slug string) (model.BlogPost, error) {
	return queryOne(ctx, q, "get_blog_post_by_slug", blogPostSelect+` WHERE p.slug = ?`, scanBlogPost, slug)
}

// CreateBlogPost inserts a post and returns the stored row.
func (q *Queries) CreateBlogPost(ctx context.Context, in model.BlogPostInput) (model.BlogPost, error) {
	ts := q.now()
	status, publishedAt := initialPublication(in.Status, in.PublishedAt, ts)

	id, err := q.insert(ctx, "create_blog_post",
		`INSERT INTO blog_posts (title, excerpt, content, slug, featured_image, author_id,
			status, published_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Title, in.Excerpt, in.Content, in.Slug, in.FeaturedImage, in.AuthorID,
		string(status), publishedAt, ts, ts,
	)
	if err != nil {
		return model.BlogPost{}, err
	}
	return q.GetBlogPostByID(ctx, id)
}

// UpdateBlogPost applies the non-nil fields of p and returns the stored row.
func (q *Queries) UpdateBlogPost(ctx context.Context, id int64, p model.BlogPostPatch) (model.BlogPost, error) {
	var updated model.BlogPost
	err := q.inTx(ctx, func(tx *Queries) error {
		cur, err := tx.GetBlogPostByID(ctx, id)
		if err != nil {
			return err
		}

		var patch Patch
		if p.Title != nil {
			patch.Set("title", *p.Title)
		}
		if p.Excerpt != nil {
			patch.Set("excerpt", *p.Excerpt)
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
		if p.AuthorID != nil {
			patch.Set("author_id", *p.AuthorID)
		}
		patchPublication(&patch, cur.Status, cur.PublishedAt, p.Status, p.PublishedAt, tx.now())

		if err := tx.update(ctx, "update_blog_post", "blog_posts", id, &patch); err != nil {
			return err
		}
		updated, err = tx.GetBlogPostByID(ctx, id)
		return err
	})
	if err != nil {
		return model.BlogPost{}, fmt.Errorf("updating blog post %d: %w", id, err)
	}
	return updated, nil
}

// PublishBlogPost marks a post published. An existing published_at is kept.
func (q *Queries) PublishBlogPost(ctx context.Context, id int64) (model.BlogPost, error) {
	status := model.StatusPublished
	return q.UpdateBlogPost(ctx, id, model.BlogPostPatch{Status: &status})
}

// UnpublishBlogPost returns a post to draft and clears published_at.
func (q *Queries) UnpublishBlogPost(ctx context.Context, id int64) (model.BlogPost, error) {
	status := model.StatusDraft
	return q.UpdateBlogPost(ctx, id, model.BlogPostPatch{Status: &status})
}

// DeleteBlogPost removes a post and returns it as it was before deletion.
func (q *Queries) DeleteBlogPost(ctx context.Context, id int64) (model.BlogPost, error) {
	var prior model.BlogPost
	err := q.inTx(ctx, func(tx *Queries) error {
		var err error
		if prior, err = tx.GetBlogPostByID(ctx, id); err != nil {
			return err
		}
		return tx.deleteByID(ctx, "delete_blog_post", "blog_posts", id)
	})
	if err != nil {
		return model.BlogPost{}, fmt.Errorf("deleting blog post %d: %w", id, err)
	}
	return prior, nil
}

// CountBlogPosts returns the number of posts.
func (q *Queries) CountBlogPosts(ctx context.Context) (int64, error) {
	return q.queryInt64(ctx, "count_blog_posts", `SELECT COUNT(*) FROM blog_posts`)
}
