// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/agency-go/internal/middleware"
	"github.com/olegiv/agency-go/internal/model"
	"github.com/olegiv/agency-go/internal/service"
	"github.com/olegiv/agency-go/internal/store"
)

const entityPost = "blog post"

// ListPosts handles GET /api/posts.
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var (
		items []model.BlogPost
		err   error
	)
	switch {
	case !isAdmin(r) && h.content != nil:
		items, err = h.content.PublishedPosts(ctx)
	case !isAdmin(r):
		items, err = h.queries.ListPublishedBlogPosts(ctx)
	default:
		var st model.Status
		if st, err = statusFilter(r); err == nil {
			if st == "" {
				items, err = h.queries.ListBlogPosts(ctx)
			} else {
				items, err = h.queries.ListBlogPostsByStatus(ctx, st)
			}
		}
	}
	if err != nil {
		writeError(w, r, entityPost, err)
		return
	}
	WriteList(w, items)
}

func visiblePost(r *http.Request, p model.BlogPost, err error) (model.BlogPost, error) {
	if err == nil && !p.IsPublished() && !isAdmin(r) {
		return model.BlogPost{}, errNotVisible
	}
	return p, err
}

// GetPost handles GET /api/posts/{id}.
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	p, ok := fetchByID(w, r, entityPost, h.queries.GetBlogPostByID)
	if !ok {
		return
	}
	p, err := visiblePost(r, p, nil)
	respond(w, r, entityPost, p, err)
}

// GetPostBySlug handles GET /api/posts/slug/{slug}.
func (h *Handler) GetPostBySlug(w http.ResponseWriter, r *http.Request) {
	p, err := h.queries.GetBlogPostBySlug(r.Context(), chi.URLParam(r, "slug"))
	p, err = visiblePost(r, p, err)
	respond(w, r, entityPost, p, err)
}

// parsePostPatch reads a blog post body. Post content is Markdown and is
// sanitized when rendered, so it is stored as given.
func parsePostPatch(p *payload, creating bool) model.BlogPostPatch {
	req := nonEmpty
	if creating {
		req = mandatory
	}
	patch := model.BlogPostPatch{
		Title:         p.text("title", req),
		Excerpt:       p.text("excerpt", optional),
		Content:       p.text("content", req),
		Slug:          p.str("slug", req, "slug"),
		FeaturedImage: p.str("featured_image", optional, "max=500"),
		Status:        p.status("status"),
		PublishedAt:   p.nullableTime("published_at"),
	}
	if id := p.nullableID("author_id"); id != nil {
		if !id.Valid {
			p.errs.Add("author_id", "author_id must be a positive integer")
		} else {
			patch.AuthorID = &id.Int64
		}
	}
	return patch
}

func (h *Handler) checkPostRefs(ctx context.Context, p *payload, patch model.BlogPostPatch, id int64) error {
	if patch.Slug != nil {
		if err := h.checkSlug(ctx, p, store.TableBlogPosts, *patch.Slug, id); err != nil {
			return err
		}
	}
	if patch.AuthorID != nil {
		_, err := h.queries.GetUserByID(ctx, *patch.AuthorID)
		if errors.Is(err, store.ErrNotFound) {
			p.errs.Add("author_id", "author not found")
		} else if err != nil {
			return err
		}
	}
	return nil
}

// CreatePost handles POST /api/posts. The author defaults to the caller.
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	p, err := decodePayload(w, r)
	if err == nil {
		var callerID int64
		if c := middleware.GetClaims(r); c != nil {
			callerID = c.UserID
		}
		var post model.BlogPost
		if post, err = h.createPost(r.Context(), p, callerID); err == nil {
			WriteCreated(w, post)
			return
		}
	}
	writeError(w, r, entityPost, err)
}

// UpdatePost handles PUT /api/posts/{id}.
func (h *Handler) UpdatePost(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, entityPost, err)
		return
	}
	p, err := decodePayload(w, r)
	if err == nil {
		var post model.BlogPost
		if post, err = h.updatePost(r.Context(), id, p); err == nil {
			WriteSuccess(w, post)
			return
		}
	}
	writeError(w, r, entityPost, err)
}

func (h *Handler) createPost(ctx context.Context, p *payload, callerID int64) (model.BlogPost, error) {
	patch := parsePostPatch(p, true)
	if err := h.checkPostRefs(ctx, p, patch, 0); err != nil {
		return model.BlogPost{}, err
	}
	if err := p.errs.Err(); err != nil {
		return model.BlogPost{}, err
	}

	in := model.BlogPostInput{
		Title:         *patch.Title,
		Excerpt:       deref(patch.Excerpt),
		Content:       *patch.Content,
		Slug:          *patch.Slug,
		FeaturedImage: deref(patch.FeaturedImage),
		AuthorID:      callerID,
		Status:        model.StatusDraft,
		PublishedAt:   timePtr(patch.PublishedAt),
	}
	if patch.Status != nil {
		in.Status = *patch.Status
	}
	if patch.AuthorID != nil {
		in.AuthorID = *patch.AuthorID
	}

	post, err := h.queries.CreateBlogPost(ctx, in)
	if err != nil {
		return model.BlogPost{}, err
	}
	h.invalidate(ctx, service.EntityPosts)
	return post, nil
}

func (h *Handler) updatePost(ctx context.Context, id int64, p *payload) (model.BlogPost, error) {
	patch := parsePostPatch(p, false)
	if err := h.checkPostRefs(ctx, p, patch, id); err != nil {
		return model.BlogPost{}, err
	}
	if err := p.errs.Err(); err != nil {
		return model.BlogPost{}, err
	}

	post, err := h.queries.UpdateBlogPost(ctx, id, patch)
	if err != nil {
		return model.BlogPost{}, err
	}
	h.invalidate(ctx, service.EntityPosts)
	return post, nil
}

// DeletePost handles DELETE /api/posts/{id}.
func (h *Handler) DeletePost(w http.ResponseWriter, r *http.Request) {
	h.mutatePost(w, r, h.queries.DeleteBlogPost)
}

// PublishPost handles POST /api/posts/{id}/publish.
func (h *Handler) PublishPost(w http.ResponseWriter, r *http.Request) {
	h.mutatePost(w, r, h.queries.PublishBlogPost)
}

// UnpublishPost handles DELETE /api/posts/{id}/publish.
func (h *Handler) UnpublishPost(w http.ResponseWriter, r *http.Request) {
	h.mutatePost(w, r, h.queries.UnpublishBlogPost)
}

func (h *Handler) mutatePost(w http.ResponseWriter, r *http.Request, fn func(context.Context, int64) (model.BlogPost, error)) {
	post, ok := fetchByID(w, r, entityPost, fn)
	if !ok {
		return
	}
	h.invalidate(r.Context(), service.EntityPosts)
	WriteSuccess(w, post)
}
