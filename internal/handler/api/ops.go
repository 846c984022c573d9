// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/olegiv/agency-go/internal/model"
	"github.com/olegiv/agency-go/internal/service"
)

// Resource names a managed collection by its path below /api.
type Resource string

// Managed collections.
const (
	ResourceServices   Resource = "services"
	ResourceCategories Resource = "categories"
	ResourceProjects   Resource = "projects"
	ResourcePosts      Resource = "posts"
	ResourceTeam       Resource = "team"
)

// ErrUnknownResource is returned for an operation a resource does not support.
var ErrUnknownResource = errors.New("unknown resource")

// Publishable reports whether rows of res carry a draft/published status.
func (res Resource) Publishable() bool {
	return res == ResourceProjects || res == ResourcePosts
}

func (res Resource) entity() string {
	switch res {
	case ResourceServices:
		return entityService
	case ResourceCategories:
		return entityCategory
	case ResourceProjects:
		return entityProject
	case ResourcePosts:
		return entityPost
	case ResourceTeam:
		return entityTeamMember
	}
	return string(res)
}

// cacheEntity is the cache key prefix of res.
func (res Resource) cacheEntity() string {
	switch res {
	case ResourceServices:
		return service.EntityServices
	case ResourceCategories:
		return service.EntityCategories
	case ResourceProjects:
		return service.EntityProjects
	case ResourcePosts:
		return service.EntityPosts
	}
	return service.EntityTeam
}

// Fields is an object body keyed by member name, in the shape the JSON
// routes accept.
type Fields map[string]json.RawMessage

// Save creates a row of res when id is 0 and updates row id otherwise, with
// the same validation as the JSON routes. authorID is the default author of
// a new blog post. It returns the id of the saved row.
func (h *Handler) Save(ctx context.Context, res Resource, id int64, f Fields, authorID int64) (int64, error) {
	if f == nil {
		f = Fields{}
	}
	p := &payload{raw: f, errs: &ValidationError{Message: "validation failed"}}

	switch res {
	case ResourceServices:
		return save(ctx, id, p, h.createService, h.updateService, func(s model.Service) int64 { return s.ID })
	case ResourceCategories:
		return save(ctx, id, p, h.createCategory, h.updateCategory, func(c model.Category) int64 { return c.ID })
	case ResourceProjects:
		return save(ctx, id, p, h.createProject, h.updateProject, func(pr model.Project) int64 { return pr.ID })
	case ResourcePosts:
		create := func(ctx context.Context, p *payload) (model.BlogPost, error) {
			return h.createPost(ctx, p, authorID)
		}
		return save(ctx, id, p, create, h.updatePost, func(b model.BlogPost) int64 { return b.ID })
	case ResourceTeam:
		return save(ctx, id, p, h.createTeamMember, h.updateTeamMember, func(m model.TeamMember) int64 { return m.ID })
	}
	return 0, ErrUnknownResource
}

func save[T any](ctx context.Context, id int64, p *payload,
	create func(context.Context, *payload) (T, error),
	update func(context.Context, int64, *payload) (T, error),
	idOf func(T) int64) (int64, error) {
	var (
		v   T
		err error
	)
	if id == 0 {
		v, err = create(ctx, p)
	} else {
		v, err = update(ctx, id, p)
	}
	if err != nil {
		return 0, err
	}
	return idOf(v), nil
}

// Remove deletes row id of res. Categories still referenced by projects
// are refused with a *store.CategoryInUseError.
func (h *Handler) Remove(ctx context.Context, res Resource, id int64) error {
	var err error
	switch res {
	case ResourceServices:
		_, err = h.queries.DeleteService(ctx, id)
	case ResourceCategories:
		_, err = h.queries.DeleteCategory(ctx, id)
	case ResourceProjects:
		_, err = h.queries.DeleteProject(ctx, id)
	case ResourcePosts:
		_, err = h.queries.DeleteBlogPost(ctx, id)
	case ResourceTeam:
		_, err = h.queries.DeleteTeamMember(ctx, id)
	default:
		return ErrUnknownResource
	}
	if err != nil {
		return err
	}
	h.invalidate(ctx, res.cacheEntity())
	return nil
}

// SetPublished publishes or unpublishes a project or blog post.
func (h *Handler) SetPublished(ctx context.Context, res Resource, id int64, published bool) error {
	var err error
	switch {
	case res == ResourceProjects && published:
		_, err = h.queries.PublishProject(ctx, id)
	case res == ResourceProjects:
		_, err = h.queries.UnpublishProject(ctx, id)
	case res == ResourcePosts && published:
		_, err = h.queries.PublishBlogPost(ctx, id)
	case res == ResourcePosts:
		_, err = h.queries.UnpublishBlogPost(ctx, id)
	default:
		return ErrUnknownResource
	}
	if err != nil {
		return err
	}
	h.invalidate(ctx, res.cacheEntity())
	return nil
}

// Describe returns the status and body the JSON routes answer err with.
// A 500 carries only a generic message; the caller logs err.
func Describe(res Resource, err error) (int, ErrorResponse) {
	status, body, _ := describeError(res.entity(), err)
	return status, body
}
