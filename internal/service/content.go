// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package service

import (
	"context"
	"log/slog"

	"github.com/olegiv/agency-go/internal/cache"
	"github.com/olegiv/agency-go/internal/model"
	"github.com/olegiv/agency-go/internal/store"
)

// Entity names, used as cache key prefixes.
const (
	EntityServices   = "services"
	EntityCategories = "categories"
	EntityProjects   = "projects"
	EntityPosts      = "posts"
	EntityTeam       = "team"
)

// ContentService serves the public (anonymous) view of the content tables
// through the response cache. Drafts never enter the cache.
type ContentService struct {
	queries    *store.Queries
	cache      cache.Cache
	services   *cache.Typed[[]model.Service]
	categories *cache.Typed[[]model.Category]
	projects   *cache.Typed[[]model.Project]
	posts      *cache.Typed[[]model.BlogPost]
	team       *cache.Typed[[]model.TeamMember]
}

// NewContentService creates a ContentService over c.
func NewContentService(q *store.Queries, c cache.Cache) *ContentService {
	return &ContentService{
		queries:    q,
		cache:      c,
		services:   cache.NewTyped[[]model.Service](c),
		categories: cache.NewTyped[[]model.Category](c),
		projects:   cache.NewTyped[[]model.Project](c),
		posts:      cache.NewTyped[[]model.BlogPost](c),
		team:       cache.NewTyped[[]model.TeamMember](c),
	}
}

func listKey(entity string) string {
	return entity + ":list"
}

// Services returns every service.
func (s *ContentService) Services(ctx context.Context) ([]model.Service, error) {
	return s.services.GetOrLoad(ctx, listKey(EntityServices), s.queries.ListServices)
}

// Categories returns every category.
func (s *ContentService) Categories(ctx context.Context) ([]model.Category, error) {
	return s.categories.GetOrLoad(ctx, listKey(EntityCategories), s.queries.ListCategories)
}

// PublishedProjects returns published projects, newest first.
func (s *ContentService) PublishedProjects(ctx context.Context) ([]model.Project, error) {
	return s.projects.GetOrLoad(ctx, listKey(EntityProjects), s.queries.ListPublishedProjects)
}

// PublishedPosts returns published blog posts, newest first.
func (s *ContentService) PublishedPosts(ctx context.Context) ([]model.BlogPost, error) {
	return s.posts.GetOrLoad(ctx, listKey(EntityPosts), s.queries.ListPublishedBlogPosts)
}

// Team returns team members in display order.
func (s *ContentService) Team(ctx context.Context) ([]model.TeamMember, error) {
	return s.team.GetOrLoad(ctx, listKey(EntityTeam), s.queries.ListTeamMembers)
}

// Invalidate drops every cached entry for entity. Failures are logged; the
// entry then expires with its TTL.
func (s *ContentService) Invalidate(ctx context.Context, entity string) {
	if err := s.cache.DeleteByPrefix(ctx, entity+":"); err != nil {
		slog.Warn("cache invalidation failed", "entity", entity, "error", err)
	}
}

// Stats returns cache statistics.
func (s *ContentService) Stats() cache.Stats {
	return s.cache.Stats()
}

// Clear drops the whole cache.
func (s *ContentService) Clear(ctx context.Context) error {
	return s.cache.Clear(ctx)
}
