// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"

	"github.com/olegiv/agency-go/internal/model"
)

const serviceColumns = `id, title, short_description, description, slug, icon, created_at, updated_at`

func scanService(s scanner) (model.Service, error) {
	var svc model.Service
	err := s.Scan(
		&svc.ID, &svc.Title, &svc.ShortDescription, &svc.Description,
		&svc.Slug, &svc.Icon, &svc.CreatedAt, &svc.UpdatedAt,
	)
	return svc, err
}

// ListServices returns all services in creation order.
func (q *Queries) ListServices(ctx context.Context) ([]model.Service, error) {
	return queryAll(ctx, q, "list_services",
		`SELECT `+serviceColumns+` FROM services ORDER BY created_at ASC, id ASC`, scanService)
}

// GetServiceByID returns the service with the given id.
func (q *Queries) GetServiceByID(ctx context.Context, id int64) (model.Service, error) {
	return queryOne(ctx, q, "get_service",
		`SELECT `+serviceColumns+` FROM services WHERE id = ?`, scanService, id)
}

// GetServiceBySlug returns the service with the given slug.
func (q *Queries) GetServiceBySlug(ctx context.Context, slug string) (model.Service, error) {
	return queryOne(ctx, q, "get_service_by_slug",
		`SELECT `+serviceColumns+` FROM services WHERE slug = ?`, scanService, slug)
}

// CreateService inserts a service and returns the stored row.
func (q *Queries) CreateService(ctx context.Context, in model.ServiceInput) (model.Service, error) {
	ts := q.now()
	id, err := q.insert(ctx, "create_service",
		`INSERT INTO services (title, short_description, description, slug, icon, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		in.Title, in.ShortDescription, in.Description, in.Slug, in.Icon, ts, ts,
	)
	if err != nil {
		return model.Service{}, err
	}
	return q.GetServiceByID(ctx, id)
}

// UpdateService applies the non-nil fields of p and returns the stored row.
func (q *Queries) UpdateService(ctx context.Context, id int64, p model.ServicePatch) (model.Service, error) {
	var patch Patch
	if p.Title != nil {
		patch.Set("title", *p.Title)
	}
	if p.Slug != nil {
		patch.Set("slug", *p.Slug)
	}
	if p.ShortDescription != nil {
		patch.Set("short_description", *p.ShortDescription)
	}
	if p.Description != nil {
		patch.Set("description", *p.Description)
	}
	if p.Icon != nil {
		patch.Set("icon", *p.Icon)
	}

	if err := q.update(ctx, "update_service", "services", id, &patch); err != nil {
		return model.Service{}, err
	}
	return q.GetServiceByID(ctx, id)
}

// DeleteService removes a service and returns it as it was before deletion.
func (q *Queries) DeleteService(ctx context.Context, id int64) (model.Service, error) {
	var prior model.Service
	err := q.inTx(ctx, func(tx *Queries) error {
		var err error
		if prior, err = tx.GetServiceByID(ctx, id); err != nil {
			return err
		}
		return tx.deleteByID(ctx, "delete_service", "services", id)
	})
	if err != nil {
		return model.Service{}, fmt.Errorf("deleting service %d: %w", id, err)
	}
	return prior, nil
}

// CountServices returns the number of services.
func (q *Queries) CountServices(ctx context.Context) (int64, error) {
	return q.queryInt64(ctx, "count_services", `SELECT COUNT(*) FROM services`)
}
