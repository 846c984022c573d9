// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"context"
	"fmt"

	"github.com/olegiv/agency-go/internal/model"
)

const teamMemberColumns = `id, name, position, bio, image, social_links, display_order, created_at, updated_at`

func scanTeamMember(s scanner) (model.TeamMember, error) {
	var m model.TeamMember
	err := s.Scan(
		&m.ID, &m.Name, &m.Position, &m.Bio, &m.Image, &m.SocialLinks,
		&m.DisplayOrder, &m.CreatedAt, &m.UpdatedAt,
	)
	return m, err
}

// ListTeamMembers returns all team members by display order.
func (q *Queries) ListTeamMembers(ctx context.Context) ([]model.TeamMember, error) {
	return queryAll(ctx, q, "list_team_members",
		`SELECT `+teamMemberColumns+` FROM team_members ORDER BY display_order ASC, id ASC`, scanTeamMember)
}

// GetTeamMemberByID returns the team member with the given id.
func (q *Queries) GetTeamMemberByID(ctx context.Context, id int64) (model.TeamMember, error) {
	return queryOne(ctx, q, "get_team_member",
		`SELECT `+teamMemberColumns+` FROM team_members WHERE id = ?`, scanTeamMember, id)
}

// CreateTeamMember inserts a team member and returns the stored row.
func (q *Queries) CreateTeamMember(ctx context.Context, in model.TeamMemberInput) (model.TeamMember, error) {
	ts := q.now()
	links := in.SocialLinks
	if links == nil {
		links = model.SocialLinks{}
	}
	id, err := q.insert(ctx, "create_team_member",
		`INSERT INTO team_members (name, position, bio, image, social_links, display_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		in.Name, in.Position, in.Bio, in.Image, links, in.DisplayOrder, ts, ts,
	)
	if err != nil {
		return model.TeamMember{}, err
	}
	return q.GetTeamMemberByID(ctx, id)
}

// UpdateTeamMember applies the non-nil fields of p and returns the stored row.
func (q *Queries) UpdateTeamMember(ctx context.Context, id int64, p model.TeamMemberPatch) (model.TeamMember, error) {
	var patch Patch
	if p.Name != nil {
		patch.Set("name", *p.Name)
	}
	if p.Position != nil {
		patch.Set("position", *p.Position)
	}
	if p.Bio != nil {
		patch.Set("bio", *p.Bio)
	}
	if p.Image != nil {
		patch.Set("image", *p.Image)
	}
	if p.SocialLinks != nil {
		patch.Set("social_links", *p.SocialLinks)
	}
	if p.DisplayOrder != nil {
		patch.Set("display_order", *p.DisplayOrder)
	}

	if err := q.update(ctx, "update_team_member", "team_members", id, &patch); err != nil {
		return model.TeamMember{}, err
	}
	return q.GetTeamMemberByID(ctx, id)
}

// DeleteTeamMember removes a team member and returns it as it was before deletion.
func (q *Queries) DeleteTeamMember(ctx context.Context, id int64) (model.TeamMember, error) {
	var prior model.TeamMember
	err := q.inTx(ctx, func(tx *Queries) error {
		var err error
		if prior, err = tx.GetTeamMemberByID(ctx, id); err != nil {
			return err
		}
		return tx.deleteByID(ctx, "delete_team_member", "team_members", id)
	})
	if err != nil {
		return model.TeamMember{}, fmt.Errorf("deleting team member %d: %w", id, err)
	}
	return prior, nil
}

// CountTeamMembers returns the number of team members.
func (q *Queries) CountTeamMembers(ctx context.Context) (int64, error) {
	return q.queryInt64(ctx, "count_team_members", `SELECT COUNT(*) FROM team_members`)
}
