// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"context"
	"net/http"

	"github.com/olegiv/agency-go/internal/model"
	"github.com/olegiv/agency-go/internal/service"
)

const entityTeamMember = "team member"

// ListTeam handles GET /api/team.
func (h *Handler) ListTeam(w http.ResponseWriter, r *http.Request) {
	var (
		items []model.TeamMember
		err   error
	)
	if isAdmin(r) || h.content == nil {
		items, err = h.queries.ListTeamMembers(r.Context())
	} else {
		items, err = h.content.Team(r.Context())
	}
	if err != nil {
		writeError(w, r, entityTeamMember, err)
		return
	}
	WriteList(w, items)
}

// GetTeamMember handles GET /api/team/{id}.
func (h *Handler) GetTeamMember(w http.ResponseWriter, r *http.Request) {
	if m, ok := fetchByID(w, r, entityTeamMember, h.queries.GetTeamMemberByID); ok {
		WriteSuccess(w, m)
	}
}

func parseTeamMemberPatch(p *payload, creating bool) model.TeamMemberPatch {
	req := nonEmpty
	if creating {
		req = mandatory
	}
	return model.TeamMemberPatch{
		Name:         p.str("name", req, "max=200"),
		Position:     p.text("position", req),
		Bio:          p.text("bio", optional),
		Image:        p.str("image", optional, "max=500"),
		SocialLinks:  p.socialLinks("social_links"),
		DisplayOrder: p.integer("display_order"),
	}
}

// CreateTeamMember handles POST /api/team.
func (h *Handler) CreateTeamMember(w http.ResponseWriter, r *http.Request) {
	p, err := decodePayload(w, r)
	if err == nil {
		var m model.TeamMember
		if m, err = h.createTeamMember(r.Context(), p); err == nil {
			WriteCreated(w, m)
			return
		}
	}
	writeError(w, r, entityTeamMember, err)
}

// UpdateTeamMember handles PUT /api/team/{id}.
func (h *Handler) UpdateTeamMember(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeError(w, r, entityTeamMember, err)
		return
	}
	p, err := decodePayload(w, r)
	if err == nil {
		var m model.TeamMember
		if m, err = h.updateTeamMember(r.Context(), id, p); err == nil {
			WriteSuccess(w, m)
			return
		}
	}
	writeError(w, r, entityTeamMember, err)
}

func (h *Handler) createTeamMember(ctx context.Context, p *payload) (model.TeamMember, error) {
	patch := parseTeamMemberPatch(p, true)
	if err := p.errs.Err(); err != nil {
		return model.TeamMember{}, err
	}

	m, err := h.queries.CreateTeamMember(ctx, model.TeamMemberInput{
		Name:         *patch.Name,
		Position:     *patch.Position,
		Bio:          deref(patch.Bio),
		Image:        deref(patch.Image),
		SocialLinks:  deref(patch.SocialLinks),
		DisplayOrder: deref(patch.DisplayOrder),
	})
	if err != nil {
		return model.TeamMember{}, err
	}
	h.invalidate(ctx, service.EntityTeam)
	return m, nil
}

func (h *Handler) updateTeamMember(ctx context.Context, id int64, p *payload) (model.TeamMember, error) {
	patch := parseTeamMemberPatch(p, false)
	if err := p.errs.Err(); err != nil {
		return model.TeamMember{}, err
	}

	m, err := h.queries.UpdateTeamMember(ctx, id, patch)
	if err != nil {
		return model.TeamMember{}, err
	}
	h.invalidate(ctx, service.EntityTeam)
	return m, nil
}

// DeleteTeamMember handles DELETE /api/team/{id}.
func (h *Handler) DeleteTeamMember(w http.ResponseWriter, r *http.Request) {
	m, ok := fetchByID(w, r, entityTeamMember, h.queries.DeleteTeamMember)
	if !ok {
		return
	}
	h.invalidate(r.Context(), service.EntityTeam)
	WriteSuccess(w, m)
}
