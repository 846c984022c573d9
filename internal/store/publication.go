// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"database/sql"
	"time"

	"github.com/olegiv/agency-go/internal/model"
)

// initialPublication resolves status and published_at for a new row:
// a published row always carries a timestamp and a draft never does.
func initialPublication(st model.Status, at *time.Time, now time.Time) (model.Status, any) {
	if st != model.StatusPublished {
		return model.StatusDraft, nil
	}
	if at != nil {
		return st, at.UTC()
	}
	return st, now
}

// patchPublication adds the status and published_at assignments a partial
// update needs. Publishing keeps an existing published_at, so repeated
// publishes do not move the timestamp; unpublishing clears it.
func patchPublication(p *Patch, cur model.Status, curAt *time.Time, st *model.Status, at *sql.NullTime, now time.Time) {
	final := cur
	if st != nil {
		final = *st
		p.Set("status", string(final))
	}

	if final == model.StatusPublished {
		switch {
		case at != nil && at.Valid:
			p.Set("published_at", at.Time.UTC())
		case curAt == nil:
			p.Set("published_at", now)
		}
		return
	}

	if curAt != nil || at != nil {
		p.Set("published_at", nil)
	}
}
