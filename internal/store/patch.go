// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"strings"
	"time"
)

// Patch is an ordered list of column assignments for a partial update.
// Column names come from code, never from request input; values are always
// bound as parameters.
type Patch struct {
	cols []string
	args []any
}

// Set appends an assignment.
func (p *Patch) Set(col string, v any) {
	p.cols = append(p.cols, col)
	p.args = append(p.args, v)
}

// Len returns the number of assignments, excluding updated_at.
func (p *Patch) Len() int {
	return len(p.cols)
}

// Has reports whether col is assigned.
func (p *Patch) Has(col string) bool {
	for _, c := range p.cols {
		if c == col {
			return true
		}
	}
	return false
}

// Build renders the UPDATE statement for the row with the given id. The
// updated_at column is always refreshed.
func (p *Patch) Build(table string, id int64, updatedAt time.Time) (string, []any) {
	var b strings.Builder
	b.WriteString("UPDATE ")
	b.WriteString(table)
	b.WriteString(" SET ")

	args := make([]any, 0, len(p.args)+2)
	for i, col := range p.cols {
		b.WriteString(col)
		b.WriteString(" = ?, ")
		args = append(args, p.args[i])
	}
	b.WriteString("updated_at = ? WHERE id = ?")
	args = append(args, updatedAt, id)

	return b.String(), args
}
