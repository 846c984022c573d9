// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package store

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a lookup, update or delete matches no row.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when a write violates a unique index.
var ErrDuplicate = errors.New("duplicate value")

// maxBlockingTitles bounds the project titles reported by CategoryInUseError.
const maxBlockingTitles = 3

// CategoryInUseError reports that a category cannot be deleted because
// projects still reference it.
type CategoryInUseError struct {
	Count  int64
	Titles []string
}

func (e *CategoryInUseError) Error() string {
	msg := fmt.Sprintf("category is used by %d project(s): %s", e.Count, strings.Join(e.Titles, ", "))
	if rest := e.Count - int64(len(e.Titles)); rest > 0 {
		msg += fmt.Sprintf(" and %d more", rest)
	}
	return msg
}

// Remaining is the number of blocking projects not named in Titles.
func (e *CategoryInUseError) Remaining() int64 {
	if rest := e.Count - int64(len(e.Titles)); rest > 0 {
		return rest
	}
	return 0
}

func isUniqueViolation(err error) bool {
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		return myErr.Number == 1062
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
