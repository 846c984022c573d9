// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package store is the data-access layer: schema migrations, the shared
// connection pool and per-entity queries over localized content.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var queryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "agency_db_query_duration_seconds",
		Help:    "Duration of database statements",
		Buckets: prometheus.DefBuckets,
	},
	[]string{"op"},
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txBeginner interface {
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

// Queries runs the application's statements against a pool or transaction.
type Queries struct {
	db  DBTX
	now func() time.Time
}

// New creates a Queries bound to db.
func New(db DBTX) *Queries {
	return &Queries{db: db, now: now}
}

// WithTx returns a copy of q bound to tx.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx, now: q.now}
}

// now returns the current time at the precision every supported backend stores.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// inTx runs fn inside a transaction. When q is already bound to a
// transaction fn runs on it directly.
func (q *Queries) inTx(ctx context.Context, fn func(*Queries) error) error {
	b, ok := q.db.(txBeginner)
	if !ok {
		return fn(q)
	}

	tx, err := b.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := fn(q.WithTx(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// observe logs a finished statement and records its duration.
func observe(ctx context.Context, op, query string, start time.Time, rows int64, err error) {
	elapsed := time.Since(start)
	queryDuration.WithLabelValues(op).Observe(elapsed.Seconds())

	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		slog.LogAttrs(ctx, slog.LevelDebug, "query failed",
			slog.String("op", op),
			slog.String("query", query),
			slog.Duration("duration", elapsed),
			slog.String("error", err.Error()),
		)
		return
	}
	slog.LogAttrs(ctx, slog.LevelDebug, "query",
		slog.String("op", op),
		slog.String("query", query),
		slog.Duration("duration", elapsed),
		slog.Int64("rows", rows),
	)
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func (q *Queries) exec(ctx context.Context, op, query string, args ...any) (sql.Result, error) {
	start := time.Now()
	res, err := q.db.ExecContext(ctx, query, args...)
	var n int64
	if err == nil {
		n, _ = res.RowsAffected()
	}
	observe(ctx, op, query, start, n, err)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return res, nil
}

// queryAll runs a query and scans every row. The result is never nil.
func queryAll[T any](ctx context.Context, q *Queries, op, query string, scan func(scanner) (T, error), args ...any) ([]T, error) {
	start := time.Now()
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		observe(ctx, op, query, start, 0, err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() { _ = rows.Close() }()

	items := make([]T, 0)
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			observe(ctx, op, query, start, int64(len(items)), err)
			return nil, fmt.Errorf("%s: scanning row: %w", op, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		observe(ctx, op, query, start, int64(len(items)), err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	observe(ctx, op, query, start, int64(len(items)), nil)
	return items, nil
}

// queryOne runs a single-row query. A missing row yields ErrNotFound.
func queryOne[T any](ctx context.Context, q *Queries, op, query string, scan func(scanner) (T, error), args ...any) (T, error) {
	start := time.Now()
	item, err := scan(q.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		observe(ctx, op, query, start, 0, nil)
		var zero T
		return zero, ErrNotFound
	}
	if err != nil {
		observe(ctx, op, query, start, 0, err)
		var zero T
		return zero, fmt.Errorf("%s: %w", op, err)
	}
	observe(ctx, op, query, start, 1, nil)
	return item, nil
}

// queryInt64 runs a query returning a single integer, such as a COUNT.
func (q *Queries) queryInt64(ctx context.Context, op, query string, args ...any) (int64, error) {
	return queryOne(ctx, q, op, query, func(s scanner) (int64, error) {
		var n int64
		err := s.Scan(&n)
		return n, err
	}, args...)
}

// insert runs an INSERT and returns the generated id.
func (q *Queries) insert(ctx context.Context, op, query string, args ...any) (int64, error) {
	res, err := q.exec(ctx, op, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, fmt.Errorf("%s: %w", op, ErrDuplicate)
		}
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("%s: reading insert id: %w", op, err)
	}
	return id, nil
}

// nullTimePtr converts a scanned nullable time into a pointer.
func nullTimePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// nullInt64Ptr converts a scanned nullable integer into a pointer.
func nullInt64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

// update applies p to the row with the given id.
func (q *Queries) update(ctx context.Context, op, table string, id int64, p *Patch) error {
	query, args := p.Build(table, id, q.now())
	res, err := q.exec(ctx, op, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%s: %w", op, ErrDuplicate)
		}
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

// deleteByID hard-deletes the row with the given id.
func (q *Queries) deleteByID(ctx context.Context, op, table string, id int64) error {
	res, err := q.exec(ctx, op, "DELETE FROM "+table+" WHERE id = ?", id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}
