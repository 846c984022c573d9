// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Typed wraps a Cache with JSON encoding of T values.
type Typed[T any] struct {
	cache Cache
}

// NewTyped creates a Typed view over c.
func NewTyped[T any](c Cache) *Typed[T] {
	return &Typed[T]{cache: c}
}

// Get returns the cached value and true on a hit.
func (t *Typed[T]) Get(ctx context.Context, key string) (T, bool) {
	var value T
	data, err := t.cache.Get(ctx, key)
	if err != nil {
		return value, false
	}
	if err := json.Unmarshal(data, &value); err != nil {
		slog.Warn("dropping undecodable cache entry", "key", key, "error", err)
		_ = t.cache.Delete(ctx, key)
		return value, false
	}
	return value, true
}

// Set stores value with the cache's default TTL.
func (t *Typed[T]) Set(ctx context.Context, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return t.cache.Set(ctx, key, data, 0)
}

// GetOrLoad returns the cached value or calls load and caches its result.
// Load errors are returned and nothing is cached; cache write errors are
// logged and ignored.
func (t *Typed[T]) GetOrLoad(ctx context.Context, key string, load func(context.Context) (T, error)) (T, error) {
	if v, ok := t.Get(ctx, key); ok {
		return v, nil
	}

	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	if err := t.Set(ctx, key, v); err != nil {
		slog.Warn("cache write failed", "key", key, "error", err)
	}
	return v, nil
}
