// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID    int64             `json:"id"`
	Title map[string]string `json:"title"`
}

func TestTyped_GetOrLoad(t *testing.T) {
	mc := NewMemoryCache(time.Minute, 0)
	defer func() { _ = mc.Close() }()
	tc := NewTyped[[]item](mc)
	ctx := context.Background()

	calls := 0
	load := func(context.Context) ([]item, error) {
		calls++
		return []item{{ID: 1, Title: map[string]string{"en": "Web", "ar": "ويب"}}}, nil
	}

	first, err := tc.GetOrLoad(ctx, "list:services", load)
	require.NoError(t, err)
	second, err := tc.GetOrLoad(ctx, "list:services", load)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)
	assert.Equal(t, "ويب", second[0].Title["ar"])
}

func TestTyped_LoadErrorNotCached(t *testing.T) {
	mc := NewMemoryCache(time.Minute, 0)
	defer func() { _ = mc.Close() }()
	tc := NewTyped[[]item](mc)
	ctx := context.Background()

	boom := errors.New("boom")
	_, err := tc.GetOrLoad(ctx, "k", func(context.Context) ([]item, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	_, ok := tc.Get(ctx, "k")
	assert.False(t, ok)
}

func TestTyped_CorruptEntryDropped(t *testing.T) {
	mc := NewMemoryCache(time.Minute, 0)
	defer func() { _ = mc.Close() }()
	ctx := context.Background()

	require.NoError(t, mc.Set(ctx, "k", []byte("{not json"), 0))

	_, ok := NewTyped[[]item](mc).Get(ctx, "k")
	assert.False(t, ok)

	_, err := mc.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}
