// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

//go:build integration

package site_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/platform/testkit"
	"github.com/taibuivan/folio/internal/site"
	"github.com/taibuivan/folio/pkg/uuid"
)

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	cache := site.NewRedisCache(testkit.Redis(t))
	key := "0:/books/" + uuid.New() + "|page=|format="

	_, err := cache.Get(ctx, key)
	assert.True(t, errors.Is(err, site.ErrCacheMiss))

	require.NoError(t, cache.Set(ctx, key, []byte(`{"body":"x"}`), time.Minute))
	value, err := cache.Get(ctx, key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"body":"x"}`, string(value))

	before, err := cache.Generation(ctx)
	require.NoError(t, err)
	require.NoError(t, cache.Invalidate(ctx))
	after, err := cache.Generation(ctx)
	require.NoError(t, err)
	assert.Greater(t, after, before)
}
