// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package site

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/folio/internal/core/activity"
	"github.com/taibuivan/folio/internal/platform/constants"
)

// ErrCacheMiss is returned by [Cache.Get] when nothing is stored under the key.
var ErrCacheMiss = errors.New("site: cache miss")

// Cache stores rendered responses and the content generation they belong to.
type Cache interface {
	Get(context context.Context, key string) ([]byte, error)
	Set(context context.Context, key string, value []byte, ttl time.Duration) error

	// Generation returns the current content generation, 0 when never bumped.
	Generation(context context.Context) (int64, error)

	// Invalidate moves to the next generation.
	Invalidate(context context.Context) error
}

// # Redis Cache

type redisCache struct {
	client redis.UniversalClient
}

// NewRedisCache constructs a Redis backed [Cache].
func NewRedisCache(client redis.UniversalClient) Cache {
	return &redisCache{client: client}
}

func (cache *redisCache) Get(context context.Context, key string) ([]byte, error) {
	value, err := cache.client.Get(context, constants.RedisPrefixSitePage+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis: failed to read site cache: %w", err)
	}
	return value, nil
}

func (cache *redisCache) Set(context context.Context, key string, value []byte, ttl time.Duration) error {
	if err := cache.client.Set(context, constants.RedisPrefixSitePage+key, value, ttl).Err(); err != nil {
		return fmt.Errorf("redis: failed to write site cache: %w", err)
	}
	return nil
}

func (cache *redisCache) Generation(context context.Context) (int64, error) {
	generation, err := cache.client.Get(context, constants.RedisKeySiteGen).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis: failed to read site generation: %w", err)
	}
	return generation, nil
}

func (cache *redisCache) Invalidate(context context.Context) error {
	if err := cache.client.Incr(context, constants.RedisKeySiteGen).Err(); err != nil {
		return fmt.Errorf("redis: failed to bump site generation: %w", err)
	}
	return nil
}

// # Invalidation

// InvalidatingRecorder is an [activity.Recorder] that also moves the site
// cache to a new generation. Every content mutation records activity, so the
// public site never serves a page rendered before the mutation.
type InvalidatingRecorder struct {
	next   activity.Recorder
	cache  Cache
	logger *slog.Logger
}

// NewInvalidatingRecorder wraps next. A nil next only invalidates.
func NewInvalidatingRecorder(next activity.Recorder, cache Cache, logger *slog.Logger) *InvalidatingRecorder {
	return &InvalidatingRecorder{next: next, cache: cache, logger: logger}
}

// Record implements [activity.Recorder].
func (recorder *InvalidatingRecorder) Record(context context.Context, entry activity.Entry) error {
	if err := recorder.cache.Invalidate(context); err != nil {
		recorder.logger.Warn("site_cache_invalidate_failed",
			slog.String("entity_type", entry.EntityType),
			slog.String("entity_id", entry.EntityID),
			slog.Any("error", err),
		)
	}

	if recorder.next == nil {
		return nil
	}
	return recorder.next.Record(context, entry)
}
