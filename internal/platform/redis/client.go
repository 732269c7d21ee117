// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package redis opens the client for Folio's volatile state.

Two things live in Redis, both with a TTL:

  - Editor drafts (editor:draft:*), bounded by [constants.DraftSessionTTL].
  - Rendered public pages (site:page:*) and their generation counter.

Both are safe to lose. A dropped draft is reopened from stored content and a
dropped page is rendered again.
*/
package redis

import (
	stdctx "context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/folio/internal/platform/constants"
)

const (
	dialTimeout = 3 * time.Second
	ioTimeout   = 2 * time.Second
	pingTimeout = 2 * time.Second

	defaultPoolSize = 10
)

/*
NewClient parses redisURL (redis:// or rediss://) and pings once.

Parameters:
  - context: Bounds the initial ping
  - redisURL: Connection URL, the database number included
  - poolSize: Maximum connections; 0 selects the default
  - logger: Receives the "redis_client_connected" event
*/
func NewClient(context stdctx.Context, redisURL string, poolSize int, logger *slog.Logger) (*redis.Client, error) {
	options, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis: invalid URL: %w", err)
	}

	if poolSize <= 0 {
		poolSize = defaultPoolSize
	}
	options.PoolSize = poolSize
	options.MinIdleConns = 1
	options.MaxIdleConns = poolSize / 2
	options.ClientName = constants.AppName
	options.DialTimeout = dialTimeout
	options.ReadTimeout = ioTimeout
	options.WriteTimeout = ioTimeout

	client := redis.NewClient(options)

	if err := Ping(context, client); err != nil {
		_ = client.Close()
		return nil, err
	}

	logger.Info("redis_client_connected",
		slog.String("addr", options.Addr),
		slog.Int("db", options.DB),
		slog.Int("pool_size", options.PoolSize),
	)

	return client, nil
}

// Ping is the readiness check for Redis.
func Ping(context stdctx.Context, client redis.UniversalClient) error {
	pingCtx, cancel := stdctx.WithTimeout(context, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		return fmt.Errorf("redis: ping failed: %w", err)
	}
	return nil
}
