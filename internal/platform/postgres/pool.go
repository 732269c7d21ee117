// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package postgres opens the pgx pool shared by every content repository and
// provides the transaction helper used for multi-row writes.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/folio/internal/platform/constants"
)

const (
	minConns          = 2
	maxConnLifetime   = time.Hour
	maxConnIdleTime   = 10 * time.Minute
	healthCheckPeriod = time.Minute
	connectTimeout    = 5 * time.Second
	pingTimeout       = 2 * time.Second
)

// Settings tunes the pool. Zero values fall back to the defaults below.
type Settings struct {
	// MaxConns caps open connections. Default 25.
	MaxConns int32

	// StatementTimeout aborts queries that outlive an HTTP request.
	// Default [constants.GlobalRequestTimeout].
	StatementTimeout time.Duration
}

func (s Settings) withDefaults() Settings {
	if s.MaxConns <= 0 {
		s.MaxConns = 25
	}
	if s.StatementTimeout <= 0 {
		s.StatementTimeout = constants.GlobalRequestTimeout
	}
	return s
}

/*
NewPool connects to dsn and pings once before returning.

Parameters:
  - ctx: Bounds the initial connection attempt
  - dsn: libpq connection string or postgres:// URL
  - settings: Pool tuning
  - logger: Receives the "postgres_pool_connected" event

Returns:
  - *pgxpool.Pool: A live pool, closed by the caller
  - error: Invalid DSN or unreachable server
*/
func NewPool(ctx context.Context, dsn string, settings Settings, logger *slog.Logger) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: invalid DSN: %w", err)
	}

	settings = settings.withDefaults()
	poolConfig.MaxConns = settings.MaxConns
	poolConfig.MinConns = min(minConns, settings.MaxConns)
	poolConfig.MaxConnLifetime = maxConnLifetime
	poolConfig.MaxConnIdleTime = maxConnIdleTime
	poolConfig.HealthCheckPeriod = healthCheckPeriod
	poolConfig.ConnConfig.ConnectTimeout = connectTimeout

	// Sent in the startup message, so no round trip per connection
	runtime := poolConfig.ConnConfig.RuntimeParams
	runtime["application_name"] = constants.AppName
	runtime["statement_timeout"] = strconv.FormatInt(settings.StatementTimeout.Milliseconds(), 10)

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(connectCtx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to create pool: %w", err)
	}

	if err := Ping(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("postgres_pool_connected",
		slog.String("database", poolConfig.ConnConfig.Database),
		slog.Int("max_conns", int(settings.MaxConns)),
		slog.Duration("statement_timeout", settings.StatementTimeout),
	)

	return pool, nil
}

// Ping is the readiness check for Postgres.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		return fmt.Errorf("postgres: ping failed: %w", err)
	}
	return nil
}
