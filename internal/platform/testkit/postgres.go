// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package testkit

import (
	"context"
	"os"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/folio/internal/platform/database/migrations"
	"github.com/taibuivan/folio/internal/platform/migration"
	"github.com/taibuivan/folio/internal/platform/postgres"
)

// Postgres migrates and connects to TEST_DATABASE_URL, skipping the test when
// it is unset. Used by tests behind the "integration" build tag.
func Postgres(t *testing.T) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	if err := migration.RunUp(dsn, migrations.FS, Logger()); err != nil {
		t.Fatalf("testkit: migrations failed: %v", err)
	}

	pool, err := postgres.NewPool(context.Background(), dsn, postgres.Settings{MaxConns: 4}, Logger())
	if err != nil {
		t.Fatalf("testkit: postgres unreachable: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}
