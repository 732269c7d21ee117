// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package migration applies the embedded SQL schema with golang-migrate at
// startup, before the server accepts traffic.
package migration

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	// Registers the "pgx5" database scheme.
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// ErrDirty is returned when a previous run failed halfway through a file.
var ErrDirty = errors.New("migration: database is dirty")

/*
RunUp brings the schema to the newest version found in files.

Parameters:
  - dsn: postgres:// URL, rewritten to the pgx5 scheme
  - files: Directory of NNNNNN_name.{up,down}.sql files, usually migrations.FS
  - logger: Receives "migration_*" events and golang-migrate debug output

Returns:
  - error: [ErrDirty] when manual repair is needed, otherwise driver failures
*/
func RunUp(dsn string, files fs.FS, logger *slog.Logger) error {
	migrator, err := open(dsn, files, logger)
	if err != nil {
		return err
	}
	defer closeMigrator(migrator, logger)

	from, err := version(migrator)
	if err != nil {
		return err
	}

	err = migrator.Up()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		logger.Info("migration_up_to_date", slog.Uint64("version", uint64(from)))
		return nil
	case err != nil:
		return fmt.Errorf("migration: up from version %d failed: %w", from, err)
	}

	to, _ := version(migrator)
	logger.Info("migration_applied", slog.Uint64("from_version", uint64(from)), slog.Uint64("to_version", uint64(to)))
	return nil
}

func open(dsn string, files fs.FS, logger *slog.Logger) (*migrate.Migrate, error) {
	source, err := iofs.New(files, ".")
	if err != nil {
		return nil, fmt.Errorf("migration: failed to open source: %w", err)
	}

	migrator, err := migrate.NewWithSourceInstance("iofs", source, pgx5DSN(dsn))
	if err != nil {
		return nil, fmt.Errorf("migration: failed to initialize: %w", err)
	}
	migrator.Log = slogBridge{logger: logger}
	return migrator, nil
}

// version returns 0 for an empty database and [ErrDirty] for a failed run.
func version(migrator *migrate.Migrate) (uint, error) {
	current, dirty, err := migrator.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("migration: failed to read version: %w", err)
	}
	if dirty {
		return current, fmt.Errorf("%w at version %d", ErrDirty, current)
	}
	return current, nil
}

func closeMigrator(migrator *migrate.Migrate, logger *slog.Logger) {
	sourceErr, databaseErr := migrator.Close()
	if err := errors.Join(sourceErr, databaseErr); err != nil {
		logger.Error("migration_close_failed", slog.Any("error", err))
	}
}

// pgx5DSN swaps a postgres:// or postgresql:// scheme for pgx5://.
func pgx5DSN(dsn string) string {
	for _, prefix := range []string{"postgresql://", "postgres://"} {
		if rest, found := strings.CutPrefix(dsn, prefix); found {
			return "pgx5://" + rest
		}
	}
	return dsn
}

// slogBridge routes golang-migrate output to debug logs.
type slogBridge struct {
	logger *slog.Logger
}

func (bridge slogBridge) Printf(format string, args ...any) {
	bridge.logger.Debug("migration_log", slog.String("message", strings.TrimSpace(fmt.Sprintf(format, args...))))
}

func (bridge slogBridge) Verbose() bool {
	return bridge.logger.Enabled(context.Background(), slog.LevelDebug)
}
