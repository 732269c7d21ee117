// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package activity

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/folio/internal/platform/database/schema"
	"github.com/taibuivan/folio/internal/platform/dberr"
	"github.com/taibuivan/folio/internal/platform/postgres"
	"github.com/taibuivan/folio/pkg/uuid"
)

// activityRepository implements [Repository] using pgx.
type activityRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed activity log.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &activityRepository{pool: pool}
}

// Record implements [Recorder].
func (repository *activityRepository) Record(context context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.New()
	}

	query := fmt.Sprintf(`INSERT INTO %s (%s, %s, %s, %s, %s, %s) VALUES ($1, $2, $3, $4, $5, $6)`,
		schema.SystemActivityLog.Table,
		schema.SystemActivityLog.ID, schema.SystemActivityLog.ActorID, schema.SystemActivityLog.Action,
		schema.SystemActivityLog.EntityType, schema.SystemActivityLog.EntityID, schema.SystemActivityLog.EntityName,
	)

	if _, err := repository.pool.Exec(context, query,
		entry.ID, entry.ActorID, entry.Action, entry.EntityType, entry.EntityID, entry.EntityName,
	); err != nil {
		return fmt.Errorf("postgres: failed to record activity: %w", err)
	}
	return nil
}

// ListByActor implements [Repository].
func (repository *activityRepository) ListByActor(context context.Context, actorID string, limit, offset int) ([]*Entry, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s, %s, COUNT(*) OVER() AS total_count
		FROM %s
		WHERE %s = $1
		ORDER BY %s DESC
		LIMIT $2 OFFSET $3`,
		schema.SystemActivityLog.ID, schema.SystemActivityLog.ActorID, schema.SystemActivityLog.Action,
		schema.SystemActivityLog.EntityType, schema.SystemActivityLog.EntityID, schema.SystemActivityLog.EntityName,
		schema.SystemActivityLog.CreatedAt,
		schema.SystemActivityLog.Table,
		schema.SystemActivityLog.ActorID,
		schema.SystemActivityLog.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, actorID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "Activity")
	}
	defer rows.Close()

	entries := make([]*Entry, 0, limit)
	total := 0
	for rows.Next() {
		entry := &Entry{}
		if err := rows.Scan(
			&entry.ID, &entry.ActorID, &entry.Action, &entry.EntityType,
			&entry.EntityID, &entry.EntityName, &entry.CreatedAt, &total,
		); err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan activity: %w", err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to iterate activity: %w", err)
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s = $1`,
		schema.SystemActivityLog.Table, schema.SystemActivityLog.ActorID)
	total, err = postgres.CountPastEnd(context, repository.pool, total, len(entries), offset, countQuery, actorID)
	if err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}
