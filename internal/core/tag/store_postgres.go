// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/folio/internal/platform/database/schema"
)

type tagRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed tag store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &tagRepository{pool: pool}
}

func (repository *tagRepository) List(context context.Context) ([]*Tag, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s FROM %s ORDER BY %s ASC`,
		schema.ContentTag.ID, schema.ContentTag.Name, schema.ContentTag.Slug,
		schema.ContentTag.Color, schema.ContentTag.CreatedAt,
		schema.ContentTag.Table, schema.ContentTag.Name,
	)

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list tags: %w", err)
	}
	defer rows.Close()

	tags := []*Tag{}
	for rows.Next() {
		tag := &Tag{}
		if err := rows.Scan(&tag.ID, &tag.Name, &tag.Slug, &tag.Color, &tag.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}
	return tags, rows.Err()
}

func (repository *tagRepository) FindOrCreate(context context.Context, tag *Tag) (bool, error) {
	insert := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4)
		ON CONFLICT ON CONSTRAINT %s DO NOTHING
		RETURNING %s`,
		schema.ContentTag.Table,
		schema.ContentTag.ID, schema.ContentTag.Name, schema.ContentTag.Slug, schema.ContentTag.Color,
		schema.ContentTag.NameKey,
		schema.ContentTag.CreatedAt,
	)

	err := repository.pool.QueryRow(context, insert, tag.ID, tag.Name, tag.Slug, tag.Color).Scan(&tag.CreatedAt)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, fmt.Errorf("postgres: failed to create tag: %w", err)
	}

	// Name already taken: return the stored tag
	existing := fmt.Sprintf(`SELECT %s, %s, %s, %s, %s FROM %s WHERE %s = $1`,
		schema.ContentTag.ID, schema.ContentTag.Name, schema.ContentTag.Slug,
		schema.ContentTag.Color, schema.ContentTag.CreatedAt,
		schema.ContentTag.Table, schema.ContentTag.Name,
	)
	if err := repository.pool.QueryRow(context, existing, tag.Name).Scan(
		&tag.ID, &tag.Name, &tag.Slug, &tag.Color, &tag.CreatedAt,
	); err != nil {
		return false, fmt.Errorf("postgres: failed to load tag: %w", err)
	}
	return false, nil
}
