// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/folio/internal/platform/database/schema"
	"github.com/taibuivan/folio/internal/platform/dberr"
)

type categoryRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed category store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &categoryRepository{pool: pool}
}

var selectColumns = fmt.Sprintf(`SELECT %s, %s, %s, %s, %s FROM %s`,
	schema.ContentCategory.ID, schema.ContentCategory.Name, schema.ContentCategory.Slug,
	schema.ContentCategory.Description, schema.ContentCategory.CreatedAt,
	schema.ContentCategory.Table,
)

func (repository *categoryRepository) List(context context.Context) ([]*Category, error) {
	rows, err := repository.pool.Query(context, selectColumns+" ORDER BY "+schema.ContentCategory.Name+" ASC")
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list categories: %w", err)
	}
	defer rows.Close()

	categories := []*Category{}
	for rows.Next() {
		category := &Category{}
		if err := scan(rows, category); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan category: %w", err)
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (repository *categoryRepository) FindByID(context context.Context, id string) (*Category, error) {
	category := &Category{}
	query := fmt.Sprintf(`%s WHERE %s = $1`, selectColumns, schema.ContentCategory.ID)
	if err := scan(repository.pool.QueryRow(context, query, id), category); err != nil {
		return nil, dberr.Wrap(err, "Category")
	}
	return category, nil
}

func (repository *categoryRepository) FindOrCreate(context context.Context, category *Category) (bool, error) {
	insert := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s) VALUES ($1, $2, $3, $4)
		ON CONFLICT ON CONSTRAINT %s DO NOTHING
		RETURNING %s`,
		schema.ContentCategory.Table,
		schema.ContentCategory.ID, schema.ContentCategory.Name,
		schema.ContentCategory.Slug, schema.ContentCategory.Description,
		schema.ContentCategory.NameKey,
		schema.ContentCategory.CreatedAt,
	)

	err := repository.pool.QueryRow(context, insert,
		category.ID, category.Name, category.Slug, category.Description,
	).Scan(&category.CreatedAt)
	if err == nil {
		return true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return false, fmt.Errorf("postgres: failed to create category: %w", err)
	}

	query := fmt.Sprintf(`%s WHERE %s = $1`, selectColumns, schema.ContentCategory.Name)
	if err := scan(repository.pool.QueryRow(context, query, category.Name), category); err != nil {
		return false, fmt.Errorf("postgres: failed to load category: %w", err)
	}
	return false, nil
}

func scan(row pgx.Row, category *Category) error {
	return row.Scan(&category.ID, &category.Name, &category.Slug, &category.Description, &category.CreatedAt)
}
