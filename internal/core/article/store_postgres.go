// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/folio/internal/core/reference"
	"github.com/taibuivan/folio/internal/platform/database/schema"
	"github.com/taibuivan/folio/internal/platform/dberr"
	"github.com/taibuivan/folio/internal/platform/postgres"
	"github.com/taibuivan/folio/pkg/slug"
)

// # PostgreSQL Repository

// articleRepository implements [Repository] using pgx.
type articleRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed article store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &articleRepository{pool: pool}
}

// hydratedSelect joins the author and the category and ends with the window
// total used for pagination.
var hydratedSelect = fmt.Sprintf(`
	SELECT
		ar.%s, ar.%s, ar.%s, ar.%s, ar.%s, ar.%s, ar.%s, ar.%s, ar.%s,
		u.%s, u.%s,
		c.%s, c.%s, c.%s,
		COUNT(*) OVER() AS total_count
	FROM %s ar
	JOIN %s u ON u.%s = ar.%s
	JOIN %s c ON c.%s = ar.%s`,
	schema.ContentArticle.ID, schema.ContentArticle.Title, schema.ContentArticle.Slug,
	schema.ContentArticle.Content, schema.ContentArticle.Published, schema.ContentArticle.AuthorID,
	schema.ContentArticle.CategoryID, schema.ContentArticle.CreatedAt, schema.ContentArticle.UpdatedAt,
	schema.UserAccount.ID, schema.UserAccount.Name,
	schema.ContentCategory.ID, schema.ContentCategory.Name, schema.ContentCategory.Slug,
	schema.ContentArticle.Table,
	schema.UserAccount.Table, schema.UserAccount.ID, schema.ContentArticle.AuthorID,
	schema.ContentCategory.Table, schema.ContentCategory.ID, schema.ContentArticle.CategoryID,
)

// List implements [Repository].
func (repository *articleRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Article, int, error) {
	query := fmt.Sprintf(`%s
		WHERE (ar.%s OR NOT $1)
		ORDER BY ar.%s DESC
		LIMIT $2 OFFSET $3`,
		hydratedSelect,
		schema.ContentArticle.Published,
		schema.ContentArticle.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, filter.PublishedOnly, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list articles: %w", err)
	}
	defer rows.Close()

	articles := make([]*Article, 0, limit)
	total := 0
	for rows.Next() {
		article, err := scanHydrated(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan article: %w", err)
		}
		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to iterate articles: %w", err)
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s ar WHERE (ar.%s OR NOT $1)`,
		schema.ContentArticle.Table, schema.ContentArticle.Published)
	total, err = postgres.CountPastEnd(context, repository.pool, total, len(articles), offset, countQuery, filter.PublishedOnly)
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

// FindByID implements [Repository].
func (repository *articleRepository) FindByID(context context.Context, id string) (*Article, error) {
	query := fmt.Sprintf(`%s WHERE ar.%s = $1`, hydratedSelect, schema.ContentArticle.ID)

	var total int
	article, err := scanHydrated(repository.pool.QueryRow(context, query, id), &total)
	if err != nil {
		return nil, dberr.Wrap(err, "Article")
	}
	return article, nil
}

// FindCategory implements [Repository].
func (repository *articleRepository) FindCategory(context context.Context, categoryID string) (*reference.Category, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = $1`,
		schema.ContentCategory.ID, schema.ContentCategory.Name, schema.ContentCategory.Slug,
		schema.ContentCategory.Table, schema.ContentCategory.ID,
	)

	category := &reference.Category{}
	if err := repository.pool.QueryRow(context, query, categoryID).Scan(
		&category.ID, &category.Name, &category.Slug,
	); err != nil {
		return nil, dberr.Wrap(err, "Category")
	}
	return category, nil
}

// Slugs implements [Repository].
func (repository *articleRepository) Slugs(context context.Context, excludeID string) ([]string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE $1 = '' OR %s::text <> $1`,
		schema.ContentArticle.Slug, schema.ContentArticle.Table, schema.ContentArticle.ID)

	rows, err := repository.pool.Query(context, query, excludeID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list article slugs: %w", err)
	}

	slugs, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to collect article slugs: %w", err)
	}
	return slugs, nil
}

// Create implements [Repository].
func (repository *articleRepository) Create(context context.Context, article *Article) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING %s, %s`,
		schema.ContentArticle.Table,
		schema.ContentArticle.ID, schema.ContentArticle.Title, schema.ContentArticle.Slug,
		schema.ContentArticle.Content, schema.ContentArticle.Published,
		schema.ContentArticle.AuthorID, schema.ContentArticle.CategoryID,
		schema.ContentArticle.CreatedAt, schema.ContentArticle.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		article.ID, article.Title, article.Slug, article.Content,
		article.Published, article.AuthorID, article.CategoryID,
	).Scan(&article.CreatedAt, &article.UpdatedAt)

	if dberr.IsUniqueViolation(err, schema.ContentArticle.SlugKey) {
		return fmt.Errorf("postgres: article slug %q: %w", article.Slug, slug.ErrTaken)
	}
	if err != nil {
		return dberr.Wrap(err, "Article")
	}
	return nil
}

// Update implements [Repository].
func (repository *articleRepository) Update(context context.Context, article *Article) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = now()
		WHERE %s = $1
		RETURNING %s`,
		schema.ContentArticle.Table,
		schema.ContentArticle.Title, schema.ContentArticle.Slug, schema.ContentArticle.Content,
		schema.ContentArticle.Published, schema.ContentArticle.CategoryID,
		schema.ContentArticle.UpdatedAt,
		schema.ContentArticle.ID,
		schema.ContentArticle.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		article.ID, article.Title, article.Slug, article.Content, article.Published, article.CategoryID,
	).Scan(&article.UpdatedAt)

	if dberr.IsUniqueViolation(err, schema.ContentArticle.SlugKey) {
		return fmt.Errorf("postgres: article slug %q: %w", article.Slug, slug.ErrTaken)
	}
	if err != nil {
		return dberr.Wrap(err, "Article")
	}
	return nil
}

// Delete implements [Repository].
func (repository *articleRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.ContentArticle.Table, schema.ContentArticle.ID)

	result, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres: failed to delete article: %w", err)
	}
	if result.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "Article")
	}
	return nil
}

// # Scanning

func scanHydrated(row pgx.Row, total *int) (*Article, error) {
	article := &Article{Author: &reference.Author{}, Category: &reference.Category{}}
	err := row.Scan(
		&article.ID, &article.Title, &article.Slug, &article.Content, &article.Published,
		&article.AuthorID, &article.CategoryID, &article.CreatedAt, &article.UpdatedAt,
		&article.Author.ID, &article.Author.Name,
		&article.Category.ID, &article.Category.Name, &article.Category.Slug,
		total,
	)
	if err != nil {
		return nil, err
	}
	return article, nil
}
