// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/folio/internal/core/reference"
	"github.com/taibuivan/folio/internal/platform/database/schema"
	"github.com/taibuivan/folio/internal/platform/dberr"
	"github.com/taibuivan/folio/pkg/slug"
)

// chapterRepository implements [Repository] using pgx.
type chapterRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed chapter store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &chapterRepository{pool: pool}
}

var hydratedSelect = fmt.Sprintf(`
	SELECT
		c.%s, c.%s, c.%s, c.%s, c.%s, c.%s, c.%s, c.%s, c.%s, c.%s,
		a.%s, a.%s,
		b.%s, b.%s, b.%s
	FROM %s c
	JOIN %s a ON a.%s = c.%s
	JOIN %s b ON b.%s = c.%s`,
	schema.ContentChapter.ID, schema.ContentChapter.BookID, schema.ContentChapter.Name,
	schema.ContentChapter.Slug, schema.ContentChapter.Description, schema.ContentChapter.Published,
	schema.ContentChapter.Position, schema.ContentChapter.AuthorID,
	schema.ContentChapter.CreatedAt, schema.ContentChapter.UpdatedAt,
	schema.UserAccount.ID, schema.UserAccount.Name,
	schema.ContentBook.ID, schema.ContentBook.Name, schema.ContentBook.Slug,
	schema.ContentChapter.Table,
	schema.UserAccount.Table, schema.UserAccount.ID, schema.ContentChapter.AuthorID,
	schema.ContentBook.Table, schema.ContentBook.ID, schema.ContentChapter.BookID,
)

// ListByBook implements [Repository].
func (repository *chapterRepository) ListByBook(context context.Context, bookID string) ([]*Chapter, error) {
	query := fmt.Sprintf(`%s WHERE c.%s = $1 ORDER BY c.%s ASC, c.%s ASC`,
		hydratedSelect,
		schema.ContentChapter.BookID,
		schema.ContentChapter.Position, schema.ContentChapter.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, bookID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list chapters: %w", err)
	}
	defer rows.Close()

	chapters := []*Chapter{}
	for rows.Next() {
		chapter, err := scanHydrated(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan chapter: %w", err)
		}
		chapters = append(chapters, chapter)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to iterate chapters: %w", err)
	}
	return chapters, nil
}

// FindByID implements [Repository].
func (repository *chapterRepository) FindByID(context context.Context, id string) (*Chapter, error) {
	query := fmt.Sprintf(`%s WHERE c.%s = $1`, hydratedSelect, schema.ContentChapter.ID)

	chapter, err := scanHydrated(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Chapter")
	}
	return chapter, nil
}

// FindBook implements [Repository].
func (repository *chapterRepository) FindBook(context context.Context, bookID string) (*reference.Book, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = $1`,
		schema.ContentBook.ID, schema.ContentBook.Name, schema.ContentBook.Slug,
		schema.ContentBook.Table, schema.ContentBook.ID,
	)

	book := &reference.Book{}
	if err := repository.pool.QueryRow(context, query, bookID).Scan(&book.ID, &book.Name, &book.Slug); err != nil {
		return nil, dberr.Wrap(err, "Book")
	}
	return book, nil
}

// Slugs implements [Repository].
func (repository *chapterRepository) Slugs(context context.Context, bookID, excludeID string) ([]string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND ($2 = '' OR %s::text <> $2)`,
		schema.ContentChapter.Slug, schema.ContentChapter.Table,
		schema.ContentChapter.BookID, schema.ContentChapter.ID,
	)

	rows, err := repository.pool.Query(context, query, bookID, excludeID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list chapter slugs: %w", err)
	}

	slugs, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to collect chapter slugs: %w", err)
	}
	return slugs, nil
}

// Create implements [Repository]. Position is the book's maximum plus one.
func (repository *chapterRepository) Create(context context.Context, chapter *Chapter) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		SELECT $1, $2, $3, $4, $5, $6, COALESCE(MAX(%s), 0) + 1, $7
		FROM %s
		WHERE %s = $2
		RETURNING %s, %s, %s`,
		schema.ContentChapter.Table,
		schema.ContentChapter.ID, schema.ContentChapter.BookID, schema.ContentChapter.Name,
		schema.ContentChapter.Slug, schema.ContentChapter.Description, schema.ContentChapter.Published,
		schema.ContentChapter.Position, schema.ContentChapter.AuthorID,
		schema.ContentChapter.Position,
		schema.ContentChapter.Table,
		schema.ContentChapter.BookID,
		schema.ContentChapter.Position, schema.ContentChapter.CreatedAt, schema.ContentChapter.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		chapter.ID, chapter.BookID, chapter.Name, chapter.Slug,
		chapter.Description, chapter.Published, chapter.AuthorID,
	).Scan(&chapter.Position, &chapter.CreatedAt, &chapter.UpdatedAt)

	if dberr.IsUniqueViolation(err, schema.ContentChapter.SlugKey) {
		return fmt.Errorf("postgres: chapter slug %q: %w", chapter.Slug, slug.ErrTaken)
	}
	if err != nil {
		return dberr.Wrap(err, "Chapter")
	}
	return nil
}

// Update implements [Repository].
func (repository *chapterRepository) Update(context context.Context, chapter *Chapter) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = now()
		WHERE %s = $1
		RETURNING %s`,
		schema.ContentChapter.Table,
		schema.ContentChapter.Name, schema.ContentChapter.Slug, schema.ContentChapter.Description,
		schema.ContentChapter.Published, schema.ContentChapter.Position, schema.ContentChapter.UpdatedAt,
		schema.ContentChapter.ID,
		schema.ContentChapter.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		chapter.ID, chapter.Name, chapter.Slug, chapter.Description, chapter.Published, chapter.Position,
	).Scan(&chapter.UpdatedAt)

	if dberr.IsUniqueViolation(err, schema.ContentChapter.SlugKey) {
		return fmt.Errorf("postgres: chapter slug %q: %w", chapter.Slug, slug.ErrTaken)
	}
	if err != nil {
		return dberr.Wrap(err, "Chapter")
	}
	return nil
}

// Delete implements [Repository].
func (repository *chapterRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.ContentChapter.Table, schema.ContentChapter.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres: failed to delete chapter: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "Chapter")
	}
	return nil
}

func scanHydrated(row pgx.Row) (*Chapter, error) {
	chapter := &Chapter{Author: &reference.Author{}, Book: &reference.Book{}}
	err := row.Scan(
		&chapter.ID, &chapter.BookID, &chapter.Name, &chapter.Slug, &chapter.Description,
		&chapter.Published, &chapter.Position, &chapter.AuthorID, &chapter.CreatedAt, &chapter.UpdatedAt,
		&chapter.Author.ID, &chapter.Author.Name,
		&chapter.Book.ID, &chapter.Book.Name, &chapter.Book.Slug,
	)
	if err != nil {
		return nil, err
	}
	return chapter, nil
}
