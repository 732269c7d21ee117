// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

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

// bookRepository implements [Repository] using pgx.
type bookRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed book store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &bookRepository{pool: pool}
}

// hydratedSelect selects a book with its author summary and content counts.
// The final column is the window total used for pagination.
var hydratedSelect = fmt.Sprintf(`
	SELECT
		b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s, b.%s,
		a.%s, a.%s,
		(SELECT COUNT(*) FROM %s c WHERE c.%s = b.%s),
		(SELECT COUNT(*) FROM %s p WHERE p.%s = b.%s),
		COUNT(*) OVER() AS total_count
	FROM %s b
	JOIN %s a ON a.%s = b.%s`,
	schema.ContentBook.ID, schema.ContentBook.Name, schema.ContentBook.Slug,
	schema.ContentBook.Description, schema.ContentBook.Cover, schema.ContentBook.Published,
	schema.ContentBook.Position, schema.ContentBook.AuthorID,
	schema.ContentBook.CreatedAt, schema.ContentBook.UpdatedAt,
	schema.UserAccount.ID, schema.UserAccount.Name,
	schema.ContentChapter.Table, schema.ContentChapter.BookID, schema.ContentBook.ID,
	schema.ContentPage.Table, schema.ContentPage.BookID, schema.ContentBook.ID,
	schema.ContentBook.Table,
	schema.UserAccount.Table, schema.UserAccount.ID, schema.ContentBook.AuthorID,
)

// List implements [Repository].
func (repository *bookRepository) List(context context.Context, filter Filter, limit, offset int) ([]*Book, int, error) {
	query := fmt.Sprintf(`%s
		WHERE (b.%s OR $1)
		ORDER BY b.%s ASC, b.%s ASC
		LIMIT $2 OFFSET $3`,
		hydratedSelect,
		schema.ContentBook.Published,
		schema.ContentBook.Position, schema.ContentBook.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, filter.IncludeUnpublished, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list books: %w", err)
	}
	defer rows.Close()

	books := make([]*Book, 0, limit)
	total := 0
	for rows.Next() {
		book, err := scanHydrated(rows, &total)
		if err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan book: %w", err)
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to iterate books: %w", err)
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s b WHERE (b.%s OR $1)`,
		schema.ContentBook.Table, schema.ContentBook.Published)
	total, err = postgres.CountPastEnd(context, repository.pool, total, len(books), offset, countQuery, filter.IncludeUnpublished)
	if err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

// FindByID implements [Repository].
func (repository *bookRepository) FindByID(context context.Context, id string) (*Book, error) {
	query := fmt.Sprintf(`%s WHERE b.%s = $1`, hydratedSelect, schema.ContentBook.ID)

	var total int
	book, err := scanHydrated(repository.pool.QueryRow(context, query, id), &total)
	if err != nil {
		return nil, dberr.Wrap(err, "Book")
	}
	return book, nil
}

/*
Detail implements [Repository].

Description: Loads the book, then its chapters and pages in two ordered
queries. Chapter pages are limited to published ones; direct pages are all
returned so editors can see their own drafts at the top level.
*/
func (repository *bookRepository) Detail(context context.Context, id string) (*Detail, error) {
	book, err := repository.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	detail := &Detail{Book: book, Chapters: []ChapterSummary{}, Pages: []PageSummary{}}

	// 1. Chapters in position order
	chapterQuery := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1
		ORDER BY %s ASC, %s ASC`,
		schema.ContentChapter.ID, schema.ContentChapter.Name, schema.ContentChapter.Slug,
		schema.ContentChapter.Description, schema.ContentChapter.Published, schema.ContentChapter.Position,
		schema.ContentChapter.Table,
		schema.ContentChapter.BookID,
		schema.ContentChapter.Position, schema.ContentChapter.CreatedAt,
	)

	rows, err := repository.pool.Query(context, chapterQuery, id)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list book chapters: %w", err)
	}

	index := make(map[string]int)
	for rows.Next() {
		chapter := ChapterSummary{Pages: []PageSummary{}}
		if err := rows.Scan(
			&chapter.ID, &chapter.Name, &chapter.Slug,
			&chapter.Description, &chapter.Published, &chapter.Position,
		); err != nil {
			rows.Close()
			return nil, fmt.Errorf("postgres: failed to scan book chapter: %w", err)
		}
		index[chapter.ID] = len(detail.Chapters)
		detail.Chapters = append(detail.Chapters, chapter)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to iterate book chapters: %w", err)
	}

	// 2. Pages: published ones inside chapters, every direct page
	pageQuery := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND (%s IS NULL OR %s)
		ORDER BY %s ASC, %s ASC`,
		schema.ContentPage.ID, schema.ContentPage.ChapterID, schema.ContentPage.Title,
		schema.ContentPage.Slug, schema.ContentPage.Published, schema.ContentPage.Position,
		schema.ContentPage.Table,
		schema.ContentPage.BookID, schema.ContentPage.ChapterID, schema.ContentPage.Published,
		schema.ContentPage.Position, schema.ContentPage.CreatedAt,
	)

	rows, err = repository.pool.Query(context, pageQuery, id)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list book pages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var page PageSummary
		if err := rows.Scan(
			&page.ID, &page.ChapterID, &page.Title,
			&page.Slug, &page.Published, &page.Position,
		); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan book page: %w", err)
		}

		if page.ChapterID == nil {
			detail.Pages = append(detail.Pages, page)
			continue
		}
		if position, found := index[*page.ChapterID]; found {
			detail.Chapters[position].Pages = append(detail.Chapters[position].Pages, page)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to iterate book pages: %w", err)
	}
	return detail, nil
}

// Slugs implements [Repository].
func (repository *bookRepository) Slugs(context context.Context, excludeID string) ([]string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE $1 = '' OR %s::text <> $1`,
		schema.ContentBook.Slug, schema.ContentBook.Table, schema.ContentBook.ID)

	rows, err := repository.pool.Query(context, query, excludeID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list book slugs: %w", err)
	}

	slugs, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to collect book slugs: %w", err)
	}
	return slugs, nil
}

// Create implements [Repository]. Position is computed in the same statement.
func (repository *bookRepository) Create(context context.Context, book *Book) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		SELECT $1, $2, $3, $4, $5, $6, COALESCE(MAX(%s), 0) + 1, $7
		FROM %s
		RETURNING %s, %s, %s`,
		schema.ContentBook.Table,
		schema.ContentBook.ID, schema.ContentBook.Name, schema.ContentBook.Slug,
		schema.ContentBook.Description, schema.ContentBook.Cover, schema.ContentBook.Published,
		schema.ContentBook.Position, schema.ContentBook.AuthorID,
		schema.ContentBook.Position,
		schema.ContentBook.Table,
		schema.ContentBook.Position, schema.ContentBook.CreatedAt, schema.ContentBook.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		book.ID, book.Name, book.Slug, book.Description, book.Cover, book.Published, book.AuthorID,
	).Scan(&book.Position, &book.CreatedAt, &book.UpdatedAt)

	if dberr.IsUniqueViolation(err, schema.ContentBook.SlugKey) {
		return fmt.Errorf("postgres: book slug %q: %w", book.Slug, slug.ErrTaken)
	}
	if err != nil {
		return fmt.Errorf("postgres: failed to create book: %w", err)
	}
	return nil
}

// Update implements [Repository].
func (repository *bookRepository) Update(context context.Context, book *Book) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = now()
		WHERE %s = $1
		RETURNING %s`,
		schema.ContentBook.Table,
		schema.ContentBook.Name, schema.ContentBook.Slug, schema.ContentBook.Description,
		schema.ContentBook.Cover, schema.ContentBook.Published, schema.ContentBook.Position,
		schema.ContentBook.UpdatedAt,
		schema.ContentBook.ID,
		schema.ContentBook.UpdatedAt,
	)

	err := repository.pool.QueryRow(context, query,
		book.ID, book.Name, book.Slug, book.Description, book.Cover, book.Published, book.Position,
	).Scan(&book.UpdatedAt)

	if dberr.IsUniqueViolation(err, schema.ContentBook.SlugKey) {
		return fmt.Errorf("postgres: book slug %q: %w", book.Slug, slug.ErrTaken)
	}
	if err != nil {
		return dberr.Wrap(err, "Book")
	}
	return nil
}

// Delete implements [Repository].
func (repository *bookRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.ContentBook.Table, schema.ContentBook.ID)

	tag, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres: failed to delete book: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "Book")
	}
	return nil
}

// # Scanning

func scanHydrated(row pgx.Row, total *int) (*Book, error) {
	book := &Book{Author: &reference.Author{}, Count: &Count{}}
	err := row.Scan(
		&book.ID, &book.Name, &book.Slug, &book.Description, &book.Cover,
		&book.Published, &book.Position, &book.AuthorID, &book.CreatedAt, &book.UpdatedAt,
		&book.Author.ID, &book.Author.Name,
		&book.Count.Chapters, &book.Count.Pages,
		total,
	)
	if err != nil {
		return nil, err
	}
	return book, nil
}
