// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package page

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/folio/internal/core/reference"
	"github.com/taibuivan/folio/internal/core/tag"
	"github.com/taibuivan/folio/internal/platform/database/schema"
	"github.com/taibuivan/folio/internal/platform/dberr"
	"github.com/taibuivan/folio/internal/platform/postgres"
	"github.com/taibuivan/folio/pkg/slug"
)

// # PostgreSQL Repository

// pageRepository implements [Repository] using pgx.
type pageRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a PostgreSQL backed page store.
func NewRepository(pool *pgxpool.Pool) Repository {
	return &pageRepository{pool: pool}
}

// hydratedSelect joins the author, the book and the optional chapter.
var hydratedSelect = fmt.Sprintf(`
	SELECT
		p.%s, p.%s, p.%s, p.%s, p.%s, p.%s, p.%s, p.%s, p.%s, p.%s, p.%s, p.%s,
		a.%s, a.%s,
		b.%s, b.%s, b.%s,
		ch.%s, ch.%s, ch.%s
	FROM %s p
	JOIN %s a ON a.%s = p.%s
	JOIN %s b ON b.%s = p.%s
	LEFT JOIN %s ch ON ch.%s = p.%s`,
	schema.ContentPage.ID, schema.ContentPage.BookID, schema.ContentPage.ChapterID,
	schema.ContentPage.Title, schema.ContentPage.Slug, schema.ContentPage.Content,
	schema.ContentPage.Draft, schema.ContentPage.Published, schema.ContentPage.Position,
	schema.ContentPage.AuthorID, schema.ContentPage.CreatedAt, schema.ContentPage.UpdatedAt,
	schema.UserAccount.ID, schema.UserAccount.Name,
	schema.ContentBook.ID, schema.ContentBook.Name, schema.ContentBook.Slug,
	schema.ContentChapter.ID, schema.ContentChapter.Name, schema.ContentChapter.Slug,
	schema.ContentPage.Table,
	schema.UserAccount.Table, schema.UserAccount.ID, schema.ContentPage.AuthorID,
	schema.ContentBook.Table, schema.ContentBook.ID, schema.ContentPage.BookID,
	schema.ContentChapter.Table, schema.ContentChapter.ID, schema.ContentPage.ChapterID,
)

// List implements [Repository].
func (repository *pageRepository) List(context context.Context, filter Filter) ([]*Page, error) {
	query := fmt.Sprintf(`%s
		WHERE p.%s = $1 AND ($2 = '' OR p.%s::text = $2)
		ORDER BY p.%s NULLS FIRST, p.%s ASC, p.%s ASC`,
		hydratedSelect,
		schema.ContentPage.BookID, schema.ContentPage.ChapterID,
		schema.ContentPage.ChapterID, schema.ContentPage.Position, schema.ContentPage.CreatedAt,
	)

	rows, err := repository.pool.Query(context, query, filter.BookID, filter.ChapterID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list pages: %w", err)
	}
	defer rows.Close()

	pages := []*Page{}
	for rows.Next() {
		page, err := scanHydrated(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan page: %w", err)
		}
		pages = append(pages, page)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to iterate pages: %w", err)
	}
	return pages, nil
}

// FindByID implements [Repository]. Tags are loaded in a second query.
func (repository *pageRepository) FindByID(context context.Context, id string) (*Page, error) {
	query := fmt.Sprintf(`%s WHERE p.%s = $1`, hydratedSelect, schema.ContentPage.ID)

	page, err := scanHydrated(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Page")
	}

	tagQuery := fmt.Sprintf(`
		SELECT t.%s, t.%s, t.%s, t.%s, t.%s
		FROM %s t
		JOIN %s pt ON pt.%s = t.%s
		WHERE pt.%s = $1
		ORDER BY t.%s ASC`,
		schema.ContentTag.ID, schema.ContentTag.Name, schema.ContentTag.Slug,
		schema.ContentTag.Color, schema.ContentTag.CreatedAt,
		schema.ContentTag.Table,
		schema.ContentPageTag.Table, schema.ContentPageTag.TagID, schema.ContentTag.ID,
		schema.ContentPageTag.PageID,
		schema.ContentTag.Name,
	)

	rows, err := repository.pool.Query(context, tagQuery, id)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to load page tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t tag.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.Color, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan page tag: %w", err)
		}
		page.Tags = append(page.Tags, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to iterate page tags: %w", err)
	}
	return page, nil
}

// FindBook implements [Repository].
func (repository *pageRepository) FindBook(context context.Context, bookID string) (*reference.Book, error) {
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

// FindChapter implements [Repository].
func (repository *pageRepository) FindChapter(context context.Context, chapterID string) (*reference.Chapter, string, error) {
	query := fmt.Sprintf(`SELECT %s, %s, %s, %s FROM %s WHERE %s = $1`,
		schema.ContentChapter.ID, schema.ContentChapter.Name, schema.ContentChapter.Slug,
		schema.ContentChapter.BookID,
		schema.ContentChapter.Table, schema.ContentChapter.ID,
	)

	chapter := &reference.Chapter{}
	var bookID string
	if err := repository.pool.QueryRow(context, query, chapterID).Scan(
		&chapter.ID, &chapter.Name, &chapter.Slug, &bookID,
	); err != nil {
		return nil, "", dberr.Wrap(err, "Chapter")
	}
	return chapter, bookID, nil
}

// Slugs implements [Repository].
func (repository *pageRepository) Slugs(context context.Context, bookID, excludeID string) ([]string, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND ($2 = '' OR %s::text <> $2)`,
		schema.ContentPage.Slug, schema.ContentPage.Table,
		schema.ContentPage.BookID, schema.ContentPage.ID,
	)

	rows, err := repository.pool.Query(context, query, bookID, excludeID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list page slugs: %w", err)
	}

	slugs, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to collect page slugs: %w", err)
	}
	return slugs, nil
}

/*
Create implements [Repository].

Description: Runs in one transaction: the insert computes the next position
inside (book, chapter) and the tag links are written before commit, so a
failed tag link leaves no page behind.
*/
func (repository *pageRepository) Create(context context.Context, page *Page, tagIDs []string) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		SELECT $1, $2, $3, $4, $5, $6, $7, $8, COALESCE(MAX(%s), 0) + 1, $9
		FROM %s
		WHERE %s = $2 AND %s IS NOT DISTINCT FROM $3::uuid
		RETURNING %s, %s, %s`,
		schema.ContentPage.Table,
		schema.ContentPage.ID, schema.ContentPage.BookID, schema.ContentPage.ChapterID,
		schema.ContentPage.Title, schema.ContentPage.Slug, schema.ContentPage.Content,
		schema.ContentPage.Draft, schema.ContentPage.Published,
		schema.ContentPage.Position, schema.ContentPage.AuthorID,
		schema.ContentPage.Position,
		schema.ContentPage.Table,
		schema.ContentPage.BookID, schema.ContentPage.ChapterID,
		schema.ContentPage.Position, schema.ContentPage.CreatedAt, schema.ContentPage.UpdatedAt,
	)

	return postgres.WithTx(context, repository.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(context, query,
			page.ID, page.BookID, page.ChapterID, page.Title, page.Slug, page.Content,
			page.Draft, page.Published, page.AuthorID,
		).Scan(&page.Position, &page.CreatedAt, &page.UpdatedAt)

		if dberr.IsUniqueViolation(err, schema.ContentPage.SlugKey) {
			return fmt.Errorf("postgres: page slug %q: %w", page.Slug, slug.ErrTaken)
		}
		if err != nil {
			return dberr.Wrap(err, "Page")
		}

		return replaceTags(context, tx, page.ID, tagIDs)
	})
}

// Update implements [Repository].
func (repository *pageRepository) Update(context context.Context, page *Page, tagIDs []string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7, %s = $8, %s = now()
		WHERE %s = $1
		RETURNING %s`,
		schema.ContentPage.Table,
		schema.ContentPage.ChapterID, schema.ContentPage.Title, schema.ContentPage.Slug,
		schema.ContentPage.Content, schema.ContentPage.Draft, schema.ContentPage.Published,
		schema.ContentPage.Position, schema.ContentPage.UpdatedAt,
		schema.ContentPage.ID,
		schema.ContentPage.UpdatedAt,
	)

	return postgres.WithTx(context, repository.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(context, query,
			page.ID, page.ChapterID, page.Title, page.Slug, page.Content,
			page.Draft, page.Published, page.Position,
		).Scan(&page.UpdatedAt)

		if dberr.IsUniqueViolation(err, schema.ContentPage.SlugKey) {
			return fmt.Errorf("postgres: page slug %q: %w", page.Slug, slug.ErrTaken)
		}
		if err != nil {
			return dberr.Wrap(err, "Page")
		}

		if tagIDs == nil {
			return nil
		}
		return replaceTags(context, tx, page.ID, tagIDs)
	})
}

// Delete implements [Repository].
func (repository *pageRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.ContentPage.Table, schema.ContentPage.ID)

	result, err := repository.pool.Exec(context, query, id)
	if err != nil {
		return fmt.Errorf("postgres: failed to delete page: %w", err)
	}
	if result.RowsAffected() == 0 {
		return dberr.Wrap(pgx.ErrNoRows, "Page")
	}
	return nil
}

// # Internal Helpers

// replaceTags rewrites the tag links of a page. Unknown tag IDs violate the
// foreign key and surface as a validation error.
func replaceTags(context context.Context, tx pgx.Tx, pageID string, tagIDs []string) error {
	unlink := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1`, schema.ContentPageTag.Table, schema.ContentPageTag.PageID)
	if _, err := tx.Exec(context, unlink, pageID); err != nil {
		return fmt.Errorf("postgres: failed to clear page tags: %w", err)
	}

	if len(tagIDs) == 0 {
		return nil
	}

	link := fmt.Sprintf(`INSERT INTO %s (%s, %s) SELECT $1, unnest($2::uuid[])`,
		schema.ContentPageTag.Table, schema.ContentPageTag.PageID, schema.ContentPageTag.TagID)
	if _, err := tx.Exec(context, link, pageID, tagIDs); err != nil {
		return dberr.Wrap(err, "Tag")
	}
	return nil
}

func scanHydrated(row pgx.Row) (*Page, error) {
	page := &Page{Author: &reference.Author{}, Book: &reference.Book{}, Tags: []tag.Tag{}}
	var chapterID, chapterName, chapterSlug *string

	err := row.Scan(
		&page.ID, &page.BookID, &page.ChapterID, &page.Title, &page.Slug, &page.Content,
		&page.Draft, &page.Published, &page.Position, &page.AuthorID, &page.CreatedAt, &page.UpdatedAt,
		&page.Author.ID, &page.Author.Name,
		&page.Book.ID, &page.Book.Name, &page.Book.Slug,
		&chapterID, &chapterName, &chapterSlug,
	)
	if err != nil {
		return nil, err
	}

	if chapterID != nil {
		page.Chapter = &reference.Chapter{ID: *chapterID, Name: *chapterName, Slug: *chapterSlug}
	}
	return page, nil
}
