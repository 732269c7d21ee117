// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package site

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
)

// # PostgreSQL Reader

// siteReader implements [Reader] using pgx. Every query filters on the
// published flag of each level it touches.
type siteReader struct {
	pool *pgxpool.Pool
}

// NewReader constructs a PostgreSQL backed [Reader].
func NewReader(pool *pgxpool.Pool) Reader {
	return &siteReader{pool: pool}
}

// Books implements [Reader].
func (reader *siteReader) Books(context context.Context, limit, offset int) ([]BookCard, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s, COUNT(*) OVER()
		FROM %s
		WHERE %s
		ORDER BY %s ASC, %s ASC
		LIMIT $1 OFFSET $2`,
		schema.ContentBook.Name, schema.ContentBook.Slug, schema.ContentBook.Description, schema.ContentBook.Cover,
		schema.ContentBook.Table,
		schema.ContentBook.Published,
		schema.ContentBook.Position, schema.ContentBook.CreatedAt,
	)

	rows, err := reader.pool.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list published books: %w", err)
	}
	defer rows.Close()

	books := []BookCard{}
	total := 0
	for rows.Next() {
		var book BookCard
		if err := rows.Scan(&book.Name, &book.Slug, &book.Description, &book.Cover, &total); err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan published book: %w", err)
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to iterate published books: %w", err)
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`,
		schema.ContentBook.Table, schema.ContentBook.Published)
	total, err = postgres.CountPastEnd(context, reader.pool, total, len(books), offset, countQuery)
	if err != nil {
		return nil, 0, err
	}
	return books, total, nil
}

/*
Book implements [Reader].

Description: Loads the book, its published chapters, then every published page
of the book in one ordered pass that is split between chapters and the top level.
*/
func (reader *siteReader) Book(context context.Context, bookSlug string) (*BookTOC, error) {
	bookQuery := fmt.Sprintf(`
		SELECT b.%s, b.%s, b.%s, b.%s, b.%s, u.%s
		FROM %s b
		JOIN %s u ON u.%s = b.%s
		WHERE b.%s = $1 AND b.%s`,
		schema.ContentBook.ID, schema.ContentBook.Name, schema.ContentBook.Slug,
		schema.ContentBook.Description, schema.ContentBook.Cover, schema.UserAccount.Name,
		schema.ContentBook.Table,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.ContentBook.AuthorID,
		schema.ContentBook.Slug, schema.ContentBook.Published,
	)

	book := &BookTOC{Chapters: []ChapterTOC{}, Pages: []PageLink{}}
	if err := reader.pool.QueryRow(context, bookQuery, bookSlug).Scan(
		&book.ID, &book.Name, &book.Slug, &book.Description, &book.Cover, &book.Author,
	); err != nil {
		return nil, dberr.Wrap(err, "Book")
	}

	// 1. Published chapters
	chapterQuery := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s
		ORDER BY %s ASC, %s ASC`,
		schema.ContentChapter.ID, schema.ContentChapter.Name, schema.ContentChapter.Slug, schema.ContentChapter.Description,
		schema.ContentChapter.Table,
		schema.ContentChapter.BookID, schema.ContentChapter.Published,
		schema.ContentChapter.Position, schema.ContentChapter.CreatedAt,
	)

	rows, err := reader.pool.Query(context, chapterQuery, book.ID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list published chapters: %w", err)
	}

	index := make(map[string]int)
	for rows.Next() {
		var id string
		chapter := ChapterTOC{Pages: []PageLink{}}
		if err := rows.Scan(&id, &chapter.Name, &chapter.Slug, &chapter.Description); err != nil {
			rows.Close()
			return nil, fmt.Errorf("postgres: failed to scan published chapter: %w", err)
		}
		index[id] = len(book.Chapters)
		book.Chapters = append(book.Chapters, chapter)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to iterate published chapters: %w", err)
	}

	// 2. Published pages; those of unpublished chapters are dropped
	pageQuery := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s
		ORDER BY %s ASC, %s ASC`,
		schema.ContentPage.ID, schema.ContentPage.ChapterID, schema.ContentPage.Title, schema.ContentPage.Slug,
		schema.ContentPage.Table,
		schema.ContentPage.BookID, schema.ContentPage.Published,
		schema.ContentPage.Position, schema.ContentPage.CreatedAt,
	)

	rows, err = reader.pool.Query(context, pageQuery, book.ID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list published pages: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var link PageLink
		var chapterID *string
		if err := rows.Scan(&link.ID, &chapterID, &link.Title, &link.Slug); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan published page: %w", err)
		}

		if chapterID == nil {
			book.Pages = append(book.Pages, link)
			continue
		}
		if position, found := index[*chapterID]; found {
			link.ChapterSlug = book.Chapters[position].Slug
			book.Chapters[position].Pages = append(book.Chapters[position].Pages, link)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: failed to iterate published pages: %w", err)
	}
	return book, nil
}

// Page implements [Reader].
func (reader *siteReader) Page(context context.Context, bookSlug, chapterSlug, pageSlug string) (*PageDoc, error) {
	query := fmt.Sprintf(`
		SELECT
			p.%s, p.%s, p.%s, p.%s, p.%s, u.%s,
			b.%s, b.%s, b.%s,
			ch.%s, ch.%s, ch.%s
		FROM %s p
		JOIN %s b ON b.%s = p.%s
		JOIN %s u ON u.%s = p.%s
		LEFT JOIN %s ch ON ch.%s = p.%s
		WHERE b.%s = $1 AND p.%s = $3 AND b.%s AND p.%s
		  AND (($2 = '' AND p.%s IS NULL) OR (ch.%s = $2 AND ch.%s))`,
		schema.ContentPage.ID, schema.ContentPage.Title, schema.ContentPage.Slug,
		schema.ContentPage.Content, schema.ContentPage.UpdatedAt, schema.UserAccount.Name,
		schema.ContentBook.ID, schema.ContentBook.Name, schema.ContentBook.Slug,
		schema.ContentChapter.ID, schema.ContentChapter.Name, schema.ContentChapter.Slug,
		schema.ContentPage.Table,
		schema.ContentBook.Table, schema.ContentBook.ID, schema.ContentPage.BookID,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.ContentPage.AuthorID,
		schema.ContentChapter.Table, schema.ContentChapter.ID, schema.ContentPage.ChapterID,
		schema.ContentBook.Slug, schema.ContentPage.Slug, schema.ContentBook.Published, schema.ContentPage.Published,
		schema.ContentPage.ChapterID, schema.ContentChapter.Slug, schema.ContentChapter.Published,
	)

	page := &PageDoc{Tags: []tag.Tag{}}
	var chapterID, chapterName, chapterSlugValue *string
	if err := reader.pool.QueryRow(context, query, bookSlug, chapterSlug, pageSlug).Scan(
		&page.ID, &page.Title, &page.Slug, &page.Content, &page.UpdatedAt, &page.Author,
		&page.Book.ID, &page.Book.Name, &page.Book.Slug,
		&chapterID, &chapterName, &chapterSlugValue,
	); err != nil {
		return nil, dberr.Wrap(err, "Page")
	}
	if chapterID != nil {
		page.Chapter = &reference.Chapter{ID: *chapterID, Name: *chapterName, Slug: *chapterSlugValue}
	}

	tags, err := reader.tags(context, page.ID)
	if err != nil {
		return nil, err
	}
	page.Tags = tags

	siblings, err := reader.siblings(context, page.Book.ID, chapterID, chapterSlug)
	if err != nil {
		return nil, err
	}
	page.Siblings = siblings

	return page, nil
}

// Articles implements [Reader].
func (reader *siteReader) Articles(context context.Context, limit, offset int) ([]ArticleCard, int, error) {
	query := fmt.Sprintf(`
		SELECT a.%s, a.%s, c.%s, a.%s, COUNT(*) OVER()
		FROM %s a
		JOIN %s c ON c.%s = a.%s
		WHERE a.%s
		ORDER BY a.%s DESC
		LIMIT $1 OFFSET $2`,
		schema.ContentArticle.ID, schema.ContentArticle.Title, schema.ContentCategory.Name, schema.ContentArticle.CreatedAt,
		schema.ContentArticle.Table,
		schema.ContentCategory.Table, schema.ContentCategory.ID, schema.ContentArticle.CategoryID,
		schema.ContentArticle.Published,
		schema.ContentArticle.CreatedAt,
	)

	rows, err := reader.pool.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to list published articles: %w", err)
	}
	defer rows.Close()

	articles := []ArticleCard{}
	total := 0
	for rows.Next() {
		var article ArticleCard
		if err := rows.Scan(&article.ID, &article.Title, &article.Category, &article.CreatedAt, &total); err != nil {
			return nil, 0, fmt.Errorf("postgres: failed to scan published article: %w", err)
		}
		articles = append(articles, article)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("postgres: failed to iterate published articles: %w", err)
	}

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s WHERE %s`,
		schema.ContentArticle.Table, schema.ContentArticle.Published)
	total, err = postgres.CountPastEnd(context, reader.pool, total, len(articles), offset, countQuery)
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

// Article implements [Reader].
func (reader *siteReader) Article(context context.Context, id string) (*ArticleDoc, error) {
	query := fmt.Sprintf(`
		SELECT a.%s, a.%s, a.%s, a.%s, a.%s, u.%s, c.%s, c.%s, c.%s
		FROM %s a
		JOIN %s u ON u.%s = a.%s
		JOIN %s c ON c.%s = a.%s
		WHERE a.%s = $1 AND a.%s`,
		schema.ContentArticle.ID, schema.ContentArticle.Title, schema.ContentArticle.Content,
		schema.ContentArticle.CreatedAt, schema.ContentArticle.UpdatedAt,
		schema.UserAccount.Name,
		schema.ContentCategory.ID, schema.ContentCategory.Name, schema.ContentCategory.Slug,
		schema.ContentArticle.Table,
		schema.UserAccount.Table, schema.UserAccount.ID, schema.ContentArticle.AuthorID,
		schema.ContentCategory.Table, schema.ContentCategory.ID, schema.ContentArticle.CategoryID,
		schema.ContentArticle.ID, schema.ContentArticle.Published,
	)

	article := &ArticleDoc{}
	if err := reader.pool.QueryRow(context, query, id).Scan(
		&article.ID, &article.Title, &article.Content, &article.CreatedAt, &article.UpdatedAt,
		&article.Author,
		&article.Category.ID, &article.Category.Name, &article.Category.Slug,
	); err != nil {
		return nil, dberr.Wrap(err, "Article")
	}
	return article, nil
}

// # Internal Helpers

func (reader *siteReader) tags(context context.Context, pageID string) ([]tag.Tag, error) {
	query := fmt.Sprintf(`
		SELECT t.%s, t.%s, t.%s, t.%s
		FROM %s t
		JOIN %s pt ON pt.%s = t.%s
		WHERE pt.%s = $1
		ORDER BY t.%s ASC`,
		schema.ContentTag.ID, schema.ContentTag.Name, schema.ContentTag.Slug, schema.ContentTag.Color,
		schema.ContentTag.Table,
		schema.ContentPageTag.Table, schema.ContentPageTag.TagID, schema.ContentTag.ID,
		schema.ContentPageTag.PageID,
		schema.ContentTag.Name,
	)

	rows, err := reader.pool.Query(context, query, pageID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to load page tags: %w", err)
	}

	tags, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (tag.Tag, error) {
		var t tag.Tag
		err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.Color)
		return t, err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to collect page tags: %w", err)
	}
	return tags, nil
}

// siblings lists the published pages sharing a container, in position order.
func (reader *siteReader) siblings(context context.Context, bookID string, chapterID *string, chapterSlug string) ([]PageLink, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s
		FROM %s
		WHERE %s = $1 AND %s IS NOT DISTINCT FROM $2::uuid AND %s
		ORDER BY %s ASC, %s ASC`,
		schema.ContentPage.ID, schema.ContentPage.Title, schema.ContentPage.Slug,
		schema.ContentPage.Table,
		schema.ContentPage.BookID, schema.ContentPage.ChapterID, schema.ContentPage.Published,
		schema.ContentPage.Position, schema.ContentPage.CreatedAt,
	)

	rows, err := reader.pool.Query(context, query, bookID, chapterID)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to list sibling pages: %w", err)
	}

	links, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (PageLink, error) {
		link := PageLink{ChapterSlug: chapterSlug}
		err := row.Scan(&link.ID, &link.Title, &link.Slug)
		return link, err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to collect sibling pages: %w", err)
	}
	return links, nil
}
