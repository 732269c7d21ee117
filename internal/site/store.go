// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package site

import "context"

// Reader is the published-only read model behind the public site.
//
// Lookups of anything missing or unpublished return apperr.NotFound.
type Reader interface {
	Books(context context.Context, limit, offset int) ([]BookCard, int, error)
	Book(context context.Context, bookSlug string) (*BookTOC, error)

	// Page finds a page by slug. An empty chapterSlug selects the top level
	// of the book; otherwise the page must sit in that chapter.
	Page(context context.Context, bookSlug, chapterSlug, pageSlug string) (*PageDoc, error)

	Articles(context context.Context, limit, offset int) ([]ArticleCard, int, error)
	Article(context context.Context, id string) (*ArticleDoc, error)
}
