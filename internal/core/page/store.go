// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package page

import (
	"context"

	"github.com/taibuivan/folio/internal/core/reference"
)

// # Repository Interface

// Repository defines the persistence contract for pages.
//
// Create and Update return an error wrapping [slug.ErrTaken] when the slug is
// already used in the same book.
type Repository interface {
	// List returns pages of a container ordered by position.
	List(context context.Context, filter Filter) ([]*Page, error)

	// FindByID returns a page with its author, book, chapter and tags.
	FindByID(context context.Context, id string) (*Page, error)

	// FindBook returns the summary of a book, or NotFound.
	FindBook(context context.Context, bookID string) (*reference.Book, error)

	/*
		FindChapter returns the summary of a chapter and the book it belongs to.

		Returns:
		  - *reference.Chapter: Chapter summary
		  - string: Owning book ID
		  - error: NotFound
	*/
	FindChapter(context context.Context, chapterID string) (*reference.Chapter, string, error)

	// Slugs returns the page slugs of bookID except the one held by excludeID.
	Slugs(context context.Context, bookID, excludeID string) ([]string, error)

	// Create appends the page to its container and links tagIDs atomically.
	Create(context context.Context, page *Page, tagIDs []string) error

	// Update persists mutable fields. A nil tagIDs keeps the current tags;
	// a non-nil slice replaces them.
	Update(context context.Context, page *Page, tagIDs []string) error

	Delete(context context.Context, id string) error
}
