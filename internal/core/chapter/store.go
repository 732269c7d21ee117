// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

import (
	"context"

	"github.com/taibuivan/folio/internal/core/reference"
)

// Repository defines the persistence contract for chapters.
//
// Create and Update return an error wrapping [slug.ErrTaken] when the slug is
// already used inside the same book.
type Repository interface {
	// ListByBook returns the chapters of a book in position order.
	ListByBook(context context.Context, bookID string) ([]*Chapter, error)

	// FindByID returns a chapter with its author and book summaries.
	FindByID(context context.Context, id string) (*Chapter, error)

	// FindBook returns the summary of a book, or NotFound.
	FindBook(context context.Context, bookID string) (*reference.Book, error)

	// Slugs returns the chapter slugs of bookID except the one held by excludeID.
	Slugs(context context.Context, bookID, excludeID string) ([]string, error)

	// Create appends the chapter to its book and fills Position and timestamps.
	Create(context context.Context, chapter *Chapter) error

	Update(context context.Context, chapter *Chapter) error

	// Delete removes the chapter; its pages move to the top level of the book.
	Delete(context context.Context, id string) error
}
