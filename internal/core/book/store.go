// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

import "context"

// # Repository Interface

// Repository defines the persistence contract for books.
//
// Create and Update return an error wrapping [slug.ErrTaken] when another book
// already holds the slug, so callers can retry with a fresh candidate.
type Repository interface {
	/*
		List returns books ordered by position and the total count.

		Parameters:
		  - context: context.Context
		  - filter: Filter
		  - limit: int
		  - offset: int

		Returns:
		  - []*Book: Books with author and counts
		  - int: Total matching books
		  - error: Storage failures
	*/
	List(context context.Context, filter Filter, limit, offset int) ([]*Book, int, error)

	// FindByID returns a hydrated book or NotFound.
	FindByID(context context.Context, id string) (*Book, error)

	// Detail returns the book with its table of contents.
	Detail(context context.Context, id string) (*Detail, error)

	// Slugs returns every book slug except the one held by excludeID.
	Slugs(context context.Context, excludeID string) ([]string, error)

	// Create inserts the book at the end of the shelf and fills Position and timestamps.
	Create(context context.Context, book *Book) error

	// Update persists mutable fields and refreshes UpdatedAt.
	Update(context context.Context, book *Book) error

	// Delete removes the book together with its chapters and pages.
	Delete(context context.Context, id string) error
}
