// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article

import (
	"context"

	"github.com/taibuivan/folio/internal/core/reference"
)

// # Repository Interface

// Repository defines the persistence contract for articles.
//
// Create and Update return an error wrapping [slug.ErrTaken] when another
// article already holds the slug.
type Repository interface {
	// List returns articles newest first with the total count for pagination.
	List(context context.Context, filter Filter, limit, offset int) ([]*Article, int, error)

	// FindByID returns an article with its author and category, published or not.
	FindByID(context context.Context, id string) (*Article, error)

	// FindCategory returns the summary of a category, or NotFound.
	FindCategory(context context.Context, categoryID string) (*reference.Category, error)

	// Slugs returns every article slug except the one held by excludeID.
	Slugs(context context.Context, excludeID string) ([]string, error)

	Create(context context.Context, article *Article) error
	Update(context context.Context, article *Article) error
	Delete(context context.Context, id string) error
}
