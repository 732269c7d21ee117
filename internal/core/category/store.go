// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category

import "context"

// Repository is the persistence contract for categories.
type Repository interface {
	List(context context.Context) ([]*Category, error)

	// FindByID returns a category or NotFound.
	FindByID(context context.Context, id string) (*Category, error)

	// FindOrCreate inserts category unless the name is taken, in which case the
	// stored row is loaded into category instead.
	FindOrCreate(context context.Context, category *Category) (created bool, err error)
}
