// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import "context"

// Repository is the persistence contract for tags.
type Repository interface {
	List(context context.Context) ([]*Tag, error)

	// FindOrCreate inserts tag unless a tag with the same name exists, in which
	// case tag is overwritten with the stored row. created reports which happened.
	FindOrCreate(context context.Context, tag *Tag) (created bool, err error)
}
