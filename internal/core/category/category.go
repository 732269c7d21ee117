// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package category groups articles. Categories are found or created by name
// and cannot be deleted while articles still reference them.
package category

import "time"

const (
	FieldName        = "name"
	FieldDescription = "description"
)

const MaxNameLength = 80

// Category classifies articles.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"-"`
}
