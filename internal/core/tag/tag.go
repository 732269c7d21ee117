// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import "time"

const (
	FieldName  = "name"
	FieldColor = "color"
)

// DefaultColor is used when a tag is created without a color.
const DefaultColor = "#64748b"

// MaxNameLength bounds tag names.
const MaxNameLength = 50

// Tag labels pages across books.
type Tag struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Color     string    `json:"color"`
	CreatedAt time.Time `json:"-"`
}
