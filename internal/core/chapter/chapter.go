// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package chapter manages chapters, the ordered sections inside a book.

Chapter slugs are unique within their book only. Deleting a chapter detaches
its pages, which stay in the book as direct pages.
*/
package chapter

import (
	"time"

	"github.com/taibuivan/folio/internal/core/reference"
)

const (
	FieldBookID      = "bookId"
	FieldName        = "name"
	FieldDescription = "description"
	FieldPosition    = "position"
)

// MaxNameLength bounds chapter names.
const MaxNameLength = 200

// Chapter is an ordered section of a book.
type Chapter struct {
	ID          string    `json:"id"`
	BookID      string    `json:"bookId"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	Published   bool      `json:"published"`
	Position    int       `json:"position"`
	AuthorID    string    `json:"authorId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	Author *reference.Author `json:"author,omitempty"`
	Book   *reference.Book   `json:"book,omitempty"`
}
