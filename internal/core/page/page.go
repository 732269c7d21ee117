// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package page manages pages, the leaves of the documentation tree.

A page always belongs to a book and optionally to one of that book's chapters.
Its slug is unique within the book regardless of chapter, and its position is
counted within its container (the chapter, or the book's top level).

The body is a [content.Document] stored as JSONB. Documents arriving over the
API are sanitized on ingest when the service is given a sanitizer.
*/
package page

import (
	"time"

	"github.com/taibuivan/folio/internal/content"
	"github.com/taibuivan/folio/internal/core/reference"
	"github.com/taibuivan/folio/internal/core/tag"
)

const (
	FieldBookID    = "bookId"
	FieldChapterID = "chapterId"
	FieldTitle     = "title"
	FieldContent   = "content"
	FieldPosition  = "position"
	FieldTagIDs    = "tagIds"
)

// MaxTitleLength bounds page titles.
const MaxTitleLength = 200

// Page is a single document inside a book.
type Page struct {
	ID        string           `json:"id"`
	BookID    string           `json:"bookId"`
	ChapterID *string          `json:"chapterId"`
	Title     string           `json:"title"`
	Slug      string           `json:"slug"`
	Content   content.Document `json:"content"`
	Draft     bool             `json:"draft"`
	Published bool             `json:"published"`
	Position  int              `json:"position"`
	AuthorID  string           `json:"authorId"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`

	// Hydrated on read
	Author  *reference.Author  `json:"author,omitempty"`
	Book    *reference.Book    `json:"book,omitempty"`
	Chapter *reference.Chapter `json:"chapter,omitempty"`
	Tags    []tag.Tag          `json:"tags"`
}

// Filter selects the pages of one container.
//
// ChapterID narrows the listing to one chapter; when empty every page of the
// book is returned.
type Filter struct {
	BookID    string
	ChapterID string
}
