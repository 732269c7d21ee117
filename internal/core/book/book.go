// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package book manages books, the top-level containers of the documentation tree.

A book owns chapters and pages. Its slug is unique across all books and is
derived from its name once, then regenerated only when the name changes.

# Read model

List and FindByID return the book with its author summary and chapter/page
counts. Detail adds the table of contents used by editors: every chapter with
its published pages, followed by the pages that sit directly under the book.
*/
package book

import (
	"time"

	"github.com/taibuivan/folio/internal/core/reference"
)

// # Field Names

const (
	FieldName        = "name"
	FieldDescription = "description"
	FieldCover       = "cover"
	FieldPosition    = "position"
)

// MaxNameLength bounds book titles.
const MaxNameLength = 200

// # Domain Entities

// Book is the top-level container of chapters and pages.
type Book struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	Cover       *string   `json:"cover"`
	Published   bool      `json:"published"`
	Position    int       `json:"position"`
	AuthorID    string    `json:"authorId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Hydrated on read
	Author *reference.Author `json:"author,omitempty"`
	Count  *Count            `json:"_count,omitempty"`
}

// Count holds the number of chapters and pages in a book.
type Count struct {
	Chapters int `json:"chapters"`
	Pages    int `json:"pages"`
}

// PageSummary is a page entry of the table of contents.
type PageSummary struct {
	ID        string  `json:"id"`
	ChapterID *string `json:"chapterId"`
	Title     string  `json:"title"`
	Slug      string  `json:"slug"`
	Published bool    `json:"published"`
	Position  int     `json:"position"`
}

// ChapterSummary is a chapter entry of the table of contents.
type ChapterSummary struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Slug        string        `json:"slug"`
	Description *string       `json:"description"`
	Published   bool          `json:"published"`
	Position    int           `json:"position"`
	Pages       []PageSummary `json:"pages"`
}

// Detail is a book with its table of contents.
type Detail struct {
	*Book
	Chapters []ChapterSummary `json:"chapters"`
	Pages    []PageSummary    `json:"pages"`
}

// Filter narrows book listings.
type Filter struct {
	IncludeUnpublished bool
}
