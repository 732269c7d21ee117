// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package article manages standalone articles.

Articles live outside the book tree. Each one belongs to a category, carries a
block document like a page, and has a slug unique among all articles. Reads
served to the public only ever see published articles.
*/
package article

import (
	"time"

	"github.com/taibuivan/folio/internal/content"
	"github.com/taibuivan/folio/internal/core/reference"
)

const (
	FieldTitle      = "title"
	FieldContent    = "content"
	FieldCategoryID = "categoryId"
)

// MaxTitleLength bounds article titles.
const MaxTitleLength = 100

// Article is a standalone document filed under a category.
type Article struct {
	ID         string           `json:"id"`
	Title      string           `json:"title"`
	Slug       string           `json:"slug"`
	Content    content.Document `json:"content"`
	Published  bool             `json:"published"`
	AuthorID   string           `json:"authorId"`
	CategoryID string           `json:"categoryId"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`

	// Hydrated on read
	Author   *reference.Author   `json:"author,omitempty"`
	Category *reference.Category `json:"category,omitempty"`
}

// Filter narrows article listings.
type Filter struct {
	PublishedOnly bool
}
