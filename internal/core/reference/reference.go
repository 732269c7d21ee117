// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package reference holds the small summaries that content entities embed when
they point at each other (a page's book, a book's author).

They are read-only projections filled by JOINs in each domain's repository, so
domains never import one another just to describe a relation.
*/
package reference

// Author is the public projection of a user who wrote something.
type Author struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Book identifies the book a chapter or page belongs to.
type Book struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Chapter identifies the chapter a page belongs to.
type Chapter struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Category identifies the category of an article.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
