// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package site serves the public, server-rendered reading experience.

Routes:

	/                                                 published books
	/books/{bookSlug}                                 book header and table of contents
	/books/{bookSlug}/pages/{pageSlug}                page at the top level of a book
	/books/{bookSlug}/chapters/{chapterSlug}/pages/{pageSlug}
	/articles                                         published articles
	/articles/{id}                                    one article

Only published content is ever visible; anything else is a 404. Page and article
views also answer ?format=markdown.

Rendered responses are cached in Redis under a key that carries the current
content generation. Every recorded activity bumps the generation through
[InvalidatingRecorder], so stale entries are simply never read again and age
out with their TTL.
*/
package site

import (
	"html/template"
	"time"

	"github.com/taibuivan/folio/internal/content"
	"github.com/taibuivan/folio/internal/core/reference"
	"github.com/taibuivan/folio/internal/core/tag"
	"github.com/taibuivan/folio/pkg/pagination"
)

// # Read Models

// BookCard is a book on the home shelf.
type BookCard struct {
	Name        string
	Slug        string
	Description *string
	Cover       *string
}

// PageLink points at a published page.
type PageLink struct {
	ID          string
	Title       string
	Slug        string
	ChapterSlug string
}

// ChapterTOC is a published chapter with its published pages.
type ChapterTOC struct {
	Name        string
	Slug        string
	Description *string
	Pages       []PageLink
}

// BookTOC is a published book with its table of contents.
type BookTOC struct {
	ID          string
	Name        string
	Slug        string
	Description *string
	Cover       *string
	Author      string
	Chapters    []ChapterTOC
	Pages       []PageLink
}

// PageDoc is a published page with its context.
//
// Siblings holds the published pages of the same container in position order,
// the page itself included.
type PageDoc struct {
	ID        string
	Title     string
	Slug      string
	Content   content.Document
	UpdatedAt time.Time
	Author    string
	Book      reference.Book
	Chapter   *reference.Chapter
	Tags      []tag.Tag
	Siblings  []PageLink
}

// ArticleCard is an article in the public listing.
type ArticleCard struct {
	ID        string
	Title     string
	Category  string
	CreatedAt time.Time
}

// ArticleDoc is a published article with its category.
type ArticleDoc struct {
	ID        string
	Title     string
	Content   content.Document
	Author    string
	Category  reference.Category
	CreatedAt time.Time
	UpdatedAt time.Time
}

// # View Models

// Crumb is one step of a breadcrumb trail. The last crumb has no URL.
type Crumb struct {
	Name string
	URL  string
}

// Pager links the neighbours of a paginated listing.
type Pager struct {
	Page     int
	Total    int
	PrevPage int
	NextPage int
}

type shelfView struct {
	Books []BookCard
	Pager Pager
}

type bookView struct {
	Book   *BookTOC
	Crumbs []Crumb
}

type pageView struct {
	Page   *PageDoc
	Body   template.HTML
	Crumbs []Crumb
	Prev   *PageLink
	Next   *PageLink
}

type articlesView struct {
	Articles []ArticleCard
	Pager    Pager
}

type articleView struct {
	Article *ArticleDoc
	Body    template.HTML
}

type errorView struct {
	Status  int
	Message string
}

// # Links

// PageURL returns the public path of a page. An empty chapterSlug means the
// page sits at the top level of its book.
func PageURL(bookSlug, chapterSlug, pageSlug string) string {
	if chapterSlug == "" {
		return "/books/" + bookSlug + "/pages/" + pageSlug
	}
	return "/books/" + bookSlug + "/chapters/" + chapterSlug + "/pages/" + pageSlug
}

// Neighbours returns the pages before and after id in siblings.
func Neighbours(siblings []PageLink, id string) (prev, next *PageLink) {
	for index := range siblings {
		if siblings[index].ID != id {
			continue
		}
		if index > 0 {
			prev = &siblings[index-1]
		}
		if index+1 < len(siblings) {
			next = &siblings[index+1]
		}
		return prev, next
	}
	return nil, nil
}

// Breadcrumbs builds Books > book > [chapter >] page.
func Breadcrumbs(page *PageDoc) []Crumb {
	crumbs := []Crumb{
		{Name: "Books", URL: "/"},
		{Name: page.Book.Name, URL: "/books/" + page.Book.Slug},
	}
	if page.Chapter != nil {
		crumbs = append(crumbs, Crumb{Name: page.Chapter.Name, URL: "/books/" + page.Book.Slug + "#" + page.Chapter.Slug})
	}
	return append(crumbs, Crumb{Name: page.Title})
}

func newPager(page, limit, total int) Pager {
	meta := pagination.NewMeta(page, limit, total)
	return Pager{Page: page, Total: total, PrevPage: meta.Prev(), NextPage: meta.Next()}
}
