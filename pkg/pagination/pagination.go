// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination parses ?page= and ?limit= and builds the list metadata
// shared by the JSON API envelope and the public site pager.
package pagination

import (
	"math"
	"net/http"
	"strconv"
)

const (
	// DefaultLimit is the page size when ?limit= is absent or invalid.
	DefaultLimit = 20
	// MaxLimit caps ?limit=. Larger values are clamped to it.
	MaxLimit = 100
	// DefaultPage is the first page (1-indexed).
	DefaultPage = 1
)

// Params is a validated page request.
type Params struct {
	Page  int
	Limit int
}

// Offset returns the SQL OFFSET for the page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Meta returns the response metadata for a list of total items.
func (p Params) Meta(total int) Meta {
	return NewMeta(p.Page, p.Limit, total)
}

// Meta is the "meta" object of a paginated response.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewMeta derives TotalPages from total and limit.
func NewMeta(page, limit, total int) Meta {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Meta{Page: page, Limit: limit, Total: total, TotalPages: totalPages}
}

// Prev returns the previous page number, or 0 on the first page.
func (m Meta) Prev() int {
	if m.Page <= 1 {
		return 0
	}
	return m.Page - 1
}

// Next returns the following page number, or 0 when this page is the last.
func (m Meta) Next() int {
	if m.Page >= m.TotalPages {
		return 0
	}
	return m.Page + 1
}

// FromRequest reads page and limit from the query string.
//
// A missing or unparsable value falls back to its default. A page below 1
// becomes [DefaultPage] and a limit above [MaxLimit] is clamped to it. Page is
// capped so that [Params.Offset] never overflows.
func FromRequest(r *http.Request) Params {
	query := r.URL.Query()
	page := intOr(query.Get("page"), DefaultPage)
	limit := intOr(query.Get("limit"), DefaultLimit)

	if page < 1 {
		page = DefaultPage
	}
	switch {
	case limit < 1:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}
	page = min(page, math.MaxInt/limit)

	return Params{Page: page, Limit: limit}
}

func intOr(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}
