// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package slug generates ASCII URL slugs from arbitrary Unicode strings and
// resolves collisions inside a uniqueness scope.
//
// # Usage
//
// Slugs are the human-readable path segments of the public site
// (e.g. "/books/api-reference/pages/getting-started").
//
// The package is scope-agnostic: callers fetch the slugs already used in the
// right scope (all books, or the pages of one book) and pass them to [Unique].
package slug

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/taibuivan/folio/pkg/uuid"
)

// nonAlphanumeric matches any run of characters that is not [a-z0-9].
var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// From converts an arbitrary Unicode string into a URL-safe ASCII slug.
//
// # Transformation Pipeline
//
// 1. Normalizes to NFD (decomposes accented chars: é → e + combining acute).
// 2. Removes combining marks (accents).
// 3. Converts to lowercase.
// 4. Replaces every run of non-alphanumeric characters with a single hyphen.
// 5. Trims leading and trailing hyphens.
//
// A title with no ASCII letters or digits yields "". Callers use [Fallback].
func From(title string) string {
	// 1. Normalize and remove accents
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn))
	result, _, err := transform.String(t, title)
	if err != nil {
		result = title
	}

	// 2. Lowercase
	result = strings.ToLower(result)

	// 3. Collapse separators
	result = nonAlphanumeric.ReplaceAllString(result, "-")

	return strings.Trim(result, "-")
}

// Unique returns base when it is not in existing, otherwise the first of
// base-2, base-3, ... that is not.
//
// The result is deterministic for the same inputs and never a member of existing.
func Unique(base string, existing []string) string {
	taken := make(map[string]struct{}, len(existing))
	for _, s := range existing {
		taken[s] = struct{}{}
	}

	if _, found := taken[base]; !found {
		return base
	}

	for n := 2; ; n++ {
		candidate := base + "-" + strconv.Itoa(n)
		if _, found := taken[candidate]; !found {
			return candidate
		}
	}
}

// Fallback returns "prefix-xxxxxxxx" built from the random tail of a UUIDv7.
// It is used when a title has no sluggable characters.
func Fallback(prefix string) string {
	id := strings.ReplaceAll(uuid.New(), "-", "")
	return prefix + "-" + id[len(id)-8:]
}

// FromOr returns [From] of title, or [Fallback] of prefix when that is empty.
func FromOr(title, prefix string) string {
	if s := From(title); s != "" {
		return s
	}
	return Fallback(prefix)
}

// isMn reports whether r is a Unicode non-spacing mark (e.g., accents).
func isMn(r rune) bool {
	return unicode.Is(unicode.Mn, r)
}
