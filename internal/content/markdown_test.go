// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/content"
)

/*
TestMarkdown converts the rendered document.
*/
func TestMarkdown(t *testing.T) {
	doc := mustParse(t, `{"blocks": [
		{"type": "header", "data": {"level": 2, "text": "Getting started"}},
		{"type": "paragraph", "data": {"text": "Run the <b>installer</b>."}},
		{"type": "list", "data": {"style": "unordered", "items": ["one", "two"]}},
		{"type": "code", "data": {"code": "go run ./cmd/api"}},
		{"type": "unknown", "data": {"text": "hidden"}}
	]}`)

	markdown, err := content.Markdown(doc)
	require.NoError(t, err)

	assert.Contains(t, markdown, "## Getting started")
	assert.Contains(t, markdown, "**installer**")
	assert.Contains(t, markdown, "- one")
	assert.Contains(t, markdown, "go run ./cmd/api")
	assert.NotContains(t, markdown, "hidden")
}

/*
TestMarkdown_Empty returns an empty string for an empty document.
*/
func TestMarkdown_Empty(t *testing.T) {
	markdown, err := content.Markdown(content.Empty())
	require.NoError(t, err)
	assert.Empty(t, markdown)
}
