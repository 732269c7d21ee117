// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content

import (
	"fmt"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"golang.org/x/net/html"
)

// Markdown renders doc to HTML and converts the result to Markdown.
// Skipped blocks are skipped here too.
func Markdown(doc Document) (string, error) {
	rendered := Render(doc).HTML()

	root, err := html.Parse(strings.NewReader(string(rendered)))
	if err != nil {
		return "", fmt.Errorf("content: failed to parse rendered HTML: %w", err)
	}

	markdownBytes, err := htmltomarkdown.ConvertNode(root)
	if err != nil {
		return "", fmt.Errorf("content: failed to convert HTML to markdown: %w", err)
	}

	return strings.TrimSpace(string(markdownBytes)), nil
}
