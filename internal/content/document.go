// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package content defines the block document stored on pages and articles and
renders it to HTML and Markdown.

A document is the JSON emitted by the block editor (EditorJS wire format):

	{"time": 1718000000000, "blocks": [{"id": "x1", "type": "header", "data": {"level": 2, "text": "Intro"}}]}

Storage treats the document as opaque JSONB. Block payloads are kept as raw
JSON so kinds this package does not know survive a round trip untouched.

Trust boundary:

  - Inline strings (heading, paragraph, list item, quote text) are inserted
    into HTML verbatim by [Render].
  - Code is plain text and always escaped.
  - Documents from outside the paired editor are cleaned on ingest by
    [Sanitizer.SanitizeDocument].
*/
package content

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// # Document Model

// Document is an ordered sequence of typed blocks.
type Document struct {
	Time    int64   `json:"time,omitempty"`
	Blocks  []Block `json:"blocks"`
	Version string  `json:"version,omitempty"`
}

// Block is a single typed unit of a [Document].
type Block struct {
	ID   string          `json:"id,omitempty"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Empty returns the default document stored when none is supplied.
func Empty() Document {
	return Document{Blocks: []Block{}}
}

// MarshalJSON always emits "blocks" as an array, never null.
func (d Document) MarshalJSON() ([]byte, error) {
	type plain Document
	if d.Blocks == nil {
		d.Blocks = []Block{}
	}
	return json.Marshal(plain(d))
}

// Parse decodes a wire document. A body that is not an object with a
// "blocks" array is rejected.
func Parse(raw []byte) (Document, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '{' {
		return Document{}, errors.New("content: document must be a JSON object")
	}

	var probe struct {
		Blocks json.RawMessage `json:"blocks"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return Document{}, fmt.Errorf("content: invalid document: %w", err)
	}
	if trimmed := bytes.TrimSpace(probe.Blocks); len(trimmed) == 0 || trimmed[0] != '[' {
		return Document{}, errors.New("content: document must have a blocks array")
	}

	var doc Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return Document{}, fmt.Errorf("content: invalid document: %w", err)
	}
	return doc, nil
}

// # Block Kinds

// Kind is the closed set of block kinds this package renders.
type Kind string

const (
	KindHeading   Kind = "heading"
	KindParagraph Kind = "paragraph"
	KindList      Kind = "list"
	KindQuote     Kind = "quote"
	KindCode      Kind = "code"
	KindDivider   Kind = "divider"
)

// KindOf maps a wire type to a [Kind]. The editor names headings "header"
// and dividers "delimiter"; both spellings are accepted.
func KindOf(wireType string) (Kind, bool) {
	switch wireType {
	case "header", "heading":
		return KindHeading, true
	case "paragraph":
		return KindParagraph, true
	case "list":
		return KindList, true
	case "quote":
		return KindQuote, true
	case "code":
		return KindCode, true
	case "delimiter", "divider":
		return KindDivider, true
	}
	return "", false
}

// # Payloads

type headingData struct {
	Level *int    `json:"level"`
	Text  *string `json:"text"`
}

type paragraphData struct {
	Text *string `json:"text"`
}

type listData struct {
	Style string     `json:"style"`
	Items []ListItem `json:"items"`
}

type quoteData struct {
	Text    *string `json:"text"`
	Caption string  `json:"caption"`
}

type codeData struct {
	Code *string `json:"code"`
}

// ListItem is one entry of a list block. The editor emits either a plain
// string or an object {"content": "...", "items": [...]} for nested lists.
type ListItem struct {
	Content string
	Items   []ListItem
}

// UnmarshalJSON accepts both list item encodings.
func (item *ListItem) UnmarshalJSON(raw []byte) error {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil {
		*item = ListItem{Content: text}
		return nil
	}

	var nested struct {
		Content string     `json:"content"`
		Items   []ListItem `json:"items"`
	}
	if err := json.Unmarshal(raw, &nested); err != nil {
		return fmt.Errorf("content: list item must be a string or an object: %w", err)
	}
	*item = ListItem{Content: nested.Content, Items: nested.Items}
	return nil
}
