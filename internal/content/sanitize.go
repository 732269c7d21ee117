// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content

import (
	"encoding/json"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer cleans the inline HTML of a document before it is stored.
//
// Inline fields keep basic formatting and links. Quote captions are reduced to
// text. Code is left alone because [Render] escapes it.
type Sanitizer struct {
	inline *bluemonday.Policy
	plain  *bluemonday.Policy
}

// NewSanitizer builds the inline formatting policy.
func NewSanitizer() *Sanitizer {
	inline := bluemonday.NewPolicy()
	inline.AllowStandardURLs()
	inline.AllowElements("b", "strong", "i", "em", "u", "s", "mark", "code", "br", "sub", "sup")
	inline.AllowAttrs("href").OnElements("a")
	inline.RequireNoFollowOnLinks(true)

	return &Sanitizer{inline: inline, plain: bluemonday.StrictPolicy()}
}

// Inline sanitizes a single inline HTML fragment.
func (sanitizer *Sanitizer) Inline(fragment string) string {
	return sanitizer.inline.Sanitize(fragment)
}

// SanitizeDocument returns a copy of doc with every inline field sanitized.
// Unknown kinds and unknown payload keys are copied unchanged.
func (sanitizer *Sanitizer) SanitizeDocument(doc Document) Document {
	clean := Document{Time: doc.Time, Version: doc.Version, Blocks: make([]Block, 0, len(doc.Blocks))}

	for _, block := range doc.Blocks {
		kind, known := KindOf(block.Type)
		if !known || kind == KindCode || kind == KindDivider || len(block.Data) == 0 {
			clean.Blocks = append(clean.Blocks, block)
			continue
		}

		var payload map[string]any
		if err := json.Unmarshal(block.Data, &payload); err != nil {
			// Renders as a warning later; nothing to clean.
			clean.Blocks = append(clean.Blocks, block)
			continue
		}

		switch kind {
		case KindHeading, KindParagraph:
			sanitizer.field(payload, "text", sanitizer.inline)
		case KindQuote:
			sanitizer.field(payload, "text", sanitizer.inline)
			sanitizer.field(payload, "caption", sanitizer.plain)
		case KindList:
			if items, ok := payload["items"].([]any); ok {
				payload["items"] = sanitizer.items(items)
			}
		}

		data, err := json.Marshal(payload)
		if err != nil {
			clean.Blocks = append(clean.Blocks, block)
			continue
		}
		clean.Blocks = append(clean.Blocks, Block{ID: block.ID, Type: block.Type, Data: data})
	}

	return clean
}

func (sanitizer *Sanitizer) field(payload map[string]any, key string, policy *bluemonday.Policy) {
	if text, ok := payload[key].(string); ok {
		payload[key] = policy.Sanitize(text)
	}
}

func (sanitizer *Sanitizer) items(items []any) []any {
	for i, item := range items {
		switch value := item.(type) {
		case string:
			items[i] = sanitizer.inline.Sanitize(value)
		case map[string]any:
			sanitizer.field(value, "content", sanitizer.inline)
			if nested, ok := value["items"].([]any); ok {
				value["items"] = sanitizer.items(nested)
			}
		}
	}
	return items
}

// Ingest parses a document received from a client and sanitizes it when
// sanitizer is not nil. Missing or null input yields [Empty].
func Ingest(raw json.RawMessage, sanitizer *Sanitizer) (Document, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return Empty(), nil
	}

	doc, err := Parse(raw)
	if err != nil {
		return Document{}, err
	}

	if sanitizer == nil {
		return doc, nil
	}
	return sanitizer.SanitizeDocument(doc), nil
}
