// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content

import (
	"context"
	"encoding/json"
	"html/template"
	"io"
	"iter"
	"strconv"
	"strings"
)

// # Rendered Nodes

// Node is the rendered form of one block.
type Node struct {
	Kind    Kind
	BlockID string
	// Index is the position of the source block in the document.
	Index int

	markup template.HTML
}

// HTML returns the node markup.
func (node Node) HTML() template.HTML {
	return node.markup
}

// Render writes the node markup to w. The signature matches templ.Component.
func (node Node) Render(_ context.Context, w io.Writer) error {
	_, err := io.WriteString(w, string(node.markup))
	return err
}

// Warning describes a block that was skipped because its payload was invalid.
type Warning struct {
	Index   int
	BlockID string
	Kind    string
	Reason  string
}

// Option configures [Render].
type Option func(*renderOptions)

type renderOptions struct {
	onWarning func(Warning)
}

// WithWarnings registers fn to receive a [Warning] for every malformed block.
// fn is called each time the nodes are iterated.
func WithWarnings(fn func(Warning)) Option {
	return func(opts *renderOptions) {
		opts.onWarning = fn
	}
}

// # Rendering

// Rendering is a lazy view of a rendered document.
type Rendering struct {
	doc  Document
	opts renderOptions
}

// Render prepares doc for rendering. No work happens until the nodes are iterated.
func Render(doc Document, opts ...Option) Rendering {
	rendering := Rendering{doc: doc}
	for _, opt := range opts {
		opt(&rendering.opts)
	}
	return rendering
}

/*
Nodes yields one [Node] per renderable block, in document order.

Description: The sequence is finite and restartable; every range re-walks the
blocks. Unknown kinds yield nothing. Blocks with a missing required field, an
invalid heading level or an invalid list style yield nothing and are reported
through [WithWarnings].
*/
func (rendering Rendering) Nodes() iter.Seq[Node] {
	return func(yield func(Node) bool) {
		for index, block := range rendering.doc.Blocks {
			kind, known := KindOf(block.Type)
			if !known {
				continue
			}

			markup, reason := renderBlock(kind, block.Data)
			if reason != "" {
				if rendering.opts.onWarning != nil {
					rendering.opts.onWarning(Warning{
						Index:   index,
						BlockID: block.ID,
						Kind:    block.Type,
						Reason:  reason,
					})
				}
				continue
			}

			if !yield(Node{Kind: kind, BlockID: block.ID, Index: index, markup: markup}) {
				return
			}
		}
	}
}

// HTML concatenates the markup of every node.
func (rendering Rendering) HTML() template.HTML {
	var builder strings.Builder
	for node := range rendering.Nodes() {
		builder.WriteString(string(node.markup))
	}
	return template.HTML(builder.String())
}

// Render writes every node to w. The signature matches templ.Component.
func (rendering Rendering) Render(ctx context.Context, w io.Writer) error {
	for node := range rendering.Nodes() {
		if err := node.Render(ctx, w); err != nil {
			return err
		}
	}
	return nil
}

// # Block Markup

// renderBlock returns the markup of a known block, or a non-empty reason when
// the payload cannot be rendered.
func renderBlock(kind Kind, data json.RawMessage) (template.HTML, string) {
	if len(data) == 0 {
		data = json.RawMessage(`{}`)
	}

	var builder strings.Builder

	switch kind {
	case KindHeading:
		var payload headingData
		if err := json.Unmarshal(data, &payload); err != nil {
			return "", "invalid heading payload"
		}
		if payload.Text == nil {
			return "", "missing text"
		}
		level := 2
		if payload.Level != nil {
			level = *payload.Level
		}
		if level < 1 || level > 6 {
			return "", "heading level must be between 1 and 6"
		}
		tag := "h" + strconv.Itoa(level)
		builder.WriteString("<" + tag + ">" + *payload.Text + "</" + tag + ">")

	case KindParagraph:
		var payload paragraphData
		if err := json.Unmarshal(data, &payload); err != nil {
			return "", "invalid paragraph payload"
		}
		if payload.Text == nil {
			return "", "missing text"
		}
		builder.WriteString("<p>" + *payload.Text + "</p>")

	case KindList:
		var payload listData
		if err := json.Unmarshal(data, &payload); err != nil {
			return "", "invalid list payload"
		}
		if payload.Items == nil {
			return "", "missing items"
		}
		tag, ok := listTag(payload.Style)
		if !ok {
			return "", "list style must be ordered or unordered"
		}
		writeList(&builder, tag, payload.Items)

	case KindQuote:
		var payload quoteData
		if err := json.Unmarshal(data, &payload); err != nil {
			return "", "invalid quote payload"
		}
		if payload.Text == nil {
			return "", "missing text"
		}
		builder.WriteString("<blockquote><p>" + *payload.Text + "</p>")
		if payload.Caption != "" {
			builder.WriteString("<cite>" + payload.Caption + "</cite>")
		}
		builder.WriteString("</blockquote>")

	case KindCode:
		var payload codeData
		if err := json.Unmarshal(data, &payload); err != nil {
			return "", "invalid code payload"
		}
		if payload.Code == nil {
			return "", "missing code"
		}
		builder.WriteString("<pre><code>" + template.HTMLEscapeString(*payload.Code) + "</code></pre>")

	case KindDivider:
		builder.WriteString("<hr>")
	}

	return template.HTML(builder.String()), ""
}

// listTag resolves a list style. An absent style means unordered.
func listTag(style string) (string, bool) {
	switch style {
	case "ordered":
		return "ol", true
	case "unordered", "":
		return "ul", true
	}
	return "", false
}

// writeList renders items recursively; nested lists reuse the parent tag.
func writeList(builder *strings.Builder, tag string, items []ListItem) {
	builder.WriteString("<" + tag + ">")
	for _, item := range items {
		builder.WriteString("<li>" + item.Content)
		if len(item.Items) > 0 {
			writeList(builder, tag, item.Items)
		}
		builder.WriteString("</li>")
	}
	builder.WriteString("</" + tag + ">")
}
