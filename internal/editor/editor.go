// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package editor holds the server side of the block editor: draft sessions.

The widget emits the whole document on every change. A draft session captures
the latest emission so an editor can reload without losing work, and commits
it to the page or article it was opened on.

Lifecycle:

	POST   /api/drafts              acquire (once per mount; reopening returns the same session)
	PUT    /api/drafts/{id}         capture a full document
	POST   /api/drafts/{id}/commit  write through the target's service, then release
	DELETE /api/drafts/{id}         release (unmount)

A session is released at most once. Any use after release answers 404, and a
remount has to acquire a new session.
*/
package editor

import (
	"context"
	"time"

	"github.com/taibuivan/folio/internal/content"
	"github.com/taibuivan/folio/internal/platform/sec"
)

const (
	FieldTargetType = "targetType"
	FieldTargetID   = "targetId"
	FieldContent    = "content"
)

// TargetType names the kind of entity a draft edits.
type TargetType string

const (
	TargetPage    TargetType = "page"
	TargetArticle TargetType = "article"
)

// Draft is a captured editor document bound to one actor and one target.
type Draft struct {
	ID         string           `json:"id"`
	ActorID    string           `json:"actorId"`
	TargetType TargetType       `json:"targetType"`
	TargetID   string           `json:"targetId"`
	Content    content.Document `json:"content"`
	CreatedAt  time.Time        `json:"createdAt"`
	UpdatedAt  time.Time        `json:"updatedAt"`
}

// Target is the service a draft reads its seed from and commits into.
// Both calls enforce the target's own update policy.
type Target interface {
	EditableContent(context context.Context, claims *sec.AuthClaims, id string) (content.Document, error)
	CommitContent(context context.Context, claims *sec.AuthClaims, id string, doc content.Document) error
}
