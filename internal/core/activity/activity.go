// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package activity records who changed which content and exposes each actor's
own history.

Recording is best effort: a failed write is logged and never fails the
mutation that triggered it.
*/
package activity

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/folio/internal/platform/ctxutil"
)

// Action is the kind of change recorded.
type Action string

const (
	ActionCreated   Action = "created"
	ActionUpdated   Action = "updated"
	ActionPublished Action = "published"
	ActionDeleted   Action = "deleted"
)

// Entity types.
const (
	EntityBook    = "book"
	EntityChapter = "chapter"
	EntityPage    = "page"
	EntityArticle = "article"
)

// Entry is one line of the activity log.
type Entry struct {
	ID         string    `json:"id"`
	ActorID    string    `json:"actorId"`
	Action     Action    `json:"action"`
	EntityType string    `json:"entityType"`
	EntityID   string    `json:"entityId"`
	EntityName string    `json:"entityName"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Recorder persists entries. Content services depend on this interface only.
type Recorder interface {
	Record(ctx context.Context, entry Entry) error
}

// UpdateAction returns ActionPublished when an update flips published on,
// and ActionUpdated otherwise.
func UpdateAction(wasPublished, isPublished bool) Action {
	if isPublished && !wasPublished {
		return ActionPublished
	}
	return ActionUpdated
}

// Track records entry through recorder and logs a failure instead of returning it.
// A nil recorder records nothing.
func Track(ctx context.Context, recorder Recorder, entry Entry) {
	if recorder == nil {
		return
	}

	if err := recorder.Record(ctx, entry); err != nil {
		ctxutil.GetLogger(ctx).WarnContext(ctx, "activity_record_failed",
			slog.String("action", string(entry.Action)),
			slog.String("entity_type", entry.EntityType),
			slog.String("entity_id", entry.EntityID),
			slog.Any("error", err),
		)
	}
}
