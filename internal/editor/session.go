// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package editor

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/taibuivan/folio/internal/content"
	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/sec"
)

// Session is an acquired draft held by one caller.
//
// Release runs at most once per Session. Capture and Commit fail with NotFound
// once the session has been released, here or by another process.
type Session struct {
	draft  *Draft
	claims *sec.AuthClaims
	store  Store
	target Target
	logger *slog.Logger

	once     sync.Once
	released bool
	mu       sync.Mutex
}

// Draft returns a snapshot of the captured session.
func (session *Session) Draft() Draft {
	session.mu.Lock()
	defer session.mu.Unlock()
	return *session.draft
}

// Capture replaces the whole document with raw, as emitted by the widget.
func (session *Session) Capture(context context.Context, raw json.RawMessage) (*Draft, error) {
	doc, err := content.Parse(raw)
	if err != nil {
		return nil, apperr.FieldInvalid(FieldContent, err.Error())
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.released {
		return nil, apperr.NotFound("Draft")
	}

	updated := *session.draft
	updated.Content = doc
	updated.UpdatedAt = time.Now().UTC()

	if err := session.store.Save(context, &updated); err != nil {
		return nil, err
	}
	session.draft = &updated

	snapshot := updated
	return &snapshot, nil
}

// Commit writes the captured document to the target as it is, then releases
// the session. A rejected commit keeps the session open.
func (session *Session) Commit(context context.Context) error {
	draft := session.Draft()

	session.mu.Lock()
	released := session.released
	session.mu.Unlock()
	if released {
		return apperr.NotFound("Draft")
	}

	if err := session.target.CommitContent(context, session.claims, draft.TargetID, draft.Content); err != nil {
		return err
	}

	session.logger.Info("draft_committed",
		slog.String("draft_id", draft.ID),
		slog.String("target_type", string(draft.TargetType)),
		slog.String("target_id", draft.TargetID),
		slog.Int("blocks", len(draft.Content.Blocks)),
	)

	return session.Release(context)
}

// Release ends the session. Later calls return NotFound.
func (session *Session) Release(context context.Context) error {
	var err error = apperr.NotFound("Draft")

	session.once.Do(func() {
		session.mu.Lock()
		session.released = true
		session.mu.Unlock()

		_, err = session.store.Release(context, session.draft.ID)
		if err == nil {
			session.logger.Info("draft_released", slog.String("draft_id", session.draft.ID))
		}
	})

	return err
}
