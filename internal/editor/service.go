// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package editor

import (
	"context"
	"log/slog"
	"time"

	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/sec"
	"github.com/taibuivan/folio/internal/platform/validate"
	"github.com/taibuivan/folio/pkg/uuid"
)

// # Service Layer

// Service opens and resumes draft sessions.
type Service struct {
	store   Store
	targets map[TargetType]Target
	logger  *slog.Logger
}

/*
NewService constructs a new editor [Service].

Parameters:
  - store: Store
  - pages: Target (the page service)
  - articles: Target (the article service)
  - logger: *slog.Logger
*/
func NewService(store Store, pages, articles Target, logger *slog.Logger) *Service {
	return &Service{
		store:   store,
		targets: map[TargetType]Target{TargetPage: pages, TargetArticle: articles},
		logger:  logger,
	}
}

// OpenInput is the payload of POST /api/drafts.
type OpenInput struct {
	TargetType TargetType `json:"targetType"`
	TargetID   string     `json:"targetId"`
}

/*
Open acquires the caller's session on a page or article.

Description: The target's update policy is checked first, so only someone
allowed to commit can open a session. A new session is seeded with the stored
document. When the caller already has one open on the same target, that session
is returned untouched and created is false.
*/
func (service *Service) Open(context context.Context, claims *sec.AuthClaims, input OpenInput) (*Draft, bool, error) {
	if claims == nil {
		return nil, false, apperr.Unauthorized("Authentication required")
	}

	validator := &validate.Validator{}
	validator.OneOf(FieldTargetType, string(input.TargetType), string(TargetPage), string(TargetArticle)).
		UUID(FieldTargetID, input.TargetID)
	if err := validator.Err(); err != nil {
		return nil, false, err
	}

	seed, err := service.targets[input.TargetType].EditableContent(context, claims, input.TargetID)
	if err != nil {
		return nil, false, err
	}

	now := time.Now().UTC()
	draft, created, err := service.store.Acquire(context, &Draft{
		ID:         uuid.New(),
		ActorID:    claims.UserID,
		TargetType: input.TargetType,
		TargetID:   input.TargetID,
		Content:    seed,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		return nil, false, err
	}

	service.logger.Info("draft_opened",
		slog.String("draft_id", draft.ID),
		slog.String("target_type", string(draft.TargetType)),
		slog.String("target_id", draft.TargetID),
		slog.Bool("created", created),
	)

	return draft, created, nil
}

// Resume returns the caller's open session. Sessions of other actors are
// reported as missing.
func (service *Service) Resume(context context.Context, claims *sec.AuthClaims, id string) (*Session, error) {
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	draft, err := service.store.Get(context, id)
	if err != nil {
		return nil, err
	}
	if draft.ActorID != claims.UserID {
		return nil, apperr.NotFound("Draft")
	}

	return &Session{
		draft:  draft,
		claims: claims,
		store:  service.store,
		target: service.targets[draft.TargetType],
		logger: service.logger,
	}, nil
}
