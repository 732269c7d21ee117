// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package chapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/taibuivan/folio/internal/core/activity"
	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/policy"
	"github.com/taibuivan/folio/internal/platform/sec"
	"github.com/taibuivan/folio/internal/platform/validate"
	"github.com/taibuivan/folio/pkg/pointer"
	"github.com/taibuivan/folio/pkg/slug"
	"github.com/taibuivan/folio/pkg/uuid"
)

// # Service Layer

// Service orchestrates chapter use cases.
type Service struct {
	repo     Repository
	guard    policy.Policy
	recorder activity.Recorder
	retries  int
	logger   *slog.Logger
}

// NewService constructs a new chapter [Service].
func NewService(repo Repository, guard policy.Policy, recorder activity.Recorder, retries int, logger *slog.Logger) *Service {
	return &Service{repo: repo, guard: guard, recorder: recorder, retries: retries, logger: logger}
}

// CreateInput is the payload of POST /api/chapters.
type CreateInput struct {
	BookID      string  `json:"bookId"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Published   bool    `json:"published"`
}

// UpdateInput is the payload of PUT /api/chapters/{id}.
type UpdateInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Published   *bool   `json:"published"`
	Position    *int    `json:"position"`
}

// # Read Operations

// ListChapters returns the chapters of a book in position order.
func (service *Service) ListChapters(context context.Context, bookID string) ([]*Chapter, error) {
	if !validate.IsUUID(bookID) {
		return nil, apperr.FieldInvalid(FieldBookID, "Must be a valid UUID")
	}
	return service.repo.ListByBook(context, bookID)
}

// GetChapter returns one chapter.
func (service *Service) GetChapter(context context.Context, id string) (*Chapter, error) {
	return service.repo.FindByID(context, id)
}

// # Write Operations

/*
CreateChapter appends a new chapter to a book.

Returns:
  - *Chapter: The hydrated chapter
  - error: NotFound when the book does not exist, Conflict when the book-scoped
    slug could not be claimed
*/
func (service *Service) CreateChapter(context context.Context, claims *sec.AuthClaims, input CreateInput) (*Chapter, error) {
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	input.Name = strings.TrimSpace(input.Name)
	validator := &validate.Validator{}
	validator.UUID(FieldBookID, input.BookID).
		Text(FieldName, input.Name, MaxNameLength)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if _, err := service.repo.FindBook(context, input.BookID); err != nil {
		return nil, err
	}

	chapter := &Chapter{
		ID:          uuid.New(),
		BookID:      input.BookID,
		Name:        input.Name,
		Description: input.Description,
		Published:   input.Published,
		AuthorID:    claims.UserID,
	}

	if _, err := service.claimer(chapter, service.repo.Create).Claim(context, slug.FromOr(chapter.Name, "chapter")); err != nil {
		return nil, slugError(err)
	}

	service.logger.Info("chapter_created",
		slog.String("chapter_id", chapter.ID),
		slog.String("book_id", chapter.BookID),
		slog.String("slug", chapter.Slug),
	)

	activity.Track(context, service.recorder, entry(claims, activity.ActionCreated, chapter))

	return service.repo.FindByID(context, chapter.ID)
}

// UpdateChapter applies a partial update after the policy check.
func (service *Service) UpdateChapter(context context.Context, claims *sec.AuthClaims, id string, input UpdateInput) (*Chapter, error) {
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	chapter, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if err := policy.Authorize(context, service.guard, policy.ActorFromClaims(claims), policy.ActionUpdate,
		policy.Resource{Type: activity.EntityChapter, ID: chapter.ID, OwnerID: chapter.AuthorID}); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if input.Name != nil {
		input.Name = pointer.To(strings.TrimSpace(*input.Name))
		validator.Text(FieldName, *input.Name, MaxNameLength)
	}
	if input.Position != nil {
		validator.Custom(FieldPosition, *input.Position < 0, "Must not be negative")
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	wasPublished := chapter.Published
	renamed := input.Name != nil && *input.Name != chapter.Name

	if input.Name != nil {
		chapter.Name = *input.Name
	}
	if input.Description != nil {
		chapter.Description = input.Description
	}
	if input.Published != nil {
		chapter.Published = *input.Published
	}
	if input.Position != nil {
		chapter.Position = *input.Position
	}

	if renamed {
		_, err = service.claimer(chapter, service.repo.Update).Claim(context, slug.FromOr(chapter.Name, "chapter"))
	} else {
		err = service.repo.Update(context, chapter)
	}
	if err != nil {
		return nil, slugError(err)
	}

	service.logger.Info("chapter_updated", slog.String("chapter_id", chapter.ID), slog.Bool("renamed", renamed))

	activity.Track(context, service.recorder, entry(claims, activity.UpdateAction(wasPublished, chapter.Published), chapter))

	return chapter, nil
}

// DeleteChapter removes a chapter after the policy check. Its pages are kept.
func (service *Service) DeleteChapter(context context.Context, claims *sec.AuthClaims, id string) error {
	if claims == nil {
		return apperr.Unauthorized("Authentication required")
	}

	chapter, err := service.repo.FindByID(context, id)
	if err != nil {
		return err
	}

	if err := policy.Authorize(context, service.guard, policy.ActorFromClaims(claims), policy.ActionDelete,
		policy.Resource{Type: activity.EntityChapter, ID: chapter.ID, OwnerID: chapter.AuthorID}); err != nil {
		return err
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Info("chapter_deleted", slog.String("chapter_id", id), slog.String("book_id", chapter.BookID))

	activity.Track(context, service.recorder, entry(claims, activity.ActionDeleted, chapter))

	return nil
}

// # Internal Helpers

func (service *Service) claimer(chapter *Chapter, write func(context.Context, *Chapter) error) slug.Claimer {
	return slug.Claimer{
		Existing: func(ctx context.Context) ([]string, error) {
			return service.repo.Slugs(ctx, chapter.BookID, chapter.ID)
		},
		Write: func(ctx context.Context, candidate string) error {
			chapter.Slug = candidate
			return write(ctx, chapter)
		},
		Retries: service.retries,
		OnRetry: func(attempt int, candidate string) {
			service.logger.Warn("slug_conflict_retry",
				slog.String("chapter_id", chapter.ID),
				slog.String("book_id", chapter.BookID),
				slog.String("slug", candidate),
				slog.Int("attempt", attempt),
			)
		},
	}
}

func slugError(err error) error {
	if errors.Is(err, slug.ErrTaken) {
		return apperr.Conflict("A chapter with this slug already exists in the book").WithCause(err)
	}
	return err
}

func entry(claims *sec.AuthClaims, action activity.Action, chapter *Chapter) activity.Entry {
	return activity.Entry{
		ActorID:    claims.UserID,
		Action:     action,
		EntityType: activity.EntityChapter,
		EntityID:   chapter.ID,
		EntityName: chapter.Name,
	}
}
