// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book

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

// Service orchestrates book use cases.
type Service struct {
	repo     Repository
	guard    policy.Policy
	recorder activity.Recorder
	retries  int
	logger   *slog.Logger
}

/*
NewService constructs a new [Service].

Parameters:
  - repo: Repository
  - guard: policy.Policy (consulted before update and delete)
  - recorder: activity.Recorder (may be nil)
  - retries: int (slug conflict retries, 0 surfaces the first conflict)
  - logger: *slog.Logger
*/
func NewService(repo Repository, guard policy.Policy, recorder activity.Recorder, retries int, logger *slog.Logger) *Service {
	return &Service{repo: repo, guard: guard, recorder: recorder, retries: retries, logger: logger}
}

// # Inputs

// CreateInput is the payload of POST /api/books.
type CreateInput struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Cover       *string `json:"cover"`
	Published   bool    `json:"published"`
}

// UpdateInput is the payload of PUT /api/books/{id}. Nil fields are left unchanged.
type UpdateInput struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Cover       *string `json:"cover"`
	Published   *bool   `json:"published"`
	Position    *int    `json:"position"`
}

// # Read Operations

/*
ListBooks returns books by position.

Description: Unpublished books are only listed when the caller asks for them
and is authenticated. Anonymous callers always get the published shelf.
*/
func (service *Service) ListBooks(context context.Context, viewer *sec.AuthClaims, includeUnpublished bool, limit, offset int) ([]*Book, int, error) {
	filter := Filter{IncludeUnpublished: includeUnpublished && viewer != nil}
	return service.repo.List(context, filter, limit, offset)
}

// GetBook returns the book with its table of contents.
func (service *Service) GetBook(context context.Context, id string) (*Detail, error) {
	return service.repo.Detail(context, id)
}

// # Write Operations

/*
CreateBook validates and persists a new book owned by the caller.

Returns:
  - *Book: The hydrated book
  - error: Unauthorized, ValidationError, or Conflict when the slug could not
    be claimed within the retry budget
*/
func (service *Service) CreateBook(context context.Context, claims *sec.AuthClaims, input CreateInput) (*Book, error) {
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	input.Name = strings.TrimSpace(input.Name)
	validator := &validate.Validator{}
	validator.Text(FieldName, input.Name, MaxNameLength)
	if cover := pointer.Val(input.Cover); cover != "" {
		validator.URL(FieldCover, cover)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	book := &Book{
		ID:          uuid.New(),
		Name:        input.Name,
		Description: input.Description,
		Cover:       input.Cover,
		Published:   input.Published,
		AuthorID:    claims.UserID,
	}

	if _, err := service.claimer(book, service.repo.Create).Claim(context, slug.FromOr(book.Name, "book")); err != nil {
		return nil, service.slugError(err)
	}

	service.logger.Info("book_created",
		slog.String("book_id", book.ID),
		slog.String("slug", book.Slug),
		slog.String("author_id", book.AuthorID),
	)

	activity.Track(context, service.recorder, entry(claims, activity.ActionCreated, book))

	return service.repo.FindByID(context, book.ID)
}

/*
UpdateBook applies a partial update after the policy check.

Description: The slug is regenerated only when the name actually changes, and
the new candidate is checked against every other book.
*/
func (service *Service) UpdateBook(context context.Context, claims *sec.AuthClaims, id string, input UpdateInput) (*Book, error) {
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	book, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if err := policy.Authorize(context, service.guard, policy.ActorFromClaims(claims), policy.ActionUpdate,
		policy.Resource{Type: activity.EntityBook, ID: book.ID, OwnerID: book.AuthorID}); err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if input.Name != nil {
		input.Name = pointer.To(strings.TrimSpace(*input.Name))
		validator.Text(FieldName, *input.Name, MaxNameLength)
	}
	if cover := pointer.Val(input.Cover); cover != "" {
		validator.URL(FieldCover, cover)
	}
	if input.Position != nil {
		validator.Custom(FieldPosition, *input.Position < 0, "Must not be negative")
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	wasPublished := book.Published
	renamed := input.Name != nil && *input.Name != book.Name

	if input.Name != nil {
		book.Name = *input.Name
	}
	if input.Description != nil {
		book.Description = input.Description
	}
	if input.Cover != nil {
		book.Cover = input.Cover
	}
	if input.Published != nil {
		book.Published = *input.Published
	}
	if input.Position != nil {
		book.Position = *input.Position
	}

	if renamed {
		_, err = service.claimer(book, service.repo.Update).Claim(context, slug.FromOr(book.Name, "book"))
	} else {
		err = service.repo.Update(context, book)
	}
	if err != nil {
		return nil, service.slugError(err)
	}

	service.logger.Info("book_updated", slog.String("book_id", book.ID), slog.Bool("renamed", renamed))

	activity.Track(context, service.recorder, entry(claims, activity.UpdateAction(wasPublished, book.Published), book))

	return book, nil
}

// DeleteBook removes a book and everything inside it after the policy check.
func (service *Service) DeleteBook(context context.Context, claims *sec.AuthClaims, id string) error {
	if claims == nil {
		return apperr.Unauthorized("Authentication required")
	}

	book, err := service.repo.FindByID(context, id)
	if err != nil {
		return err
	}

	if err := policy.Authorize(context, service.guard, policy.ActorFromClaims(claims), policy.ActionDelete,
		policy.Resource{Type: activity.EntityBook, ID: book.ID, OwnerID: book.AuthorID}); err != nil {
		return err
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Info("book_deleted", slog.String("book_id", id))

	activity.Track(context, service.recorder, entry(claims, activity.ActionDeleted, book))

	return nil
}

// # Internal Helpers

// claimer builds the slug claim loop for book, writing through write.
func (service *Service) claimer(book *Book, write func(context.Context, *Book) error) slug.Claimer {
	return slug.Claimer{
		Existing: func(ctx context.Context) ([]string, error) {
			return service.repo.Slugs(ctx, book.ID)
		},
		Write: func(ctx context.Context, candidate string) error {
			book.Slug = candidate
			return write(ctx, book)
		},
		Retries: service.retries,
		OnRetry: func(attempt int, candidate string) {
			service.logger.Warn("slug_conflict_retry",
				slog.String("book_id", book.ID),
				slog.String("slug", candidate),
				slog.Int("attempt", attempt),
			)
		},
	}
}

func (service *Service) slugError(err error) error {
	if errors.Is(err, slug.ErrTaken) {
		return apperr.Conflict("A book with this slug already exists").WithCause(err)
	}
	return err
}

func entry(claims *sec.AuthClaims, action activity.Action, book *Book) activity.Entry {
	return activity.Entry{
		ActorID:    claims.UserID,
		Action:     action,
		EntityType: activity.EntityBook,
		EntityID:   book.ID,
		EntityName: book.Name,
	}
}
