// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package article

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/folio/internal/content"
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

// Service orchestrates article use cases.
type Service struct {
	repo      Repository
	guard     policy.Policy
	recorder  activity.Recorder
	sanitizer *content.Sanitizer
	retries   int
	logger    *slog.Logger
}

// NewService constructs a new article [Service]. recorder and sanitizer may be nil.
func NewService(repo Repository, guard policy.Policy, recorder activity.Recorder, sanitizer *content.Sanitizer, retries int, logger *slog.Logger) *Service {
	return &Service{repo: repo, guard: guard, recorder: recorder, sanitizer: sanitizer, retries: retries, logger: logger}
}

// # Inputs

// CreateInput is the payload of POST /api/articles. Every field but
// Published is required.
type CreateInput struct {
	Title      string          `json:"title"`
	Content    json.RawMessage `json:"content"`
	CategoryID string          `json:"categoryId"`
	Published  bool            `json:"published"`
}

// UpdateInput is the payload of PUT /api/articles/{id}.
type UpdateInput struct {
	Title      *string         `json:"title"`
	Content    json.RawMessage `json:"content"`
	CategoryID *string         `json:"categoryId"`
	Published  *bool           `json:"published"`
}

// # Read Operations

// ListArticles returns published articles, newest first.
func (service *Service) ListArticles(context context.Context, limit, offset int) ([]*Article, int, error) {
	return service.repo.List(context, Filter{PublishedOnly: true}, limit, offset)
}

// GetArticle returns a published article. Unpublished ones are reported as missing.
func (service *Service) GetArticle(context context.Context, id string) (*Article, error) {
	article, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}
	if !article.Published {
		return nil, apperr.NotFound("Article")
	}
	return article, nil
}

// # Write Operations

/*
CreateArticle validates and persists a new article owned by the caller.

Returns:
  - *Article: The hydrated article
  - error: Unauthorized, ValidationError (including an unknown category), or
    Conflict when the slug could not be claimed
*/
func (service *Service) CreateArticle(context context.Context, claims *sec.AuthClaims, input CreateInput) (*Article, error) {
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	input.Title = strings.TrimSpace(input.Title)
	validator := &validate.Validator{}
	validator.Text(FieldTitle, input.Title, MaxTitleLength).
		UUID(FieldCategoryID, input.CategoryID).
		Custom(FieldContent, len(input.Content) == 0 || string(input.Content) == "null", "Is required")
	if err := validator.Err(); err != nil {
		return nil, err
	}

	doc, err := content.Ingest(input.Content, service.sanitizer)
	if err != nil {
		return nil, apperr.FieldInvalid(FieldContent, err.Error())
	}

	if err := service.checkCategory(context, input.CategoryID); err != nil {
		return nil, err
	}

	article := &Article{
		ID:         uuid.New(),
		Title:      input.Title,
		Content:    doc,
		Published:  input.Published,
		AuthorID:   claims.UserID,
		CategoryID: input.CategoryID,
	}

	if _, err := service.claimer(article, service.repo.Create).Claim(context, slug.FromOr(article.Title, "article")); err != nil {
		return nil, slugError(err)
	}

	service.logger.Info("article_created",
		slog.String("article_id", article.ID),
		slog.String("slug", article.Slug),
		slog.Bool("published", article.Published),
	)

	activity.Track(context, service.recorder, entry(claims, activity.ActionCreated, article))

	return service.repo.FindByID(context, article.ID)
}

// UpdateArticle applies a partial update after the policy check. The slug
// follows the title only when the title changes.
func (service *Service) UpdateArticle(context context.Context, claims *sec.AuthClaims, id string, input UpdateInput) (*Article, error) {
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	article, err := service.authorized(context, claims, policy.ActionUpdate, id)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if input.Title != nil {
		input.Title = pointer.To(strings.TrimSpace(*input.Title))
		validator.Text(FieldTitle, *input.Title, MaxTitleLength)
	}
	if input.CategoryID != nil {
		validator.UUID(FieldCategoryID, *input.CategoryID)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if len(input.Content) > 0 {
		doc, err := content.Ingest(input.Content, service.sanitizer)
		if err != nil {
			return nil, apperr.FieldInvalid(FieldContent, err.Error())
		}
		article.Content = doc
	}

	if input.CategoryID != nil && *input.CategoryID != article.CategoryID {
		if err := service.checkCategory(context, *input.CategoryID); err != nil {
			return nil, err
		}
		article.CategoryID = *input.CategoryID
	}

	wasPublished := article.Published
	renamed := input.Title != nil && *input.Title != article.Title

	if input.Title != nil {
		article.Title = *input.Title
	}
	if input.Published != nil {
		article.Published = *input.Published
	}

	if renamed {
		_, err = service.claimer(article, service.repo.Update).Claim(context, slug.FromOr(article.Title, "article"))
	} else {
		err = service.repo.Update(context, article)
	}
	if err != nil {
		return nil, slugError(err)
	}

	service.logger.Info("article_updated", slog.String("article_id", article.ID), slog.Bool("renamed", renamed))

	activity.Track(context, service.recorder, entry(claims, activity.UpdateAction(wasPublished, article.Published), article))

	return service.repo.FindByID(context, article.ID)
}

// DeleteArticle removes an article after the policy check.
func (service *Service) DeleteArticle(context context.Context, claims *sec.AuthClaims, id string) error {
	if claims == nil {
		return apperr.Unauthorized("Authentication required")
	}

	article, err := service.authorized(context, claims, policy.ActionDelete, id)
	if err != nil {
		return err
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Info("article_deleted", slog.String("article_id", id))

	activity.Track(context, service.recorder, entry(claims, activity.ActionDeleted, article))

	return nil
}

// # Editor Integration

// EditableContent returns the stored document of an article the caller may update.
func (service *Service) EditableContent(context context.Context, claims *sec.AuthClaims, id string) (content.Document, error) {
	if claims == nil {
		return content.Document{}, apperr.Unauthorized("Authentication required")
	}

	article, err := service.authorized(context, claims, policy.ActionUpdate, id)
	if err != nil {
		return content.Document{}, err
	}
	return article.Content, nil
}

// CommitContent replaces the article document through the regular update path.
func (service *Service) CommitContent(context context.Context, claims *sec.AuthClaims, id string, doc content.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("article_commit_encode_failed: %w", err)
	}

	_, err = service.UpdateArticle(context, claims, id, UpdateInput{Content: raw})
	return err
}

// # Internal Helpers

func (service *Service) authorized(context context.Context, claims *sec.AuthClaims, action policy.Action, id string) (*Article, error) {
	article, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if err := policy.Authorize(context, service.guard, policy.ActorFromClaims(claims), action,
		policy.Resource{Type: activity.EntityArticle, ID: article.ID, OwnerID: article.AuthorID}); err != nil {
		return nil, err
	}
	return article, nil
}

// checkCategory reports an unknown category as a field error.
func (service *Service) checkCategory(context context.Context, categoryID string) error {
	_, err := service.repo.FindCategory(context, categoryID)
	if apperr.IsNotFound(err) {
		return apperr.FieldInvalid(FieldCategoryID, "Category not found")
	}
	return err
}

func (service *Service) claimer(article *Article, write func(context.Context, *Article) error) slug.Claimer {
	return slug.Claimer{
		Existing: func(ctx context.Context) ([]string, error) {
			return service.repo.Slugs(ctx, article.ID)
		},
		Write: func(ctx context.Context, candidate string) error {
			article.Slug = candidate
			return write(ctx, article)
		},
		Retries: service.retries,
		OnRetry: func(attempt int, candidate string) {
			service.logger.Warn("slug_conflict_retry",
				slog.String("article_id", article.ID),
				slog.String("slug", candidate),
				slog.Int("attempt", attempt),
			)
		},
	}
}

func slugError(err error) error {
	if errors.Is(err, slug.ErrTaken) {
		return apperr.Conflict("An article with this slug already exists").WithCause(err)
	}
	return err
}

func entry(claims *sec.AuthClaims, action activity.Action, article *Article) activity.Entry {
	return activity.Entry{
		ActorID:    claims.UserID,
		Action:     action,
		EntityType: activity.EntityArticle,
		EntityID:   article.ID,
		EntityName: article.Title,
	}
}
