// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package page

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
	"github.com/taibuivan/folio/pkg/slice"
	"github.com/taibuivan/folio/pkg/slug"
	"github.com/taibuivan/folio/pkg/uuid"
)

// # Service Layer

// Service orchestrates page use cases.
type Service struct {
	repo      Repository
	guard     policy.Policy
	recorder  activity.Recorder
	sanitizer *content.Sanitizer
	retries   int
	logger    *slog.Logger
}

/*
NewService constructs a new page [Service].

Parameters:
  - repo: Repository
  - guard: policy.Policy
  - recorder: activity.Recorder (may be nil)
  - sanitizer: *content.Sanitizer (nil stores documents as received)
  - retries: int (slug conflict retries)
  - logger: *slog.Logger
*/
func NewService(repo Repository, guard policy.Policy, recorder activity.Recorder, sanitizer *content.Sanitizer, retries int, logger *slog.Logger) *Service {
	return &Service{repo: repo, guard: guard, recorder: recorder, sanitizer: sanitizer, retries: retries, logger: logger}
}

// # Inputs

// CreateInput is the payload of POST /api/pages.
type CreateInput struct {
	BookID    string          `json:"bookId"`
	ChapterID *string         `json:"chapterId"`
	Title     string          `json:"title"`
	Content   json.RawMessage `json:"content"`
	Published bool            `json:"published"`
	TagIDs    []string        `json:"tagIds"`
}

// UpdateInput is the payload of PUT /api/pages/{id}.
//
// ChapterID accepts null to move the page to the top level of its book.
// TagIDs replaces the tag set when present, and an empty array clears it.
type UpdateInput struct {
	Title     *string                  `json:"title"`
	Content   json.RawMessage          `json:"content"`
	Draft     *bool                    `json:"draft"`
	Published *bool                    `json:"published"`
	Position  *int                     `json:"position"`
	ChapterID pointer.Nullable[string] `json:"chapterId"`
	TagIDs    []string                 `json:"tagIds"`
}

// # Read Operations

// ListPages returns the pages of a book, or of one of its chapters.
func (service *Service) ListPages(context context.Context, filter Filter) ([]*Page, error) {
	validator := &validate.Validator{}
	validator.UUID(FieldBookID, filter.BookID)
	if filter.ChapterID != "" {
		validator.UUID(FieldChapterID, filter.ChapterID)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}
	return service.repo.List(context, filter)
}

// GetPage returns a page with its tags, author, book and chapter.
func (service *Service) GetPage(context context.Context, id string) (*Page, error) {
	return service.repo.FindByID(context, id)
}

// ExportMarkdown renders a page to Markdown, headed by its title.
func (service *Service) ExportMarkdown(context context.Context, id string) (string, error) {
	page, err := service.repo.FindByID(context, id)
	if err != nil {
		return "", err
	}

	body, err := content.Markdown(page.Content)
	if err != nil {
		return "", fmt.Errorf("page_export_failed: %w", err)
	}

	if body == "" {
		return "# " + page.Title + "\n", nil
	}
	return "# " + page.Title + "\n\n" + body + "\n", nil
}

// # Write Operations

/*
CreatePage validates and persists a new page.

Description: The book must exist (404). When a chapter is given it must belong
to that book (400 on chapterId). The slug is claimed inside the book and the
position is appended inside the page's container.
*/
func (service *Service) CreatePage(context context.Context, claims *sec.AuthClaims, input CreateInput) (*Page, error) {
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	input.Title = strings.TrimSpace(input.Title)
	validator := &validate.Validator{}
	validator.UUID(FieldBookID, input.BookID).
		Text(FieldTitle, input.Title, MaxTitleLength)
	validateTagIDs(validator, input.TagIDs)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	doc, err := content.Ingest(input.Content, service.sanitizer)
	if err != nil {
		return nil, apperr.FieldInvalid(FieldContent, err.Error())
	}

	if _, err := service.repo.FindBook(context, input.BookID); err != nil {
		return nil, err
	}
	if input.ChapterID != nil && *input.ChapterID == "" {
		input.ChapterID = nil
	}
	if err := service.checkChapter(context, input.BookID, input.ChapterID); err != nil {
		return nil, err
	}

	page := &Page{
		ID:        uuid.New(),
		BookID:    input.BookID,
		ChapterID: input.ChapterID,
		Title:     input.Title,
		Content:   doc,
		Published: input.Published,
		AuthorID:  claims.UserID,
	}
	tagIDs := slice.Unique(input.TagIDs)

	if _, err := service.claimer(page, tagIDs, service.repo.Create).Claim(context, slug.FromOr(page.Title, "page")); err != nil {
		return nil, slugError(err)
	}

	service.logger.Info("page_created",
		slog.String("page_id", page.ID),
		slog.String("book_id", page.BookID),
		slog.String("slug", page.Slug),
		slog.Int("blocks", len(doc.Blocks)),
	)

	activity.Track(context, service.recorder, entry(claims, activity.ActionCreated, page))

	return service.repo.FindByID(context, page.ID)
}

/*
UpdatePage applies a partial update after the policy check.

Description: A denied caller gets 403 and the page is left untouched. The slug
is regenerated only when the title changes.
*/
func (service *Service) UpdatePage(context context.Context, claims *sec.AuthClaims, id string, input UpdateInput) (*Page, error) {
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	page, err := service.authorized(context, claims, policy.ActionUpdate, id)
	if err != nil {
		return nil, err
	}

	validator := &validate.Validator{}
	if input.Title != nil {
		input.Title = pointer.To(strings.TrimSpace(*input.Title))
		validator.Text(FieldTitle, *input.Title, MaxTitleLength)
	}
	if input.Position != nil {
		validator.Custom(FieldPosition, *input.Position < 0, "Must not be negative")
	}
	validateTagIDs(validator, input.TagIDs)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if len(input.Content) > 0 {
		doc, err := content.Ingest(input.Content, service.sanitizer)
		if err != nil {
			return nil, apperr.FieldInvalid(FieldContent, err.Error())
		}
		page.Content = doc
	}

	if input.ChapterID.Set {
		chapterID := input.ChapterID.Value
		if chapterID != nil && *chapterID == "" {
			chapterID = nil
		}
		if err := service.checkChapter(context, page.BookID, chapterID); err != nil {
			return nil, err
		}
		page.ChapterID = chapterID
	}

	wasPublished := page.Published
	renamed := input.Title != nil && *input.Title != page.Title

	if input.Title != nil {
		page.Title = *input.Title
	}
	if input.Draft != nil {
		page.Draft = *input.Draft
	}
	if input.Published != nil {
		page.Published = *input.Published
	}
	if input.Position != nil {
		page.Position = *input.Position
	}
	tagIDs := slice.Unique(input.TagIDs)

	if renamed {
		_, err = service.claimer(page, tagIDs, service.repo.Update).Claim(context, slug.FromOr(page.Title, "page"))
	} else {
		err = service.repo.Update(context, page, tagIDs)
	}
	if err != nil {
		return nil, slugError(err)
	}

	service.logger.Info("page_updated", slog.String("page_id", page.ID), slog.Bool("renamed", renamed))

	activity.Track(context, service.recorder, entry(claims, activity.UpdateAction(wasPublished, page.Published), page))

	return service.repo.FindByID(context, page.ID)
}

// DeletePage removes a page after the policy check.
func (service *Service) DeletePage(context context.Context, claims *sec.AuthClaims, id string) error {
	if claims == nil {
		return apperr.Unauthorized("Authentication required")
	}

	page, err := service.authorized(context, claims, policy.ActionDelete, id)
	if err != nil {
		return err
	}

	if err := service.repo.Delete(context, id); err != nil {
		return err
	}

	service.logger.Info("page_deleted", slog.String("page_id", id), slog.String("book_id", page.BookID))

	activity.Track(context, service.recorder, entry(claims, activity.ActionDeleted, page))

	return nil
}

// # Editor Integration

// EditableContent returns the stored document of a page the caller may update.
func (service *Service) EditableContent(context context.Context, claims *sec.AuthClaims, id string) (content.Document, error) {
	if claims == nil {
		return content.Document{}, apperr.Unauthorized("Authentication required")
	}

	page, err := service.authorized(context, claims, policy.ActionUpdate, id)
	if err != nil {
		return content.Document{}, err
	}
	return page.Content, nil
}

// CommitContent replaces the page document through the regular update path.
func (service *Service) CommitContent(context context.Context, claims *sec.AuthClaims, id string, doc content.Document) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("page_commit_encode_failed: %w", err)
	}

	_, err = service.UpdatePage(context, claims, id, UpdateInput{Content: raw})
	return err
}

// # Internal Helpers

// authorized loads the page and asks the policy whether claims may act on it.
func (service *Service) authorized(context context.Context, claims *sec.AuthClaims, action policy.Action, id string) (*Page, error) {
	page, err := service.repo.FindByID(context, id)
	if err != nil {
		return nil, err
	}

	if err := policy.Authorize(context, service.guard, policy.ActorFromClaims(claims), action,
		policy.Resource{Type: activity.EntityPage, ID: page.ID, OwnerID: page.AuthorID}); err != nil {
		return nil, err
	}
	return page, nil
}

// checkChapter verifies that chapterID, when set, belongs to bookID.
func (service *Service) checkChapter(context context.Context, bookID string, chapterID *string) error {
	if chapterID == nil {
		return nil
	}
	if !validate.IsUUID(*chapterID) {
		return apperr.FieldInvalid(FieldChapterID, "Must be a valid UUID")
	}

	_, owner, err := service.repo.FindChapter(context, *chapterID)
	if apperr.IsNotFound(err) || (err == nil && owner != bookID) {
		return apperr.FieldInvalid(FieldChapterID, "Chapter not found or does not belong to this book")
	}
	return err
}

func validateTagIDs(validator *validate.Validator, tagIDs []string) {
	for _, id := range tagIDs {
		if !validate.IsUUID(id) {
			validator.Custom(FieldTagIDs, true, "Must contain valid UUIDs")
			return
		}
	}
}

func (service *Service) claimer(page *Page, tagIDs []string, write func(context.Context, *Page, []string) error) slug.Claimer {
	return slug.Claimer{
		Existing: func(ctx context.Context) ([]string, error) {
			return service.repo.Slugs(ctx, page.BookID, page.ID)
		},
		Write: func(ctx context.Context, candidate string) error {
			page.Slug = candidate
			return write(ctx, page, tagIDs)
		},
		Retries: service.retries,
		OnRetry: func(attempt int, candidate string) {
			service.logger.Warn("slug_conflict_retry",
				slog.String("page_id", page.ID),
				slog.String("book_id", page.BookID),
				slog.String("slug", candidate),
				slog.Int("attempt", attempt),
			)
		},
	}
}

func slugError(err error) error {
	if errors.Is(err, slug.ErrTaken) {
		return apperr.Conflict("A page with this slug already exists in the book").WithCause(err)
	}
	return err
}

func entry(claims *sec.AuthClaims, action activity.Action, page *Page) activity.Entry {
	return activity.Entry{
		ActorID:    claims.UserID,
		Action:     action,
		EntityType: activity.EntityPage,
		EntityID:   page.ID,
		EntityName: page.Title,
	}
}
