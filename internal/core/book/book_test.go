// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package book_test

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/core/activity"
	"github.com/taibuivan/folio/internal/core/book"
	"github.com/taibuivan/folio/internal/core/reference"
	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/policy"
	"github.com/taibuivan/folio/internal/platform/testkit"
	"github.com/taibuivan/folio/pkg/slug"
	"github.com/taibuivan/folio/pkg/uuid"
)

// # Fakes

// memoryRepository enforces the global slug key like the real table.
// steal makes a concurrent writer take the next candidate slug first.
type memoryRepository struct {
	mu    sync.Mutex
	books map[string]*book.Book
	steal int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{books: make(map[string]*book.Book)}
}

func (repo *memoryRepository) List(_ context.Context, filter book.Filter, limit, offset int) ([]*book.Book, int, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	var matched []*book.Book
	for _, b := range repo.books {
		if b.Published || filter.IncludeUnpublished {
			copied := *b
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Position < matched[j].Position })

	total := len(matched)
	if offset >= total {
		return []*book.Book{}, total, nil
	}
	return matched[offset:min(offset+limit, total)], total, nil
}

func (repo *memoryRepository) FindByID(_ context.Context, id string) (*book.Book, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	b, found := repo.books[id]
	if !found {
		return nil, apperr.NotFound("Book")
	}
	copied := *b
	copied.Author = &reference.Author{ID: b.AuthorID, Name: "Author"}
	copied.Count = &book.Count{}
	return &copied, nil
}

func (repo *memoryRepository) Detail(ctx context.Context, id string) (*book.Detail, error) {
	b, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &book.Detail{Book: b, Chapters: []book.ChapterSummary{}, Pages: []book.PageSummary{}}, nil
}

func (repo *memoryRepository) Slugs(_ context.Context, excludeID string) ([]string, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	var slugs []string
	for id, b := range repo.books {
		if id != excludeID {
			slugs = append(slugs, b.Slug)
		}
	}
	return slugs, nil
}

func (repo *memoryRepository) takenLocked(candidate, selfID string) bool {
	for id, b := range repo.books {
		if id != selfID && b.Slug == candidate {
			return true
		}
	}
	return false
}

func (repo *memoryRepository) Create(_ context.Context, b *book.Book) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if repo.steal > 0 {
		repo.steal--
		thief := uuid.New()
		repo.books[thief] = &book.Book{ID: thief, Name: "Concurrent", Slug: b.Slug, AuthorID: testkit.StrangerID}
	}
	if repo.takenLocked(b.Slug, b.ID) {
		return fmt.Errorf("memory: %w", slug.ErrTaken)
	}

	b.Position = len(repo.books) + 1
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	copied := *b
	repo.books[b.ID] = &copied
	return nil
}

func (repo *memoryRepository) Update(_ context.Context, b *book.Book) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, found := repo.books[b.ID]; !found {
		return apperr.NotFound("Book")
	}
	if repo.takenLocked(b.Slug, b.ID) {
		return fmt.Errorf("memory: %w", slug.ErrTaken)
	}
	b.UpdatedAt = time.Now()
	copied := *b
	repo.books[b.ID] = &copied
	return nil
}

func (repo *memoryRepository) Delete(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, found := repo.books[id]; !found {
		return apperr.NotFound("Book")
	}
	delete(repo.books, id)
	return nil
}

func (repo *memoryRepository) get(id string) book.Book {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return *repo.books[id]
}

// # Fixtures

type fixture struct {
	repo     *memoryRepository
	recorder *testkit.Recorder
	service  *book.Service
	router   http.Handler
}

func newFixture(retries int, guard policy.Policy) *fixture {
	repo := newMemoryRepository()
	recorder := &testkit.Recorder{}
	service := book.NewService(repo, guard, recorder, retries, testkit.Logger())
	return &fixture{
		repo:     repo,
		recorder: recorder,
		service:  service,
		router:   testkit.Router("/books", book.NewHandler(service).Routes()),
	}
}

func (f *fixture) create(t *testing.T, name string, published bool) book.Book {
	t.Helper()
	recorder := testkit.Do(t, f.router, http.MethodPost, "/books",
		map[string]any{"name": name, "published": published}, testkit.OwnerToken)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var created book.Book
	testkit.Data(t, recorder, &created)
	return created
}

// # Tests

/*
TestCreateBook_SlugSequence creates two books with the same name and expects
the second slug to be suffixed.
*/
func TestCreateBook_SlugSequence(t *testing.T) {
	f := newFixture(3, policy.Default(false))

	first := f.create(t, "API Reference", false)
	second := f.create(t, "API Reference", false)

	assert.Equal(t, "api-reference", first.Slug)
	assert.Equal(t, "api-reference-2", second.Slug)
	assert.Equal(t, testkit.OwnerID, first.AuthorID)
	assert.Equal(t, []activity.Action{activity.ActionCreated, activity.ActionCreated}, f.recorder.Actions())
}

/*
TestCreateBook_Validation rejects anonymous callers and blank names.
*/
func TestCreateBook_Validation(t *testing.T) {
	f := newFixture(3, policy.Default(false))

	recorder := testkit.Do(t, f.router, http.MethodPost, "/books", map[string]any{"name": "Guide"}, "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = testkit.Do(t, f.router, http.MethodPost, "/books", map[string]any{"name": "   "}, testkit.OwnerToken)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Equal(t, "VALIDATION_ERROR", testkit.ErrorCode(t, recorder))

	recorder = testkit.Do(t, f.router, http.MethodPost, "/books",
		map[string]any{"name": "Guide", "cover": "javascript:alert(1)"}, testkit.OwnerToken)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

/*
TestCreateBook_SymbolOnlyName falls back to a generated slug.
*/
func TestCreateBook_SymbolOnlyName(t *testing.T) {
	f := newFixture(3, policy.Default(false))

	created := f.create(t, "!!!", false)
	assert.Regexp(t, `^book-[0-9a-f]{8}$`, created.Slug)
}

/*
TestCreateBook_SlugRace injects a concurrent writer that takes the candidate
slug between the read and the insert.
*/
func TestCreateBook_SlugRace(t *testing.T) {
	tests := []struct {
		name     string
		retries  int
		steal    int
		wantCode int
		wantSlug string
	}{
		{"closed_by_retry", 3, 1, http.StatusCreated, "guide-2"},
		{"two_thefts_within_budget", 3, 2, http.StatusCreated, "guide-3"},
		{"surfaced_without_retries", 0, 1, http.StatusConflict, ""},
		{"budget_exhausted", 1, 5, http.StatusConflict, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.retries, policy.Default(false))
			f.repo.steal = tt.steal

			recorder := testkit.Do(t, f.router, http.MethodPost, "/books", map[string]any{"name": "Guide"}, testkit.OwnerToken)
			require.Equal(t, tt.wantCode, recorder.Code, recorder.Body.String())

			if tt.wantCode != http.StatusCreated {
				assert.Equal(t, "CONFLICT", testkit.ErrorCode(t, recorder))
				assert.Empty(t, f.recorder.Entries)
				return
			}

			var created book.Book
			testkit.Data(t, recorder, &created)
			assert.Equal(t, tt.wantSlug, created.Slug)
		})
	}
}

/*
TestUpdateBook_Slug keeps the slug for an unchanged name and regenerates it,
excluding the book itself, when the name changes.
*/
func TestUpdateBook_Slug(t *testing.T) {
	f := newFixture(3, policy.Default(false))
	ctx := context.Background()
	owner := testkit.Claims(testkit.OwnerToken)

	f.create(t, "Handbook", false)
	guide := f.create(t, "Guide", false)

	sameName := "Guide"
	updated, err := f.service.UpdateBook(ctx, owner, guide.ID, book.UpdateInput{Name: &sameName})
	require.NoError(t, err)
	assert.Equal(t, "guide", updated.Slug)

	// Same slug base, different casing: the book's own slug is not a conflict
	recased := "GUIDE"
	updated, err = f.service.UpdateBook(ctx, owner, guide.ID, book.UpdateInput{Name: &recased})
	require.NoError(t, err)
	assert.Equal(t, "guide", updated.Slug)

	renamed := "Handbook"
	updated, err = f.service.UpdateBook(ctx, owner, guide.ID, book.UpdateInput{Name: &renamed})
	require.NoError(t, err)
	assert.Equal(t, "handbook-2", updated.Slug)
	assert.Equal(t, "handbook-2", f.repo.get(guide.ID).Slug)

	description := "Only the description"
	updated, err = f.service.UpdateBook(ctx, owner, guide.ID, book.UpdateInput{Description: &description})
	require.NoError(t, err)
	assert.Equal(t, "handbook-2", updated.Slug)
}

/*
TestUpdateBook_PublishedAction records "published" only when the flag flips on.
*/
func TestUpdateBook_PublishedAction(t *testing.T) {
	f := newFixture(3, policy.Default(false))
	ctx := context.Background()
	owner := testkit.Claims(testkit.OwnerToken)

	created := f.create(t, "Guide", false)

	on := true
	_, err := f.service.UpdateBook(ctx, owner, created.ID, book.UpdateInput{Published: &on})
	require.NoError(t, err)
	_, err = f.service.UpdateBook(ctx, owner, created.ID, book.UpdateInput{Published: &on})
	require.NoError(t, err)

	assert.Equal(t,
		[]activity.Action{activity.ActionCreated, activity.ActionPublished, activity.ActionUpdated},
		f.recorder.Actions(),
	)
}

/*
TestBook_Ownership checks that strangers get 403 and leave the book untouched,
and that the admin override is opt-in.
*/
func TestBook_Ownership(t *testing.T) {
	tests := []struct {
		name       string
		guard      policy.Policy
		token      string
		wantPut    int
		wantDelete int
	}{
		{"stranger_denied", policy.Default(false), testkit.StrangerToken, http.StatusForbidden, http.StatusForbidden},
		{"admin_denied_without_override", policy.Default(false), testkit.AdminToken, http.StatusForbidden, http.StatusForbidden},
		{"admin_allowed_with_override", policy.Default(true), testkit.AdminToken, http.StatusOK, http.StatusNoContent},
		{"owner_allowed", policy.Default(false), testkit.OwnerToken, http.StatusOK, http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(3, tt.guard)
			created := f.create(t, "Guide", false)
			path := "/books/" + created.ID

			recorder := testkit.Do(t, f.router, http.MethodPut, path, map[string]any{"name": "Renamed"}, tt.token)
			assert.Equal(t, tt.wantPut, recorder.Code)
			if tt.wantPut == http.StatusForbidden {
				assert.Equal(t, "Guide", f.repo.get(created.ID).Name)
				assert.Equal(t, "guide", f.repo.get(created.ID).Slug)
			}

			recorder = testkit.Do(t, f.router, http.MethodDelete, path, nil, tt.token)
			assert.Equal(t, tt.wantDelete, recorder.Code)
			if tt.wantDelete == http.StatusNoContent {
				assert.Empty(t, recorder.Body.String())
				recorder = testkit.Do(t, f.router, http.MethodGet, path, nil, "")
				assert.Equal(t, http.StatusNotFound, recorder.Code)
			}
		})
	}
}

/*
TestListBooks_Visibility lists unpublished books only for authenticated callers.
*/
func TestListBooks_Visibility(t *testing.T) {
	f := newFixture(3, policy.Default(false))
	f.create(t, "Public", true)
	f.create(t, "Draft", false)

	tests := []struct {
		name  string
		path  string
		token string
		want  int
	}{
		{"anonymous", "/books", "", 1},
		{"anonymous_asks_for_all", "/books?includeUnpublished=true", "", 1},
		{"member_default", "/books", testkit.OwnerToken, 1},
		{"member_asks_for_all", "/books?includeUnpublished=true", testkit.OwnerToken, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := testkit.Do(t, f.router, http.MethodGet, tt.path, nil, tt.token)
			require.Equal(t, http.StatusOK, recorder.Code)

			var books []book.Book
			testkit.Data(t, recorder, &books)
			assert.Len(t, books, tt.want)
		})
	}
}

/*
TestGetBook_NotFound answers 404 for unknown and malformed ids.
*/
func TestGetBook_NotFound(t *testing.T) {
	f := newFixture(3, policy.Default(false))

	for _, path := range []string{"/books/" + uuid.New(), "/books/not-a-uuid"} {
		recorder := testkit.Do(t, f.router, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusNotFound, recorder.Code, path)
	}
}
