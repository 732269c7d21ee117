// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package page_test

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

	"github.com/taibuivan/folio/internal/content"
	"github.com/taibuivan/folio/internal/core/page"
	"github.com/taibuivan/folio/internal/core/reference"
	"github.com/taibuivan/folio/internal/core/tag"
	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/policy"
	"github.com/taibuivan/folio/internal/platform/testkit"
	"github.com/taibuivan/folio/pkg/slug"
	"github.com/taibuivan/folio/pkg/uuid"
)

// # Fakes

type chapterRow struct {
	ref    reference.Chapter
	bookID string
}

// memoryRepository mirrors the page table, its (book, slug) key and the tag links.
type memoryRepository struct {
	mu       sync.Mutex
	books    map[string]reference.Book
	chapters map[string]chapterRow
	tags     map[string]tag.Tag
	pages    map[string]*page.Page
	links    map[string][]string
	steal    int
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		books:    map[string]reference.Book{},
		chapters: map[string]chapterRow{},
		tags:     map[string]tag.Tag{},
		pages:    map[string]*page.Page{},
		links:    map[string][]string{},
	}
}

func (repo *memoryRepository) addBook(name string) string {
	id := uuid.New()
	repo.books[id] = reference.Book{ID: id, Name: name, Slug: slug.From(name)}
	return id
}

func (repo *memoryRepository) addChapter(bookID, name string) string {
	id := uuid.New()
	repo.chapters[id] = chapterRow{ref: reference.Chapter{ID: id, Name: name, Slug: slug.From(name)}, bookID: bookID}
	return id
}

func (repo *memoryRepository) addTag(name string) string {
	id := uuid.New()
	repo.tags[id] = tag.Tag{ID: id, Name: name, Slug: slug.From(name), Color: tag.DefaultColor}
	return id
}

func (repo *memoryRepository) hydrate(p *page.Page) *page.Page {
	copied := *p
	book := repo.books[p.BookID]
	copied.Book = &book
	copied.Author = &reference.Author{ID: p.AuthorID, Name: "Author"}
	if p.ChapterID != nil {
		chapter := repo.chapters[*p.ChapterID].ref
		copied.Chapter = &chapter
	}
	copied.Tags = []tag.Tag{}
	for _, id := range repo.links[p.ID] {
		copied.Tags = append(copied.Tags, repo.tags[id])
	}
	return &copied
}

func (repo *memoryRepository) List(_ context.Context, filter page.Filter) ([]*page.Page, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	pages := []*page.Page{}
	for _, p := range repo.pages {
		if p.BookID != filter.BookID {
			continue
		}
		if filter.ChapterID != "" && (p.ChapterID == nil || *p.ChapterID != filter.ChapterID) {
			continue
		}
		pages = append(pages, repo.hydrate(p))
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Position < pages[j].Position })
	return pages, nil
}

func (repo *memoryRepository) FindByID(_ context.Context, id string) (*page.Page, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	p, found := repo.pages[id]
	if !found {
		return nil, apperr.NotFound("Page")
	}
	return repo.hydrate(p), nil
}

func (repo *memoryRepository) FindBook(_ context.Context, bookID string) (*reference.Book, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	book, found := repo.books[bookID]
	if !found {
		return nil, apperr.NotFound("Book")
	}
	return &book, nil
}

func (repo *memoryRepository) FindChapter(_ context.Context, chapterID string) (*reference.Chapter, string, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	row, found := repo.chapters[chapterID]
	if !found {
		return nil, "", apperr.NotFound("Chapter")
	}
	return &row.ref, row.bookID, nil
}

func (repo *memoryRepository) Slugs(_ context.Context, bookID, excludeID string) ([]string, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	var slugs []string
	for id, p := range repo.pages {
		if p.BookID == bookID && id != excludeID {
			slugs = append(slugs, p.Slug)
		}
	}
	return slugs, nil
}

func (repo *memoryRepository) takenLocked(p *page.Page) bool {
	for id, other := range repo.pages {
		if id != p.ID && other.BookID == p.BookID && other.Slug == p.Slug {
			return true
		}
	}
	return false
}

func (repo *memoryRepository) linkLocked(pageID string, tagIDs []string) error {
	for _, id := range tagIDs {
		if _, found := repo.tags[id]; !found {
			return apperr.ValidationError("Referenced record does not exist")
		}
	}
	repo.links[pageID] = append([]string{}, tagIDs...)
	return nil
}

func sameContainer(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func (repo *memoryRepository) Create(_ context.Context, p *page.Page, tagIDs []string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if repo.steal > 0 {
		repo.steal--
		thief := uuid.New()
		repo.pages[thief] = &page.Page{ID: thief, BookID: p.BookID, Slug: p.Slug, AuthorID: testkit.StrangerID}
	}
	if repo.takenLocked(p) {
		return fmt.Errorf("memory: %w", slug.ErrTaken)
	}

	maxPosition := 0
	for _, other := range repo.pages {
		if other.BookID == p.BookID && sameContainer(other.ChapterID, p.ChapterID) {
			maxPosition = max(maxPosition, other.Position)
		}
	}
	p.Position = maxPosition + 1
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt

	if err := repo.linkLocked(p.ID, tagIDs); err != nil {
		return err
	}
	copied := *p
	repo.pages[p.ID] = &copied
	return nil
}

func (repo *memoryRepository) Update(_ context.Context, p *page.Page, tagIDs []string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if repo.takenLocked(p) {
		return fmt.Errorf("memory: %w", slug.ErrTaken)
	}
	if tagIDs != nil {
		if err := repo.linkLocked(p.ID, tagIDs); err != nil {
			return err
		}
	}
	copied := *p
	repo.pages[p.ID] = &copied
	return nil
}

func (repo *memoryRepository) Delete(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, found := repo.pages[id]; !found {
		return apperr.NotFound("Page")
	}
	delete(repo.pages, id)
	delete(repo.links, id)
	return nil
}

// # Fixtures

type fixture struct {
	repo     *memoryRepository
	recorder *testkit.Recorder
	router   http.Handler
}

func newFixture(sanitizer *content.Sanitizer, retries int) *fixture {
	repo := newMemoryRepository()
	recorder := &testkit.Recorder{}
	service := page.NewService(repo, policy.Default(false), recorder, sanitizer, retries, testkit.Logger())
	return &fixture{repo: repo, recorder: recorder, router: testkit.Router("/pages", page.NewHandler(service).Routes())}
}

func (f *fixture) create(t *testing.T, body map[string]any) page.Page {
	t.Helper()
	recorder := testkit.Do(t, f.router, http.MethodPost, "/pages", body, testkit.OwnerToken)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var created page.Page
	testkit.Data(t, recorder, &created)
	return created
}

const richDocument = `{"time": 1718000000000, "blocks": [
	{"id": "h1", "type": "header", "data": {"level": 2, "text": "Install"}},
	{"id": "p1", "type": "paragraph", "data": {"text": "Run the <b>installer</b><script>alert(1)</script>"}},
	{"id": "c1", "type": "code", "data": {"code": "go install ./..."}}
]}`

// # Tests

/*
TestGetPage_Hydrated returns tags, author, book and chapter, and 404 for a
missing id.
*/
func TestGetPage_Hydrated(t *testing.T) {
	f := newFixture(nil, 3)
	bookID := f.repo.addBook("Guide")
	chapterID := f.repo.addChapter(bookID, "Basics")
	tagA, tagB := f.repo.addTag("setup"), f.repo.addTag("cli")

	created := f.create(t, map[string]any{
		"bookId": bookID, "chapterId": chapterID, "title": "Install",
		"tagIds": []string{tagA, tagB, tagA},
	})

	recorder := testkit.Do(t, f.router, http.MethodGet, "/pages/"+created.ID, nil, "")
	require.Equal(t, http.StatusOK, recorder.Code)

	var got page.Page
	testkit.Data(t, recorder, &got)
	require.NotNil(t, got.Author)
	require.NotNil(t, got.Book)
	require.NotNil(t, got.Chapter)
	assert.Equal(t, testkit.OwnerID, got.Author.ID)
	assert.Equal(t, "guide", got.Book.Slug)
	assert.Equal(t, "basics", got.Chapter.Slug)
	require.Len(t, got.Tags, 2)
	assert.Equal(t, "setup", got.Tags[0].Name)
	assert.Equal(t, "cli", got.Tags[1].Name)
	assert.Empty(t, got.Content.Blocks)

	recorder = testkit.Do(t, f.router, http.MethodGet, "/pages/"+uuid.New(), nil, "")
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "NOT_FOUND", testkit.ErrorCode(t, recorder))
}

/*
TestPage_NonOwnerCannotMutate answers 403 for a stranger and leaves the page
unchanged.
*/
func TestPage_NonOwnerCannotMutate(t *testing.T) {
	f := newFixture(nil, 3)
	bookID := f.repo.addBook("Guide")
	created := f.create(t, map[string]any{"bookId": bookID, "title": "Install", "content": map[string]any{"blocks": []any{}}})
	path := "/pages/" + created.ID

	recorder := testkit.Do(t, f.router, http.MethodPut, path, map[string]any{
		"title":   "Defaced",
		"content": map[string]any{"blocks": []any{map[string]any{"type": "paragraph", "data": map[string]any{"text": "x"}}}},
	}, testkit.StrangerToken)
	assert.Equal(t, http.StatusForbidden, recorder.Code)
	assert.Equal(t, "FORBIDDEN", testkit.ErrorCode(t, recorder))

	recorder = testkit.Do(t, f.router, http.MethodDelete, path, nil, testkit.StrangerToken)
	assert.Equal(t, http.StatusForbidden, recorder.Code)

	stored := f.repo.pages[created.ID]
	require.NotNil(t, stored)
	assert.Equal(t, "Install", stored.Title)
	assert.Equal(t, "install", stored.Slug)
	assert.Empty(t, stored.Content.Blocks)

	recorder = testkit.Do(t, f.router, http.MethodPut, path, map[string]any{"title": "x"}, "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

/*
TestCreatePage_Container checks book existence, chapter membership and the
book-wide slug scope with per-container positions.
*/
func TestCreatePage_Container(t *testing.T) {
	f := newFixture(nil, 3)
	bookID := f.repo.addBook("Guide")
	otherBook := f.repo.addBook("Other")
	chapterID := f.repo.addChapter(bookID, "Basics")
	foreignChapter := f.repo.addChapter(otherBook, "Elsewhere")

	recorder := testkit.Do(t, f.router, http.MethodPost, "/pages",
		map[string]any{"bookId": uuid.New(), "title": "Intro"}, testkit.OwnerToken)
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	recorder = testkit.Do(t, f.router, http.MethodPost, "/pages",
		map[string]any{"bookId": bookID, "chapterId": foreignChapter, "title": "Intro"}, testkit.OwnerToken)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"field":"chapterId"`)

	top := f.create(t, map[string]any{"bookId": bookID, "title": "Intro"})
	inChapter := f.create(t, map[string]any{"bookId": bookID, "chapterId": chapterID, "title": "Intro"})
	secondTop := f.create(t, map[string]any{"bookId": bookID, "title": "Next"})
	elsewhere := f.create(t, map[string]any{"bookId": otherBook, "title": "Intro"})

	assert.Equal(t, "intro", top.Slug)
	assert.Equal(t, "intro-2", inChapter.Slug)
	assert.Equal(t, "intro", elsewhere.Slug)

	assert.Equal(t, 1, top.Position)
	assert.Equal(t, 1, inChapter.Position)
	assert.Equal(t, 2, secondTop.Position)

	recorder = testkit.Do(t, f.router, http.MethodGet, "/pages?bookId="+bookID+"&chapterId="+chapterID, nil, "")
	require.Equal(t, http.StatusOK, recorder.Code)
	var listed []page.Page
	testkit.Data(t, recorder, &listed)
	require.Len(t, listed, 1)
	assert.Equal(t, inChapter.ID, listed[0].ID)
}

/*
TestUpdatePage_MoveAndRetitle detaches a page from its chapter with an explicit
null and regenerates the slug only for a new title.
*/
func TestUpdatePage_MoveAndRetitle(t *testing.T) {
	f := newFixture(nil, 3)
	bookID := f.repo.addBook("Guide")
	chapterID := f.repo.addChapter(bookID, "Basics")
	created := f.create(t, map[string]any{"bookId": bookID, "chapterId": chapterID, "title": "Install"})
	path := "/pages/" + created.ID

	recorder := testkit.Do(t, f.router, http.MethodPut, path, map[string]any{"title": "Install", "draft": true}, testkit.OwnerToken)
	require.Equal(t, http.StatusOK, recorder.Code)
	var updated page.Page
	testkit.Data(t, recorder, &updated)
	assert.Equal(t, "install", updated.Slug)
	assert.True(t, updated.Draft)
	require.NotNil(t, updated.ChapterID)

	recorder = testkit.Do(t, f.router, http.MethodPut, path, map[string]any{"chapterId": nil, "title": "Setup"}, testkit.OwnerToken)
	require.Equal(t, http.StatusOK, recorder.Code)
	var moved page.Page
	testkit.Data(t, recorder, &moved)
	assert.Nil(t, moved.ChapterID)
	assert.Nil(t, moved.Chapter)
	assert.Equal(t, "setup", moved.Slug)

	recorder = testkit.Do(t, f.router, http.MethodPut, path, map[string]any{"published": true}, testkit.OwnerToken)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "published", string(f.recorder.Actions()[len(f.recorder.Actions())-1]))

	recorder = testkit.Do(t, f.router, http.MethodDelete, path, nil, testkit.OwnerToken)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Empty(t, recorder.Body.Bytes())
}

/*
TestCreatePage_Content covers default, malformed and sanitized documents.
*/
func TestCreatePage_Content(t *testing.T) {
	tests := []struct {
		name      string
		sanitizer *content.Sanitizer
		content   any
		wantCode  int
		wantHTML  string
		forbidden string
	}{
		{"default_empty", nil, nil, http.StatusCreated, "", ""},
		{"not_a_document", nil, []any{1, 2}, http.StatusBadRequest, "", ""},
		{"missing_blocks", nil, map[string]any{"time": 1}, http.StatusBadRequest, "", ""},
		{"sanitized_on_ingest", content.NewSanitizer(), rawJSON(richDocument), http.StatusCreated, "<p>Run the <b>installer</b></p>", "<script"},
		{"stored_verbatim_when_disabled", nil, rawJSON(richDocument), http.StatusCreated, "<script>alert(1)</script>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(tt.sanitizer, 3)
			bookID := f.repo.addBook("Guide")

			body := map[string]any{"bookId": bookID, "title": "Install"}
			if tt.content != nil {
				body["content"] = tt.content
			}

			recorder := testkit.Do(t, f.router, http.MethodPost, "/pages", body, testkit.OwnerToken)
			require.Equal(t, tt.wantCode, recorder.Code, recorder.Body.String())
			if tt.wantCode != http.StatusCreated {
				assert.Contains(t, recorder.Body.String(), `"field":"content"`)
				return
			}

			var created page.Page
			testkit.Data(t, recorder, &created)
			html := string(content.Render(created.Content).HTML())
			assert.Contains(t, html, tt.wantHTML)
			if tt.forbidden != "" {
				assert.NotContains(t, html, tt.forbidden)
			}
		})
	}
}

/*
TestCreatePage_SlugRace closes an injected race with retries and surfaces it
as 409 without.
*/
func TestCreatePage_SlugRace(t *testing.T) {
	for _, retries := range []int{0, 2} {
		t.Run(fmt.Sprintf("retries_%d", retries), func(t *testing.T) {
			f := newFixture(nil, retries)
			bookID := f.repo.addBook("Guide")
			f.repo.steal = 1

			recorder := testkit.Do(t, f.router, http.MethodPost, "/pages",
				map[string]any{"bookId": bookID, "title": "Intro"}, testkit.OwnerToken)

			if retries == 0 {
				assert.Equal(t, http.StatusConflict, recorder.Code)
				return
			}
			require.Equal(t, http.StatusCreated, recorder.Code)
			var created page.Page
			testkit.Data(t, recorder, &created)
			assert.Equal(t, "intro-2", created.Slug)
		})
	}
}

/*
TestExportPage renders the document to Markdown under the page title.
*/
func TestExportPage(t *testing.T) {
	f := newFixture(content.NewSanitizer(), 3)
	bookID := f.repo.addBook("Guide")
	created := f.create(t, map[string]any{"bookId": bookID, "title": "Install", "content": rawJSON(richDocument)})

	recorder := testkit.Do(t, f.router, http.MethodGet, "/pages/"+created.ID+"/export", nil, "")
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "text/markdown; charset=utf-8", recorder.Header().Get("Content-Type"))

	body := recorder.Body.String()
	assert.Contains(t, body, "# Install\n\n")
	assert.Contains(t, body, "## Install")
	assert.Contains(t, body, "**installer**")
	assert.Contains(t, body, "go install ./...")
}

// rawJSON embeds a literal document in a request body.
type rawJSON string

func (raw rawJSON) MarshalJSON() ([]byte, error) { return []byte(raw), nil }
