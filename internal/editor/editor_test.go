// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package editor_test

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/content"
	"github.com/taibuivan/folio/internal/editor"
	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/sec"
	"github.com/taibuivan/folio/internal/platform/testkit"
	"github.com/taibuivan/folio/pkg/uuid"
)

// # Fakes

// memoryStore mirrors the Redis layout: sessions by id plus an owner index.
type memoryStore struct {
	mu     sync.Mutex
	drafts map[string]editor.Draft
	owners map[string]string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{drafts: map[string]editor.Draft{}, owners: map[string]string{}}
}

func ownerKey(draft *editor.Draft) string {
	return draft.ActorID + ":" + string(draft.TargetType) + ":" + draft.TargetID
}

func (store *memoryStore) Acquire(_ context.Context, draft *editor.Draft) (*editor.Draft, bool, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	if id, found := store.owners[ownerKey(draft)]; found {
		existing := store.drafts[id]
		return &existing, false, nil
	}
	store.owners[ownerKey(draft)] = draft.ID
	store.drafts[draft.ID] = *draft
	return draft, true, nil
}

func (store *memoryStore) Get(_ context.Context, id string) (*editor.Draft, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	draft, found := store.drafts[id]
	if !found {
		return nil, apperr.NotFound("Draft")
	}
	return &draft, nil
}

func (store *memoryStore) Save(_ context.Context, draft *editor.Draft) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	if _, found := store.drafts[draft.ID]; !found {
		return apperr.NotFound("Draft")
	}
	store.drafts[draft.ID] = *draft
	return nil
}

func (store *memoryStore) Release(_ context.Context, id string) (*editor.Draft, error) {
	store.mu.Lock()
	defer store.mu.Unlock()

	draft, found := store.drafts[id]
	if !found {
		return nil, apperr.NotFound("Draft")
	}
	delete(store.drafts, id)
	delete(store.owners, ownerKey(&draft))
	return &draft, nil
}

// memoryTarget stands in for the page or article service.
type memoryTarget struct {
	mu      sync.Mutex
	owners  map[string]string
	docs    map[string]content.Document
	commits int
	reject  bool
}

func newMemoryTarget() *memoryTarget {
	return &memoryTarget{owners: map[string]string{}, docs: map[string]content.Document{}}
}

func (target *memoryTarget) add(owner string, doc content.Document) string {
	id := uuid.New()
	target.owners[id] = owner
	target.docs[id] = doc
	return id
}

func (target *memoryTarget) check(claims *sec.AuthClaims, id string) error {
	owner, found := target.owners[id]
	if !found {
		return apperr.NotFound("Page")
	}
	if owner != claims.UserID {
		return apperr.Forbidden("You do not have permission to update this page")
	}
	return nil
}

func (target *memoryTarget) EditableContent(_ context.Context, claims *sec.AuthClaims, id string) (content.Document, error) {
	target.mu.Lock()
	defer target.mu.Unlock()

	if err := target.check(claims, id); err != nil {
		return content.Document{}, err
	}
	return target.docs[id], nil
}

func (target *memoryTarget) CommitContent(_ context.Context, claims *sec.AuthClaims, id string, doc content.Document) error {
	target.mu.Lock()
	defer target.mu.Unlock()

	if err := target.check(claims, id); err != nil {
		return err
	}
	if target.reject {
		return apperr.FieldInvalid("content", "rejected")
	}
	target.docs[id] = doc
	target.commits++
	return nil
}

// # Fixtures

type fixture struct {
	store   *memoryStore
	pages   *memoryTarget
	service *editor.Service
	router  http.Handler
	pageID  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	seed, err := content.Parse([]byte(`{"blocks":[{"id":"a","type":"paragraph","data":{"text":"stored"}}]}`))
	require.NoError(t, err)

	store := newMemoryStore()
	pages := newMemoryTarget()
	service := editor.NewService(store, pages, newMemoryTarget(), testkit.Logger())
	return &fixture{
		store:   store,
		pages:   pages,
		service: service,
		router:  testkit.Router("/drafts", editor.NewHandler(service).Routes()),
		pageID:  pages.add(testkit.OwnerID, seed),
	}
}

func (f *fixture) open(t *testing.T, wantCode int) editor.Draft {
	t.Helper()
	recorder := testkit.Do(t, f.router, http.MethodPost, "/drafts",
		map[string]any{"targetType": "page", "targetId": f.pageID}, testkit.OwnerToken)
	require.Equal(t, wantCode, recorder.Code, recorder.Body.String())

	var draft editor.Draft
	testkit.Data(t, recorder, &draft)
	return draft
}

var edited = map[string]any{"content": map[string]any{"blocks": []any{
	map[string]any{"id": "a", "type": "header", "data": map[string]any{"level": 2, "text": "Edited"}},
	map[string]any{"id": "b", "type": "paragraph", "data": map[string]any{"text": "<b>kept as sent</b>"}},
}}}

// # Tests

/*
TestOpen_SameTargetReturnsSameSession acquires once per mount and never
reseeds an open session.
*/
func TestOpen_SameTargetReturnsSameSession(t *testing.T) {
	f := newFixture(t)

	first := f.open(t, http.StatusCreated)
	require.Len(t, first.Content.Blocks, 1)
	assert.Equal(t, editor.TargetPage, first.TargetType)

	recorder := testkit.Do(t, f.router, http.MethodPut, "/drafts/"+first.ID, edited, testkit.OwnerToken)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	second := f.open(t, http.StatusOK)
	assert.Equal(t, first.ID, second.ID)
	require.Len(t, second.Content.Blocks, 2)
	assert.Equal(t, "header", second.Content.Blocks[0].Type)
}

/*
TestOpen_Rejections covers authentication, validation and the target policy.
*/
func TestOpen_Rejections(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name     string
		body     map[string]any
		token    string
		wantCode int
	}{
		{"anonymous", map[string]any{"targetType": "page", "targetId": f.pageID}, "", http.StatusUnauthorized},
		{"unknown_type", map[string]any{"targetType": "book", "targetId": f.pageID}, testkit.OwnerToken, http.StatusBadRequest},
		{"bad_id", map[string]any{"targetType": "page", "targetId": "42"}, testkit.OwnerToken, http.StatusBadRequest},
		{"missing_target", map[string]any{"targetType": "page", "targetId": uuid.New()}, testkit.OwnerToken, http.StatusNotFound},
		{"not_owner", map[string]any{"targetType": "page", "targetId": f.pageID}, testkit.StrangerToken, http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := testkit.Do(t, f.router, http.MethodPost, "/drafts", tt.body, tt.token)
			assert.Equal(t, tt.wantCode, recorder.Code)
		})
	}
	assert.Empty(t, f.store.drafts)
}

/*
TestRelease_AtMostOnce answers 404 to a second release and to any use after
release, and a remount gets a fresh session.
*/
func TestRelease_AtMostOnce(t *testing.T) {
	f := newFixture(t)
	draft := f.open(t, http.StatusCreated)
	path := "/drafts/" + draft.ID

	recorder := testkit.Do(t, f.router, http.MethodDelete, path, nil, testkit.OwnerToken)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Empty(t, recorder.Body.Bytes())

	for _, call := range []struct {
		method string
		path   string
		body   any
	}{
		{http.MethodDelete, path, nil},
		{http.MethodGet, path, nil},
		{http.MethodPut, path, edited},
		{http.MethodPost, path + "/commit", nil},
	} {
		recorder = testkit.Do(t, f.router, call.method, call.path, call.body, testkit.OwnerToken)
		assert.Equal(t, http.StatusNotFound, recorder.Code, call.method+" "+call.path)
	}
	assert.Zero(t, f.pages.commits)

	remount := f.open(t, http.StatusCreated)
	assert.NotEqual(t, draft.ID, remount.ID)
}

/*
TestSession_ConcurrentRelease lets exactly one of many releases win, within a
session and across sessions resumed separately.
*/
func TestSession_ConcurrentRelease(t *testing.T) {
	f := newFixture(t)
	draft := f.open(t, http.StatusCreated)
	claims := testkit.Claims(testkit.OwnerToken)
	ctx := context.Background()

	shared, err := f.service.Resume(ctx, claims, draft.ID)
	require.NoError(t, err)
	other, err := f.service.Resume(ctx, claims, draft.ID)
	require.NoError(t, err)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		winners  int
		notFound int
	)
	for i := range 8 {
		session := shared
		if i%2 == 1 {
			session = other
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := session.Release(ctx)

			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				winners++
			} else if apperr.IsNotFound(err) {
				notFound++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, winners)
	assert.Equal(t, 7, notFound)

	_, err = shared.Capture(ctx, []byte(`{"blocks":[]}`))
	assert.True(t, apperr.IsNotFound(err))
}

/*
TestCommit_WritesCapturedDocument submits the captured document as it is and
releases the session. A rejected commit leaves it open.
*/
func TestCommit_WritesCapturedDocument(t *testing.T) {
	f := newFixture(t)
	draft := f.open(t, http.StatusCreated)
	path := "/drafts/" + draft.ID

	recorder := testkit.Do(t, f.router, http.MethodPut, path, map[string]any{"content": []any{}}, testkit.OwnerToken)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = testkit.Do(t, f.router, http.MethodPut, path, edited, testkit.OwnerToken)
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = testkit.Do(t, f.router, http.MethodGet, path, nil, testkit.StrangerToken)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
	recorder = testkit.Do(t, f.router, http.MethodPost, path+"/commit", nil, testkit.StrangerToken)
	assert.Equal(t, http.StatusNotFound, recorder.Code)

	f.pages.reject = true
	recorder = testkit.Do(t, f.router, http.MethodPost, path+"/commit", nil, testkit.OwnerToken)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	recorder = testkit.Do(t, f.router, http.MethodGet, path, nil, testkit.OwnerToken)
	assert.Equal(t, http.StatusOK, recorder.Code)

	f.pages.reject = false
	recorder = testkit.Do(t, f.router, http.MethodPost, path+"/commit", nil, testkit.OwnerToken)
	require.Equal(t, http.StatusOK, recorder.Code, recorder.Body.String())

	var result editor.CommitResult
	testkit.Data(t, recorder, &result)
	assert.Equal(t, f.pageID, result.TargetID)

	committed := f.pages.docs[f.pageID]
	require.Len(t, committed.Blocks, 2)
	assert.Equal(t, "<h2>Edited</h2><p><b>kept as sent</b></p>", string(content.Render(committed).HTML()))
	assert.Equal(t, 1, f.pages.commits)

	recorder = testkit.Do(t, f.router, http.MethodGet, path, nil, testkit.OwnerToken)
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
