// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package category_test

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/core/category"
	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/testkit"
)

type memoryRepository struct {
	mu         sync.Mutex
	categories []*category.Category
}

func (repo *memoryRepository) List(context.Context) ([]*category.Category, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	return append([]*category.Category{}, repo.categories...), nil
}

func (repo *memoryRepository) FindByID(_ context.Context, id string) (*category.Category, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, c := range repo.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, apperr.NotFound("Category")
}

func (repo *memoryRepository) FindOrCreate(_ context.Context, c *category.Category) (bool, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()
	for _, existing := range repo.categories {
		if existing.Name == c.Name {
			*c = *existing
			return false, nil
		}
	}
	copied := *c
	repo.categories = append(repo.categories, &copied)
	return true, nil
}

/*
TestCategory_FindOrCreate answers 201 then 200 for the same name and keeps the
first description.
*/
func TestCategory_FindOrCreate(t *testing.T) {
	handler := category.NewHandler(category.NewService(&memoryRepository{}, testkit.Logger()))
	routes := chi.NewRouter()
	handler.RegisterRoutes(routes)
	router := testkit.Router("/categories", routes)

	recorder := testkit.Do(t, router, http.MethodPost, "/categories", map[string]any{"name": "Release Notes", "description": "Changelogs"}, testkit.OwnerToken)
	require.Equal(t, http.StatusCreated, recorder.Code)
	var first category.Category
	testkit.Data(t, recorder, &first)
	assert.Equal(t, "release-notes", first.Slug)

	recorder = testkit.Do(t, router, http.MethodPost, "/categories", map[string]any{"name": "Release Notes", "description": "Other"}, testkit.OwnerToken)
	require.Equal(t, http.StatusOK, recorder.Code)
	var second category.Category
	testkit.Data(t, recorder, &second)
	assert.Equal(t, first.ID, second.ID)
	require.NotNil(t, second.Description)
	assert.Equal(t, "Changelogs", *second.Description)

	recorder = testkit.Do(t, router, http.MethodPost, "/categories", map[string]any{"name": ""}, testkit.OwnerToken)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)

	recorder = testkit.Do(t, router, http.MethodPost, "/categories", map[string]any{"name": "X"}, "")
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)

	recorder = testkit.Do(t, router, http.MethodGet, "/categories", nil, "")
	var categories []category.Category
	testkit.Data(t, recorder, &categories)
	assert.Len(t, categories, 1)
}
