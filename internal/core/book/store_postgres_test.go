// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

//go:build integration

package book_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/folio/internal/core/book"
	"github.com/taibuivan/folio/internal/platform/sec"
	"github.com/taibuivan/folio/internal/platform/testkit"
	"github.com/taibuivan/folio/internal/users/auth"
	"github.com/taibuivan/folio/pkg/uuid"
)

/*
TestRepository_ListPastTheEnd keeps the total when the page holds no rows.
*/
func TestRepository_ListPastTheEnd(t *testing.T) {
	pool := testkit.Postgres(t)
	ctx := context.Background()

	author := &auth.User{ID: uuid.New(), Email: uuid.New() + "@folio.test", Name: "Store Test", PasswordHash: "x", Role: sec.RoleEditor}
	require.NoError(t, auth.NewUserRepository(pool).Create(ctx, author))
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM users.account WHERE id = $1`, author.ID)
	})

	repo := book.NewRepository(pool)
	for range 3 {
		id := uuid.New()
		require.NoError(t, repo.Create(ctx, &book.Book{ID: id, Name: "Book " + id, Slug: "store-" + id, AuthorID: author.ID}))
	}

	filter := book.Filter{IncludeUnpublished: true}
	first, total, err := repo.List(ctx, filter, 1, 0)
	require.NoError(t, err)
	require.Len(t, first, 1)
	require.GreaterOrEqual(t, total, 3)

	rows, pastEnd, err := repo.List(ctx, filter, 10, total+10)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, total, pastEnd)
}
