// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package pagination_test

import (
	"math"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/folio/pkg/pagination"
)

func TestFromRequest(t *testing.T) {
	tests := []struct {
		query      string
		wantPage   int
		wantLimit  int
		wantOffset int
	}{
		{"", 1, 20, 0},
		{"?page=3&limit=10", 3, 10, 20},
		{"?page=0&limit=-5", 1, 20, 0},
		{"?page=two&limit=ten", 1, 20, 0},
		{"?page=2&limit=500", 2, 100, 100},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			params := pagination.FromRequest(httptest.NewRequest("GET", "/api/books"+tt.query, nil))
			assert.Equal(t, tt.wantPage, params.Page)
			assert.Equal(t, tt.wantLimit, params.Limit)
			assert.Equal(t, tt.wantOffset, params.Offset())
		})
	}
}

func TestFromRequest_HugePage(t *testing.T) {
	for _, limit := range []int{1, 20, 100} {
		query := "?page=" + strconv.Itoa(math.MaxInt) + "&limit=" + strconv.Itoa(limit)
		params := pagination.FromRequest(httptest.NewRequest("GET", "/articles"+query, nil))

		assert.Equal(t, math.MaxInt/limit, params.Page)
		assert.GreaterOrEqual(t, params.Offset(), 0)
		assert.Equal(t, 0, params.Meta(41).Next())
	}
}

func TestMeta_Neighbours(t *testing.T) {
	tests := []struct {
		name               string
		page, limit, total int
		wantPages          int
		wantPrev, wantNext int
	}{
		{"empty", 1, 20, 0, 0, 0, 0},
		{"single_page", 1, 20, 20, 1, 0, 0},
		{"first_of_three", 1, 20, 41, 3, 0, 2},
		{"middle", 2, 20, 41, 3, 1, 3},
		{"last", 3, 20, 41, 3, 2, 0},
		{"past_the_end", 5, 20, 41, 3, 4, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := pagination.NewMeta(tt.page, tt.limit, tt.total)
			assert.Equal(t, tt.wantPages, meta.TotalPages)
			assert.Equal(t, tt.wantPrev, meta.Prev())
			assert.Equal(t, tt.wantNext, meta.Next())
		})
	}
}
