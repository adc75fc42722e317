package dto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePage(t *testing.T) {
	cases := []struct {
		page, limit         string
		wantPage, wantLimit int
	}{
		{"", "", 1, 10},
		{"abc", "xyz", 1, 10},
		{"0", "0", 1, 10},
		{"-4", "-4", 1, 1},
		{"3", "250", 3, 100},
		{" 2 ", "25", 2, 25},
	}
	for _, tc := range cases {
		page, limit := NormalizePage(tc.page, tc.limit)
		assert.Equal(t, tc.wantPage, page, "page=%q", tc.page)
		assert.Equal(t, tc.wantLimit, limit, "limit=%q", tc.limit)
	}
}

func TestParseSort(t *testing.T) {
	assert.Equal(t, []SortField{{Column: "created_at", Desc: true}}, ParseSort(""))
	assert.Equal(t, []SortField{{Column: "created_at", Desc: true}}, ParseSort("bogus,-password"))
	assert.Equal(t, ParseSort(DefaultSort), ParseSort(""))
	assert.Equal(t,
		[]SortField{{Column: "title"}, {Column: "updated_at", Desc: true}},
		ParseSort("title, -updatedAt, nope"),
	)
}

func TestListPostsQuery_Normalize(t *testing.T) {
	q := ListPostsQuery{Page: "2", Limit: "5", Q: "  Go ", Tag: "web", Author: "u1", Sort: "slug"}

	f := q.Normalize("", false)
	assert.Nil(t, f.Published)
	assert.Equal(t, "Go", f.Query)
	assert.Equal(t, 5, f.Offset())
	assert.Equal(t, []SortField{{Column: "slug"}}, f.Sort)

	f = q.Normalize("true", true)
	require.NotNil(t, f.Published)
	assert.True(t, *f.Published)

	f = q.Normalize("yes", true)
	require.NotNil(t, f.Published)
	assert.False(t, *f.Published, "除 true 以外的取值都视为未发布")
}

func TestNewPagination(t *testing.T) {
	assert.Equal(t, Pagination{Page: 3, Limit: 10, Total: 25, Pages: 3}, NewPagination(3, 10, 25))
	assert.Equal(t, 0, NewPagination(1, 10, 0).Pages)
	assert.Equal(t, 1, NewPagination(1, 10, 10).Pages)
	assert.Equal(t, 0, NewPagination(1, 0, 10).Pages)
}
