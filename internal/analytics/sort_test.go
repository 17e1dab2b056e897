package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortRequests(t *testing.T) {
	requests := fixtureRequests()

	assert.Equal(t, []int{4, 2, 3, 1, 5}, ids(SortRequests(requests, "processing_time_minutes", "desc")))
	assert.Equal(t, []int{4, 1, 5, 3, 2}, ids(SortRequests(requests, "priority", "desc")))
	assert.Equal(t, []int{5, 3, 1, 2, 4}, ids(SortRequests(requests, "created_at", "asc")))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(SortRequests(requests, "nonsense", "desc")))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, ids(requests))
	assert.True(t, SortableField("status"))
	assert.False(t, SortableField("nonsense"))
}

func TestPaginate(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}

	page, meta := Paginate(items, 2, 0)
	assert.Equal(t, []int{11, 12}, page)
	assert.Equal(t, 2, meta.Page)
	assert.Equal(t, DefaultPageSize, meta.PageSize)
	assert.Equal(t, 12, meta.TotalCount)

	page, _ = Paginate(items, 5, 5)
	assert.Empty(t, page)

	page, meta = Paginate(items, -1, 3)
	assert.Equal(t, []int{1, 2, 3}, page)
	assert.Equal(t, 1, meta.Page)
}

func TestPaginateHugeValuesReturnEmptyPage(t *testing.T) {
	items := []int{1, 2, 3}

	require.NotPanics(t, func() {
		page, meta := Paginate(items, 922337203685477582, 10)
		assert.Empty(t, page)
		assert.Equal(t, 922337203685477582, meta.Page)
	})

	page, _ := Paginate(items, 1, math.MaxInt)
	assert.Equal(t, items, page)
}
