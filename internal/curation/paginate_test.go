package curation

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"used-vehicle-portal/internal/models"
)

func numberedListings(n int) []models.Listing {
	out := make([]models.Listing, n)
	for i := range out {
		out[i] = models.Listing{VIN: fmt.Sprintf("VIN%03d", i+1)}
	}
	return out
}

func TestPaginateBasic(t *testing.T) {
	listings := numberedListings(45)

	page, meta := Paginate(listings, 2, 20)
	assert.Len(t, page, 20)
	assert.Equal(t, "VIN021", page[0].VIN)
	assert.Equal(t, "VIN040", page[19].VIN)
	assert.Equal(t, 2, meta.CurrentPage)
	assert.Equal(t, 45, meta.TotalItems)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrevious)
	assert.Equal(t, 20, meta.StartIndex)
	assert.Equal(t, 40, meta.EndIndex)
}

func TestPaginateLastPartialPage(t *testing.T) {
	listings := numberedListings(45)

	page, meta := Paginate(listings, 3, 20)
	assert.Len(t, page, 5)
	assert.Equal(t, "VIN041", page[0].VIN)
	assert.False(t, meta.HasNext)
	assert.True(t, meta.HasPrevious)
	assert.Equal(t, meta.EndIndex-meta.StartIndex, len(page))
}

func TestPaginateClampsPage(t *testing.T) {
	listings := numberedListings(45)

	// Below range clamps to the first page
	page, meta := Paginate(listings, 0, 20)
	assert.Equal(t, 1, meta.CurrentPage)
	assert.Equal(t, "VIN001", page[0].VIN)

	page, meta = Paginate(listings, -7, 20)
	assert.Equal(t, 1, meta.CurrentPage)
	assert.Equal(t, "VIN001", page[0].VIN)

	// Above range clamps to the last page
	page, meta = Paginate(listings, 10000, 20)
	assert.Equal(t, 3, meta.CurrentPage)
	assert.Len(t, page, 5)
	assert.False(t, meta.HasNext)
}

func TestPaginateEmptyCollection(t *testing.T) {
	page, meta := Paginate(nil, 5, 20)
	assert.Empty(t, page)
	assert.Equal(t, 1, meta.CurrentPage)
	assert.Equal(t, 0, meta.TotalPages)
	assert.False(t, meta.HasNext)
	assert.False(t, meta.HasPrevious)
}

func TestPaginateDefaultPageSize(t *testing.T) {
	listings := numberedListings(25)

	page, meta := Paginate(listings, 1, 0)
	assert.Len(t, page, DefaultPageSize)
	assert.Equal(t, DefaultPageSize, meta.PageSize)

	page, _ = Paginate(listings, 1, -5)
	assert.Len(t, page, DefaultPageSize)
}

func TestPaginateDoesNotAliasInput(t *testing.T) {
	listings := numberedListings(3)
	page, _ := Paginate(listings, 1, 20)
	page[0].VIN = "changed"
	assert.Equal(t, "VIN001", listings[0].VIN)
}

// Concatenating every page in order must reproduce the full collection
// exactly once.
func TestPaginateCoversCollection(t *testing.T) {
	listings := numberedListings(47)
	pageSize := 10

	var combined []models.Listing
	_, meta := Paginate(listings, 1, pageSize)
	for p := 1; p <= meta.TotalPages; p++ {
		page, m := Paginate(listings, p, pageSize)
		assert.Equal(t, p, m.CurrentPage)
		combined = append(combined, page...)
	}
	assert.Equal(t, listings, combined)
}

func TestPageNumbers(t *testing.T) {
	cases := []struct {
		current, total int
		want           []int
	}{
		// Everything fits
		{1, 1, []int{1}},
		{2, 4, []int{1, 2, 3, 4}},
		{3, 5, []int{1, 2, 3, 4, 5}},
		// Middle window with ellipses on both sides
		{5, 10, []int{1, PageEllipsis, 4, 5, 6, PageEllipsis, 10}},
		// Near the front: no leading ellipsis
		{1, 10, []int{1, 2, 3, 4, PageEllipsis, 10}},
		{2, 10, []int{1, 2, 3, 4, PageEllipsis, 10}},
		// Near the back: no trailing ellipsis
		{10, 10, []int{1, PageEllipsis, 7, 8, 9, 10}},
		{9, 10, []int{1, PageEllipsis, 7, 8, 9, 10}},
	}
	for _, tc := range cases {
		got := PageNumbers(tc.current, tc.total, 5)
		assert.Equal(t, tc.want, got, "current=%d total=%d", tc.current, tc.total)
	}
}

func TestPageNumbersNoPages(t *testing.T) {
	assert.Nil(t, PageNumbers(1, 0, 5))
}

func TestPageNumbersClampsCurrent(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3, 4, PageEllipsis, 10}, PageNumbers(-3, 10, 5))
	assert.Equal(t, []int{1, PageEllipsis, 7, 8, 9, 10}, PageNumbers(99, 10, 5))
}
