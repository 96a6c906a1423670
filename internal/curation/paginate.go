package curation

import "used-vehicle-portal/internal/models"

// DefaultPageSize is used when a caller supplies no page size
const DefaultPageSize = 20

// PageEllipsis marks a gap in a page-number sequence
const PageEllipsis = -1

// PageMeta is the navigation metadata for one page of results. StartIndex
// and EndIndex are the zero-based slice bounds actually used (end
// exclusive), so EndIndex-StartIndex always equals the page length.
type PageMeta struct {
	CurrentPage int  `json:"current_page"`
	PageSize    int  `json:"page_size"`
	TotalItems  int  `json:"total_items"`
	TotalPages  int  `json:"total_pages"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
	StartIndex  int  `json:"start_index"`
	EndIndex    int  `json:"end_index"`
}

// Paginate slices an ordered collection into one page. An out-of-range page
// never errors: it is clamped into [1, totalPages] (page 1 when empty).
func Paginate(listings []models.Listing, page, pageSize int) ([]models.Listing, PageMeta) {
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	totalItems := len(listings)
	totalPages := (totalItems + pageSize - 1) / pageSize

	clampTarget := totalPages
	if clampTarget < 1 {
		clampTarget = 1
	}
	if page < 1 {
		page = 1
	}
	if page > clampTarget {
		page = clampTarget
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > totalItems {
		start = totalItems
	}
	if end > totalItems {
		end = totalItems
	}

	items := make([]models.Listing, end-start)
	copy(items, listings[start:end])

	meta := PageMeta{
		CurrentPage: page,
		PageSize:    pageSize,
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrevious: page > 1,
		StartIndex:  start,
		EndIndex:    end,
	}
	return items, meta
}

// PageNumbers produces the page-button sequence for the navigation strip:
// literal page numbers mixed with PageEllipsis markers. The first and last
// page always appear, with the current page's neighborhood centered as well
// as the boundaries allow. maxVisible counts the buttons that are not
// ellipses.
func PageNumbers(current, total, maxVisible int) []int {
	if total < 1 {
		return nil
	}
	if maxVisible < 3 {
		maxVisible = 3
	}
	if total <= maxVisible {
		pages := make([]int, total)
		for i := range pages {
			pages[i] = i + 1
		}
		return pages
	}

	if current < 1 {
		current = 1
	}
	if current > total {
		current = total
	}

	// First and last are fixed; the rest is a window around current
	window := maxVisible - 2
	half := window / 2
	start := current - half
	end := start + window - 1

	if start < 2 {
		start = 2
		end = start + window - 1
	}
	if end > total-1 {
		end = total - 1
		start = end - window + 1
		if start < 2 {
			start = 2
		}
	}

	pages := []int{1}
	if start > 2 {
		pages = append(pages, PageEllipsis)
	}
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	if end < total-1 {
		pages = append(pages, PageEllipsis)
	}
	pages = append(pages, total)
	return pages
}
