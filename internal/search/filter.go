package search

import (
	"fmt"
	"strings"

	"github.com/meilisearch/meilisearch-go"

	"used-vehicle-portal/internal/models"
)

type FilterParams struct {
	Query       string
	MinPrice    *int
	MaxPrice    *int
	Makes       []string
	MaxMileage  *int
	QualityTier string
	SortBy      string
	Limit       int64
}

// filterExpression renders the params into a Meilisearch filter string.
// Returns "" when no filter is active.
func filterExpression(params FilterParams) string {
	var filters []string

	// Price range filter
	if params.MinPrice != nil {
		filters = append(filters, fmt.Sprintf("price >= %d", *params.MinPrice))
	}
	if params.MaxPrice != nil {
		filters = append(filters, fmt.Sprintf("price <= %d", *params.MaxPrice))
	}

	// Make filter
	if len(params.Makes) > 0 {
		makeFilters := make([]string, len(params.Makes))
		for i, m := range params.Makes {
			makeFilters[i] = fmt.Sprintf("make = '%s'", m)
		}
		filters = append(filters, fmt.Sprintf("(%s)", strings.Join(makeFilters, " OR ")))
	}

	// Mileage filter
	if params.MaxMileage != nil {
		filters = append(filters, fmt.Sprintf("mileage <= %d", *params.MaxMileage))
	}

	// Tier filter
	if params.QualityTier != "" {
		filters = append(filters, fmt.Sprintf("quality_tier = '%s'", params.QualityTier))
	}

	return strings.Join(filters, " AND ")
}

// FilterSearch performs advanced search with filters
func (s *SearchClient) FilterSearch(params FilterParams) ([]models.Listing, error) {
	filterStr := filterExpression(params)

	// Determine sort order
	var sort []string
	if params.SortBy != "" {
		sort = []string{params.SortBy}
	}

	// Default limit
	if params.Limit == 0 {
		params.Limit = 20
	}

	searchReq := &meilisearch.SearchRequest{
		Limit: params.Limit,
	}
	if filterStr != "" {
		searchReq.Filter = filterStr
	}
	if len(sort) > 0 {
		searchReq.Sort = sort
	}

	searchRes, err := s.client.Index(s.index).Search(params.Query, searchReq)
	if err != nil {
		return nil, err
	}
	return hitsToListings(searchRes.Hits), nil
}
