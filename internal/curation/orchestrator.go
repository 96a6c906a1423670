package curation

import (
	"context"
	"log"
	"time"

	"used-vehicle-portal/internal/models"
	"used-vehicle-portal/internal/scoring"
	"used-vehicle-portal/internal/source"
)

// Resolver is the slice of the source chain the curator needs. Satisfied by
// *source.Resolver; tests substitute fakes.
type Resolver interface {
	ResolveByVIN(ctx context.Context, vin string) (*models.Listing, error)
	ResolveQuery(ctx context.Context, q source.Query) ([]models.Listing, bool)
}

// Query is one browse request: filters, sort and pagination
type Query struct {
	Criteria Criteria  `json:"criteria"`
	SortBy   SortField `json:"sort_by"`
	Order    SortOrder `json:"order"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}

// TierStats are the aggregate counts over the filtered (not paginated)
// collection, so they answer "how many match the current filters".
type TierStats struct {
	TopPick int `json:"top_pick"`
	GoodBuy int `json:"good_buy"`
	Caution int `json:"caution"`
	Total   int `json:"total"`
}

// FilterSummary reports the active-filter count for UI affordances
type FilterSummary struct {
	ActiveCount int `json:"active_count"`
}

// Result is one curated page plus its navigation and aggregate context
type Result struct {
	Listings      []models.Listing `json:"listings"`
	Pagination    PageMeta         `json:"pagination"`
	PageButtons   []int            `json:"page_buttons"`
	FilterSummary FilterSummary    `json:"filter_summary"`
	Stats         TierStats        `json:"stats"`
	// Degraded marks an empty result caused by every source failing, as
	// opposed to a genuine zero-match.
	Degraded bool `json:"degraded"`
}

// Curator composes resolve, score, filter, sort and paginate into one
// request pipeline. All stages past resolution are pure; only resolution
// can fail, and its failures surface as a degraded result, never an error.
type Curator struct {
	resolver Resolver
	scorer   *scoring.Engine
	filter   *Filter
	sorter   *Sorter

	maxPageSize       int
	maxVisibleButtons int
	defaultPageSize   int
}

// CuratorOptions tune the browse defaults
type CuratorOptions struct {
	DefaultPageSize   int
	MaxPageSize       int
	MaxVisibleButtons int
}

// NewCurator wires the pipeline. Zero-valued options fall back to defaults.
func NewCurator(resolver Resolver, scorer *scoring.Engine, opts CuratorOptions) *Curator {
	if opts.DefaultPageSize < 1 {
		opts.DefaultPageSize = DefaultPageSize
	}
	if opts.MaxPageSize < 1 {
		opts.MaxPageSize = 100
	}
	if opts.MaxVisibleButtons < 3 {
		opts.MaxVisibleButtons = 5
	}
	return &Curator{
		resolver:          resolver,
		scorer:            scorer,
		filter:            NewFilter(scorer),
		sorter:            NewSorter(scorer),
		defaultPageSize:   opts.DefaultPageSize,
		maxPageSize:       opts.MaxPageSize,
		maxVisibleButtons: opts.MaxVisibleButtons,
	}
}

// Filter exposes the filter engine for callers that need unique values or
// active-filter counts outside a full curate pass.
func (c *Curator) Filter() *Filter {
	return c.filter
}

// ValidateQuery rejects malformed criteria before any pipeline stage runs.
// Pagination is deliberately not validated here: out-of-range pages clamp.
func (c *Curator) ValidateQuery(q Query) error {
	if q.SortBy != "" && !ValidSortField(q.SortBy) {
		return models.NewValidationError("sort_by", "unsupported sort field")
	}
	if q.Order != "" && !ValidSortOrder(q.Order) {
		return models.NewValidationError("order", "must be asc or desc")
	}
	if q.PageSize < 0 {
		return models.NewValidationError("page_size", "must not be negative")
	}
	if q.PageSize > c.maxPageSize {
		return models.NewValidationError("page_size", "exceeds the maximum page size")
	}
	cr := q.Criteria
	if cr.YearMin != nil && cr.YearMax != nil && *cr.YearMin > *cr.YearMax {
		return models.NewValidationError("year_min", "must not exceed year_max")
	}
	if cr.PriceMin != nil && cr.PriceMax != nil && *cr.PriceMin > *cr.PriceMax {
		return models.NewValidationError("price_min", "must not exceed price_max")
	}
	if cr.MileageMax != nil && *cr.MileageMax < 0 {
		return models.NewValidationError("mileage_max", "must not be negative")
	}
	if isSet(cr.MileageRating) && !validMileageRating(cr.MileageRating) {
		return models.NewValidationError("mileage_rating", "unknown mileage rating")
	}
	if isSet(cr.QualityTier) && !validQualityTier(cr.QualityTier) {
		return models.NewValidationError("quality_tier", "unknown quality tier")
	}
	return nil
}

// Curate runs the full pipeline for one browse request
func (c *Curator) Curate(ctx context.Context, q Query) (*Result, error) {
	if err := c.ValidateQuery(q); err != nil {
		return nil, err
	}

	if q.SortBy == "" {
		q.SortBy = DefaultSortField
	}
	if q.Order == "" {
		q.Order = DefaultSortOrder
	}
	if q.PageSize == 0 {
		q.PageSize = c.defaultPageSize
	}

	start := time.Now()

	// Resolving: push make/model down to the store layer where supported.
	// The filter engine re-applies them client-side, so the result set is
	// identical whichever layer did the narrowing.
	resolved, degraded := c.resolver.ResolveQuery(ctx, source.Query{
		Make:  storePredicate(q.Criteria.Make),
		Model: storePredicate(q.Criteria.Model),
	})

	// Scoring: annotate every resolved listing so filtering and sorting
	// see fresh scores and tiers, never stale stored ones
	for i := range resolved {
		c.scorer.Annotate(&resolved[i])
	}

	// Filtering, then stats over the filtered-but-unpaginated set
	filtered := c.filter.Apply(resolved, q.Criteria)
	stats := c.tierStats(filtered)

	// Sorting and paginating
	sorted := c.sorter.Sort(filtered, q.SortBy, q.Order)
	page, meta := Paginate(sorted, q.Page, q.PageSize)

	log.Printf("[Curate] duration_ms=%d resolved=%d filtered=%d page=%d/%d degraded=%v",
		time.Since(start).Milliseconds(), len(resolved), len(filtered),
		meta.CurrentPage, meta.TotalPages, degraded)

	return &Result{
		Listings:      page,
		Pagination:    meta,
		PageButtons:   PageNumbers(meta.CurrentPage, meta.TotalPages, c.maxVisibleButtons),
		FilterSummary: FilterSummary{ActiveCount: c.filter.ActiveCount(q.Criteria)},
		Stats:         stats,
		Degraded:      degraded,
	}, nil
}

// ResolveByVIN resolves a single listing and annotates its scoring outputs
func (c *Curator) ResolveByVIN(ctx context.Context, vin string) (*models.Listing, error) {
	listing, err := c.resolver.ResolveByVIN(ctx, vin)
	if err != nil {
		return nil, err
	}
	c.scorer.Annotate(listing)
	return listing, nil
}

func (c *Curator) tierStats(listings []models.Listing) TierStats {
	stats := TierStats{Total: len(listings)}
	for i := range listings {
		switch c.scorer.TierFor(listings[i].PriorityScore) {
		case models.TierTopPick:
			stats.TopPick++
		case models.TierGoodBuy:
			stats.GoodBuy++
		default:
			stats.Caution++
		}
	}
	return stats
}

// storePredicate converts a criteria value into a store-level predicate,
// dropping the "all" sentinel.
func storePredicate(v string) string {
	if !isSet(v) {
		return ""
	}
	return v
}

func validMileageRating(v string) bool {
	switch models.MileageRating(v) {
	case models.MileageExcellent, models.MileageGood, models.MileageAcceptable:
		return true
	}
	return false
}

func validQualityTier(v string) bool {
	switch models.QualityTier(v) {
	case models.TierTopPick, models.TierGoodBuy, models.TierCaution:
		return true
	}
	return false
}
