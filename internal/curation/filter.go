package curation

import (
	"sort"
	"strconv"
	"strings"

	"used-vehicle-portal/internal/models"
	"used-vehicle-portal/internal/scoring"
)

// FilterAll is the sentinel meaning "no filter" for the enum-valued criteria
const FilterAll = "all"

// Criteria is the set of active filter options for a query. Pointer bounds
// distinguish "unset" from a legitimate zero; string criteria treat "" and
// the "all" sentinel as unset.
type Criteria struct {
	Make          string `json:"make,omitempty"`
	Model         string `json:"model,omitempty"`
	YearMin       *int   `json:"year_min,omitempty"`
	YearMax       *int   `json:"year_max,omitempty"`
	PriceMin      *int   `json:"price_min,omitempty"`
	PriceMax      *int   `json:"price_max,omitempty"`
	MileageMax    *int   `json:"mileage_max,omitempty"`
	MileageRating string `json:"mileage_rating,omitempty"`
	QualityTier   string `json:"quality_tier,omitempty"`
	Search        string `json:"search,omitempty"`
}

// filterStage is one independently testable predicate. A listing survives
// filtering only if it matches every active stage.
type filterStage struct {
	name   string
	active func(Criteria) bool
	match  func(Criteria, *models.Listing) bool
}

// Filter narrows a listing collection. It needs the scoring engine only to
// derive the quality tier for tier-based filtering.
type Filter struct {
	scorer *scoring.Engine
	stages []filterStage
}

// NewFilter creates a filter engine backed by the given scorer
func NewFilter(scorer *scoring.Engine) *Filter {
	f := &Filter{scorer: scorer}
	// Stage order is fixed: cheap equality checks first, the substring
	// search last. AND composition means order never changes the survivors.
	f.stages = []filterStage{
		{
			name:   "make",
			active: func(c Criteria) bool { return isSet(c.Make) },
			match: func(c Criteria, l *models.Listing) bool {
				return strings.EqualFold(string(l.Make), c.Make)
			},
		},
		{
			name:   "model",
			active: func(c Criteria) bool { return isSet(c.Model) },
			match: func(c Criteria, l *models.Listing) bool {
				return strings.EqualFold(l.Model, c.Model)
			},
		},
		{
			name:   "year_min",
			active: func(c Criteria) bool { return c.YearMin != nil },
			match:  func(c Criteria, l *models.Listing) bool { return l.Year >= *c.YearMin },
		},
		{
			name:   "year_max",
			active: func(c Criteria) bool { return c.YearMax != nil },
			match:  func(c Criteria, l *models.Listing) bool { return l.Year <= *c.YearMax },
		},
		{
			name:   "price_min",
			active: func(c Criteria) bool { return c.PriceMin != nil },
			match:  func(c Criteria, l *models.Listing) bool { return l.Price >= *c.PriceMin },
		},
		{
			name:   "price_max",
			active: func(c Criteria) bool { return c.PriceMax != nil },
			match:  func(c Criteria, l *models.Listing) bool { return l.Price <= *c.PriceMax },
		},
		{
			name:   "mileage_max",
			active: func(c Criteria) bool { return c.MileageMax != nil },
			match:  func(c Criteria, l *models.Listing) bool { return l.Mileage <= *c.MileageMax },
		},
		{
			name:   "mileage_rating",
			active: func(c Criteria) bool { return isSet(c.MileageRating) },
			match: func(c Criteria, l *models.Listing) bool {
				return strings.EqualFold(string(l.MileageRating), c.MileageRating)
			},
		},
		{
			name:   "quality_tier",
			active: func(c Criteria) bool { return isSet(c.QualityTier) },
			match: func(c Criteria, l *models.Listing) bool {
				// Always the derived tier, never a stored one
				tier := f.scorer.TierFor(l.PriorityScore)
				return strings.EqualFold(string(tier), c.QualityTier)
			},
		},
		{
			name:   "search",
			active: func(c Criteria) bool { return strings.TrimSpace(c.Search) != "" },
			match: func(c Criteria, l *models.Listing) bool {
				needle := strings.ToLower(strings.TrimSpace(c.Search))
				return strings.Contains(strings.ToLower(l.VIN), needle) ||
					strings.Contains(strings.ToLower(string(l.Make)), needle) ||
					strings.Contains(strings.ToLower(l.Model), needle) ||
					strings.Contains(strconv.Itoa(l.Year), needle)
			},
		},
	}
	return f
}

// Apply narrows listings to those matching every active criterion. The
// relative order of survivors is preserved and the input is not mutated.
func (f *Filter) Apply(listings []models.Listing, c Criteria) []models.Listing {
	active := make([]filterStage, 0, len(f.stages))
	for _, s := range f.stages {
		if s.active(c) {
			active = append(active, s)
		}
	}
	if len(active) == 0 {
		out := make([]models.Listing, len(listings))
		copy(out, listings)
		return out
	}

	out := make([]models.Listing, 0, len(listings))
	for i := range listings {
		if f.matchesAll(active, c, &listings[i]) {
			out = append(out, listings[i])
		}
	}
	return out
}

func (f *Filter) matchesAll(active []filterStage, c Criteria, l *models.Listing) bool {
	for _, s := range active {
		if !s.match(c, l) {
			return false
		}
	}
	return true
}

// ActiveCount reports how many criteria are non-default. It walks the same
// stage list Apply uses, so the two can never disagree.
func (f *Filter) ActiveCount(c Criteria) int {
	count := 0
	for _, s := range f.stages {
		if s.active(c) {
			count++
		}
	}
	return count
}

// FilterOptions are the distinct values present in a resolved collection,
// used to populate the filter dropdowns.
type FilterOptions struct {
	Makes  []string `json:"makes"`
	Models []string `json:"models"`
	Years  []int    `json:"years"`
}

// UniqueValues collects the deduplicated makes and models (ascending) and
// years (descending) of a collection. Makes and models use the same
// collation as the sort engine, so dropdown order matches column order.
func (f *Filter) UniqueValues(listings []models.Listing) FilterOptions {
	makeSet := make(map[string]bool)
	modelSet := make(map[string]bool)
	yearSet := make(map[int]bool)

	for i := range listings {
		if listings[i].Make != "" {
			makeSet[string(listings[i].Make)] = true
		}
		if listings[i].Model != "" {
			modelSet[listings[i].Model] = true
		}
		if listings[i].Year > 0 {
			yearSet[listings[i].Year] = true
		}
	}

	opts := FilterOptions{
		Makes:  make([]string, 0, len(makeSet)),
		Models: make([]string, 0, len(modelSet)),
		Years:  make([]int, 0, len(yearSet)),
	}
	for m := range makeSet {
		opts.Makes = append(opts.Makes, m)
	}
	for m := range modelSet {
		opts.Models = append(opts.Models, m)
	}
	for y := range yearSet {
		opts.Years = append(opts.Years, y)
	}

	coll := newCollator()
	coll.SortStrings(opts.Makes)
	coll.SortStrings(opts.Models)
	sort.Sort(sort.Reverse(sort.IntSlice(opts.Years)))
	return opts
}

func isSet(v string) bool {
	return v != "" && !strings.EqualFold(v, FilterAll)
}
