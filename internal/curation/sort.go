package curation

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"used-vehicle-portal/internal/models"
	"used-vehicle-portal/internal/scoring"
)

// SortField is one of the closed set of sortable listing fields
type SortField string

const (
	SortPriority    SortField = "priority"
	SortQualityTier SortField = "quality_tier"
	SortPrice       SortField = "price"
	SortMileage     SortField = "mileage"
	SortYear        SortField = "year"
	SortMake        SortField = "make"
	SortModel       SortField = "model"
	SortDate        SortField = "date"
)

// SortOrder is the sort direction
type SortOrder string

const (
	OrderAsc  SortOrder = "asc"
	OrderDesc SortOrder = "desc"
)

// Browsing starts at highest priority first
const (
	DefaultSortField = SortPriority
	DefaultSortOrder = OrderDesc
)

// ValidSortField reports whether the field is in the supported set
func ValidSortField(f SortField) bool {
	switch f {
	case SortPriority, SortQualityTier, SortPrice, SortMileage,
		SortYear, SortMake, SortModel, SortDate:
		return true
	}
	return false
}

// ValidSortOrder reports whether the order is asc or desc
func ValidSortOrder(o SortOrder) bool {
	return o == OrderAsc || o == OrderDesc
}

// Sorter orders listing collections. Tier sorts need the scoring engine to
// derive tiers from scores.
type Sorter struct {
	scorer *scoring.Engine
}

// NewSorter creates a sort engine backed by the given scorer
func NewSorter(scorer *scoring.Engine) *Sorter {
	return &Sorter{scorer: scorer}
}

// Sort returns a new ordering of listings by the given field and direction.
// The input slice is not mutated. The sort is stable: listings with equal
// keys keep their original relative order. Descending order is a final sign
// flip of the combined (primary plus tie-break) comparison.
func (s *Sorter) Sort(listings []models.Listing, field SortField, order SortOrder) []models.Listing {
	out := make([]models.Listing, len(listings))
	copy(out, listings)

	cmp := s.comparator(field)
	sign := 1
	if order == OrderDesc {
		sign = -1
	}

	sort.SliceStable(out, func(i, j int) bool {
		return sign*cmp(&out[i], &out[j]) < 0
	})
	return out
}

// comparator builds the ascending-oriented comparison for a field,
// including its documented secondary key where one exists.
func (s *Sorter) comparator(field SortField) func(a, b *models.Listing) int {
	switch field {
	case SortQualityTier:
		return func(a, b *models.Listing) int {
			ta := tierRank(s.scorer.TierFor(a.PriorityScore))
			tb := tierRank(s.scorer.TierFor(b.PriorityScore))
			if c := compareInt(ta, tb); c != 0 {
				return c
			}
			// Score ascending here so the desc sign flip puts the
			// higher score first within a tier
			return compareInt(a.PriorityScore, b.PriorityScore)
		}
	case SortPrice:
		return func(a, b *models.Listing) int { return compareInt(a.Price, b.Price) }
	case SortMileage:
		return func(a, b *models.Listing) int { return compareInt(a.Mileage, b.Mileage) }
	case SortYear:
		return func(a, b *models.Listing) int { return compareInt(a.Year, b.Year) }
	case SortMake:
		coll := newCollator()
		return func(a, b *models.Listing) int {
			return coll.CompareString(string(a.Make), string(b.Make))
		}
	case SortModel:
		coll := newCollator()
		return func(a, b *models.Listing) int {
			return coll.CompareString(a.Model, b.Model)
		}
	case SortDate:
		return func(a, b *models.Listing) int {
			if a.CreatedAt.Before(b.CreatedAt) {
				return -1
			}
			if a.CreatedAt.After(b.CreatedAt) {
				return 1
			}
			return 0
		}
	default: // SortPriority
		return func(a, b *models.Listing) int {
			if c := compareInt(a.PriorityScore, b.PriorityScore); c != 0 {
				return c
			}
			// Tie-break inverted so the default desc view puts fewer miles first
			return compareInt(b.Mileage, a.Mileage)
		}
	}
}

// NextSort computes the sort state after the user selects a field: clicking
// the current field flips its direction, selecting a different field resets
// to ascending so low-to-high is discovered on first click.
func NextSort(currentField SortField, currentOrder SortOrder, selected SortField) (SortField, SortOrder) {
	if selected == currentField {
		if currentOrder == OrderAsc {
			return currentField, OrderDesc
		}
		return currentField, OrderAsc
	}
	return selected, OrderAsc
}

// tierRank orders tiers for ascending sorts: caution < good_buy < top_pick
func tierRank(t models.QualityTier) int {
	switch t {
	case models.TierTopPick:
		return 2
	case models.TierGoodBuy:
		return 1
	default:
		return 0
	}
}

// Collators carry internal buffers, so each sort gets its own
func newCollator() *collate.Collator {
	return collate.New(language.English, collate.IgnoreCase)
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
