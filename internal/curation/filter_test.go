package curation

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"used-vehicle-portal/internal/config"
	"used-vehicle-portal/internal/models"
	"used-vehicle-portal/internal/scoring"
)

func testScorer() *scoring.Engine {
	e := scoring.NewEngine(config.DefaultScoring())
	e.Now = func() time.Time {
		return time.Date(2026, time.June, 1, 12, 0, 0, 0, time.UTC)
	}
	return e
}

func intPtr(v int) *int {
	return &v
}

// testListings is a small mixed collection with known scores once annotated
func testListings(t *testing.T) []models.Listing {
	t.Helper()
	scorer := testScorer()
	listings := []models.Listing{
		{
			VIN: "JTMW1RFV8MD030101", Make: models.MakeToyota, Model: "RAV4",
			Year: 2021, Price: 28500, Mileage: 28000, OwnerCount: 1,
			TitleStatus: "clean", StateOfOrigin: "CO", DistanceMiles: 42,
		},
		{
			VIN: "2HKRW2H59LH410202", Make: models.MakeHonda, Model: "CR-V",
			Year: 2020, Price: 26900, Mileage: 61000, OwnerCount: 2,
			TitleStatus: "clean", StateOfOrigin: "TX", DistanceMiles: 230,
		},
		{
			VIN: "4T1B11HK5KU720303", Make: models.MakeToyota, Model: "Camry",
			Year: 2019, Price: 17800, Mileage: 88000, OwnerCount: 4,
			AccidentCount: 3, TitleStatus: "rebuilt", FloodDamage: true,
			StateOfOrigin: "FL", DistanceMiles: 610,
		},
	}
	for i := range listings {
		scorer.Annotate(&listings[i])
	}
	return listings
}

func TestApplyNoCriteria(t *testing.T) {
	f := NewFilter(testScorer())
	listings := testListings(t)

	out := f.Apply(listings, Criteria{})
	assert.Len(t, out, len(listings))
	// Copy, not alias
	out[0].VIN = "changed"
	assert.NotEqual(t, "changed", listings[0].VIN)
}

func TestApplyAllSentinelIsNoFilter(t *testing.T) {
	f := NewFilter(testScorer())
	listings := testListings(t)

	out := f.Apply(listings, Criteria{Make: "all", QualityTier: "All"})
	assert.Len(t, out, len(listings))
	assert.Equal(t, 0, f.ActiveCount(Criteria{Make: "all", QualityTier: "All"}))
}

func TestApplyPerStage(t *testing.T) {
	f := NewFilter(testScorer())
	listings := testListings(t)

	cases := []struct {
		name     string
		criteria Criteria
		vins     []string
	}{
		{"make", Criteria{Make: "toyota"}, []string{"JTMW1RFV8MD030101", "4T1B11HK5KU720303"}},
		{"model", Criteria{Model: "cr-v"}, []string{"2HKRW2H59LH410202"}},
		{"year min", Criteria{YearMin: intPtr(2020)}, []string{"JTMW1RFV8MD030101", "2HKRW2H59LH410202"}},
		{"year max", Criteria{YearMax: intPtr(2019)}, []string{"4T1B11HK5KU720303"}},
		{"price min", Criteria{PriceMin: intPtr(27000)}, []string{"JTMW1RFV8MD030101"}},
		{"price max", Criteria{PriceMax: intPtr(20000)}, []string{"4T1B11HK5KU720303"}},
		{"mileage max", Criteria{MileageMax: intPtr(62000)}, []string{"JTMW1RFV8MD030101", "2HKRW2H59LH410202"}},
		{"tier", Criteria{QualityTier: "caution"}, []string{"4T1B11HK5KU720303"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			out := f.Apply(listings, tc.criteria)
			got := make([]string, 0, len(out))
			for i := range out {
				got = append(got, out[i].VIN)
			}
			assert.Equal(t, tc.vins, got)
		})
	}
}

func TestApplyBoundsAreInclusive(t *testing.T) {
	f := NewFilter(testScorer())
	listings := testListings(t)

	out := f.Apply(listings, Criteria{PriceMin: intPtr(26900), PriceMax: intPtr(26900)})
	assert.Len(t, out, 1)
	assert.Equal(t, "2HKRW2H59LH410202", out[0].VIN)
}

func TestApplyComposesWithAND(t *testing.T) {
	f := NewFilter(testScorer())
	listings := testListings(t)

	out := f.Apply(listings, Criteria{Make: "Toyota", YearMin: intPtr(2020)})
	assert.Len(t, out, 1)
	assert.Equal(t, "JTMW1RFV8MD030101", out[0].VIN)

	// No survivor satisfies contradictory bounds
	out = f.Apply(listings, Criteria{Make: "Honda", Model: "Camry"})
	assert.Empty(t, out)
}

func TestApplyIdempotent(t *testing.T) {
	f := NewFilter(testScorer())
	listings := testListings(t)
	c := Criteria{Make: "Toyota", PriceMax: intPtr(30000)}

	once := f.Apply(listings, c)
	twice := f.Apply(once, c)
	assert.Equal(t, once, twice)
}

func TestApplySearch(t *testing.T) {
	f := NewFilter(testScorer())
	listings := testListings(t)

	cases := []struct {
		search string
		vins   []string
	}{
		{"rav4", []string{"JTMW1RFV8MD030101"}},
		{"HONDA", []string{"2HKRW2H59LH410202"}},
		{"2019", []string{"4T1B11HK5KU720303"}},
		{"KU720", []string{"4T1B11HK5KU720303"}},
		{"  cr-v  ", []string{"2HKRW2H59LH410202"}},
		{"nomatch", nil},
	}
	for _, tc := range cases {
		out := f.Apply(listings, Criteria{Search: tc.search})
		got := make([]string, 0, len(out))
		for i := range out {
			got = append(got, out[i].VIN)
		}
		if tc.vins == nil {
			assert.Empty(t, got, "search %q", tc.search)
		} else {
			assert.Equal(t, tc.vins, got, "search %q", tc.search)
		}
	}
}

func TestActiveCount(t *testing.T) {
	f := NewFilter(testScorer())

	assert.Equal(t, 0, f.ActiveCount(Criteria{}))
	assert.Equal(t, 1, f.ActiveCount(Criteria{Make: "Toyota"}))
	assert.Equal(t, 3, f.ActiveCount(Criteria{
		Make:     "Toyota",
		PriceMax: intPtr(30000),
		Search:   "rav",
	}))
	// Whitespace-only search is not active
	assert.Equal(t, 0, f.ActiveCount(Criteria{Search: "   "}))
	// A zero bound is still an active filter
	assert.Equal(t, 1, f.ActiveCount(Criteria{PriceMin: intPtr(0)}))
}

func TestUniqueValues(t *testing.T) {
	f := NewFilter(testScorer())
	listings := testListings(t)
	listings = append(listings, models.Listing{
		VIN: "5TDGZRBH3MS050404", Make: models.MakeToyota, Model: "Highlander", Year: 2021,
	})

	opts := f.UniqueValues(listings)
	assert.Equal(t, []string{"Honda", "Toyota"}, opts.Makes)
	assert.Equal(t, []string{"Camry", "CR-V", "Highlander", "RAV4"}, opts.Models)
	assert.Equal(t, []int{2021, 2020, 2019}, opts.Years)
}

func TestUniqueValuesCollation(t *testing.T) {
	f := NewFilter(testScorer())
	listings := []models.Listing{
		{VIN: "A", Make: models.MakeHonda, Model: "CR-V", Year: 2020},
		{VIN: "B", Make: models.MakeHonda, Model: "civic", Year: 2019},
	}

	// Same case-insensitive collation as the sort engine: a lowercase model
	// does not fall behind the uppercase ones
	opts := f.UniqueValues(listings)
	assert.Equal(t, []string{"civic", "CR-V"}, opts.Models)
}

func TestUniqueValuesEmpty(t *testing.T) {
	opts := NewFilter(testScorer()).UniqueValues(nil)
	assert.Empty(t, opts.Makes)
	assert.Empty(t, opts.Models)
	assert.Empty(t, opts.Years)
}
