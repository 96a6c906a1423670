package scoring

import (
	"strings"
	"time"

	"used-vehicle-portal/internal/config"
	"used-vehicle-portal/internal/models"
)

// Miles-per-year bands used by both the score and the mileage rating
const (
	lowMilesPerYear  = 8000
	fairMilesPerYear = 12000
	highMilesPerYear = 15000
)

// Distance bands (miles)
const (
	nearbyDistance   = 100
	regionalDistance = 300
	farawayDistance  = 500
)

// Market position bands: price/expected ratios outside these bounds move
// the score.
const (
	belowMarketRatio = 0.85
	aboveMarketRatio = 1.15
)

// Engine computes the 0-100 priority score and its quality tier. It is a
// pure function of listing attributes plus the configured weight table; the
// only environmental input is the current year, injectable for tests.
type Engine struct {
	weights config.ScoringConfig

	// Now is used to derive vehicle age. Defaults to time.Now.
	Now func() time.Time
}

// NewEngine creates a scoring engine from a weight table
func NewEngine(weights config.ScoringConfig) *Engine {
	return &Engine{
		weights: weights,
		Now:     time.Now,
	}
}

// Score computes the priority score for a listing. Contributions outside
// [0,100] are clamped, never rejected.
func (e *Engine) Score(l *models.Listing) int {
	w := e.weights
	score := w.Baseline

	score += e.titleScore(l)
	score += e.accidentScore(l)
	score += e.ownerScore(l)
	score += e.mileageScore(l)
	score += e.riskFlagScore(l)
	score += e.distanceScore(l)
	score += e.marketScore(l)
	score += e.modelScore(l)

	return clamp(score, 0, 100)
}

// TierFor maps a priority score onto a quality tier using the configured
// thresholds. Total over all int inputs.
func (e *Engine) TierFor(score int) models.QualityTier {
	switch {
	case score >= e.weights.TopPickMinScore:
		return models.TierTopPick
	case score >= e.weights.GoodBuyMinScore:
		return models.TierGoodBuy
	default:
		return models.TierCaution
	}
}

// Annotate recomputes the scoring outputs on a listing in place
func (e *Engine) Annotate(l *models.Listing) {
	l.PriorityScore = e.Score(l)
	l.QualityTier = e.TierFor(l.PriorityScore)
	if l.MileageRating == "" {
		l.MileageRating = e.MileageRatingFor(l.Mileage, l.Year)
	}
}

// MileageRatingFor derives the mileage rating from miles per year of age.
// Current-year vehicles are rated on one year of wear.
func (e *Engine) MileageRatingFor(mileage, year int) models.MileageRating {
	age := e.Now().Year() - year
	if age < 1 {
		age = 1
	}
	perYear := mileage / age
	switch {
	case perYear < fairMilesPerYear:
		return models.MileageExcellent
	case perYear <= highMilesPerYear:
		return models.MileageGood
	default:
		return models.MileageAcceptable
	}
}

func (e *Engine) titleScore(l *models.Listing) int {
	if l.TitleStatus == "" {
		// Unknown title is neutral, not penalized
		return 0
	}
	if strings.EqualFold(l.TitleStatus, "clean") {
		return e.weights.CleanTitleBonus
	}
	return e.weights.BrandedTitlePenalty
}

func (e *Engine) accidentScore(l *models.Listing) int {
	if l.AccidentCount < 0 {
		return 0
	}
	if l.AccidentCount == 0 {
		return e.weights.NoAccidentBonus
	}
	penalty := l.AccidentCount * e.weights.PerAccidentPenalty
	if penalty < e.weights.MaxAccidentPenalty {
		penalty = e.weights.MaxAccidentPenalty
	}
	return penalty
}

func (e *Engine) ownerScore(l *models.Listing) int {
	switch {
	case l.OwnerCount <= 0:
		// Missing owner history is neutral
		return 0
	case l.OwnerCount == 1:
		return e.weights.SingleOwnerBonus
	case l.OwnerCount == 2:
		return e.weights.SecondOwnerBonus
	case l.OwnerCount >= 4:
		return e.weights.ManyOwnersPenalty
	default:
		return 0
	}
}

func (e *Engine) mileageScore(l *models.Listing) int {
	if l.Mileage < 0 {
		return 0
	}
	age := e.Now().Year() - l.Year
	if age <= 0 {
		// Current-year vehicle: miles-per-year is undefined, contribute nothing
		return 0
	}
	perYear := l.Mileage / age
	switch {
	case perYear < lowMilesPerYear:
		return e.weights.LowMileagePerYearBonus
	case perYear < fairMilesPerYear:
		return e.weights.FairMileagePerYearBonus
	case perYear <= highMilesPerYear:
		return 0
	default:
		return e.weights.HighMileagePerYearPenalty
	}
}

func (e *Engine) riskFlagScore(l *models.Listing) int {
	score := 0
	if l.IsRental {
		score += e.weights.RentalPenalty
	}
	if l.IsFleet {
		score += e.weights.FleetPenalty
	}
	if l.HasLien {
		score += e.weights.LienPenalty
	}
	if l.FloodDamage {
		score += e.weights.FloodPenalty
	}
	if l.IsRustBeltState {
		score += e.weights.RustBeltPenalty
	}
	if l.FlagRustConcern {
		score += e.weights.RustConcernPenalty
	}
	return score
}

func (e *Engine) distanceScore(l *models.Listing) int {
	switch {
	case l.DistanceMiles <= 0:
		return 0
	case l.DistanceMiles < nearbyDistance:
		return e.weights.NearbyBonus
	case l.DistanceMiles < regionalDistance:
		return e.weights.RegionalBonus
	case l.DistanceMiles > farawayDistance:
		return e.weights.FarawayPenalty
	default:
		return 0
	}
}

// marketScore compares asking price to a rough depreciation anchor for the
// vehicle's age. The anchor is deliberately coarse; the weight table decides
// how much it matters.
func (e *Engine) marketScore(l *models.Listing) int {
	if l.Price <= 0 {
		return 0
	}
	age := e.Now().Year() - l.Year
	if age < 0 {
		age = 0
	}
	expected := e.weights.MarketBasePrice - age*e.weights.DepreciationPerYear
	if expected < e.weights.MarketFloorPrice {
		expected = e.weights.MarketFloorPrice
	}
	ratio := float64(l.Price) / float64(expected)
	switch {
	case ratio < belowMarketRatio:
		return e.weights.BelowMarketBonus
	case ratio > aboveMarketRatio:
		return e.weights.AboveMarketPenalty
	default:
		return 0
	}
}

func (e *Engine) modelScore(l *models.Listing) int {
	for _, m := range e.weights.DesirableModels {
		if strings.EqualFold(m, l.Model) {
			return e.weights.DesirableModelBonus
		}
	}
	return 0
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
