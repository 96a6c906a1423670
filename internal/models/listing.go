package models

import "time"

// Make is the vehicle manufacturer. The catalog only carries two.
type Make string

const (
	MakeToyota Make = "Toyota"
	MakeHonda  Make = "Honda"
)

// MileageRating classifies miles-per-year wear
type MileageRating string

const (
	MileageExcellent  MileageRating = "excellent"
	MileageGood       MileageRating = "good"
	MileageAcceptable MileageRating = "acceptable"
)

// QualityTier is derived from the priority score and is never persisted on
// its own; every read recomputes it from the score.
type QualityTier string

const (
	TierTopPick QualityTier = "top_pick"
	TierGoodBuy QualityTier = "good_buy"
	TierCaution QualityTier = "caution"
)

// Listing represents one vehicle for sale. All fields except the review
// annotations are write-once at ingestion.
type Listing struct {
	// Identity
	VIN string `gorm:"type:varchar(17);primaryKey" json:"vin"`
	ID  string `gorm:"type:varchar(32);index" json:"id,omitempty"`

	// Descriptive attributes
	Make     Make   `gorm:"type:varchar(10);not null;index" json:"make"`
	Model    string `gorm:"type:varchar(60);not null;index" json:"model"`
	Year     int    `gorm:"type:int;not null;index" json:"year"`
	BodyType string `gorm:"type:varchar(30)" json:"body_type,omitempty"`

	// Commercial attributes
	Price         int           `gorm:"type:int;not null;index" json:"price"`
	Mileage       int           `gorm:"type:int;not null;index" json:"mileage"`
	MileageRating MileageRating `gorm:"type:varchar(12)" json:"mileage_rating"`
	OwnerCount    int           `gorm:"type:int" json:"owner_count"`
	AccidentCount int           `gorm:"type:int" json:"accident_count"`
	TitleStatus   string        `gorm:"type:varchar(20)" json:"title_status"`

	// Risk flags
	IsRental        bool `gorm:"type:boolean" json:"is_rental"`
	IsFleet         bool `gorm:"type:boolean" json:"is_fleet"`
	HasLien         bool `gorm:"type:boolean" json:"has_lien"`
	FloodDamage     bool `gorm:"type:boolean" json:"flood_damage"`
	IsRustBeltState bool `gorm:"type:boolean" json:"is_rust_belt_state"`
	FlagRustConcern bool `gorm:"type:boolean" json:"flag_rust_concern"`

	// Location
	StateOfOrigin   string  `gorm:"type:varchar(2)" json:"state_of_origin"`
	CurrentLocation string  `gorm:"type:varchar(120)" json:"current_location,omitempty"`
	DistanceMiles   float64 `gorm:"type:decimal(8,1)" json:"distance_miles"`
	DealerName      string  `gorm:"type:varchar(120)" json:"dealer_name,omitempty"`

	// Scoring outputs. The score is computed, never user input; the tier is
	// re-derived from the score on every read (gorm ignores it).
	PriorityScore int         `gorm:"type:int;index" json:"priority_score"`
	QualityTier   QualityTier `gorm:"-" json:"quality_tier"`

	// Provenance
	SourcePlatform  string   `gorm:"type:varchar(40)" json:"source_platform,omitempty"`
	SourceURL       string   `gorm:"type:varchar(500)" json:"source_url,omitempty"`
	SourceListingID string   `gorm:"type:varchar(60)" json:"source_listing_id,omitempty"`
	ImagesURL       []string `gorm:"serializer:json" json:"images_url,omitempty"`

	// User annotation (the only mutable fields, via the review update)
	ReviewedByUser bool   `gorm:"type:boolean" json:"reviewed_by_user"`
	UserRating     *int   `gorm:"type:int" json:"user_rating,omitempty"`
	UserNotes      string `gorm:"type:text" json:"user_notes,omitempty"`

	// Timestamps
	FirstSeenAt   time.Time `gorm:"type:datetime;not null" json:"first_seen_at"`
	LastUpdatedAt time.Time `gorm:"type:datetime;not null;autoUpdateTime" json:"last_updated_at"`
	CreatedAt     time.Time `gorm:"type:datetime;not null;autoCreateTime;index:idx_listings_created_at,sort:desc" json:"created_at"`
}

// TableName overrides the default table name for the gorm library
func (Listing) TableName() string {
	return "listings"
}

// rustBeltStates are the states whose road salt makes underbody rust a
// routine inspection item.
var rustBeltStates = map[string]bool{
	"OH": true, "MI": true, "PA": true, "NY": true, "IL": true,
	"IN": true, "WI": true, "MN": true, "IA": true, "MO": true,
	"WV": true, "MA": true, "CT": true, "NJ": true,
}

// InRustBelt reports whether a two-letter state code is a rust-belt state
func InRustBelt(state string) bool {
	return rustBeltStates[state]
}
