package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Search    SearchConfig    `yaml:"search"`
	Curation  CurationConfig  `yaml:"curation"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Refresh   RefreshConfig   `yaml:"refresh"`
	Logging   LoggingConfig   `yaml:"logging"`
	Timezone  string          `yaml:"timezone"`
}

// DatabaseConfig contains the primary and legacy store settings
type DatabaseConfig struct {
	Primary PrimaryStoreConfig `yaml:"primary"`
	Legacy  LegacyStoreConfig  `yaml:"legacy"`
	Static  StaticConfig       `yaml:"static"`
}

// PrimaryStoreConfig contains MySQL connection settings for the live store
type PrimaryStoreConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// LegacyStoreConfig contains PostgreSQL connection settings for the legacy store
type LegacyStoreConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"sslmode"`
}

// StaticConfig points at the fallback dataset file. When the path is empty
// the built-in dataset is used.
type StaticConfig struct {
	DatasetPath string `yaml:"dataset_path"`
}

// SearchConfig contains search engine settings
type SearchConfig struct {
	Meilisearch MeilisearchConfig `yaml:"meilisearch"`
}

// MeilisearchConfig contains Meilisearch connection settings
type MeilisearchConfig struct {
	Host   string `yaml:"host"`
	APIKey string `yaml:"api_key"`
}

// CurationConfig contains browsing defaults and source-chain tuning
type CurationConfig struct {
	DefaultPageSize         int `yaml:"default_page_size"`
	MaxPageSize             int `yaml:"max_page_size"`
	MaxVisiblePageButtons   int `yaml:"max_visible_page_buttons"`
	BreakerFailureThreshold int `yaml:"breaker_failure_threshold"`
	BreakerResetSeconds     int `yaml:"breaker_reset_seconds"`
}

// ScoringConfig is the weighted-rule table for the priority score plus the
// tier thresholds shared with filtering. Every contribution is a plain point
// value so individual rules can be tuned (and unit-tested) in isolation.
type ScoringConfig struct {
	Baseline int `yaml:"baseline"`

	// Title and history
	CleanTitleBonus     int `yaml:"clean_title_bonus"`
	BrandedTitlePenalty int `yaml:"branded_title_penalty"`
	NoAccidentBonus     int `yaml:"no_accident_bonus"`
	PerAccidentPenalty  int `yaml:"per_accident_penalty"`
	MaxAccidentPenalty  int `yaml:"max_accident_penalty"`
	SingleOwnerBonus    int `yaml:"single_owner_bonus"`
	SecondOwnerBonus    int `yaml:"second_owner_bonus"`
	ManyOwnersPenalty   int `yaml:"many_owners_penalty"`

	// Mileage vs age
	LowMileagePerYearBonus    int `yaml:"low_mileage_per_year_bonus"`
	FairMileagePerYearBonus   int `yaml:"fair_mileage_per_year_bonus"`
	HighMileagePerYearPenalty int `yaml:"high_mileage_per_year_penalty"`

	// Risk flags
	RentalPenalty      int `yaml:"rental_penalty"`
	FleetPenalty       int `yaml:"fleet_penalty"`
	LienPenalty        int `yaml:"lien_penalty"`
	FloodPenalty       int `yaml:"flood_penalty"`
	RustBeltPenalty    int `yaml:"rust_belt_penalty"`
	RustConcernPenalty int `yaml:"rust_concern_penalty"`

	// Distance
	NearbyBonus    int `yaml:"nearby_bonus"`
	RegionalBonus  int `yaml:"regional_bonus"`
	FarawayPenalty int `yaml:"faraway_penalty"`

	// Market position
	BelowMarketBonus    int `yaml:"below_market_bonus"`
	AboveMarketPenalty  int `yaml:"above_market_penalty"`
	MarketBasePrice     int `yaml:"market_base_price"`
	DepreciationPerYear int `yaml:"depreciation_per_year"`
	MarketFloorPrice    int `yaml:"market_floor_price"`

	// Model desirability
	DesirableModelBonus int      `yaml:"desirable_model_bonus"`
	DesirableModels     []string `yaml:"desirable_models"`

	// Tier thresholds (shared with the filter engine)
	TopPickMinScore int `yaml:"top_pick_min_score"`
	GoodBuyMinScore int `yaml:"good_buy_min_score"`
}

// RateLimitConfig contains rate limiting settings for mutating endpoints
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requests_per_minute"`
	RequestsPerHour   int  `yaml:"requests_per_hour"`
}

// RefreshConfig controls the scheduled rescoring/reindex job
type RefreshConfig struct {
	Enabled   bool   `yaml:"enabled"`
	DailyTime string `yaml:"daily_time"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level       string `yaml:"level"`
	LogRequests bool   `yaml:"log_requests"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Legacy: LegacyStoreConfig{
				Enabled: true,
				SSLMode: "disable",
			},
		},
		Curation: CurationConfig{
			DefaultPageSize:         20,
			MaxPageSize:             100,
			MaxVisiblePageButtons:   5,
			BreakerFailureThreshold: 3,
			BreakerResetSeconds:     60,
		},
		Scoring: DefaultScoring(),
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerMinute: 30,
			RequestsPerHour:   600,
		},
		Refresh: RefreshConfig{
			Enabled:   false,
			DailyTime: "03:30",
		},
		Logging: LoggingConfig{
			Level:       "info",
			LogRequests: true,
		},
	}
}

// DefaultScoring returns the default weight table. Point values are tunable;
// the tier thresholds (80/60) are the contract the UI depends on.
func DefaultScoring() ScoringConfig {
	return ScoringConfig{
		Baseline: 50,

		CleanTitleBonus:     10,
		BrandedTitlePenalty: -15,
		NoAccidentBonus:     10,
		PerAccidentPenalty:  -6,
		MaxAccidentPenalty:  -20,
		SingleOwnerBonus:    8,
		SecondOwnerBonus:    2,
		ManyOwnersPenalty:   -6,

		LowMileagePerYearBonus:    10,
		FairMileagePerYearBonus:   5,
		HighMileagePerYearPenalty: -8,

		RentalPenalty:      -6,
		FleetPenalty:       -4,
		LienPenalty:        -8,
		FloodPenalty:       -25,
		RustBeltPenalty:    -5,
		RustConcernPenalty: -5,

		NearbyBonus:    4,
		RegionalBonus:  2,
		FarawayPenalty: -4,

		BelowMarketBonus:    5,
		AboveMarketPenalty:  -5,
		MarketBasePrice:     34000,
		DepreciationPerYear: 2200,
		MarketFloorPrice:    6000,

		DesirableModelBonus: 4,
		DesirableModels:     []string{"RAV4", "CR-V", "Camry", "Civic", "Highlander", "Pilot", "Tacoma"},

		TopPickMinScore: 80,
		GoodBuyMinScore: 60,
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(filepath string) (*Config, error) {
	// Start with default config
	config := DefaultConfig()

	// If file doesn't exist, return default config
	if _, err := os.Stat(filepath); os.IsNotExist(err) {
		return config, nil
	}

	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}
