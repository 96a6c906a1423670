package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"used-vehicle-portal/internal/models"
)

// StaticRecord is the native shape of the fallback dataset: the flat JSON
// layout of the curated seed file, which predates the listing record.
type StaticRecord struct {
	VIN       string   `json:"vin"`
	Make      string   `json:"make"`
	Model     string   `json:"model"`
	Year      int      `json:"year"`
	Body      string   `json:"body,omitempty"`
	Price     int      `json:"asking_price"`
	Miles     int      `json:"miles"`
	Owners    int      `json:"owners"`
	Accidents int      `json:"accidents"`
	Title     string   `json:"title"`
	Rental    bool     `json:"rental,omitempty"`
	Fleet     bool     `json:"fleet,omitempty"`
	Lien      bool     `json:"lien,omitempty"`
	Flood     bool     `json:"flood,omitempty"`
	Rust      bool     `json:"rust,omitempty"`
	State     string   `json:"state"`
	City      string   `json:"city,omitempty"`
	Distance  float64  `json:"distance,omitempty"`
	Dealer    string   `json:"dealer,omitempty"`
	Platform  string   `json:"platform,omitempty"`
	URL       string   `json:"url,omitempty"`
	ListingID string   `json:"listing_id,omitempty"`
	Photos    []string `json:"photos,omitempty"`
}

// StaticSource is the in-process fallback dataset, queried by linear scan.
// It has no stored timestamps: they are synthesized at resolution time so
// downstream date sorting and display always see them.
type StaticSource struct {
	records []StaticRecord

	// Now stamps synthesized timestamps. Defaults to time.Now.
	Now func() time.Time
}

// NewStaticSource builds a fallback source over in-memory records
func NewStaticSource(records []StaticRecord) *StaticSource {
	return &StaticSource{records: records, Now: time.Now}
}

// NewStaticSourceFromFile loads the fallback dataset from a JSON file. An
// empty path yields the built-in dataset.
func NewStaticSourceFromFile(path string) (*StaticSource, error) {
	if path == "" {
		return NewStaticSource(builtinDataset()), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read static dataset: %w", err)
	}
	var records []StaticRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to parse static dataset: %w", err)
	}
	return NewStaticSource(records), nil
}

func (s *StaticSource) Name() string {
	return "static"
}

// Records exposes the raw dataset for seeding tools
func (s *StaticSource) Records() []StaticRecord {
	return s.records
}

func (s *StaticSource) TryGet(ctx context.Context, vin string) (*models.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	vin = strings.ToUpper(vin)
	for i := range s.records {
		if strings.ToUpper(s.records[i].VIN) == vin {
			listing := s.normalize(&s.records[i])
			return listing, nil
		}
	}
	return nil, nil
}

// TryQuery scans the dataset. The static source has no query layer, so the
// make/model predicates are applied client-side; the result set matches
// what a store-level filter would return.
func (s *StaticSource) TryQuery(ctx context.Context, q Query) ([]models.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var out []models.Listing
	for i := range s.records {
		r := &s.records[i]
		if q.Make != "" && !strings.EqualFold(r.Make, q.Make) {
			continue
		}
		if q.Model != "" && !strings.EqualFold(r.Model, q.Model) {
			continue
		}
		out = append(out, *s.normalize(r))
	}
	return out, nil
}

// normalize adapts a static record into the common listing record and
// fabricates the timestamp fields.
func (s *StaticSource) normalize(r *StaticRecord) *models.Listing {
	now := s.Now()
	return &models.Listing{
		VIN:             strings.ToUpper(r.VIN),
		Make:            models.Make(r.Make),
		Model:           r.Model,
		Year:            r.Year,
		BodyType:        r.Body,
		Price:           r.Price,
		Mileage:         r.Miles,
		OwnerCount:      r.Owners,
		AccidentCount:   r.Accidents,
		TitleStatus:     r.Title,
		IsRental:        r.Rental,
		IsFleet:         r.Fleet,
		HasLien:         r.Lien,
		FloodDamage:     r.Flood,
		FlagRustConcern: r.Rust,
		IsRustBeltState: models.InRustBelt(r.State),
		StateOfOrigin:   r.State,
		CurrentLocation: r.City,
		DistanceMiles:   r.Distance,
		DealerName:      r.Dealer,
		SourcePlatform:  r.Platform,
		SourceURL:       r.URL,
		SourceListingID: r.ListingID,
		ImagesURL:       r.Photos,
		FirstSeenAt:     now,
		LastUpdatedAt:   now,
		CreatedAt:       now,
	}
}

// builtinDataset is the shipped fallback inventory, used when no dataset
// file is configured. Small by design: its job is keeping the browse page
// alive when both stores are down.
func builtinDataset() []StaticRecord {
	return []StaticRecord{
		{
			VIN: "2T3P1RFV8MW149833", Make: "Toyota", Model: "RAV4", Year: 2021,
			Body: "SUV", Price: 25900, Miles: 31200, Owners: 1, Accidents: 0,
			Title: "clean", State: "CO", City: "Denver, CO", Distance: 45,
			Dealer: "Front Range Auto", Platform: "autotrader",
		},
		{
			VIN: "5YFBURHE1KP887214", Make: "Toyota", Model: "Corolla", Year: 2019,
			Body: "Sedan", Price: 16500, Miles: 48900, Owners: 2, Accidents: 1,
			Title: "clean", State: "AZ", City: "Phoenix, AZ", Distance: 380,
			Dealer: "Desert Sun Motors", Platform: "cargurus",
		},
		{
			VIN: "2HKRW2H85LH682451", Make: "Honda", Model: "CR-V", Year: 2020,
			Body: "SUV", Price: 23400, Miles: 39800, Owners: 1, Accidents: 0,
			Title: "clean", State: "TX", City: "Austin, TX", Distance: 520,
			Dealer: "Hill Country Honda", Platform: "autotrader",
		},
		{
			VIN: "19XFC2F69KE203318", Make: "Honda", Model: "Civic", Year: 2019,
			Body: "Sedan", Price: 15900, Miles: 61200, Owners: 2, Accidents: 0,
			Title: "clean", State: "OH", City: "Columbus, OH", Distance: 610,
			Rust: true, Dealer: "Buckeye Auto Mall", Platform: "craigslist",
		},
		{
			VIN: "4T1B11HK5KU722906", Make: "Toyota", Model: "Camry", Year: 2019,
			Body: "Sedan", Price: 17800, Miles: 55400, Owners: 3, Accidents: 2,
			Title: "rebuilt", State: "FL", City: "Tampa, FL", Distance: 890,
			Flood: true, Dealer: "Gulf Coast Cars", Platform: "cargurus",
		},
	}
}
