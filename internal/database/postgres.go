package database

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"used-vehicle-portal/internal/models"
)

// LegacyStore is the previous generation's listing store (raw PostgreSQL).
// Its schema predates the current record layout, so every read adapts the
// legacy row shape into models.Listing.
type LegacyStore struct {
	conn *sql.DB
}

func NewLegacyStore(host, port, user, password, dbname, sslmode string) (*LegacyStore, error) {
	connStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, dbname, sslmode)

	conn, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, err
	}
	if err := conn.Ping(); err != nil {
		return nil, err
	}

	return &LegacyStore{conn: conn}, nil
}

func (s *LegacyStore) Close() error {
	return s.conn.Close()
}

// InitSchema creates the legacy table if it doesn't exist. The column set
// mirrors the old system: flat names, photo URLs comma-joined, no review
// columns.
func (s *LegacyStore) InitSchema() error {
	query := `
	CREATE TABLE IF NOT EXISTS vehicle_inventory (
		vin VARCHAR(17) PRIMARY KEY,
		record_id VARCHAR(32),
		maker VARCHAR(10) NOT NULL,
		model_name VARCHAR(60) NOT NULL,
		model_year INTEGER NOT NULL,
		body VARCHAR(30),

		asking_price INTEGER NOT NULL,
		odometer INTEGER NOT NULL,
		owners INTEGER,
		accidents INTEGER,
		title_state VARCHAR(20),

		rental_history BOOLEAN DEFAULT FALSE,
		fleet_history BOOLEAN DEFAULT FALSE,
		lien_flag BOOLEAN DEFAULT FALSE,
		flood_flag BOOLEAN DEFAULT FALSE,
		rust_flag BOOLEAN DEFAULT FALSE,

		origin_state VARCHAR(2),
		location VARCHAR(120),
		distance NUMERIC(8, 1),
		dealer VARCHAR(120),

		platform VARCHAR(40),
		listing_url VARCHAR(500),
		platform_listing_id VARCHAR(60),
		photo_urls TEXT,

		first_seen TIMESTAMP,
		last_updated TIMESTAMP,
		created TIMESTAMP NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_inventory_maker ON vehicle_inventory(maker);
	CREATE INDEX IF NOT EXISTS idx_inventory_price ON vehicle_inventory(asking_price);
	`
	_, err := s.conn.Exec(query)
	return err
}

const legacyColumns = `vin, record_id, maker, model_name, model_year, body,
	asking_price, odometer, owners, accidents, title_state,
	rental_history, fleet_history, lien_flag, flood_flag, rust_flag,
	origin_state, location, distance, dealer,
	platform, listing_url, platform_listing_id, photo_urls,
	first_seen, last_updated, created`

// GetByVIN retrieves a listing by VIN (case-insensitive)
func (s *LegacyStore) GetByVIN(vin string) (*models.Listing, error) {
	query := `SELECT ` + legacyColumns + ` FROM vehicle_inventory WHERE UPPER(vin) = $1`

	row := s.conn.QueryRow(query, strings.ToUpper(vin))
	listing, err := scanLegacyRow(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return listing, nil
}

// Query retrieves listings, applying make/model predicates at the store
// layer when supplied.
func (s *LegacyStore) Query(q ListingQuery) ([]models.Listing, error) {
	query := `SELECT ` + legacyColumns + ` FROM vehicle_inventory`
	var conds []string
	var args []interface{}

	if q.Make != "" {
		args = append(args, q.Make)
		conds = append(conds, fmt.Sprintf("maker = $%d", len(args)))
	}
	if q.Model != "" {
		args = append(args, q.Model)
		conds = append(conds, fmt.Sprintf("model_name = $%d", len(args)))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created DESC"

	rows, err := s.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []models.Listing
	for rows.Next() {
		listing, err := scanLegacyRow(rows.Scan)
		if err != nil {
			return nil, err
		}
		listings = append(listings, *listing)
	}
	return listings, rows.Err()
}

// scanLegacyRow adapts one legacy row into the common listing record:
// column renames, null-coalescing of optionals, photo list splitting and
// the derived rust-belt flag.
func scanLegacyRow(scan func(dest ...interface{}) error) (*models.Listing, error) {
	var (
		vin, maker, modelName         string
		modelYear, askingPrice, odom  int
		recordID, body, titleState    sql.NullString
		owners, accidents             sql.NullInt64
		rental, fleet, lien, flood    sql.NullBool
		rust                          sql.NullBool
		originState, location, dealer sql.NullString
		distance                      sql.NullFloat64
		platform, listingURL          sql.NullString
		platformListingID, photoURLs  sql.NullString
		firstSeen, lastUpdated        sql.NullTime
		created                       time.Time
	)

	err := scan(&vin, &recordID, &maker, &modelName, &modelYear, &body,
		&askingPrice, &odom, &owners, &accidents, &titleState,
		&rental, &fleet, &lien, &flood, &rust,
		&originState, &location, &distance, &dealer,
		&platform, &listingURL, &platformListingID, &photoURLs,
		&firstSeen, &lastUpdated, &created)
	if err != nil {
		return nil, err
	}

	l := &models.Listing{
		VIN:             strings.ToUpper(vin),
		ID:              recordID.String,
		Make:            models.Make(maker),
		Model:           modelName,
		Year:            modelYear,
		BodyType:        body.String,
		Price:           askingPrice,
		Mileage:         odom,
		OwnerCount:      int(owners.Int64),
		AccidentCount:   int(accidents.Int64),
		TitleStatus:     titleState.String,
		IsRental:        rental.Bool,
		IsFleet:         fleet.Bool,
		HasLien:         lien.Bool,
		FloodDamage:     flood.Bool,
		FlagRustConcern: rust.Bool,
		StateOfOrigin:   originState.String,
		CurrentLocation: location.String,
		DistanceMiles:   distance.Float64,
		DealerName:      dealer.String,
		SourcePlatform:  platform.String,
		SourceURL:       listingURL.String,
		SourceListingID: platformListingID.String,
		CreatedAt:       created,
	}

	l.IsRustBeltState = models.InRustBelt(l.StateOfOrigin)

	if photoURLs.String != "" {
		l.ImagesURL = strings.Split(photoURLs.String, ",")
	}

	// The legacy schema allows null timestamps; downstream sorting assumes
	// they are always present.
	l.FirstSeenAt = created
	if firstSeen.Valid {
		l.FirstSeenAt = firstSeen.Time
	}
	l.LastUpdatedAt = created
	if lastUpdated.Valid {
		l.LastUpdatedAt = lastUpdated.Time
	}

	return l, nil
}
