package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"used-vehicle-portal/internal/models"
)

// GormStore is the primary live listing store (MySQL via GORM)
type GormStore struct {
	db *gorm.DB
}

// ListingQuery are the predicates the primary store can apply at the query
// layer instead of client-side.
type ListingQuery struct {
	Make  string
	Model string
}

func NewGormStore(host, port, user, password, dbname string) (*GormStore, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		user, password, host, port, dbname)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		NowFunc: func() time.Time {
			return time.Now().Local()
		},
	})
	if err != nil {
		return nil, err
	}

	// Test connection
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}

	return &GormStore{db: db}, nil
}

// NewGormStoreFromDB wraps an existing gorm.DB instance
func NewGormStoreFromDB(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// DB returns the underlying gorm.DB instance
func (s *GormStore) DB() *gorm.DB {
	return s.db
}

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// InitSchema creates tables using GORM AutoMigrate
func (s *GormStore) InitSchema() error {
	return s.db.AutoMigrate(&models.Listing{})
}

// SaveListing saves or updates a listing (upsert by VIN). On update the
// ingestion timestamps and the user's review annotations are preserved.
func (s *GormStore) SaveListing(l *models.Listing) error {
	l.VIN = strings.ToUpper(l.VIN)

	now := time.Now()
	if l.FirstSeenAt.IsZero() {
		l.FirstSeenAt = now
	}
	if l.LastUpdatedAt.IsZero() {
		l.LastUpdatedAt = now
	}

	var existing models.Listing
	result := s.db.Where("vin = ?", l.VIN).First(&existing)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return s.db.Create(l).Error
	} else if result.Error != nil {
		return result.Error
	}

	// Update existing: keep CreatedAt, FirstSeenAt and the review fields
	l.CreatedAt = existing.CreatedAt
	l.FirstSeenAt = existing.FirstSeenAt
	l.ReviewedByUser = existing.ReviewedByUser
	l.UserRating = existing.UserRating
	l.UserNotes = existing.UserNotes
	return s.db.Save(l).Error
}

// GetListingByVIN retrieves a listing by VIN. The lookup is
// case-insensitive: VINs are stored uppercased.
func (s *GormStore) GetListingByVIN(vin string) (*models.Listing, error) {
	var listing models.Listing
	err := s.db.Where("vin = ?", strings.ToUpper(vin)).First(&listing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// QueryListings retrieves listings matching the store-level predicates,
// newest first.
func (s *GormStore) QueryListings(q ListingQuery) ([]models.Listing, error) {
	tx := s.db.Model(&models.Listing{})
	if q.Make != "" {
		tx = tx.Where("make = ?", q.Make)
	}
	if q.Model != "" {
		tx = tx.Where("model = ?", q.Model)
	}

	var listings []models.Listing
	err := tx.Order("created_at DESC").Find(&listings).Error
	return listings, err
}

// GetAllListings retrieves every listing, newest first
func (s *GormStore) GetAllListings() ([]models.Listing, error) {
	return s.QueryListings(ListingQuery{})
}

// UpdateReview applies a partial review update keyed by VIN and returns the
// updated record. The update must already be validated.
func (s *GormStore) UpdateReview(vin string, update models.ReviewUpdate) (*models.Listing, error) {
	listing, err := s.GetListingByVIN(vin)
	if err != nil {
		return nil, err
	}

	update.ApplyTo(listing)
	if err := s.db.Save(listing).Error; err != nil {
		return nil, err
	}
	return listing, nil
}

// CountByMake returns listing counts grouped by make, largest first
func (s *GormStore) CountByMake() (map[string]int64, error) {
	type makeCount struct {
		Make  string
		Count int64
	}
	var rows []makeCount
	err := s.db.Model(&models.Listing{}).
		Select("make, count(*) as count").
		Group("make").
		Order("count DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Make] = r.Count
	}
	return counts, nil
}

// CountReviewed returns how many listings carry a user review
func (s *GormStore) CountReviewed() (int64, error) {
	var count int64
	err := s.db.Model(&models.Listing{}).
		Where("reviewed_by_user = ?", true).
		Count(&count).Error
	return count, err
}
