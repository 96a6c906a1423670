package source

import (
	"context"
	"errors"
	"fmt"

	"used-vehicle-portal/internal/database"
	"used-vehicle-portal/internal/models"
)

// PrimarySource adapts the live GORM store into the source chain
type PrimarySource struct {
	store *database.GormStore
}

// NewPrimarySource wraps the primary store
func NewPrimarySource(store *database.GormStore) *PrimarySource {
	return &PrimarySource{store: store}
}

func (s *PrimarySource) Name() string {
	return "primary"
}

// TryGet looks a VIN up in the live store. A missing VIN is (nil, nil);
// only a store failure is an error.
func (s *PrimarySource) TryGet(ctx context.Context, vin string) (*models.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	listing, err := s.store.GetListingByVIN(vin)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrSourceUnavailable, err)
	}
	return listing, nil
}

// TryQuery queries the live store, pushing make/model predicates down to
// the store's query layer.
func (s *PrimarySource) TryQuery(ctx context.Context, q Query) ([]models.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	listings, err := s.store.QueryListings(database.ListingQuery{
		Make:  q.Make,
		Model: q.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrSourceUnavailable, err)
	}
	return listings, nil
}
