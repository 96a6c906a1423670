package source

import (
	"context"
	"errors"
	"fmt"

	"used-vehicle-portal/internal/database"
	"used-vehicle-portal/internal/models"
)

// LegacySource adapts the previous generation's Postgres store into the
// source chain. Row-shape normalization lives in the store itself.
type LegacySource struct {
	store *database.LegacyStore
}

// NewLegacySource wraps the legacy store
func NewLegacySource(store *database.LegacyStore) *LegacySource {
	return &LegacySource{store: store}
}

func (s *LegacySource) Name() string {
	return "legacy"
}

func (s *LegacySource) TryGet(ctx context.Context, vin string) (*models.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	listing, err := s.store.GetByVIN(vin)
	if errors.Is(err, models.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrSourceUnavailable, err)
	}
	return listing, nil
}

func (s *LegacySource) TryQuery(ctx context.Context, q Query) ([]models.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	listings, err := s.store.Query(database.ListingQuery{
		Make:  q.Make,
		Model: q.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrSourceUnavailable, err)
	}
	return listings, nil
}
