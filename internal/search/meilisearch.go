package search

import (
	"encoding/json"

	"github.com/meilisearch/meilisearch-go"

	"used-vehicle-portal/internal/models"
)

type SearchClient struct {
	client *meilisearch.Client
	index  string
}

func NewSearchClient(host, apiKey string) *SearchClient {
	client := meilisearch.NewClient(meilisearch.ClientConfig{
		Host:   host,
		APIKey: apiKey,
	})

	return &SearchClient{
		client: client,
		index:  "listings",
	}
}

// InitIndex initializes the Meilisearch index
func (s *SearchClient) InitIndex() error {
	// Create index if it doesn't exist
	_, err := s.client.CreateIndex(&meilisearch.IndexConfig{
		Uid:        s.index,
		PrimaryKey: "vin",
	})
	// Ignore error if index already exists
	if err != nil && err.Error() != "index already exists" {
		return err
	}

	// Configure searchable attributes
	_, err = s.client.Index(s.index).UpdateSearchableAttributes(&[]string{
		"vin",
		"make",
		"model",
		"dealer_name",
		"current_location",
	})
	if err != nil {
		return err
	}

	// Configure filterable attributes
	_, err = s.client.Index(s.index).UpdateFilterableAttributes(&[]string{
		"vin",
		"make",
		"model",
		"year",
		"price",
		"mileage",
		"quality_tier",
		"title_status",
		"reviewed_by_user",
	})
	if err != nil {
		return err
	}

	// Configure sortable attributes
	_, err = s.client.Index(s.index).UpdateSortableAttributes(&[]string{
		"price",
		"mileage",
		"year",
		"priority_score",
		"created_at",
	})
	if err != nil {
		return err
	}

	return nil
}

// IndexListing indexes a single listing. The caller must have annotated the
// scoring outputs first so the indexed document carries the current tier.
func (s *SearchClient) IndexListing(listing *models.Listing) error {
	_, err := s.client.Index(s.index).AddDocuments([]models.Listing{*listing})
	return err
}

// IndexListings indexes multiple listings
func (s *SearchClient) IndexListings(listings []models.Listing) error {
	if len(listings) == 0 {
		return nil
	}
	_, err := s.client.Index(s.index).AddDocuments(listings)
	return err
}

// Search performs a plain full-text search over the index
func (s *SearchClient) Search(query string, limit int64) ([]models.Listing, error) {
	if limit == 0 {
		limit = 20
	}
	searchRes, err := s.client.Index(s.index).Search(query, &meilisearch.SearchRequest{
		Limit: limit,
	})
	if err != nil {
		return nil, err
	}
	return hitsToListings(searchRes.Hits), nil
}

// hitsToListings converts raw search hits back into listing records. Hits
// that fail to round-trip are skipped rather than failing the whole search.
func hitsToListings(hits []interface{}) []models.Listing {
	var listings []models.Listing
	for _, hit := range hits {
		hitJSON, err := json.Marshal(hit)
		if err != nil {
			continue
		}

		var listing models.Listing
		if err := json.Unmarshal(hitJSON, &listing); err != nil {
			continue
		}

		listings = append(listings, listing)
	}
	return listings
}
