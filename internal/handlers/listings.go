package handlers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"used-vehicle-portal/internal/curation"
	"used-vehicle-portal/internal/database"
	"used-vehicle-portal/internal/models"
	"used-vehicle-portal/internal/ratelimit"
	"used-vehicle-portal/internal/scoring"
	"used-vehicle-portal/internal/search"
	"used-vehicle-portal/internal/source"
)

// ListingHandler handles the public listing endpoints
type ListingHandler struct {
	curator  *curation.Curator
	resolver curation.Resolver
	store    *database.GormStore
	scorer   *scoring.Engine
	search   *search.SearchClient
	limiter  *ratelimit.Limiter
}

// NewListingHandler creates a new listing handler. The search client may be
// nil when no search backend is configured.
func NewListingHandler(curator *curation.Curator, resolver curation.Resolver, store *database.GormStore,
	scorer *scoring.Engine, searchClient *search.SearchClient, limiter *ratelimit.Limiter) *ListingHandler {
	return &ListingHandler{
		curator:  curator,
		resolver: resolver,
		store:    store,
		scorer:   scorer,
		search:   searchClient,
		limiter:  limiter,
	}
}

// GetListings runs the full curation pipeline for a browse request
func (h *ListingHandler) GetListings(c *gin.Context) {
	query := curation.Query{
		Criteria: curation.Criteria{
			Make:          c.Query("make"),
			Model:         c.Query("model"),
			MileageRating: c.Query("mileage_rating"),
			QualityTier:   c.Query("quality_tier"),
			Search:        c.Query("search"),
		},
		SortBy: curation.SortField(c.DefaultQuery("sort", string(curation.DefaultSortField))),
		Order:  curation.SortOrder(c.DefaultQuery("order", string(curation.DefaultSortOrder))),
	}

	// Numeric bounds: a malformed number is a validation error, not a
	// silently ignored parameter
	var parseErr *models.ValidationError
	query.Criteria.YearMin = intParam(c, "year_min", &parseErr)
	query.Criteria.YearMax = intParam(c, "year_max", &parseErr)
	query.Criteria.PriceMin = intParam(c, "price_min", &parseErr)
	query.Criteria.PriceMax = intParam(c, "price_max", &parseErr)
	query.Criteria.MileageMax = intParam(c, "mileage_max", &parseErr)
	if page := intParam(c, "page", &parseErr); page != nil {
		query.Page = *page
	}
	if size := intParam(c, "page_size", &parseErr); size != nil {
		query.PageSize = *size
	}
	if parseErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": parseErr.Error()})
		return
	}

	result, err := h.curator.Curate(c.Request.Context(), query)
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": verr.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetListing resolves one listing by VIN across the source chain
func (h *ListingHandler) GetListing(c *gin.Context) {
	vin := c.Param("vin")

	listing, err := h.curator.ResolveByVIN(c.Request.Context(), vin)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, listing)
}

// UpdateReview applies user review annotations to a stored listing
func (h *ListingHandler) UpdateReview(c *gin.Context) {
	if !h.limiter.Allow() {
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded, try again later"})
		return
	}

	vin := source.NormalizeVIN(c.Param("vin"))

	var update models.ReviewUpdate
	if err := c.ShouldBindJSON(&update); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := update.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	listing, err := h.store.UpdateReview(vin, update)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Listing not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	h.scorer.Annotate(listing)

	// Keep the search index in step; a failed reindex never fails the update
	if h.search != nil {
		if err := h.search.IndexListing(listing); err != nil {
			log.Printf("[Review] reindex failed for vin=%s: %v", vin, err)
		}
	}

	c.JSON(http.StatusOK, listing)
}

// GetFilterOptions returns the distinct filter values of the full collection
func (h *ListingHandler) GetFilterOptions(c *gin.Context) {
	listings, degraded := h.resolver.ResolveQuery(c.Request.Context(), source.Query{})

	opts := h.curator.Filter().UniqueValues(listings)
	c.JSON(http.StatusOK, gin.H{
		"makes":    opts.Makes,
		"models":   opts.Models,
		"years":    opts.Years,
		"degraded": degraded,
	})
}

// SearchListings performs a full-text search against the search backend
func (h *ListingHandler) SearchListings(c *gin.Context) {
	if h.search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Search is not configured"})
		return
	}

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing search query parameter 'q'"})
		return
	}

	var limit int64 = 20
	if limitStr := c.Query("limit"); limitStr != "" {
		if parsed, err := strconv.ParseInt(limitStr, 10, 64); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	listings, err := h.search.Search(query, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Tiers come from the live weight table, not the indexed snapshot
	for i := range listings {
		h.scorer.Annotate(&listings[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"listings": listings,
		"count":    len(listings),
	})
}

// FilterListings performs a filtered search against the search backend,
// combining full-text matching with index-side filter expressions
func (h *ListingHandler) FilterListings(c *gin.Context) {
	if h.search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Search is not configured"})
		return
	}

	params, parseErr := searchFilterParams(c)
	if parseErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": parseErr.Error()})
		return
	}

	listings, err := h.search.FilterSearch(params)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Tiers come from the live weight table, not the indexed snapshot
	for i := range listings {
		h.scorer.Annotate(&listings[i])
	}

	c.JSON(http.StatusOK, gin.H{
		"listings": listings,
		"count":    len(listings),
	})
}

// searchFilterParams maps the filter-search query parameters onto the search
// backend's filter params. The first malformed number wins and is reported.
func searchFilterParams(c *gin.Context) (search.FilterParams, *models.ValidationError) {
	var parseErr *models.ValidationError
	params := search.FilterParams{
		Query:       strings.TrimSpace(c.Query("q")),
		QualityTier: c.Query("quality_tier"),
		SortBy:      c.Query("sort_by"),
	}
	params.MinPrice = intParam(c, "price_min", &parseErr)
	params.MaxPrice = intParam(c, "price_max", &parseErr)
	params.MaxMileage = intParam(c, "mileage_max", &parseErr)
	if makes := c.QueryArray("make"); len(makes) > 0 {
		params.Makes = makes
	}
	if limit := intParam(c, "limit", &parseErr); limit != nil && *limit > 0 {
		params.Limit = int64(*limit)
	}
	return params, parseErr
}

// GetRateLimitStats reports the review-endpoint limiter state
func (h *ListingHandler) GetRateLimitStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.limiter.GetStats())
}

// intParam parses an optional integer query parameter. The first malformed
// value wins and is reported; later ones are not parsed into the query.
func intParam(c *gin.Context, name string, parseErr **models.ValidationError) *int {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		if *parseErr == nil {
			*parseErr = models.NewValidationError(name, "must be an integer")
		}
		return nil
	}
	return &v
}
