package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"used-vehicle-portal/internal/database"
	"used-vehicle-portal/internal/models"
	"used-vehicle-portal/internal/scheduler"
	"used-vehicle-portal/internal/scoring"
	"used-vehicle-portal/internal/search"
	"used-vehicle-portal/internal/source"
)

// AdminHandler handles admin-related requests
type AdminHandler struct {
	store     *database.GormStore
	scorer    *scoring.Engine
	resolver  *source.Resolver
	scheduler *scheduler.Scheduler
	search    *search.SearchClient
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(store *database.GormStore, scorer *scoring.Engine, resolver *source.Resolver,
	sched *scheduler.Scheduler, searchClient *search.SearchClient) *AdminHandler {
	return &AdminHandler{
		store:     store,
		scorer:    scorer,
		resolver:  resolver,
		scheduler: sched,
		search:    searchClient,
	}
}

// GetStats returns system statistics
func (h *AdminHandler) GetStats(c *gin.Context) {
	stats := make(map[string]interface{})

	listings, err := h.store.GetAllListings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Tier distribution over current scores
	tierCounts := map[models.QualityTier]int{}
	for i := range listings {
		tierCounts[h.scorer.TierFor(h.scorer.Score(&listings[i]))]++
	}
	stats["tiers"] = map[string]interface{}{
		"top_pick": tierCounts[models.TierTopPick],
		"good_buy": tierCounts[models.TierGoodBuy],
		"caution":  tierCounts[models.TierCaution],
		"total":    len(listings),
	}

	makeCounts, err := h.store.CountByMake()
	if err != nil {
		log.Printf("Failed to count listings by make: %v", err)
	} else {
		stats["makes"] = makeCounts
	}

	reviewed, err := h.store.CountReviewed()
	if err != nil {
		log.Printf("Failed to count reviewed listings: %v", err)
	} else {
		stats["reviews"] = map[string]interface{}{
			"reviewed": reviewed,
			"total":    len(listings),
		}
	}

	c.JSON(http.StatusOK, stats)
}

// GetPriceDistribution returns listing counts per price band
func (h *AdminHandler) GetPriceDistribution(c *gin.Context) {
	type PriceRange struct {
		RangeLabel string `json:"range_label"`
		Count      int    `json:"count"`
	}

	ranges := []struct {
		label    string
		min, max int
	}{
		{"Under $10k", 0, 10000},
		{"$10k-$15k", 10000, 15000},
		{"$15k-$20k", 15000, 20000},
		{"$20k-$25k", 20000, 25000},
		{"$25k-$30k", 25000, 30000},
		{"$30k-$40k", 30000, 40000},
		{"Over $40k", 40000, 1 << 31},
	}

	listings, err := h.store.GetAllListings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	distribution := make([]PriceRange, len(ranges))
	for i, r := range ranges {
		distribution[i].RangeLabel = r.label
		for j := range listings {
			if listings[j].Price >= r.min && listings[j].Price < r.max {
				distribution[i].Count++
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"distribution": distribution,
		"total":        len(listings),
	})
}

// GetSourceStatus reports the circuit breaker state of every source
func (h *AdminHandler) GetSourceStatus(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"sources": h.resolver.BreakerStatus(),
	})
}

// TriggerRefresh manually triggers the rescoring/reindex job
func (h *AdminHandler) TriggerRefresh(c *gin.Context) {
	if h.scheduler == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error": "Scheduler not available",
		})
		return
	}

	log.Println("Admin: Manual refresh trigger requested")

	// Run in goroutine to avoid blocking
	go func() {
		if err := h.scheduler.RunNow(); err != nil {
			log.Printf("Admin: Manual refresh failed: %v", err)
		} else {
			log.Println("Admin: Manual refresh completed successfully")
		}
	}()

	c.JSON(http.StatusAccepted, gin.H{
		"message": "Refresh job started",
		"status":  "running",
	})
}

// ReindexAll pushes every stored listing into the search index
func (h *AdminHandler) ReindexAll(c *gin.Context) {
	if h.search == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Search is not configured"})
		return
	}

	listings, err := h.store.GetAllListings()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	for i := range listings {
		h.scorer.Annotate(&listings[i])
	}

	if err := h.search.IndexListings(listings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reindex completed",
		"count":   len(listings),
	})
}
