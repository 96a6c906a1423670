package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"used-vehicle-portal/internal/config"
	"used-vehicle-portal/internal/curation"
	"used-vehicle-portal/internal/database"
	"used-vehicle-portal/internal/handlers"
	"used-vehicle-portal/internal/ratelimit"
	"used-vehicle-portal/internal/scheduler"
	"used-vehicle-portal/internal/scoring"
	"used-vehicle-portal/internal/search"
	"used-vehicle-portal/internal/source"
)

func main() {
	// .env is optional; real deployments set the environment directly
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	configPath := getEnv("CONFIG_PATH", "/app/config/portal_config.yaml")
	appConfig, err := config.LoadConfig(configPath)
	if err != nil {
		log.Printf("Warning: Failed to load config from %s: %v. Using defaults.", configPath, err)
		appConfig = config.DefaultConfig()
	} else {
		log.Printf("Loaded configuration from %s", configPath)
	}

	// Primary store (MySQL). The portal cannot run without it: reviews and
	// the refresh job write here.
	primaryCfg := appConfig.Database.Primary
	primaryStore, err := database.NewGormStore(
		getEnvOrConfig(primaryCfg.Host, "DB_HOST", "mysql"),
		getEnvOrConfig(portString(primaryCfg.Port), "DB_PORT", "3306"),
		getEnvOrConfig(primaryCfg.User, "DB_USER", "vehicle_user"),
		getEnvOrConfig(primaryCfg.Password, "DB_PASSWORD", "vehicle_pass"),
		getEnvOrConfig(primaryCfg.Database, "DB_NAME", "vehicle_db"),
	)
	if err != nil {
		log.Fatalf("Failed to connect to primary store: %v", err)
	}
	defer primaryStore.Close()

	if err := primaryStore.InitSchema(); err != nil {
		log.Fatalf("Failed to initialize primary schema: %v", err)
	}

	// Legacy store (PostgreSQL). Optional: when it is down the resolver
	// falls through to the static dataset, so startup continues.
	var legacyStore *database.LegacyStore
	if appConfig.Database.Legacy.Enabled {
		legacyCfg := appConfig.Database.Legacy
		legacyStore, err = database.NewLegacyStore(
			getEnvOrConfig(legacyCfg.Host, "LEGACY_DB_HOST", "postgres"),
			getEnvOrConfig(portString(legacyCfg.Port), "LEGACY_DB_PORT", "5432"),
			getEnvOrConfig(legacyCfg.User, "LEGACY_DB_USER", "vehicle_user"),
			getEnvOrConfig(legacyCfg.Password, "LEGACY_DB_PASSWORD", "vehicle_pass"),
			getEnvOrConfig(legacyCfg.Database, "LEGACY_DB_NAME", "vehicle_legacy_db"),
			legacyCfg.SSLMode,
		)
		if err != nil {
			log.Printf("Warning: legacy store unavailable: %v. Continuing without it.", err)
			legacyStore = nil
		} else {
			defer legacyStore.Close()
		}
	}

	// Static fallback dataset, always present as the last source
	staticSource, err := source.NewStaticSourceFromFile(appConfig.Database.Static.DatasetPath)
	if err != nil {
		log.Fatalf("Failed to load static dataset: %v", err)
	}

	// Source chain in priority order: primary, legacy, static
	sources := []source.Source{source.NewPrimarySource(primaryStore)}
	if legacyStore != nil {
		sources = append(sources, source.NewLegacySource(legacyStore))
	}
	sources = append(sources, staticSource)

	resolver := source.NewResolver(
		appConfig.Curation.BreakerFailureThreshold,
		time.Duration(appConfig.Curation.BreakerResetSeconds)*time.Second,
		sources...,
	)
	log.Printf("Source resolver initialized with %d sources", len(sources))

	scorer := scoring.NewEngine(appConfig.Scoring)
	curator := curation.NewCurator(resolver, scorer, curation.CuratorOptions{
		DefaultPageSize:   appConfig.Curation.DefaultPageSize,
		MaxPageSize:       appConfig.Curation.MaxPageSize,
		MaxVisibleButtons: appConfig.Curation.MaxVisiblePageButtons,
	})

	// Meilisearch. The portal works without it; only the full-text search
	// endpoints degrade.
	meilisearchHost := getEnvOrConfig(appConfig.Search.Meilisearch.Host, "MEILISEARCH_HOST", "http://meilisearch:7700")
	meilisearchKey := getEnvOrConfig(appConfig.Search.Meilisearch.APIKey, "MEILISEARCH_KEY", "masterKey123")
	searchClient := search.NewSearchClient(meilisearchHost, meilisearchKey)
	if err := searchClient.InitIndex(); err != nil {
		log.Printf("Warning: Failed to initialize search index: %v", err)
	}

	rateLimiter := ratelimit.NewLimiter(
		appConfig.RateLimit.RequestsPerMinute,
		appConfig.RateLimit.RequestsPerHour,
		appConfig.RateLimit.Enabled,
	)
	log.Printf("Rate limiter initialized: %d req/min, %d req/hour (enabled: %v)",
		appConfig.RateLimit.RequestsPerMinute,
		appConfig.RateLimit.RequestsPerHour,
		appConfig.RateLimit.Enabled)

	appScheduler := scheduler.NewScheduler(primaryStore, scorer, searchClient, appConfig)
	if err := appScheduler.Start(); err != nil {
		log.Printf("Warning: Failed to start scheduler: %v", err)
	}
	defer appScheduler.Stop()

	listingHandler := handlers.NewListingHandler(curator, resolver, primaryStore, scorer, searchClient, rateLimiter)
	adminHandler := handlers.NewAdminHandler(primaryStore, scorer, resolver, appScheduler, searchClient)

	// Setup Gin router
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{getEnv("FRONTEND_ORIGIN", "http://localhost:5173")},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		AllowCredentials: true,
	}))

	// Routes
	r.GET("/health", healthCheck)
	r.GET("/api/listings", listingHandler.GetListings)
	r.GET("/api/listings/:vin", listingHandler.GetListing)
	r.PUT("/api/listings/:vin/review", listingHandler.UpdateReview)
	r.GET("/api/filter-options", listingHandler.GetFilterOptions)
	r.GET("/api/search", listingHandler.SearchListings)
	r.GET("/api/search/filter", listingHandler.FilterListings)

	// Rate limiter stats endpoint
	r.GET("/api/ratelimit/stats", listingHandler.GetRateLimitStats)

	// Admin API routes (requires authentication in production)
	admin := r.Group("/api/admin")
	{
		admin.GET("/stats", adminHandler.GetStats)
		admin.GET("/price-distribution", adminHandler.GetPriceDistribution)
		admin.GET("/sources/status", adminHandler.GetSourceStatus)
		admin.POST("/refresh/trigger", adminHandler.TriggerRefresh)
		admin.POST("/search/reindex", adminHandler.ReindexAll)
	}
	log.Println("Admin API routes registered at /api/admin/*")

	port := getEnv("PORT", "8084")
	log.Printf("Server starting on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now(),
	})
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvOrConfig returns config value if set, otherwise falls back to environment variable, then default
func getEnvOrConfig(configValue, envKey, defaultValue string) string {
	if configValue != "" {
		return configValue
	}
	return getEnv(envKey, defaultValue)
}

// portString renders a port for the connection helpers, treating 0 as unset
func portString(port int) string {
	if port > 0 {
		return fmt.Sprintf("%d", port)
	}
	return ""
}
