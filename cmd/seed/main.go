package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"used-vehicle-portal/internal/config"
	"used-vehicle-portal/internal/database"
	"used-vehicle-portal/internal/scoring"
	"used-vehicle-portal/internal/search"
	"used-vehicle-portal/internal/source"
)

// Seeds the primary store (and optionally the search index) from a static
// dataset file, scoring each listing on the way in. With no -dataset flag
// the built-in dataset is used.
func main() {
	datasetPath := flag.String("dataset", "", "path to a JSON dataset file (empty = built-in dataset)")
	withIndex := flag.Bool("index", false, "also push the seeded listings into the search index")
	flag.Parse()

	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}

	configPath := getEnv("CONFIG_PATH", "/app/config/portal_config.yaml")
	appConfig, err := config.LoadConfig(configPath)
	if err != nil {
		log.Printf("Warning: Failed to load config from %s: %v. Using defaults.", configPath, err)
		appConfig = config.DefaultConfig()
	}

	staticSource, err := source.NewStaticSourceFromFile(*datasetPath)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}
	log.Printf("Loaded %d records", len(staticSource.Records()))

	primaryCfg := appConfig.Database.Primary
	store, err := database.NewGormStore(
		getEnvOrConfig(primaryCfg.Host, "DB_HOST", "mysql"),
		getEnvOrConfig(portString(primaryCfg.Port), "DB_PORT", "3306"),
		getEnvOrConfig(primaryCfg.User, "DB_USER", "vehicle_user"),
		getEnvOrConfig(primaryCfg.Password, "DB_PASSWORD", "vehicle_pass"),
		getEnvOrConfig(primaryCfg.Database, "DB_NAME", "vehicle_db"),
	)
	if err != nil {
		log.Fatalf("Failed to connect to primary store: %v", err)
	}
	defer store.Close()

	if err := store.InitSchema(); err != nil {
		log.Fatalf("Failed to initialize schema: %v", err)
	}

	scorer := scoring.NewEngine(appConfig.Scoring)

	// Resolve through the source so the records get the same normalization
	// the API applies (uppercased VINs, derived rust-belt flag, timestamps)
	listings, err := staticSource.TryQuery(context.Background(), source.Query{})
	if err != nil {
		log.Fatalf("Failed to read dataset: %v", err)
	}

	saved := 0
	for i := range listings {
		scorer.Annotate(&listings[i])
		if err := store.SaveListing(&listings[i]); err != nil {
			log.Printf("Failed to save %s: %v", listings[i].VIN, err)
			continue
		}
		saved++
	}
	log.Printf("Seeded %d/%d listings", saved, len(listings))

	if *withIndex {
		searchClient := search.NewSearchClient(
			getEnvOrConfig(appConfig.Search.Meilisearch.Host, "MEILISEARCH_HOST", "http://meilisearch:7700"),
			getEnvOrConfig(appConfig.Search.Meilisearch.APIKey, "MEILISEARCH_KEY", "masterKey123"),
		)
		if err := searchClient.InitIndex(); err != nil {
			log.Fatalf("Failed to initialize search index: %v", err)
		}
		if err := searchClient.IndexListings(listings); err != nil {
			log.Fatalf("Failed to index listings: %v", err)
		}
		log.Printf("Indexed %d listings", len(listings))
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrConfig(configValue, envKey, defaultValue string) string {
	if configValue != "" {
		return configValue
	}
	return getEnv(envKey, defaultValue)
}

func portString(port int) string {
	if port > 0 {
		return fmt.Sprintf("%d", port)
	}
	return ""
}
