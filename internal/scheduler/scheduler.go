package scheduler

import (
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"used-vehicle-portal/internal/config"
	"used-vehicle-portal/internal/database"
	"used-vehicle-portal/internal/scoring"
	"used-vehicle-portal/internal/search"
)

// Scheduler runs the daily refresh: every stored listing is rescored with
// the current weight table and pushed back into the search index. The job
// exists because weight changes and vehicle aging both shift scores without
// any write to the listing itself.
type Scheduler struct {
	cron      *cron.Cron
	store     *database.GormStore
	scorer    *scoring.Engine
	search    *search.SearchClient
	config    *config.Config
	isRunning bool
}

// NewScheduler creates a new scheduler. The search client may be nil when
// search is not configured; the job then only rescores.
func NewScheduler(store *database.GormStore, scorer *scoring.Engine, searchClient *search.SearchClient, cfg *config.Config) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		store:  store,
		scorer: scorer,
		search: searchClient,
		config: cfg,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	if !s.config.Refresh.Enabled {
		log.Println("Scheduler: Daily refresh is disabled in configuration")
		return nil
	}

	cronSpec := s.parseDailyRunTime(s.config.Refresh.DailyTime)

	_, err := s.cron.AddFunc(cronSpec, func() {
		log.Println("Scheduler: Starting daily refresh job...")
		if err := s.runRefresh(); err != nil {
			log.Printf("Scheduler: Daily refresh failed: %v", err)
		} else {
			log.Println("Scheduler: Daily refresh completed successfully")
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.isRunning = true
	log.Printf("Scheduler: Started with daily refresh at %s (cron: %s)", s.config.Refresh.DailyTime, cronSpec)

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	if s.isRunning {
		s.cron.Stop()
		s.isRunning = false
		log.Println("Scheduler: Stopped")
	}
}

// runRefresh rescores every stored listing and reindexes the collection
func (s *Scheduler) runRefresh() error {
	listings, err := s.store.GetAllListings()
	if err != nil {
		return err
	}

	log.Printf("Scheduler: Found %d listings to refresh", len(listings))

	successCount := 0
	errorCount := 0
	changedCount := 0

	for i := range listings {
		previous := listings[i].PriorityScore
		s.scorer.Annotate(&listings[i])

		if listings[i].PriorityScore != previous {
			changedCount++
		}

		if err := s.store.SaveListing(&listings[i]); err != nil {
			log.Printf("Scheduler: Failed to save listing %s: %v", listings[i].VIN, err)
			errorCount++
			continue
		}
		successCount++
	}

	if s.search != nil {
		if err := s.search.IndexListings(listings); err != nil {
			log.Printf("Scheduler: Failed to reindex listings: %v", err)
		}
	}

	log.Printf("Scheduler: Daily refresh completed. Success: %d, Errors: %d, Score changes: %d",
		successCount, errorCount, changedCount)

	return nil
}

// RunNow immediately executes the refresh job (for manual trigger)
func (s *Scheduler) RunNow() error {
	log.Println("Scheduler: Manual trigger - starting refresh job...")
	return s.runRefresh()
}

// parseDailyRunTime converts HH:MM format to cron specification
// Example: "03:30" -> "30 3 * * *" (run at 3:30 AM every day)
func (s *Scheduler) parseDailyRunTime(timeStr string) string {
	var hour, minute int
	n, _ := fmt.Sscanf(timeStr, "%d:%d", &hour, &minute)
	if n == 2 {
		return fmt.Sprintf("%d %d * * *", minute, hour)
	}

	// Default to 3:30 AM if parsing fails
	log.Printf("Scheduler: Failed to parse time '%s', using default 03:30", timeStr)
	return "30 3 * * *"
}
