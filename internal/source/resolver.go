package source

import (
	"context"
	"log"
	"strings"
	"time"

	"used-vehicle-portal/internal/models"
)

// Query carries the predicates a source may apply at its own query layer.
// Sources without that capability filter client-side; either way the result
// set is the same.
type Query struct {
	Make  string
	Model string
}

// Source is one backing data provider in the fallback chain. TryGet returns
// (nil, nil) when the VIN is simply absent; an error means the source
// itself failed.
type Source interface {
	Name() string
	TryGet(ctx context.Context, vin string) (*models.Listing, error)
	TryQuery(ctx context.Context, q Query) ([]models.Listing, error)
}

// Resolver tries an ordered list of sources and returns the first usable
// result. Source failures are logged and recovered by falling through to
// the next source, never propagated; a failing source is skipped for a
// while by its circuit breaker.
type Resolver struct {
	sources  []Source
	breakers map[string]*Breaker
}

// NewResolver creates a resolver over sources in priority order
func NewResolver(failureThreshold int, resetTimeout time.Duration, sources ...Source) *Resolver {
	breakers := make(map[string]*Breaker, len(sources))
	for _, s := range sources {
		breakers[s.Name()] = NewBreaker(s.Name(), failureThreshold, resetTimeout)
	}
	return &Resolver{sources: sources, breakers: breakers}
}

// NormalizeVIN uppercases and trims a VIN so lookups are case-insensitive
// at every source boundary.
func NormalizeVIN(vin string) string {
	return strings.ToUpper(strings.TrimSpace(vin))
}

// ResolveByVIN looks a VIN up across the source chain. A VIN present in no
// source yields models.ErrNotFound; so does every source being down.
func (r *Resolver) ResolveByVIN(ctx context.Context, vin string) (*models.Listing, error) {
	vin = NormalizeVIN(vin)

	for _, src := range r.sources {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		breaker := r.breakers[src.Name()]
		if !breaker.CanProceed() {
			log.Printf("[Resolver] source=%s skipped (breaker open) vin=%s", src.Name(), vin)
			continue
		}

		listing, err := src.TryGet(ctx, vin)
		if err != nil {
			breaker.RecordFailure()
			log.Printf("[Resolver] source=%s vin=%s failed: %v, trying next", src.Name(), vin, err)
			continue
		}
		breaker.RecordSuccess()
		if listing == nil {
			// Not in this source, try the next one
			continue
		}
		return listing, nil
	}

	return nil, models.ErrNotFound
}

// ResolveQuery resolves a listing collection from the first source that
// answers with data. Empty answers fall through to the next source like
// failures do. The second return is the degraded flag: true means every
// source failed outright, so the empty result must not be presented as a
// clean zero-match.
func (r *Resolver) ResolveQuery(ctx context.Context, q Query) ([]models.Listing, bool) {
	anySucceeded := false

	for _, src := range r.sources {
		if ctx.Err() != nil {
			return nil, !anySucceeded
		}
		breaker := r.breakers[src.Name()]
		if !breaker.CanProceed() {
			log.Printf("[Resolver] source=%s skipped (breaker open)", src.Name())
			continue
		}

		listings, err := src.TryQuery(ctx, q)
		if err != nil {
			breaker.RecordFailure()
			log.Printf("[Resolver] source=%s query failed: %v, trying next", src.Name(), err)
			continue
		}
		breaker.RecordSuccess()
		anySucceeded = true
		if len(listings) == 0 {
			// This source has nothing for the query, a lower-priority one may
			continue
		}
		return listings, false
	}

	if !anySucceeded {
		log.Printf("[Resolver] all sources failed, returning degraded empty result")
	}
	return nil, !anySucceeded
}

// BreakerStatus reports each source's breaker state for the admin surface
func (r *Resolver) BreakerStatus() map[string]map[string]interface{} {
	status := make(map[string]map[string]interface{}, len(r.sources))
	for _, src := range r.sources {
		open, failures, attempts := r.breakers[src.Name()].Status()
		status[src.Name()] = map[string]interface{}{
			"open":     open,
			"failures": failures,
			"attempts": attempts,
		}
	}
	return status
}
