package ratelimit

import (
	"sync"
	"time"
)

// Limiter enforces sliding-window limits on the mutating endpoints, mainly
// the review updates. Two windows: per minute and per hour. A zero limit on
// the hour window disables it.
type Limiter struct {
	perMinute int
	perHour   int
	enabled   bool

	minuteWindow []time.Time
	hourWindow   []time.Time
	mu           sync.Mutex

	// now is swapped out in tests
	now func() time.Time
}

// NewLimiter creates a limiter with the given window limits
func NewLimiter(perMinute, perHour int, enabled bool) *Limiter {
	return &Limiter{
		perMinute: perMinute,
		perHour:   perHour,
		enabled:   enabled,
		now:       time.Now,
	}
}

// Allow reports whether one more request fits the windows, recording it if
// so. A disabled limiter always allows.
func (l *Limiter) Allow() bool {
	if !l.enabled {
		return true
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.expire(now)

	if l.perMinute > 0 && len(l.minuteWindow) >= l.perMinute {
		return false
	}
	if l.perHour > 0 && len(l.hourWindow) >= l.perHour {
		return false
	}

	l.minuteWindow = append(l.minuteWindow, now)
	l.hourWindow = append(l.hourWindow, now)
	return true
}

// expire drops window entries older than their window
func (l *Limiter) expire(now time.Time) {
	l.minuteWindow = keepAfter(l.minuteWindow, now.Add(-time.Minute))
	l.hourWindow = keepAfter(l.hourWindow, now.Add(-time.Hour))
}

func keepAfter(times []time.Time, cutoff time.Time) []time.Time {
	kept := times[:0]
	for _, t := range times {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// Stats is the limiter state reported on the admin surface
type Stats struct {
	Enabled             bool `json:"enabled"`
	RequestsLastMinute  int  `json:"requests_last_minute"`
	RequestsLastHour    int  `json:"requests_last_hour"`
	LimitPerMinute      int  `json:"limit_per_minute"`
	LimitPerHour        int  `json:"limit_per_hour"`
	RemainingThisMinute int  `json:"remaining_this_minute"`
	RemainingThisHour   int  `json:"remaining_this_hour"`
}

// GetStats returns the current window occupancy
func (l *Limiter) GetStats() Stats {
	if !l.enabled {
		return Stats{Enabled: false}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.expire(l.now())
	return Stats{
		Enabled:             true,
		RequestsLastMinute:  len(l.minuteWindow),
		RequestsLastHour:    len(l.hourWindow),
		LimitPerMinute:      l.perMinute,
		LimitPerHour:        l.perHour,
		RemainingThisMinute: remaining(l.perMinute, len(l.minuteWindow)),
		RemainingThisHour:   remaining(l.perHour, len(l.hourWindow)),
	}
}

// Reset clears both windows
func (l *Limiter) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.minuteWindow = nil
	l.hourWindow = nil
}

func remaining(limit, used int) int {
	if limit <= 0 {
		return 0
	}
	if used >= limit {
		return 0
	}
	return limit - used
}
