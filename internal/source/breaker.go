package source

import (
	"log"
	"sync"
	"time"
)

// Breaker stops the resolver from hammering a backing store that keeps
// failing. After enough consecutive failures the source is skipped until
// the reset timeout passes, then probed again.
type Breaker struct {
	source           string
	failureThreshold int
	resetTimeout     time.Duration

	consecutiveFailures int
	totalFailures       int
	totalAttempts       int
	isOpen              bool
	lastFailureTime     time.Time

	mu sync.Mutex
}

// NewBreaker creates a breaker for the named source
func NewBreaker(source string, failureThreshold int, resetTimeout time.Duration) *Breaker {
	return &Breaker{
		source:           source,
		failureThreshold: failureThreshold,
		resetTimeout:     resetTimeout,
	}
}

// RecordSuccess records a successful call and closes a half-open breaker
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.totalAttempts++
	b.consecutiveFailures = 0
	if b.isOpen {
		b.isOpen = false
		log.Printf("[Breaker] source=%s recovered, breaker closed", b.source)
	}
}

// RecordFailure records a failed call and opens the breaker once the
// consecutive-failure threshold is reached.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.totalAttempts++
	b.totalFailures++
	b.consecutiveFailures++
	b.lastFailureTime = time.Now()

	if !b.isOpen && b.consecutiveFailures >= b.failureThreshold {
		b.isOpen = true
		log.Printf("[Breaker] source=%s OPEN after %d consecutive failures, resuming in %v",
			b.source, b.consecutiveFailures, b.resetTimeout)
	}
}

// CanProceed checks whether a call to the source is allowed. An open breaker
// goes half-open after the reset timeout: one probe call is let through.
func (b *Breaker) CanProceed() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.isOpen {
		return true
	}

	if time.Since(b.lastFailureTime) > b.resetTimeout {
		log.Printf("[Breaker] source=%s half-open, probing", b.source)
		return true
	}
	return false
}

// Status returns the current breaker state for the admin surface
func (b *Breaker) Status() (isOpen bool, failures int, attempts int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.isOpen, b.totalFailures, b.totalAttempts
}
