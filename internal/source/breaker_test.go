package source

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBreakerOpensAtThreshold(t *testing.T) {
	b := NewBreaker("primary", 3, time.Minute)

	b.RecordFailure()
	b.RecordFailure()
	assert.True(t, b.CanProceed())

	b.RecordFailure()
	assert.False(t, b.CanProceed())

	open, failures, attempts := b.Status()
	assert.True(t, open)
	assert.Equal(t, 3, failures)
	assert.Equal(t, 3, attempts)
}

func TestBreakerSuccessResetsStreak(t *testing.T) {
	b := NewBreaker("primary", 3, time.Minute)

	b.RecordFailure()
	b.RecordFailure()
	b.RecordSuccess()
	b.RecordFailure()
	b.RecordFailure()
	// Interleaved successes keep the streak below the threshold
	assert.True(t, b.CanProceed())
}

func TestBreakerHalfOpenProbeAndRecovery(t *testing.T) {
	b := NewBreaker("primary", 1, 10*time.Millisecond)

	b.RecordFailure()
	assert.False(t, b.CanProceed())

	// After the reset timeout one probe is allowed through
	time.Sleep(20 * time.Millisecond)
	assert.True(t, b.CanProceed())

	b.RecordSuccess()
	assert.True(t, b.CanProceed())
	open, _, _ := b.Status()
	assert.False(t, open)
}

func TestBreakerReopensOnFailedProbe(t *testing.T) {
	b := NewBreaker("primary", 1, 10*time.Millisecond)

	b.RecordFailure()
	time.Sleep(20 * time.Millisecond)
	assert.True(t, b.CanProceed())

	// The probe fails: closed again only after another full timeout
	b.RecordFailure()
	assert.False(t, b.CanProceed())
}
