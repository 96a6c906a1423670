package source

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"used-vehicle-portal/internal/models"
)

var errStoreDown = errors.New("connection refused")

// stubSource scripts one source's behavior and counts calls
type stubSource struct {
	name     string
	listing  *models.Listing
	listings []models.Listing
	err      error
	getCalls int
	qryCalls int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) TryGet(_ context.Context, vin string) (*models.Listing, error) {
	s.getCalls++
	if s.err != nil {
		return nil, s.err
	}
	if s.listing != nil && s.listing.VIN == vin {
		cp := *s.listing
		return &cp, nil
	}
	return nil, nil
}

func (s *stubSource) TryQuery(_ context.Context, _ Query) ([]models.Listing, error) {
	s.qryCalls++
	if s.err != nil {
		return nil, s.err
	}
	return s.listings, nil
}

func newTestResolver(sources ...Source) *Resolver {
	return NewResolver(3, time.Minute, sources...)
}

func TestResolveByVINPrimaryHit(t *testing.T) {
	primary := &stubSource{name: "primary", listing: &models.Listing{VIN: "A1"}}
	fallback := &stubSource{name: "static", listing: &models.Listing{VIN: "A1", Model: "wrong"}}
	r := newTestResolver(primary, fallback)

	got, err := r.ResolveByVIN(context.Background(), "A1")
	require.NoError(t, err)
	assert.Equal(t, "A1", got.VIN)
	assert.Empty(t, got.Model)
	assert.Zero(t, fallback.getCalls)
}

func TestResolveByVINFallsThroughOnFailure(t *testing.T) {
	primary := &stubSource{name: "primary", err: errStoreDown}
	fallback := &stubSource{name: "static", listing: &models.Listing{VIN: "A1"}}
	r := newTestResolver(primary, fallback)

	got, err := r.ResolveByVIN(context.Background(), "A1")
	require.NoError(t, err)
	assert.Equal(t, "A1", got.VIN)
}

func TestResolveByVINFallsThroughOnAbsence(t *testing.T) {
	primary := &stubSource{name: "primary"}
	fallback := &stubSource{name: "static", listing: &models.Listing{VIN: "A1"}}
	r := newTestResolver(primary, fallback)

	got, err := r.ResolveByVIN(context.Background(), "A1")
	require.NoError(t, err)
	assert.Equal(t, "A1", got.VIN)
	assert.Equal(t, 1, primary.getCalls)
}

func TestResolveByVINNormalizes(t *testing.T) {
	primary := &stubSource{name: "primary", listing: &models.Listing{VIN: "JTMW1RFV8MD030101"}}
	r := newTestResolver(primary)

	got, err := r.ResolveByVIN(context.Background(), "  jtmw1rfv8md030101 ")
	require.NoError(t, err)
	assert.Equal(t, "JTMW1RFV8MD030101", got.VIN)
}

func TestResolveByVINNotFoundAnywhere(t *testing.T) {
	r := newTestResolver(&stubSource{name: "primary"}, &stubSource{name: "static"})

	_, err := r.ResolveByVIN(context.Background(), "ZZ999")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestResolveByVINAllSourcesDown(t *testing.T) {
	r := newTestResolver(
		&stubSource{name: "primary", err: errStoreDown},
		&stubSource{name: "static", err: errStoreDown},
	)

	_, err := r.ResolveByVIN(context.Background(), "A1")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestResolveQueryFirstSourceWithData(t *testing.T) {
	primary := &stubSource{name: "primary", listings: []models.Listing{{VIN: "A1"}}}
	fallback := &stubSource{name: "static", listings: []models.Listing{{VIN: "B1"}}}
	r := newTestResolver(primary, fallback)

	got, degraded := r.ResolveQuery(context.Background(), Query{})
	assert.False(t, degraded)
	require.Len(t, got, 1)
	assert.Equal(t, "A1", got[0].VIN)
	assert.Zero(t, fallback.qryCalls)
}

func TestResolveQueryEmptyAnswerFallsThrough(t *testing.T) {
	primary := &stubSource{name: "primary"} // succeeds with no rows
	fallback := &stubSource{name: "static", listings: []models.Listing{{VIN: "B1"}}}
	r := newTestResolver(primary, fallback)

	got, degraded := r.ResolveQuery(context.Background(), Query{})
	assert.False(t, degraded)
	require.Len(t, got, 1)
	assert.Equal(t, "B1", got[0].VIN)
}

func TestResolveQueryAllEmptyIsNotDegraded(t *testing.T) {
	r := newTestResolver(&stubSource{name: "primary"}, &stubSource{name: "static"})

	got, degraded := r.ResolveQuery(context.Background(), Query{})
	assert.Empty(t, got)
	// A genuine zero-match, not a degradation
	assert.False(t, degraded)
}

func TestResolveQueryDegradedOnlyWhenAllFail(t *testing.T) {
	r := newTestResolver(
		&stubSource{name: "primary", err: errStoreDown},
		&stubSource{name: "static", err: errStoreDown},
	)

	got, degraded := r.ResolveQuery(context.Background(), Query{})
	assert.Empty(t, got)
	assert.True(t, degraded)
}

func TestResolveQueryFailedPrimaryEmptyFallbackNotDegraded(t *testing.T) {
	r := newTestResolver(
		&stubSource{name: "primary", err: errStoreDown},
		&stubSource{name: "static"},
	)

	got, degraded := r.ResolveQuery(context.Background(), Query{})
	assert.Empty(t, got)
	assert.False(t, degraded)
}

func TestBreakerSkipsFailingSource(t *testing.T) {
	primary := &stubSource{name: "primary", err: errStoreDown}
	fallback := &stubSource{name: "static", listing: &models.Listing{VIN: "A1"}}
	r := newTestResolver(primary, fallback)

	// Three failures open the primary's breaker
	for i := 0; i < 3; i++ {
		_, err := r.ResolveByVIN(context.Background(), "A1")
		require.NoError(t, err)
	}
	assert.Equal(t, 3, primary.getCalls)

	// Open breaker: the primary is no longer called at all
	_, err := r.ResolveByVIN(context.Background(), "A1")
	require.NoError(t, err)
	assert.Equal(t, 3, primary.getCalls)

	status := r.BreakerStatus()
	assert.Equal(t, true, status["primary"]["open"])
	assert.Equal(t, false, status["static"]["open"])
}

func TestResolveByVINContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := newTestResolver(&stubSource{name: "primary", listing: &models.Listing{VIN: "A1"}})

	_, err := r.ResolveByVIN(ctx, "A1")
	assert.ErrorIs(t, err, context.Canceled)
}
