package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"used-vehicle-portal/internal/models"
)

var fixedNow = time.Date(2026, time.June, 1, 9, 0, 0, 0, time.UTC)

func testStaticSource(records ...StaticRecord) *StaticSource {
	s := NewStaticSource(records)
	s.Now = func() time.Time { return fixedNow }
	return s
}

func TestStaticTryGetSynthesizesTimestamps(t *testing.T) {
	s := testStaticSource(StaticRecord{
		VIN: "2T3P1RFV8MW149833", Make: "Toyota", Model: "RAV4", Year: 2021,
		Price: 25900, Miles: 31200, Title: "clean", State: "CO",
	})

	got, err := s.TryGet(context.Background(), "2T3P1RFV8MW149833")
	require.NoError(t, err)
	require.NotNil(t, got)
	// The dataset stores no timestamps: they come from the clock
	assert.Equal(t, fixedNow, got.FirstSeenAt)
	assert.Equal(t, fixedNow, got.LastUpdatedAt)
	assert.Equal(t, fixedNow, got.CreatedAt)
}

func TestStaticTryGetCaseInsensitive(t *testing.T) {
	s := testStaticSource(StaticRecord{VIN: "2T3P1RFV8MW149833", Make: "Toyota", Model: "RAV4"})

	got, err := s.TryGet(context.Background(), "2t3p1rfv8mw149833")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2T3P1RFV8MW149833", got.VIN)
}

func TestStaticTryGetAbsent(t *testing.T) {
	s := testStaticSource()

	got, err := s.TryGet(context.Background(), "ZZ999")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStaticNormalizeDerivesRustBelt(t *testing.T) {
	s := testStaticSource(
		StaticRecord{VIN: "OHIO1", Make: "Honda", Model: "Civic", State: "OH"},
		StaticRecord{VIN: "TEXAS1", Make: "Honda", Model: "Civic", State: "TX"},
	)

	ohio, err := s.TryGet(context.Background(), "OHIO1")
	require.NoError(t, err)
	assert.True(t, ohio.IsRustBeltState)

	texas, err := s.TryGet(context.Background(), "TEXAS1")
	require.NoError(t, err)
	assert.False(t, texas.IsRustBeltState)
}

func TestStaticTryQueryFiltersClientSide(t *testing.T) {
	s := testStaticSource(
		StaticRecord{VIN: "T1", Make: "Toyota", Model: "RAV4"},
		StaticRecord{VIN: "T2", Make: "Toyota", Model: "Camry"},
		StaticRecord{VIN: "H1", Make: "Honda", Model: "CR-V"},
	)

	all, err := s.TryQuery(context.Background(), Query{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	toyotas, err := s.TryQuery(context.Background(), Query{Make: "toyota"})
	require.NoError(t, err)
	require.Len(t, toyotas, 2)
	assert.Equal(t, "T1", toyotas[0].VIN)

	rav4, err := s.TryQuery(context.Background(), Query{Make: "Toyota", Model: "rav4"})
	require.NoError(t, err)
	require.Len(t, rav4, 1)
	assert.Equal(t, models.Make("Toyota"), rav4[0].Make)
}

func TestStaticFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dataset.json")
	payload := `[{"vin":"2T3P1RFV8MW149833","make":"Toyota","model":"RAV4","year":2021,"asking_price":25900,"miles":31200,"title":"clean","state":"CO"}]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	s, err := NewStaticSourceFromFile(path)
	require.NoError(t, err)
	assert.Len(t, s.Records(), 1)

	got, err := s.TryGet(context.Background(), "2T3P1RFV8MW149833")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, 25900, got.Price)
	assert.Equal(t, 31200, got.Mileage)
}

func TestStaticFromFileEmptyPathUsesBuiltin(t *testing.T) {
	s, err := NewStaticSourceFromFile("")
	require.NoError(t, err)
	assert.NotEmpty(t, s.Records())
}

func TestStaticFromFileErrors(t *testing.T) {
	_, err := NewStaticSourceFromFile("/nonexistent/dataset.json")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err = NewStaticSourceFromFile(path)
	assert.Error(t, err)
}
