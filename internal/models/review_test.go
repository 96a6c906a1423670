package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(v bool) *bool    { return &v }
func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestReviewUpdateValidate(t *testing.T) {
	cases := []struct {
		name   string
		update ReviewUpdate
		field  string // empty means valid
	}{
		{"all fields", ReviewUpdate{ReviewedByUser: boolPtr(true), UserRating: intPtr(4), UserNotes: strPtr("solid")}, ""},
		{"only reviewed", ReviewUpdate{ReviewedByUser: boolPtr(false)}, ""},
		{"only notes", ReviewUpdate{UserNotes: strPtr("")}, ""},
		{"rating bounds low", ReviewUpdate{UserRating: intPtr(1)}, ""},
		{"rating bounds high", ReviewUpdate{UserRating: intPtr(5)}, ""},
		{"empty update", ReviewUpdate{}, "review"},
		{"rating zero", ReviewUpdate{UserRating: intPtr(0)}, "user_rating"},
		{"rating six", ReviewUpdate{UserRating: intPtr(6)}, "user_rating"},
		{"rating negative", ReviewUpdate{UserRating: intPtr(-3)}, "user_rating"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.update.Validate()
			if tc.field == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestReviewUpdateApplyTo(t *testing.T) {
	l := Listing{VIN: "A1", UserNotes: "keep this", UserRating: intPtr(2)}

	update := ReviewUpdate{ReviewedByUser: boolPtr(true), UserRating: intPtr(4)}
	update.ApplyTo(&l)

	assert.True(t, l.ReviewedByUser)
	require.NotNil(t, l.UserRating)
	assert.Equal(t, 4, *l.UserRating)
	// Nil fields never touch the listing
	assert.Equal(t, "keep this", l.UserNotes)
}

func TestInRustBelt(t *testing.T) {
	assert.True(t, InRustBelt("OH"))
	assert.True(t, InRustBelt("MI"))
	assert.False(t, InRustBelt("CO"))
	assert.False(t, InRustBelt("FL"))
	assert.False(t, InRustBelt(""))
}
