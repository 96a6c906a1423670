package models

// ReviewUpdate is a partial update of the user annotation fields, keyed by
// VIN at the call site. Nil fields are left untouched.
type ReviewUpdate struct {
	ReviewedByUser *bool   `json:"reviewed_by_user"`
	UserRating     *int    `json:"user_rating"`
	UserNotes      *string `json:"user_notes"`
}

// Validate rejects an empty update and an out-of-range rating. User input
// errors are rejected, not clamped.
func (u *ReviewUpdate) Validate() error {
	if u.ReviewedByUser == nil && u.UserRating == nil && u.UserNotes == nil {
		return NewValidationError("review", "at least one field must be supplied")
	}
	if u.UserRating != nil && (*u.UserRating < 1 || *u.UserRating > 5) {
		return NewValidationError("user_rating", "must be between 1 and 5")
	}
	return nil
}

// ApplyTo copies the supplied fields onto a listing
func (u *ReviewUpdate) ApplyTo(l *Listing) {
	if u.ReviewedByUser != nil {
		l.ReviewedByUser = *u.ReviewedByUser
	}
	if u.UserRating != nil {
		l.UserRating = u.UserRating
	}
	if u.UserNotes != nil {
		l.UserNotes = *u.UserNotes
	}
}
