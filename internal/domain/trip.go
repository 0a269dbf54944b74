// Package domain contains the core data types for the trip planner.
// It depends only on uuid and the standard library and is imported by every
// other internal package (repo, service, handler, itinerary, vote, store).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultCurrency is applied to trips created without an explicit currency.
const DefaultCurrency = "USD"

// Trip is the top-level aggregate; activities and members belong to a trip.
// StartDate and EndDate are calendar dates stored at UTC midnight.
type Trip struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	Destination   string    `json:"destination"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
	CoverImageURL string    `json:"cover_image_url,omitempty"`
	Budget        *float64  `json:"total_budget,omitempty"` // nil when no budget is set
	Currency      string    `json:"currency"`
	CreatorID     uuid.UUID `json:"creator_id"`
	TripCode      string    `json:"trip_code"`
	IsArchived    bool      `json:"is_archived"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Contains reports whether the calendar date of d lies within the trip.
func (t Trip) Contains(d time.Time) bool {
	day := DateOf(d)
	return !day.Before(DateOf(t.StartDate)) && !day.After(DateOf(t.EndDate))
}

// DateOf truncates t to its calendar date at UTC midnight. The year, month,
// and day are taken from t's own location so "2025-07-16" stays the 16th.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"
