package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category classifies an activity. The set is closed; use ParseCategory to
// convert untrusted input.
type Category string

const (
	CategorySightseeing    Category = "sightseeing"
	CategoryFood           Category = "food"
	CategoryAdventure      Category = "adventure"
	CategoryRelaxation     Category = "relaxation"
	CategoryCulture        Category = "culture"
	CategoryShopping       Category = "shopping"
	CategoryNightlife      Category = "nightlife"
	CategoryTransportation Category = "transportation"
)

// Categories lists every valid Category in display order.
func Categories() []Category {
	return []Category{
		CategorySightseeing,
		CategoryFood,
		CategoryAdventure,
		CategoryRelaxation,
		CategoryCulture,
		CategoryShopping,
		CategoryNightlife,
		CategoryTransportation,
	}
}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory returns the Category named by s, or false if s is unknown.
func ParseCategory(s string) (Category, bool) {
	c := Category(s)
	return c, c.Valid()
}

// Activity is a dated, timed plan item belonging to a trip.
//
// Time is a zero-padded 24h "HH:MM" string; lexical order equals
// chronological order. EndTime is empty when the activity has no fixed end.
// IsLockedIn is authoritative and only changes through an explicit lock.
// VoteCount and Voted are derived on read: Voted is relative to the session
// that loaded the activity. LockProgress is the display-only ratio the server
// reported alongside VoteCount, nil when it sent none.
type Activity struct {
	ID            uuid.UUID
	TripID        uuid.UUID
	Title         string
	Category      Category
	Date          time.Time
	Time          string
	EndTime       string
	Location      string
	EstimatedCost float64
	Notes         string
	ImageURL      string
	CreatorID     uuid.UUID
	IsLockedIn    bool
	VoteCount     int
	Voted         bool
	LockProgress  *float64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ActivityVote records that UserID voted for ActivityID. At most one exists
// per (activity, user) pair.
type ActivityVote struct {
	ActivityID uuid.UUID
	UserID     uuid.UUID
	CreatedAt  time.Time
}
