// Package itinerary derives day-by-day views of a trip from its activities.
// Every function here is pure: no I/O, no clock, no shared state.
package itinerary

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
)

// ErrMalformedTime is returned when an activity time does not have the
// "HH:MM" shape and so cannot be assigned to a part of the day.
var ErrMalformedTime = errors.New("malformed time")

// Part-of-day boundaries, as hours on a 24h clock.
const (
	afternoonStartHour = 12
	eveningStartHour   = 17
)

// PartOfDay names one of the three fixed itinerary buckets.
type PartOfDay string

const (
	Morning   PartOfDay = "morning"
	Afternoon PartOfDay = "afternoon"
	Evening   PartOfDay = "evening"
)

// Buckets partitions one day's activities by part of day. Each slice keeps
// the time-sorted order of the input.
type Buckets struct {
	Morning   []domain.Activity `json:"morning"`
	Afternoon []domain.Activity `json:"afternoon"`
	Evening   []domain.Activity `json:"evening"`
}

// All returns the buckets concatenated in morning, afternoon, evening order.
func (b Buckets) All() []domain.Activity {
	out := make([]domain.Activity, 0, len(b.Morning)+len(b.Afternoon)+len(b.Evening))
	out = append(out, b.Morning...)
	out = append(out, b.Afternoon...)
	return append(out, b.Evening...)
}

// Len returns the total number of activities across all buckets.
func (b Buckets) Len() int {
	return len(b.Morning) + len(b.Afternoon) + len(b.Evening)
}

// Day is one calendar day of a trip. Index is 0-based.
type Day struct {
	Index   int       `json:"index"`
	Date    time.Time `json:"date"`
	Buckets Buckets   `json:"buckets"`
}

// Itinerary is the full day-by-day plan for a trip.
type Itinerary struct {
	TripID uuid.UUID `json:"trip_id"`
	Days   []Day     `json:"days"`
}

// Days returns every calendar day from start to end inclusive, at UTC
// midnight. It returns an empty slice when end is before start.
func Days(start, end time.Time) []time.Time {
	first, last := domain.DateOf(start), domain.DateOf(end)
	if last.Before(first) {
		return []time.Time{}
	}
	days := make([]time.Time, 0, int(last.Sub(first).Hours()/24)+1)
	for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// ActivitiesOn returns the activities dated on day, sorted ascending by
// their "HH:MM" time. The sort is stable so equal times keep input order.
func ActivitiesOn(activities []domain.Activity, day time.Time) []domain.Activity {
	want := domain.DateOf(day)
	out := []domain.Activity{}
	for _, a := range activities {
		if domain.DateOf(a.Date).Equal(want) {
			out = append(out, a)
		}
	}
	slices.SortStableFunc(out, func(a, b domain.Activity) int {
		return strings.Compare(a.Time, b.Time)
	})
	return out
}

// Group splits time-sorted activities into morning (hour < 12), afternoon
// (12 <= hour < 17) and evening (hour >= 17). The hour is the integer
// before the colon, so an out-of-range value such as "25:00" still lands in
// the evening. A time without the "HH:MM" shape fails with ErrMalformedTime.
func Group(sorted []domain.Activity) (Buckets, error) {
	b := Buckets{
		Morning:   []domain.Activity{},
		Afternoon: []domain.Activity{},
		Evening:   []domain.Activity{},
	}
	for _, a := range sorted {
		part, err := PartOf(a.Time)
		if err != nil {
			return Buckets{}, fmt.Errorf("activity %s: %w", a.ID, err)
		}
		switch part {
		case Morning:
			b.Morning = append(b.Morning, a)
		case Afternoon:
			b.Afternoon = append(b.Afternoon, a)
		default:
			b.Evening = append(b.Evening, a)
		}
	}
	return b, nil
}

// PartOf classifies a raw time string by its hour field.
func PartOf(clock string) (PartOfDay, error) {
	hour, err := hourField(clock)
	if err != nil {
		return "", err
	}
	switch {
	case hour < afternoonStartHour:
		return Morning, nil
	case hour < eveningStartHour:
		return Afternoon, nil
	default:
		return Evening, nil
	}
}

// hourField extracts the hour from an "H:MM" or "HH:MM" string without
// range-checking it.
func hourField(clock string) (int, error) {
	h, m, ok := strings.Cut(clock, ":")
	if !ok || len(h) == 0 || len(h) > 2 || len(m) != 2 || !digits(h) || !digits(m) {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, clock)
	}
	hour, err := strconv.Atoi(h)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedTime, clock)
	}
	return hour, nil
}

func digits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// ForDay selects, sorts, and groups the activities for a single day.
func ForDay(activities []domain.Activity, day time.Time) (Buckets, error) {
	return Group(ActivitiesOn(activities, day))
}

// Build assembles the itinerary for every day of trip.
// A trip with no activities yields days with empty buckets.
func Build(trip domain.Trip, activities []domain.Activity) (Itinerary, error) {
	days := Days(trip.StartDate, trip.EndDate)
	it := Itinerary{TripID: trip.ID, Days: make([]Day, 0, len(days))}
	for i, d := range days {
		b, err := ForDay(activities, d)
		if err != nil {
			return Itinerary{}, fmt.Errorf("itinerary.Build: %s: %w", d.Format(domain.DateLayout), err)
		}
		it.Days = append(it.Days, Day{Index: i, Date: d, Buckets: b})
	}
	return it, nil
}
