package itinerary

import (
	"slices"
	"time"

	"github.com/pkordes/trip-planner/internal/domain"
)

// Planning window for free-slot search and the assumed length of an
// activity with no end time.
const (
	DayStart               = 8 * 60
	DayEnd                 = 22 * 60
	DefaultActivityMinutes = 60
	DefaultMinSlotMinutes  = 60
)

type span struct{ start, end int }

// FreeSlots returns, for every day of trip, the gaps between activities
// inside the 08:00-22:00 window that last at least minMinutes. A value of
// minMinutes <= 0 selects DefaultMinSlotMinutes. Activities with a time
// that does not parse are skipped; they cannot be placed on the clock.
func FreeSlots(trip domain.Trip, activities []domain.Activity, minMinutes int) []domain.TimeSlot {
	if minMinutes <= 0 {
		minMinutes = DefaultMinSlotMinutes
	}
	slots := []domain.TimeSlot{}
	for _, day := range Days(trip.StartDate, trip.EndDate) {
		busy := busySpans(ActivitiesOn(activities, day))
		cursor := DayStart
		for _, b := range busy {
			if b.start-cursor >= minMinutes {
				slots = append(slots, slot(day, cursor, b.start))
			}
			cursor = max(cursor, b.end)
		}
		if DayEnd-cursor >= minMinutes {
			slots = append(slots, slot(day, cursor, DayEnd))
		}
	}
	return slots
}

// busySpans converts activities into merged, window-clamped occupied spans
// ordered by start.
func busySpans(activities []domain.Activity) []span {
	spans := make([]span, 0, len(activities))
	for _, a := range activities {
		start, err := ParseClock(a.Time)
		if err != nil {
			continue
		}
		end := start.Minutes() + DefaultActivityMinutes
		if a.EndTime != "" {
			if e, err := ParseClock(a.EndTime); err == nil && e.Minutes() > start.Minutes() {
				end = e.Minutes()
			}
		}
		s := span{start: max(start.Minutes(), DayStart), end: min(end, DayEnd)}
		if s.end > s.start {
			spans = append(spans, s)
		}
	}
	slices.SortFunc(spans, func(a, b span) int { return a.start - b.start })

	merged := spans[:0]
	for _, s := range spans {
		if n := len(merged); n > 0 && s.start <= merged[n-1].end {
			merged[n-1].end = max(merged[n-1].end, s.end)
			continue
		}
		merged = append(merged, s)
	}
	return merged
}

func slot(day time.Time, from, to int) domain.TimeSlot {
	return domain.TimeSlot{
		Date:            day,
		Start:           clockFromMinutes(from).String(),
		End:             clockFromMinutes(to).String(),
		DurationMinutes: to - from,
	}
}
