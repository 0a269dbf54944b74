package domain

import "time"

// TimeSlot is an unscheduled window within a trip day.
// Start and End are "HH:MM" strings on Date.
type TimeSlot struct {
	Date            time.Time
	Start           string
	End             string
	DurationMinutes int
}
