package itinerary

import (
	"fmt"
	"strconv"
)

// Clock is a validated time of day.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock parses a strict zero-padded 24h "HH:MM" string.
// Unlike PartOf it rejects out-of-range fields and single-digit hours.
func ParseClock(s string) (Clock, error) {
	if len(s) != 5 || s[2] != ':' || !digits(s[:2]) || !digits(s[3:]) {
		return Clock{}, fmt.Errorf("%w: %q: want HH:MM", ErrMalformedTime, s)
	}
	h, _ := strconv.Atoi(s[:2])
	m, _ := strconv.Atoi(s[3:])
	if h > 23 || m > 59 {
		return Clock{}, fmt.Errorf("%w: %q: out of range", ErrMalformedTime, s)
	}
	return Clock{Hour: h, Minute: m}, nil
}

// Minutes returns the number of minutes since midnight.
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

// String formats c as "HH:MM".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// clockFromMinutes is the inverse of Clock.Minutes for 0 <= m < 24*60.
func clockFromMinutes(m int) Clock {
	return Clock{Hour: m / 60, Minute: m % 60}
}
