package itinerary_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/itinerary"
)

func TestParseClock_Valid(t *testing.T) {
	c, err := itinerary.ParseClock("07:05")

	require.NoError(t, err)
	assert.Equal(t, itinerary.Clock{Hour: 7, Minute: 5}, c)
	assert.Equal(t, 425, c.Minutes())
	assert.Equal(t, "07:05", c.String())
}

func TestParseClock_Rejects(t *testing.T) {
	for _, s := range []string{"7:05", "24:00", "12:60", "12-00", "", "12:5a"} {
		_, err := itinerary.ParseClock(s)

		assert.ErrorIs(t, err, itinerary.ErrMalformedTime, "input %q", s)
	}
}
