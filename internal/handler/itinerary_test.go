package handler_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/api"
	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/itinerary"
)

func TestGetItinerary_200(t *testing.T) {
	tripID := uuid.New()
	a := activityFixture(tripID)
	its := &mockItineraryServicer{
		itinerary: func(_ context.Context, _ domain.Session, id uuid.UUID) (itinerary.Itinerary, error) {
			return itinerary.Itinerary{TripID: id, Days: []itinerary.Day{
				{Index: 0, Date: a.Date, Buckets: itinerary.Buckets{
					Morning:   []domain.Activity{a},
					Afternoon: []domain.Activity{},
					Evening:   []domain.Activity{},
				}},
			}}, nil
		},
	}

	rec := do(t, newHTTPHandler(services{itineraries: its}), http.MethodGet, "/trips/"+tripID.String()+"/itinerary", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[api.Itinerary](t, rec)
	assert.Equal(t, tripID, resp.TripID)
	require.Len(t, resp.Days, 1)
	assert.Equal(t, "2025-07-17", resp.Days[0].Date.String())
	require.Len(t, resp.Days[0].Morning, 1)
	assert.Equal(t, a.Title, resp.Days[0].Morning[0].Title)
	assert.NotNil(t, resp.Days[0].Evening, "empty buckets are [] not null")
}

func TestGetItineraryDay_200(t *testing.T) {
	var gotDate time.Time
	its := &mockItineraryServicer{
		day: func(_ context.Context, _ domain.Session, _ uuid.UUID, date time.Time) (itinerary.Day, error) {
			gotDate = date
			return itinerary.Day{Index: 1, Date: date}, nil
		},
	}

	rec := do(t, newHTTPHandler(services{itineraries: its}), http.MethodGet, "/trips/"+uuid.New().String()+"/itinerary/2025-07-17", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2025-07-17", gotDate.Format(domain.DateLayout))
	assert.Equal(t, 1, decode[api.Day](t, rec).Index)
}

func TestGetItineraryDay_400_BadDate(t *testing.T) {
	rec := do(t, newHTTPHandler(services{}), http.MethodGet, "/trips/"+uuid.New().String()+"/itinerary/tomorrow", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetItineraryDay_422_OutsideTrip(t *testing.T) {
	its := &mockItineraryServicer{
		day: func(_ context.Context, _ domain.Session, _ uuid.UUID, _ time.Time) (itinerary.Day, error) {
			return itinerary.Day{}, fmt.Errorf("%w: date 2025-09-01 is outside the trip", domain.ErrValidation)
		},
	}

	rec := do(t, newHTTPHandler(services{itineraries: its}), http.MethodGet, "/trips/"+uuid.New().String()+"/itinerary/2025-09-01", nil)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestGetFreeSlots_200(t *testing.T) {
	var gotMin int
	its := &mockItineraryServicer{
		freeSlots: func(_ context.Context, _ domain.Session, _ uuid.UUID, minMinutes int) ([]domain.TimeSlot, error) {
			gotMin = minMinutes
			return []domain.TimeSlot{{
				Date:            time.Date(2025, 7, 16, 0, 0, 0, 0, time.UTC),
				Start:           "08:00",
				End:             "10:00",
				DurationMinutes: 120,
			}}, nil
		},
	}

	rec := do(t, newHTTPHandler(services{itineraries: its}), http.MethodGet, "/trips/"+uuid.New().String()+"/free-slots?min_minutes=90", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 90, gotMin)
	slots := decode[[]api.TimeSlot](t, rec)
	require.Len(t, slots, 1)
	assert.Equal(t, api.TimeSlot{Date: slots[0].Date, Start: "08:00", End: "10:00", DurationMinutes: 120}, slots[0])
}

func TestGetFreeSlots_DefaultMinutes(t *testing.T) {
	gotMin := -1
	its := &mockItineraryServicer{
		freeSlots: func(_ context.Context, _ domain.Session, _ uuid.UUID, minMinutes int) ([]domain.TimeSlot, error) {
			gotMin = minMinutes
			return []domain.TimeSlot{}, nil
		},
	}

	rec := do(t, newHTTPHandler(services{itineraries: its}), http.MethodGet, "/trips/"+uuid.New().String()+"/free-slots", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, gotMin, "service applies the default")
	assert.JSONEq(t, `[]`, rec.Body.String())
}
