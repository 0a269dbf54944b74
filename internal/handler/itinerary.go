package handler

import (
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-planner/internal/api"
	"github.com/pkordes/trip-planner/internal/itinerary"
)

// GetItinerary handles GET /trips/{tripID}/itinerary.
func (s *Server) GetItinerary(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	it, err := s.itineraries.Itinerary(r.Context(), sess, tripID)
	if err != nil {
		s.respondError(w, r, err, tripNotFound)
		return
	}
	days := make([]api.Day, len(it.Days))
	for i, d := range it.Days {
		days[i] = s.dayToResponse(d)
	}
	writeJSON(w, http.StatusOK, api.Itinerary{TripID: it.TripID, Days: days})
}

// GetItineraryDay handles GET /trips/{tripID}/itinerary/{date}.
func (s *Server) GetItineraryDay(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	date, ok := pathDate(w, r, "date")
	if !ok {
		return
	}

	day, err := s.itineraries.Day(r.Context(), sess, tripID, date.Time)
	if err != nil {
		s.respondError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusOK, s.dayToResponse(day))
}

// GetFreeSlots handles GET /trips/{tripID}/free-slots.
// ?min_minutes= sets the shortest gap reported (default 60).
func (s *Server) GetFreeSlots(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	minMinutes, ok := queryInt(w, r, "min_minutes")
	if !ok {
		return
	}
	n := 0
	if minMinutes != nil {
		n = *minMinutes
	}

	slots, err := s.itineraries.FreeSlots(r.Context(), sess, tripID, n)
	if err != nil {
		s.respondError(w, r, err, tripNotFound)
		return
	}
	out := make([]api.TimeSlot, len(slots))
	for i, sl := range slots {
		out[i] = api.TimeSlot{
			Date:            openapi_types.Date{Time: sl.Date},
			Start:           sl.Start,
			End:             sl.End,
			DurationMinutes: sl.DurationMinutes,
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) dayToResponse(d itinerary.Day) api.Day {
	return api.Day{
		Index:     d.Index,
		Date:      openapi_types.Date{Time: d.Date},
		Morning:   s.activitiesToResponse(d.Buckets.Morning),
		Afternoon: s.activitiesToResponse(d.Buckets.Afternoon),
		Evening:   s.activitiesToResponse(d.Buckets.Evening),
	}
}
