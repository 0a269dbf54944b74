package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/cache"
	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/itinerary"
	"github.com/pkordes/trip-planner/internal/repo"
)

// ItineraryService serves the computed day-by-day views of a trip.
// Whole-trip itineraries are cached per trip and viewer, since the voted flag
// on each activity depends on who is asking.
type ItineraryService struct {
	trips      repo.TripRepo
	members    repo.MemberRepo
	activities repo.ActivityRepo
	cache      cache.Cache
}

// NewItineraryService constructs an ItineraryService. A nil cache disables caching.
func NewItineraryService(trips repo.TripRepo, members repo.MemberRepo, activities repo.ActivityRepo, c cache.Cache) *ItineraryService {
	if c == nil {
		c = cache.Nop{}
	}
	return &ItineraryService{trips: trips, members: members, activities: activities, cache: c}
}

// Itinerary returns the whole-trip itinerary. Results are cached per viewer
// under the trip's cache version, read before loading: a write that lands
// while this call is loading bumps the version, so the result it caches is
// never served.
func (s *ItineraryService) Itinerary(ctx context.Context, sess domain.Session, tripID uuid.UUID) (itinerary.Itinerary, error) {
	if _, err := requireMember(ctx, s.members, sess, tripID); err != nil {
		return itinerary.Itinerary{}, fmt.Errorf("service.ItineraryService.Itinerary: %w", err)
	}

	tag := tripID.String()
	key := ""
	var it itinerary.Itinerary
	if ver, err := s.cache.Version(ctx, tag); err == nil {
		key = fmt.Sprintf("itinerary:%s:v%d:%s", tripID, ver, sess.UserID)
		if hit, err := s.cache.Get(ctx, key, &it); err == nil && hit {
			return it, nil
		}
	}

	trip, acts, err := s.load(ctx, sess, tripID)
	if err != nil {
		return itinerary.Itinerary{}, fmt.Errorf("service.ItineraryService.Itinerary: %w", err)
	}
	it, err = itinerary.Build(trip, acts)
	if err != nil {
		return itinerary.Itinerary{}, fmt.Errorf("service.ItineraryService.Itinerary: %w", err)
	}
	if key != "" {
		_ = s.cache.Set(ctx, tag, key, it)
	}
	return it, nil
}

// Day returns the buckets for one date of the trip.
// Returns domain.ErrValidation when date lies outside the trip.
func (s *ItineraryService) Day(ctx context.Context, sess domain.Session, tripID uuid.UUID, date time.Time) (itinerary.Day, error) {
	if _, err := requireMember(ctx, s.members, sess, tripID); err != nil {
		return itinerary.Day{}, fmt.Errorf("service.ItineraryService.Day: %w", err)
	}
	trip, acts, err := s.load(ctx, sess, tripID)
	if err != nil {
		return itinerary.Day{}, fmt.Errorf("service.ItineraryService.Day: %w", err)
	}
	day := domain.DateOf(date)
	if !trip.Contains(day) {
		return itinerary.Day{}, fmt.Errorf("%w: date %s is outside the trip", domain.ErrValidation, day.Format(domain.DateLayout))
	}
	b, err := itinerary.ForDay(acts, day)
	if err != nil {
		return itinerary.Day{}, fmt.Errorf("service.ItineraryService.Day: %w", err)
	}
	index := int(day.Sub(domain.DateOf(trip.StartDate)).Hours() / 24)
	return itinerary.Day{Index: index, Date: day, Buckets: b}, nil
}

// FreeSlots returns the gaps of at least minMinutes between activities on
// every trip day, within the planning window. minMinutes <= 0 selects
// itinerary.DefaultMinSlotMinutes. Always returns a non-nil slice.
func (s *ItineraryService) FreeSlots(ctx context.Context, sess domain.Session, tripID uuid.UUID, minMinutes int) ([]domain.TimeSlot, error) {
	if minMinutes <= 0 {
		minMinutes = itinerary.DefaultMinSlotMinutes
	}
	if minMinutes > itinerary.DayEnd-itinerary.DayStart {
		return nil, fmt.Errorf("%w: min_minutes exceeds the %d-minute planning window",
			domain.ErrValidation, itinerary.DayEnd-itinerary.DayStart)
	}
	if _, err := requireMember(ctx, s.members, sess, tripID); err != nil {
		return nil, fmt.Errorf("service.ItineraryService.FreeSlots: %w", err)
	}
	trip, acts, err := s.load(ctx, sess, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.ItineraryService.FreeSlots: %w", err)
	}
	slots := itinerary.FreeSlots(trip, acts, minMinutes)
	if slots == nil {
		slots = []domain.TimeSlot{}
	}
	return slots, nil
}

func (s *ItineraryService) load(ctx context.Context, sess domain.Session, tripID uuid.UUID) (domain.Trip, []domain.Activity, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, nil, err
	}
	acts, err := s.activities.ListByTripID(ctx, tripID, sess.UserID)
	if err != nil {
		return domain.Trip{}, nil, err
	}
	return trip, acts, nil
}
