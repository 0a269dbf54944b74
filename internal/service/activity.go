package service

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/cache"
	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/itinerary"
	"github.com/pkordes/trip-planner/internal/repo"
)

// ActivityService implements business logic for a trip's activities.
// It holds the trips repo because every write is validated against the
// parent trip's date range.
type ActivityService struct {
	trips      repo.TripRepo
	members    repo.MemberRepo
	activities repo.ActivityRepo
	cache      cache.Cache
}

// NewActivityService constructs an ActivityService. A nil cache disables caching.
func NewActivityService(trips repo.TripRepo, members repo.MemberRepo, activities repo.ActivityRepo, c cache.Cache) *ActivityService {
	if c == nil {
		c = cache.Nop{}
	}
	return &ActivityService{trips: trips, members: members, activities: activities, cache: c}
}

// Create validates the activity against its trip and persists it with the
// caller as creator. New activities are never locked in.
func (s *ActivityService) Create(ctx context.Context, sess domain.Session, a domain.Activity) (domain.Activity, error) {
	trip, err := s.memberTrip(ctx, sess, a.TripID)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Create: %w", err)
	}
	a = normalizeActivity(a)
	if err := validateActivity(trip, a); err != nil {
		return domain.Activity{}, err
	}
	a.CreatorID = sess.UserID
	a.IsLockedIn = false

	created, err := s.activities.Create(ctx, a)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Create: %w", err)
	}
	invalidateTrip(ctx, s.cache, a.TripID)
	return created, nil
}

// Get returns one activity with its vote count and the caller's voted flag.
func (s *ActivityService) Get(ctx context.Context, sess domain.Session, tripID, id uuid.UUID) (domain.Activity, error) {
	if _, err := requireMember(ctx, s.members, sess, tripID); err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Get: %w", err)
	}
	a, err := s.activities.GetByID(ctx, tripID, id, sess.UserID)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Get: %w", err)
	}
	return a, nil
}

// List returns every activity of a trip ordered by date, then time.
// Always returns a non-nil slice so callers can safely range over it.
func (s *ActivityService) List(ctx context.Context, sess domain.Session, tripID uuid.UUID) ([]domain.Activity, error) {
	if _, err := requireMember(ctx, s.members, sess, tripID); err != nil {
		return nil, fmt.Errorf("service.ActivityService.List: %w", err)
	}
	acts, err := s.activities.ListByTripID(ctx, tripID, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("service.ActivityService.List: %w", err)
	}
	if acts == nil {
		return []domain.Activity{}, nil
	}
	return acts, nil
}

// Update validates and persists changes to an activity. The lock-in flag is
// left untouched; use SetLockedIn.
func (s *ActivityService) Update(ctx context.Context, sess domain.Session, a domain.Activity) (domain.Activity, error) {
	trip, err := s.memberTrip(ctx, sess, a.TripID)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Update: %w", err)
	}
	a = normalizeActivity(a)
	if err := validateActivity(trip, a); err != nil {
		return domain.Activity{}, err
	}
	updated, err := s.activities.Update(ctx, a, sess.UserID)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.Update: %w", err)
	}
	invalidateTrip(ctx, s.cache, a.TripID)
	return updated, nil
}

// Delete removes an activity and its votes. Any member may delete.
func (s *ActivityService) Delete(ctx context.Context, sess domain.Session, tripID, id uuid.UUID) error {
	if _, err := requireMember(ctx, s.members, sess, tripID); err != nil {
		return fmt.Errorf("service.ActivityService.Delete: %w", err)
	}
	if err := s.activities.Delete(ctx, tripID, id); err != nil {
		return fmt.Errorf("service.ActivityService.Delete: %w", err)
	}
	invalidateTrip(ctx, s.cache, tripID)
	return nil
}

// SetLockedIn sets or clears an activity's lock-in flag. Creator only.
// Vote progress never calls this; locking is always an explicit decision.
func (s *ActivityService) SetLockedIn(ctx context.Context, sess domain.Session, tripID, id uuid.UUID, locked bool) (domain.Activity, error) {
	if _, err := requireCreator(ctx, s.members, sess, tripID); err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.SetLockedIn: %w", err)
	}
	a, err := s.activities.SetLockedIn(ctx, tripID, id, locked, sess.UserID)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("service.ActivityService.SetLockedIn: %w", err)
	}
	invalidateTrip(ctx, s.cache, tripID)
	return a, nil
}

func (s *ActivityService) memberTrip(ctx context.Context, sess domain.Session, tripID uuid.UUID) (domain.Trip, error) {
	if _, err := requireMember(ctx, s.members, sess, tripID); err != nil {
		return domain.Trip{}, err
	}
	return s.trips.GetByID(ctx, tripID)
}

func normalizeActivity(a domain.Activity) domain.Activity {
	a.Title = strings.TrimSpace(a.Title)
	a.Location = strings.TrimSpace(a.Location)
	a.Notes = strings.TrimSpace(a.Notes)
	a.ImageURL = strings.TrimSpace(a.ImageURL)
	a.Time = strings.TrimSpace(a.Time)
	a.EndTime = strings.TrimSpace(a.EndTime)
	a.Date = domain.DateOf(a.Date)
	return a
}

// validateActivity enforces business rules common to both Create and Update.
//   - Title and location are at least 3 characters.
//   - Category is one of the known categories.
//   - Date falls within the trip; Time (and EndTime, if set) is "HH:MM" and
//     EndTime is after Time.
//   - EstimatedCost is not negative.
func validateActivity(trip domain.Trip, a domain.Activity) error {
	if utf8.RuneCountInString(a.Title) < 3 {
		return fmt.Errorf("%w: title must be at least 3 characters", domain.ErrValidation)
	}
	if !a.Category.Valid() {
		return fmt.Errorf("%w: unknown category %q", domain.ErrValidation, a.Category)
	}
	if utf8.RuneCountInString(a.Location) < 3 {
		return fmt.Errorf("%w: location must be at least 3 characters", domain.ErrValidation)
	}
	if !trip.Contains(a.Date) {
		return fmt.Errorf("%w: date %s is outside the trip (%s to %s)", domain.ErrValidation,
			a.Date.Format(domain.DateLayout),
			trip.StartDate.Format(domain.DateLayout),
			trip.EndDate.Format(domain.DateLayout))
	}
	start, err := itinerary.ParseClock(a.Time)
	if err != nil {
		return fmt.Errorf("%w: time: %v", domain.ErrValidation, err)
	}
	if a.EndTime != "" {
		end, err := itinerary.ParseClock(a.EndTime)
		if err != nil {
			return fmt.Errorf("%w: end_time: %v", domain.ErrValidation, err)
		}
		if end.Minutes() <= start.Minutes() {
			return fmt.Errorf("%w: end_time must be after time", domain.ErrValidation)
		}
	}
	if a.EstimatedCost < 0 {
		return fmt.Errorf("%w: estimated_cost must not be negative", domain.ErrValidation)
	}
	return nil
}
