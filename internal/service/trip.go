package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/cache"
	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

// maxCodeAttempts bounds the retries when a generated trip code collides.
const maxCodeAttempts = 5

// TripService implements business logic for trips and their members.
type TripService struct {
	trips   repo.TripRepo
	members repo.MemberRepo
	cache   cache.Cache
	newCode func() (string, error)
}

// TripOption customises a TripService.
type TripOption func(*TripService)

// WithCodeGenerator replaces the random trip code generator.
func WithCodeGenerator(fn func() (string, error)) TripOption {
	return func(s *TripService) { s.newCode = fn }
}

// NewTripService constructs a TripService. A nil cache disables caching.
func NewTripService(trips repo.TripRepo, members repo.MemberRepo, c cache.Cache, opts ...TripOption) *TripService {
	if c == nil {
		c = cache.Nop{}
	}
	s := &TripService{trips: trips, members: members, cache: c, newCode: NewTripCode}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates and persists a new trip owned by the caller. The caller
// becomes the trip's creator member. A fresh trip code is generated and
// regenerated on collision up to maxCodeAttempts times.
func (s *TripService) Create(ctx context.Context, sess domain.Session, trip domain.Trip) (domain.Trip, error) {
	if !sess.Valid() {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", domain.ErrUnauthorized)
	}
	trip = normalizeTrip(trip)
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}
	trip.CreatorID = sess.UserID

	var lastErr error
	for attempt := 0; attempt < maxCodeAttempts; attempt++ {
		code, err := s.newCode()
		if err != nil {
			return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
		}
		trip.TripCode = code
		created, err := s.trips.Create(ctx, trip)
		if err == nil {
			return created, nil
		}
		if !errors.Is(err, domain.ErrConflict) {
			return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
		}
		lastErr = err
	}
	return domain.Trip{}, fmt.Errorf("service.TripService.Create: trip code retries exhausted: %w", lastErr)
}

// Get returns a trip the caller belongs to.
func (s *TripService) Get(ctx context.Context, sess domain.Session, id uuid.UUID) (domain.Trip, error) {
	if _, err := requireMember(ctx, s.members, sess, id); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Get: %w", err)
	}
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Get: %w", err)
	}
	return trip, nil
}

// List returns one page of the caller's trips, newest first, and the total
// count. Always returns a non-nil slice.
func (s *TripService) List(ctx context.Context, sess domain.Session, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	if !sess.Valid() {
		return nil, 0, fmt.Errorf("service.TripService.List: %w", domain.ErrUnauthorized)
	}
	trips, total, err := s.trips.ListByMember(ctx, sess.UserID, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.TripService.List: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, total, nil
}

// Update validates and persists changes to a trip. Any member may edit the
// trip details; the creator and trip code never change. New dates must still
// cover every existing activity.
func (s *TripService) Update(ctx context.Context, sess domain.Session, trip domain.Trip) (domain.Trip, error) {
	if _, err := requireMember(ctx, s.members, sess, trip.ID); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	trip = normalizeTrip(trip)
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}
	outside, err := s.trips.ActivitiesOutside(ctx, trip.ID, trip.StartDate, trip.EndDate)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	if outside > 0 {
		return domain.Trip{}, fmt.Errorf("%w: %d activities fall outside %s..%s; move or delete them first",
			domain.ErrValidation, outside, trip.StartDate.Format(domain.DateLayout), trip.EndDate.Format(domain.DateLayout))
	}
	updated, err := s.trips.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Update: %w", err)
	}
	invalidateTrip(ctx, s.cache, trip.ID)
	return updated, nil
}

// Delete removes a trip with everything under it. Creator only.
func (s *TripService) Delete(ctx context.Context, sess domain.Session, id uuid.UUID) error {
	if _, err := requireCreator(ctx, s.members, sess, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	if err := s.trips.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	invalidateTrip(ctx, s.cache, id)
	return nil
}

// Join adds the caller to the trip identified by code. Joining a trip the
// caller already belongs to is a no-op that returns the trip.
func (s *TripService) Join(ctx context.Context, sess domain.Session, code string) (domain.Trip, error) {
	if !sess.Valid() {
		return domain.Trip{}, fmt.Errorf("service.TripService.Join: %w", domain.ErrUnauthorized)
	}
	code = NormalizeTripCode(code)
	if code == "" {
		return domain.Trip{}, fmt.Errorf("%w: trip_code is required", domain.ErrValidation)
	}
	trip, err := s.trips.GetByCode(ctx, code)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Join: %w", err)
	}
	_, err = s.members.Add(ctx, domain.TripMember{TripID: trip.ID, UserID: sess.UserID, Role: domain.RoleMember})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Join: %w", err)
	}
	return trip, nil
}

// Members lists the members of a trip the caller belongs to.
func (s *TripService) Members(ctx context.Context, sess domain.Session, tripID uuid.UUID) ([]domain.TripMember, error) {
	if _, err := requireMember(ctx, s.members, sess, tripID); err != nil {
		return nil, fmt.Errorf("service.TripService.Members: %w", err)
	}
	members, err := s.members.List(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.Members: %w", err)
	}
	if members == nil {
		members = []domain.TripMember{}
	}
	return members, nil
}

// RemoveMember removes userID from a trip. The creator may remove anyone but
// themselves; any other member may only remove (leave as) themselves.
func (s *TripService) RemoveMember(ctx context.Context, sess domain.Session, tripID, userID uuid.UUID) error {
	caller, err := requireMember(ctx, s.members, sess, tripID)
	if err != nil {
		return fmt.Errorf("service.TripService.RemoveMember: %w", err)
	}
	switch {
	case caller.IsCreator() && userID == sess.UserID:
		return fmt.Errorf("service.TripService.RemoveMember: %w: the trip creator cannot be removed", domain.ErrConflict)
	case !caller.IsCreator() && userID != sess.UserID:
		return fmt.Errorf("service.TripService.RemoveMember: %w: only the trip creator may remove others", domain.ErrForbidden)
	}
	if err := s.members.Remove(ctx, tripID, userID); err != nil {
		return fmt.Errorf("service.TripService.RemoveMember: %w", err)
	}
	return nil
}

// BudgetUsage reports planned spending against the trip's budget.
func (s *TripService) BudgetUsage(ctx context.Context, sess domain.Session, tripID uuid.UUID) (domain.BudgetUsage, error) {
	trip, err := s.Get(ctx, sess, tripID)
	if err != nil {
		return domain.BudgetUsage{}, fmt.Errorf("service.TripService.BudgetUsage: %w", err)
	}
	spent, err := s.trips.Spent(ctx, tripID)
	if err != nil {
		return domain.BudgetUsage{}, fmt.Errorf("service.TripService.BudgetUsage: %w", err)
	}
	return domain.NewBudgetUsage(trip.ID, trip.Budget, spent), nil
}

func normalizeTrip(t domain.Trip) domain.Trip {
	t.Name = strings.TrimSpace(t.Name)
	t.Destination = strings.TrimSpace(t.Destination)
	t.CoverImageURL = strings.TrimSpace(t.CoverImageURL)
	t.Currency = strings.ToUpper(strings.TrimSpace(t.Currency))
	if t.Currency == "" {
		t.Currency = domain.DefaultCurrency
	}
	t.StartDate = domain.DateOf(t.StartDate)
	t.EndDate = domain.DateOf(t.EndDate)
	return t
}

// validateTrip enforces business rules common to both Create and Update.
//   - Name is at least 3 characters; destination at least 2.
//   - Both dates are set and EndDate is not before StartDate.
//   - Budget, if set, is not negative.
func validateTrip(t domain.Trip) error {
	if utf8.RuneCountInString(t.Name) < 3 {
		return fmt.Errorf("%w: name must be at least 3 characters", domain.ErrValidation)
	}
	if utf8.RuneCountInString(t.Destination) < 2 {
		return fmt.Errorf("%w: destination must be at least 2 characters", domain.ErrValidation)
	}
	if t.StartDate.Year() < 1900 || t.EndDate.Year() < 1900 {
		return fmt.Errorf("%w: start_date and end_date are required", domain.ErrValidation)
	}
	if t.EndDate.Before(t.StartDate) {
		return fmt.Errorf("%w: end_date must not be before start_date", domain.ErrValidation)
	}
	if t.Budget != nil && *t.Budget < 0 {
		return fmt.Errorf("%w: total_budget must not be negative", domain.ErrValidation)
	}
	if len(t.Currency) != 3 {
		return fmt.Errorf("%w: currency must be a 3-letter code", domain.ErrValidation)
	}
	return nil
}
