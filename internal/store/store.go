// Package store holds the activities of the trip currently being viewed and
// applies edits optimistically: each change is visible locally before the
// backend confirms it, is replaced by the backend's record on success, and is
// rolled back on failure.
//
// Switching trips with Load bumps a generation counter. A backend response
// for a request started under an older generation is discarded and the
// caller gets ErrStale; the in-flight request itself is not cancelled.
package store

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/itinerary"
	"github.com/pkordes/trip-planner/internal/vote"
)

// ErrStale is returned when the store moved to another trip (or reloaded)
// while a backend call was in flight. The response was ignored.
var ErrStale = errors.New("stale response")

// Backend persists activity changes. The client package implements it
// over HTTP.
type Backend interface {
	CreateActivity(ctx context.Context, a domain.Activity) (domain.Activity, error)
	UpdateActivity(ctx context.Context, a domain.Activity) (domain.Activity, error)
	DeleteActivity(ctx context.Context, tripID, id uuid.UUID) error
	ToggleVote(ctx context.Context, tripID, activityID uuid.UUID) (vote.State, error)
}

// viewer keys the store's tally. A store only ever shows one caller's votes,
// so the caller needs no real id here.
var viewer = uuid.Nil

// Store is an ordered activity collection for one trip. Safe for concurrent
// use; the lock is never held across a backend call.
//
// Vote counts and the caller's voted flags live in a vote.Tally that is
// rebuilt on every Load; the VoteCount and Voted fields of the stored
// activities mirror it.
type Store struct {
	backend Backend

	mu     sync.Mutex
	tripID uuid.UUID
	gen    uint64
	items  []domain.Activity
	tally  *vote.Tally
}

// New returns an empty store. Call Load before editing.
func New(b Backend) *Store {
	return &Store{backend: b, items: []domain.Activity{}, tally: vote.NewTally()}
}

// Load replaces the contents with activities for tripID. Any request still
// in flight for the previous contents will come back as ErrStale.
func (s *Store) Load(tripID uuid.UUID, activities []domain.Activity) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.tripID = tripID
	s.items = slices.Clone(activities)
	if s.items == nil {
		s.items = []domain.Activity{}
	}
	s.tally = vote.NewTally()
	for _, a := range s.items {
		s.seed(a)
	}
}

// TripID returns the trip the store is scoped to, or uuid.Nil before Load.
func (s *Store) TripID() uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tripID
}

// Snapshot returns a copy of the activities in display order.
func (s *Store) Snapshot() []domain.Activity {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Get returns the activity with id.
func (s *Store) Get(id uuid.UUID) (domain.Activity, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 {
		return domain.Activity{}, false
	}
	return s.items[i], true
}

// Create appends a under a temporary id, then swaps in the stored record.
func (s *Store) Create(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	s.mu.Lock()
	if s.tripID == uuid.Nil {
		s.mu.Unlock()
		return domain.Activity{}, fmt.Errorf("store.Store.Create: %w: no trip loaded", domain.ErrNotFound)
	}
	gen := s.gen
	tempID := uuid.New()
	a.ID = tempID
	a.TripID = s.tripID
	a.IsLockedIn = false
	a.VoteCount, a.Voted = 0, false
	s.items = append(s.items, a)
	s.mu.Unlock()

	created, err := s.backend.CreateActivity(ctx, a)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return domain.Activity{}, staleErr("store.Store.Create", err)
	}
	i := s.indexOf(tempID)
	if err != nil {
		if i >= 0 {
			s.items = slices.Delete(s.items, i, i+1)
		}
		return domain.Activity{}, fmt.Errorf("store.Store.Create: %w", err)
	}
	if i >= 0 {
		s.items[i] = created
	} else {
		s.items = append(s.items, created)
	}
	s.seed(created)
	return created, nil
}

// Update replaces the activity with a.ID locally, then with the stored
// record. Server-owned fields (lock-in flag, votes) keep their current values
// while the request is in flight.
func (s *Store) Update(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	s.mu.Lock()
	gen := s.gen
	i := s.indexOf(a.ID)
	if i < 0 {
		s.mu.Unlock()
		return domain.Activity{}, fmt.Errorf("store.Store.Update: %w", domain.ErrNotFound)
	}
	prev := s.items[i]
	a.TripID = prev.TripID
	a.CreatorID = prev.CreatorID
	a.IsLockedIn = prev.IsLockedIn
	a.VoteCount, a.Voted = prev.VoteCount, prev.Voted
	a.CreatedAt = prev.CreatedAt
	s.items[i] = a
	s.mu.Unlock()

	updated, err := s.backend.UpdateActivity(ctx, a)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return domain.Activity{}, staleErr("store.Store.Update", err)
	}
	if j := s.indexOf(a.ID); j >= 0 {
		if err != nil {
			s.items[j] = prev
		} else {
			s.items[j] = updated
		}
	}
	if err != nil {
		return domain.Activity{}, fmt.Errorf("store.Store.Update: %w", err)
	}
	s.tally.Set(updated.ID, viewer, vote.State{Count: updated.VoteCount, Voted: updated.Voted})
	return updated, nil
}

// Delete removes the activity immediately and reinserts it at its old
// position if the backend refuses.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	gen := s.gen
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return fmt.Errorf("store.Store.Delete: %w", domain.ErrNotFound)
	}
	prev := s.items[i]
	s.items = slices.Delete(s.items, i, i+1)
	tripID := s.tripID
	s.mu.Unlock()

	err := s.backend.DeleteActivity(ctx, tripID, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return staleErr("store.Store.Delete", err)
	}
	if err != nil {
		s.items = slices.Insert(s.items, min(i, len(s.items)), prev)
		return fmt.Errorf("store.Store.Delete: %w", err)
	}
	s.tally.Forget(id)
	return nil
}

// ToggleVote flips the caller's vote locally, then applies the count and
// flag the backend reports. Locked-in activities cannot be voted on.
func (s *Store) ToggleVote(ctx context.Context, id uuid.UUID) (vote.State, error) {
	s.mu.Lock()
	gen := s.gen
	i := s.indexOf(id)
	if i < 0 {
		s.mu.Unlock()
		return vote.State{}, fmt.Errorf("store.Store.ToggleVote: %w", domain.ErrNotFound)
	}
	if s.items[i].IsLockedIn {
		s.mu.Unlock()
		return vote.State{}, fmt.Errorf("store.Store.ToggleVote: %w: activity is locked in", domain.ErrConflict)
	}
	prev := s.tally.State(id, viewer)
	s.mirror(i, s.tally.Toggle(id, viewer))
	tripID := s.tripID
	s.mu.Unlock()

	got, err := s.backend.ToggleVote(ctx, tripID, id)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return vote.State{}, staleErr("store.Store.ToggleVote", err)
	}
	applied := got
	if err != nil {
		applied = prev
	}
	s.tally.Set(id, viewer, applied)
	if j := s.indexOf(id); j >= 0 {
		s.mirror(j, s.tally.State(id, viewer))
	}
	if err != nil {
		return vote.State{}, fmt.Errorf("store.Store.ToggleVote: %w", err)
	}
	return got, nil
}

// Itinerary builds the day-by-day view of trip from the current snapshot.
func (s *Store) Itinerary(trip domain.Trip) (itinerary.Itinerary, error) {
	s.mu.Lock()
	if trip.ID != s.tripID {
		s.mu.Unlock()
		return itinerary.Itinerary{}, fmt.Errorf("store.Store.Itinerary: %w: trip %s is not loaded", domain.ErrNotFound, trip.ID)
	}
	items := slices.Clone(s.items)
	s.mu.Unlock()

	it, err := itinerary.Build(trip, items)
	if err != nil {
		return itinerary.Itinerary{}, fmt.Errorf("store.Store.Itinerary: %w", err)
	}
	return it, nil
}

// seed records a's server-reported votes in the tally.
func (s *Store) seed(a domain.Activity) {
	var voters []uuid.UUID
	if a.Voted {
		voters = append(voters, viewer)
	}
	s.tally.Seed(a.ID, a.VoteCount, voters...)
}

// mirror copies a tally state onto the activity at index i and drops the
// server's lock progress, which described the old count.
func (s *Store) mirror(i int, st vote.State) {
	s.items[i].LockProgress = nil
	s.items[i].VoteCount, s.items[i].Voted = st.Count, st.Voted
}

func (s *Store) indexOf(id uuid.UUID) int {
	return slices.IndexFunc(s.items, func(a domain.Activity) bool { return a.ID == id })
}

func staleErr(op string, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w: %w", op, ErrStale, err)
	}
	return fmt.Errorf("%s: %w", op, ErrStale)
}
