package service_test

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/cache"
	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

// Hand-written test doubles for the repo interfaces.
// Each method is a function field; set only the ones your test needs.
// Calling an unset field panics, which flags an unexpected repo call.

type mockTripRepo struct {
	create       func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID      func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	getByCode    func(ctx context.Context, code string) (domain.Trip, error)
	listByMember func(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error)
	update       func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete       func(ctx context.Context, id uuid.UUID) error
	spent        func(ctx context.Context, id uuid.UUID) (float64, error)
	outside      func(ctx context.Context, id uuid.UUID, start, end time.Time) (int, error)
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) GetByCode(ctx context.Context, code string) (domain.Trip, error) {
	return m.getByCode(ctx, code)
}
func (m *mockTripRepo) ListByMember(ctx context.Context, userID uuid.UUID, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.listByMember(ctx, userID, p)
}
func (m *mockTripRepo) Update(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.update(ctx, trip)
}
func (m *mockTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}
func (m *mockTripRepo) Spent(ctx context.Context, id uuid.UUID) (float64, error) {
	return m.spent(ctx, id)
}
func (m *mockTripRepo) ActivitiesOutside(ctx context.Context, id uuid.UUID, start, end time.Time) (int, error) {
	return m.outside(ctx, id, start, end)
}

type mockMemberRepo struct {
	add    func(ctx context.Context, m domain.TripMember) (domain.TripMember, error)
	get    func(ctx context.Context, tripID, userID uuid.UUID) (domain.TripMember, error)
	list   func(ctx context.Context, tripID uuid.UUID) ([]domain.TripMember, error)
	remove func(ctx context.Context, tripID, userID uuid.UUID) error
}

func (m *mockMemberRepo) Add(ctx context.Context, tm domain.TripMember) (domain.TripMember, error) {
	return m.add(ctx, tm)
}
func (m *mockMemberRepo) Get(ctx context.Context, tripID, userID uuid.UUID) (domain.TripMember, error) {
	return m.get(ctx, tripID, userID)
}
func (m *mockMemberRepo) List(ctx context.Context, tripID uuid.UUID) ([]domain.TripMember, error) {
	return m.list(ctx, tripID)
}
func (m *mockMemberRepo) Remove(ctx context.Context, tripID, userID uuid.UUID) error {
	return m.remove(ctx, tripID, userID)
}

type mockActivityRepo struct {
	create       func(ctx context.Context, a domain.Activity) (domain.Activity, error)
	getByID      func(ctx context.Context, tripID, id, viewer uuid.UUID) (domain.Activity, error)
	listByTripID func(ctx context.Context, tripID, viewer uuid.UUID) ([]domain.Activity, error)
	update       func(ctx context.Context, a domain.Activity, viewer uuid.UUID) (domain.Activity, error)
	setLockedIn  func(ctx context.Context, tripID, id uuid.UUID, locked bool, viewer uuid.UUID) (domain.Activity, error)
	delete       func(ctx context.Context, tripID, id uuid.UUID) error
}

func (m *mockActivityRepo) Create(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	return m.create(ctx, a)
}
func (m *mockActivityRepo) GetByID(ctx context.Context, tripID, id, viewer uuid.UUID) (domain.Activity, error) {
	return m.getByID(ctx, tripID, id, viewer)
}
func (m *mockActivityRepo) ListByTripID(ctx context.Context, tripID, viewer uuid.UUID) ([]domain.Activity, error) {
	return m.listByTripID(ctx, tripID, viewer)
}
func (m *mockActivityRepo) Update(ctx context.Context, a domain.Activity, viewer uuid.UUID) (domain.Activity, error) {
	return m.update(ctx, a, viewer)
}
func (m *mockActivityRepo) SetLockedIn(ctx context.Context, tripID, id uuid.UUID, locked bool, viewer uuid.UUID) (domain.Activity, error) {
	return m.setLockedIn(ctx, tripID, id, locked, viewer)
}
func (m *mockActivityRepo) Delete(ctx context.Context, tripID, id uuid.UUID) error {
	return m.delete(ctx, tripID, id)
}

type mockVoteRepo struct {
	add            func(ctx context.Context, activityID, userID uuid.UUID) error
	remove         func(ctx context.Context, activityID, userID uuid.UUID) error
	exists         func(ctx context.Context, activityID, userID uuid.UUID) (bool, error)
	count          func(ctx context.Context, activityID uuid.UUID) (int, error)
	listByActivity func(ctx context.Context, activityID uuid.UUID) ([]domain.ActivityVote, error)
}

func (m *mockVoteRepo) Add(ctx context.Context, activityID, userID uuid.UUID) error {
	return m.add(ctx, activityID, userID)
}
func (m *mockVoteRepo) Remove(ctx context.Context, activityID, userID uuid.UUID) error {
	return m.remove(ctx, activityID, userID)
}
func (m *mockVoteRepo) Exists(ctx context.Context, activityID, userID uuid.UUID) (bool, error) {
	return m.exists(ctx, activityID, userID)
}
func (m *mockVoteRepo) Count(ctx context.Context, activityID uuid.UUID) (int, error) {
	return m.count(ctx, activityID)
}
func (m *mockVoteRepo) ListByActivity(ctx context.Context, activityID uuid.UUID) ([]domain.ActivityVote, error) {
	return m.listByActivity(ctx, activityID)
}

// compile-time checks: the mocks must satisfy the repo interfaces.
var (
	_ repo.TripRepo     = (*mockTripRepo)(nil)
	_ repo.MemberRepo   = (*mockMemberRepo)(nil)
	_ repo.ActivityRepo = (*mockActivityRepo)(nil)
	_ repo.VoteRepo     = (*mockVoteRepo)(nil)
)

// spyCache is an in-memory cache.Cache that stores JSON like the Redis
// implementation does and records invalidated tags.
type spyCache struct {
	mu          sync.Mutex
	values      map[string][]byte
	versions    map[string]int64
	hits        int
	invalidated []string
}

func newSpyCache() *spyCache {
	return &spyCache{values: map[string][]byte{}, versions: map[string]int64{}}
}

func (c *spyCache) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.values[key]
	if !ok {
		return false, nil
	}
	c.hits++
	return true, json.Unmarshal(data, dest)
}

func (c *spyCache) Set(_ context.Context, _ string, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.values[key] = data
	return nil
}

func (c *spyCache) Invalidate(_ context.Context, tag string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidated = append(c.invalidated, tag)
	c.versions[tag]++
	c.values = map[string][]byte{}
	return nil
}

func (c *spyCache) Version(_ context.Context, tag string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions[tag], nil
}

var _ cache.Cache = (*spyCache)(nil)

// ---- fixtures --------------------------------------------------------------

var (
	tripStart = time.Date(2025, 7, 16, 0, 0, 0, 0, time.UTC)
	tripEnd   = time.Date(2025, 7, 18, 0, 0, 0, 0, time.UTC)
)

func session() domain.Session {
	return domain.Session{UserID: uuid.New(), Email: "ana@example.com"}
}

func fixtureTrip(id, creator uuid.UUID) domain.Trip {
	return domain.Trip{
		ID:          id,
		Name:        "Lisbon Long Weekend",
		Destination: "Lisbon",
		StartDate:   tripStart,
		EndDate:     tripEnd,
		Currency:    "EUR",
		CreatorID:   creator,
		TripCode:    "ABCD2345",
	}
}

func fixtureActivity(tripID uuid.UUID) domain.Activity {
	return domain.Activity{
		TripID:        tripID,
		Title:         "Tram 28 ride",
		Category:      domain.CategorySightseeing,
		Date:          tripStart.AddDate(0, 0, 1),
		Time:          "10:00",
		Location:      "Martim Moniz",
		EstimatedCost: 3,
	}
}

// membersWith returns a MemberRepo in which only the given users belong to
// any trip, with the given role.
func membersWith(roles map[uuid.UUID]domain.Role) *mockMemberRepo {
	return &mockMemberRepo{
		get: func(_ context.Context, tripID, userID uuid.UUID) (domain.TripMember, error) {
			role, ok := roles[userID]
			if !ok {
				return domain.TripMember{}, domain.ErrNotFound
			}
			return domain.TripMember{TripID: tripID, UserID: userID, Role: role}, nil
		},
	}
}
