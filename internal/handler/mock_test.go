package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/api"
	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/handler"
	"github.com/pkordes/trip-planner/internal/itinerary"
	"github.com/pkordes/trip-planner/internal/middleware"
	"github.com/pkordes/trip-planner/internal/service"
)

// Test doubles for the handler's service interfaces.
// Set only the method fields your test needs.

type mockTripServicer struct {
	create       func(ctx context.Context, sess domain.Session, trip domain.Trip) (domain.Trip, error)
	get          func(ctx context.Context, sess domain.Session, id uuid.UUID) (domain.Trip, error)
	list         func(ctx context.Context, sess domain.Session, p domain.PaginationParams) ([]domain.Trip, int64, error)
	update       func(ctx context.Context, sess domain.Session, trip domain.Trip) (domain.Trip, error)
	delete       func(ctx context.Context, sess domain.Session, id uuid.UUID) error
	join         func(ctx context.Context, sess domain.Session, code string) (domain.Trip, error)
	members      func(ctx context.Context, sess domain.Session, tripID uuid.UUID) ([]domain.TripMember, error)
	removeMember func(ctx context.Context, sess domain.Session, tripID, userID uuid.UUID) error
	budgetUsage  func(ctx context.Context, sess domain.Session, tripID uuid.UUID) (domain.BudgetUsage, error)
}

func (m *mockTripServicer) Create(ctx context.Context, sess domain.Session, t domain.Trip) (domain.Trip, error) {
	return m.create(ctx, sess, t)
}
func (m *mockTripServicer) Get(ctx context.Context, sess domain.Session, id uuid.UUID) (domain.Trip, error) {
	return m.get(ctx, sess, id)
}
func (m *mockTripServicer) List(ctx context.Context, sess domain.Session, p domain.PaginationParams) ([]domain.Trip, int64, error) {
	return m.list(ctx, sess, p)
}
func (m *mockTripServicer) Update(ctx context.Context, sess domain.Session, t domain.Trip) (domain.Trip, error) {
	return m.update(ctx, sess, t)
}
func (m *mockTripServicer) Delete(ctx context.Context, sess domain.Session, id uuid.UUID) error {
	return m.delete(ctx, sess, id)
}
func (m *mockTripServicer) Join(ctx context.Context, sess domain.Session, code string) (domain.Trip, error) {
	return m.join(ctx, sess, code)
}
func (m *mockTripServicer) Members(ctx context.Context, sess domain.Session, tripID uuid.UUID) ([]domain.TripMember, error) {
	return m.members(ctx, sess, tripID)
}
func (m *mockTripServicer) RemoveMember(ctx context.Context, sess domain.Session, tripID, userID uuid.UUID) error {
	return m.removeMember(ctx, sess, tripID, userID)
}
func (m *mockTripServicer) BudgetUsage(ctx context.Context, sess domain.Session, tripID uuid.UUID) (domain.BudgetUsage, error) {
	return m.budgetUsage(ctx, sess, tripID)
}

type mockActivityServicer struct {
	create      func(ctx context.Context, sess domain.Session, a domain.Activity) (domain.Activity, error)
	get         func(ctx context.Context, sess domain.Session, tripID, id uuid.UUID) (domain.Activity, error)
	list        func(ctx context.Context, sess domain.Session, tripID uuid.UUID) ([]domain.Activity, error)
	update      func(ctx context.Context, sess domain.Session, a domain.Activity) (domain.Activity, error)
	delete      func(ctx context.Context, sess domain.Session, tripID, id uuid.UUID) error
	setLockedIn func(ctx context.Context, sess domain.Session, tripID, id uuid.UUID, locked bool) (domain.Activity, error)
}

func (m *mockActivityServicer) Create(ctx context.Context, sess domain.Session, a domain.Activity) (domain.Activity, error) {
	return m.create(ctx, sess, a)
}
func (m *mockActivityServicer) Get(ctx context.Context, sess domain.Session, tripID, id uuid.UUID) (domain.Activity, error) {
	return m.get(ctx, sess, tripID, id)
}
func (m *mockActivityServicer) List(ctx context.Context, sess domain.Session, tripID uuid.UUID) ([]domain.Activity, error) {
	return m.list(ctx, sess, tripID)
}
func (m *mockActivityServicer) Update(ctx context.Context, sess domain.Session, a domain.Activity) (domain.Activity, error) {
	return m.update(ctx, sess, a)
}
func (m *mockActivityServicer) Delete(ctx context.Context, sess domain.Session, tripID, id uuid.UUID) error {
	return m.delete(ctx, sess, tripID, id)
}
func (m *mockActivityServicer) SetLockedIn(ctx context.Context, sess domain.Session, tripID, id uuid.UUID, locked bool) (domain.Activity, error) {
	return m.setLockedIn(ctx, sess, tripID, id, locked)
}

type mockVoteServicer struct {
	toggle    func(ctx context.Context, sess domain.Session, tripID, activityID uuid.UUID) (service.VoteResult, error)
	voters    func(ctx context.Context, sess domain.Session, tripID, activityID uuid.UUID) ([]domain.ActivityVote, error)
	threshold int
}

func (m *mockVoteServicer) Toggle(ctx context.Context, sess domain.Session, tripID, activityID uuid.UUID) (service.VoteResult, error) {
	return m.toggle(ctx, sess, tripID, activityID)
}
func (m *mockVoteServicer) Voters(ctx context.Context, sess domain.Session, tripID, activityID uuid.UUID) ([]domain.ActivityVote, error) {
	return m.voters(ctx, sess, tripID, activityID)
}
func (m *mockVoteServicer) Threshold() int { return m.threshold }

type mockItineraryServicer struct {
	itinerary func(ctx context.Context, sess domain.Session, tripID uuid.UUID) (itinerary.Itinerary, error)
	day       func(ctx context.Context, sess domain.Session, tripID uuid.UUID, date time.Time) (itinerary.Day, error)
	freeSlots func(ctx context.Context, sess domain.Session, tripID uuid.UUID, minMinutes int) ([]domain.TimeSlot, error)
}

func (m *mockItineraryServicer) Itinerary(ctx context.Context, sess domain.Session, tripID uuid.UUID) (itinerary.Itinerary, error) {
	return m.itinerary(ctx, sess, tripID)
}
func (m *mockItineraryServicer) Day(ctx context.Context, sess domain.Session, tripID uuid.UUID, date time.Time) (itinerary.Day, error) {
	return m.day(ctx, sess, tripID, date)
}
func (m *mockItineraryServicer) FreeSlots(ctx context.Context, sess domain.Session, tripID uuid.UUID, minMinutes int) ([]domain.TimeSlot, error) {
	return m.freeSlots(ctx, sess, tripID, minMinutes)
}

// compile-time checks: the mocks must satisfy the handler interfaces.
var (
	_ handler.TripServicer      = (*mockTripServicer)(nil)
	_ handler.ActivityServicer  = (*mockActivityServicer)(nil)
	_ handler.VoteServicer      = (*mockVoteServicer)(nil)
	_ handler.ItineraryServicer = (*mockItineraryServicer)(nil)
)

// ---- helpers ---------------------------------------------------------------

// caller is the session every authenticated test request runs as.
var caller = domain.Session{UserID: uuid.MustParse("5b0c8c1e-8d7e-4a7f-9d0a-0c6f6b7a9e11"), Email: "ana@example.com"}

// services groups the mocks a test can configure. Zero values are fine for
// services a test never reaches.
type services struct {
	trips       *mockTripServicer
	activities  *mockActivityServicer
	votes       *mockVoteServicer
	itineraries *mockItineraryServicer
}

// newHTTPHandler wires a Server with the given mocks into its chi router,
// authenticating every request as caller.
func newHTTPHandler(s services) http.Handler {
	if s.trips == nil {
		s.trips = &mockTripServicer{}
	}
	if s.activities == nil {
		s.activities = &mockActivityServicer{}
	}
	if s.votes == nil {
		s.votes = &mockVoteServicer{threshold: 3}
	}
	if s.itineraries == nil {
		s.itineraries = &mockItineraryServicer{}
	}
	srv := handler.NewServer(s.trips, s.activities, s.votes, s.itineraries, slog.New(slog.NewJSONHandler(io.Discard, nil)))
	fakeAuth := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithSession(r.Context(), caller)))
		})
	}
	return srv.Routes(fakeAuth)
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func doRaw(t *testing.T, h http.Handler, method, path string, body io.Reader) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[api.ErrorResponse](t, rec).Error.Code
}

func tripFixture() domain.Trip {
	budget := 1200.0
	return domain.Trip{
		ID:          uuid.New(),
		Name:        "Summer in Lisbon",
		Destination: "Lisbon",
		StartDate:   time.Date(2025, 7, 16, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, 7, 18, 0, 0, 0, 0, time.UTC),
		Budget:      &budget,
		Currency:    "EUR",
		CreatorID:   caller.UserID,
		TripCode:    "ABCD2345",
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}
}

func activityFixture(tripID uuid.UUID) domain.Activity {
	return domain.Activity{
		ID:            uuid.New(),
		TripID:        tripID,
		Title:         "Tram 28 ride",
		Category:      domain.CategorySightseeing,
		Date:          time.Date(2025, 7, 17, 0, 0, 0, 0, time.UTC),
		Time:          "10:00",
		Location:      "Martim Moniz",
		EstimatedCost: 3,
		CreatorID:     caller.UserID,
		VoteCount:     2,
	}
}
