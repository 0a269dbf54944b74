package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/service"
)

func validTrip() domain.Trip {
	return domain.Trip{
		Name:        "Summer in Lisbon",
		Destination: "Lisbon",
		StartDate:   tripStart,
		EndDate:     tripEnd,
	}
}

func fixedCode(code string) service.TripOption {
	return service.WithCodeGenerator(func() (string, error) { return code, nil })
}

// ---- Create ----------------------------------------------------------------

func TestTripService_Create_Valid(t *testing.T) {
	sess := session()
	var saved domain.Trip
	trips := &mockTripRepo{
		create: func(_ context.Context, trip domain.Trip) (domain.Trip, error) {
			saved = trip
			trip.ID = uuid.New()
			return trip, nil
		},
	}
	svc := service.NewTripService(trips, &mockMemberRepo{}, nil, fixedCode("ABCD2345"))

	got, err := svc.Create(context.Background(), sess, validTrip())

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, sess.UserID, saved.CreatorID, "caller becomes creator")
	assert.Equal(t, "ABCD2345", saved.TripCode)
	assert.Equal(t, domain.DefaultCurrency, saved.Currency)
}

func TestTripService_Create_TrimsName(t *testing.T) {
	trips := &mockTripRepo{
		create: func(_ context.Context, trip domain.Trip) (domain.Trip, error) { return trip, nil },
	}
	svc := service.NewTripService(trips, &mockMemberRepo{}, nil, fixedCode("ABCD2345"))

	input := validTrip()
	input.Name = "  Porto  "

	got, err := svc.Create(context.Background(), session(), input)

	require.NoError(t, err)
	assert.Equal(t, "Porto", got.Name)
}

func TestTripService_Create_ValidationErrors(t *testing.T) {
	negative := -1.0
	cases := map[string]func(*domain.Trip){
		"short name":        func(tr *domain.Trip) { tr.Name = " ab " },
		"short destination": func(tr *domain.Trip) { tr.Destination = "L" },
		"end before start":  func(tr *domain.Trip) { tr.EndDate = tr.StartDate.AddDate(0, 0, -1) },
		"missing dates":     func(tr *domain.Trip) { tr.StartDate = tr.StartDate.AddDate(-3000, 0, 0) },
		"negative budget":   func(tr *domain.Trip) { tr.Budget = &negative },
		"bad currency":      func(tr *domain.Trip) { tr.Currency = "EURO" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			svc := service.NewTripService(&mockTripRepo{}, &mockMemberRepo{}, nil, fixedCode("ABCD2345"))
			input := validTrip()
			mutate(&input)

			_, err := svc.Create(context.Background(), session(), input)

			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestTripService_Create_SingleDayTrip(t *testing.T) {
	trips := &mockTripRepo{
		create: func(_ context.Context, trip domain.Trip) (domain.Trip, error) { return trip, nil },
	}
	svc := service.NewTripService(trips, &mockMemberRepo{}, nil, fixedCode("ABCD2345"))

	input := validTrip()
	input.EndDate = input.StartDate

	_, err := svc.Create(context.Background(), session(), input)

	assert.NoError(t, err)
}

func TestTripService_Create_NoSession(t *testing.T) {
	svc := service.NewTripService(&mockTripRepo{}, &mockMemberRepo{}, nil)

	_, err := svc.Create(context.Background(), domain.Session{}, validTrip())

	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestTripService_Create_RetriesCodeCollision(t *testing.T) {
	codes := []string{"AAAAAAAA", "BBBBBBBB", "CCCCCCCC"}
	next := 0
	gen := service.WithCodeGenerator(func() (string, error) {
		c := codes[next]
		next++
		return c, nil
	})
	trips := &mockTripRepo{
		create: func(_ context.Context, trip domain.Trip) (domain.Trip, error) {
			if trip.TripCode != "CCCCCCCC" {
				return domain.Trip{}, domain.ErrConflict
			}
			return trip, nil
		},
	}
	svc := service.NewTripService(trips, &mockMemberRepo{}, nil, gen)

	got, err := svc.Create(context.Background(), session(), validTrip())

	require.NoError(t, err)
	assert.Equal(t, "CCCCCCCC", got.TripCode)
	assert.Equal(t, 3, next)
}

func TestTripService_Create_GivesUpAfterFiveCollisions(t *testing.T) {
	calls := 0
	trips := &mockTripRepo{
		create: func(_ context.Context, _ domain.Trip) (domain.Trip, error) {
			calls++
			return domain.Trip{}, domain.ErrConflict
		},
	}
	svc := service.NewTripService(trips, &mockMemberRepo{}, nil, fixedCode("AAAAAAAA"))

	_, err := svc.Create(context.Background(), session(), validTrip())

	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 5, calls)
}

func TestTripService_Create_RepoError(t *testing.T) {
	dbErr := errors.New("connection reset")
	trips := &mockTripRepo{
		create: func(_ context.Context, _ domain.Trip) (domain.Trip, error) { return domain.Trip{}, dbErr },
	}
	svc := service.NewTripService(trips, &mockMemberRepo{}, nil, fixedCode("AAAAAAAA"))

	_, err := svc.Create(context.Background(), session(), validTrip())

	assert.ErrorIs(t, err, dbErr)
}

// ---- Get / List ------------------------------------------------------------

func TestTripService_Get_Member(t *testing.T) {
	sess := session()
	tripID := uuid.New()
	trips := &mockTripRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Trip, error) {
			return fixtureTrip(id, sess.UserID), nil
		},
	}
	svc := service.NewTripService(trips, membersWith(map[uuid.UUID]domain.Role{sess.UserID: domain.RoleMember}), nil)

	got, err := svc.Get(context.Background(), sess, tripID)

	require.NoError(t, err)
	assert.Equal(t, tripID, got.ID)
}

func TestTripService_Get_NonMemberSeesNotFound(t *testing.T) {
	svc := service.NewTripService(&mockTripRepo{}, membersWith(nil), nil)

	_, err := svc.Get(context.Background(), session(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripService_List_ReturnsEmptySlice(t *testing.T) {
	trips := &mockTripRepo{
		listByMember: func(_ context.Context, _ uuid.UUID, _ domain.PaginationParams) ([]domain.Trip, int64, error) {
			return nil, 0, nil
		},
	}
	svc := service.NewTripService(trips, &mockMemberRepo{}, nil)

	got, total, err := svc.List(context.Background(), session(), domain.NewPaginationParams(nil, nil))

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
	assert.Zero(t, total)
}

func TestTripService_List_ScopedToCaller(t *testing.T) {
	sess := session()
	var asked uuid.UUID
	trips := &mockTripRepo{
		listByMember: func(_ context.Context, userID uuid.UUID, _ domain.PaginationParams) ([]domain.Trip, int64, error) {
			asked = userID
			return []domain.Trip{{ID: uuid.New()}}, 1, nil
		},
	}
	svc := service.NewTripService(trips, &mockMemberRepo{}, nil)

	_, total, err := svc.List(context.Background(), sess, domain.NewPaginationParams(nil, nil))

	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, sess.UserID, asked)
}

// ---- Update / Delete -------------------------------------------------------

func TestTripService_Update_InvalidatesCache(t *testing.T) {
	sess := session()
	c := newSpyCache()
	trips := &mockTripRepo{
		outside: noneOutside,
		update:  func(_ context.Context, trip domain.Trip) (domain.Trip, error) { return trip, nil },
	}
	svc := service.NewTripService(trips, membersWith(map[uuid.UUID]domain.Role{sess.UserID: domain.RoleMember}), c)

	input := fixtureTrip(uuid.New(), uuid.New())
	_, err := svc.Update(context.Background(), sess, input)

	require.NoError(t, err)
	assert.Equal(t, []string{input.ID.String()}, c.invalidated)
}

func noneOutside(context.Context, uuid.UUID, time.Time, time.Time) (int, error) { return 0, nil }

func TestTripService_Update_ShrinkingPastActivitiesRejected(t *testing.T) {
	sess := session()
	input := fixtureTrip(uuid.New(), sess.UserID)
	input.EndDate = input.StartDate
	var gotStart, gotEnd time.Time
	trips := &mockTripRepo{
		outside: func(_ context.Context, id uuid.UUID, start, end time.Time) (int, error) {
			assert.Equal(t, input.ID, id)
			gotStart, gotEnd = start, end
			return 1, nil
		},
		// update is unset: reaching it panics.
	}
	svc := service.NewTripService(trips, membersWith(map[uuid.UUID]domain.Role{sess.UserID: domain.RoleMember}), nil)

	_, err := svc.Update(context.Background(), sess, input)

	require.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, err.Error(), "1 activities fall outside")
	assert.True(t, gotStart.Equal(input.StartDate))
	assert.True(t, gotEnd.Equal(input.StartDate))
}

func TestTripService_Update_OutsideCheckError(t *testing.T) {
	sess := session()
	dbErr := errors.New("connection reset")
	trips := &mockTripRepo{
		outside: func(context.Context, uuid.UUID, time.Time, time.Time) (int, error) { return 0, dbErr },
	}
	svc := service.NewTripService(trips, membersWith(map[uuid.UUID]domain.Role{sess.UserID: domain.RoleMember}), nil)

	_, err := svc.Update(context.Background(), sess, fixtureTrip(uuid.New(), sess.UserID))

	assert.ErrorIs(t, err, dbErr)
	assert.NotErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Update_Invalid(t *testing.T) {
	sess := session()
	svc := service.NewTripService(&mockTripRepo{}, membersWith(map[uuid.UUID]domain.Role{sess.UserID: domain.RoleCreator}), nil)

	input := fixtureTrip(uuid.New(), sess.UserID)
	input.Name = ""

	_, err := svc.Update(context.Background(), sess, input)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Delete_CreatorOnly(t *testing.T) {
	creator, member := session(), session()
	deleted := false
	trips := &mockTripRepo{
		delete: func(_ context.Context, _ uuid.UUID) error {
			deleted = true
			return nil
		},
	}
	members := membersWith(map[uuid.UUID]domain.Role{
		creator.UserID: domain.RoleCreator,
		member.UserID:  domain.RoleMember,
	})
	svc := service.NewTripService(trips, members, nil)

	err := svc.Delete(context.Background(), member, uuid.New())
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.False(t, deleted)

	err = svc.Delete(context.Background(), creator, uuid.New())
	require.NoError(t, err)
	assert.True(t, deleted)
}

// ---- Join / members --------------------------------------------------------

func TestTripService_Join_NormalizesCode(t *testing.T) {
	sess := session()
	trip := fixtureTrip(uuid.New(), uuid.New())
	var added domain.TripMember
	trips := &mockTripRepo{
		getByCode: func(_ context.Context, code string) (domain.Trip, error) {
			if code != trip.TripCode {
				return domain.Trip{}, domain.ErrNotFound
			}
			return trip, nil
		},
	}
	members := &mockMemberRepo{
		add: func(_ context.Context, m domain.TripMember) (domain.TripMember, error) {
			added = m
			return m, nil
		},
	}
	svc := service.NewTripService(trips, members, nil)

	got, err := svc.Join(context.Background(), sess, "  abcd2345 ")

	require.NoError(t, err)
	assert.Equal(t, trip.ID, got.ID)
	assert.Equal(t, domain.TripMember{TripID: trip.ID, UserID: sess.UserID, Role: domain.RoleMember}, added)
}

func TestTripService_Join_UnknownCode(t *testing.T) {
	trips := &mockTripRepo{
		getByCode: func(_ context.Context, _ string) (domain.Trip, error) { return domain.Trip{}, domain.ErrNotFound },
	}
	svc := service.NewTripService(trips, &mockMemberRepo{}, nil)

	_, err := svc.Join(context.Background(), session(), "ZZZZZZZZ")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTripService_Join_EmptyCode(t *testing.T) {
	svc := service.NewTripService(&mockTripRepo{}, &mockMemberRepo{}, nil)

	_, err := svc.Join(context.Background(), session(), "   ")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_RemoveMember(t *testing.T) {
	creator, member, other := session(), session(), session()
	roles := map[uuid.UUID]domain.Role{
		creator.UserID: domain.RoleCreator,
		member.UserID:  domain.RoleMember,
		other.UserID:   domain.RoleMember,
	}

	tests := []struct {
		name    string
		caller  domain.Session
		target  uuid.UUID
		wantErr error
	}{
		{"creator removes member", creator, member.UserID, nil},
		{"member leaves", member, member.UserID, nil},
		{"member removes other", member, other.UserID, domain.ErrForbidden},
		{"creator removes self", creator, creator.UserID, domain.ErrConflict},
		{"stranger", session(), member.UserID, domain.ErrNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			members := membersWith(roles)
			members.remove = func(_ context.Context, _, _ uuid.UUID) error { return nil }
			svc := service.NewTripService(&mockTripRepo{}, members, nil)

			err := svc.RemoveMember(context.Background(), tc.caller, uuid.New(), tc.target)

			if tc.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

// ---- BudgetUsage -----------------------------------------------------------

func TestTripService_BudgetUsage(t *testing.T) {
	sess := session()
	budget := 200.0
	trips := &mockTripRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Trip, error) {
			trip := fixtureTrip(id, sess.UserID)
			trip.Budget = &budget
			return trip, nil
		},
		spent: func(_ context.Context, _ uuid.UUID) (float64, error) { return 50, nil },
	}
	svc := service.NewTripService(trips, membersWith(map[uuid.UUID]domain.Role{sess.UserID: domain.RoleCreator}), nil)

	got, err := svc.BudgetUsage(context.Background(), sess, uuid.New())

	require.NoError(t, err)
	assert.InDelta(t, 50, got.Spent, 0.001)
	require.NotNil(t, got.Remaining)
	assert.InDelta(t, 150, *got.Remaining, 0.001)
	require.NotNil(t, got.Ratio)
	assert.InDelta(t, 0.25, *got.Ratio, 0.001)
}

// ---- trip codes ------------------------------------------------------------

func TestNewTripCode(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := service.NewTripCode()
		require.NoError(t, err)
		assert.Len(t, code, service.TripCodeLength)
		assert.Regexp(t, `^[A-HJ-NP-Z2-9]+$`, code)
		seen[code] = true
	}
	assert.Greater(t, len(seen), 45, "codes should be effectively unique")
}
