package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/service"
)

// activityEnv wires an ActivityService whose caller is a member of one trip.
type activityEnv struct {
	sess  domain.Session
	trip  domain.Trip
	acts  *mockActivityRepo
	cache *spyCache
	svc   *service.ActivityService
}

func newActivityEnv(role domain.Role) *activityEnv {
	sess := session()
	trip := fixtureTrip(uuid.New(), uuid.New())
	env := &activityEnv{sess: sess, trip: trip, acts: &mockActivityRepo{}, cache: newSpyCache()}
	trips := &mockTripRepo{
		getByID: func(_ context.Context, id uuid.UUID) (domain.Trip, error) {
			if id != trip.ID {
				return domain.Trip{}, domain.ErrNotFound
			}
			return trip, nil
		},
	}
	env.svc = service.NewActivityService(trips, membersWith(map[uuid.UUID]domain.Role{sess.UserID: role}), env.acts, env.cache)
	return env
}

func TestActivityService_Create_Valid(t *testing.T) {
	env := newActivityEnv(domain.RoleMember)
	var saved domain.Activity
	env.acts.create = func(_ context.Context, a domain.Activity) (domain.Activity, error) {
		saved = a
		a.ID = uuid.New()
		return a, nil
	}

	input := fixtureActivity(env.trip.ID)
	input.IsLockedIn = true // ignored on create
	got, err := env.svc.Create(context.Background(), env.sess, input)

	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, got.ID)
	assert.Equal(t, env.sess.UserID, saved.CreatorID)
	assert.False(t, saved.IsLockedIn)
	assert.Equal(t, []string{env.trip.ID.String()}, env.cache.invalidated)
}

func TestActivityService_Create_OnTripBoundaries(t *testing.T) {
	for _, day := range []int{0, 2} {
		env := newActivityEnv(domain.RoleMember)
		env.acts.create = func(_ context.Context, a domain.Activity) (domain.Activity, error) { return a, nil }

		input := fixtureActivity(env.trip.ID)
		input.Date = tripStart.AddDate(0, 0, day)

		_, err := env.svc.Create(context.Background(), env.sess, input)

		assert.NoError(t, err, "day offset %d", day)
	}
}

func TestActivityService_Create_ValidationErrors(t *testing.T) {
	cases := map[string]func(*domain.Activity){
		"short title":        func(a *domain.Activity) { a.Title = "ab" },
		"unknown category":   func(a *domain.Activity) { a.Category = "karaoke" },
		"short location":     func(a *domain.Activity) { a.Location = "  x " },
		"before trip":        func(a *domain.Activity) { a.Date = tripStart.AddDate(0, 0, -1) },
		"after trip":         func(a *domain.Activity) { a.Date = tripEnd.AddDate(0, 0, 1) },
		"malformed time":     func(a *domain.Activity) { a.Time = "9am" },
		"unpadded time":      func(a *domain.Activity) { a.Time = "9:30" },
		"hour out of range":  func(a *domain.Activity) { a.Time = "24:00" },
		"malformed end time": func(a *domain.Activity) { a.EndTime = "11h" },
		"end before start":   func(a *domain.Activity) { a.EndTime = "09:59" },
		"end equals start":   func(a *domain.Activity) { a.EndTime = "10:00" },
		"negative cost":      func(a *domain.Activity) { a.EstimatedCost = -0.01 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			env := newActivityEnv(domain.RoleMember)
			input := fixtureActivity(env.trip.ID)
			mutate(&input)

			_, err := env.svc.Create(context.Background(), env.sess, input)

			assert.ErrorIs(t, err, domain.ErrValidation)
			assert.Empty(t, env.cache.invalidated, "nothing stored, nothing invalidated")
		})
	}
}

func TestActivityService_Create_NonMember(t *testing.T) {
	env := newActivityEnv(domain.RoleMember)

	_, err := env.svc.Create(context.Background(), session(), fixtureActivity(env.trip.ID))

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestActivityService_List_ReturnsEmptySlice(t *testing.T) {
	env := newActivityEnv(domain.RoleMember)
	env.acts.listByTripID = func(_ context.Context, _, _ uuid.UUID) ([]domain.Activity, error) { return nil, nil }

	got, err := env.svc.List(context.Background(), env.sess, env.trip.ID)

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestActivityService_Get_PassesViewer(t *testing.T) {
	env := newActivityEnv(domain.RoleMember)
	var viewer uuid.UUID
	env.acts.getByID = func(_ context.Context, _, id, v uuid.UUID) (domain.Activity, error) {
		viewer = v
		return domain.Activity{ID: id, Voted: true}, nil
	}

	got, err := env.svc.Get(context.Background(), env.sess, env.trip.ID, uuid.New())

	require.NoError(t, err)
	assert.True(t, got.Voted)
	assert.Equal(t, env.sess.UserID, viewer)
}

func TestActivityService_Update_Valid(t *testing.T) {
	env := newActivityEnv(domain.RoleMember)
	env.acts.update = func(_ context.Context, a domain.Activity, _ uuid.UUID) (domain.Activity, error) { return a, nil }

	input := fixtureActivity(env.trip.ID)
	input.ID = uuid.New()
	input.EndTime = "11:30"

	got, err := env.svc.Update(context.Background(), env.sess, input)

	require.NoError(t, err)
	assert.Equal(t, "11:30", got.EndTime)
	assert.Len(t, env.cache.invalidated, 1)
}

func TestActivityService_Delete(t *testing.T) {
	env := newActivityEnv(domain.RoleMember)
	env.acts.delete = func(_ context.Context, _, _ uuid.UUID) error { return nil }

	err := env.svc.Delete(context.Background(), env.sess, env.trip.ID, uuid.New())

	require.NoError(t, err)
	assert.Len(t, env.cache.invalidated, 1)
}

func TestActivityService_Delete_NotFound(t *testing.T) {
	env := newActivityEnv(domain.RoleMember)
	env.acts.delete = func(_ context.Context, _, _ uuid.UUID) error { return domain.ErrNotFound }

	err := env.svc.Delete(context.Background(), env.sess, env.trip.ID, uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestActivityService_SetLockedIn_CreatorOnly(t *testing.T) {
	member := newActivityEnv(domain.RoleMember)

	_, err := member.svc.SetLockedIn(context.Background(), member.sess, member.trip.ID, uuid.New(), true)

	assert.ErrorIs(t, err, domain.ErrForbidden)

	creator := newActivityEnv(domain.RoleCreator)
	creator.acts.setLockedIn = func(_ context.Context, _, id uuid.UUID, locked bool, _ uuid.UUID) (domain.Activity, error) {
		return domain.Activity{ID: id, IsLockedIn: locked}, nil
	}

	got, err := creator.svc.SetLockedIn(context.Background(), creator.sess, creator.trip.ID, uuid.New(), true)

	require.NoError(t, err)
	assert.True(t, got.IsLockedIn)
}
