package client

import (
	"context"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-planner/internal/api"
	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/store"
	"github.com/pkordes/trip-planner/internal/vote"
)

var _ store.Backend = (*Client)(nil)

// ListActivities returns a trip's activities ordered by date then time,
// with the caller's voted flag.
func (c *Client) ListActivities(ctx context.Context, tripID uuid.UUID) ([]domain.Activity, error) {
	var out []api.Activity
	if err := c.do(ctx, http.MethodGet, tripPath(tripID)+"/activities", nil, &out); err != nil {
		return nil, err
	}
	return activitiesFromAPI(out), nil
}

// GetActivity fetches one activity.
func (c *Client) GetActivity(ctx context.Context, tripID, id uuid.UUID) (domain.Activity, error) {
	var out api.Activity
	if err := c.do(ctx, http.MethodGet, activityPath(tripID, id), nil, &out); err != nil {
		return domain.Activity{}, err
	}
	return activityFromAPI(out), nil
}

// CreateActivity stores a new activity in a.TripID. a.ID is ignored.
func (c *Client) CreateActivity(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	var out api.Activity
	if err := c.do(ctx, http.MethodPost, tripPath(a.TripID)+"/activities", activityRequest(a), &out); err != nil {
		return domain.Activity{}, err
	}
	return activityFromAPI(out), nil
}

// UpdateActivity replaces the editable fields of a.
func (c *Client) UpdateActivity(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	var out api.Activity
	if err := c.do(ctx, http.MethodPut, activityPath(a.TripID, a.ID), activityRequest(a), &out); err != nil {
		return domain.Activity{}, err
	}
	return activityFromAPI(out), nil
}

// DeleteActivity deletes an activity.
func (c *Client) DeleteActivity(ctx context.Context, tripID, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, activityPath(tripID, id), nil, nil)
}

// LockActivity sets the authoritative lock-in flag. Only the trip creator
// may.
func (c *Client) LockActivity(ctx context.Context, tripID, id uuid.UUID, locked bool) (domain.Activity, error) {
	var out api.Activity
	if err := c.do(ctx, http.MethodPut, activityPath(tripID, id)+"/lock", api.LockRequest{Locked: &locked}, &out); err != nil {
		return domain.Activity{}, err
	}
	return activityFromAPI(out), nil
}

// ToggleVote adds or removes the caller's vote and returns the new tally.
func (c *Client) ToggleVote(ctx context.Context, tripID, activityID uuid.UUID) (vote.State, error) {
	out, err := c.Vote(ctx, tripID, activityID)
	if err != nil {
		return vote.State{}, err
	}
	return vote.State{Count: out.VoteCount, Voted: out.Voted}, nil
}

// Vote is ToggleVote returning the full server response, lock progress
// included.
func (c *Client) Vote(ctx context.Context, tripID, activityID uuid.UUID) (api.VoteResult, error) {
	var out api.VoteResult
	if err := c.do(ctx, http.MethodPost, activityPath(tripID, activityID)+"/vote", nil, &out); err != nil {
		return api.VoteResult{}, err
	}
	return out, nil
}

// Votes lists who voted for an activity.
func (c *Client) Votes(ctx context.Context, tripID, activityID uuid.UUID) ([]domain.ActivityVote, error) {
	var out []api.Vote
	if err := c.do(ctx, http.MethodGet, activityPath(tripID, activityID)+"/votes", nil, &out); err != nil {
		return nil, err
	}
	votes := make([]domain.ActivityVote, len(out))
	for i, v := range out {
		votes[i] = domain.ActivityVote{ActivityID: activityID, UserID: v.UserID, CreatedAt: v.CreatedAt}
	}
	return votes, nil
}

// Itinerary returns the server-built day-by-day plan.
func (c *Client) Itinerary(ctx context.Context, tripID uuid.UUID) (api.Itinerary, error) {
	var out api.Itinerary
	if err := c.do(ctx, http.MethodGet, tripPath(tripID)+"/itinerary", nil, &out); err != nil {
		return api.Itinerary{}, err
	}
	return out, nil
}

// FreeSlots returns unscheduled windows of at least minMinutes. Zero uses
// the server default.
func (c *Client) FreeSlots(ctx context.Context, tripID uuid.UUID, minMinutes int) ([]domain.TimeSlot, error) {
	path := tripPath(tripID) + "/free-slots"
	if minMinutes > 0 {
		path += "?min_minutes=" + strconv.Itoa(minMinutes)
	}
	var out []api.TimeSlot
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	slots := make([]domain.TimeSlot, len(out))
	for i, s := range out {
		slots[i] = domain.TimeSlot{Date: s.Date.Time, Start: s.Start, End: s.End, DurationMinutes: s.DurationMinutes}
	}
	return slots, nil
}

func activityRequest(a domain.Activity) api.ActivityRequest {
	cost := a.EstimatedCost
	return api.ActivityRequest{
		Title:         a.Title,
		Category:      string(a.Category),
		Date:          &openapi_types.Date{Time: a.Date},
		Time:          a.Time,
		EndTime:       a.EndTime,
		Location:      a.Location,
		EstimatedCost: &cost,
		Notes:         a.Notes,
		ImageURL:      a.ImageURL,
	}
}

func activityFromAPI(a api.Activity) domain.Activity {
	out := domain.Activity{
		ID:            a.ID,
		TripID:        a.TripID,
		Title:         a.Title,
		Category:      domain.Category(a.Category),
		Date:          a.Date.Time,
		Time:          a.Time,
		Location:      a.Location,
		EstimatedCost: a.EstimatedCost,
		CreatorID:     a.CreatorID,
		IsLockedIn:    a.IsLockedIn,
		VoteCount:     a.VoteCount,
		Voted:         a.Voted,
		LockProgress:  a.LockProgress,
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
	if a.EndTime != nil {
		out.EndTime = *a.EndTime
	}
	if a.Notes != nil {
		out.Notes = *a.Notes
	}
	if a.ImageURL != nil {
		out.ImageURL = *a.ImageURL
	}
	return out
}

func activitiesFromAPI(in []api.Activity) []domain.Activity {
	out := make([]domain.Activity, len(in))
	for i, a := range in {
		out[i] = activityFromAPI(a)
	}
	return out
}
