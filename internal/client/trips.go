package client

import (
	"context"
	"net/http"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-planner/internal/api"
	"github.com/pkordes/trip-planner/internal/domain"
)

// TripPage is one page of ListTrips.
type TripPage struct {
	Trips []domain.Trip
	Page  int
	Limit int
	Total int
	Pages int
}

// CreateTrip creates t; the caller becomes its creator.
func (c *Client) CreateTrip(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	var out api.Trip
	if err := c.do(ctx, http.MethodPost, "/trips", tripRequest(t), &out); err != nil {
		return domain.Trip{}, err
	}
	return tripFromAPI(out), nil
}

// ListTrips returns the caller's trips, newest first. Zero page or limit
// uses the server default.
func (c *Client) ListTrips(ctx context.Context, page, limit int) (TripPage, error) {
	var out api.TripList
	if err := c.do(ctx, http.MethodGet, "/trips"+pageQuery(page, limit), nil, &out); err != nil {
		return TripPage{}, err
	}
	trips := make([]domain.Trip, len(out.Data))
	for i, t := range out.Data {
		trips[i] = tripFromAPI(t)
	}
	return TripPage{Trips: trips, Page: out.Pagination.Page, Limit: out.Pagination.Limit, Total: out.Pagination.Total, Pages: out.Pagination.TotalPages}, nil
}

// GetTrip fetches one trip.
func (c *Client) GetTrip(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	var out api.Trip
	if err := c.do(ctx, http.MethodGet, tripPath(id), nil, &out); err != nil {
		return domain.Trip{}, err
	}
	return tripFromAPI(out), nil
}

// UpdateTrip replaces the editable fields of t.
func (c *Client) UpdateTrip(ctx context.Context, t domain.Trip) (domain.Trip, error) {
	var out api.Trip
	if err := c.do(ctx, http.MethodPut, tripPath(t.ID), tripRequest(t), &out); err != nil {
		return domain.Trip{}, err
	}
	return tripFromAPI(out), nil
}

// DeleteTrip deletes a trip. Only its creator may.
func (c *Client) DeleteTrip(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, tripPath(id), nil, nil)
}

// JoinTrip adds the caller to the trip with code.
func (c *Client) JoinTrip(ctx context.Context, code string) (domain.Trip, error) {
	var out api.Trip
	if err := c.do(ctx, http.MethodPost, "/trips/join", api.JoinRequest{TripCode: code}, &out); err != nil {
		return domain.Trip{}, err
	}
	return tripFromAPI(out), nil
}

// Members lists a trip's members, creator first.
func (c *Client) Members(ctx context.Context, tripID uuid.UUID) ([]domain.TripMember, error) {
	var out []api.Member
	if err := c.do(ctx, http.MethodGet, tripPath(tripID)+"/members", nil, &out); err != nil {
		return nil, err
	}
	members := make([]domain.TripMember, len(out))
	for i, m := range out {
		members[i] = domain.TripMember{TripID: m.TripID, UserID: m.UserID, Role: domain.Role(m.Role), JoinedAt: m.JoinedAt}
	}
	return members, nil
}

// RemoveMember removes userID from the trip, or leaves it when userID is
// the caller.
func (c *Client) RemoveMember(ctx context.Context, tripID, userID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, tripPath(tripID)+"/members/"+userID.String(), nil, nil)
}

// Budget returns planned spend against the trip budget.
func (c *Client) Budget(ctx context.Context, tripID uuid.UUID) (domain.BudgetUsage, error) {
	var out api.BudgetUsage
	if err := c.do(ctx, http.MethodGet, tripPath(tripID)+"/budget", nil, &out); err != nil {
		return domain.BudgetUsage{}, err
	}
	return domain.BudgetUsage{
		TripID:    out.TripID,
		Budget:    out.TotalBudget,
		Spent:     out.Spent,
		Remaining: out.Remaining,
		Ratio:     out.Ratio,
	}, nil
}

func tripRequest(t domain.Trip) api.TripRequest {
	return api.TripRequest{
		Name:          t.Name,
		Destination:   t.Destination,
		StartDate:     &openapi_types.Date{Time: t.StartDate},
		EndDate:       &openapi_types.Date{Time: t.EndDate},
		CoverImageURL: t.CoverImageURL,
		TotalBudget:   t.Budget,
		Currency:      t.Currency,
		IsArchived:    t.IsArchived,
	}
}

func tripFromAPI(t api.Trip) domain.Trip {
	out := domain.Trip{
		ID:          t.ID,
		Name:        t.Name,
		Destination: t.Destination,
		StartDate:   t.StartDate.Time,
		EndDate:     t.EndDate.Time,
		Budget:      t.TotalBudget,
		Currency:    t.Currency,
		CreatorID:   t.CreatorID,
		TripCode:    t.TripCode,
		IsArchived:  t.IsArchived,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.CoverImageURL != nil {
		out.CoverImageURL = *t.CoverImageURL
	}
	return out
}
