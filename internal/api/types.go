// Package api defines the JSON wire types of the trip planner HTTP API, as
// described by spec/openapi.yaml. The handler package produces them and the
// client package consumes them, so both ends agree on one definition.
package api

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ErrorDetail is the body of every non-2xx response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps ErrorDetail as {"error":{...}}.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// Error codes used in ErrorDetail.Code.
const (
	CodeValidation      = "validation_error"
	CodeBadRequest      = "bad_request"
	CodeNotFound        = "not_found"
	CodeUnauthorized    = "unauthorized"
	CodeForbidden       = "forbidden"
	CodeConflict        = "conflict"
	CodePayloadTooLarge = "payload_too_large"
	CodeInternal        = "internal_error"
)

// Health is the body of GET /healthz.
type Health struct {
	Status string `json:"status"`
}

// Pagination describes one page of a list response.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	// TotalPages is zero when there are no trips.
	TotalPages int `json:"total_pages"`
}

// TripRequest is the body of POST /trips and PUT /trips/{tripID}.
type TripRequest struct {
	Name          string              `json:"name" validate:"required"`
	Destination   string              `json:"destination" validate:"required"`
	StartDate     *openapi_types.Date `json:"start_date" validate:"required"`
	EndDate       *openapi_types.Date `json:"end_date" validate:"required"`
	CoverImageURL string              `json:"cover_image_url,omitempty" validate:"omitempty,url"`
	TotalBudget   *float64            `json:"total_budget,omitempty" validate:"omitempty,gte=0"`
	Currency      string              `json:"currency,omitempty" validate:"omitempty,len=3,alpha"`
	IsArchived    bool                `json:"is_archived,omitempty"`
}

// Trip is a trip as returned by the API.
type Trip struct {
	ID            openapi_types.UUID `json:"id"`
	Name          string             `json:"name"`
	Destination   string             `json:"destination"`
	StartDate     openapi_types.Date `json:"start_date"`
	EndDate       openapi_types.Date `json:"end_date"`
	CoverImageURL *string            `json:"cover_image_url,omitempty"`
	TotalBudget   *float64           `json:"total_budget"`
	Currency      string             `json:"currency"`
	CreatorID     openapi_types.UUID `json:"creator_id"`
	TripCode      string             `json:"trip_code"`
	IsArchived    bool               `json:"is_archived"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// TripList is the body of GET /trips.
type TripList struct {
	Data       []Trip     `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// JoinRequest is the body of POST /trips/join.
type JoinRequest struct {
	TripCode string `json:"trip_code" validate:"required"`
}

// Member is a trip membership.
type Member struct {
	TripID   openapi_types.UUID `json:"trip_id"`
	UserID   openapi_types.UUID `json:"user_id"`
	Role     string             `json:"role"`
	JoinedAt time.Time          `json:"joined_at"`
}

// BudgetUsage is the body of GET /trips/{tripID}/budget.
type BudgetUsage struct {
	TripID      openapi_types.UUID `json:"trip_id"`
	TotalBudget *float64           `json:"total_budget"`
	Spent       float64            `json:"spent"`
	Remaining   *float64           `json:"remaining"`
	Ratio       *float64           `json:"ratio"`
}

// ActivityRequest is the body of POST and PUT on activities.
type ActivityRequest struct {
	Title         string              `json:"title" validate:"required"`
	Category      string              `json:"category" validate:"required,oneof=sightseeing food adventure relaxation culture shopping nightlife transportation"`
	Date          *openapi_types.Date `json:"date" validate:"required"`
	Time          string              `json:"time" validate:"required"`
	EndTime       string              `json:"end_time,omitempty"`
	Location      string              `json:"location" validate:"required"`
	EstimatedCost *float64            `json:"estimated_cost,omitempty" validate:"omitempty,gte=0"`
	Notes         string              `json:"notes,omitempty"`
	ImageURL      string              `json:"image_url,omitempty" validate:"omitempty,url"`
}

// Activity is an activity as returned by the API. IsLockedIn is the
// authoritative flag; LockProgress is a display-only ratio, null when the
// lock threshold is disabled.
type Activity struct {
	ID            openapi_types.UUID `json:"id"`
	TripID        openapi_types.UUID `json:"trip_id"`
	Title         string             `json:"title"`
	Category      string             `json:"category"`
	Date          openapi_types.Date `json:"date"`
	Time          string             `json:"time"`
	EndTime       *string            `json:"end_time,omitempty"`
	Location      string             `json:"location"`
	EstimatedCost float64            `json:"estimated_cost"`
	Notes         *string            `json:"notes,omitempty"`
	ImageURL      *string            `json:"image_url,omitempty"`
	CreatorID     openapi_types.UUID `json:"creator_id"`
	IsLockedIn    bool               `json:"is_locked_in"`
	VoteCount     int                `json:"vote_count"`
	Voted         bool               `json:"voted"`
	LockProgress  *float64           `json:"lock_progress"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// LockRequest is the body of PUT .../lock.
type LockRequest struct {
	Locked *bool `json:"locked" validate:"required"`
}

// VoteResult is the body of POST .../vote.
type VoteResult struct {
	ActivityID   openapi_types.UUID `json:"activity_id"`
	VoteCount    int                `json:"vote_count"`
	Voted        bool               `json:"voted"`
	IsLockedIn   bool               `json:"is_locked_in"`
	LockProgress *float64           `json:"lock_progress"`
}

// Vote is one entry of GET .../votes.
type Vote struct {
	UserID    openapi_types.UUID `json:"user_id"`
	CreatedAt time.Time          `json:"created_at"`
}

// Day is one day of an itinerary, bucketed by part of day.
type Day struct {
	Index     int                `json:"index"`
	Date      openapi_types.Date `json:"date"`
	Morning   []Activity         `json:"morning"`
	Afternoon []Activity         `json:"afternoon"`
	Evening   []Activity         `json:"evening"`
}

// Itinerary is the body of GET /trips/{tripID}/itinerary.
type Itinerary struct {
	TripID openapi_types.UUID `json:"trip_id"`
	Days   []Day              `json:"days"`
}

// TimeSlot is one free window of GET /trips/{tripID}/free-slots.
type TimeSlot struct {
	Date            openapi_types.Date `json:"date"`
	Start           string             `json:"start"`
	End             string             `json:"end"`
	DurationMinutes int                `json:"duration_minutes"`
}
