package handler

import (
	"net/http"

	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pkordes/trip-planner/internal/api"
	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/vote"
)

const activityNotFound = "activity not found"

// ListActivities handles GET /trips/{tripID}/activities.
func (s *Server) ListActivities(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	acts, err := s.activities.List(r.Context(), sess, tripID)
	if err != nil {
		s.respondError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusOK, s.activitiesToResponse(acts))
}

// CreateActivity handles POST /trips/{tripID}/activities.
func (s *Server) CreateActivity(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	var body api.ActivityRequest
	if !decodeBody(w, r, &body) {
		return
	}

	created, err := s.activities.Create(r.Context(), sess, requestToActivity(tripID, uuid.Nil, body))
	if err != nil {
		s.respondError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusCreated, s.activityToResponse(created))
}

// GetActivity handles GET /trips/{tripID}/activities/{activityID}.
func (s *Server) GetActivity(w http.ResponseWriter, r *http.Request) {
	sess, tripID, activityID, ok := activityPath(w, r)
	if !ok {
		return
	}

	a, err := s.activities.Get(r.Context(), sess, tripID, activityID)
	if err != nil {
		s.respondError(w, r, err, activityNotFound)
		return
	}
	writeJSON(w, http.StatusOK, s.activityToResponse(a))
}

// UpdateActivity handles PUT /trips/{tripID}/activities/{activityID}.
func (s *Server) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	sess, tripID, activityID, ok := activityPath(w, r)
	if !ok {
		return
	}
	var body api.ActivityRequest
	if !decodeBody(w, r, &body) {
		return
	}

	updated, err := s.activities.Update(r.Context(), sess, requestToActivity(tripID, activityID, body))
	if err != nil {
		s.respondError(w, r, err, activityNotFound)
		return
	}
	writeJSON(w, http.StatusOK, s.activityToResponse(updated))
}

// DeleteActivity handles DELETE /trips/{tripID}/activities/{activityID}.
func (s *Server) DeleteActivity(w http.ResponseWriter, r *http.Request) {
	sess, tripID, activityID, ok := activityPath(w, r)
	if !ok {
		return
	}

	if err := s.activities.Delete(r.Context(), sess, tripID, activityID); err != nil {
		s.respondError(w, r, err, activityNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// LockActivity handles PUT /trips/{tripID}/activities/{activityID}/lock.
func (s *Server) LockActivity(w http.ResponseWriter, r *http.Request) {
	sess, tripID, activityID, ok := activityPath(w, r)
	if !ok {
		return
	}
	var body api.LockRequest
	if !decodeBody(w, r, &body) {
		return
	}

	a, err := s.activities.SetLockedIn(r.Context(), sess, tripID, activityID, *body.Locked)
	if err != nil {
		s.respondError(w, r, err, activityNotFound)
		return
	}
	writeJSON(w, http.StatusOK, s.activityToResponse(a))
}

// activityPath extracts the session and both path ids shared by every
// /activities/{activityID} route.
func activityPath(w http.ResponseWriter, r *http.Request) (domain.Session, uuid.UUID, uuid.UUID, bool) {
	sess, ok := session(w, r)
	if !ok {
		return domain.Session{}, uuid.Nil, uuid.Nil, false
	}
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return domain.Session{}, uuid.Nil, uuid.Nil, false
	}
	activityID, ok := pathUUID(w, r, "activityID")
	if !ok {
		return domain.Session{}, uuid.Nil, uuid.Nil, false
	}
	return sess, tripID, activityID, true
}

// --- mapping helpers --------------------------------------------------------

func requestToActivity(tripID, id uuid.UUID, body api.ActivityRequest) domain.Activity {
	a := domain.Activity{
		ID:       id,
		TripID:   tripID,
		Title:    body.Title,
		Category: domain.Category(body.Category),
		Time:     body.Time,
		EndTime:  body.EndTime,
		Location: body.Location,
		Notes:    body.Notes,
		ImageURL: body.ImageURL,
	}
	if body.Date != nil {
		a.Date = body.Date.Time
	}
	if body.EstimatedCost != nil {
		a.EstimatedCost = *body.EstimatedCost
	}
	return a
}

// activityToResponse converts a domain.Activity into the api.Activity wire
// type, deriving the display-only lock progress from the vote count.
func (s *Server) activityToResponse(a domain.Activity) api.Activity {
	resp := api.Activity{
		ID:            a.ID,
		TripID:        a.TripID,
		Title:         a.Title,
		Category:      string(a.Category),
		Date:          openapi_types.Date{Time: a.Date},
		Time:          a.Time,
		Location:      a.Location,
		EstimatedCost: a.EstimatedCost,
		CreatorID:     a.CreatorID,
		IsLockedIn:    a.IsLockedIn,
		VoteCount:     a.VoteCount,
		Voted:         a.Voted,
		LockProgress:  vote.ProgressPtr(a.VoteCount, s.votes.Threshold()),
		CreatedAt:     a.CreatedAt,
		UpdatedAt:     a.UpdatedAt,
	}
	if a.EndTime != "" {
		resp.EndTime = &a.EndTime
	}
	if a.Notes != "" {
		resp.Notes = &a.Notes
	}
	if a.ImageURL != "" {
		resp.ImageURL = &a.ImageURL
	}
	return resp
}

// activitiesToResponse maps a slice, always returning a non-nil slice so the
// JSON is [] rather than null.
func (s *Server) activitiesToResponse(acts []domain.Activity) []api.Activity {
	out := make([]api.Activity, len(acts))
	for i, a := range acts {
		out[i] = s.activityToResponse(a)
	}
	return out
}
