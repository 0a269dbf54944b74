package handler

import (
	"net/http"

	"github.com/pkordes/trip-planner/internal/api"
	"github.com/pkordes/trip-planner/internal/domain"
)

// ListMembers handles GET /trips/{tripID}/members.
func (s *Server) ListMembers(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	members, err := s.trips.Members(r.Context(), sess, tripID)
	if err != nil {
		s.respondError(w, r, err, tripNotFound)
		return
	}
	out := make([]api.Member, len(members))
	for i, m := range members {
		out[i] = memberToResponse(m)
	}
	writeJSON(w, http.StatusOK, out)
}

// RemoveMember handles DELETE /trips/{tripID}/members/{userID}.
func (s *Server) RemoveMember(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	userID, ok := pathUUID(w, r, "userID")
	if !ok {
		return
	}

	if err := s.trips.RemoveMember(r.Context(), sess, tripID, userID); err != nil {
		s.respondError(w, r, err, "member not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetBudget handles GET /trips/{tripID}/budget.
func (s *Server) GetBudget(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(w, r)
	if !ok {
		return
	}
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	u, err := s.trips.BudgetUsage(r.Context(), sess, tripID)
	if err != nil {
		s.respondError(w, r, err, tripNotFound)
		return
	}
	writeJSON(w, http.StatusOK, api.BudgetUsage{
		TripID:      u.TripID,
		TotalBudget: u.Budget,
		Spent:       u.Spent,
		Remaining:   u.Remaining,
		Ratio:       u.Ratio,
	})
}

func memberToResponse(m domain.TripMember) api.Member {
	return api.Member{TripID: m.TripID, UserID: m.UserID, Role: string(m.Role), JoinedAt: m.JoinedAt}
}
