package handler

import (
	"net/http"

	"github.com/pkordes/trip-planner/internal/api"
)

// ToggleVote handles POST /trips/{tripID}/activities/{activityID}/vote.
// Voting twice removes the vote. Locked-in activities answer 409.
func (s *Server) ToggleVote(w http.ResponseWriter, r *http.Request) {
	sess, tripID, activityID, ok := activityPath(w, r)
	if !ok {
		return
	}

	res, err := s.votes.Toggle(r.Context(), sess, tripID, activityID)
	if err != nil {
		s.respondError(w, r, err, activityNotFound)
		return
	}
	writeJSON(w, http.StatusOK, api.VoteResult{
		ActivityID:   res.ActivityID,
		VoteCount:    res.Count,
		Voted:        res.Voted,
		IsLockedIn:   res.IsLockedIn,
		LockProgress: res.LockProgress,
	})
}

// ListVotes handles GET /trips/{tripID}/activities/{activityID}/votes.
func (s *Server) ListVotes(w http.ResponseWriter, r *http.Request) {
	sess, tripID, activityID, ok := activityPath(w, r)
	if !ok {
		return
	}

	votes, err := s.votes.Voters(r.Context(), sess, tripID, activityID)
	if err != nil {
		s.respondError(w, r, err, activityNotFound)
		return
	}
	out := make([]api.Vote, len(votes))
	for i, v := range votes {
		out[i] = api.Vote{UserID: v.UserID, CreatedAt: v.CreatedAt}
	}
	writeJSON(w, http.StatusOK, out)
}
