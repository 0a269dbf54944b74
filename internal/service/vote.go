package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/cache"
	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
	"github.com/pkordes/trip-planner/internal/vote"
)

// VoteResult is the outcome of a vote toggle.
// LockProgress is nil when the lock threshold is disabled; it is display-only
// and never changes IsLockedIn.
type VoteResult struct {
	ActivityID   uuid.UUID
	Count        int
	Voted        bool
	IsLockedIn   bool
	LockProgress *float64
}

// VoteService implements vote toggling on activities.
type VoteService struct {
	members    repo.MemberRepo
	activities repo.ActivityRepo
	votes      repo.VoteRepo
	cache      cache.Cache
	threshold  int
}

// NewVoteService constructs a VoteService. threshold is the vote count at
// which lock progress reaches 1; zero or less disables progress.
func NewVoteService(members repo.MemberRepo, activities repo.ActivityRepo, votes repo.VoteRepo, c cache.Cache, threshold int) *VoteService {
	if c == nil {
		c = cache.Nop{}
	}
	return &VoteService{members: members, activities: activities, votes: votes, cache: c, threshold: threshold}
}

// Threshold returns the configured lock threshold.
func (s *VoteService) Threshold() int {
	return s.threshold
}

// Toggle flips the caller's vote on an activity and returns the new tally.
// A locked-in activity no longer accepts votes and yields domain.ErrConflict.
func (s *VoteService) Toggle(ctx context.Context, sess domain.Session, tripID, activityID uuid.UUID) (VoteResult, error) {
	if _, err := requireMember(ctx, s.members, sess, tripID); err != nil {
		return VoteResult{}, fmt.Errorf("service.VoteService.Toggle: %w", err)
	}
	a, err := s.activities.GetByID(ctx, tripID, activityID, sess.UserID)
	if err != nil {
		return VoteResult{}, fmt.Errorf("service.VoteService.Toggle: %w", err)
	}
	if a.IsLockedIn {
		return VoteResult{}, fmt.Errorf("service.VoteService.Toggle: %w: activity is locked in", domain.ErrConflict)
	}

	next := vote.State{Count: a.VoteCount, Voted: a.Voted}.Toggle()
	if next.Voted {
		err = s.votes.Add(ctx, activityID, sess.UserID)
	} else {
		err = s.votes.Remove(ctx, activityID, sess.UserID)
		// A concurrent toggle already removed it; the end state is the same.
		if errors.Is(err, domain.ErrNotFound) {
			err = nil
		}
	}
	if err != nil {
		return VoteResult{}, fmt.Errorf("service.VoteService.Toggle: %w", err)
	}

	count, err := s.votes.Count(ctx, activityID)
	if err != nil {
		return VoteResult{}, fmt.Errorf("service.VoteService.Toggle: %w", err)
	}
	invalidateTrip(ctx, s.cache, tripID)
	return VoteResult{
		ActivityID:   activityID,
		Count:        count,
		Voted:        next.Voted,
		IsLockedIn:   a.IsLockedIn,
		LockProgress: vote.ProgressPtr(count, s.threshold),
	}, nil
}

// Voters lists the votes cast for an activity, oldest first.
// Always returns a non-nil slice.
func (s *VoteService) Voters(ctx context.Context, sess domain.Session, tripID, activityID uuid.UUID) ([]domain.ActivityVote, error) {
	if _, err := requireMember(ctx, s.members, sess, tripID); err != nil {
		return nil, fmt.Errorf("service.VoteService.Voters: %w", err)
	}
	if _, err := s.activities.GetByID(ctx, tripID, activityID, sess.UserID); err != nil {
		return nil, fmt.Errorf("service.VoteService.Voters: %w", err)
	}
	votes, err := s.votes.ListByActivity(ctx, activityID)
	if err != nil {
		return nil, fmt.Errorf("service.VoteService.Voters: %w", err)
	}
	if votes == nil {
		return []domain.ActivityVote{}, nil
	}
	return votes, nil
}
