// Package vote counts activity votes and derives the display-only lock
// progress. Nothing here changes an activity's authoritative lock-in flag.
package vote

import (
	"sync"

	"github.com/google/uuid"
)

// DefaultLockThreshold is the number of votes at which the progress hint
// reaches 1.
const DefaultLockThreshold = 3

// State is the vote state of one activity as seen by one user.
type State struct {
	Count int
	Voted bool
}

// Toggle returns the state after the user flips their vote. The count only
// decreases when Voted is set, so it can never go negative.
func (s State) Toggle() State {
	if s.Voted {
		return State{Count: max(s.Count-1, 0), Voted: false}
	}
	return State{Count: s.Count + 1, Voted: true}
}

// Progress returns min(1, count/threshold) and true. A threshold <= 0
// means no threshold is configured: it returns 0 and false.
func Progress(count, threshold int) (float64, bool) {
	if threshold <= 0 {
		return 0, false
	}
	if count <= 0 {
		return 0, true
	}
	p := float64(count) / float64(threshold)
	return min(p, 1), true
}

// ProgressPtr is Progress shaped for optional JSON fields.
func ProgressPtr(count, threshold int) *float64 {
	p, ok := Progress(count, threshold)
	if !ok {
		return nil
	}
	return &p
}

type key struct {
	activity uuid.UUID
	user     uuid.UUID
}

// Tally tracks vote counts per activity and voted flags per (activity,
// user). The zero value is not usable; call NewTally. Safe for concurrent
// use.
type Tally struct {
	mu     sync.Mutex
	counts map[uuid.UUID]int
	voted  map[key]bool
}

// NewTally returns an empty Tally.
func NewTally() *Tally {
	return &Tally{
		counts: make(map[uuid.UUID]int),
		voted:  make(map[key]bool),
	}
}

// Seed records a known count for activity and marks each of voters as
// having voted. Negative counts are clamped to zero.
func (t *Tally) Seed(activity uuid.UUID, count int, voters ...uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counts[activity] = max(count, 0)
	for _, u := range voters {
		t.voted[key{activity, u}] = true
	}
}

// Set overwrites the state of activity for user, typically with the
// authoritative value returned by the server.
func (t *Tally) Set(activity, user uuid.UUID, s State) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.counts[activity] = max(s.Count, 0)
	t.setVoted(activity, user, s.Voted)
}

// State returns the current state of activity for user.
func (t *Tally) State(activity, user uuid.UUID) State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return State{Count: t.counts[activity], Voted: t.voted[key{activity, user}]}
}

// Toggle flips user's vote on activity and returns the new state.
// Two consecutive toggles by the same user restore the original state.
func (t *Tally) Toggle(activity, user uuid.UUID) State {
	t.mu.Lock()
	defer t.mu.Unlock()
	next := State{Count: t.counts[activity], Voted: t.voted[key{activity, user}]}.Toggle()
	t.counts[activity] = next.Count
	t.setVoted(activity, user, next.Voted)
	return next
}

// Forget drops every record for activity.
func (t *Tally) Forget(activity uuid.UUID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.counts, activity)
	for k := range t.voted {
		if k.activity == activity {
			delete(t.voted, k)
		}
	}
}

func (t *Tally) setVoted(activity, user uuid.UUID, v bool) {
	if v {
		t.voted[key{activity, user}] = true
		return
	}
	delete(t.voted, key{activity, user})
}
