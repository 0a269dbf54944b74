// Package service contains the business logic for the trip planner API.
// Services validate inputs, enforce membership rules, and orchestrate repo calls.
// No SQL lives here; services depend on repo interfaces, not implementations.
//
// Every operation takes the caller's domain.Session explicitly. A caller who
// is not a member of a trip sees that trip and everything under it as
// domain.ErrNotFound; a member attempting a creator-only action gets
// domain.ErrForbidden.
package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/trip-planner/internal/cache"
	"github.com/pkordes/trip-planner/internal/domain"
	"github.com/pkordes/trip-planner/internal/repo"
)

// requireMember returns the caller's membership in tripID.
func requireMember(ctx context.Context, members repo.MemberRepo, sess domain.Session, tripID uuid.UUID) (domain.TripMember, error) {
	if !sess.Valid() {
		return domain.TripMember{}, fmt.Errorf("%w: no session", domain.ErrUnauthorized)
	}
	m, err := members.Get(ctx, tripID, sess.UserID)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.TripMember{}, fmt.Errorf("%w: trip %s", domain.ErrNotFound, tripID)
	}
	if err != nil {
		return domain.TripMember{}, err
	}
	return m, nil
}

// requireCreator is requireMember plus a creator-role check.
func requireCreator(ctx context.Context, members repo.MemberRepo, sess domain.Session, tripID uuid.UUID) (domain.TripMember, error) {
	m, err := requireMember(ctx, members, sess, tripID)
	if err != nil {
		return domain.TripMember{}, err
	}
	if !m.IsCreator() {
		return domain.TripMember{}, fmt.Errorf("%w: only the trip creator may do this", domain.ErrForbidden)
	}
	return m, nil
}

// invalidateTrip drops every cached read model of a trip. Failures are
// ignored: the write already succeeded and entries expire on their own.
func invalidateTrip(ctx context.Context, c cache.Cache, tripID uuid.UUID) {
	_ = c.Invalidate(ctx, tripID.String())
}

// tripCodeAlphabet omits 0/O and 1/I so codes survive being read aloud.
const tripCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// TripCodeLength is the number of characters in a generated trip code.
const TripCodeLength = 8

// NewTripCode returns a random shareable trip code.
func NewTripCode() (string, error) {
	var b strings.Builder
	b.Grow(TripCodeLength)
	size := big.NewInt(int64(len(tripCodeAlphabet)))
	for i := 0; i < TripCodeLength; i++ {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", fmt.Errorf("service.NewTripCode: %w", err)
		}
		b.WriteByte(tripCodeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// NormalizeTripCode upper-cases and trims a code typed by a user.
func NormalizeTripCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
