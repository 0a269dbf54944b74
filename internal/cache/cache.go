// Package cache stores computed read models, such as a trip's itinerary, so
// repeated reads skip the database. Entries are grouped under a tag (the trip)
// and a whole group is dropped at once when the trip changes.
package cache

import (
	"context"
	"time"
)

// Cache is the read-model cache used by the service layer.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get decodes the value stored at key into dest.
	// It reports false with a nil error on a miss.
	Get(ctx context.Context, key string, dest any) (bool, error)

	// Set stores value at key and records key under tag for later invalidation.
	Set(ctx context.Context, tag, key string, value any) error

	// Invalidate removes every key recorded under tag and advances the tag's
	// version.
	Invalidate(ctx context.Context, tag string) error

	// Version returns the tag's current version, zero until the first
	// Invalidate. Callers put it in their keys so a value computed before an
	// invalidation lands under a key no later reader asks for.
	Version(ctx context.Context, tag string) (int64, error)
}

// DefaultTTL is how long an entry lives when no TTL is configured.
const DefaultTTL = 5 * time.Minute

// Nop is a Cache that never stores anything. It is used when no Redis URL is
// configured, so callers never need a nil check.
type Nop struct{}

// Get always misses.
func (Nop) Get(context.Context, string, any) (bool, error) { return false, nil }

// Set discards the value.
func (Nop) Set(context.Context, string, string, any) error { return nil }

// Invalidate does nothing.
func (Nop) Invalidate(context.Context, string) error { return nil }

// Version is always zero.
func (Nop) Version(context.Context, string) (int64, error) { return 0, nil }

var _ Cache = Nop{}
