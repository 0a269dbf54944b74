package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is a member's standing within a trip.
type Role string

const (
	RoleCreator Role = "creator"
	RoleMember  Role = "member"
)

// TripMember grants UserID read/write access to TripID.
type TripMember struct {
	TripID   uuid.UUID
	UserID   uuid.UUID
	Role     Role
	JoinedAt time.Time
}

// IsCreator reports whether the member created the trip.
func (m TripMember) IsCreator() bool {
	return m.Role == RoleCreator
}
