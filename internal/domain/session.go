package domain

import "github.com/google/uuid"

// Session identifies the caller of a service operation. It is built by the
// HTTP auth middleware from a verified token and handed to services
// explicitly on every call.
type Session struct {
	UserID uuid.UUID
	Email  string
}

// Valid reports whether the session carries a user.
func (s Session) Valid() bool {
	return s.UserID != uuid.Nil
}
