package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist, or exists but is not visible to the caller.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. malformed time, activity date outside the trip).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrForbidden is returned when the caller is a trip member but the action
// is reserved for the trip creator. Handlers should map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when a write collides with existing state, such as
// voting on an activity that is already locked in. Handlers map it to 409.
var ErrConflict = errors.New("conflict")

// ErrUnauthorized is returned when no valid session accompanies a request.
var ErrUnauthorized = errors.New("unauthorized")
