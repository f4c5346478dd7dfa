package errors

import "errors"

// Common application errors. Services wrap these with %w and handlers map
// them to HTTP status codes, so no collaborator error crosses the boundary raw.
var (
	// ErrNotFound is returned when a record or resource does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrUnauthorized covers missing, invalid or expired credentials.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden is returned when the caller lacks rights for an action.
	ErrForbidden = errors.New("forbidden")

	// ErrValidation covers malformed input.
	ErrValidation = errors.New("validation failed")

	// ErrExpiredToken is returned when a session token has expired.
	ErrExpiredToken = errors.New("token is expired")

	// ErrConflict covers uniqueness violations (duplicate email/username).
	ErrConflict = errors.New("resource state conflict")

	// ErrUpstream is returned when the external identity verifier fails in a
	// way that is not a duplicate-email condition.
	ErrUpstream = errors.New("upstream service error")
)
