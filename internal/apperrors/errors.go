// Package apperrors holds the error kinds shared by the validator, the credential
// stores and the auth service. Callers compare with errors.Is; user-facing text is
// produced by the routes package.
package apperrors

import "errors"

var (
	// validation errors
	ErrMissingField     = errors.New("missing field")
	ErrInvalidUsername  = errors.New("invalid username")
	ErrPasswordMismatch = errors.New("password mismatch")
	ErrUsernameTaken    = errors.New("username taken")

	// credential errors
	ErrInvalidCredentials = errors.New("invalid credentials")

	// infrastructure errors
	ErrStoreUnavailable = errors.New("store unavailable")
)

// IsUserError reports whether err is an expected, recoverable error that should be
// shown to the caller rather than logged as a system failure.
func IsUserError(err error) bool {
	return errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrInvalidUsername) ||
		errors.Is(err, ErrPasswordMismatch) ||
		errors.Is(err, ErrUsernameTaken) ||
		errors.Is(err, ErrInvalidCredentials)
}
