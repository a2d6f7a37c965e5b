package auth

import "errors"

var (
	// ErrInvalidCredentials is returned for an unknown email or wrong password.
	ErrInvalidCredentials = errors.New("invalid email address or password")

	// ErrExpiredCredential is returned when a session credential has expired.
	ErrExpiredCredential = errors.New("credential expired")

	// ErrMalformedCredential is returned for bad signatures or broken token structure.
	ErrMalformedCredential = errors.New("malformed credential")

	// ErrCsrfMismatch is returned when the form nonce does not match the cookie nonce.
	ErrCsrfMismatch = errors.New("csrf token mismatch")

	// ErrNotAuthorized is returned when the caller does not own the target resource.
	ErrNotAuthorized = errors.New("not authorized")

	// ErrValidationFailed is returned when required form fields are missing.
	ErrValidationFailed = errors.New("validation failed")
)
