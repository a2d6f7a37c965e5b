// Package oauth mediates the external provider handshakes and normalizes
// their results into a local profile. Each bridge fails closed: a provider is
// never trusted on an ambiguous response, and no identity is fabricated
// without provider confirmation.
package oauth

import (
	"errors"
	"net/http"
	"time"
)

// Provider call failures, classified for the handler boundary.
var (
	// ErrExchangeFailed covers a failed authorization-code exchange or any
	// network failure talking to a provider. Not retried.
	ErrExchangeFailed = errors.New("provider exchange failed")

	// ErrTokenInvalid is returned when the provider reports a client-supplied
	// token as invalid during introspection.
	ErrTokenInvalid = errors.New("provider token invalid")

	// ErrProviderFailure is returned when the provider itself reports an error
	// for an otherwise well-formed request (surfaces as a 500).
	ErrProviderFailure = errors.New("provider-side error")

	// ErrUserIDMismatch is returned when the provider's introspection names a
	// different subject than the token we exchanged (token substitution).
	ErrUserIDMismatch = errors.New("token's user ID doesn't match")

	// ErrClientIDMismatch is returned when the token was issued to a different
	// client than ours.
	ErrClientIDMismatch = errors.New("token's client ID doesn't match")
)

// Profile is the normalized identity a bridge hands to the identity resolver
// after a successful handshake.
type Profile struct {
	Email   string
	Name    string
	Picture string
}

// defaultHTTPClient bounds every provider round trip. There is no retry
// policy: a provider timeout propagates as an immediate failure response.
func defaultHTTPClient() *http.Client {
	return &http.Client{Timeout: 10 * time.Second}
}
