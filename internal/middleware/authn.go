package middleware

import (
	"net/http"

	"github.com/catalogkit/catalog/internal/auth"
)

// Authenticator attaches the resolved principal to the request context when a
// valid credential is present. It never rejects on its own: browse pages are
// public, and handlers that require authentication make their own decision
// against the context. Mutating POSTs re-read the credential from the
// Authorization header inside their handlers, so this middleware only looks
// at cookies.
func Authenticator(gate *auth.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, expiresAt, ok := auth.CredentialFromRequest(r, false)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := gate.Authenticate(token, expiresAt)
			if err != nil {
				// Expired or tampered credential: proceed anonymous rather
				// than failing a public page.
				next.ServeHTTP(w, r)
				return
			}

			ctx := auth.SetPrincipalContext(r.Context(), auth.Principal{
				UserID: claims.UserID,
				Name:   claims.Name,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
