package auth

import "context"

// Principal captures the authenticated identity propagated through the
// request context. A request without a Principal is anonymous.
type Principal struct {
	// UserID references the backing users row.
	UserID int64
	// Name is the optional display name carried in the credential.
	Name string
}

type principalContextKey struct{}

// SetPrincipalContext stores the authenticated principal on the context for
// downstream consumers.
func SetPrincipalContext(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalContextKey{}, p)
}

// PrincipalFromContext retrieves the authenticated principal from the context.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalContextKey{}).(Principal)
	return p, ok
}
