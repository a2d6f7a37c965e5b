package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/catalogkit/catalog/internal/db/models"
	"github.com/catalogkit/catalog/internal/repository"
)

// Resolver finds or creates local identities keyed by email. Both the
// password login path and the OAuth bridges resolve through here, so a user
// who signed up with a password and later logs in via a provider with the
// same email lands on the same identity. The email is taken on trust from
// whichever path confirmed it; it is not re-verified.
type Resolver struct {
	users repository.UserRepository
}

// NewResolver creates a resolver over the user repository.
func NewResolver(users repository.UserRepository) *Resolver {
	return &Resolver{users: users}
}

// FindOrCreate looks the email up as stored and creates a passwordless
// identity when absent. Storage failures propagate; only a genuine not-found
// triggers creation.
func (r *Resolver) FindOrCreate(ctx context.Context, email string) (*models.User, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, ErrValidationFailed
	}

	user, err := r.users.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, fmt.Errorf("resolve identity: %w", err)
	}

	user = &models.User{Email: email}
	if err := r.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create identity: %w", err)
	}
	return user, nil
}
