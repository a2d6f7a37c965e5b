package auth

import (
	"context"
	"fmt"

	"github.com/catalogkit/catalog/internal/repository"
)

// Gate makes the allow/deny decision for mutating requests. Authentication
// delegates to the credential codec; authorization re-derives ownership from
// the item row on every check rather than consulting any stored ACL.
type Gate struct {
	codec *Codec
	items repository.ItemRepository
}

// NewGate creates a gate over the codec and item storage.
func NewGate(codec *Codec, items repository.ItemRepository) *Gate {
	return &Gate{codec: codec, items: items}
}

// Authenticate validates a raw credential and returns its claims. Failures
// are classified (expired vs. malformed), never panics.
func (g *Gate) Authenticate(token string, expiresAt int64) (*Claims, error) {
	return g.codec.Validate(token, expiresAt)
}

// AuthorizeOwner allows the caller when the target item was created by them.
// A missing item is reported as such; storage failures are not collapsed
// into a deny.
func (g *Gate) AuthorizeOwner(ctx context.Context, userID, itemID int64) error {
	owner, err := g.items.IsOwner(ctx, userID, itemID)
	if err != nil {
		return fmt.Errorf("ownership check: %w", err)
	}
	if !owner {
		return ErrNotAuthorized
	}
	return nil
}
