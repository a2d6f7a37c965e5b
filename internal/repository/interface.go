package repository

import (
	"context"
	"errors"

	"github.com/catalogkit/catalog/internal/db/models"
)

// Not-found conditions are distinct sentinel errors so callers can tell
// absence apart from a storage failure instead of collapsing both into 404s.
var (
	ErrUserNotFound     = errors.New("user not found")
	ErrCategoryNotFound = errors.New("category not found")
	ErrItemNotFound     = errors.New("item not found")
)

// UserRepository exposes persistence operations for user identities.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdateLastLogin(ctx context.Context, id int64) error
}

// CategoryRepository exposes read operations for categories.
type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	GetByID(ctx context.Context, id int64) (*models.Category, error)
	List(ctx context.Context) ([]models.Category, error)
}

// ItemRepository exposes persistence operations for catalog items.
type ItemRepository interface {
	Create(ctx context.Context, item *models.Item) error
	GetByID(ctx context.Context, id int64) (*models.Item, error)
	Update(ctx context.Context, item *models.Item) error
	Delete(ctx context.Context, id int64) error
	ListByCategory(ctx context.Context, categoryID int64) ([]models.Item, error)
	ListRecent(ctx context.Context, limit int) ([]models.Item, error)
	// IsOwner reports whether the item exists and was created by the user.
	IsOwner(ctx context.Context, userID, itemID int64) (bool, error)
}
