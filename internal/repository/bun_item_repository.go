package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"

	"github.com/catalogkit/catalog/internal/db/models"
)

// BunItemRepository implements ItemRepository using Bun ORM
type BunItemRepository struct {
	db *bun.DB
}

// NewBunItemRepository creates a new Bun-based item repository
func NewBunItemRepository(db *bun.DB) *BunItemRepository {
	return &BunItemRepository{db: db}
}

// Create inserts a new item and backfills the generated id.
func (r *BunItemRepository) Create(ctx context.Context, item *models.Item) error {
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now()
	}
	item.UpdatedAt = item.CreatedAt
	_, err := r.db.NewInsert().
		Model(item).
		Returning("id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

// GetByID retrieves an item by its ID
func (r *BunItemRepository) GetByID(ctx context.Context, id int64) (*models.Item, error) {
	item := new(models.Item)
	err := r.db.NewSelect().
		Model(item).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", ErrItemNotFound, id)
		}
		return nil, fmt.Errorf("get item by ID: %w", err)
	}
	return item, nil
}

// Update updates an existing item
func (r *BunItemRepository) Update(ctx context.Context, item *models.Item) error {
	item.UpdatedAt = time.Now()
	result, err := r.db.NewUpdate().
		Model(item).
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: id %d", ErrItemNotFound, item.ID)
	}
	return nil
}

// Delete removes an item.
func (r *BunItemRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.NewDelete().
		Model((*models.Item)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("delete item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: id %d", ErrItemNotFound, id)
	}
	return nil
}

// ListByCategory retrieves all items within a category.
func (r *BunItemRepository) ListByCategory(ctx context.Context, categoryID int64) ([]models.Item, error) {
	var items []models.Item
	err := r.db.NewSelect().
		Model(&items).
		Where("category_id = ?", categoryID).
		Order("created_at DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items by category: %w", err)
	}
	return items, nil
}

// ListRecent retrieves the most recently created items.
func (r *BunItemRepository) ListRecent(ctx context.Context, limit int) ([]models.Item, error) {
	var items []models.Item
	err := r.db.NewSelect().
		Model(&items).
		OrderExpr("created_at DESC, id DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list recent items: %w", err)
	}
	return items, nil
}

// IsOwner reports whether the item exists and belongs to the user. A missing
// item surfaces as ErrItemNotFound, never as a plain deny, so callers can tell
// the two apart.
func (r *BunItemRepository) IsOwner(ctx context.Context, userID, itemID int64) (bool, error) {
	item, err := r.GetByID(ctx, itemID)
	if err != nil {
		return false, err
	}
	return item.UserID == userID, nil
}
