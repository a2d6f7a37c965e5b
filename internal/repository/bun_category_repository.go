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

// BunCategoryRepository implements CategoryRepository using Bun ORM
type BunCategoryRepository struct {
	db *bun.DB
}

// NewBunCategoryRepository creates a new Bun-based category repository
func NewBunCategoryRepository(db *bun.DB) *BunCategoryRepository {
	return &BunCategoryRepository{db: db}
}

// Create inserts a new category and backfills the generated id.
func (r *BunCategoryRepository) Create(ctx context.Context, category *models.Category) error {
	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now()
	}
	_, err := r.db.NewInsert().
		Model(category).
		Returning("id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// GetByID retrieves a category by its ID
func (r *BunCategoryRepository) GetByID(ctx context.Context, id int64) (*models.Category, error) {
	category := new(models.Category)
	err := r.db.NewSelect().
		Model(category).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", ErrCategoryNotFound, id)
		}
		return nil, fmt.Errorf("get category by ID: %w", err)
	}
	return category, nil
}

// List retrieves all categories ordered by name.
func (r *BunCategoryRepository) List(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.NewSelect().
		Model(&categories).
		Order("name ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return categories, nil
}
