package migrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/catalogkit/catalog/internal/db/models"
)

func init() {
	Migrations.MustRegister(up_20250901000001, down_20250901000001)
}

// up_20250901000001 creates the users, categories, and items tables
func up_20250901000001(ctx context.Context, db *bun.DB) error {
	// 1. Create users table
	fmt.Print(" [up] creating users table...")
	_, err := db.NewCreateTable().
		Model((*models.User)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	_, err = db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(email)`)
	if err != nil {
		return fmt.Errorf("failed to create users email index: %w", err)
	}
	fmt.Println(" OK")

	// 2. Create categories table
	fmt.Print(" [up] creating categories table...")
	_, err = db.NewCreateTable().
		Model((*models.Category)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create categories table: %w", err)
	}
	fmt.Println(" OK")

	// 3. Create items table
	fmt.Print(" [up] creating items table...")
	_, err = db.NewCreateTable().
		Model((*models.Item)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to create items table: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_items_category_id ON items(category_id)`)
	if err != nil {
		return fmt.Errorf("failed to create items category_id index: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_items_user_id ON items(user_id)`)
	if err != nil {
		return fmt.Errorf("failed to create items user_id index: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_items_created_at ON items(created_at)`)
	if err != nil {
		return fmt.Errorf("failed to create items created_at index: %w", err)
	}
	fmt.Println(" OK")

	return nil
}

// down_20250901000001 drops the catalog tables in reverse order
func down_20250901000001(ctx context.Context, db *bun.DB) error {
	tables := []string{
		"items",
		"categories",
		"users",
	}

	for _, table := range tables {
		fmt.Printf(" [down] dropping %s table...", table)
		_, err := db.Exec(fmt.Sprintf("DROP TABLE IF EXISTS %s", table))
		if err != nil {
			return fmt.Errorf("failed to drop %s table: %w", table, err)
		}
		fmt.Println(" OK")
	}

	return nil
}
