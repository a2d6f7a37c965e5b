// Package seed loads demo data: ten password users, ten categories, and
// ten items per category. Intended for development databases only.
package seed

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/catalogkit/catalog/internal/auth"
	"github.com/catalogkit/catalog/internal/db/models"
)

const (
	userCount        = 10
	categoryCount    = 10
	itemsPerCategory = 10
)

// Run inserts the demo dataset. It refuses to touch a database that already
// has categories so a re-run can't duplicate the catalog.
func Run(ctx context.Context, db *bun.DB) error {
	count, err := db.NewSelect().Model((*models.Category)(nil)).Count(ctx)
	if err != nil {
		return fmt.Errorf("failed to count categories: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("database already has %d categories, refusing to seed", count)
	}

	// Users user1@email.com..user10@email.com with passwords
	// user1password..user10password.
	fmt.Print(" [seed] creating users...")
	userIDs := make([]int64, 0, userCount)
	for i := 1; i <= userCount; i++ {
		digest, salt := auth.HashPassword(fmt.Sprintf("user%dpassword", i))
		user := &models.User{
			Name:         fmt.Sprintf("user%d", i),
			Email:        fmt.Sprintf("user%d@email.com", i),
			PasswordHash: &digest,
			PasswordSalt: &salt,
		}
		if _, err := db.NewInsert().
			Model(user).
			On("CONFLICT (email) DO NOTHING").
			Returning("id").
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to seed user %s: %w", user.Email, err)
		}
		userIDs = append(userIDs, user.ID)
	}
	fmt.Println(" OK")

	fmt.Print(" [seed] creating categories and items...")
	for c := 1; c <= categoryCount; c++ {
		category := &models.Category{Name: fmt.Sprintf("category%d", c)}
		if _, err := db.NewInsert().
			Model(category).
			Returning("id").
			Exec(ctx); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", category.Name, err)
		}

		for i := 1; i <= itemsPerCategory; i++ {
			owner := userIDs[(i-1)%len(userIDs)]
			item := &models.Item{
				Title: fmt.Sprintf("item%d_c%d", i, c),
				Description: fmt.Sprintf(
					"This is a description of category: %d and item: %d. This item is created by user%d",
					c, i, (i-1)%len(userIDs)+1),
				CategoryID: category.ID,
				UserID:     owner,
			}
			if _, err := db.NewInsert().Model(item).Exec(ctx); err != nil {
				return fmt.Errorf("failed to seed item %s: %w", item.Title, err)
			}
		}
	}
	fmt.Println(" OK")

	return nil
}
