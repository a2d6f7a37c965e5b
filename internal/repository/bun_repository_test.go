package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/catalogkit/catalog/internal/db/bunx"
	"github.com/catalogkit/catalog/internal/db/models"
)

// setupTestDB opens an in-memory SQLite database with the catalog tables.
func setupTestDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := bunx.NewDB(":memory:", 1)
	require.NoError(t, err)
	t.Cleanup(func() { _ = bunx.Close(db) })

	ctx := context.Background()
	for _, model := range []any{
		(*models.User)(nil),
		(*models.Category)(nil),
		(*models.Item)(nil),
	} {
		_, err := db.NewCreateTable().Model(model).IfNotExists().Exec(ctx)
		require.NoError(t, err)
	}
	return db
}

func createTestUser(t *testing.T, db *bun.DB, email string) *models.User {
	t.Helper()
	repo := NewBunUserRepository(db)
	user := &models.User{Email: email, Name: "tester"}
	require.NoError(t, repo.Create(context.Background(), user))
	return user
}

func TestBunUserRepository_CreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBunUserRepository(db)
	ctx := context.Background()

	digest := "digest"
	salt := "salt"
	user := &models.User{
		Email:        "alice@example.com",
		Name:         "alice",
		PasswordHash: &digest,
		PasswordSalt: &salt,
	}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotZero(t, user.ID, "generated id is backfilled")

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", byID.Email)
	assert.True(t, byID.HasPassword())

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
}

func TestBunUserRepository_GetNotFound(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBunUserRepository(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, 12345)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = repo.GetByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestBunUserRepository_GetByEmailExactMatch(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBunUserRepository(db)
	ctx := context.Background()

	createTestUser(t, db, "Bob@Example.com")

	// Lookup is by the stored form; no case folding.
	_, err := repo.GetByEmail(ctx, "bob@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)

	found, err := repo.GetByEmail(ctx, "Bob@Example.com")
	require.NoError(t, err)
	assert.Equal(t, "Bob@Example.com", found.Email)
}

func TestBunUserRepository_Update(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBunUserRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "carol@example.com")
	user.Name = "carol"
	require.NoError(t, repo.Update(ctx, user))

	updated, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "carol", updated.Name)

	missing := &models.User{ID: 9999, Email: "ghost@example.com"}
	assert.ErrorIs(t, repo.Update(ctx, missing), ErrUserNotFound)
}

func TestBunUserRepository_UpdateLastLogin(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBunUserRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "dave@example.com")
	require.Nil(t, user.LastLoginAt)

	require.NoError(t, repo.UpdateLastLogin(ctx, user.ID))

	updated, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, updated.LastLoginAt)
	assert.WithinDuration(t, time.Now(), *updated.LastLoginAt, time.Minute)
}

func TestBunCategoryRepository(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBunCategoryRepository(db)
	ctx := context.Background()

	for _, name := range []string{"soccer", "baseball", "climbing"} {
		require.NoError(t, repo.Create(ctx, &models.Category{Name: name}))
	}

	categories, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, categories, 3)
	assert.Equal(t, "baseball", categories[0].Name, "ordered by name")

	found, err := repo.GetByID(ctx, categories[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "baseball", found.Name)

	_, err = repo.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, ErrCategoryNotFound)
}

func TestBunItemRepository_CRUD(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBunItemRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "erin@example.com")
	item := &models.Item{
		Title:       "snowboard",
		Description: "slightly used",
		Price:       "149.99",
		CategoryID:  1,
		UserID:      user.ID,
	}
	require.NoError(t, repo.Create(ctx, item))
	require.NotZero(t, item.ID)

	loaded, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "snowboard", loaded.Title)

	loaded.Price = "99.99"
	require.NoError(t, repo.Update(ctx, loaded))
	reloaded, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, "99.99", reloaded.Price)

	require.NoError(t, repo.Delete(ctx, item.ID))
	_, err = repo.GetByID(ctx, item.ID)
	assert.ErrorIs(t, err, ErrItemNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, item.ID), ErrItemNotFound)
}

func TestBunItemRepository_ListByCategory(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBunItemRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "frank@example.com")
	for i, title := range []string{"bat", "glove", "helmet"} {
		categoryID := int64(1)
		if i == 2 {
			categoryID = 2
		}
		require.NoError(t, repo.Create(ctx, &models.Item{
			Title:      title,
			CategoryID: categoryID,
			UserID:     user.ID,
		}))
	}

	items, err := repo.ListByCategory(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	items, err = repo.ListByCategory(ctx, 99)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestBunItemRepository_ListRecent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBunItemRepository(db)
	ctx := context.Background()

	user := createTestUser(t, db, "gina@example.com")
	base := time.Now().Add(-time.Hour)
	for i := 0; i < 5; i++ {
		item := &models.Item{
			Title:      "item",
			CategoryID: 1,
			UserID:     user.ID,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, repo.Create(ctx, item))
	}

	items, err := repo.ListRecent(ctx, 3)
	require.NoError(t, err)
	require.Len(t, items, 3)
	// Newest first; equal timestamps fall back to id order.
	assert.True(t, items[0].CreatedAt.After(items[2].CreatedAt) ||
		items[0].ID > items[2].ID)
}

func TestBunItemRepository_IsOwner(t *testing.T) {
	db := setupTestDB(t)
	repo := NewBunItemRepository(db)
	ctx := context.Background()

	owner := createTestUser(t, db, "hana@example.com")
	other := createTestUser(t, db, "ivan@example.com")

	item := &models.Item{Title: "kayak", CategoryID: 1, UserID: owner.ID}
	require.NoError(t, repo.Create(ctx, item))

	ok, err := repo.IsOwner(ctx, owner.ID, item.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.IsOwner(ctx, other.ID, item.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.IsOwner(ctx, owner.ID, 9999)
	assert.ErrorIs(t, err, ErrItemNotFound)
}
