package models

import (
	"time"

	"github.com/uptrace/bun"
)

// User represents a human principal keyed by email.
// Password-based accounts carry both PasswordHash and PasswordSalt;
// accounts created via OAuth login carry neither until the user sets a
// password through signup. Email is the only cross-provider join key.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           int64      `bun:"id,pk,autoincrement"`
	Email        string     `bun:"email,notnull,unique"`
	PasswordHash *string    `bun:"password_hash"` // hex SHA256(password||salt), or versioned "bcrypt$..." hash
	PasswordSalt *string    `bun:"password_salt"` // hex-encoded random salt, set iff PasswordHash is set
	Name         string     `bun:"name"`
	Picture      string     `bun:"picture"`
	CreatedAt    time.Time  `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time  `bun:"updated_at,notnull,default:current_timestamp"`
	LastLoginAt  *time.Time `bun:"last_login_at"`
}

// HasPassword reports whether the user can log in with a local password.
func (u *User) HasPassword() bool {
	return u != nil && u.PasswordHash != nil && *u.PasswordHash != ""
}

// Category groups items for browsing.
type Category struct {
	bun.BaseModel `bun:"table:categories,alias:c"`

	ID        int64     `bun:"id,pk,autoincrement"`
	Name      string    `bun:"name,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
}

// Serialize returns the JSON-endpoint representation of a category.
func (c *Category) Serialize() map[string]any {
	return map[string]any{
		"id":      c.ID,
		"name":    c.Name,
		"created": c.CreatedAt,
	}
}

// Item is a catalog entry. UserID records the creator; ownership checks
// compare it against the caller's identity id.
type Item struct {
	bun.BaseModel `bun:"table:items,alias:i"`

	ID          int64     `bun:"id,pk,autoincrement"`
	Title       string    `bun:"title,notnull"`
	Description string    `bun:"description"`
	Price       string    `bun:"price"`
	CategoryID  int64     `bun:"category_id"`
	UserID      int64     `bun:"user_id"`
	CreatedAt   time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}

// Serialize returns the JSON-endpoint representation of an item.
func (i *Item) Serialize() map[string]any {
	return map[string]any{
		"id":          i.ID,
		"title":       i.Title,
		"description": i.Description,
		"price":       i.Price,
		"category_id": i.CategoryID,
		"user_id":     i.UserID,
		"created":     i.CreatedAt,
	}
}
