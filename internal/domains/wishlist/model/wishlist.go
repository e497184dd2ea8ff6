package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wishlist is one-per-user, created lazily on first access.
type Wishlist struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	UserID    uuid.UUID       `json:"user_id" db:"user_id"`
	IsPublic  bool            `json:"is_public" db:"is_public"`
	Items     []*WishlistItem `json:"items" db:"-"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// ItemProduct is a read-only product summary joined onto each item.
type ItemProduct struct {
	Name     string          `json:"name" db:"name"`
	Slug     string          `json:"slug" db:"slug"`
	Price    decimal.Decimal `json:"price" db:"price"`
	IsActive bool            `json:"is_active" db:"is_active"`
}

// Holder identifies a user to notify about a wishlisted product.
type Holder struct {
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Email     string    `json:"email" db:"email"`
	FirstName string    `json:"first_name" db:"first_name"`
}

// WishlistItem is a unique (wishlist, product) pair.
type WishlistItem struct {
	ID         uuid.UUID   `json:"id" db:"id"`
	WishlistID uuid.UUID   `json:"wishlist_id" db:"wishlist_id"`
	ProductID  uuid.UUID   `json:"product_id" db:"product_id"`
	Product    ItemProduct `json:"product" db:"-"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
}
