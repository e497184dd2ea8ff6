package repository

import (
	"context"

	"github.com/google/uuid"

	"greencart-backend/internal/domains/cart/model"
)

// Repository is the persistence port for carts and cart items.
type Repository interface {
	// GetOrCreateActiveCart returns the owner's active cart, creating one
	// when none exists. At most one active cart per owner.
	GetOrCreateActiveCart(ctx context.Context, owner model.Owner) (*model.Cart, error)
	FindActiveCart(ctx context.Context, owner model.Owner) (*model.Cart, error)
	LoadItems(ctx context.Context, cart *model.Cart) error

	FindItem(ctx context.Context, cartID, productID uuid.UUID) (*model.CartItem, error)
	// UpsertItem inserts a line or increments the existing one by
	// item.Quantity. PriceAtTime is only written on insert.
	UpsertItem(ctx context.Context, item *model.CartItem) error
	SetItemQuantity(ctx context.Context, cartID, productID uuid.UUID, qty int) error
	RemoveItem(ctx context.Context, cartID, productID uuid.UUID) error
	ClearItems(ctx context.Context, cartID uuid.UUID) error
}
