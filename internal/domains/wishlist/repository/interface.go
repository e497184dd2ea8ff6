package repository

import (
	"context"

	"github.com/google/uuid"

	"greencart-backend/internal/domains/wishlist/model"
)

// Repository is the persistence port for wishlists.
type Repository interface {
	GetOrCreateByUser(ctx context.Context, userID uuid.UUID) (*model.Wishlist, error)
	FindByUser(ctx context.Context, userID uuid.UUID) (*model.Wishlist, error)
	SetVisibility(ctx context.Context, wishlistID uuid.UUID, isPublic bool) error

	AddItem(ctx context.Context, wishlistID, productID uuid.UUID) (*model.WishlistItem, error)
	FindItem(ctx context.Context, itemID uuid.UUID) (*model.WishlistItem, error)
	RemoveItem(ctx context.Context, itemID uuid.UUID) error

	// ListHoldersByProduct returns the active users whose wishlist
	// contains the product, for price-drop alerts.
	ListHoldersByProduct(ctx context.Context, productID uuid.UUID) ([]*model.Holder, error)
}
