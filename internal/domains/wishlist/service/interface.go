package service

import (
	"context"

	"github.com/google/uuid"

	cartmodel "greencart-backend/internal/domains/cart/model"
	"greencart-backend/internal/domains/wishlist/model"
)

// CartAdder is the slice of the cart service move-to-cart needs.
type CartAdder interface {
	AddItem(ctx context.Context, owner cartmodel.Owner, req cartmodel.AddItemRequest) (*cartmodel.CartResponse, error)
}

// Service is the business layer for wishlists.
type Service interface {
	GetMyWishlist(ctx context.Context, userID uuid.UUID) (*model.Wishlist, error)
	GetPublicWishlist(ctx context.Context, ownerID uuid.UUID) (*model.Wishlist, error)
	SetVisibility(ctx context.Context, userID uuid.UUID, isPublic bool) (*model.Wishlist, error)

	AddItem(ctx context.Context, userID uuid.UUID, req model.AddItemRequest) (*model.Wishlist, error)
	RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*model.Wishlist, error)
	// MoveToCart adds the product to the user's cart and, only on success,
	// removes the wishlist item.
	MoveToCart(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*model.Wishlist, error)
}
