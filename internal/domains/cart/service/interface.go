package service

import (
	"context"

	"github.com/google/uuid"

	"greencart-backend/internal/domains/cart/model"
	catalogmodel "greencart-backend/internal/domains/catalog/model"
)

// ProductProvider is the slice of the catalog the cart needs.
type ProductProvider interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*catalogmodel.Product, error)
}

// Service is the business layer for cart operations.
type Service interface {
	GetMyCart(ctx context.Context, owner model.Owner) (*model.CartResponse, error)
	AddItem(ctx context.Context, owner model.Owner, req model.AddItemRequest) (*model.CartResponse, error)
	UpdateItemQuantity(ctx context.Context, owner model.Owner, req model.UpdateItemRequest) (*model.CartResponse, error)
	RemoveItem(ctx context.Context, owner model.Owner, productID uuid.UUID) (*model.CartResponse, error)
	Clear(ctx context.Context, owner model.Owner) (*model.CartResponse, error)
}
