package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	cartmodel "greencart-backend/internal/domains/cart/model"
	catalogmodel "greencart-backend/internal/domains/catalog/model"
	"greencart-backend/internal/domains/order/model"
	usermodel "greencart-backend/internal/domains/user/model"
)

// ProductProvider is the slice of the catalog order creation needs.
type ProductProvider interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*catalogmodel.Product, error)
	DecrementStock(ctx context.Context, tx pgx.Tx, productID uuid.UUID, qty int) error
}

// AddressProvider resolves shipping addresses for snapshotting.
type AddressProvider interface {
	FindAddressByID(ctx context.Context, id uuid.UUID) (*usermodel.ShippingAddress, error)
	FindByID(ctx context.Context, id uuid.UUID) (*usermodel.User, error)
}

// CartProvider lets from-cart checkout read and drain the active cart.
type CartProvider interface {
	FindActiveCart(ctx context.Context, owner cartmodel.Owner) (*cartmodel.Cart, error)
	ClearItems(ctx context.Context, cartID uuid.UUID) error
}

// Service is the business layer for orders.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req model.CreateOrderRequest) (*model.Order, error)
	List(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*model.Order, int64, error)
	Get(ctx context.Context, userID uuid.UUID, isAdmin bool, orderID uuid.UUID) (*model.Order, error)
	Cancel(ctx context.Context, userID uuid.UUID, isAdmin bool, orderID uuid.UUID) (*model.Order, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*model.Order, error)

	// ScanPendingOrders enqueues a reminder email for every order still
	// pending after the configured age. Run daily by the scheduler.
	ScanPendingOrders(ctx context.Context) (int, error)
}
