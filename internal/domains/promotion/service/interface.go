package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	catalogmodel "greencart-backend/internal/domains/catalog/model"
	ordermodel "greencart-backend/internal/domains/order/model"
	"greencart-backend/internal/domains/promotion/model"
)

// OrderProvider is the slice of the order layer an application needs.
// FindByIDTx locks the order row so concurrent applications serialize.
type OrderProvider interface {
	FindByIDTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*ordermodel.Order, error)
	SetDiscountAmount(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, amount decimal.Decimal) error
	UpdateTotals(ctx context.Context, tx pgx.Tx, o *ordermodel.Order) error
}

// ProductProvider resolves products for scope matching.
type ProductProvider interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*catalogmodel.Product, error)
}

// Service is the business layer for promotions.
type Service interface {
	Create(ctx context.Context, req model.PromotionRequest) (*model.Promotion, error)
	List(ctx context.Context, activeOnly bool) ([]*model.Promotion, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Promotion, error)
	Update(ctx context.Context, id uuid.UUID, req model.PromotionRequest) (*model.Promotion, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// Apply grants a promotion's discount to a pending order, at most
	// once per (promotion, order) pair, and feeds the amount back into
	// the order totals in the same transaction.
	Apply(ctx context.Context, userID uuid.UUID, isAdmin bool, req model.ApplyRequest) (*model.ApplyResponse, error)

	// DeactivateExpired flips off promotions past their end date.
	// Run daily by the scheduler.
	DeactivateExpired(ctx context.Context) (int64, error)
}
