package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"greencart-backend/internal/domains/order/model"
)

// Repository is the persistence port for orders. Creation-path methods
// take the caller's transaction so an order and its items commit or roll
// back together.
type Repository interface {
	CreateOrder(ctx context.Context, tx pgx.Tx, o *model.Order) (uuid.UUID, error)
	CreateItem(ctx context.Context, tx pgx.Tx, item *model.OrderItem) error
	UpdateTotals(ctx context.Context, tx pgx.Tx, o *model.Order) error
	// SetDiscountAmount updates discount_amount inside a transaction; the
	// caller is responsible for recalculating totals afterwards.
	SetDiscountAmount(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, amount decimal.Decimal) error

	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	FindByIDTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.Order, int64, error)
	UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) error
	UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, paymentStatus string) error

	// ListPendingOlderThan feeds the daily reminder scan.
	ListPendingOlderThan(ctx context.Context, hours int) ([]*model.Order, error)
}
