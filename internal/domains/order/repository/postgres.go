package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"greencart-backend/internal/domains/order/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) CreateOrder(ctx context.Context, tx pgx.Tx, o *model.Order) (uuid.UUID, error) {
	query := `
		INSERT INTO orders (
			user_id, order_number, status, payment_status,
			subtotal, discount_amount, tax_amount, shipping_cost, total,
			shipping_address, billing_address, notes,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, NOW(), NOW())
		RETURNING id
	`
	var id uuid.UUID
	err := tx.QueryRow(ctx, query,
		o.UserID, o.OrderNumber, o.Status, o.PaymentStatus,
		o.Subtotal, o.DiscountAmount, o.TaxAmount, o.ShippingCost, o.Total,
		o.ShippingAddress, o.BillingAddress, o.Notes,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create order: %w", err)
	}
	return id, nil
}

func (r *postgresRepository) CreateItem(ctx context.Context, tx pgx.Tx, item *model.OrderItem) error {
	query := `
		INSERT INTO order_items (order_id, product_id, product_name, product_sku, quantity, unit_price, total_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id
	`
	err := tx.QueryRow(ctx, query,
		item.OrderID, item.ProductID, item.ProductName, item.ProductSKU,
		item.Quantity, item.UnitPrice, item.TotalPrice,
	).Scan(&item.ID)
	if err != nil {
		return fmt.Errorf("create order item: %w", err)
	}
	return nil
}

func (r *postgresRepository) UpdateTotals(ctx context.Context, tx pgx.Tx, o *model.Order) error {
	query := `
		UPDATE orders
		SET subtotal = $2, discount_amount = $3, tax_amount = $4, shipping_cost = $5, total = $6, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := tx.Exec(ctx, query,
		o.ID, o.Subtotal, o.DiscountAmount, o.TaxAmount, o.ShippingCost, o.Total)
	if err != nil {
		return fmt.Errorf("update order totals: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}
	return nil
}

func (r *postgresRepository) SetDiscountAmount(ctx context.Context, tx pgx.Tx, orderID uuid.UUID, amount decimal.Decimal) error {
	tag, err := tx.Exec(ctx,
		`UPDATE orders SET discount_amount = $2, updated_at = NOW() WHERE id = $1`, orderID, amount)
	if err != nil {
		return fmt.Errorf("set order discount: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}
	return nil
}

const selectOrderQuery = `
	SELECT id, user_id, order_number, status, payment_status,
	       subtotal, discount_amount, tax_amount, shipping_cost, total,
	       shipping_address, billing_address, notes, created_at, updated_at
	FROM orders`

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	o, err := scanOrder(r.pool.QueryRow(ctx, selectOrderQuery+` WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadItems(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepository) FindByIDTx(ctx context.Context, tx pgx.Tx, id uuid.UUID) (*model.Order, error) {
	// FOR UPDATE so concurrent promotion applications serialize on the row.
	o, err := scanOrder(tx.QueryRow(ctx, selectOrderQuery+` WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, selectOrderItemQuery+` WHERE order_id = $1 ORDER BY created_at ASC`, id)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()
	o.Items, err = scanOrderItems(rows)
	if err != nil {
		return nil, err
	}
	return o, nil
}

func (r *postgresRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*model.Order, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		selectOrderQuery+` WHERE user_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []*model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for _, o := range orders {
		if err := r.loadItems(ctx, o); err != nil {
			return nil, 0, err
		}
	}
	return orders, total, nil
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE orders SET status = $2, updated_at = NOW() WHERE id = $1`, orderID, status)
	if err != nil {
		return fmt.Errorf("update order status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}
	return nil
}

func (r *postgresRepository) UpdatePaymentStatus(ctx context.Context, orderID uuid.UUID, paymentStatus string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE orders SET payment_status = $2, updated_at = NOW() WHERE id = $1`, orderID, paymentStatus)
	if err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrOrderNotFound
	}
	return nil
}

func (r *postgresRepository) ListPendingOlderThan(ctx context.Context, hours int) ([]*model.Order, error) {
	rows, err := r.pool.Query(ctx,
		selectOrderQuery+` WHERE status = $1 AND created_at < NOW() - make_interval(hours => $2) ORDER BY created_at ASC`,
		model.StatusPending, hours)
	if err != nil {
		return nil, fmt.Errorf("list pending orders: %w", err)
	}
	defer rows.Close()

	var orders []*model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

// ========================================
// HELPERS
// ========================================

const selectOrderItemQuery = `
	SELECT id, order_id, product_id, product_name, product_sku, quantity, unit_price, total_price, created_at
	FROM order_items`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(
		&o.ID, &o.UserID, &o.OrderNumber, &o.Status, &o.PaymentStatus,
		&o.Subtotal, &o.DiscountAmount, &o.TaxAmount, &o.ShippingCost, &o.Total,
		&o.ShippingAddress, &o.BillingAddress, &o.Notes, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrOrderNotFound
		}
		return nil, fmt.Errorf("scan order: %w", err)
	}
	return &o, nil
}

func scanOrderItems(rows pgx.Rows) ([]*model.OrderItem, error) {
	var items []*model.OrderItem
	for rows.Next() {
		var item model.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.ProductName,
			&item.ProductSKU, &item.Quantity, &item.UnitPrice, &item.TotalPrice, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, &item)
	}
	return items, rows.Err()
}

func (r *postgresRepository) loadItems(ctx context.Context, o *model.Order) error {
	rows, err := r.pool.Query(ctx, selectOrderItemQuery+` WHERE order_id = $1 ORDER BY created_at ASC`, o.ID)
	if err != nil {
		return fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()
	o.Items, err = scanOrderItems(rows)
	return err
}
