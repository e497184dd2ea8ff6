package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"greencart-backend/internal/domains/cart/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const selectCartQuery = `
	SELECT id, user_id, session_key, is_active, created_at, updated_at
	FROM carts`

func (r *postgresRepository) GetOrCreateActiveCart(ctx context.Context, owner model.Owner) (*model.Cart, error) {
	if !owner.IsValid() {
		return nil, model.ErrInvalidOwner
	}

	cart, err := r.FindActiveCart(ctx, owner)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, model.ErrCartNotFound) {
		return nil, err
	}

	// Partial unique indexes on (user_id) and (session_key) where
	// is_active keep this race-safe; a concurrent insert surfaces as a
	// conflict and we re-read.
	query := `
		INSERT INTO carts (user_id, session_key, is_active, created_at, updated_at)
		VALUES ($1, $2, TRUE, NOW(), NOW())
		ON CONFLICT DO NOTHING
		RETURNING id, user_id, session_key, is_active, created_at, updated_at
	`
	var c model.Cart
	err = r.pool.QueryRow(ctx, query, owner.UserID, owner.SessionKey).Scan(
		&c.ID, &c.UserID, &c.SessionKey, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r.FindActiveCart(ctx, owner)
		}
		return nil, fmt.Errorf("create cart: %w", err)
	}
	c.Items = []*model.CartItem{}
	return &c, nil
}

func (r *postgresRepository) FindActiveCart(ctx context.Context, owner model.Owner) (*model.Cart, error) {
	if !owner.IsValid() {
		return nil, model.ErrInvalidOwner
	}

	var row pgx.Row
	if owner.UserID != nil {
		row = r.pool.QueryRow(ctx, selectCartQuery+` WHERE user_id = $1 AND is_active = TRUE`, *owner.UserID)
	} else {
		row = r.pool.QueryRow(ctx, selectCartQuery+` WHERE session_key = $1 AND is_active = TRUE`, *owner.SessionKey)
	}

	var c model.Cart
	err := row.Scan(&c.ID, &c.UserID, &c.SessionKey, &c.IsActive, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCartNotFound
		}
		return nil, fmt.Errorf("find cart: %w", err)
	}

	if err := r.LoadItems(ctx, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *postgresRepository) LoadItems(ctx context.Context, cart *model.Cart) error {
	query := `
		SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity, ci.price_at_time,
		       ci.created_at, ci.updated_at,
		       p.name, p.slug, p.price, p.weight, p.quantity, p.track_quantity, p.is_active
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = $1
		ORDER BY ci.created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, cart.ID)
	if err != nil {
		return fmt.Errorf("load cart items: %w", err)
	}
	defer rows.Close()

	cart.Items = []*model.CartItem{}
	for rows.Next() {
		var item model.CartItem
		if err := rows.Scan(
			&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.PriceAtTime,
			&item.CreatedAt, &item.UpdatedAt,
			&item.Product.Name, &item.Product.Slug, &item.Product.Price, &item.Product.Weight,
			&item.Product.Quantity, &item.Product.TrackQuantity, &item.Product.IsActive,
		); err != nil {
			return fmt.Errorf("scan cart item: %w", err)
		}
		cart.Items = append(cart.Items, &item)
	}
	return rows.Err()
}

func (r *postgresRepository) FindItem(ctx context.Context, cartID, productID uuid.UUID) (*model.CartItem, error) {
	query := `
		SELECT id, cart_id, product_id, quantity, price_at_time, created_at, updated_at
		FROM cart_items
		WHERE cart_id = $1 AND product_id = $2
	`
	var item model.CartItem
	err := r.pool.QueryRow(ctx, query, cartID, productID).Scan(
		&item.ID, &item.CartID, &item.ProductID, &item.Quantity, &item.PriceAtTime,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCartItemNotFound
		}
		return nil, fmt.Errorf("find cart item: %w", err)
	}
	return &item, nil
}

func (r *postgresRepository) UpsertItem(ctx context.Context, item *model.CartItem) error {
	// price_at_time only applies to the insert arm: the snapshot taken
	// when the line was first created is immutable.
	query := `
		INSERT INTO cart_items (cart_id, product_id, quantity, price_at_time, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (cart_id, product_id) DO UPDATE SET
			quantity   = cart_items.quantity + EXCLUDED.quantity,
			updated_at = NOW()
	`
	if _, err := r.pool.Exec(ctx, query, item.CartID, item.ProductID, item.Quantity, item.PriceAtTime); err != nil {
		return fmt.Errorf("upsert cart item: %w", err)
	}
	return nil
}

func (r *postgresRepository) SetItemQuantity(ctx context.Context, cartID, productID uuid.UUID, qty int) error {
	query := `
		UPDATE cart_items SET quantity = $3, updated_at = NOW()
		WHERE cart_id = $1 AND product_id = $2
	`
	tag, err := r.pool.Exec(ctx, query, cartID, productID, qty)
	if err != nil {
		return fmt.Errorf("set cart item quantity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCartItemNotFound
	}
	return nil
}

func (r *postgresRepository) RemoveItem(ctx context.Context, cartID, productID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM cart_items WHERE cart_id = $1 AND product_id = $2`, cartID, productID)
	if err != nil {
		return fmt.Errorf("remove cart item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCartItemNotFound
	}
	return nil
}

func (r *postgresRepository) ClearItems(ctx context.Context, cartID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM cart_items WHERE cart_id = $1`, cartID); err != nil {
		return fmt.Errorf("clear cart items: %w", err)
	}
	return nil
}
