package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"greencart-backend/internal/domains/wishlist/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

func (r *postgresRepository) GetOrCreateByUser(ctx context.Context, userID uuid.UUID) (*model.Wishlist, error) {
	w, err := r.FindByUser(ctx, userID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, model.ErrWishlistNotFound) {
		return nil, err
	}

	query := `
		INSERT INTO wishlists (user_id, is_public, created_at, updated_at)
		VALUES ($1, FALSE, NOW(), NOW())
		ON CONFLICT (user_id) DO NOTHING
		RETURNING id, user_id, is_public, created_at, updated_at
	`
	var created model.Wishlist
	err = r.pool.QueryRow(ctx, query, userID).Scan(
		&created.ID, &created.UserID, &created.IsPublic, &created.CreatedAt, &created.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Lost the race, the other insert won.
			return r.FindByUser(ctx, userID)
		}
		return nil, fmt.Errorf("create wishlist: %w", err)
	}
	created.Items = []*model.WishlistItem{}
	return &created, nil
}

func (r *postgresRepository) FindByUser(ctx context.Context, userID uuid.UUID) (*model.Wishlist, error) {
	var w model.Wishlist
	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, is_public, created_at, updated_at FROM wishlists WHERE user_id = $1`,
		userID).Scan(&w.ID, &w.UserID, &w.IsPublic, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrWishlistNotFound
		}
		return nil, fmt.Errorf("find wishlist: %w", err)
	}

	if err := r.loadItems(ctx, &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *postgresRepository) loadItems(ctx context.Context, w *model.Wishlist) error {
	query := `
		SELECT wi.id, wi.wishlist_id, wi.product_id, wi.created_at,
		       p.name, p.slug, p.price, p.is_active
		FROM wishlist_items wi
		JOIN products p ON p.id = wi.product_id
		WHERE wi.wishlist_id = $1
		ORDER BY wi.created_at DESC
	`
	rows, err := r.pool.Query(ctx, query, w.ID)
	if err != nil {
		return fmt.Errorf("load wishlist items: %w", err)
	}
	defer rows.Close()

	w.Items = []*model.WishlistItem{}
	for rows.Next() {
		var item model.WishlistItem
		if err := rows.Scan(&item.ID, &item.WishlistID, &item.ProductID, &item.CreatedAt,
			&item.Product.Name, &item.Product.Slug, &item.Product.Price, &item.Product.IsActive); err != nil {
			return fmt.Errorf("scan wishlist item: %w", err)
		}
		w.Items = append(w.Items, &item)
	}
	return rows.Err()
}

func (r *postgresRepository) SetVisibility(ctx context.Context, wishlistID uuid.UUID, isPublic bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE wishlists SET is_public = $2, updated_at = NOW() WHERE id = $1`, wishlistID, isPublic)
	if err != nil {
		return fmt.Errorf("set wishlist visibility: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrWishlistNotFound
	}
	return nil
}

func (r *postgresRepository) AddItem(ctx context.Context, wishlistID, productID uuid.UUID) (*model.WishlistItem, error) {
	query := `
		INSERT INTO wishlist_items (wishlist_id, product_id, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, wishlist_id, product_id, created_at
	`
	var item model.WishlistItem
	err := r.pool.QueryRow(ctx, query, wishlistID, productID).Scan(
		&item.ID, &item.WishlistID, &item.ProductID, &item.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, model.ErrItemAlreadyPresent
		}
		return nil, fmt.Errorf("add wishlist item: %w", err)
	}
	return &item, nil
}

func (r *postgresRepository) FindItem(ctx context.Context, itemID uuid.UUID) (*model.WishlistItem, error) {
	var item model.WishlistItem
	err := r.pool.QueryRow(ctx,
		`SELECT id, wishlist_id, product_id, created_at FROM wishlist_items WHERE id = $1`,
		itemID).Scan(&item.ID, &item.WishlistID, &item.ProductID, &item.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrWishlistItemNotFound
		}
		return nil, fmt.Errorf("find wishlist item: %w", err)
	}
	return &item, nil
}

func (r *postgresRepository) RemoveItem(ctx context.Context, itemID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM wishlist_items WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("remove wishlist item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrWishlistItemNotFound
	}
	return nil
}

func (r *postgresRepository) ListHoldersByProduct(ctx context.Context, productID uuid.UUID) ([]*model.Holder, error) {
	query := `
		SELECT DISTINCT u.id, u.email, u.first_name
		FROM wishlist_items wi
		JOIN wishlists w ON w.id = wi.wishlist_id
		JOIN users u ON u.id = w.user_id
		WHERE wi.product_id = $1 AND u.is_active = TRUE
	`
	rows, err := r.pool.Query(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list wishlist holders: %w", err)
	}
	defer rows.Close()

	var holders []*model.Holder
	for rows.Next() {
		var h model.Holder
		if err := rows.Scan(&h.UserID, &h.Email, &h.FirstName); err != nil {
			return nil, fmt.Errorf("scan wishlist holder: %w", err)
		}
		holders = append(holders, &h)
	}
	return holders, rows.Err()
}
