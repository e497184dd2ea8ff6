package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lib/pq"

	"greencart-backend/internal/domains/promotion/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const selectPromotionQuery = `
	SELECT id, name, description, discount_type, discount_value, scope,
	       product_ids, category_ids, brand_ids,
	       minimum_purchase_amount, minimum_quantity, maximum_discount_amount,
	       usage_limit, usage_count, start_date, end_date, coupon_code,
	       is_active, created_at, updated_at
	FROM promotions`

func (r *postgresRepository) Create(ctx context.Context, p *model.Promotion) (uuid.UUID, error) {
	query := `
		INSERT INTO promotions (
			name, description, discount_type, discount_value, scope,
			product_ids, category_ids, brand_ids,
			minimum_purchase_amount, minimum_quantity, maximum_discount_amount,
			usage_limit, usage_count, start_date, end_date, coupon_code,
			is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, 0, $13, $14, $15, $16, NOW(), NOW())
		RETURNING id
	`
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, query,
		p.Name, p.Description, p.DiscountType, p.DiscountValue, p.Scope,
		uuidArray(p.ProductIDs), uuidArray(p.CategoryIDs), uuidArray(p.BrandIDs),
		p.MinimumPurchaseAmount, p.MinimumQuantity, p.MaximumDiscountAmount,
		p.UsageLimit, p.StartDate, p.EndDate, p.CouponCode, p.IsActive,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName, "coupon") {
			return uuid.Nil, model.ErrCouponCodeTaken
		}
		return uuid.Nil, fmt.Errorf("create promotion: %w", err)
	}
	return id, nil
}

func (r *postgresRepository) List(ctx context.Context, activeOnly bool) ([]*model.Promotion, error) {
	query := selectPromotionQuery
	if activeOnly {
		query += ` WHERE is_active = TRUE AND start_date <= NOW() AND end_date >= NOW()`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list promotions: %w", err)
	}
	defer rows.Close()

	var out []*model.Promotion
	for rows.Next() {
		p, err := scanPromotion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Promotion, error) {
	return scanPromotion(r.pool.QueryRow(ctx, selectPromotionQuery+` WHERE id = $1`, id))
}

func (r *postgresRepository) FindByCode(ctx context.Context, code string) (*model.Promotion, error) {
	return scanPromotion(r.pool.QueryRow(ctx,
		selectPromotionQuery+` WHERE UPPER(coupon_code) = UPPER($1)`, code))
}

func (r *postgresRepository) Update(ctx context.Context, p *model.Promotion) error {
	query := `
		UPDATE promotions
		SET name = $2, description = $3, discount_type = $4, discount_value = $5, scope = $6,
		    product_ids = $7, category_ids = $8, brand_ids = $9,
		    minimum_purchase_amount = $10, minimum_quantity = $11, maximum_discount_amount = $12,
		    usage_limit = $13, start_date = $14, end_date = $15, coupon_code = $16,
		    is_active = $17, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query,
		p.ID, p.Name, p.Description, p.DiscountType, p.DiscountValue, p.Scope,
		uuidArray(p.ProductIDs), uuidArray(p.CategoryIDs), uuidArray(p.BrandIDs),
		p.MinimumPurchaseAmount, p.MinimumQuantity, p.MaximumDiscountAmount,
		p.UsageLimit, p.StartDate, p.EndDate, p.CouponCode, p.IsActive,
	)
	if err != nil {
		return fmt.Errorf("update promotion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPromotionNotFound
	}
	return nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE promotions SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete promotion: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrPromotionNotFound
	}
	return nil
}

func (r *postgresRepository) CreateUsage(ctx context.Context, tx pgx.Tx, usage *model.PromotionUsage) error {
	query := `
		INSERT INTO promotion_usages (promotion_id, order_id, user_id, discount_amount, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id
	`
	err := tx.QueryRow(ctx, query,
		usage.PromotionID, usage.OrderID, usage.UserID, usage.DiscountAmount,
	).Scan(&usage.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrAlreadyApplied
		}
		return fmt.Errorf("create promotion usage: %w", err)
	}
	return nil
}

func (r *postgresRepository) IncrementUsage(ctx context.Context, tx pgx.Tx, promotionID uuid.UUID) error {
	// Conditional increment: the WHERE clause is the concurrency control.
	// Two racing applications both see usage_count = limit-1, but only
	// one UPDATE matches.
	query := `
		UPDATE promotions
		SET usage_count = usage_count + 1, updated_at = NOW()
		WHERE id = $1 AND (usage_limit IS NULL OR usage_count < usage_limit)
	`
	tag, err := tx.Exec(ctx, query, promotionID)
	if err != nil {
		return fmt.Errorf("increment promotion usage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUsageLimitReached
	}
	return nil
}

func (r *postgresRepository) DeactivateExpired(ctx context.Context) (int64, error) {
	tag, err := r.pool.Exec(ctx,
		`UPDATE promotions SET is_active = FALSE, updated_at = NOW() WHERE is_active = TRUE AND end_date < NOW()`)
	if err != nil {
		return 0, fmt.Errorf("deactivate expired promotions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// ========================================
// HELPERS
// ========================================

// uuidArray converts to a driver-friendly text array; NULL for empty.
func uuidArray(ids []uuid.UUID) interface{} {
	if len(ids) == 0 {
		return nil
	}
	strs := make([]string, len(ids))
	for i, id := range ids {
		strs[i] = id.String()
	}
	return pq.Array(strs)
}

func scanPromotion(row pgx.Row) (*model.Promotion, error) {
	var p model.Promotion
	var productIDs, categoryIDs, brandIDs []string
	err := row.Scan(
		&p.ID, &p.Name, &p.Description, &p.DiscountType, &p.DiscountValue, &p.Scope,
		pq.Array(&productIDs), pq.Array(&categoryIDs), pq.Array(&brandIDs),
		&p.MinimumPurchaseAmount, &p.MinimumQuantity, &p.MaximumDiscountAmount,
		&p.UsageLimit, &p.UsageCount, &p.StartDate, &p.EndDate, &p.CouponCode,
		&p.IsActive, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrPromotionNotFound
		}
		return nil, fmt.Errorf("scan promotion: %w", err)
	}

	if p.ProductIDs, err = parseUUIDs(productIDs); err != nil {
		return nil, err
	}
	if p.CategoryIDs, err = parseUUIDs(categoryIDs); err != nil {
		return nil, err
	}
	if p.BrandIDs, err = parseUUIDs(brandIDs); err != nil {
		return nil, err
	}
	return &p, nil
}

func parseUUIDs(strs []string) ([]uuid.UUID, error) {
	if len(strs) == 0 {
		return nil, nil
	}
	out := make([]uuid.UUID, len(strs))
	for i, s := range strs {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("parse uuid array element: %w", err)
		}
		out[i] = id
	}
	return out, nil
}
