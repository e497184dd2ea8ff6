package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"greencart-backend/internal/domains/review/model"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

const selectReviewQuery = `
	SELECT id, product_id, user_id, order_id, rating, title, comment,
	       status, is_verified_purchase, helpful_count, created_at, updated_at
	FROM reviews`

func (r *postgresRepository) Create(ctx context.Context, review *model.Review) (uuid.UUID, error) {
	query := `
		INSERT INTO reviews (
			product_id, user_id, order_id, rating, title, comment,
			status, is_verified_purchase, helpful_count, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 0, NOW(), NOW())
		RETURNING id
	`
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, query,
		review.ProductID, review.UserID, review.OrderID, review.Rating,
		review.Title, review.Comment, review.Status, review.IsVerifiedPurchase,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return uuid.Nil, model.ErrAlreadyReviewed
		}
		return uuid.Nil, fmt.Errorf("create review: %w", err)
	}
	return id, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	return scanReview(r.pool.QueryRow(ctx, selectReviewQuery+` WHERE id = $1`, id))
}

func (r *postgresRepository) ListByProduct(ctx context.Context, productID uuid.UUID, status string, limit, offset int) ([]*model.Review, int64, error) {
	where := ` WHERE product_id = $1`
	args := []interface{}{productID}
	if status != "" {
		where += ` AND status = $2`
		args = append(args, status)
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM reviews`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count reviews: %w", err)
	}

	query := fmt.Sprintf("%s%s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		selectReviewQuery, where, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list reviews: %w", err)
	}
	defer rows.Close()

	reviews, err := scanReviews(rows)
	if err != nil {
		return nil, 0, err
	}
	return reviews, total, nil
}

func (r *postgresRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Review, error) {
	rows, err := r.pool.Query(ctx,
		selectReviewQuery+` WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list user reviews: %w", err)
	}
	defer rows.Close()
	return scanReviews(rows)
}

func (r *postgresRepository) Update(ctx context.Context, review *model.Review) error {
	query := `
		UPDATE reviews
		SET rating = $2, title = $3, comment = $4, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, review.ID, review.Rating, review.Title, review.Comment)
	if err != nil {
		return fmt.Errorf("update review: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrReviewNotFound
	}
	return nil
}

func (r *postgresRepository) UpdateStatus(ctx context.Context, reviewID uuid.UUID, status string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE reviews SET status = $2, updated_at = NOW() WHERE id = $1`, reviewID, status)
	if err != nil {
		return fmt.Errorf("update review status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrReviewNotFound
	}
	return nil
}

func (r *postgresRepository) CreateHelpfulVote(ctx context.Context, tx pgx.Tx, vote *model.ReviewHelpful) error {
	query := `
		INSERT INTO review_helpfuls (review_id, user_id, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id
	`
	err := tx.QueryRow(ctx, query, vote.ReviewID, vote.UserID).Scan(&vote.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return model.ErrDuplicateHelpful
		}
		return fmt.Errorf("create helpful vote: %w", err)
	}
	return nil
}

func (r *postgresRepository) IncrementHelpfulCount(ctx context.Context, tx pgx.Tx, reviewID uuid.UUID) error {
	tag, err := tx.Exec(ctx,
		`UPDATE reviews SET helpful_count = helpful_count + 1, updated_at = NOW() WHERE id = $1`, reviewID)
	if err != nil {
		return fmt.Errorf("increment helpful count: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrReviewNotFound
	}
	return nil
}

// ========================================
// HELPERS
// ========================================

func scanReview(row pgx.Row) (*model.Review, error) {
	var rv model.Review
	err := row.Scan(
		&rv.ID, &rv.ProductID, &rv.UserID, &rv.OrderID, &rv.Rating, &rv.Title,
		&rv.Comment, &rv.Status, &rv.IsVerifiedPurchase, &rv.HelpfulCount,
		&rv.CreatedAt, &rv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrReviewNotFound
		}
		return nil, fmt.Errorf("scan review: %w", err)
	}
	return &rv, nil
}

func scanReviews(rows pgx.Rows) ([]*model.Review, error) {
	var out []*model.Review
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rv)
	}
	return out, rows.Err()
}
