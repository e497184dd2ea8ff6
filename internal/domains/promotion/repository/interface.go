package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"greencart-backend/internal/domains/promotion/model"
)

// Repository is the persistence port for promotions and their usages.
type Repository interface {
	Create(ctx context.Context, p *model.Promotion) (uuid.UUID, error)
	List(ctx context.Context, activeOnly bool) ([]*model.Promotion, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Promotion, error)
	FindByCode(ctx context.Context, code string) (*model.Promotion, error)
	Update(ctx context.Context, p *model.Promotion) error
	Delete(ctx context.Context, id uuid.UUID) error

	// CreateUsage inserts the (promotion, order) usage row inside the
	// caller's transaction; a duplicate pair maps to ErrAlreadyApplied.
	CreateUsage(ctx context.Context, tx pgx.Tx, usage *model.PromotionUsage) error
	// IncrementUsage bumps usage_count atomically, failing with
	// ErrUsageLimitReached when the budget is exhausted.
	IncrementUsage(ctx context.Context, tx pgx.Tx, promotionID uuid.UUID) error

	// DeactivateExpired flips is_active off for promotions past end_date.
	// Returns how many rows changed. Run daily by the scheduler.
	DeactivateExpired(ctx context.Context) (int64, error)
}
