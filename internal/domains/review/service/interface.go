package service

import (
	"context"

	"github.com/google/uuid"

	ordermodel "greencart-backend/internal/domains/order/model"
	"greencart-backend/internal/domains/review/model"
)

// OrderProvider resolves orders for verified-purchase checks.
type OrderProvider interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ordermodel.Order, error)
}

// Service is the business layer for reviews and their moderation.
type Service interface {
	Create(ctx context.Context, userID uuid.UUID, req model.CreateReviewRequest) (*model.Review, error)
	Get(ctx context.Context, id uuid.UUID) (*model.Review, error)
	// ListByProduct shows only approved reviews to non-staff callers.
	ListByProduct(ctx context.Context, productID uuid.UUID, isAdmin bool, page, pageSize int) ([]*model.Review, int64, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]*model.Review, error)
	Update(ctx context.Context, userID uuid.UUID, reviewID uuid.UUID, req model.UpdateReviewRequest) (*model.Review, error)

	Approve(ctx context.Context, reviewID uuid.UUID) (*model.Review, error)
	Reject(ctx context.Context, reviewID uuid.UUID) (*model.Review, error)

	// MarkHelpful records one helpful vote per user per review.
	MarkHelpful(ctx context.Context, userID uuid.UUID, reviewID uuid.UUID) (*model.Review, error)
}
