package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"greencart-backend/internal/domains/review/model"
)

// Repository is the persistence port for reviews and helpful votes.
type Repository interface {
	// Create inserts a review; a second review by the same user on the
	// same product maps to ErrAlreadyReviewed.
	Create(ctx context.Context, review *model.Review) (uuid.UUID, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Review, error)
	// ListByProduct filters by status; pass "" for all statuses.
	ListByProduct(ctx context.Context, productID uuid.UUID, status string, limit, offset int) ([]*model.Review, int64, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*model.Review, error)
	Update(ctx context.Context, review *model.Review) error
	UpdateStatus(ctx context.Context, reviewID uuid.UUID, status string) error

	// CreateHelpfulVote inserts the (review, user) vote row inside the
	// caller's transaction; a duplicate pair maps to ErrDuplicateHelpful.
	CreateHelpfulVote(ctx context.Context, tx pgx.Tx, vote *model.ReviewHelpful) error
	// IncrementHelpfulCount bumps helpful_count atomically.
	IncrementHelpfulCount(ctx context.Context, tx pgx.Tx, reviewID uuid.UUID) error
}
