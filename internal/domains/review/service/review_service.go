package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	ordermodel "greencart-backend/internal/domains/order/model"
	"greencart-backend/internal/domains/review/model"
	"greencart-backend/internal/domains/review/repository"
	"greencart-backend/pkg/database"
	"greencart-backend/pkg/logger"
)

type reviewService struct {
	repo   repository.Repository
	orders OrderProvider
	tx     database.TxRunner
}

func NewReviewService(repo repository.Repository, orders OrderProvider, tx database.TxRunner) Service {
	return &reviewService{repo: repo, orders: orders, tx: tx}
}

func (s *reviewService) Create(ctx context.Context, userID uuid.UUID, req model.CreateReviewRequest) (*model.Review, error) {
	// Step 1: Validate
	if err := req.Validate(); err != nil {
		return nil, err
	}

	review := &model.Review{
		ProductID: req.ProductID,
		UserID:    userID,
		Rating:    req.Rating,
		Title:     req.Title,
		Comment:   req.Comment,
		Status:    model.StatusPending,
	}

	// Step 2: An order reference makes the review a verified purchase,
	// but only after the order checks out as the reviewer's own and as
	// actually containing the product.
	if req.OrderID != nil {
		order, err := s.orders.FindByID(ctx, *req.OrderID)
		if err != nil {
			return nil, err
		}
		if order.UserID != userID {
			return nil, ordermodel.ErrOrderNotOwned
		}
		if !orderContainsProduct(order, req.ProductID) {
			return nil, model.ErrOrderProductMissing
		}
		review.OrderID = req.OrderID
		review.IsVerifiedPurchase = true
	}

	// Step 3: Persist; the unique (product, user) pair rejects a second
	// review by the same user.
	id, err := s.repo.Create(ctx, review)
	if err != nil {
		return nil, err
	}

	logger.Info("review created", map[string]interface{}{
		"review_id":  id,
		"product_id": req.ProductID,
		"verified":   review.IsVerifiedPurchase,
	})
	return s.repo.FindByID(ctx, id)
}

func (s *reviewService) Get(ctx context.Context, id uuid.UUID) (*model.Review, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *reviewService) ListByProduct(ctx context.Context, productID uuid.UUID, isAdmin bool, page, pageSize int) ([]*model.Review, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	status := model.StatusApproved
	if isAdmin {
		status = ""
	}
	return s.repo.ListByProduct(ctx, productID, status, pageSize, (page-1)*pageSize)
}

func (s *reviewService) ListMine(ctx context.Context, userID uuid.UUID) ([]*model.Review, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *reviewService) Update(ctx context.Context, userID uuid.UUID, reviewID uuid.UUID, req model.UpdateReviewRequest) (*model.Review, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	review, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.UserID != userID {
		return nil, model.ErrReviewNotOwned
	}
	if review.Status != model.StatusPending {
		// Moderated reviews are immutable to their author.
		return nil, model.ErrNotPending
	}

	if req.Rating != nil {
		review.Rating = *req.Rating
	}
	if req.Title != nil {
		review.Title = *req.Title
	}
	if req.Comment != nil {
		review.Comment = *req.Comment
	}

	if err := s.repo.Update(ctx, review); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, reviewID)
}

// ========================================
// MODERATION
// ========================================

func (s *reviewService) Approve(ctx context.Context, reviewID uuid.UUID) (*model.Review, error) {
	return s.moderate(ctx, reviewID, model.StatusApproved)
}

func (s *reviewService) Reject(ctx context.Context, reviewID uuid.UUID) (*model.Review, error) {
	return s.moderate(ctx, reviewID, model.StatusRejected)
}

// moderate moves a pending review to a terminal status. Approved and
// rejected never transition again.
func (s *reviewService) moderate(ctx context.Context, reviewID uuid.UUID, status string) (*model.Review, error) {
	review, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.Status != model.StatusPending {
		return nil, model.ErrAlreadyModerated
	}

	if err := s.repo.UpdateStatus(ctx, reviewID, status); err != nil {
		return nil, err
	}

	logger.Info("review moderated", map[string]interface{}{
		"review_id": reviewID,
		"status":    status,
	})
	return s.repo.FindByID(ctx, reviewID)
}

// ========================================
// HELPFUL VOTES
// ========================================

func (s *reviewService) MarkHelpful(ctx context.Context, userID uuid.UUID, reviewID uuid.UUID) (*model.Review, error) {
	review, err := s.repo.FindByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	// Only approved reviews accumulate votes.
	if review.Status != model.StatusApproved {
		return nil, model.ErrNotApproved
	}

	// Vote row and counter move together; the unique (review, user)
	// pair rejects a re-vote before the counter budges.
	err = s.tx.WithinTx(ctx, func(tx pgx.Tx) error {
		vote := &model.ReviewHelpful{ReviewID: reviewID, UserID: userID}
		if err := s.repo.CreateHelpfulVote(ctx, tx, vote); err != nil {
			return err
		}
		return s.repo.IncrementHelpfulCount(ctx, tx, reviewID)
	})
	if err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, reviewID)
}

func orderContainsProduct(order *ordermodel.Order, productID uuid.UUID) bool {
	for _, item := range order.Items {
		if item.ProductID == productID {
			return true
		}
	}
	return false
}
