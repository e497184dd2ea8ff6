package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"

	ordermodel "greencart-backend/internal/domains/order/model"
	"greencart-backend/internal/domains/promotion/model"
	"greencart-backend/internal/domains/promotion/repository"
	"greencart-backend/internal/shared"
	"greencart-backend/pkg/database"
	"greencart-backend/pkg/logger"
)

// TaskEnqueuer is the slice of *asynq.Client the service needs.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type promotionService struct {
	repo     repository.Repository
	orders   OrderProvider
	products ProductProvider
	tasks    TaskEnqueuer
	tx       database.TxRunner
}

func NewPromotionService(
	repo repository.Repository,
	orders OrderProvider,
	products ProductProvider,
	tasks TaskEnqueuer,
	tx database.TxRunner,
) Service {
	return &promotionService{
		repo:     repo,
		orders:   orders,
		products: products,
		tasks:    tasks,
		tx:       tx,
	}
}

// ========================================
// CRUD
// ========================================

func (s *promotionService) Create(ctx context.Context, req model.PromotionRequest) (*model.Promotion, error) {
	// Step 1: Validate
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Build and persist
	promo := promotionFromRequest(req)
	id, err := s.repo.Create(ctx, promo)
	if err != nil {
		return nil, err
	}
	promo.ID = id

	// Step 3: Announce a promotion that is live right now
	if promo.IsValid(time.Now()) {
		s.enqueueAnnouncement(promo)
	}

	return s.repo.FindByID(ctx, id)
}

func (s *promotionService) List(ctx context.Context, activeOnly bool) ([]*model.Promotion, error) {
	return s.repo.List(ctx, activeOnly)
}

func (s *promotionService) Get(ctx context.Context, id uuid.UUID) (*model.Promotion, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *promotionService) Update(ctx context.Context, id uuid.UUID, req model.PromotionRequest) (*model.Promotion, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	promo := promotionFromRequest(req)
	promo.ID = existing.ID
	promo.UsageCount = existing.UsageCount

	if err := s.repo.Update(ctx, promo); err != nil {
		return nil, err
	}

	// Flipping a dormant promotion live is an announcement event too.
	if !existing.IsActive && promo.IsActive && promo.IsValid(time.Now()) {
		s.enqueueAnnouncement(promo)
	}

	return s.repo.FindByID(ctx, id)
}

func (s *promotionService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// ========================================
// APPLICATION
// ========================================

func (s *promotionService) Apply(ctx context.Context, userID uuid.UUID, isAdmin bool, req model.ApplyRequest) (*model.ApplyResponse, error) {
	// Step 1: Validate
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Resolve the promotion by code or id
	var promo *model.Promotion
	var err error
	if req.CouponCode != nil {
		promo, err = s.repo.FindByCode(ctx, *req.CouponCode)
	} else {
		promo, err = s.repo.FindByID(ctx, *req.PromotionID)
	}
	if err != nil {
		return nil, err
	}

	// Step 3: Apply atomically. The order row lock serializes racing
	// applications; the usage row makes the pair apply-at-most-once.
	var resp *model.ApplyResponse
	err = s.tx.WithinTx(ctx, func(tx pgx.Tx) error {
		order, err := s.orders.FindByIDTx(ctx, tx, req.OrderID)
		if err != nil {
			return err
		}
		if !isAdmin && order.UserID != userID {
			return ordermodel.ErrOrderNotOwned
		}
		if order.Status != ordermodel.StatusPending {
			// Confirmed orders have fixed totals.
			return model.ErrNotApplicable
		}

		quantity, err := s.eligibleQuantity(ctx, promo, order)
		if err != nil {
			return err
		}
		if quantity == 0 {
			return model.ErrNotApplicable
		}

		discount := promo.CalculateDiscount(order.Subtotal, quantity, time.Now())
		if discount.Sign() <= 0 {
			// A discount that would not lower the total never applies.
			return model.ErrNotApplicable
		}

		// Usage row first: a duplicate application fails here before
		// the counter moves.
		usage := &model.PromotionUsage{
			PromotionID:    promo.ID,
			OrderID:        order.ID,
			UserID:         userID,
			DiscountAmount: discount,
		}
		if err := s.repo.CreateUsage(ctx, tx, usage); err != nil {
			return err
		}
		if err := s.repo.IncrementUsage(ctx, tx, promo.ID); err != nil {
			return err
		}

		if err := s.orders.SetDiscountAmount(ctx, tx, order.ID, discount); err != nil {
			return err
		}
		order.DiscountAmount = discount
		order.RecalculateTotals()
		if err := s.orders.UpdateTotals(ctx, tx, order); err != nil {
			return err
		}

		resp = &model.ApplyResponse{
			PromotionID:    promo.ID,
			OrderID:        order.ID,
			DiscountAmount: discount,
			OrderTotal:     order.Total,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("promotion applied", map[string]interface{}{
		"promotion_id": resp.PromotionID,
		"order_id":     resp.OrderID,
		"discount":     resp.DiscountAmount.String(),
	})
	return resp, nil
}

// eligibleQuantity counts the order items the promotion's scope covers.
// Scope=all counts every line; a scoped promotion counts only matching
// lines, so zero means the order carries nothing the promotion targets.
func (s *promotionService) eligibleQuantity(ctx context.Context, promo *model.Promotion, order *ordermodel.Order) (int, error) {
	total := 0
	if promo.Scope == model.ScopeAll {
		for _, item := range order.Items {
			total += item.Quantity
		}
		return total, nil
	}

	scopeSet := make(map[uuid.UUID]bool, len(promo.ScopeSet()))
	for _, id := range promo.ScopeSet() {
		scopeSet[id] = true
	}

	for _, item := range order.Items {
		product, err := s.products.FindProductByID(ctx, item.ProductID)
		if err != nil {
			return 0, err
		}
		switch promo.Scope {
		case model.ScopeProducts:
			if scopeSet[product.ID] {
				total += item.Quantity
			}
		case model.ScopeCategories:
			if product.CategoryID != nil && scopeSet[*product.CategoryID] {
				total += item.Quantity
			}
		case model.ScopeBrands:
			if product.BrandID != nil && scopeSet[*product.BrandID] {
				total += item.Quantity
			}
		}
	}
	return total, nil
}

// ========================================
// MAINTENANCE
// ========================================

func (s *promotionService) DeactivateExpired(ctx context.Context) (int64, error) {
	count, err := s.repo.DeactivateExpired(ctx)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		logger.Info("expired promotions deactivated", map[string]interface{}{
			"count": count,
		})
	}
	return count, nil
}

// ========================================
// HELPERS
// ========================================

func promotionFromRequest(req model.PromotionRequest) *model.Promotion {
	return &model.Promotion{
		Name:                  req.Name,
		Description:           req.Description,
		DiscountType:          req.DiscountType,
		DiscountValue:         req.DiscountValue,
		Scope:                 req.Scope,
		ProductIDs:            req.ProductIDs,
		CategoryIDs:           req.CategoryIDs,
		BrandIDs:              req.BrandIDs,
		MinimumPurchaseAmount: req.MinimumPurchaseAmount,
		MinimumQuantity:       req.MinimumQuantity,
		MaximumDiscountAmount: req.MaximumDiscountAmount,
		UsageLimit:            req.UsageLimit,
		StartDate:             req.StartDate,
		EndDate:               req.EndDate,
		CouponCode:            req.CouponCode,
		IsActive:              req.IsActive,
	}
}

// enqueueAnnouncement is fire-and-forget, a broken queue never blocks
// promotion management. The worker resolves the recipient list.
func (s *promotionService) enqueueAnnouncement(promo *model.Promotion) {
	payload, err := json.Marshal(shared.PromotionAnnouncePayload{
		PromotionID: promo.ID,
		Name:        promo.Name,
		CouponCode:  promo.CouponCode,
	})
	if err != nil {
		logger.Error("marshal promotion announcement payload", err)
		return
	}

	task := asynq.NewTask(shared.TypeSendPromotionAnnounce, payload)
	if _, err := s.tasks.Enqueue(task, asynq.Queue(shared.QueueLow), asynq.MaxRetry(3)); err != nil {
		logger.Error("enqueue promotion announcement", err)
	}
}
