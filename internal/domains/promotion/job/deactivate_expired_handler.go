package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"greencart-backend/internal/domains/promotion/service"
	"greencart-backend/pkg/logger"
)

// ================================================
// DEACTIVATE EXPIRED PROMOTIONS JOB HANDLER
// ================================================

type DeactivateExpiredHandler struct {
	promotionService service.Service
}

func NewDeactivateExpiredHandler(promotionService service.Service) *DeactivateExpiredHandler {
	return &DeactivateExpiredHandler{promotionService: promotionService}
}

func (h *DeactivateExpiredHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	logger.Info("Starting DeactivateExpiredPromotions job", nil)

	count, err := h.promotionService.DeactivateExpired(ctx)
	if err != nil {
		return fmt.Errorf("deactivate expired promotions: %w", err)
	}

	logger.Info("Completed DeactivateExpiredPromotions job", map[string]interface{}{
		"deactivated_count": count,
	})
	return nil
}
