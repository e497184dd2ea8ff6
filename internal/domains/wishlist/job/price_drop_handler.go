package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	"greencart-backend/internal/domains/wishlist/repository"
	emailInfra "greencart-backend/internal/infrastructure/email"
	"greencart-backend/internal/shared"
	"greencart-backend/pkg/logger"
)

// ================================================
// PRICE DROP ALERT HANDLER
// ================================================

// PriceDropAlertHandler mails every user whose wishlist holds the
// product named in the payload.
type PriceDropAlertHandler struct {
	repo         repository.Repository
	emailService emailInfra.EmailService
}

func NewPriceDropAlertHandler(repo repository.Repository, emailService emailInfra.EmailService) *PriceDropAlertHandler {
	return &PriceDropAlertHandler{repo: repo, emailService: emailService}
}

func (h *PriceDropAlertHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload shared.PriceDropPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logger.Error("Failed to unmarshal PriceDropAlert payload", err)
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	holders, err := h.repo.ListHoldersByProduct(ctx, payload.ProductID)
	if err != nil {
		return fmt.Errorf("list wishlist holders: %w", err)
	}
	if len(holders) == 0 {
		logger.Debug("No wishlists hold the product, nothing to send")
		return nil
	}

	sent := 0
	for _, holder := range holders {
		if holder.Email == "" {
			continue
		}
		if err := h.emailService.SendPriceDropAlert(ctx, holder.Email, holder.FirstName, payload); err != nil {
			// Keep going: one bounced recipient must not starve the rest.
			logger.Error("Failed to send price drop alert", err)
			continue
		}
		sent++
	}

	logger.Info("Processed price drop alerts", map[string]interface{}{
		"product_id":   payload.ProductID,
		"product_name": payload.ProductName,
		"recipients":   sent,
	})
	return nil
}
