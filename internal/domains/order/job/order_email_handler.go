package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"

	emailInfra "greencart-backend/internal/infrastructure/email"
	"greencart-backend/internal/shared"
	"greencart-backend/pkg/logger"
)

// ================================================
// ORDER CONFIRMATION EMAIL HANDLER
// ================================================

type SendOrderConfirmationHandler struct {
	emailService emailInfra.EmailService
}

func NewSendOrderConfirmationHandler(emailService emailInfra.EmailService) *SendOrderConfirmationHandler {
	return &SendOrderConfirmationHandler{emailService: emailService}
}

func (h *SendOrderConfirmationHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload shared.OrderEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logger.Error("Failed to unmarshal OrderConfirmation payload", err)
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	logger.Info("Processing order confirmation email", map[string]interface{}{
		"order_id":     payload.OrderID,
		"order_number": payload.OrderNumber,
		"email":        payload.Email,
	})

	if err := h.emailService.SendOrderConfirmation(ctx, payload); err != nil {
		return fmt.Errorf("send order confirmation: %w", err)
	}
	return nil
}

// ================================================
// ORDER CANCELLATION EMAIL HANDLER
// ================================================

type SendOrderCancellationHandler struct {
	emailService emailInfra.EmailService
}

func NewSendOrderCancellationHandler(emailService emailInfra.EmailService) *SendOrderCancellationHandler {
	return &SendOrderCancellationHandler{emailService: emailService}
}

func (h *SendOrderCancellationHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload shared.OrderEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logger.Error("Failed to unmarshal OrderCancellation payload", err)
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	logger.Info("Processing order cancellation email", map[string]interface{}{
		"order_id": payload.OrderID,
		"email":    payload.Email,
	})

	if err := h.emailService.SendOrderCancellation(ctx, payload); err != nil {
		return fmt.Errorf("send order cancellation: %w", err)
	}
	return nil
}

// ================================================
// PENDING ORDER REMINDER EMAIL HANDLER
// ================================================

type SendPendingReminderHandler struct {
	emailService emailInfra.EmailService
}

func NewSendPendingReminderHandler(emailService emailInfra.EmailService) *SendPendingReminderHandler {
	return &SendPendingReminderHandler{emailService: emailService}
}

func (h *SendPendingReminderHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload shared.OrderEmailPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		logger.Error("Failed to unmarshal PendingReminder payload", err)
		return fmt.Errorf("unmarshal payload: %v: %w", err, asynq.SkipRetry)
	}

	logger.Info("Processing pending order reminder", map[string]interface{}{
		"order_id": payload.OrderID,
		"email":    payload.Email,
	})

	if err := h.emailService.SendPendingReminder(ctx, payload); err != nil {
		return fmt.Errorf("send pending reminder: %w", err)
	}
	return nil
}
