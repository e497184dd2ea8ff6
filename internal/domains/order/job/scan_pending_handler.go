package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"greencart-backend/internal/domains/order/service"
	"greencart-backend/pkg/logger"
)

// ================================================
// SCAN PENDING ORDERS JOB HANDLER
// ================================================

// ScanPendingOrdersHandler walks orders stuck in pending and fans out
// one reminder email per order.
type ScanPendingOrdersHandler struct {
	orderService service.Service
}

func NewScanPendingOrdersHandler(orderService service.Service) *ScanPendingOrdersHandler {
	return &ScanPendingOrdersHandler{orderService: orderService}
}

func (h *ScanPendingOrdersHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	logger.Info("Starting ScanPendingOrders job", nil)

	count, err := h.orderService.ScanPendingOrders(ctx)
	if err != nil {
		return fmt.Errorf("scan pending orders: %w", err)
	}

	logger.Info("Completed ScanPendingOrders job", map[string]interface{}{
		"reminders_enqueued": count,
	})
	return nil
}
