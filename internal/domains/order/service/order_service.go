package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	cartmodel "greencart-backend/internal/domains/cart/model"
	"greencart-backend/internal/domains/order/model"
	"greencart-backend/internal/domains/order/repository"
	"greencart-backend/internal/shared"
	"greencart-backend/pkg/database"
	"greencart-backend/pkg/logger"
)

// TaskEnqueuer is the slice of *asynq.Client the service needs.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// pendingReminderAgeHours is how old a pending order must be before the
// daily scan nags the customer about it.
const pendingReminderAgeHours = 24

type orderService struct {
	repo     repository.Repository
	products ProductProvider
	users    AddressProvider
	carts    CartProvider
	tasks    TaskEnqueuer
	tx       database.TxRunner
}

func NewOrderService(
	repo repository.Repository,
	products ProductProvider,
	users AddressProvider,
	carts CartProvider,
	tasks TaskEnqueuer,
	tx database.TxRunner,
) Service {
	return &orderService{
		repo:     repo,
		products: products,
		users:    users,
		carts:    carts,
		tasks:    tasks,
		tx:       tx,
	}
}

// ========================================
// CREATION
// ========================================

func (s *orderService) Create(ctx context.Context, userID uuid.UUID, req model.CreateOrderRequest) (*model.Order, error) {
	// Step 1: Validate
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Resolve the item list, possibly from the active cart
	items := req.Items
	var drainCartID *uuid.UUID
	if req.FromCart {
		cart, err := s.carts.FindActiveCart(ctx, cartmodel.OwnerForUser(userID))
		if err != nil {
			return nil, err
		}
		items = items[:0]
		for _, line := range cart.Items {
			items = append(items, model.OrderItemRequest{ProductID: line.ProductID, Quantity: line.Quantity})
		}
		drainCartID = &cart.ID
	}
	if len(items) == 0 {
		return nil, model.ErrEmptyOrder
	}

	// Step 3: Snapshot addresses. Orders copy address data at creation so
	// later edits never alter history.
	shippingAddr, err := s.ownedAddressSnapshot(ctx, userID, req.ShippingAddressID)
	if err != nil {
		return nil, err
	}
	billingAddr := shippingAddr
	if req.BillingAddressID != nil {
		billingAddr, err = s.ownedAddressSnapshot(ctx, userID, *req.BillingAddressID)
		if err != nil {
			return nil, err
		}
	}

	orderNumber, err := generateOrderNumber()
	if err != nil {
		return nil, fmt.Errorf("generate order number: %w", err)
	}

	order := &model.Order{
		UserID:          userID,
		OrderNumber:     orderNumber,
		Status:          model.StatusPending,
		PaymentStatus:   model.PaymentPending,
		Subtotal:        decimal.Zero,
		DiscountAmount:  decimal.Zero,
		TaxAmount:       req.TaxAmount,
		ShippingCost:    req.ShippingCost,
		Total:           decimal.Zero,
		ShippingAddress: shippingAddr,
		BillingAddress:  billingAddr,
		Notes:           req.Notes,
	}

	// Step 4: One transaction for the order row, every line and the
	// recalculated totals. Any product-resolution failure aborts the
	// whole creation; no partial order ever persists.
	err = s.tx.WithinTx(ctx, func(tx pgx.Tx) error {
		orderID, err := s.repo.CreateOrder(ctx, tx, order)
		if err != nil {
			return err
		}
		order.ID = orderID

		for _, itemReq := range items {
			product, err := s.products.FindProductByID(ctx, itemReq.ProductID)
			if err != nil {
				return err
			}
			if !product.HasStockFor(itemReq.Quantity) {
				return cartmodel.ErrInsufficientStock
			}

			item := &model.OrderItem{
				OrderID:     orderID,
				ProductID:   product.ID,
				ProductName: product.Name,
				ProductSKU:  product.SKU,
				Quantity:    itemReq.Quantity,
				UnitPrice:   product.Price,
			}
			item.ComputeTotal()
			if err := s.repo.CreateItem(ctx, tx, item); err != nil {
				return err
			}
			if err := s.products.DecrementStock(ctx, tx, product.ID, itemReq.Quantity); err != nil {
				return err
			}
			order.Items = append(order.Items, item)
		}

		order.RecalculateTotals()
		return s.repo.UpdateTotals(ctx, tx, order)
	})
	if err != nil {
		return nil, err
	}

	// Step 5: Post-commit side effects, both best-effort.
	if drainCartID != nil {
		if err := s.carts.ClearItems(ctx, *drainCartID); err != nil {
			logger.Error("failed to clear cart after checkout", err)
		}
	}
	s.enqueueOrderEmail(ctx, shared.TypeSendOrderConfirmation, order)

	return s.repo.FindByID(ctx, order.ID)
}

func (s *orderService) ownedAddressSnapshot(ctx context.Context, userID, addressID uuid.UUID) (map[string]interface{}, error) {
	addr, err := s.users.FindAddressByID(ctx, addressID)
	if err != nil {
		return nil, err
	}
	if addr.UserID != userID {
		return nil, model.ErrOrderNotOwned
	}
	return addr.Snapshot(), nil
}

// ========================================
// READS
// ========================================

func (s *orderService) List(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*model.Order, int64, error) {
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	if page < 1 {
		page = 1
	}
	return s.repo.ListByUser(ctx, userID, pageSize, (page-1)*pageSize)
}

func (s *orderService) Get(ctx context.Context, userID uuid.UUID, isAdmin bool, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !isAdmin && order.UserID != userID {
		return nil, model.ErrOrderNotOwned
	}
	return order, nil
}

// ========================================
// LIFECYCLE
// ========================================

func (s *orderService) Cancel(ctx context.Context, userID uuid.UUID, isAdmin bool, orderID uuid.UUID) (*model.Order, error) {
	order, err := s.Get(ctx, userID, isAdmin, orderID)
	if err != nil {
		return nil, err
	}

	if !order.CanBeCancelled() {
		return nil, model.ErrNotCancellable
	}

	if err := s.repo.UpdateStatus(ctx, orderID, model.StatusCancelled); err != nil {
		return nil, err
	}
	order.Status = model.StatusCancelled

	// Notification is fire-and-forget; a failed enqueue never rolls back
	// the cancellation.
	s.enqueueOrderEmail(ctx, shared.TypeSendOrderCancellation, order)

	return order, nil
}

// transitions maps each status to its legal successors.
var transitions = map[string][]string{
	model.StatusPending:    {model.StatusConfirmed, model.StatusCancelled},
	model.StatusConfirmed:  {model.StatusProcessing, model.StatusCancelled},
	model.StatusProcessing: {model.StatusShipped, model.StatusRefunded},
	model.StatusShipped:    {model.StatusDelivered, model.StatusRefunded},
	model.StatusDelivered:  {model.StatusRefunded},
}

func (s *orderService) UpdateStatus(ctx context.Context, orderID uuid.UUID, status string) (*model.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	allowed := false
	for _, next := range transitions[order.Status] {
		if next == status {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, model.ErrInvalidTransition
	}

	if err := s.repo.UpdateStatus(ctx, orderID, status); err != nil {
		return nil, err
	}
	order.Status = status

	if status == model.StatusCancelled {
		s.enqueueOrderEmail(ctx, shared.TypeSendOrderCancellation, order)
	}
	return order, nil
}

// ========================================
// BACKGROUND
// ========================================

func (s *orderService) ScanPendingOrders(ctx context.Context) (int, error) {
	orders, err := s.repo.ListPendingOlderThan(ctx, pendingReminderAgeHours)
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, order := range orders {
		if s.enqueueOrderEmail(ctx, shared.TypeSendPendingReminder, order) {
			sent++
		}
	}
	return sent, nil
}

func (s *orderService) enqueueOrderEmail(ctx context.Context, taskType string, order *model.Order) bool {
	if s.tasks == nil {
		return false
	}

	u, err := s.users.FindByID(ctx, order.UserID)
	if err != nil {
		logger.Error("failed to resolve order recipient", err)
		return false
	}

	payload, err := json.Marshal(shared.OrderEmailPayload{
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
		Email:       u.Email,
		FirstName:   u.FirstName,
		Status:      order.Status,
		Total:       order.Total,
	})
	if err != nil {
		return false
	}

	queue := shared.QueueDefault
	if taskType == shared.TypeSendOrderConfirmation {
		queue = shared.QueueHigh
	}
	if _, err := s.tasks.Enqueue(asynq.NewTask(taskType, payload),
		asynq.Queue(queue), asynq.MaxRetry(3)); err != nil {
		logger.Error("failed to enqueue order email", err)
		return false
	}
	return true
}

// generateOrderNumber returns ORD followed by 12 uppercase hex characters.
func generateOrderNumber() (string, error) {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "ORD" + strings.ToUpper(hex.EncodeToString(b)), nil
}
