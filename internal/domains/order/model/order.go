package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order statuses.
const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
	StatusRefunded   = "refunded"
)

// Payment statuses.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

// Order is the purchase record. order_number is generated once and never
// changes. Address snapshots are JSONB copies, later address edits cannot
// rewrite history.
type Order struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	UserID          uuid.UUID       `json:"user_id" db:"user_id"`
	OrderNumber     string          `json:"order_number" db:"order_number"`
	Status          string          `json:"status" db:"status"`
	PaymentStatus   string          `json:"payment_status" db:"payment_status"`
	Subtotal        decimal.Decimal `json:"subtotal" db:"subtotal"`
	DiscountAmount  decimal.Decimal `json:"discount_amount" db:"discount_amount"`
	TaxAmount       decimal.Decimal `json:"tax_amount" db:"tax_amount"`
	ShippingCost    decimal.Decimal `json:"shipping_cost" db:"shipping_cost"`
	Total           decimal.Decimal `json:"total" db:"total"`
	ShippingAddress map[string]interface{} `json:"shipping_address" db:"shipping_address"`
	BillingAddress  map[string]interface{} `json:"billing_address" db:"billing_address"`
	Notes           *string         `json:"notes,omitempty" db:"notes"`
	Items           []*OrderItem    `json:"items" db:"-"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// CanBeCancelled: only orders that have not entered fulfilment.
func (o *Order) CanBeCancelled() bool {
	return o.Status == StatusPending || o.Status == StatusConfirmed
}

// RecalculateTotals re-derives subtotal from the lines and applies the
// total formula. This is the ONLY place the invariant is computed;
// nothing recomputes totals implicitly.
func (o *Order) RecalculateTotals() {
	subtotal := decimal.Zero
	for _, item := range o.Items {
		subtotal = subtotal.Add(item.TotalPrice)
	}
	o.Subtotal = subtotal
	o.Total = o.Subtotal.
		Sub(o.DiscountAmount).
		Add(o.TaxAmount).
		Add(o.ShippingCost)
}

// OrderItem snapshots unit_price at order time; line total is always
// unit_price * quantity.
type OrderItem struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	OrderID     uuid.UUID       `json:"order_id" db:"order_id"`
	ProductID   uuid.UUID       `json:"product_id" db:"product_id"`
	ProductName string          `json:"product_name" db:"product_name"`
	ProductSKU  string          `json:"product_sku" db:"product_sku"`
	Quantity    int             `json:"quantity" db:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price" db:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price" db:"total_price"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// ComputeTotal refreshes the line total from its parts.
func (i *OrderItem) ComputeTotal() {
	i.TotalPrice = i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
