package shared

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Asynq task type names. Grouped by the domain that enqueues them.
const (
	TypeSendWelcomeEmail       = "email:welcome"
	TypeSendVerificationEmail  = "email:verification"
	TypeSendOrderConfirmation  = "order:send_confirmation"
	TypeSendOrderCancellation  = "order:send_cancellation"
	TypeSendPendingReminder    = "order:send_pending_reminder"
	TypeSendPromotionAnnounce  = "promotion:send_announcement"
	TypeSendPriceDropAlert     = "wishlist:price_drop"
	TypeScanPendingOrders      = "order:scan_pending"
	TypeDeactivateExpiredPromo = "promotion:deactivate_expired"
)

// Asynq queue names, highest priority first.
const (
	QueueHigh    = "high"
	QueueDefault = "default"
	QueueLow     = "low"
)

// WelcomeEmailPayload is enqueued after a successful registration.
type WelcomeEmailPayload struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
}

// VerificationEmailPayload carries the email-verification token.
type VerificationEmailPayload struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Token  string    `json:"token"`
}

// OrderEmailPayload is shared by confirmation, cancellation and reminder mails.
type OrderEmailPayload struct {
	OrderID     uuid.UUID       `json:"order_id"`
	OrderNumber string          `json:"order_number"`
	Email       string          `json:"email"`
	FirstName   string          `json:"first_name"`
	Status      string          `json:"status"`
	Total       decimal.Decimal `json:"total"`
}

// PriceDropPayload is enqueued when a product's price drops or its
// discount grows; the worker alerts every user wishlisting it.
type PriceDropPayload struct {
	ProductID      uuid.UUID       `json:"product_id"`
	ProductName    string          `json:"product_name"`
	OldPrice       decimal.Decimal `json:"old_price"`
	NewPrice       decimal.Decimal `json:"new_price"`
	OldDiscountPct decimal.Decimal `json:"old_discount_pct"`
	NewDiscountPct decimal.Decimal `json:"new_discount_pct"`
}

// PromotionAnnouncePayload announces a newly activated promotion.
type PromotionAnnouncePayload struct {
	PromotionID uuid.UUID `json:"promotion_id"`
	Name        string    `json:"name"`
	CouponCode  *string   `json:"coupon_code,omitempty"`
	Email       string    `json:"email"`
}
