package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Discount types.
const (
	DiscountPercentage  = "percentage"
	DiscountFixedAmount = "fixed_amount"
	DiscountBuyXGetY    = "buy_x_get_y"
	DiscountFreeShip    = "free_shipping"
)

// Scopes: the subset of the catalog a promotion applies to.
const (
	ScopeAll        = "all"
	ScopeProducts   = "products"
	ScopeCategories = "categories"
	ScopeBrands     = "brands"
)

// Promotion is a discount rule with a validity window, an optional usage
// budget and an optional coupon code.
type Promotion struct {
	ID                    uuid.UUID        `json:"id" db:"id"`
	Name                  string           `json:"name" db:"name"`
	Description           *string          `json:"description,omitempty" db:"description"`
	DiscountType          string           `json:"discount_type" db:"discount_type"`
	DiscountValue         decimal.Decimal  `json:"discount_value" db:"discount_value"`
	Scope                 string           `json:"scope" db:"scope"`
	ProductIDs            []uuid.UUID      `json:"product_ids,omitempty" db:"product_ids"`
	CategoryIDs           []uuid.UUID      `json:"category_ids,omitempty" db:"category_ids"`
	BrandIDs              []uuid.UUID      `json:"brand_ids,omitempty" db:"brand_ids"`
	MinimumPurchaseAmount *decimal.Decimal `json:"minimum_purchase_amount,omitempty" db:"minimum_purchase_amount"`
	MinimumQuantity       *int             `json:"minimum_quantity,omitempty" db:"minimum_quantity"`
	MaximumDiscountAmount *decimal.Decimal `json:"maximum_discount_amount,omitempty" db:"maximum_discount_amount"`
	UsageLimit            *int             `json:"usage_limit,omitempty" db:"usage_limit"`
	UsageCount            int              `json:"usage_count" db:"usage_count"`
	StartDate             time.Time        `json:"start_date" db:"start_date"`
	EndDate               time.Time        `json:"end_date" db:"end_date"`
	CouponCode            *string          `json:"coupon_code,omitempty" db:"coupon_code"`
	IsActive              bool             `json:"is_active" db:"is_active"`
	CreatedAt             time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt             time.Time        `json:"updated_at" db:"updated_at"`
}

// IsValid: active, inside the window, and under the usage budget.
func (p *Promotion) IsValid(now time.Time) bool {
	if !p.IsActive {
		return false
	}
	if now.Before(p.StartDate) || now.After(p.EndDate) {
		return false
	}
	if p.UsageLimit != nil && p.UsageCount >= *p.UsageLimit {
		return false
	}
	return true
}

// ScopeSet returns the id set the scope refers to; nil for scope=all.
func (p *Promotion) ScopeSet() []uuid.UUID {
	switch p.Scope {
	case ScopeProducts:
		return p.ProductIDs
	case ScopeCategories:
		return p.CategoryIDs
	case ScopeBrands:
		return p.BrandIDs
	default:
		return nil
	}
}

// CalculateDiscount derives the discount for an order total and item
// quantity:
//
//  1. invalid promotion -> 0
//  2. below minimum_purchase_amount -> 0
//  3. below minimum_quantity -> 0
//  4. percentage: total * value / 100, capped by maximum_discount_amount
//  5. fixed_amount: min(value, total), never discounting below zero
//
// buy_x_get_y and free_shipping need a dedicated rule evaluator and
// yield 0 here.
func (p *Promotion) CalculateDiscount(orderTotal decimal.Decimal, quantity int, now time.Time) decimal.Decimal {
	if !p.IsValid(now) {
		return decimal.Zero
	}
	if p.MinimumPurchaseAmount != nil && orderTotal.LessThan(*p.MinimumPurchaseAmount) {
		return decimal.Zero
	}
	if p.MinimumQuantity != nil && quantity < *p.MinimumQuantity {
		return decimal.Zero
	}

	switch p.DiscountType {
	case DiscountPercentage:
		discount := orderTotal.Mul(p.DiscountValue).Div(decimal.NewFromInt(100)).Round(2)
		if p.MaximumDiscountAmount != nil && discount.GreaterThan(*p.MaximumDiscountAmount) {
			discount = *p.MaximumDiscountAmount
		}
		return discount
	case DiscountFixedAmount:
		if p.DiscountValue.GreaterThan(orderTotal) {
			return orderTotal
		}
		return p.DiscountValue
	default:
		return decimal.Zero
	}
}

// PromotionUsage records one application of a promotion to an order.
// The (promotion, order) pair is unique: apply-at-most-once.
type PromotionUsage struct {
	ID             uuid.UUID       `json:"id" db:"id"`
	PromotionID    uuid.UUID       `json:"promotion_id" db:"promotion_id"`
	OrderID        uuid.UUID       `json:"order_id" db:"order_id"`
	UserID         uuid.UUID       `json:"user_id" db:"user_id"`
	DiscountAmount decimal.Decimal `json:"discount_amount" db:"discount_amount"`
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
}
