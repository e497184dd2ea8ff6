package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type PromotionRequest struct {
	Name                  string           `json:"name"`
	Description           *string          `json:"description,omitempty"`
	DiscountType          string           `json:"discount_type"`
	DiscountValue         decimal.Decimal  `json:"discount_value"`
	Scope                 string           `json:"scope"`
	ProductIDs            []uuid.UUID      `json:"product_ids,omitempty"`
	CategoryIDs           []uuid.UUID      `json:"category_ids,omitempty"`
	BrandIDs              []uuid.UUID      `json:"brand_ids,omitempty"`
	MinimumPurchaseAmount *decimal.Decimal `json:"minimum_purchase_amount,omitempty"`
	MinimumQuantity       *int             `json:"minimum_quantity,omitempty"`
	MaximumDiscountAmount *decimal.Decimal `json:"maximum_discount_amount,omitempty"`
	UsageLimit            *int             `json:"usage_limit,omitempty"`
	StartDate             time.Time        `json:"start_date"`
	EndDate               time.Time        `json:"end_date"`
	CouponCode            *string          `json:"coupon_code,omitempty"`
	IsActive              bool             `json:"is_active"`
}

func (req PromotionRequest) Validate() error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&req.DiscountType, validation.Required, validation.In(
			DiscountPercentage, DiscountFixedAmount, DiscountBuyXGetY, DiscountFreeShip)),
		validation.Field(&req.Scope, validation.Required, validation.In(
			ScopeAll, ScopeProducts, ScopeCategories, ScopeBrands)),
		validation.Field(&req.DiscountValue, validation.Required, validation.By(positiveDecimal)),
		validation.Field(&req.MinimumPurchaseAmount, validation.By(optionalPositiveDecimal)),
		validation.Field(&req.MaximumDiscountAmount, validation.By(optionalPositiveDecimal)),
		validation.Field(&req.MinimumQuantity, validation.Min(1)),
		validation.Field(&req.UsageLimit, validation.Min(1)),
		validation.Field(&req.StartDate, validation.Required),
		validation.Field(&req.EndDate, validation.Required),
	)
	if err != nil {
		return err
	}

	if req.EndDate.Before(req.StartDate) {
		return validation.NewError("validation_date_range", "end_date must not be before start_date")
	}

	// Scoped promotions must name a non-empty matching set.
	switch req.Scope {
	case ScopeProducts:
		if len(req.ProductIDs) == 0 {
			return ErrEmptyScopeSet
		}
	case ScopeCategories:
		if len(req.CategoryIDs) == 0 {
			return ErrEmptyScopeSet
		}
	case ScopeBrands:
		if len(req.BrandIDs) == 0 {
			return ErrEmptyScopeSet
		}
	}
	return nil
}

func positiveDecimal(value interface{}) error {
	d, ok := value.(decimal.Decimal)
	if !ok {
		return validation.NewError("validation_decimal", "must be a decimal")
	}
	if d.IsNegative() {
		return validation.NewError("validation_decimal_negative", "must not be negative")
	}
	return nil
}

func optionalPositiveDecimal(value interface{}) error {
	d, ok := value.(*decimal.Decimal)
	if !ok || d == nil {
		return nil
	}
	return positiveDecimal(*d)
}

// ApplyRequest targets an order with either a coupon code or a
// promotion id.
type ApplyRequest struct {
	OrderID     uuid.UUID  `json:"order_id"`
	CouponCode  *string    `json:"coupon_code,omitempty"`
	PromotionID *uuid.UUID `json:"promotion_id,omitempty"`
}

func (req ApplyRequest) Validate() error {
	if req.OrderID == uuid.Nil {
		return validation.NewError("validation_uuid", "order_id is required")
	}
	if req.CouponCode == nil && req.PromotionID == nil {
		return validation.NewError("validation_target", "coupon_code or promotion_id is required")
	}
	return nil
}

// ApplyResponse reports the discount granted and the resulting order
// totals.
type ApplyResponse struct {
	PromotionID    uuid.UUID       `json:"promotion_id"`
	OrderID        uuid.UUID       `json:"order_id"`
	DiscountAmount decimal.Decimal `json:"discount_amount"`
	OrderTotal     decimal.Decimal `json:"order_total"`
}
