package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

func (req AddItemRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.ProductID, validation.Required, validation.By(notNilUUID)),
		validation.Field(&req.Quantity, validation.Required, validation.Min(1)),
	)
}

type UpdateItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	// Quantity <= 0 removes the line.
	Quantity int `json:"quantity"`
}

func (req UpdateItemRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.ProductID, validation.Required, validation.By(notNilUUID)),
	)
}

func notNilUUID(value interface{}) error {
	id, ok := value.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return validation.NewError("validation_uuid", "must be a valid uuid")
	}
	return nil
}

// CartResponse carries the cart with its derived aggregates. Its Items
// field shadows the entity's so each line goes out with derived values.
type CartResponse struct {
	*Cart
	ItemCount   int                 `json:"item_count"`
	Subtotal    decimal.Decimal     `json:"subtotal"`
	TotalWeight decimal.Decimal     `json:"total_weight"`
	Items       []*CartItemResponse `json:"items"`
}

type CartItemResponse struct {
	*CartItem
	TotalPrice      decimal.Decimal `json:"total_price"`
	TotalWeight     decimal.Decimal `json:"total_weight"`
	IsAvailable     bool            `json:"is_available"`
	PriceDifference decimal.Decimal `json:"price_difference"`
}

func (c *Cart) ToResponse() *CartResponse {
	items := make([]*CartItemResponse, 0, len(c.Items))
	for _, item := range c.Items {
		items = append(items, &CartItemResponse{
			CartItem:        item,
			TotalPrice:      item.TotalPrice(),
			TotalWeight:     item.TotalWeight(),
			IsAvailable:     item.IsAvailable(),
			PriceDifference: item.PriceDifference(),
		})
	}
	return &CartResponse{
		Cart:        c,
		ItemCount:   c.ItemCount(),
		Subtotal:    c.Subtotal(),
		TotalWeight: c.TotalWeight(),
		Items:       items,
	}
}
