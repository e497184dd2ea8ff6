package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

func (req OrderItemRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Quantity, validation.Required, validation.Min(1)),
	)
}

type CreateOrderRequest struct {
	Items             []OrderItemRequest `json:"items"`
	ShippingAddressID uuid.UUID          `json:"shipping_address_id"`
	BillingAddressID  *uuid.UUID         `json:"billing_address_id,omitempty"`
	ShippingCost      decimal.Decimal    `json:"shipping_cost"`
	TaxAmount         decimal.Decimal    `json:"tax_amount"`
	Notes             *string            `json:"notes,omitempty"`
	// FromCart replaces Items with the caller's active cart lines.
	FromCart bool `json:"from_cart"`
}

func (req CreateOrderRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Items, validation.Required.When(!req.FromCart)),
		validation.Field(&req.ShippingAddressID, validation.By(func(value interface{}) error {
			if id, ok := value.(uuid.UUID); !ok || id == uuid.Nil {
				return validation.NewError("validation_uuid", "shipping_address_id is required")
			}
			return nil
		})),
	)
}

// UpdateStatusRequest is the admin status-transition body.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

func (req UpdateStatusRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Status, validation.Required, validation.In(
			StatusPending, StatusConfirmed, StatusProcessing,
			StatusShipped, StatusDelivered, StatusCancelled, StatusRefunded,
		)),
	)
}
