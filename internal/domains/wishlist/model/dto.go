package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
}

func (req AddItemRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.ProductID, validation.Required, validation.By(func(value interface{}) error {
			if id, ok := value.(uuid.UUID); !ok || id == uuid.Nil {
				return validation.NewError("validation_uuid", "must be a valid uuid")
			}
			return nil
		})),
	)
}

type SetVisibilityRequest struct {
	IsPublic bool `json:"is_public"`
}

type MoveToCartRequest struct {
	Quantity int `json:"quantity"`
}
