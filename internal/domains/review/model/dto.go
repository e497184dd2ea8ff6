package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

type CreateReviewRequest struct {
	ProductID uuid.UUID  `json:"product_id"`
	OrderID   *uuid.UUID `json:"order_id,omitempty"`
	Rating    int        `json:"rating"`
	Title     string     `json:"title"`
	Comment   string     `json:"comment"`
}

func (req CreateReviewRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.ProductID, validation.By(notNilUUID)),
		validation.Field(&req.Rating, validation.Required, validation.Min(1), validation.Max(5)),
		validation.Field(&req.Title, validation.Required, validation.Length(1, 255)),
		validation.Field(&req.Comment, validation.Length(0, 5000)),
	)
}

// UpdateReviewRequest edits a pending review. Omitted fields keep their
// current value.
type UpdateReviewRequest struct {
	Rating  *int    `json:"rating,omitempty"`
	Title   *string `json:"title,omitempty"`
	Comment *string `json:"comment,omitempty"`
}

func (req UpdateReviewRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Rating, validation.Min(1), validation.Max(5)),
		validation.Field(&req.Title, validation.Length(1, 255)),
		validation.Field(&req.Comment, validation.Length(0, 5000)),
	)
}

func notNilUUID(value interface{}) error {
	id, ok := value.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return validation.NewError("validation_uuid", "must be a valid uuid")
	}
	return nil
}
