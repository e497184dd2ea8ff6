package model

import (
	"time"

	"github.com/google/uuid"
)

// Moderation statuses. A review enters pending and a moderator moves it
// to approved or rejected; both are terminal.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Review is one customer's verdict on one product. The (product, user)
// pair is unique.
type Review struct {
	ID                 uuid.UUID  `json:"id" db:"id"`
	ProductID          uuid.UUID  `json:"product_id" db:"product_id"`
	UserID             uuid.UUID  `json:"user_id" db:"user_id"`
	OrderID            *uuid.UUID `json:"order_id,omitempty" db:"order_id"`
	Rating             int        `json:"rating" db:"rating"`
	Title              string     `json:"title" db:"title"`
	Comment            string     `json:"comment" db:"comment"`
	Status             string     `json:"status" db:"status"`
	IsVerifiedPurchase bool       `json:"is_verified_purchase" db:"is_verified_purchase"`
	HelpfulCount       int        `json:"helpful_count" db:"helpful_count"`
	CreatedAt          time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at" db:"updated_at"`
}

// EditableBy: the author can touch a review only while it is pending.
func (r *Review) EditableBy(userID uuid.UUID) bool {
	return r.UserID == userID && r.Status == StatusPending
}

// ReviewHelpful records one helpful vote; the (review, user) pair is
// unique so re-votes surface as a conflict rather than double-counting.
type ReviewHelpful struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ReviewID  uuid.UUID `json:"review_id" db:"review_id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
