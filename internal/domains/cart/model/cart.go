package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Owner identifies who a cart belongs to: exactly one of an authenticated
// user or an anonymous session key.
type Owner struct {
	UserID     *uuid.UUID
	SessionKey *string
}

func OwnerForUser(userID uuid.UUID) Owner {
	return Owner{UserID: &userID}
}

func OwnerForSession(sessionKey string) Owner {
	return Owner{SessionKey: &sessionKey}
}

func (o Owner) IsValid() bool {
	return (o.UserID != nil) != (o.SessionKey != nil)
}

// Cart holds at most one active row per owner.
type Cart struct {
	ID         uuid.UUID   `json:"id" db:"id"`
	UserID     *uuid.UUID  `json:"user_id,omitempty" db:"user_id"`
	SessionKey *string     `json:"-" db:"session_key"`
	IsActive   bool        `json:"is_active" db:"is_active"`
	Items      []*CartItem `json:"items" db:"-"`
	CreatedAt  time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at" db:"updated_at"`
}

// ItemCount is the sum of line quantities, not the number of lines.
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

// Subtotal sums line totals at their snapshot prices.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.TotalPrice())
	}
	return total
}

func (c *Cart) TotalWeight() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.TotalWeight())
	}
	return total
}

// ItemProduct is the live product state a cart line is compared against.
// Loaded by join, never persisted on the line itself.
type ItemProduct struct {
	Name          string          `json:"name" db:"name"`
	Slug          string          `json:"slug" db:"slug"`
	Price         decimal.Decimal `json:"price" db:"price"`
	Weight        decimal.Decimal `json:"weight" db:"weight"`
	Quantity      int             `json:"quantity" db:"quantity"`
	TrackQuantity bool            `json:"track_quantity" db:"track_quantity"`
	IsActive      bool            `json:"is_active" db:"is_active"`
}

// CartItem is one (cart, product) line. PriceAtTime is captured once at
// creation and never recomputed, later product price changes surface only
// through PriceDifference.
type CartItem struct {
	ID          uuid.UUID       `json:"id" db:"id"`
	CartID      uuid.UUID       `json:"cart_id" db:"cart_id"`
	ProductID   uuid.UUID       `json:"product_id" db:"product_id"`
	Quantity    int             `json:"quantity" db:"quantity"`
	PriceAtTime decimal.Decimal `json:"price_at_time" db:"price_at_time"`
	Product     ItemProduct     `json:"product" db:"-"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at" db:"updated_at"`
}

func (i *CartItem) TotalPrice() decimal.Decimal {
	return i.PriceAtTime.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

func (i *CartItem) TotalWeight() decimal.Decimal {
	return i.Product.Weight.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// IsAvailable reports whether current stock still covers the line.
func (i *CartItem) IsAvailable() bool {
	if !i.Product.TrackQuantity {
		return true
	}
	return i.Product.Quantity >= i.Quantity
}

// PriceDifference is current price minus snapshot price. Positive means
// the product got more expensive since it was added.
func (i *CartItem) PriceDifference() decimal.Decimal {
	return i.Product.Price.Sub(i.PriceAtTime)
}
