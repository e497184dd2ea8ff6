package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category forms a single-parent hierarchy. Slug is unique and derived
// from the name.
type Category struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	ParentID     *uuid.UUID `json:"parent_id,omitempty" db:"parent_id"`
	Name         string     `json:"name" db:"name"`
	Slug         string     `json:"slug" db:"slug"`
	Description  *string    `json:"description,omitempty" db:"description"`
	DisplayOrder int        `json:"display_order" db:"display_order"`
	IsFeatured   bool       `json:"is_featured" db:"is_featured"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

type Brand struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description *string   `json:"description,omitempty" db:"description"`
	WebsiteURL  *string   `json:"website_url,omitempty" db:"website_url"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

type Tag struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Product is the catalog entity. All monetary fields are decimals; float
// arithmetic never touches money.
type Product struct {
	ID                uuid.UUID        `json:"id" db:"id"`
	CategoryID        *uuid.UUID       `json:"category_id,omitempty" db:"category_id"`
	BrandID           *uuid.UUID       `json:"brand_id,omitempty" db:"brand_id"`
	Name              string           `json:"name" db:"name"`
	Slug              string           `json:"slug" db:"slug"`
	SKU               string           `json:"sku" db:"sku"`
	Description       *string          `json:"description,omitempty" db:"description"`
	Price             decimal.Decimal  `json:"price" db:"price"`
	ComparePrice      *decimal.Decimal `json:"compare_price,omitempty" db:"compare_price"`
	CostPrice         *decimal.Decimal `json:"cost_price,omitempty" db:"cost_price"`
	Quantity          int              `json:"quantity" db:"quantity"`
	LowStockThreshold int              `json:"low_stock_threshold" db:"low_stock_threshold"`
	TrackQuantity     bool             `json:"track_quantity" db:"track_quantity"`
	AllowBackorders   bool             `json:"allow_backorders" db:"allow_backorders"`
	Weight            decimal.Decimal  `json:"weight" db:"weight"`
	Dimensions        *string          `json:"dimensions,omitempty" db:"dimensions"`
	IsFeatured        bool             `json:"is_featured" db:"is_featured"`
	IsBestseller      bool             `json:"is_bestseller" db:"is_bestseller"`
	IsNew             bool             `json:"is_new" db:"is_new"`
	IsActive          bool             `json:"is_active" db:"is_active"`
	Tags              []Tag            `json:"tags,omitempty" db:"-"`
	CreatedAt         time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at" db:"updated_at"`
}

// DiscountPercentage is derived from compare_price:
// round((compare_price-price)/compare_price*100, 2) when compare_price > price.
func (p *Product) DiscountPercentage() decimal.Decimal {
	if p.ComparePrice == nil || !p.ComparePrice.GreaterThan(p.Price) || p.ComparePrice.IsZero() {
		return decimal.Zero
	}
	return p.ComparePrice.Sub(p.Price).
		Div(*p.ComparePrice).
		Mul(decimal.NewFromInt(100)).
		Round(2)
}

// InStock reports availability; untracked products are always in stock.
func (p *Product) InStock() bool {
	if !p.TrackQuantity {
		return true
	}
	return p.Quantity > 0
}

func (p *Product) IsLowStock() bool {
	return p.Quantity <= p.LowStockThreshold
}

// HasStockFor checks whether the product can satisfy a requested quantity.
// Backorders bypass the check.
func (p *Product) HasStockFor(qty int) bool {
	if !p.TrackQuantity || p.AllowBackorders {
		return true
	}
	return p.Quantity >= qty
}
