package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// CATEGORY / BRAND / TAG REQUESTS
// =====================================================

type CategoryRequest struct {
	Name         string     `json:"name"`
	ParentID     *uuid.UUID `json:"parent_id,omitempty"`
	Description  *string    `json:"description,omitempty"`
	DisplayOrder int        `json:"display_order"`
	IsFeatured   bool       `json:"is_featured"`
}

func (req CategoryRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&req.DisplayOrder, validation.Min(0)),
	)
}

type BrandRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	WebsiteURL  *string `json:"website_url,omitempty"`
}

func (req BrandRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 255)),
	)
}

type TagRequest struct {
	Name string `json:"name"`
}

func (req TagRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 100)),
	)
}

// =====================================================
// PRODUCT REQUESTS
// =====================================================

type ProductRequest struct {
	Name              string           `json:"name"`
	CategoryID        *uuid.UUID       `json:"category_id,omitempty"`
	BrandID           *uuid.UUID       `json:"brand_id,omitempty"`
	Description       *string          `json:"description,omitempty"`
	Price             decimal.Decimal  `json:"price"`
	ComparePrice      *decimal.Decimal `json:"compare_price,omitempty"`
	CostPrice         *decimal.Decimal `json:"cost_price,omitempty"`
	Quantity          int              `json:"quantity"`
	LowStockThreshold int              `json:"low_stock_threshold"`
	TrackQuantity     bool             `json:"track_quantity"`
	AllowBackorders   bool             `json:"allow_backorders"`
	Weight            decimal.Decimal  `json:"weight"`
	Dimensions        *string          `json:"dimensions,omitempty"`
	IsFeatured        bool             `json:"is_featured"`
	IsBestseller      bool             `json:"is_bestseller"`
	IsNew             bool             `json:"is_new"`
	TagIDs            []uuid.UUID      `json:"tag_ids,omitempty"`
}

func (req ProductRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Name, validation.Required, validation.Length(1, 255)),
		validation.Field(&req.Price, validation.Required, validation.By(positiveDecimal)),
		validation.Field(&req.ComparePrice, validation.By(optionalPositiveDecimal)),
		validation.Field(&req.CostPrice, validation.By(optionalPositiveDecimal)),
		validation.Field(&req.Quantity, validation.Min(0)),
		validation.Field(&req.LowStockThreshold, validation.Min(0)),
	)
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

// =====================================================
// PRODUCT LIST FILTER
// =====================================================

// Orderings the product list accepts. Anything else falls back to -created.
var allowedOrderings = map[string]string{
	"created":        "created_at ASC",
	"-created":       "created_at DESC",
	"price":          "price ASC",
	"-price":         "price DESC",
	"name":           "name ASC",
	"-name":          "name DESC",
	"is_bestseller":  "is_bestseller ASC",
	"-is_bestseller": "is_bestseller DESC",
}

const defaultOrdering = "created_at DESC"

type ProductListFilter struct {
	Query        string
	CategorySlug string
	BrandSlug    string
	TagSlug      string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	IsFeatured   *bool
	IsBestseller *bool
	IsNew        *bool
	InStock      *bool
	Ordering     string
	Page         int
	PageSize     int
}

// OrderBy resolves the requested ordering against the allow-list.
func (f ProductListFilter) OrderBy() string {
	if clause, ok := allowedOrderings[f.Ordering]; ok {
		return clause
	}
	return defaultOrdering
}

func (f ProductListFilter) Limit() int {
	if f.PageSize < 1 || f.PageSize > 100 {
		return 20
	}
	return f.PageSize
}

func (f ProductListFilter) Offset() int {
	page := f.Page
	if page < 1 {
		page = 1
	}
	return (page - 1) * f.Limit()
}

// =====================================================
// RESPONSES
// =====================================================

// ProductResponse attaches the derived fields the entity computes.
type ProductResponse struct {
	*Product
	DiscountPercentage decimal.Decimal `json:"discount_percentage"`
	InStock            bool            `json:"in_stock"`
	IsLowStock         bool            `json:"is_low_stock"`
}

func (p *Product) ToResponse() *ProductResponse {
	return &ProductResponse{
		Product:            p,
		DiscountPercentage: p.DiscountPercentage(),
		InStock:            p.InStock(),
		IsLowStock:         p.IsLowStock(),
	}
}
