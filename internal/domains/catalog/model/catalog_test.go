package model

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestProductDiscountPercentage(t *testing.T) {
	tests := []struct {
		name         string
		price        string
		comparePrice *decimal.Decimal
		want         string
	}{
		{"price 100 compare 150", "100.00", decPtr("150.00"), "33.33"},
		{"price 75 compare 100", "75.00", decPtr("100.00"), "25"},
		{"no compare price", "100.00", nil, "0"},
		{"compare equals price", "100.00", decPtr("100.00"), "0"},
		{"compare below price", "100.00", decPtr("80.00"), "0"},
		{"repeating fraction rounds to 2 places", "2.00", decPtr("3.00"), "33.33"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{Price: dec(tt.price), ComparePrice: tt.comparePrice}
			assert.True(t, p.DiscountPercentage().Equal(dec(tt.want)),
				"got %s want %s", p.DiscountPercentage(), tt.want)
		})
	}
}

func TestProductStock(t *testing.T) {
	t.Run("tracked product with stock", func(t *testing.T) {
		p := Product{TrackQuantity: true, Quantity: 3, LowStockThreshold: 5}
		assert.True(t, p.InStock())
		assert.True(t, p.IsLowStock())
		assert.True(t, p.HasStockFor(3))
		assert.False(t, p.HasStockFor(4))
	})

	t.Run("tracked product out of stock", func(t *testing.T) {
		p := Product{TrackQuantity: true, Quantity: 0}
		assert.False(t, p.InStock())
		assert.False(t, p.HasStockFor(1))
	})

	t.Run("untracked product is always in stock", func(t *testing.T) {
		p := Product{TrackQuantity: false, Quantity: 0}
		assert.True(t, p.InStock())
		assert.True(t, p.HasStockFor(999))
	})

	t.Run("backorders bypass the stock check", func(t *testing.T) {
		p := Product{TrackQuantity: true, Quantity: 0, AllowBackorders: true}
		assert.True(t, p.HasStockFor(10))
	})
}

func TestProductListFilterOrdering(t *testing.T) {
	tests := []struct {
		ordering string
		want     string
	}{
		{"created", "created_at ASC"},
		{"-created", "created_at DESC"},
		{"price", "price ASC"},
		{"-price", "price DESC"},
		{"name", "name ASC"},
		{"-name", "name DESC"},
		{"is_bestseller", "is_bestseller ASC"},
		{"-is_bestseller", "is_bestseller DESC"},
		{"", "created_at DESC"},
		{"id", "created_at DESC"},
		{"price; DROP TABLE products", "created_at DESC"},
	}

	for _, tt := range tests {
		f := ProductListFilter{Ordering: tt.ordering}
		assert.Equal(t, tt.want, f.OrderBy(), "ordering %q", tt.ordering)
	}
}

func TestProductListFilterPaging(t *testing.T) {
	f := ProductListFilter{Page: 3, PageSize: 10}
	assert.Equal(t, 10, f.Limit())
	assert.Equal(t, 20, f.Offset())

	f = ProductListFilter{}
	assert.Equal(t, 20, f.Limit())
	assert.Equal(t, 0, f.Offset())

	f = ProductListFilter{PageSize: 1000}
	assert.Equal(t, 20, f.Limit())
}
