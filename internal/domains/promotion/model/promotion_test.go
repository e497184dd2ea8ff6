package model

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func intPtr(n int) *int { return &n }

func livePromotion(now time.Time) Promotion {
	return Promotion{
		ID:           uuid.New(),
		Name:         "Summer Sale",
		DiscountType: DiscountPercentage,
		Scope:        ScopeAll,
		StartDate:    now.Add(-24 * time.Hour),
		EndDate:      now.Add(24 * time.Hour),
		IsActive:     true,
	}
}

func TestPromotionIsValid(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name   string
		mutate func(*Promotion)
		want   bool
	}{
		{"live", func(p *Promotion) {}, true},
		{"inactive", func(p *Promotion) { p.IsActive = false }, false},
		{"not started", func(p *Promotion) { p.StartDate = now.Add(time.Hour) }, false},
		{"ended", func(p *Promotion) { p.EndDate = now.Add(-time.Hour) }, false},
		{"budget exhausted", func(p *Promotion) {
			p.UsageLimit = intPtr(10)
			p.UsageCount = 10
		}, false},
		{"budget remaining", func(p *Promotion) {
			p.UsageLimit = intPtr(10)
			p.UsageCount = 9
		}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := livePromotion(now)
			tt.mutate(&p)
			assert.Equal(t, tt.want, p.IsValid(now))
		})
	}
}

func TestCalculateDiscount(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name     string
		mutate   func(*Promotion)
		total    string
		quantity int
		want     string
	}{
		{
			name: "20 percent of 100",
			mutate: func(p *Promotion) {
				p.DiscountValue = dec("20")
			},
			total: "100.00", quantity: 1, want: "20",
		},
		{
			name: "percentage capped by maximum",
			mutate: func(p *Promotion) {
				p.DiscountValue = dec("20")
				p.MaximumDiscountAmount = decPtr("15.00")
			},
			total: "100.00", quantity: 1, want: "15",
		},
		{
			name: "percentage rounds to cents",
			mutate: func(p *Promotion) {
				p.DiscountValue = dec("15")
			},
			total: "33.33", quantity: 1, want: "5",
		},
		{
			name: "fixed amount",
			mutate: func(p *Promotion) {
				p.DiscountType = DiscountFixedAmount
				p.DiscountValue = dec("10.00")
			},
			total: "50.00", quantity: 1, want: "10",
		},
		{
			name: "fixed amount floors at order total",
			mutate: func(p *Promotion) {
				p.DiscountType = DiscountFixedAmount
				p.DiscountValue = dec("10.00")
			},
			total: "7.50", quantity: 1, want: "7.5",
		},
		{
			name: "below minimum purchase",
			mutate: func(p *Promotion) {
				p.DiscountValue = dec("20")
				p.MinimumPurchaseAmount = decPtr("50.00")
			},
			total: "49.99", quantity: 1, want: "0",
		},
		{
			name: "at minimum purchase",
			mutate: func(p *Promotion) {
				p.DiscountValue = dec("20")
				p.MinimumPurchaseAmount = decPtr("50.00")
			},
			total: "50.00", quantity: 1, want: "10",
		},
		{
			name: "below minimum quantity",
			mutate: func(p *Promotion) {
				p.DiscountValue = dec("20")
				p.MinimumQuantity = intPtr(3)
			},
			total: "100.00", quantity: 2, want: "0",
		},
		{
			name: "expired yields nothing",
			mutate: func(p *Promotion) {
				p.DiscountValue = dec("20")
				p.EndDate = now.Add(-time.Hour)
			},
			total: "100.00", quantity: 1, want: "0",
		},
		{
			name: "buy_x_get_y not computed here",
			mutate: func(p *Promotion) {
				p.DiscountType = DiscountBuyXGetY
				p.DiscountValue = dec("1")
			},
			total: "100.00", quantity: 5, want: "0",
		},
		{
			name: "free_shipping not computed here",
			mutate: func(p *Promotion) {
				p.DiscountType = DiscountFreeShip
				p.DiscountValue = dec("1")
			},
			total: "100.00", quantity: 1, want: "0",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := livePromotion(now)
			tt.mutate(&p)
			got := p.CalculateDiscount(dec(tt.total), tt.quantity, now)
			assert.True(t, got.Equal(dec(tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestPromotionRequestValidate(t *testing.T) {
	now := time.Now()
	base := PromotionRequest{
		Name:          "Summer Sale",
		DiscountType:  DiscountPercentage,
		DiscountValue: dec("20"),
		Scope:         ScopeAll,
		StartDate:     now,
		EndDate:       now.Add(24 * time.Hour),
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, base.Validate())
	})

	t.Run("end before start", func(t *testing.T) {
		req := base
		req.EndDate = now.Add(-time.Hour)
		assert.Error(t, req.Validate())
	})

	t.Run("unknown discount type", func(t *testing.T) {
		req := base
		req.DiscountType = "bogo"
		assert.Error(t, req.Validate())
	})

	t.Run("scoped without a scope set", func(t *testing.T) {
		req := base
		req.Scope = ScopeProducts
		assert.ErrorIs(t, req.Validate(), ErrEmptyScopeSet)
	})

	t.Run("scoped with a scope set", func(t *testing.T) {
		req := base
		req.Scope = ScopeBrands
		req.BrandIDs = []uuid.UUID{uuid.New()}
		assert.NoError(t, req.Validate())
	})

	t.Run("negative discount value", func(t *testing.T) {
		req := base
		req.DiscountValue = dec("-10")
		assert.Error(t, req.Validate())
	})

	t.Run("negative minimum purchase", func(t *testing.T) {
		req := base
		req.MinimumPurchaseAmount = decPtr("-1")
		assert.Error(t, req.Validate())
	})

	t.Run("negative discount cap", func(t *testing.T) {
		req := base
		req.MaximumDiscountAmount = decPtr("-5")
		assert.Error(t, req.Validate())
	})

	t.Run("zero usage limit", func(t *testing.T) {
		req := base
		req.UsageLimit = intPtr(0)
		assert.Error(t, req.Validate())
	})
}
