package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestOwner(t *testing.T) {
	userID := uuid.New()

	assert.True(t, OwnerForUser(userID).IsValid())
	assert.True(t, OwnerForSession("sess-1").IsValid())
	assert.False(t, Owner{}.IsValid())

	sess := "sess-1"
	both := Owner{UserID: &userID, SessionKey: &sess}
	assert.False(t, both.IsValid())
}

func TestCartAggregates(t *testing.T) {
	// Two lines: 2 x 10.00 and 3 x 5.00 -> item_count 5, subtotal 35.00.
	cart := Cart{Items: []*CartItem{
		{Quantity: 2, PriceAtTime: dec("10.00"), Product: ItemProduct{Weight: dec("0.5")}},
		{Quantity: 3, PriceAtTime: dec("5.00"), Product: ItemProduct{Weight: dec("1.0")}},
	}}

	assert.Equal(t, 5, cart.ItemCount())
	assert.True(t, cart.Subtotal().Equal(dec("35.00")), "subtotal %s", cart.Subtotal())
	assert.True(t, cart.TotalWeight().Equal(dec("4.0")), "weight %s", cart.TotalWeight())
}

func TestCartItemDerived(t *testing.T) {
	item := CartItem{
		Quantity:    4,
		PriceAtTime: dec("2.50"),
		Product: ItemProduct{
			Price:         dec("3.00"),
			Weight:        dec("0.25"),
			Quantity:      10,
			TrackQuantity: true,
		},
	}

	assert.True(t, item.TotalPrice().Equal(dec("10.00")))
	assert.True(t, item.TotalWeight().Equal(dec("1.00")))
	assert.True(t, item.IsAvailable())
	assert.True(t, item.PriceDifference().Equal(dec("0.50")))

	item.Product.Quantity = 3
	assert.False(t, item.IsAvailable(), "stock below line quantity")

	item.Product.TrackQuantity = false
	assert.True(t, item.IsAvailable(), "untracked products are always available")
}

func TestCartItemPriceDroppedSinceAdd(t *testing.T) {
	item := CartItem{
		Quantity:    1,
		PriceAtTime: dec("20.00"),
		Product:     ItemProduct{Price: dec("15.00")},
	}
	assert.True(t, item.PriceDifference().Equal(dec("-5.00")))
	// Line total still uses the snapshot.
	assert.True(t, item.TotalPrice().Equal(dec("20.00")))
}
