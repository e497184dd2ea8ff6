package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greencart-backend/internal/domains/cart/model"
	catalogmodel "greencart-backend/internal/domains/catalog/model"
)

// ========================================
// MOCKS
// ========================================

type itemKey struct {
	cartID    uuid.UUID
	productID uuid.UUID
}

type mockCartRepo struct {
	carts map[uuid.UUID]*model.Cart // keyed by cart id
	items map[itemKey]*model.CartItem
}

func newMockCartRepo() *mockCartRepo {
	return &mockCartRepo{
		carts: map[uuid.UUID]*model.Cart{},
		items: map[itemKey]*model.CartItem{},
	}
}

func (m *mockCartRepo) findByOwner(owner model.Owner) *model.Cart {
	for _, c := range m.carts {
		if owner.UserID != nil && c.UserID != nil && *c.UserID == *owner.UserID {
			return c
		}
		if owner.SessionKey != nil && c.SessionKey != nil && *c.SessionKey == *owner.SessionKey {
			return c
		}
	}
	return nil
}

func (m *mockCartRepo) GetOrCreateActiveCart(_ context.Context, owner model.Owner) (*model.Cart, error) {
	if !owner.IsValid() {
		return nil, model.ErrInvalidOwner
	}
	if c := m.findByOwner(owner); c != nil {
		return c, nil
	}
	c := &model.Cart{ID: uuid.New(), UserID: owner.UserID, SessionKey: owner.SessionKey, IsActive: true}
	m.carts[c.ID] = c
	return c, nil
}

func (m *mockCartRepo) FindActiveCart(ctx context.Context, owner model.Owner) (*model.Cart, error) {
	c := m.findByOwner(owner)
	if c == nil {
		return nil, model.ErrCartNotFound
	}
	if err := m.LoadItems(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (m *mockCartRepo) LoadItems(_ context.Context, cart *model.Cart) error {
	cart.Items = nil
	for k, item := range m.items {
		if k.cartID == cart.ID {
			cart.Items = append(cart.Items, item)
		}
	}
	return nil
}

func (m *mockCartRepo) FindItem(_ context.Context, cartID, productID uuid.UUID) (*model.CartItem, error) {
	if item, ok := m.items[itemKey{cartID, productID}]; ok {
		return item, nil
	}
	return nil, model.ErrCartItemNotFound
}

func (m *mockCartRepo) UpsertItem(_ context.Context, item *model.CartItem) error {
	key := itemKey{item.CartID, item.ProductID}
	if existing, ok := m.items[key]; ok {
		existing.Quantity += item.Quantity
		return nil
	}
	clone := *item
	clone.ID = uuid.New()
	m.items[key] = &clone
	return nil
}

func (m *mockCartRepo) SetItemQuantity(_ context.Context, cartID, productID uuid.UUID, qty int) error {
	if item, ok := m.items[itemKey{cartID, productID}]; ok {
		item.Quantity = qty
		return nil
	}
	return model.ErrCartItemNotFound
}

func (m *mockCartRepo) RemoveItem(_ context.Context, cartID, productID uuid.UUID) error {
	key := itemKey{cartID, productID}
	if _, ok := m.items[key]; !ok {
		return model.ErrCartItemNotFound
	}
	delete(m.items, key)
	return nil
}

func (m *mockCartRepo) ClearItems(_ context.Context, cartID uuid.UUID) error {
	for k := range m.items {
		if k.cartID == cartID {
			delete(m.items, k)
		}
	}
	return nil
}

type mockProducts struct {
	products map[uuid.UUID]*catalogmodel.Product
}

func (m *mockProducts) FindProductByID(_ context.Context, id uuid.UUID) (*catalogmodel.Product, error) {
	if p, ok := m.products[id]; ok {
		return p, nil
	}
	return nil, catalogmodel.ErrProductNotFound
}

func seedProduct(m *mockProducts, price string, stock int, tracked bool) *catalogmodel.Product {
	p := &catalogmodel.Product{
		ID:            uuid.New(),
		Name:          "Test Product",
		Price:         decimal.RequireFromString(price),
		Quantity:      stock,
		TrackQuantity: tracked,
		IsActive:      true,
	}
	m.products[p.ID] = p
	return p
}

func newCartTestService() (Service, *mockCartRepo, *mockProducts) {
	repo := newMockCartRepo()
	products := &mockProducts{products: map[uuid.UUID]*catalogmodel.Product{}}
	return NewCartService(repo, products), repo, products
}

// ========================================
// TESTS
// ========================================

func TestAddItem(t *testing.T) {
	owner := model.OwnerForUser(uuid.New())

	t.Run("creates line with price snapshot", func(t *testing.T) {
		svc, _, products := newCartTestService()
		p := seedProduct(products, "10.00", 100, true)

		cart, err := svc.AddItem(context.Background(), owner, model.AddItemRequest{ProductID: p.ID, Quantity: 2})
		require.NoError(t, err)

		require.Len(t, cart.Items, 1)
		assert.Equal(t, 2, cart.Items[0].Quantity)
		assert.True(t, cart.Items[0].PriceAtTime.Equal(decimal.RequireFromString("10.00")))
	})

	t.Run("second add increments instead of setting", func(t *testing.T) {
		svc, _, products := newCartTestService()
		p := seedProduct(products, "10.00", 100, true)

		_, err := svc.AddItem(context.Background(), owner, model.AddItemRequest{ProductID: p.ID, Quantity: 2})
		require.NoError(t, err)
		cart, err := svc.AddItem(context.Background(), owner, model.AddItemRequest{ProductID: p.ID, Quantity: 3})
		require.NoError(t, err)

		require.Len(t, cart.Items, 1)
		assert.Equal(t, 5, cart.Items[0].Quantity)
	})

	t.Run("price_at_time survives product price change", func(t *testing.T) {
		svc, _, products := newCartTestService()
		p := seedProduct(products, "10.00", 100, true)

		_, err := svc.AddItem(context.Background(), owner, model.AddItemRequest{ProductID: p.ID, Quantity: 1})
		require.NoError(t, err)

		p.Price = decimal.RequireFromString("12.00")
		cart, err := svc.AddItem(context.Background(), owner, model.AddItemRequest{ProductID: p.ID, Quantity: 1})
		require.NoError(t, err)

		assert.True(t, cart.Items[0].PriceAtTime.Equal(decimal.RequireFromString("10.00")),
			"snapshot must not be recomputed")
	})

	t.Run("rejects when total line quantity exceeds stock", func(t *testing.T) {
		svc, _, products := newCartTestService()
		p := seedProduct(products, "10.00", 4, true)

		_, err := svc.AddItem(context.Background(), owner, model.AddItemRequest{ProductID: p.ID, Quantity: 3})
		require.NoError(t, err)

		_, err = svc.AddItem(context.Background(), owner, model.AddItemRequest{ProductID: p.ID, Quantity: 2})
		require.ErrorIs(t, err, model.ErrInsufficientStock)
	})

	t.Run("untracked product ignores stock", func(t *testing.T) {
		svc, _, products := newCartTestService()
		p := seedProduct(products, "10.00", 0, false)

		_, err := svc.AddItem(context.Background(), owner, model.AddItemRequest{ProductID: p.ID, Quantity: 50})
		require.NoError(t, err)
	})

	t.Run("unknown product is not found", func(t *testing.T) {
		svc, _, _ := newCartTestService()
		_, err := svc.AddItem(context.Background(), owner, model.AddItemRequest{ProductID: uuid.New(), Quantity: 1})
		require.ErrorIs(t, err, catalogmodel.ErrProductNotFound)
	})
}

func TestUpdateItemQuantity(t *testing.T) {
	owner := model.OwnerForSession("sess-42")

	t.Run("sets quantity on existing line", func(t *testing.T) {
		svc, _, products := newCartTestService()
		p := seedProduct(products, "10.00", 100, true)

		_, err := svc.AddItem(context.Background(), owner, model.AddItemRequest{ProductID: p.ID, Quantity: 2})
		require.NoError(t, err)

		cart, err := svc.UpdateItemQuantity(context.Background(), owner, model.UpdateItemRequest{ProductID: p.ID, Quantity: 7})
		require.NoError(t, err)
		assert.Equal(t, 7, cart.Items[0].Quantity, "update sets, not increments")
	})

	t.Run("zero quantity removes the line", func(t *testing.T) {
		svc, _, products := newCartTestService()
		p := seedProduct(products, "10.00", 100, true)

		_, err := svc.AddItem(context.Background(), owner, model.AddItemRequest{ProductID: p.ID, Quantity: 2})
		require.NoError(t, err)

		cart, err := svc.UpdateItemQuantity(context.Background(), owner, model.UpdateItemRequest{ProductID: p.ID, Quantity: 0})
		require.NoError(t, err)
		assert.Empty(t, cart.Items)
	})

	t.Run("missing line behaves as add", func(t *testing.T) {
		svc, _, products := newCartTestService()
		p := seedProduct(products, "10.00", 100, true)

		cart, err := svc.UpdateItemQuantity(context.Background(), owner, model.UpdateItemRequest{ProductID: p.ID, Quantity: 3})
		require.NoError(t, err)
		require.Len(t, cart.Items, 1)
		assert.Equal(t, 3, cart.Items[0].Quantity)
	})

	t.Run("stock is enforced", func(t *testing.T) {
		svc, _, products := newCartTestService()
		p := seedProduct(products, "10.00", 2, true)

		_, err := svc.UpdateItemQuantity(context.Background(), owner, model.UpdateItemRequest{ProductID: p.ID, Quantity: 5})
		require.ErrorIs(t, err, model.ErrInsufficientStock)
	})
}

func TestRemoveAndClear(t *testing.T) {
	owner := model.OwnerForUser(uuid.New())
	svc, _, products := newCartTestService()
	p1 := seedProduct(products, "10.00", 100, true)
	p2 := seedProduct(products, "5.00", 100, true)

	_, err := svc.AddItem(context.Background(), owner, model.AddItemRequest{ProductID: p1.ID, Quantity: 2})
	require.NoError(t, err)
	_, err = svc.AddItem(context.Background(), owner, model.AddItemRequest{ProductID: p2.ID, Quantity: 3})
	require.NoError(t, err)

	cart, err := svc.RemoveItem(context.Background(), owner, p1.ID)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, p2.ID, cart.Items[0].ProductID)

	_, err = svc.RemoveItem(context.Background(), owner, p1.ID)
	require.ErrorIs(t, err, model.ErrCartItemNotFound)

	cart, err = svc.Clear(context.Background(), owner)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartAggregatesThroughService(t *testing.T) {
	owner := model.OwnerForUser(uuid.New())
	svc, _, products := newCartTestService()
	p1 := seedProduct(products, "10.00", 100, true)
	p2 := seedProduct(products, "5.00", 100, true)

	_, err := svc.AddItem(context.Background(), owner, model.AddItemRequest{ProductID: p1.ID, Quantity: 2})
	require.NoError(t, err)
	cart, err := svc.AddItem(context.Background(), owner, model.AddItemRequest{ProductID: p2.ID, Quantity: 3})
	require.NoError(t, err)

	assert.Equal(t, 5, cart.ItemCount)
	assert.True(t, cart.Subtotal.Equal(decimal.RequireFromString("35.00")),
		"subtotal %s", cart.Subtotal)
}
