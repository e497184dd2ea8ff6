package service

import (
	"context"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartmodel "greencart-backend/internal/domains/cart/model"
	catalogmodel "greencart-backend/internal/domains/catalog/model"
	"greencart-backend/internal/domains/order/model"
	"greencart-backend/internal/shared"
	usermodel "greencart-backend/internal/domains/user/model"
	"greencart-backend/pkg/database"
)

// ========================================
// MOCKS
// ========================================

// mockOrderRepo emulates the transactional contract: writes go to a
// staging area that only becomes visible on commit, which the fake tx
// runner drives.
type mockOrderRepo struct {
	orders  map[uuid.UUID]*model.Order
	staged  map[uuid.UUID]*model.Order
	pending []*model.Order
}

func newMockOrderRepo() *mockOrderRepo {
	return &mockOrderRepo{
		orders: map[uuid.UUID]*model.Order{},
		staged: map[uuid.UUID]*model.Order{},
	}
}

func (m *mockOrderRepo) commit() {
	for id, o := range m.staged {
		m.orders[id] = o
	}
	m.staged = map[uuid.UUID]*model.Order{}
}

func (m *mockOrderRepo) rollback() {
	m.staged = map[uuid.UUID]*model.Order{}
}

func (m *mockOrderRepo) CreateOrder(_ context.Context, _ pgx.Tx, o *model.Order) (uuid.UUID, error) {
	clone := *o
	clone.ID = uuid.New()
	m.staged[clone.ID] = &clone
	return clone.ID, nil
}

func (m *mockOrderRepo) CreateItem(_ context.Context, _ pgx.Tx, item *model.OrderItem) error {
	o, ok := m.staged[item.OrderID]
	if !ok {
		o, ok = m.orders[item.OrderID]
	}
	if !ok {
		return model.ErrOrderNotFound
	}
	item.ID = uuid.New()
	o.Items = append(o.Items, item)
	return nil
}

func (m *mockOrderRepo) UpdateTotals(_ context.Context, _ pgx.Tx, o *model.Order) error {
	target, ok := m.staged[o.ID]
	if !ok {
		target, ok = m.orders[o.ID]
	}
	if !ok {
		return model.ErrOrderNotFound
	}
	target.Subtotal = o.Subtotal
	target.DiscountAmount = o.DiscountAmount
	target.TaxAmount = o.TaxAmount
	target.ShippingCost = o.ShippingCost
	target.Total = o.Total
	return nil
}

func (m *mockOrderRepo) SetDiscountAmount(_ context.Context, _ pgx.Tx, orderID uuid.UUID, amount decimal.Decimal) error {
	if o, ok := m.orders[orderID]; ok {
		o.DiscountAmount = amount
		return nil
	}
	return model.ErrOrderNotFound
}

func (m *mockOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Order, error) {
	if o, ok := m.orders[id]; ok {
		return o, nil
	}
	return nil, model.ErrOrderNotFound
}

func (m *mockOrderRepo) FindByIDTx(ctx context.Context, _ pgx.Tx, id uuid.UUID) (*model.Order, error) {
	return m.FindByID(ctx, id)
}

func (m *mockOrderRepo) ListByUser(_ context.Context, userID uuid.UUID, _, _ int) ([]*model.Order, int64, error) {
	var out []*model.Order
	for _, o := range m.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, int64(len(out)), nil
}

func (m *mockOrderRepo) UpdateStatus(_ context.Context, orderID uuid.UUID, status string) error {
	if o, ok := m.orders[orderID]; ok {
		o.Status = status
		return nil
	}
	return model.ErrOrderNotFound
}

func (m *mockOrderRepo) UpdatePaymentStatus(_ context.Context, orderID uuid.UUID, ps string) error {
	if o, ok := m.orders[orderID]; ok {
		o.PaymentStatus = ps
		return nil
	}
	return model.ErrOrderNotFound
}

func (m *mockOrderRepo) ListPendingOlderThan(_ context.Context, _ int) ([]*model.Order, error) {
	return m.pending, nil
}

// txRunner drives the mock repo's staging area like a real transaction.
type txRunner struct {
	repo *mockOrderRepo
}

func (r txRunner) WithinTx(_ context.Context, fn database.TxFunc) error {
	if err := fn(nil); err != nil {
		r.repo.rollback()
		return err
	}
	r.repo.commit()
	return nil
}

type mockProductProvider struct {
	products   map[uuid.UUID]*catalogmodel.Product
	decrements map[uuid.UUID]int
}

func (m *mockProductProvider) FindProductByID(_ context.Context, id uuid.UUID) (*catalogmodel.Product, error) {
	if p, ok := m.products[id]; ok {
		return p, nil
	}
	return nil, catalogmodel.ErrProductNotFound
}

func (m *mockProductProvider) DecrementStock(_ context.Context, _ pgx.Tx, id uuid.UUID, qty int) error {
	m.decrements[id] += qty
	return nil
}

type mockUserProvider struct {
	addresses map[uuid.UUID]*usermodel.ShippingAddress
	users     map[uuid.UUID]*usermodel.User
}

func (m *mockUserProvider) FindAddressByID(_ context.Context, id uuid.UUID) (*usermodel.ShippingAddress, error) {
	if a, ok := m.addresses[id]; ok {
		return a, nil
	}
	return nil, usermodel.ErrAddressNotFound
}

func (m *mockUserProvider) FindByID(_ context.Context, id uuid.UUID) (*usermodel.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, usermodel.ErrUserNotFound
}

type mockCartProvider struct {
	cart    *cartmodel.Cart
	cleared []uuid.UUID
}

func (m *mockCartProvider) FindActiveCart(_ context.Context, _ cartmodel.Owner) (*cartmodel.Cart, error) {
	if m.cart == nil {
		return nil, cartmodel.ErrCartNotFound
	}
	return m.cart, nil
}

func (m *mockCartProvider) ClearItems(_ context.Context, cartID uuid.UUID) error {
	m.cleared = append(m.cleared, cartID)
	return nil
}

type capturingEnqueuer struct {
	tasks []*asynq.Task
}

func (e *capturingEnqueuer) Enqueue(task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	e.tasks = append(e.tasks, task)
	return &asynq.TaskInfo{}, nil
}

// ========================================
// FIXTURE
// ========================================

type fixture struct {
	svc      Service
	repo     *mockOrderRepo
	products *mockProductProvider
	users    *mockUserProvider
	carts    *mockCartProvider
	enq      *capturingEnqueuer

	userID    uuid.UUID
	addressID uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		repo:     newMockOrderRepo(),
		products: &mockProductProvider{products: map[uuid.UUID]*catalogmodel.Product{}, decrements: map[uuid.UUID]int{}},
		users:    &mockUserProvider{addresses: map[uuid.UUID]*usermodel.ShippingAddress{}, users: map[uuid.UUID]*usermodel.User{}},
		carts:    &mockCartProvider{},
		enq:      &capturingEnqueuer{},
		userID:   uuid.New(),
	}

	f.users.users[f.userID] = &usermodel.User{ID: f.userID, Email: "buyer@example.com", FirstName: "Buyer"}

	addr := &usermodel.ShippingAddress{
		ID: uuid.New(), UserID: f.userID,
		FullName: "Buyer One", PhoneNumber: "+1 555 0100",
		StreetLine1: "1 Market St", City: "Springfield", State: "IL",
		PostalCode: "62701", Country: "US",
	}
	f.users.addresses[addr.ID] = addr
	f.addressID = addr.ID

	f.svc = NewOrderService(f.repo, f.products, f.users, f.carts, f.enq, txRunner{repo: f.repo})
	return f
}

func (f *fixture) seedProduct(price string, stock int) *catalogmodel.Product {
	p := &catalogmodel.Product{
		ID: uuid.New(), Name: "Product", SKU: "GC00000001",
		Price: decimal.RequireFromString(price), Quantity: stock, TrackQuantity: true,
	}
	f.products.products[p.ID] = p
	return p
}

var orderNumberPattern = regexp.MustCompile(`^ORD[0-9A-F]{12}$`)

// ========================================
// TESTS
// ========================================

func TestCreateOrder(t *testing.T) {
	t.Run("totals obey the invariant", func(t *testing.T) {
		f := newFixture(t)
		p1 := f.seedProduct("10.00", 100)
		p2 := f.seedProduct("5.50", 100)

		order, err := f.svc.Create(context.Background(), f.userID, model.CreateOrderRequest{
			Items: []model.OrderItemRequest{
				{ProductID: p1.ID, Quantity: 2},
				{ProductID: p2.ID, Quantity: 1},
			},
			ShippingAddressID: f.addressID,
			ShippingCost:      decimal.RequireFromString("4.00"),
			TaxAmount:         decimal.RequireFromString("2.55"),
		})
		require.NoError(t, err)

		// subtotal 25.50, discount 0, tax 2.55, shipping 4.00 -> 32.05
		assert.True(t, order.Subtotal.Equal(decimal.RequireFromString("25.50")), "subtotal %s", order.Subtotal)
		expected := order.Subtotal.Sub(order.DiscountAmount).Add(order.TaxAmount).Add(order.ShippingCost)
		assert.True(t, order.Total.Equal(expected), "total %s", order.Total)
		assert.True(t, order.Total.Equal(decimal.RequireFromString("32.05")))

		assert.Regexp(t, orderNumberPattern, order.OrderNumber)
		assert.Equal(t, model.StatusPending, order.Status)
		require.Len(t, order.Items, 2)
		assert.True(t, order.Items[0].UnitPrice.Equal(p1.Price), "unit price snapshots current price")
	})

	t.Run("missing product aborts the whole creation", func(t *testing.T) {
		f := newFixture(t)
		p1 := f.seedProduct("10.00", 100)

		_, err := f.svc.Create(context.Background(), f.userID, model.CreateOrderRequest{
			Items: []model.OrderItemRequest{
				{ProductID: p1.ID, Quantity: 1},
				{ProductID: uuid.New(), Quantity: 1},
			},
			ShippingAddressID: f.addressID,
		})
		require.ErrorIs(t, err, catalogmodel.ErrProductNotFound)
		assert.Empty(t, f.repo.orders, "no partial order persists")
		assert.Empty(t, f.enq.tasks, "no confirmation for a failed order")
	})

	t.Run("insufficient stock aborts", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedProduct("10.00", 1)

		_, err := f.svc.Create(context.Background(), f.userID, model.CreateOrderRequest{
			Items:             []model.OrderItemRequest{{ProductID: p.ID, Quantity: 5}},
			ShippingAddressID: f.addressID,
		})
		require.ErrorIs(t, err, cartmodel.ErrInsufficientStock)
		assert.Empty(t, f.repo.orders)
	})

	t.Run("stock decremented and confirmation enqueued", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedProduct("10.00", 10)

		_, err := f.svc.Create(context.Background(), f.userID, model.CreateOrderRequest{
			Items:             []model.OrderItemRequest{{ProductID: p.ID, Quantity: 3}},
			ShippingAddressID: f.addressID,
		})
		require.NoError(t, err)

		assert.Equal(t, 3, f.products.decrements[p.ID])
		require.Len(t, f.enq.tasks, 1)
		assert.Equal(t, shared.TypeSendOrderConfirmation, f.enq.tasks[0].Type())
	})

	t.Run("address snapshot is copied onto the order", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedProduct("10.00", 10)

		order, err := f.svc.Create(context.Background(), f.userID, model.CreateOrderRequest{
			Items:             []model.OrderItemRequest{{ProductID: p.ID, Quantity: 1}},
			ShippingAddressID: f.addressID,
		})
		require.NoError(t, err)

		assert.Equal(t, "Springfield", order.ShippingAddress["city"])
		assert.Equal(t, order.ShippingAddress, order.BillingAddress, "billing defaults to shipping")
	})

	t.Run("another user's address is rejected", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedProduct("10.00", 10)

		stranger := &usermodel.ShippingAddress{ID: uuid.New(), UserID: uuid.New(), City: "Elsewhere"}
		f.users.addresses[stranger.ID] = stranger

		_, err := f.svc.Create(context.Background(), f.userID, model.CreateOrderRequest{
			Items:             []model.OrderItemRequest{{ProductID: p.ID, Quantity: 1}},
			ShippingAddressID: stranger.ID,
		})
		require.ErrorIs(t, err, model.ErrOrderNotOwned)
	})

	t.Run("from cart drains the cart after commit", func(t *testing.T) {
		f := newFixture(t)
		p := f.seedProduct("10.00", 10)

		cartID := uuid.New()
		f.carts.cart = &cartmodel.Cart{
			ID: cartID,
			Items: []*cartmodel.CartItem{
				{ProductID: p.ID, Quantity: 2, PriceAtTime: p.Price},
			},
		}

		order, err := f.svc.Create(context.Background(), f.userID, model.CreateOrderRequest{
			FromCart:          true,
			ShippingAddressID: f.addressID,
		})
		require.NoError(t, err)

		require.Len(t, order.Items, 1)
		assert.Equal(t, 2, order.Items[0].Quantity)
		assert.Equal(t, []uuid.UUID{cartID}, f.carts.cleared)
	})

	t.Run("empty order rejected", func(t *testing.T) {
		f := newFixture(t)
		f.carts.cart = &cartmodel.Cart{ID: uuid.New()}

		_, err := f.svc.Create(context.Background(), f.userID, model.CreateOrderRequest{
			FromCart:          true,
			ShippingAddressID: f.addressID,
		})
		require.ErrorIs(t, err, model.ErrEmptyOrder)
	})
}

func TestCancelOrder(t *testing.T) {
	create := func(t *testing.T, f *fixture) *model.Order {
		t.Helper()
		p := f.seedProduct("10.00", 10)
		order, err := f.svc.Create(context.Background(), f.userID, model.CreateOrderRequest{
			Items:             []model.OrderItemRequest{{ProductID: p.ID, Quantity: 1}},
			ShippingAddressID: f.addressID,
		})
		require.NoError(t, err)
		return order
	}

	t.Run("pending order cancels and notifies", func(t *testing.T) {
		f := newFixture(t)
		order := create(t, f)
		f.enq.tasks = nil

		cancelled, err := f.svc.Cancel(context.Background(), f.userID, false, order.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusCancelled, cancelled.Status)

		require.Len(t, f.enq.tasks, 1)
		assert.Equal(t, shared.TypeSendOrderCancellation, f.enq.tasks[0].Type())
	})

	t.Run("shipped order cannot be cancelled", func(t *testing.T) {
		f := newFixture(t)
		order := create(t, f)
		f.repo.orders[order.ID].Status = model.StatusShipped

		_, err := f.svc.Cancel(context.Background(), f.userID, false, order.ID)
		require.ErrorIs(t, err, model.ErrNotCancellable)
		assert.Equal(t, model.StatusShipped, f.repo.orders[order.ID].Status)
	})

	t.Run("stranger cannot cancel", func(t *testing.T) {
		f := newFixture(t)
		order := create(t, f)

		_, err := f.svc.Cancel(context.Background(), uuid.New(), false, order.ID)
		require.ErrorIs(t, err, model.ErrOrderNotOwned)
	})

	t.Run("admin can cancel any order", func(t *testing.T) {
		f := newFixture(t)
		order := create(t, f)

		_, err := f.svc.Cancel(context.Background(), uuid.New(), true, order.ID)
		require.NoError(t, err)
	})
}

func TestUpdateStatusTransitions(t *testing.T) {
	f := newFixture(t)
	p := f.seedProduct("10.00", 10)
	order, err := f.svc.Create(context.Background(), f.userID, model.CreateOrderRequest{
		Items:             []model.OrderItemRequest{{ProductID: p.ID, Quantity: 1}},
		ShippingAddressID: f.addressID,
	})
	require.NoError(t, err)

	// pending -> shipped skips confirmed/processing
	_, err = f.svc.UpdateStatus(context.Background(), order.ID, model.StatusShipped)
	require.ErrorIs(t, err, model.ErrInvalidTransition)

	for _, status := range []string{
		model.StatusConfirmed, model.StatusProcessing, model.StatusShipped, model.StatusDelivered,
	} {
		_, err = f.svc.UpdateStatus(context.Background(), order.ID, status)
		require.NoError(t, err, "transition to %s", status)
	}

	// delivered -> pending is never legal
	_, err = f.svc.UpdateStatus(context.Background(), order.ID, model.StatusPending)
	require.ErrorIs(t, err, model.ErrInvalidTransition)
}

func TestScanPendingOrders(t *testing.T) {
	f := newFixture(t)
	f.repo.pending = []*model.Order{
		{ID: uuid.New(), UserID: f.userID, OrderNumber: "ORD000000000001", Status: model.StatusPending},
		{ID: uuid.New(), UserID: f.userID, OrderNumber: "ORD000000000002", Status: model.StatusPending},
	}

	sent, err := f.svc.ScanPendingOrders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	require.Len(t, f.enq.tasks, 2)
	assert.Equal(t, shared.TypeSendPendingReminder, f.enq.tasks[0].Type())
}

func TestRecalculateTotals(t *testing.T) {
	order := &model.Order{
		DiscountAmount: decimal.RequireFromString("3.00"),
		TaxAmount:      decimal.RequireFromString("1.50"),
		ShippingCost:   decimal.RequireFromString("5.00"),
		Items: []*model.OrderItem{
			{UnitPrice: decimal.RequireFromString("10.00"), Quantity: 2, TotalPrice: decimal.RequireFromString("20.00")},
			{UnitPrice: decimal.RequireFromString("4.25"), Quantity: 2, TotalPrice: decimal.RequireFromString("8.50")},
		},
	}
	order.RecalculateTotals()

	assert.True(t, order.Subtotal.Equal(decimal.RequireFromString("28.50")))
	// 28.50 - 3.00 + 1.50 + 5.00 = 32.00
	assert.True(t, order.Total.Equal(decimal.RequireFromString("32.00")), "total %s", order.Total)
}
