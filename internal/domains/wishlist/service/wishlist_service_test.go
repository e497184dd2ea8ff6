package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cartmodel "greencart-backend/internal/domains/cart/model"
	"greencart-backend/internal/domains/wishlist/model"
)

// ========================================
// MOCKS
// ========================================

type mockWishlistRepo struct {
	wishlists map[uuid.UUID]*model.Wishlist // keyed by user id
	items     map[uuid.UUID]*model.WishlistItem
}

func newMockWishlistRepo() *mockWishlistRepo {
	return &mockWishlistRepo{
		wishlists: map[uuid.UUID]*model.Wishlist{},
		items:     map[uuid.UUID]*model.WishlistItem{},
	}
}

func (m *mockWishlistRepo) GetOrCreateByUser(ctx context.Context, userID uuid.UUID) (*model.Wishlist, error) {
	if w, err := m.FindByUser(ctx, userID); err == nil {
		return w, nil
	}
	w := &model.Wishlist{ID: uuid.New(), UserID: userID}
	m.wishlists[userID] = w
	return w, nil
}

func (m *mockWishlistRepo) FindByUser(_ context.Context, userID uuid.UUID) (*model.Wishlist, error) {
	w, ok := m.wishlists[userID]
	if !ok {
		return nil, model.ErrWishlistNotFound
	}
	w.Items = nil
	for _, item := range m.items {
		if item.WishlistID == w.ID {
			w.Items = append(w.Items, item)
		}
	}
	return w, nil
}

func (m *mockWishlistRepo) SetVisibility(_ context.Context, wishlistID uuid.UUID, isPublic bool) error {
	for _, w := range m.wishlists {
		if w.ID == wishlistID {
			w.IsPublic = isPublic
			return nil
		}
	}
	return model.ErrWishlistNotFound
}

func (m *mockWishlistRepo) AddItem(_ context.Context, wishlistID, productID uuid.UUID) (*model.WishlistItem, error) {
	for _, item := range m.items {
		if item.WishlistID == wishlistID && item.ProductID == productID {
			return nil, model.ErrItemAlreadyPresent
		}
	}
	item := &model.WishlistItem{ID: uuid.New(), WishlistID: wishlistID, ProductID: productID}
	m.items[item.ID] = item
	return item, nil
}

func (m *mockWishlistRepo) FindItem(_ context.Context, itemID uuid.UUID) (*model.WishlistItem, error) {
	if item, ok := m.items[itemID]; ok {
		return item, nil
	}
	return nil, model.ErrWishlistItemNotFound
}

func (m *mockWishlistRepo) RemoveItem(_ context.Context, itemID uuid.UUID) error {
	if _, ok := m.items[itemID]; !ok {
		return model.ErrWishlistItemNotFound
	}
	delete(m.items, itemID)
	return nil
}

func (m *mockWishlistRepo) ListHoldersByProduct(_ context.Context, productID uuid.UUID) ([]*model.Holder, error) {
	var holders []*model.Holder
	for _, item := range m.items {
		if item.ProductID != productID {
			continue
		}
		for _, w := range m.wishlists {
			if w.ID == item.WishlistID {
				holders = append(holders, &model.Holder{UserID: w.UserID})
			}
		}
	}
	return holders, nil
}

type mockCartAdder struct {
	added []cartmodel.AddItemRequest
	err   error
}

func (m *mockCartAdder) AddItem(_ context.Context, _ cartmodel.Owner, req cartmodel.AddItemRequest) (*cartmodel.CartResponse, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.added = append(m.added, req)
	return &cartmodel.CartResponse{}, nil
}

// ========================================
// TESTS
// ========================================

func TestWishlistAddItem(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()

	repo := newMockWishlistRepo()
	svc := NewWishlistService(repo, &mockCartAdder{})

	w, err := svc.AddItem(context.Background(), userID, model.AddItemRequest{ProductID: productID})
	require.NoError(t, err)
	require.Len(t, w.Items, 1)

	_, err = svc.AddItem(context.Background(), userID, model.AddItemRequest{ProductID: productID})
	require.ErrorIs(t, err, model.ErrItemAlreadyPresent)
}

func TestPublicWishlistVisibility(t *testing.T) {
	owner := uuid.New()
	repo := newMockWishlistRepo()
	svc := NewWishlistService(repo, &mockCartAdder{})

	_, err := svc.GetMyWishlist(context.Background(), owner)
	require.NoError(t, err)

	_, err = svc.GetPublicWishlist(context.Background(), owner)
	require.ErrorIs(t, err, model.ErrWishlistPrivate)

	_, err = svc.SetVisibility(context.Background(), owner, true)
	require.NoError(t, err)

	w, err := svc.GetPublicWishlist(context.Background(), owner)
	require.NoError(t, err)
	assert.True(t, w.IsPublic)
}

func TestMoveToCart(t *testing.T) {
	userID := uuid.New()
	productID := uuid.New()

	t.Run("adds to cart then removes the item", func(t *testing.T) {
		repo := newMockWishlistRepo()
		cart := &mockCartAdder{}
		svc := NewWishlistService(repo, cart)

		w, err := svc.AddItem(context.Background(), userID, model.AddItemRequest{ProductID: productID})
		require.NoError(t, err)
		itemID := w.Items[0].ID

		w, err = svc.MoveToCart(context.Background(), userID, itemID, 2)
		require.NoError(t, err)

		require.Len(t, cart.added, 1)
		assert.Equal(t, productID, cart.added[0].ProductID)
		assert.Equal(t, 2, cart.added[0].Quantity)
		assert.Empty(t, w.Items)
	})

	t.Run("cart failure keeps the wishlist item", func(t *testing.T) {
		repo := newMockWishlistRepo()
		cart := &mockCartAdder{err: cartmodel.ErrInsufficientStock}
		svc := NewWishlistService(repo, cart)

		w, err := svc.AddItem(context.Background(), userID, model.AddItemRequest{ProductID: productID})
		require.NoError(t, err)
		itemID := w.Items[0].ID

		_, err = svc.MoveToCart(context.Background(), userID, itemID, 1)
		require.ErrorIs(t, err, cartmodel.ErrInsufficientStock)

		w, err = svc.GetMyWishlist(context.Background(), userID)
		require.NoError(t, err)
		require.Len(t, w.Items, 1, "item survives a failed move")
	})

	t.Run("quantity defaults to 1", func(t *testing.T) {
		repo := newMockWishlistRepo()
		cart := &mockCartAdder{}
		svc := NewWishlistService(repo, cart)

		w, err := svc.AddItem(context.Background(), userID, model.AddItemRequest{ProductID: productID})
		require.NoError(t, err)

		_, err = svc.MoveToCart(context.Background(), userID, w.Items[0].ID, 0)
		require.NoError(t, err)
		require.Len(t, cart.added, 1)
		assert.Equal(t, 1, cart.added[0].Quantity)
	})

	t.Run("cannot move another user's item", func(t *testing.T) {
		repo := newMockWishlistRepo()
		svc := NewWishlistService(repo, &mockCartAdder{})

		w, err := svc.AddItem(context.Background(), userID, model.AddItemRequest{ProductID: productID})
		require.NoError(t, err)

		stranger := uuid.New()
		_, err = svc.GetMyWishlist(context.Background(), stranger)
		require.NoError(t, err)

		_, err = svc.MoveToCart(context.Background(), stranger, w.Items[0].ID, 1)
		require.True(t, errors.Is(err, model.ErrWishlistItemNotFound))
	})
}
