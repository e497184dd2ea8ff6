package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"greencart-backend/internal/domains/cart/model"
	"greencart-backend/internal/domains/cart/repository"
)

type cartService struct {
	repo     repository.Repository
	products ProductProvider
}

func NewCartService(repo repository.Repository, products ProductProvider) Service {
	return &cartService{repo: repo, products: products}
}

func (s *cartService) GetMyCart(ctx context.Context, owner model.Owner) (*model.CartResponse, error) {
	cart, err := s.repo.GetOrCreateActiveCart(ctx, owner)
	if err != nil {
		return nil, err
	}
	return cart.ToResponse(), nil
}

func (s *cartService) AddItem(ctx context.Context, owner model.Owner, req model.AddItemRequest) (*model.CartResponse, error) {
	// Step 1: Validate
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.Quantity <= 0 {
		return nil, model.ErrInvalidQuantity
	}

	// Step 2: Resolve product. Unknown products are a not-found error.
	product, err := s.products.FindProductByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	// Step 3: Stock check against the requested TOTAL line quantity, not
	// just the increment. The check lives here, storage never enforces it.
	cart, err := s.repo.GetOrCreateActiveCart(ctx, owner)
	if err != nil {
		return nil, err
	}

	requested := req.Quantity
	if existing, err := s.repo.FindItem(ctx, cart.ID, req.ProductID); err == nil {
		requested += existing.Quantity
	} else if !errors.Is(err, model.ErrCartItemNotFound) {
		return nil, err
	}
	if !product.HasStockFor(requested) {
		return nil, model.ErrInsufficientStock
	}

	// Step 4: Upsert. An existing line is incremented; a new line snapshots
	// the current price into price_at_time.
	item := &model.CartItem{
		CartID:      cart.ID,
		ProductID:   product.ID,
		Quantity:    req.Quantity,
		PriceAtTime: product.Price,
	}
	if err := s.repo.UpsertItem(ctx, item); err != nil {
		return nil, err
	}

	return s.reload(ctx, owner)
}

func (s *cartService) UpdateItemQuantity(ctx context.Context, owner model.Owner, req model.UpdateItemRequest) (*model.CartResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cart, err := s.repo.GetOrCreateActiveCart(ctx, owner)
	if err != nil {
		return nil, err
	}

	// qty <= 0 removes the line; removing a missing line is a no-op.
	if req.Quantity <= 0 {
		if err := s.repo.RemoveItem(ctx, cart.ID, req.ProductID); err != nil &&
			!errors.Is(err, model.ErrCartItemNotFound) {
			return nil, err
		}
		return s.reload(ctx, owner)
	}

	product, err := s.products.FindProductByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.HasStockFor(req.Quantity) {
		return nil, model.ErrInsufficientStock
	}

	// Existing line gets the quantity SET, a missing line behaves as add.
	err = s.repo.SetItemQuantity(ctx, cart.ID, req.ProductID, req.Quantity)
	if errors.Is(err, model.ErrCartItemNotFound) {
		err = s.repo.UpsertItem(ctx, &model.CartItem{
			CartID:      cart.ID,
			ProductID:   product.ID,
			Quantity:    req.Quantity,
			PriceAtTime: product.Price,
		})
	}
	if err != nil {
		return nil, err
	}

	return s.reload(ctx, owner)
}

func (s *cartService) RemoveItem(ctx context.Context, owner model.Owner, productID uuid.UUID) (*model.CartResponse, error) {
	cart, err := s.repo.GetOrCreateActiveCart(ctx, owner)
	if err != nil {
		return nil, err
	}
	if err := s.repo.RemoveItem(ctx, cart.ID, productID); err != nil {
		return nil, err
	}
	return s.reload(ctx, owner)
}

func (s *cartService) Clear(ctx context.Context, owner model.Owner) (*model.CartResponse, error) {
	cart, err := s.repo.GetOrCreateActiveCart(ctx, owner)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ClearItems(ctx, cart.ID); err != nil {
		return nil, err
	}
	return s.reload(ctx, owner)
}

func (s *cartService) reload(ctx context.Context, owner model.Owner) (*model.CartResponse, error) {
	cart, err := s.repo.FindActiveCart(ctx, owner)
	if err != nil {
		return nil, err
	}
	return cart.ToResponse(), nil
}
