package service

import (
	"context"

	"github.com/google/uuid"

	cartmodel "greencart-backend/internal/domains/cart/model"
	"greencart-backend/internal/domains/wishlist/model"
	"greencart-backend/internal/domains/wishlist/repository"
)

type wishlistService struct {
	repo repository.Repository
	cart CartAdder
}

func NewWishlistService(repo repository.Repository, cart CartAdder) Service {
	return &wishlistService{repo: repo, cart: cart}
}

func (s *wishlistService) GetMyWishlist(ctx context.Context, userID uuid.UUID) (*model.Wishlist, error) {
	return s.repo.GetOrCreateByUser(ctx, userID)
}

func (s *wishlistService) GetPublicWishlist(ctx context.Context, ownerID uuid.UUID) (*model.Wishlist, error) {
	w, err := s.repo.FindByUser(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	// Private wishlists answer 403, not 404.
	if !w.IsPublic {
		return nil, model.ErrWishlistPrivate
	}
	return w, nil
}

func (s *wishlistService) SetVisibility(ctx context.Context, userID uuid.UUID, isPublic bool) (*model.Wishlist, error) {
	w, err := s.repo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetVisibility(ctx, w.ID, isPublic); err != nil {
		return nil, err
	}
	return s.repo.FindByUser(ctx, userID)
}

func (s *wishlistService) AddItem(ctx context.Context, userID uuid.UUID, req model.AddItemRequest) (*model.Wishlist, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	w, err := s.repo.GetOrCreateByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.AddItem(ctx, w.ID, req.ProductID); err != nil {
		return nil, err
	}
	return s.repo.FindByUser(ctx, userID)
}

func (s *wishlistService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) (*model.Wishlist, error) {
	if _, err := s.ownedItem(ctx, userID, itemID); err != nil {
		return nil, err
	}
	if err := s.repo.RemoveItem(ctx, itemID); err != nil {
		return nil, err
	}
	return s.repo.FindByUser(ctx, userID)
}

func (s *wishlistService) MoveToCart(ctx context.Context, userID, itemID uuid.UUID, quantity int) (*model.Wishlist, error) {
	item, err := s.ownedItem(ctx, userID, itemID)
	if err != nil {
		return nil, err
	}

	if quantity < 1 {
		quantity = 1
	}

	// Add to the cart first. If that fails (stock, inactive product) the
	// wishlist item survives; a failed delete afterwards leaves the
	// product in both places, which is the safe over-count.
	_, err = s.cart.AddItem(ctx, cartmodel.OwnerForUser(userID), cartmodel.AddItemRequest{
		ProductID: item.ProductID,
		Quantity:  quantity,
	})
	if err != nil {
		return nil, err
	}

	if err := s.repo.RemoveItem(ctx, itemID); err != nil {
		return nil, err
	}
	return s.repo.FindByUser(ctx, userID)
}

func (s *wishlistService) ownedItem(ctx context.Context, userID, itemID uuid.UUID) (*model.WishlistItem, error) {
	item, err := s.repo.FindItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	w, err := s.repo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if item.WishlistID != w.ID {
		return nil, model.ErrWishlistItemNotFound
	}
	return item, nil
}
