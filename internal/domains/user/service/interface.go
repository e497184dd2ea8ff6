package service

import (
	"context"

	"github.com/google/uuid"

	"greencart-backend/internal/domains/user/model"
)

// Service is the business layer for accounts, sessions and addresses.
type Service interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (*model.AuthResponse, error)
	VerifyEmail(ctx context.Context, token string) error

	GetProfile(ctx context.Context, userID uuid.UUID) (*model.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req model.UpdateProfileRequest) (*model.ProfileResponse, error)

	CreateAddress(ctx context.Context, userID uuid.UUID, req model.AddressRequest) (*model.ShippingAddress, error)
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]*model.ShippingAddress, error)
	UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, req model.AddressRequest) (*model.ShippingAddress, error)
	DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error
	SetDefaultAddress(ctx context.Context, userID, addressID uuid.UUID) error
}
