package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"greencart-backend/internal/domains/user/model"
)

// Repository is the persistence port for accounts, profiles and addresses.
type Repository interface {
	// Users
	Create(ctx context.Context, u *model.User) (uuid.UUID, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByVerifyToken(ctx context.Context, token string) (*model.User, error)
	MarkEmailVerified(ctx context.Context, id uuid.UUID) error

	// Profiles
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.Profile, error)
	UpsertProfile(ctx context.Context, p *model.Profile) error
	UpdateName(ctx context.Context, userID uuid.UUID, firstName, lastName *string) error

	// Shipping addresses
	CreateAddress(ctx context.Context, a *model.ShippingAddress) (uuid.UUID, error)
	ListAddresses(ctx context.Context, userID uuid.UUID) ([]*model.ShippingAddress, error)
	FindAddressByID(ctx context.Context, id uuid.UUID) (*model.ShippingAddress, error)
	UpdateAddress(ctx context.Context, a *model.ShippingAddress) error
	DeleteAddress(ctx context.Context, id uuid.UUID) error
	// ClearDefaultAddresses unsets is_default on every address of the user,
	// inside the caller's transaction when tx is non-nil.
	ClearDefaultAddresses(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error
	SetDefaultAddress(ctx context.Context, tx pgx.Tx, userID, addressID uuid.UUID) error
}
