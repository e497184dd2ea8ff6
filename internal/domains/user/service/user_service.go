package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"greencart-backend/internal/domains/user/model"
	"greencart-backend/internal/domains/user/repository"
	"greencart-backend/internal/shared"
	"greencart-backend/pkg/database"
	"greencart-backend/pkg/jwt"
	"greencart-backend/pkg/logger"
)

// TaskEnqueuer is the slice of *asynq.Client the service needs.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

const verifyTokenTTL = 48 * time.Hour

type userService struct {
	repo  repository.Repository
	jwt   *jwt.Manager
	tasks TaskEnqueuer
	tx    database.TxRunner
}

func NewUserService(repo repository.Repository, jwtManager *jwt.Manager, tasks TaskEnqueuer, tx database.TxRunner) Service {
	return &userService{
		repo:  repo,
		jwt:   jwtManager,
		tasks: tasks,
		tx:    tx,
	}
}

// ========================================
// AUTHENTICATION
// ========================================

func (s *userService) Register(ctx context.Context, req model.RegisterRequest) (*model.AuthResponse, error) {
	// Step 1: Validate input (handler validates too, double-check is cheap)
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// Step 2: Hash password. bcrypt cost 12 balances security and latency.
	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 12)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	// Step 3: Generate email-verification token (32 random bytes, hex)
	verifyToken, err := generateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("generate verify token: %w", err)
	}
	verifyExpires := time.Now().UTC().Add(verifyTokenTTL)

	// Step 4: Persist. The unique index on email is the source of truth
	// for duplicates; a pre-check would race with concurrent signups.
	u := &model.User{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		PasswordHash:  string(passwordHash),
		IsActive:      true,
		EmailVerified: false,
		VerifyToken:   &verifyToken,
		VerifyExpires: &verifyExpires,
	}
	userID, err := s.repo.Create(ctx, u)
	if err != nil {
		return nil, err
	}
	u.ID = userID
	u.CreatedAt = time.Now().UTC()

	// Step 5: Enqueue welcome + verification emails. Delivery failures must
	// not fail the registration, so enqueue errors are only logged.
	s.enqueueRegistrationEmails(u, verifyToken)

	// Step 6: Issue tokens so the client is signed in immediately
	return s.issueTokens(u)
}

func (s *userService) Login(ctx context.Context, req model.LoginRequest) (*model.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if err == model.ErrUserNotFound {
			// Same error as a wrong password, no account enumeration.
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}

	if !u.IsActive {
		return nil, model.ErrAccountDisabled
	}

	return s.issueTokens(u)
}

func (s *userService) RefreshToken(ctx context.Context, refreshToken string) (*model.AuthResponse, error) {
	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, model.ErrUnauthorized
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, model.ErrUnauthorized
	}

	// Re-load the account: tokens outlive deactivation otherwise.
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, model.ErrUnauthorized
	}
	if !u.IsActive {
		return nil, model.ErrAccountDisabled
	}

	return s.issueTokens(u)
}

func (s *userService) VerifyEmail(ctx context.Context, token string) error {
	u, err := s.repo.FindByVerifyToken(ctx, token)
	if err != nil {
		if err == model.ErrUserNotFound {
			return model.ErrInvalidVerifyToken
		}
		return err
	}

	if u.EmailVerified {
		return model.ErrAlreadyVerified
	}
	if u.VerifyExpires == nil || time.Now().UTC().After(*u.VerifyExpires) {
		return model.ErrInvalidVerifyToken
	}

	return s.repo.MarkEmailVerified(ctx, u.ID)
}

func (s *userService) issueTokens(u *model.User) (*model.AuthResponse, error) {
	accessToken, err := s.jwt.GenerateAccessToken(u.ID.String(), u.Email, u.IsAdmin)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refreshToken, err := s.jwt.GenerateRefreshToken(u.ID.String())
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}
	return &model.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         u.ToResponse(),
	}, nil
}

func (s *userService) enqueueRegistrationEmails(u *model.User, verifyToken string) {
	if s.tasks == nil {
		return
	}

	welcome, err := json.Marshal(shared.WelcomeEmailPayload{
		UserID:    u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
	})
	if err == nil {
		if _, err := s.tasks.Enqueue(asynq.NewTask(shared.TypeSendWelcomeEmail, welcome),
			asynq.Queue(shared.QueueHigh), asynq.MaxRetry(3)); err != nil {
			logger.Error("failed to enqueue welcome email", err)
		}
	}

	verification, err := json.Marshal(shared.VerificationEmailPayload{
		UserID: u.ID,
		Email:  u.Email,
		Token:  verifyToken,
	})
	if err == nil {
		if _, err := s.tasks.Enqueue(asynq.NewTask(shared.TypeSendVerificationEmail, verification),
			asynq.Queue(shared.QueueHigh), asynq.MaxRetry(3)); err != nil {
			logger.Error("failed to enqueue verification email", err)
		}
	}
}

// ========================================
// PROFILE
// ========================================

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.ProfileResponse, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	p, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &model.ProfileResponse{
		User:        u.ToResponse(),
		DateOfBirth: p.DateOfBirth,
		Gender:      p.Gender,
		PhoneNumber: p.PhoneNumber,
	}, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, req model.UpdateProfileRequest) (*model.ProfileResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if req.FirstName != nil || req.LastName != nil {
		if err := s.repo.UpdateName(ctx, userID, req.FirstName, req.LastName); err != nil {
			return nil, err
		}
	}

	if req.DateOfBirth != nil || req.Gender != nil || req.PhoneNumber != nil {
		p := &model.Profile{
			UserID:      userID,
			DateOfBirth: req.DateOfBirth,
			Gender:      req.Gender,
			PhoneNumber: req.PhoneNumber,
		}
		if err := s.repo.UpsertProfile(ctx, p); err != nil {
			return nil, err
		}
	}

	return s.GetProfile(ctx, userID)
}

// ========================================
// SHIPPING ADDRESSES
// ========================================

func (s *userService) CreateAddress(ctx context.Context, userID uuid.UUID, req model.AddressRequest) (*model.ShippingAddress, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	a := &model.ShippingAddress{
		UserID:      userID,
		AddressType: req.AddressType,
		FullName:    req.FullName,
		PhoneNumber: req.PhoneNumber,
		StreetLine1: req.StreetLine1,
		StreetLine2: req.StreetLine2,
		City:        req.City,
		State:       req.State,
		PostalCode:  req.PostalCode,
		Country:     req.Country,
		IsDefault:   req.IsDefault,
		IsActive:    true,
	}

	// A new default address demotes the previous one atomically.
	if req.IsDefault {
		if err := s.repo.ClearDefaultAddresses(ctx, nil, userID); err != nil {
			return nil, err
		}
	}

	id, err := s.repo.CreateAddress(ctx, a)
	if err != nil {
		return nil, err
	}
	return s.repo.FindAddressByID(ctx, id)
}

func (s *userService) ListAddresses(ctx context.Context, userID uuid.UUID) ([]*model.ShippingAddress, error) {
	return s.repo.ListAddresses(ctx, userID)
}

func (s *userService) UpdateAddress(ctx context.Context, userID, addressID uuid.UUID, req model.AddressRequest) (*model.ShippingAddress, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	existing, err := s.ownedAddress(ctx, userID, addressID)
	if err != nil {
		return nil, err
	}

	if req.IsDefault && !existing.IsDefault {
		if err := s.repo.ClearDefaultAddresses(ctx, nil, userID); err != nil {
			return nil, err
		}
	}

	existing.AddressType = req.AddressType
	existing.FullName = req.FullName
	existing.PhoneNumber = req.PhoneNumber
	existing.StreetLine1 = req.StreetLine1
	existing.StreetLine2 = req.StreetLine2
	existing.City = req.City
	existing.State = req.State
	existing.PostalCode = req.PostalCode
	existing.Country = req.Country
	existing.IsDefault = req.IsDefault

	if err := s.repo.UpdateAddress(ctx, existing); err != nil {
		return nil, err
	}
	return s.repo.FindAddressByID(ctx, addressID)
}

func (s *userService) DeleteAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	if _, err := s.ownedAddress(ctx, userID, addressID); err != nil {
		return err
	}
	return s.repo.DeleteAddress(ctx, addressID)
}

func (s *userService) SetDefaultAddress(ctx context.Context, userID, addressID uuid.UUID) error {
	if _, err := s.ownedAddress(ctx, userID, addressID); err != nil {
		return err
	}

	// Demote-then-promote in one transaction so there is never zero or
	// two defaults visible.
	return s.tx.WithinTx(ctx, func(tx pgx.Tx) error {
		if err := s.repo.ClearDefaultAddresses(ctx, tx, userID); err != nil {
			return err
		}
		return s.repo.SetDefaultAddress(ctx, tx, userID, addressID)
	})
}

func (s *userService) ownedAddress(ctx context.Context, userID, addressID uuid.UUID) (*model.ShippingAddress, error) {
	a, err := s.repo.FindAddressByID(ctx, addressID)
	if err != nil {
		return nil, err
	}
	if a.UserID != userID {
		return nil, model.ErrAddressNotOwned
	}
	return a, nil
}

// ========================================
// HELPERS
// ========================================

func generateSecureToken(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
