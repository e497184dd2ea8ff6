package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"greencart-backend/internal/domains/user/model"
	"greencart-backend/pkg/cache"
	"greencart-backend/pkg/logger"
)

type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) Repository {
	return &postgresRepository{pool: pool, cache: cache}
}

// ========================================
// USERS
// ========================================

func (r *postgresRepository) Create(ctx context.Context, u *model.User) (uuid.UUID, error) {
	query := `
		INSERT INTO users (
			first_name, last_name, email, password_hash,
			is_admin, is_active, email_verified,
			verify_token, verify_expires,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW())
		RETURNING id
	`

	var userID uuid.UUID
	err := r.pool.QueryRow(ctx, query,
		u.FirstName,
		u.LastName,
		u.Email,
		u.PasswordHash,
		u.IsAdmin,
		u.IsActive,
		u.EmailVerified,
		u.VerifyToken,
		u.VerifyExpires,
	).Scan(&userID)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" && strings.Contains(pgErr.ConstraintName, "email") {
			return uuid.Nil, model.ErrEmailTaken
		}
		return uuid.Nil, fmt.Errorf("create user: %w", err)
	}

	return userID, nil
}

func (r *postgresRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	// Cache-aside: users are read on every authenticated request.
	cacheKey := fmt.Sprintf("user:%s", id.String())

	var cached model.User
	if hit, err := r.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	u, err := r.scanUser(r.pool.QueryRow(ctx, selectUserQuery+` WHERE id = $1`, id))
	if err != nil {
		return nil, err
	}

	// TTL = 15 minutes, fresh enough for auth checks.
	_ = r.cache.Set(ctx, cacheKey, u, 15*time.Minute)
	return u, nil
}

func (r *postgresRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx, selectUserQuery+` WHERE LOWER(email) = LOWER($1)`, email))
}

func (r *postgresRepository) FindByVerifyToken(ctx context.Context, token string) (*model.User, error) {
	return r.scanUser(r.pool.QueryRow(ctx, selectUserQuery+` WHERE verify_token = $1`, token))
}

const selectUserQuery = `
	SELECT id, first_name, last_name, email, password_hash,
	       is_admin, is_active, email_verified,
	       verify_token, verify_expires, created_at, updated_at
	FROM users`

func (r *postgresRepository) scanUser(row pgx.Row) (*model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash,
		&u.IsAdmin, &u.IsActive, &u.EmailVerified,
		&u.VerifyToken, &u.VerifyExpires, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrUserNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return &u, nil
}

func (r *postgresRepository) MarkEmailVerified(ctx context.Context, id uuid.UUID) error {
	query := `
		UPDATE users
		SET email_verified = TRUE, verify_token = NULL, verify_expires = NULL, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("mark email verified: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	r.invalidateUser(ctx, id)
	return nil
}

func (r *postgresRepository) UpdateName(ctx context.Context, userID uuid.UUID, firstName, lastName *string) error {
	query := `
		UPDATE users
		SET first_name = COALESCE($2, first_name),
		    last_name  = COALESCE($3, last_name),
		    updated_at = NOW()
		WHERE id = $1
	`
	tag, err := r.pool.Exec(ctx, query, userID, firstName, lastName)
	if err != nil {
		return fmt.Errorf("update user name: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	r.invalidateUser(ctx, userID)
	return nil
}

func (r *postgresRepository) invalidateUser(ctx context.Context, id uuid.UUID) {
	if err := r.cache.Delete(ctx, fmt.Sprintf("user:%s", id.String())); err != nil {
		logger.Error("failed to invalidate user cache", err)
	}
}

// ========================================
// PROFILES
// ========================================

func (r *postgresRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*model.Profile, error) {
	query := `
		SELECT id, user_id, date_of_birth, gender, phone_number, created_at, updated_at
		FROM user_profiles
		WHERE user_id = $1
	`
	var p model.Profile
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&p.ID, &p.UserID, &p.DateOfBirth, &p.Gender, &p.PhoneNumber, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Profile rows are created lazily; an account without one is normal.
			return &model.Profile{UserID: userID}, nil
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

func (r *postgresRepository) UpsertProfile(ctx context.Context, p *model.Profile) error {
	query := `
		INSERT INTO user_profiles (user_id, date_of_birth, gender, phone_number, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		ON CONFLICT (user_id) DO UPDATE SET
			date_of_birth = COALESCE(EXCLUDED.date_of_birth, user_profiles.date_of_birth),
			gender        = COALESCE(EXCLUDED.gender, user_profiles.gender),
			phone_number  = COALESCE(EXCLUDED.phone_number, user_profiles.phone_number),
			updated_at    = NOW()
	`
	if _, err := r.pool.Exec(ctx, query, p.UserID, p.DateOfBirth, p.Gender, p.PhoneNumber); err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

// ========================================
// SHIPPING ADDRESSES
// ========================================

func (r *postgresRepository) CreateAddress(ctx context.Context, a *model.ShippingAddress) (uuid.UUID, error) {
	query := `
		INSERT INTO shipping_addresses (
			user_id, address_type, full_name, phone_number,
			street_line1, street_line2, city, state, postal_code, country,
			is_default, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, TRUE, NOW(), NOW())
		RETURNING id
	`
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, query,
		a.UserID, a.AddressType, a.FullName, a.PhoneNumber,
		a.StreetLine1, a.StreetLine2, a.City, a.State, a.PostalCode, a.Country,
		a.IsDefault,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("create address: %w", err)
	}
	return id, nil
}

const selectAddressQuery = `
	SELECT id, user_id, address_type, full_name, phone_number,
	       street_line1, street_line2, city, state, postal_code, country,
	       is_default, is_active, created_at, updated_at
	FROM shipping_addresses`

func (r *postgresRepository) ListAddresses(ctx context.Context, userID uuid.UUID) ([]*model.ShippingAddress, error) {
	rows, err := r.pool.Query(ctx, selectAddressQuery+`
		WHERE user_id = $1 AND is_active = TRUE
		ORDER BY is_default DESC, created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	defer rows.Close()

	var addresses []*model.ShippingAddress
	for rows.Next() {
		a, err := scanAddress(rows)
		if err != nil {
			return nil, err
		}
		addresses = append(addresses, a)
	}
	return addresses, rows.Err()
}

func (r *postgresRepository) FindAddressByID(ctx context.Context, id uuid.UUID) (*model.ShippingAddress, error) {
	return scanAddress(r.pool.QueryRow(ctx, selectAddressQuery+` WHERE id = $1 AND is_active = TRUE`, id))
}

func scanAddress(row pgx.Row) (*model.ShippingAddress, error) {
	var a model.ShippingAddress
	err := row.Scan(
		&a.ID, &a.UserID, &a.AddressType, &a.FullName, &a.PhoneNumber,
		&a.StreetLine1, &a.StreetLine2, &a.City, &a.State, &a.PostalCode, &a.Country,
		&a.IsDefault, &a.IsActive, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAddressNotFound
		}
		return nil, fmt.Errorf("scan address: %w", err)
	}
	return &a, nil
}

func (r *postgresRepository) UpdateAddress(ctx context.Context, a *model.ShippingAddress) error {
	query := `
		UPDATE shipping_addresses
		SET address_type = $2, full_name = $3, phone_number = $4,
		    street_line1 = $5, street_line2 = $6, city = $7, state = $8,
		    postal_code = $9, country = $10, is_default = $11, updated_at = NOW()
		WHERE id = $1 AND is_active = TRUE
	`
	tag, err := r.pool.Exec(ctx, query,
		a.ID, a.AddressType, a.FullName, a.PhoneNumber,
		a.StreetLine1, a.StreetLine2, a.City, a.State, a.PostalCode, a.Country,
		a.IsDefault,
	)
	if err != nil {
		return fmt.Errorf("update address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAddressNotFound
	}
	return nil
}

func (r *postgresRepository) DeleteAddress(ctx context.Context, id uuid.UUID) error {
	// Soft delete: orders keep JSONB snapshots, but dangling FKs are avoided.
	tag, err := r.pool.Exec(ctx,
		`UPDATE shipping_addresses SET is_active = FALSE, is_default = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAddressNotFound
	}
	return nil
}

func (r *postgresRepository) ClearDefaultAddresses(ctx context.Context, tx pgx.Tx, userID uuid.UUID) error {
	query := `UPDATE shipping_addresses SET is_default = FALSE, updated_at = NOW() WHERE user_id = $1 AND is_default = TRUE`
	var err error
	if tx != nil {
		_, err = tx.Exec(ctx, query, userID)
	} else {
		_, err = r.pool.Exec(ctx, query, userID)
	}
	if err != nil {
		return fmt.Errorf("clear default addresses: %w", err)
	}
	return nil
}

func (r *postgresRepository) SetDefaultAddress(ctx context.Context, tx pgx.Tx, userID, addressID uuid.UUID) error {
	query := `
		UPDATE shipping_addresses SET is_default = TRUE, updated_at = NOW()
		WHERE id = $1 AND user_id = $2 AND is_active = TRUE
	`
	var tag pgconn.CommandTag
	var err error
	if tx != nil {
		tag, err = tx.Exec(ctx, query, addressID, userID)
	} else {
		tag, err = r.pool.Exec(ctx, query, addressID, userID)
	}
	if err != nil {
		return fmt.Errorf("set default address: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAddressNotFound
	}
	return nil
}
