package model

import (
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
)

var phoneRegex = regexp.MustCompile(`^\+?[0-9\s\-()]{7,20}$`)

// =====================================================
// AUTH REQUESTS
// =====================================================

type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

func (req RegisterRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required, validation.Length(8, 128)),
	)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (req LoginRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Email, validation.Required, is.Email),
		validation.Field(&req.Password, validation.Required),
	)
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

func (req RefreshTokenRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.RefreshToken, validation.Required),
	)
}

// =====================================================
// PROFILE REQUESTS
// =====================================================

type UpdateProfileRequest struct {
	FirstName   *string    `json:"first_name,omitempty"`
	LastName    *string    `json:"last_name,omitempty"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty"`
	Gender      *string    `json:"gender,omitempty"`
	PhoneNumber *string    `json:"phone_number,omitempty"`
}

func (req UpdateProfileRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.FirstName, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&req.LastName, validation.NilOrNotEmpty, validation.Length(1, 100)),
		validation.Field(&req.Gender, validation.In("male", "female", "other", "prefer_not_to_say")),
		validation.Field(&req.PhoneNumber, validation.Match(phoneRegex)),
	)
}

type AddressRequest struct {
	AddressType string  `json:"address_type"`
	FullName    string  `json:"full_name"`
	PhoneNumber string  `json:"phone_number"`
	StreetLine1 string  `json:"street_line1"`
	StreetLine2 *string `json:"street_line2,omitempty"`
	City        string  `json:"city"`
	State       string  `json:"state"`
	PostalCode  string  `json:"postal_code"`
	Country     string  `json:"country"`
	IsDefault   bool    `json:"is_default"`
}

func (req AddressRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.AddressType, validation.Required,
			validation.In(AddressTypeHome, AddressTypeWork, AddressTypeOther)),
		validation.Field(&req.FullName, validation.Required, validation.Length(1, 255)),
		validation.Field(&req.PhoneNumber, validation.Required, validation.Match(phoneRegex)),
		validation.Field(&req.StreetLine1, validation.Required),
		validation.Field(&req.City, validation.Required),
		validation.Field(&req.State, validation.Required),
		validation.Field(&req.PostalCode, validation.Required),
		validation.Field(&req.Country, validation.Required),
	)
}

// =====================================================
// RESPONSES
// =====================================================

type AuthResponse struct {
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	User         *UserResponse `json:"user"`
}

type UserResponse struct {
	ID            uuid.UUID `json:"id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Email         string    `json:"email"`
	IsAdmin       bool      `json:"is_admin"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:            u.ID,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Email:         u.Email,
		IsAdmin:       u.IsAdmin,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt,
	}
}

type ProfileResponse struct {
	User        *UserResponse `json:"user"`
	DateOfBirth *time.Time    `json:"date_of_birth,omitempty"`
	Gender      *string       `json:"gender,omitempty"`
	PhoneNumber *string       `json:"phone_number,omitempty"`
}
