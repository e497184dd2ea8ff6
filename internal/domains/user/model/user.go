package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// User is the account entity. Passwords are stored as bcrypt hashes only.
type User struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	FirstName     string     `json:"first_name" db:"first_name"`
	LastName      string     `json:"last_name" db:"last_name"`
	Email         string     `json:"email" db:"email"`
	PasswordHash  string     `json:"-" db:"password_hash"`
	IsAdmin       bool       `json:"is_admin" db:"is_admin"`
	IsActive      bool       `json:"is_active" db:"is_active"`
	EmailVerified bool       `json:"email_verified" db:"email_verified"`
	VerifyToken   *string    `json:"-" db:"verify_token"`
	VerifyExpires *time.Time `json:"-" db:"verify_expires"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Profile holds optional account details separate from the auth record.
type Profile struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	UserID      uuid.UUID  `json:"user_id" db:"user_id"`
	DateOfBirth *time.Time `json:"date_of_birth,omitempty" db:"date_of_birth"`
	Gender      *string    `json:"gender,omitempty" db:"gender"`
	PhoneNumber *string    `json:"phone_number,omitempty" db:"phone_number"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// Address types
const (
	AddressTypeHome  = "home"
	AddressTypeWork  = "work"
	AddressTypeOther = "other"
)

// ShippingAddress belongs to a user. Orders never reference these rows
// directly; they copy a Snapshot at creation time so later edits cannot
// rewrite order history.
type ShippingAddress struct {
	ID           uuid.UUID `json:"id" db:"id"`
	UserID       uuid.UUID `json:"user_id" db:"user_id"`
	AddressType  string    `json:"address_type" db:"address_type"`
	FullName     string    `json:"full_name" db:"full_name"`
	PhoneNumber  string    `json:"phone_number" db:"phone_number"`
	StreetLine1  string    `json:"street_line1" db:"street_line1"`
	StreetLine2  *string   `json:"street_line2,omitempty" db:"street_line2"`
	City         string    `json:"city" db:"city"`
	State        string    `json:"state" db:"state"`
	PostalCode   string    `json:"postal_code" db:"postal_code"`
	Country      string    `json:"country" db:"country"`
	IsDefault    bool      `json:"is_default" db:"is_default"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Snapshot returns the address as a plain map for JSONB storage on orders.
func (a *ShippingAddress) Snapshot() map[string]interface{} {
	snap := map[string]interface{}{
		"full_name":    a.FullName,
		"phone_number": a.PhoneNumber,
		"street_line1": a.StreetLine1,
		"city":         a.City,
		"state":        a.State,
		"postal_code":  a.PostalCode,
		"country":      a.Country,
	}
	if a.StreetLine2 != nil {
		snap["street_line2"] = *a.StreetLine2
	}
	return snap
}

// FullAddress renders a one-line display form.
func (a *ShippingAddress) FullAddress() string {
	line := a.StreetLine1
	if a.StreetLine2 != nil && *a.StreetLine2 != "" {
		line += ", " + *a.StreetLine2
	}
	return fmt.Sprintf("%s, %s, %s %s, %s", line, a.City, a.State, a.PostalCode, a.Country)
}
