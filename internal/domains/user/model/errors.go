package model

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrEmailTaken           = errors.New("email is already registered")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrAccountDisabled      = errors.New("account is disabled")
	ErrInvalidVerifyToken   = errors.New("verification token is invalid or expired")
	ErrAlreadyVerified      = errors.New("email is already verified")
	ErrAddressNotFound      = errors.New("address not found")
	ErrAddressNotOwned      = errors.New("address does not belong to user")
	ErrUnauthorized         = errors.New("unauthorized")
)
