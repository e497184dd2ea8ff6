package model

import "errors"

var (
	ErrOrderNotFound    = errors.New("order not found")
	ErrOrderNotOwned    = errors.New("order does not belong to user")
	ErrEmptyOrder       = errors.New("order must contain at least one item")
	ErrNotCancellable   = errors.New("order can no longer be cancelled")
	ErrInvalidStatus    = errors.New("invalid order status")
	ErrInvalidTransition = errors.New("status transition not allowed")
)
