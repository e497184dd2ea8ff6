package model

import "errors"

var (
	ErrPromotionNotFound  = errors.New("promotion not found")
	ErrCouponCodeTaken    = errors.New("coupon code is already in use")
	ErrNotApplicable      = errors.New("promotion is not applicable to this order")
	ErrAlreadyApplied     = errors.New("promotion has already been applied to this order")
	ErrUsageLimitReached  = errors.New("promotion usage limit reached")
	ErrEmptyScopeSet      = errors.New("scoped promotion requires a non-empty id set")
	ErrPromotionExpired   = errors.New("promotion is not currently valid")
)
