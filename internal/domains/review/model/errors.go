package model

import "errors"

var (
	ErrReviewNotFound      = errors.New("review not found")
	ErrAlreadyReviewed     = errors.New("product already reviewed by this user")
	ErrReviewNotOwned      = errors.New("review does not belong to this user")
	ErrNotPending          = errors.New("review is no longer pending")
	ErrNotApproved         = errors.New("review is not approved")
	ErrAlreadyModerated    = errors.New("review has already been moderated")
	ErrDuplicateHelpful    = errors.New("review already marked helpful by this user")
	ErrOrderProductMissing = errors.New("referenced order does not contain this product")
)
