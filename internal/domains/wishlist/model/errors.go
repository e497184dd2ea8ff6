package model

import "errors"

var (
	ErrWishlistNotFound     = errors.New("wishlist not found")
	ErrWishlistItemNotFound = errors.New("wishlist item not found")
	ErrWishlistPrivate      = errors.New("wishlist is private")
	ErrItemAlreadyPresent   = errors.New("product is already in the wishlist")
)
