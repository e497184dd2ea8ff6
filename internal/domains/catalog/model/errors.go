package model

import "errors"

var (
	ErrCategoryNotFound = errors.New("category not found")
	ErrBrandNotFound    = errors.New("brand not found")
	ErrTagNotFound      = errors.New("tag not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrSlugTaken        = errors.New("slug is already in use")
	ErrSKUTaken         = errors.New("sku is already in use")
	ErrProductProtected = errors.New("product is referenced by existing orders and cannot be deleted")
	ErrCategoryNotEmpty = errors.New("category still has products or child categories")
)
