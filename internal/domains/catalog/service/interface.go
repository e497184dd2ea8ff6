package service

import (
	"context"

	"github.com/google/uuid"

	"greencart-backend/internal/domains/catalog/model"
)

// Service is the business layer for categories, brands, tags and products.
type Service interface {
	CreateCategory(ctx context.Context, req model.CategoryRequest) (*model.Category, error)
	ListCategories(ctx context.Context) ([]*model.Category, error)
	GetCategory(ctx context.Context, slug string) (*model.Category, error)
	UpdateCategory(ctx context.Context, slug string, req model.CategoryRequest) (*model.Category, error)
	DeleteCategory(ctx context.Context, slug string) error

	CreateBrand(ctx context.Context, req model.BrandRequest) (*model.Brand, error)
	ListBrands(ctx context.Context) ([]*model.Brand, error)
	GetBrand(ctx context.Context, slug string) (*model.Brand, error)
	UpdateBrand(ctx context.Context, slug string, req model.BrandRequest) (*model.Brand, error)
	DeleteBrand(ctx context.Context, slug string) error

	CreateTag(ctx context.Context, req model.TagRequest) (*model.Tag, error)
	ListTags(ctx context.Context) ([]*model.Tag, error)
	DeleteTag(ctx context.Context, slug string) error

	CreateProduct(ctx context.Context, req model.ProductRequest) (*model.ProductResponse, error)
	ListProducts(ctx context.Context, filter model.ProductListFilter) ([]*model.ProductResponse, int64, error)
	GetProduct(ctx context.Context, slug string) (*model.ProductResponse, error)
	GetProductByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	UpdateProduct(ctx context.Context, slug string, req model.ProductRequest) (*model.ProductResponse, error)
	DeleteProduct(ctx context.Context, slug string) error
}
