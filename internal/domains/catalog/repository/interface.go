package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"greencart-backend/internal/domains/catalog/model"
)

// Repository is the persistence port for the catalog.
type Repository interface {
	// Categories
	CreateCategory(ctx context.Context, c *model.Category) (uuid.UUID, error)
	ListCategories(ctx context.Context) ([]*model.Category, error)
	FindCategoryBySlug(ctx context.Context, slug string) (*model.Category, error)
	UpdateCategory(ctx context.Context, c *model.Category) error
	DeleteCategory(ctx context.Context, id uuid.UUID) error

	// Brands
	CreateBrand(ctx context.Context, b *model.Brand) (uuid.UUID, error)
	ListBrands(ctx context.Context) ([]*model.Brand, error)
	FindBrandBySlug(ctx context.Context, slug string) (*model.Brand, error)
	UpdateBrand(ctx context.Context, b *model.Brand) error
	DeleteBrand(ctx context.Context, id uuid.UUID) error

	// Tags
	CreateTag(ctx context.Context, t *model.Tag) (uuid.UUID, error)
	ListTags(ctx context.Context) ([]*model.Tag, error)
	FindTagBySlug(ctx context.Context, slug string) (*model.Tag, error)
	DeleteTag(ctx context.Context, id uuid.UUID) error

	// Products
	CreateProduct(ctx context.Context, p *model.Product) (uuid.UUID, error)
	ListProducts(ctx context.Context, filter model.ProductListFilter) ([]*model.Product, int64, error)
	FindProductByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindProductBySlug(ctx context.Context, slug string) (*model.Product, error)
	UpdateProduct(ctx context.Context, p *model.Product) error
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ReplaceProductTags(ctx context.Context, productID uuid.UUID, tagIDs []uuid.UUID) error

	// DecrementStock reduces stock inside the caller's transaction. Rows
	// with track_quantity=false are untouched. Returns ErrProductNotFound
	// when the row does not exist.
	DecrementStock(ctx context.Context, tx pgx.Tx, productID uuid.UUID, qty int) error
}
