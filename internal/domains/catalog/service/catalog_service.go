package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/shopspring/decimal"

	"greencart-backend/internal/domains/catalog/model"
	"greencart-backend/internal/domains/catalog/repository"
	"greencart-backend/internal/shared"
	"greencart-backend/internal/shared/utils"
	"greencart-backend/pkg/logger"
)

// TaskEnqueuer is the slice of *asynq.Client the service needs.
type TaskEnqueuer interface {
	Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type catalogService struct {
	repo  repository.Repository
	tasks TaskEnqueuer
}

func NewCatalogService(repo repository.Repository, tasks TaskEnqueuer) Service {
	return &catalogService{repo: repo, tasks: tasks}
}

// ========================================
// CATEGORIES
// ========================================

func (s *catalogService) CreateCategory(ctx context.Context, req model.CategoryRequest) (*model.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c := &model.Category{
		ParentID:     req.ParentID,
		Name:         req.Name,
		Slug:         utils.GenerateSlug(req.Name),
		Description:  req.Description,
		DisplayOrder: req.DisplayOrder,
		IsFeatured:   req.IsFeatured,
	}
	if _, err := s.repo.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	return s.repo.FindCategoryBySlug(ctx, c.Slug)
}

func (s *catalogService) ListCategories(ctx context.Context) ([]*model.Category, error) {
	return s.repo.ListCategories(ctx)
}

func (s *catalogService) GetCategory(ctx context.Context, slug string) (*model.Category, error) {
	return s.repo.FindCategoryBySlug(ctx, slug)
}

func (s *catalogService) UpdateCategory(ctx context.Context, slug string, req model.CategoryRequest) (*model.Category, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c, err := s.repo.FindCategoryBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	// Renaming regenerates the slug, old URLs are not preserved.
	if c.Name != req.Name {
		c.Slug = utils.GenerateSlug(req.Name)
	}
	c.Name = req.Name
	c.ParentID = req.ParentID
	c.Description = req.Description
	c.DisplayOrder = req.DisplayOrder
	c.IsFeatured = req.IsFeatured

	if err := s.repo.UpdateCategory(ctx, c); err != nil {
		return nil, err
	}
	return s.repo.FindCategoryBySlug(ctx, c.Slug)
}

func (s *catalogService) DeleteCategory(ctx context.Context, slug string) error {
	c, err := s.repo.FindCategoryBySlug(ctx, slug)
	if err != nil {
		return err
	}
	return s.repo.DeleteCategory(ctx, c.ID)
}

// ========================================
// BRANDS
// ========================================

func (s *catalogService) CreateBrand(ctx context.Context, req model.BrandRequest) (*model.Brand, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	b := &model.Brand{
		Name:        req.Name,
		Slug:        utils.GenerateSlug(req.Name),
		Description: req.Description,
		WebsiteURL:  req.WebsiteURL,
	}
	if _, err := s.repo.CreateBrand(ctx, b); err != nil {
		return nil, err
	}
	return s.repo.FindBrandBySlug(ctx, b.Slug)
}

func (s *catalogService) ListBrands(ctx context.Context) ([]*model.Brand, error) {
	return s.repo.ListBrands(ctx)
}

func (s *catalogService) GetBrand(ctx context.Context, slug string) (*model.Brand, error) {
	return s.repo.FindBrandBySlug(ctx, slug)
}

func (s *catalogService) UpdateBrand(ctx context.Context, slug string, req model.BrandRequest) (*model.Brand, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	b, err := s.repo.FindBrandBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if b.Name != req.Name {
		b.Slug = utils.GenerateSlug(req.Name)
	}
	b.Name = req.Name
	b.Description = req.Description
	b.WebsiteURL = req.WebsiteURL

	if err := s.repo.UpdateBrand(ctx, b); err != nil {
		return nil, err
	}
	return s.repo.FindBrandBySlug(ctx, b.Slug)
}

func (s *catalogService) DeleteBrand(ctx context.Context, slug string) error {
	b, err := s.repo.FindBrandBySlug(ctx, slug)
	if err != nil {
		return err
	}
	return s.repo.DeleteBrand(ctx, b.ID)
}

// ========================================
// TAGS
// ========================================

func (s *catalogService) CreateTag(ctx context.Context, req model.TagRequest) (*model.Tag, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	t := &model.Tag{
		Name: req.Name,
		Slug: utils.GenerateSlug(req.Name),
	}
	if _, err := s.repo.CreateTag(ctx, t); err != nil {
		return nil, err
	}
	return s.repo.FindTagBySlug(ctx, t.Slug)
}

func (s *catalogService) ListTags(ctx context.Context) ([]*model.Tag, error) {
	return s.repo.ListTags(ctx)
}

func (s *catalogService) DeleteTag(ctx context.Context, slug string) error {
	t, err := s.repo.FindTagBySlug(ctx, slug)
	if err != nil {
		return err
	}
	return s.repo.DeleteTag(ctx, t.ID)
}

// ========================================
// PRODUCTS
// ========================================

func (s *catalogService) CreateProduct(ctx context.Context, req model.ProductRequest) (*model.ProductResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	sku, err := generateSKU()
	if err != nil {
		return nil, fmt.Errorf("generate sku: %w", err)
	}

	p := &model.Product{
		CategoryID:        req.CategoryID,
		BrandID:           req.BrandID,
		Name:              req.Name,
		Slug:              utils.GenerateSlug(req.Name),
		SKU:               sku,
		Description:       req.Description,
		Price:             req.Price,
		ComparePrice:      req.ComparePrice,
		CostPrice:         req.CostPrice,
		Quantity:          req.Quantity,
		LowStockThreshold: req.LowStockThreshold,
		TrackQuantity:     req.TrackQuantity,
		AllowBackorders:   req.AllowBackorders,
		Weight:            req.Weight,
		Dimensions:        req.Dimensions,
		IsFeatured:        req.IsFeatured,
		IsBestseller:      req.IsBestseller,
		IsNew:             req.IsNew,
	}

	id, err := s.repo.CreateProduct(ctx, p)
	if err != nil {
		return nil, err
	}

	if len(req.TagIDs) > 0 {
		if err := s.repo.ReplaceProductTags(ctx, id, req.TagIDs); err != nil {
			return nil, err
		}
	}

	created, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return created.ToResponse(), nil
}

func (s *catalogService) ListProducts(ctx context.Context, filter model.ProductListFilter) ([]*model.ProductResponse, int64, error) {
	products, total, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	out := make([]*model.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, p.ToResponse())
	}
	return out, total, nil
}

func (s *catalogService) GetProduct(ctx context.Context, slug string) (*model.ProductResponse, error) {
	p, err := s.repo.FindProductBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return p.ToResponse(), nil
}

func (s *catalogService) GetProductByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	return s.repo.FindProductByID(ctx, id)
}

func (s *catalogService) UpdateProduct(ctx context.Context, slug string, req model.ProductRequest) (*model.ProductResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	p, err := s.repo.FindProductBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	oldPrice := p.Price
	oldDiscount := p.DiscountPercentage()

	if p.Name != req.Name {
		p.Slug = utils.GenerateSlug(req.Name)
	}
	p.Name = req.Name
	p.CategoryID = req.CategoryID
	p.BrandID = req.BrandID
	p.Description = req.Description
	p.Price = req.Price
	p.ComparePrice = req.ComparePrice
	p.CostPrice = req.CostPrice
	p.Quantity = req.Quantity
	p.LowStockThreshold = req.LowStockThreshold
	p.TrackQuantity = req.TrackQuantity
	p.AllowBackorders = req.AllowBackorders
	p.Weight = req.Weight
	p.Dimensions = req.Dimensions
	p.IsFeatured = req.IsFeatured
	p.IsBestseller = req.IsBestseller
	p.IsNew = req.IsNew

	if err := s.repo.UpdateProduct(ctx, p); err != nil {
		return nil, err
	}

	if req.TagIDs != nil {
		if err := s.repo.ReplaceProductTags(ctx, p.ID, req.TagIDs); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.FindProductByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}

	newDiscount := updated.DiscountPercentage()
	if updated.Price.LessThan(oldPrice) || newDiscount.GreaterThan(oldDiscount) {
		s.enqueuePriceDropAlert(updated, oldPrice, oldDiscount, newDiscount)
	}

	return updated.ToResponse(), nil
}

// enqueuePriceDropAlert is fire-and-forget: wishlist alerts must never
// fail a product update.
func (s *catalogService) enqueuePriceDropAlert(p *model.Product, oldPrice, oldDiscount, newDiscount decimal.Decimal) {
	payload, err := json.Marshal(shared.PriceDropPayload{
		ProductID:      p.ID,
		ProductName:    p.Name,
		OldPrice:       oldPrice,
		NewPrice:       p.Price,
		OldDiscountPct: oldDiscount,
		NewDiscountPct: newDiscount,
	})
	if err != nil {
		logger.Error("marshal price drop payload", err)
		return
	}

	task := asynq.NewTask(shared.TypeSendPriceDropAlert, payload)
	if _, err := s.tasks.Enqueue(task, asynq.Queue(shared.QueueLow), asynq.MaxRetry(3)); err != nil {
		logger.Error("enqueue price drop alert", err)
	}
}

func (s *catalogService) DeleteProduct(ctx context.Context, slug string) error {
	p, err := s.repo.FindProductBySlug(ctx, slug)
	if err != nil {
		return err
	}
	return s.repo.DeleteProduct(ctx, p.ID)
}

// generateSKU returns GC followed by 8 uppercase hex characters.
func generateSKU() (string, error) {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "GC" + strings.ToUpper(hex.EncodeToString(b)), nil
}
