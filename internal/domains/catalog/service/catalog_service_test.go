package service

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greencart-backend/internal/domains/catalog/model"
	"greencart-backend/internal/shared"
)

type capturingEnqueuer struct {
	tasks []*asynq.Task
}

func (c *capturingEnqueuer) Enqueue(task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error) {
	c.tasks = append(c.tasks, task)
	return &asynq.TaskInfo{ID: uuid.NewString()}, nil
}

type mockCatalogRepo struct {
	categories map[string]*model.Category
	brands     map[string]*model.Brand
	tags       map[string]*model.Tag
	products   map[uuid.UUID]*model.Product

	protectedProducts map[uuid.UUID]bool
	deletedProducts   []uuid.UUID
}

func newMockCatalogRepo() *mockCatalogRepo {
	return &mockCatalogRepo{
		categories:        map[string]*model.Category{},
		brands:            map[string]*model.Brand{},
		tags:              map[string]*model.Tag{},
		products:          map[uuid.UUID]*model.Product{},
		protectedProducts: map[uuid.UUID]bool{},
	}
}

func (m *mockCatalogRepo) CreateCategory(_ context.Context, c *model.Category) (uuid.UUID, error) {
	if _, ok := m.categories[c.Slug]; ok {
		return uuid.Nil, model.ErrSlugTaken
	}
	c.ID = uuid.New()
	m.categories[c.Slug] = c
	return c.ID, nil
}

func (m *mockCatalogRepo) ListCategories(_ context.Context) ([]*model.Category, error) {
	var out []*model.Category
	for _, c := range m.categories {
		out = append(out, c)
	}
	return out, nil
}

func (m *mockCatalogRepo) FindCategoryBySlug(_ context.Context, slug string) (*model.Category, error) {
	if c, ok := m.categories[slug]; ok {
		return c, nil
	}
	return nil, model.ErrCategoryNotFound
}

func (m *mockCatalogRepo) UpdateCategory(_ context.Context, c *model.Category) error {
	m.categories[c.Slug] = c
	return nil
}

func (m *mockCatalogRepo) DeleteCategory(_ context.Context, id uuid.UUID) error {
	for slug, c := range m.categories {
		if c.ID == id {
			delete(m.categories, slug)
			return nil
		}
	}
	return model.ErrCategoryNotFound
}

func (m *mockCatalogRepo) CreateBrand(_ context.Context, b *model.Brand) (uuid.UUID, error) {
	b.ID = uuid.New()
	m.brands[b.Slug] = b
	return b.ID, nil
}

func (m *mockCatalogRepo) ListBrands(_ context.Context) ([]*model.Brand, error) { return nil, nil }

func (m *mockCatalogRepo) FindBrandBySlug(_ context.Context, slug string) (*model.Brand, error) {
	if b, ok := m.brands[slug]; ok {
		return b, nil
	}
	return nil, model.ErrBrandNotFound
}

func (m *mockCatalogRepo) UpdateBrand(_ context.Context, b *model.Brand) error { return nil }
func (m *mockCatalogRepo) DeleteBrand(_ context.Context, _ uuid.UUID) error    { return nil }

func (m *mockCatalogRepo) CreateTag(_ context.Context, t *model.Tag) (uuid.UUID, error) {
	t.ID = uuid.New()
	m.tags[t.Slug] = t
	return t.ID, nil
}

func (m *mockCatalogRepo) ListTags(_ context.Context) ([]*model.Tag, error) { return nil, nil }

func (m *mockCatalogRepo) FindTagBySlug(_ context.Context, slug string) (*model.Tag, error) {
	if t, ok := m.tags[slug]; ok {
		return t, nil
	}
	return nil, model.ErrTagNotFound
}

func (m *mockCatalogRepo) DeleteTag(_ context.Context, _ uuid.UUID) error { return nil }

func (m *mockCatalogRepo) CreateProduct(_ context.Context, p *model.Product) (uuid.UUID, error) {
	p.ID = uuid.New()
	m.products[p.ID] = p
	return p.ID, nil
}

func (m *mockCatalogRepo) ListProducts(_ context.Context, _ model.ProductListFilter) ([]*model.Product, int64, error) {
	var out []*model.Product
	for _, p := range m.products {
		out = append(out, p)
	}
	return out, int64(len(out)), nil
}

func (m *mockCatalogRepo) FindProductByID(_ context.Context, id uuid.UUID) (*model.Product, error) {
	if p, ok := m.products[id]; ok {
		return p, nil
	}
	return nil, model.ErrProductNotFound
}

func (m *mockCatalogRepo) FindProductBySlug(_ context.Context, slug string) (*model.Product, error) {
	for _, p := range m.products {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, model.ErrProductNotFound
}

func (m *mockCatalogRepo) UpdateProduct(_ context.Context, p *model.Product) error {
	if _, ok := m.products[p.ID]; !ok {
		return model.ErrProductNotFound
	}
	m.products[p.ID] = p
	return nil
}

func (m *mockCatalogRepo) DeleteProduct(_ context.Context, id uuid.UUID) error {
	if m.protectedProducts[id] {
		return model.ErrProductProtected
	}
	if _, ok := m.products[id]; !ok {
		return model.ErrProductNotFound
	}
	delete(m.products, id)
	m.deletedProducts = append(m.deletedProducts, id)
	return nil
}

func (m *mockCatalogRepo) ReplaceProductTags(_ context.Context, _ uuid.UUID, _ []uuid.UUID) error {
	return nil
}

func (m *mockCatalogRepo) DecrementStock(_ context.Context, _ pgx.Tx, _ uuid.UUID, _ int) error {
	return nil
}

// ========================================
// TESTS
// ========================================

var skuPattern = regexp.MustCompile(`^GC[0-9A-F]{8}$`)

func TestCreateProduct(t *testing.T) {
	repo := newMockCatalogRepo()
	svc := NewCatalogService(repo, &capturingEnqueuer{})

	product, err := svc.CreateProduct(context.Background(), model.ProductRequest{
		Name:     "Organic Green Tea 250g",
		Price:    decimal.RequireFromString("12.50"),
		Quantity: 10,
	})
	require.NoError(t, err)

	assert.Equal(t, "organic-green-tea-250g", product.Slug)
	assert.Regexp(t, skuPattern, product.SKU)
	assert.True(t, product.InStock)
}

func TestCreateProductValidation(t *testing.T) {
	repo := newMockCatalogRepo()
	svc := NewCatalogService(repo, &capturingEnqueuer{})

	_, err := svc.CreateProduct(context.Background(), model.ProductRequest{Name: ""})
	require.Error(t, err)
	assert.Empty(t, repo.products)
}

func TestDeleteProductProtected(t *testing.T) {
	repo := newMockCatalogRepo()
	svc := NewCatalogService(repo, &capturingEnqueuer{})

	product, err := svc.CreateProduct(context.Background(), model.ProductRequest{
		Name:  "Bamboo Toothbrush",
		Price: decimal.RequireFromString("3.99"),
	})
	require.NoError(t, err)
	repo.protectedProducts[product.ID] = true

	err = svc.DeleteProduct(context.Background(), product.Slug)
	require.ErrorIs(t, err, model.ErrProductProtected)
}

func TestUpdateProductRegeneratesSlug(t *testing.T) {
	repo := newMockCatalogRepo()
	svc := NewCatalogService(repo, &capturingEnqueuer{})

	product, err := svc.CreateProduct(context.Background(), model.ProductRequest{
		Name:  "Old Name",
		Price: decimal.RequireFromString("5.00"),
	})
	require.NoError(t, err)

	updated, err := svc.UpdateProduct(context.Background(), product.Slug, model.ProductRequest{
		Name:  "New Name",
		Price: decimal.RequireFromString("5.00"),
	})
	require.NoError(t, err)
	assert.Equal(t, "new-name", updated.Slug)
	assert.Equal(t, product.SKU, updated.SKU, "sku is immutable")
}

func TestUpdateProductPriceDropEnqueuesAlert(t *testing.T) {
	repo := newMockCatalogRepo()
	enq := &capturingEnqueuer{}
	svc := NewCatalogService(repo, enq)

	product, err := svc.CreateProduct(context.Background(), model.ProductRequest{
		Name:  "Oat Milk 1L",
		Price: decimal.RequireFromString("3.00"),
	})
	require.NoError(t, err)
	require.Empty(t, enq.tasks, "creation never alerts")

	_, err = svc.UpdateProduct(context.Background(), product.Slug, model.ProductRequest{
		Name:  "Oat Milk 1L",
		Price: decimal.RequireFromString("2.40"),
	})
	require.NoError(t, err)

	require.Len(t, enq.tasks, 1)
	assert.Equal(t, shared.TypeSendPriceDropAlert, enq.tasks[0].Type())

	var payload shared.PriceDropPayload
	require.NoError(t, json.Unmarshal(enq.tasks[0].Payload(), &payload))
	assert.Equal(t, product.ID, payload.ProductID)
	assert.True(t, payload.OldPrice.Equal(decimal.RequireFromString("3.00")))
	assert.True(t, payload.NewPrice.Equal(decimal.RequireFromString("2.40")))
}

func TestUpdateProductDiscountGrowthEnqueuesAlert(t *testing.T) {
	repo := newMockCatalogRepo()
	enq := &capturingEnqueuer{}
	svc := NewCatalogService(repo, enq)

	product, err := svc.CreateProduct(context.Background(), model.ProductRequest{
		Name:  "Reusable Straw Set",
		Price: decimal.RequireFromString("8.00"),
	})
	require.NoError(t, err)

	// Same price, but a compare price appears: the product goes on sale.
	compare := decimal.RequireFromString("10.00")
	_, err = svc.UpdateProduct(context.Background(), product.Slug, model.ProductRequest{
		Name:         "Reusable Straw Set",
		Price:        decimal.RequireFromString("8.00"),
		ComparePrice: &compare,
	})
	require.NoError(t, err)

	require.Len(t, enq.tasks, 1)

	var payload shared.PriceDropPayload
	require.NoError(t, json.Unmarshal(enq.tasks[0].Payload(), &payload))
	assert.True(t, payload.OldDiscountPct.IsZero())
	assert.True(t, payload.NewDiscountPct.Equal(decimal.RequireFromString("20")), "got %s", payload.NewDiscountPct)
}

func TestUpdateProductPriceRiseStaysQuiet(t *testing.T) {
	repo := newMockCatalogRepo()
	enq := &capturingEnqueuer{}
	svc := NewCatalogService(repo, enq)

	product, err := svc.CreateProduct(context.Background(), model.ProductRequest{
		Name:  "Beeswax Wraps",
		Price: decimal.RequireFromString("6.00"),
	})
	require.NoError(t, err)

	_, err = svc.UpdateProduct(context.Background(), product.Slug, model.ProductRequest{
		Name:  "Beeswax Wraps",
		Price: decimal.RequireFromString("7.50"),
	})
	require.NoError(t, err)
	assert.Empty(t, enq.tasks)
}

func TestCreateCategorySlugConflict(t *testing.T) {
	repo := newMockCatalogRepo()
	svc := NewCatalogService(repo, &capturingEnqueuer{})

	_, err := svc.CreateCategory(context.Background(), model.CategoryRequest{Name: "Beverages"})
	require.NoError(t, err)

	_, err = svc.CreateCategory(context.Background(), model.CategoryRequest{Name: "Beverages"})
	require.ErrorIs(t, err, model.ErrSlugTaken)
}
