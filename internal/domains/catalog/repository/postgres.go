package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"greencart-backend/internal/domains/catalog/model"
	"greencart-backend/pkg/cache"
	"greencart-backend/pkg/logger"
)

const productCacheTTL = 10 * time.Minute

type postgresRepository struct {
	pool  *pgxpool.Pool
	cache cache.Cache
}

func NewPostgresRepository(pool *pgxpool.Pool, cache cache.Cache) Repository {
	return &postgresRepository{pool: pool, cache: cache}
}

// ========================================
// CATEGORIES
// ========================================

func (r *postgresRepository) CreateCategory(ctx context.Context, c *model.Category) (uuid.UUID, error) {
	query := `
		INSERT INTO categories (parent_id, name, slug, description, display_order, is_featured, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, NOW(), NOW())
		RETURNING id
	`
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, query,
		c.ParentID, c.Name, c.Slug, c.Description, c.DisplayOrder, c.IsFeatured,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, mapCatalogError(err, "create category")
	}
	return id, nil
}

const selectCategoryQuery = `
	SELECT id, parent_id, name, slug, description, display_order, is_featured, is_active, created_at, updated_at
	FROM categories`

func (r *postgresRepository) ListCategories(ctx context.Context) ([]*model.Category, error) {
	rows, err := r.pool.Query(ctx, selectCategoryQuery+` WHERE is_active = TRUE ORDER BY display_order ASC, name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var out []*model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.ParentID, &c.Name, &c.Slug, &c.Description,
			&c.DisplayOrder, &c.IsFeatured, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, &c)
	}
	return out, rows.Err()
}

func (r *postgresRepository) FindCategoryBySlug(ctx context.Context, slug string) (*model.Category, error) {
	var c model.Category
	err := r.pool.QueryRow(ctx, selectCategoryQuery+` WHERE slug = $1 AND is_active = TRUE`, slug).Scan(
		&c.ID, &c.ParentID, &c.Name, &c.Slug, &c.Description,
		&c.DisplayOrder, &c.IsFeatured, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrCategoryNotFound
		}
		return nil, fmt.Errorf("find category: %w", err)
	}
	return &c, nil
}

func (r *postgresRepository) UpdateCategory(ctx context.Context, c *model.Category) error {
	query := `
		UPDATE categories
		SET parent_id = $2, name = $3, slug = $4, description = $5,
		    display_order = $6, is_featured = $7, updated_at = NOW()
		WHERE id = $1 AND is_active = TRUE
	`
	tag, err := r.pool.Exec(ctx, query, c.ID, c.ParentID, c.Name, c.Slug, c.Description, c.DisplayOrder, c.IsFeatured)
	if err != nil {
		return mapCatalogError(err, "update category")
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCategoryNotFound
	}
	return nil
}

func (r *postgresRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `UPDATE categories SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrCategoryNotFound
	}
	return nil
}

// ========================================
// BRANDS
// ========================================

func (r *postgresRepository) CreateBrand(ctx context.Context, b *model.Brand) (uuid.UUID, error) {
	query := `
		INSERT INTO brands (name, slug, description, website_url, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, TRUE, NOW(), NOW())
		RETURNING id
	`
	var id uuid.UUID
	if err := r.pool.QueryRow(ctx, query, b.Name, b.Slug, b.Description, b.WebsiteURL).Scan(&id); err != nil {
		return uuid.Nil, mapCatalogError(err, "create brand")
	}
	return id, nil
}

const selectBrandQuery = `
	SELECT id, name, slug, description, website_url, is_active, created_at, updated_at
	FROM brands`

func (r *postgresRepository) ListBrands(ctx context.Context) ([]*model.Brand, error) {
	rows, err := r.pool.Query(ctx, selectBrandQuery+` WHERE is_active = TRUE ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list brands: %w", err)
	}
	defer rows.Close()

	var out []*model.Brand
	for rows.Next() {
		var b model.Brand
		if err := rows.Scan(&b.ID, &b.Name, &b.Slug, &b.Description, &b.WebsiteURL,
			&b.IsActive, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan brand: %w", err)
		}
		out = append(out, &b)
	}
	return out, rows.Err()
}

func (r *postgresRepository) FindBrandBySlug(ctx context.Context, slug string) (*model.Brand, error) {
	var b model.Brand
	err := r.pool.QueryRow(ctx, selectBrandQuery+` WHERE slug = $1 AND is_active = TRUE`, slug).Scan(
		&b.ID, &b.Name, &b.Slug, &b.Description, &b.WebsiteURL, &b.IsActive, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrBrandNotFound
		}
		return nil, fmt.Errorf("find brand: %w", err)
	}
	return &b, nil
}

func (r *postgresRepository) UpdateBrand(ctx context.Context, b *model.Brand) error {
	query := `
		UPDATE brands
		SET name = $2, slug = $3, description = $4, website_url = $5, updated_at = NOW()
		WHERE id = $1 AND is_active = TRUE
	`
	tag, err := r.pool.Exec(ctx, query, b.ID, b.Name, b.Slug, b.Description, b.WebsiteURL)
	if err != nil {
		return mapCatalogError(err, "update brand")
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBrandNotFound
	}
	return nil
}

func (r *postgresRepository) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `UPDATE brands SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete brand: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBrandNotFound
	}
	return nil
}

// ========================================
// TAGS
// ========================================

func (r *postgresRepository) CreateTag(ctx context.Context, t *model.Tag) (uuid.UUID, error) {
	query := `
		INSERT INTO tags (name, slug, is_active, created_at, updated_at)
		VALUES ($1, $2, TRUE, NOW(), NOW())
		RETURNING id
	`
	var id uuid.UUID
	if err := r.pool.QueryRow(ctx, query, t.Name, t.Slug).Scan(&id); err != nil {
		return uuid.Nil, mapCatalogError(err, "create tag")
	}
	return id, nil
}

func (r *postgresRepository) ListTags(ctx context.Context) ([]*model.Tag, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, slug, is_active, created_at, updated_at FROM tags WHERE is_active = TRUE ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var out []*model.Tag
	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		out = append(out, &t)
	}
	return out, rows.Err()
}

func (r *postgresRepository) FindTagBySlug(ctx context.Context, slug string) (*model.Tag, error) {
	var t model.Tag
	err := r.pool.QueryRow(ctx,
		`SELECT id, name, slug, is_active, created_at, updated_at FROM tags WHERE slug = $1 AND is_active = TRUE`,
		slug).Scan(&t.ID, &t.Name, &t.Slug, &t.IsActive, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrTagNotFound
		}
		return nil, fmt.Errorf("find tag: %w", err)
	}
	return &t, nil
}

func (r *postgresRepository) DeleteTag(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `UPDATE tags SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrTagNotFound
	}
	return nil
}

// ========================================
// PRODUCTS
// ========================================

const selectProductColumns = `
	p.id, p.category_id, p.brand_id, p.name, p.slug, p.sku, p.description,
	p.price, p.compare_price, p.cost_price,
	p.quantity, p.low_stock_threshold, p.track_quantity, p.allow_backorders,
	p.weight, p.dimensions,
	p.is_featured, p.is_bestseller, p.is_new, p.is_active,
	p.created_at, p.updated_at`

func (r *postgresRepository) CreateProduct(ctx context.Context, p *model.Product) (uuid.UUID, error) {
	query := `
		INSERT INTO products (
			category_id, brand_id, name, slug, sku, description,
			price, compare_price, cost_price,
			quantity, low_stock_threshold, track_quantity, allow_backorders,
			weight, dimensions, is_featured, is_bestseller, is_new,
			is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, TRUE, NOW(), NOW())
		RETURNING id
	`
	var id uuid.UUID
	err := r.pool.QueryRow(ctx, query,
		p.CategoryID, p.BrandID, p.Name, p.Slug, p.SKU, p.Description,
		p.Price, p.ComparePrice, p.CostPrice,
		p.Quantity, p.LowStockThreshold, p.TrackQuantity, p.AllowBackorders,
		p.Weight, p.Dimensions, p.IsFeatured, p.IsBestseller, p.IsNew,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, mapCatalogError(err, "create product")
	}
	return id, nil
}

func (r *postgresRepository) ListProducts(ctx context.Context, filter model.ProductListFilter) ([]*model.Product, int64, error) {
	where := []string{"p.is_active = TRUE"}
	args := []interface{}{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.Query != "" {
		ph := arg("%" + filter.Query + "%")
		where = append(where, fmt.Sprintf("(p.name ILIKE %s OR p.description ILIKE %s)", ph, ph))
	}
	if filter.CategorySlug != "" {
		where = append(where, fmt.Sprintf(
			"p.category_id IN (SELECT id FROM categories WHERE slug = %s)", arg(filter.CategorySlug)))
	}
	if filter.BrandSlug != "" {
		where = append(where, fmt.Sprintf(
			"p.brand_id IN (SELECT id FROM brands WHERE slug = %s)", arg(filter.BrandSlug)))
	}
	if filter.TagSlug != "" {
		where = append(where, fmt.Sprintf(
			`p.id IN (SELECT pt.product_id FROM product_tags pt JOIN tags t ON t.id = pt.tag_id WHERE t.slug = %s)`,
			arg(filter.TagSlug)))
	}
	if filter.MinPrice != nil {
		where = append(where, fmt.Sprintf("p.price >= %s", arg(*filter.MinPrice)))
	}
	if filter.MaxPrice != nil {
		where = append(where, fmt.Sprintf("p.price <= %s", arg(*filter.MaxPrice)))
	}
	if filter.IsFeatured != nil {
		where = append(where, fmt.Sprintf("p.is_featured = %s", arg(*filter.IsFeatured)))
	}
	if filter.IsBestseller != nil {
		where = append(where, fmt.Sprintf("p.is_bestseller = %s", arg(*filter.IsBestseller)))
	}
	if filter.IsNew != nil {
		where = append(where, fmt.Sprintf("p.is_new = %s", arg(*filter.IsNew)))
	}
	if filter.InStock != nil {
		if *filter.InStock {
			where = append(where, "(NOT p.track_quantity OR p.quantity > 0)")
		} else {
			where = append(where, "(p.track_quantity AND p.quantity <= 0)")
		}
	}

	whereClause := strings.Join(where, " AND ")

	var total int64
	countQuery := `SELECT COUNT(*) FROM products p WHERE ` + whereClause
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count products: %w", err)
	}

	// OrderBy only ever yields allow-listed clauses, never client input.
	listQuery := fmt.Sprintf(`SELECT %s FROM products p WHERE %s ORDER BY p.%s LIMIT %s OFFSET %s`,
		selectProductColumns, whereClause, filter.OrderBy(), arg(filter.Limit()), arg(filter.Offset()))

	rows, err := r.pool.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var out []*model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, p)
	}
	return out, total, rows.Err()
}

func (r *postgresRepository) FindProductByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	p, err := scanProduct(r.pool.QueryRow(ctx,
		`SELECT `+selectProductColumns+` FROM products p WHERE p.id = $1 AND p.is_active = TRUE`, id))
	if err != nil {
		return nil, err
	}
	if err := r.loadTags(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (r *postgresRepository) FindProductBySlug(ctx context.Context, slug string) (*model.Product, error) {
	// Slug lookups serve the public detail page, worth caching.
	cacheKey := "product:slug:" + slug

	var cached model.Product
	if hit, err := r.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, nil
	}

	p, err := scanProduct(r.pool.QueryRow(ctx,
		`SELECT `+selectProductColumns+` FROM products p WHERE p.slug = $1 AND p.is_active = TRUE`, slug))
	if err != nil {
		return nil, err
	}
	if err := r.loadTags(ctx, p); err != nil {
		return nil, err
	}

	_ = r.cache.Set(ctx, cacheKey, p, productCacheTTL)
	return p, nil
}

func (r *postgresRepository) UpdateProduct(ctx context.Context, p *model.Product) error {
	query := `
		UPDATE products
		SET category_id = $2, brand_id = $3, name = $4, slug = $5, description = $6,
		    price = $7, compare_price = $8, cost_price = $9,
		    quantity = $10, low_stock_threshold = $11, track_quantity = $12, allow_backorders = $13,
		    weight = $14, dimensions = $15,
		    is_featured = $16, is_bestseller = $17, is_new = $18,
		    updated_at = NOW()
		WHERE id = $1 AND is_active = TRUE
	`
	tag, err := r.pool.Exec(ctx, query,
		p.ID, p.CategoryID, p.BrandID, p.Name, p.Slug, p.Description,
		p.Price, p.ComparePrice, p.CostPrice,
		p.Quantity, p.LowStockThreshold, p.TrackQuantity, p.AllowBackorders,
		p.Weight, p.Dimensions,
		p.IsFeatured, p.IsBestseller, p.IsNew,
	)
	if err != nil {
		return mapCatalogError(err, "update product")
	}
	if tag.RowsAffected() == 0 {
		return model.ErrProductNotFound
	}
	r.invalidateProduct(ctx, p.Slug)
	return nil
}

func (r *postgresRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	// Order history protection: a product referenced by any order item
	// must not disappear, even via soft delete.
	var referenced bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM order_items WHERE product_id = $1)`, id).Scan(&referenced)
	if err != nil {
		return fmt.Errorf("check product references: %w", err)
	}
	if referenced {
		return model.ErrProductProtected
	}

	var slug string
	err = r.pool.QueryRow(ctx,
		`UPDATE products SET is_active = FALSE, updated_at = NOW() WHERE id = $1 RETURNING slug`, id).Scan(&slug)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.ErrProductNotFound
		}
		return fmt.Errorf("delete product: %w", err)
	}
	r.invalidateProduct(ctx, slug)
	return nil
}

func (r *postgresRepository) ReplaceProductTags(ctx context.Context, productID uuid.UUID, tagIDs []uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM product_tags WHERE product_id = $1`, productID); err != nil {
		return fmt.Errorf("clear product tags: %w", err)
	}
	for _, tagID := range tagIDs {
		if _, err := r.pool.Exec(ctx,
			`INSERT INTO product_tags (product_id, tag_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			productID, tagID); err != nil {
			return fmt.Errorf("attach product tag: %w", err)
		}
	}
	return nil
}

func (r *postgresRepository) DecrementStock(ctx context.Context, tx pgx.Tx, productID uuid.UUID, qty int) error {
	query := `
		UPDATE products
		SET quantity = GREATEST(quantity - $2, 0), updated_at = NOW()
		WHERE id = $1 AND track_quantity = TRUE
	`
	var err error
	if tx != nil {
		_, err = tx.Exec(ctx, query, productID, qty)
	} else {
		_, err = r.pool.Exec(ctx, query, productID, qty)
	}
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	return nil
}

// ========================================
// HELPERS
// ========================================

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(
		&p.ID, &p.CategoryID, &p.BrandID, &p.Name, &p.Slug, &p.SKU, &p.Description,
		&p.Price, &p.ComparePrice, &p.CostPrice,
		&p.Quantity, &p.LowStockThreshold, &p.TrackQuantity, &p.AllowBackorders,
		&p.Weight, &p.Dimensions,
		&p.IsFeatured, &p.IsBestseller, &p.IsNew, &p.IsActive,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrProductNotFound
		}
		return nil, fmt.Errorf("scan product: %w", err)
	}
	return &p, nil
}

func (r *postgresRepository) loadTags(ctx context.Context, p *model.Product) error {
	rows, err := r.pool.Query(ctx, `
		SELECT t.id, t.name, t.slug, t.is_active, t.created_at, t.updated_at
		FROM tags t
		JOIN product_tags pt ON pt.tag_id = t.id
		WHERE pt.product_id = $1 AND t.is_active = TRUE
		ORDER BY t.name ASC`, p.ID)
	if err != nil {
		return fmt.Errorf("load product tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t model.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.Slug, &t.IsActive, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return fmt.Errorf("scan product tag: %w", err)
		}
		p.Tags = append(p.Tags, t)
	}
	return rows.Err()
}

func (r *postgresRepository) invalidateProduct(ctx context.Context, slug string) {
	if err := r.cache.Delete(ctx, "product:slug:"+slug); err != nil {
		logger.Error("failed to invalidate product cache", err)
	}
}

func mapCatalogError(err error, op string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		switch {
		case strings.Contains(pgErr.ConstraintName, "slug"):
			return model.ErrSlugTaken
		case strings.Contains(pgErr.ConstraintName, "sku"):
			return model.ErrSKUTaken
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}
