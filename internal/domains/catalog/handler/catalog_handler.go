package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/shopspring/decimal"

	"greencart-backend/internal/domains/catalog/model"
	"greencart-backend/internal/domains/catalog/service"
	"greencart-backend/internal/shared/response"
	"greencart-backend/pkg/logger"
)

type CatalogHandler struct {
	service service.Service
}

func NewCatalogHandler(service service.Service) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// ========================================
// CATEGORY ENDPOINTS
// ========================================

// ListCategories handles GET /catalog/categories
func (h *CatalogHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, categories)
}

// GetCategory handles GET /catalog/categories/:slug
func (h *CatalogHandler) GetCategory(c *gin.Context) {
	category, err := h.service.GetCategory(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, category)
}

// CreateCategory handles POST /catalog/categories (admin)
func (h *CatalogHandler) CreateCategory(c *gin.Context) {
	var req model.CategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}

	category, err := h.service.CreateCategory(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, category)
}

// UpdateCategory handles PUT /catalog/categories/:slug (admin)
func (h *CatalogHandler) UpdateCategory(c *gin.Context) {
	var req model.CategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}

	category, err := h.service.UpdateCategory(c.Request.Context(), c.Param("slug"), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, category)
}

// DeleteCategory handles DELETE /catalog/categories/:slug (admin)
func (h *CatalogHandler) DeleteCategory(c *gin.Context) {
	if err := h.service.DeleteCategory(c.Request.Context(), c.Param("slug")); err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "category deleted"})
}

// ========================================
// BRAND ENDPOINTS
// ========================================

// ListBrands handles GET /catalog/brands
func (h *CatalogHandler) ListBrands(c *gin.Context) {
	brands, err := h.service.ListBrands(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, brands)
}

// GetBrand handles GET /catalog/brands/:slug
func (h *CatalogHandler) GetBrand(c *gin.Context) {
	brand, err := h.service.GetBrand(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, brand)
}

// CreateBrand handles POST /catalog/brands (admin)
func (h *CatalogHandler) CreateBrand(c *gin.Context) {
	var req model.BrandRequest
	if !bindAndValidate(c, &req) {
		return
	}

	brand, err := h.service.CreateBrand(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, brand)
}

// UpdateBrand handles PUT /catalog/brands/:slug (admin)
func (h *CatalogHandler) UpdateBrand(c *gin.Context) {
	var req model.BrandRequest
	if !bindAndValidate(c, &req) {
		return
	}

	brand, err := h.service.UpdateBrand(c.Request.Context(), c.Param("slug"), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, brand)
}

// DeleteBrand handles DELETE /catalog/brands/:slug (admin)
func (h *CatalogHandler) DeleteBrand(c *gin.Context) {
	if err := h.service.DeleteBrand(c.Request.Context(), c.Param("slug")); err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "brand deleted"})
}

// ========================================
// TAG ENDPOINTS
// ========================================

// ListTags handles GET /catalog/tags
func (h *CatalogHandler) ListTags(c *gin.Context) {
	tags, err := h.service.ListTags(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, tags)
}

// CreateTag handles POST /catalog/tags (admin)
func (h *CatalogHandler) CreateTag(c *gin.Context) {
	var req model.TagRequest
	if !bindAndValidate(c, &req) {
		return
	}

	tag, err := h.service.CreateTag(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, tag)
}

// DeleteTag handles DELETE /catalog/tags/:slug (admin)
func (h *CatalogHandler) DeleteTag(c *gin.Context) {
	if err := h.service.DeleteTag(c.Request.Context(), c.Param("slug")); err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "tag deleted"})
}

// ========================================
// PRODUCT ENDPOINTS
// ========================================

// ListProducts handles GET /catalog/products with query filters.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	filter := parseProductFilter(c)

	products, total, err := h.service.ListProducts(c.Request.Context(), filter)
	if err != nil {
		h.handleError(c, err)
		return
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	response.SuccessWithMeta(c, http.StatusOK, products, &response.Meta{
		Page:  page,
		Limit: filter.Limit(),
		Total: int(total),
	})
}

// GetProduct handles GET /catalog/products/:slug
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	product, err := h.service.GetProduct(c.Request.Context(), c.Param("slug"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, product)
}

// CreateProduct handles POST /catalog/products (admin)
func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	var req model.ProductRequest
	if !bindAndValidate(c, &req) {
		return
	}

	product, err := h.service.CreateProduct(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, product)
}

// UpdateProduct handles PUT /catalog/products/:slug (admin)
func (h *CatalogHandler) UpdateProduct(c *gin.Context) {
	var req model.ProductRequest
	if !bindAndValidate(c, &req) {
		return
	}

	product, err := h.service.UpdateProduct(c.Request.Context(), c.Param("slug"), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, product)
}

// DeleteProduct handles DELETE /catalog/products/:slug (admin)
func (h *CatalogHandler) DeleteProduct(c *gin.Context) {
	if err := h.service.DeleteProduct(c.Request.Context(), c.Param("slug")); err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"message": "product deleted"})
}

// ========================================
// HELPERS
// ========================================

func parseProductFilter(c *gin.Context) model.ProductListFilter {
	filter := model.ProductListFilter{
		Query:        c.Query("q"),
		CategorySlug: c.Query("category"),
		BrandSlug:    c.Query("brand"),
		TagSlug:      c.Query("tag"),
		Ordering:     c.Query("ordering"),
	}

	if v, err := decimal.NewFromString(c.Query("min_price")); err == nil {
		filter.MinPrice = &v
	}
	if v, err := decimal.NewFromString(c.Query("max_price")); err == nil {
		filter.MaxPrice = &v
	}
	filter.IsFeatured = parseBoolQuery(c, "is_featured")
	filter.IsBestseller = parseBoolQuery(c, "is_bestseller")
	filter.IsNew = parseBoolQuery(c, "is_new")
	filter.InStock = parseBoolQuery(c, "in_stock")

	if v, err := strconv.Atoi(c.Query("page")); err == nil {
		filter.Page = v
	}
	if v, err := strconv.Atoi(c.Query("page_size")); err == nil {
		filter.PageSize = v
	}
	return filter
}

func parseBoolQuery(c *gin.Context, name string) *bool {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}

type validatable interface {
	Validate() error
}

func bindAndValidate(c *gin.Context, req validatable) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.BadRequest(c, "invalid request body")
		return false
	}
	if err := req.Validate(); err != nil {
		var verrs validation.Errors
		if errors.As(err, &verrs) {
			response.ErrorWithDetails(c, http.StatusBadRequest, "VAL_001", "validation failed", verrs)
		} else {
			response.BadRequest(c, err.Error())
		}
		return false
	}
	return true
}

func (h *CatalogHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrCategoryNotFound),
		errors.Is(err, model.ErrBrandNotFound),
		errors.Is(err, model.ErrTagNotFound),
		errors.Is(err, model.ErrProductNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, model.ErrSlugTaken),
		errors.Is(err, model.ErrSKUTaken),
		errors.Is(err, model.ErrProductProtected),
		errors.Is(err, model.ErrCategoryNotEmpty):
		response.Conflict(c, err.Error())
	default:
		if _, ok := err.(validation.Errors); ok {
			response.BadRequest(c, err.Error())
			return
		}
		logger.Error("catalog handler internal error", err)
		response.InternalServerError(c, "internal server error")
	}
}
