package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	ordermodel "greencart-backend/internal/domains/order/model"
	"greencart-backend/internal/domains/review/model"
	"greencart-backend/internal/domains/review/service"
	"greencart-backend/internal/shared/middleware"
	"greencart-backend/internal/shared/response"
	"greencart-backend/pkg/logger"
)

type ReviewHandler struct {
	service service.Service
}

func NewReviewHandler(service service.Service) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// Create handles POST /reviews
func (h *ReviewHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	review, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, review)
}

// ListByProduct handles GET /reviews?product_id=...
func (h *ReviewHandler) ListByProduct(c *gin.Context) {
	productID, err := uuid.Parse(c.Query("product_id"))
	if err != nil {
		response.BadRequest(c, "invalid product_id parameter")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	reviews, total, err := h.service.ListByProduct(c.Request.Context(), productID, middleware.IsAdmin(c), page, pageSize)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.SuccessWithMeta(c, http.StatusOK, reviews, &response.Meta{
		Page:  page,
		Limit: pageSize,
		Total: int(total),
	})
}

// ListMine handles GET /reviews/me
func (h *ReviewHandler) ListMine(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	reviews, err := h.service.ListMine(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, reviews)
}

// Get handles GET /reviews/:id
func (h *ReviewHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid id parameter")
		return
	}

	review, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, review)
}

// Update handles PATCH /reviews/:id
func (h *ReviewHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid id parameter")
		return
	}

	var req model.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	review, err := h.service.Update(c.Request.Context(), userID, id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, review)
}

// Approve handles POST /reviews/:id/approve (admin)
func (h *ReviewHandler) Approve(c *gin.Context) {
	h.moderate(c, h.service.Approve)
}

// Reject handles POST /reviews/:id/reject (admin)
func (h *ReviewHandler) Reject(c *gin.Context) {
	h.moderate(c, h.service.Reject)
}

func (h *ReviewHandler) moderate(c *gin.Context, fn func(ctx context.Context, id uuid.UUID) (*model.Review, error)) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid id parameter")
		return
	}

	review, err := fn(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, review)
}

// MarkHelpful handles POST /reviews/:id/mark-helpful
func (h *ReviewHandler) MarkHelpful(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid id parameter")
		return
	}

	review, err := h.service.MarkHelpful(c.Request.Context(), userID, id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, review)
}

func (h *ReviewHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrReviewNotFound),
		errors.Is(err, ordermodel.ErrOrderNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, model.ErrReviewNotOwned),
		errors.Is(err, ordermodel.ErrOrderNotOwned):
		response.Forbidden(c, err.Error())
	case errors.Is(err, model.ErrAlreadyReviewed),
		errors.Is(err, model.ErrNotPending),
		errors.Is(err, model.ErrAlreadyModerated),
		errors.Is(err, model.ErrDuplicateHelpful):
		response.Conflict(c, err.Error())
	case errors.Is(err, model.ErrNotApproved),
		errors.Is(err, model.ErrOrderProductMissing):
		response.BadRequest(c, err.Error())
	default:
		if _, ok := err.(validation.Errors); ok {
			response.BadRequest(c, err.Error())
			return
		}
		logger.Error("review handler internal error", err)
		response.InternalServerError(c, "internal server error")
	}
}
