package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	ordermodel "greencart-backend/internal/domains/order/model"
	"greencart-backend/internal/domains/promotion/model"
	"greencart-backend/internal/domains/promotion/service"
	"greencart-backend/internal/shared/middleware"
	"greencart-backend/internal/shared/response"
	"greencart-backend/pkg/logger"
)

type PromotionHandler struct {
	service service.Service
}

func NewPromotionHandler(service service.Service) *PromotionHandler {
	return &PromotionHandler{service: service}
}

// List handles GET /promotions. Non-admin callers only see promotions
// that are live right now.
func (h *PromotionHandler) List(c *gin.Context) {
	activeOnly := !middleware.IsAdmin(c) || c.Query("active") == "true"

	promos, err := h.service.List(c.Request.Context(), activeOnly)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, promos)
}

// Get handles GET /promotions/:id
func (h *PromotionHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid id parameter")
		return
	}

	promo, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, promo)
}

// Create handles POST /promotions (admin)
func (h *PromotionHandler) Create(c *gin.Context) {
	var req model.PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	promo, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, promo)
}

// Update handles PUT /promotions/:id (admin)
func (h *PromotionHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid id parameter")
		return
	}

	var req model.PromotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	promo, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, promo)
}

// Delete handles DELETE /promotions/:id (admin)
func (h *PromotionHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid id parameter")
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

// Apply handles POST /promotions/apply
func (h *PromotionHandler) Apply(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	result, err := h.service.Apply(c.Request.Context(), userID, middleware.IsAdmin(c), req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, result)
}

func (h *PromotionHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrPromotionNotFound),
		errors.Is(err, ordermodel.ErrOrderNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, ordermodel.ErrOrderNotOwned):
		response.Forbidden(c, err.Error())
	case errors.Is(err, model.ErrCouponCodeTaken),
		errors.Is(err, model.ErrAlreadyApplied),
		errors.Is(err, model.ErrUsageLimitReached):
		response.Conflict(c, err.Error())
	case errors.Is(err, model.ErrNotApplicable),
		errors.Is(err, model.ErrPromotionExpired),
		errors.Is(err, model.ErrEmptyScopeSet):
		response.BadRequest(c, err.Error())
	default:
		if _, ok := err.(validation.Errors); ok {
			response.BadRequest(c, err.Error())
			return
		}
		var vErr validation.Error
		if errors.As(err, &vErr) {
			response.BadRequest(c, err.Error())
			return
		}
		logger.Error("promotion handler internal error", err)
		response.InternalServerError(c, "internal server error")
	}
}
