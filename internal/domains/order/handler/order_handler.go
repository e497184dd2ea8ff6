package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	cartmodel "greencart-backend/internal/domains/cart/model"
	catalogmodel "greencart-backend/internal/domains/catalog/model"
	"greencart-backend/internal/domains/order/model"
	"greencart-backend/internal/domains/order/service"
	usermodel "greencart-backend/internal/domains/user/model"
	"greencart-backend/internal/shared/middleware"
	"greencart-backend/internal/shared/response"
	"greencart-backend/pkg/logger"
)

type OrderHandler struct {
	service service.Service
}

func NewOrderHandler(service service.Service) *OrderHandler {
	return &OrderHandler{service: service}
}

// Create handles POST /orders/create
func (h *OrderHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	order, err := h.service.Create(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, order)
}

// List handles GET /orders
func (h *OrderHandler) List(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	orders, total, err := h.service.List(c.Request.Context(), userID, page, pageSize)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.SuccessWithMeta(c, http.StatusOK, orders, &response.Meta{
		Page:  page,
		Limit: pageSize,
		Total: int(total),
	})
}

// Get handles GET /orders/:id
func (h *OrderHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid id parameter")
		return
	}

	order, err := h.service.Get(c.Request.Context(), userID, middleware.IsAdmin(c), orderID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, order)
}

// Cancel handles POST /orders/:id/cancel
func (h *OrderHandler) Cancel(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid id parameter")
		return
	}

	order, err := h.service.Cancel(c.Request.Context(), userID, middleware.IsAdmin(c), orderID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, order)
}

// UpdateStatus handles PATCH /orders/:id/status (admin)
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid id parameter")
		return
	}

	var req model.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := req.Validate(); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	order, err := h.service.UpdateStatus(c.Request.Context(), orderID, req.Status)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, order)
}

func (h *OrderHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrOrderNotFound),
		errors.Is(err, catalogmodel.ErrProductNotFound),
		errors.Is(err, usermodel.ErrAddressNotFound),
		errors.Is(err, cartmodel.ErrCartNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, model.ErrOrderNotOwned):
		response.Forbidden(c, err.Error())
	case errors.Is(err, model.ErrNotCancellable),
		errors.Is(err, model.ErrInvalidTransition):
		response.Conflict(c, err.Error())
	case errors.Is(err, model.ErrEmptyOrder),
		errors.Is(err, cartmodel.ErrInsufficientStock):
		response.BadRequest(c, err.Error())
	default:
		if _, ok := err.(validation.Errors); ok {
			response.BadRequest(c, err.Error())
			return
		}
		logger.Error("order handler internal error", err)
		response.InternalServerError(c, "internal server error")
	}
}
