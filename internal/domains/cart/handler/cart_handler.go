package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"greencart-backend/internal/domains/cart/model"
	"greencart-backend/internal/domains/cart/service"
	catalogmodel "greencart-backend/internal/domains/catalog/model"
	"greencart-backend/internal/shared/middleware"
	"greencart-backend/internal/shared/response"
	"greencart-backend/pkg/logger"
)

type CartHandler struct {
	service service.Service
}

func NewCartHandler(service service.Service) *CartHandler {
	return &CartHandler{service: service}
}

// GetMyCart handles GET /carts/my-cart
func (h *CartHandler) GetMyCart(c *gin.Context) {
	owner, ok := h.resolveOwner(c)
	if !ok {
		return
	}

	cart, err := h.service.GetMyCart(c.Request.Context(), owner)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, cart)
}

// AddItem handles POST /carts/my-cart/add-item
func (h *CartHandler) AddItem(c *gin.Context) {
	owner, ok := h.resolveOwner(c)
	if !ok {
		return
	}

	var req model.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	cart, err := h.service.AddItem(c.Request.Context(), owner, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, cart)
}

// UpdateQuantity handles POST /carts/my-cart/update-quantity
func (h *CartHandler) UpdateQuantity(c *gin.Context) {
	owner, ok := h.resolveOwner(c)
	if !ok {
		return
	}

	var req model.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	cart, err := h.service.UpdateItemQuantity(c.Request.Context(), owner, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, cart)
}

// RemoveItem handles POST /carts/my-cart/remove-item
func (h *CartHandler) RemoveItem(c *gin.Context) {
	owner, ok := h.resolveOwner(c)
	if !ok {
		return
	}

	var req struct {
		ProductID uuid.UUID `json:"product_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.ProductID == uuid.Nil {
		response.BadRequest(c, "product_id is required")
		return
	}

	cart, err := h.service.RemoveItem(c.Request.Context(), owner, req.ProductID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, cart)
}

// Clear handles POST /carts/my-cart/clear
func (h *CartHandler) Clear(c *gin.Context) {
	owner, ok := h.resolveOwner(c)
	if !ok {
		return
	}

	cart, err := h.service.Clear(c.Request.Context(), owner)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, cart)
}

// resolveOwner prefers the authenticated user, falling back to the
// anonymous session key.
func (h *CartHandler) resolveOwner(c *gin.Context) (model.Owner, bool) {
	if userID, ok := middleware.GetAuthenticatedUserID(c); ok {
		return model.OwnerForUser(userID), true
	}
	if sessionID := middleware.GetSessionID(c); sessionID != "" {
		return model.OwnerForSession(sessionID), true
	}
	response.Unauthorized(c, "no user or session identity")
	return model.Owner{}, false
}

func (h *CartHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, catalogmodel.ErrProductNotFound),
		errors.Is(err, model.ErrCartNotFound),
		errors.Is(err, model.ErrCartItemNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, model.ErrInsufficientStock),
		errors.Is(err, model.ErrInvalidQuantity),
		errors.Is(err, model.ErrInvalidOwner):
		response.BadRequest(c, err.Error())
	default:
		if _, ok := err.(validation.Errors); ok {
			response.BadRequest(c, err.Error())
			return
		}
		logger.Error("cart handler internal error", err)
		response.InternalServerError(c, "internal server error")
	}
}
