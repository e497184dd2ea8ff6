package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	cartmodel "greencart-backend/internal/domains/cart/model"
	catalogmodel "greencart-backend/internal/domains/catalog/model"
	"greencart-backend/internal/domains/wishlist/model"
	"greencart-backend/internal/domains/wishlist/service"
	"greencart-backend/internal/shared/middleware"
	"greencart-backend/internal/shared/response"
	"greencart-backend/pkg/logger"
)

type WishlistHandler struct {
	service service.Service
}

func NewWishlistHandler(service service.Service) *WishlistHandler {
	return &WishlistHandler{service: service}
}

// GetMyWishlist handles GET /wishlist
func (h *WishlistHandler) GetMyWishlist(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	w, err := h.service.GetMyWishlist(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, w)
}

// GetPublicWishlist handles GET /wishlist/public/:user_id
func (h *WishlistHandler) GetPublicWishlist(c *gin.Context) {
	ownerID, err := uuid.Parse(c.Param("user_id"))
	if err != nil {
		response.BadRequest(c, "invalid user_id parameter")
		return
	}

	w, err := h.service.GetPublicWishlist(c.Request.Context(), ownerID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, w)
}

// SetVisibility handles PATCH /wishlist
func (h *WishlistHandler) SetVisibility(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.SetVisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	w, err := h.service.SetVisibility(c.Request.Context(), userID, req.IsPublic)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, w)
}

// AddItem handles POST /wishlist/items
func (h *WishlistHandler) AddItem(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	w, err := h.service.AddItem(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, w)
}

// RemoveItem handles DELETE /wishlist/items/:id
func (h *WishlistHandler) RemoveItem(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid id parameter")
		return
	}

	w, err := h.service.RemoveItem(c.Request.Context(), userID, itemID)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, w)
}

// MoveToCart handles POST /wishlist/items/:id/move-to-cart
func (h *WishlistHandler) MoveToCart(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	itemID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.BadRequest(c, "invalid id parameter")
		return
	}

	// Quantity is optional, default 1.
	var req model.MoveToCartRequest
	_ = c.ShouldBindJSON(&req)

	w, err := h.service.MoveToCart(c.Request.Context(), userID, itemID, req.Quantity)
	if err != nil {
		h.handleError(c, err)
		return
	}
	response.Success(c, http.StatusOK, w)
}

func (h *WishlistHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrWishlistNotFound),
		errors.Is(err, model.ErrWishlistItemNotFound),
		errors.Is(err, catalogmodel.ErrProductNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, model.ErrWishlistPrivate):
		response.Forbidden(c, err.Error())
	case errors.Is(err, model.ErrItemAlreadyPresent):
		response.Conflict(c, err.Error())
	case errors.Is(err, cartmodel.ErrInsufficientStock):
		response.BadRequest(c, err.Error())
	default:
		if _, ok := err.(validation.Errors); ok {
			response.BadRequest(c, err.Error())
			return
		}
		logger.Error("wishlist handler internal error", err)
		response.InternalServerError(c, "internal server error")
	}
}
