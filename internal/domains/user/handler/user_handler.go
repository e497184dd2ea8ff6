package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"greencart-backend/internal/domains/user/model"
	"greencart-backend/internal/domains/user/service"
	"greencart-backend/internal/shared/middleware"
	"greencart-backend/internal/shared/response"
	"greencart-backend/pkg/logger"
)

// UserHandler is stateless, it only holds dependencies.
type UserHandler struct {
	service service.Service
}

func NewUserHandler(service service.Service) *UserHandler {
	return &UserHandler{service: service}
}

// ========================================
// AUTHENTICATION ENDPOINTS
// ========================================

// Register handles POST /users/register
func (h *UserHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	auth, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, auth)
}

// Login handles POST /users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	auth, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, auth)
}

// RefreshToken handles POST /users/refresh-token
func (h *UserHandler) RefreshToken(c *gin.Context) {
	var req model.RefreshTokenRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	auth, err := h.service.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, auth)
}

// VerifyEmail handles GET /users/verify_email?token=...
func (h *UserHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.BadRequest(c, "token query parameter is required")
		return
	}

	if err := h.service.VerifyEmail(c.Request.Context(), token); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "email verified"})
}

// ========================================
// PROFILE ENDPOINTS
// ========================================

// GetProfile handles GET /users/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	profile, err := h.service.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, profile)
}

// UpdateProfile handles PATCH /users/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.UpdateProfileRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	profile, err := h.service.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, profile)
}

// ========================================
// ADDRESS ENDPOINTS
// ========================================

// CreateAddress handles POST /users/addresses
func (h *UserHandler) CreateAddress(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	var req model.AddressRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	address, err := h.service.CreateAddress(c.Request.Context(), userID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, address)
}

// ListAddresses handles GET /users/addresses
func (h *UserHandler) ListAddresses(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	addresses, err := h.service.ListAddresses(c.Request.Context(), userID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, addresses)
}

// UpdateAddress handles PUT /users/addresses/:id
func (h *UserHandler) UpdateAddress(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	addressID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req model.AddressRequest
	if !h.bindAndValidate(c, &req) {
		return
	}

	address, err := h.service.UpdateAddress(c.Request.Context(), userID, addressID, req)
	if err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, address)
}

// DeleteAddress handles DELETE /users/addresses/:id
func (h *UserHandler) DeleteAddress(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	addressID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.DeleteAddress(c.Request.Context(), userID, addressID); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "address deleted"})
}

// SetDefaultAddress handles POST /users/addresses/:id/set-default
func (h *UserHandler) SetDefaultAddress(c *gin.Context) {
	userID, ok := middleware.GetAuthenticatedUserID(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
		return
	}

	addressID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.SetDefaultAddress(c.Request.Context(), userID, addressID); err != nil {
		h.handleError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"message": "default address updated"})
}

// ========================================
// HELPERS
// ========================================

type validatable interface {
	Validate() error
}

func (h *UserHandler) bindAndValidate(c *gin.Context, req validatable) bool {
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

func (h *UserHandler) parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.BadRequest(c, "invalid "+name+" parameter")
		return uuid.Nil, false
	}
	return id, true
}

func (h *UserHandler) handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, model.ErrEmailTaken):
		response.Conflict(c, err.Error())
	case errors.Is(err, model.ErrInvalidCredentials), errors.Is(err, model.ErrUnauthorized):
		response.Unauthorized(c, err.Error())
	case errors.Is(err, model.ErrAccountDisabled):
		response.Forbidden(c, err.Error())
	case errors.Is(err, model.ErrUserNotFound), errors.Is(err, model.ErrAddressNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, model.ErrAddressNotOwned):
		response.Forbidden(c, err.Error())
	case errors.Is(err, model.ErrInvalidVerifyToken), errors.Is(err, model.ErrAlreadyVerified):
		response.BadRequest(c, err.Error())
	default:
		if _, ok := err.(validation.Errors); ok {
			response.BadRequest(c, err.Error())
			return
		}
		logger.Error("user handler internal error", err)
		response.InternalServerError(c, "internal server error")
	}
}
