package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appidentity "github.com/newsbrief/backend/internal/application/identity"
	"github.com/newsbrief/backend/internal/interfaces/http/dto"
	"github.com/newsbrief/backend/internal/interfaces/http/middleware"
)

// AuthService is the application surface the auth endpoints depend on
type AuthService interface {
	Register(ctx context.Context, input appidentity.RegisterInput) (*appidentity.AuthResult, error)
	Login(ctx context.Context, input appidentity.LoginInput) (*appidentity.AuthResult, error)
	Refresh(ctx context.Context, input appidentity.RefreshInput) (*appidentity.AuthResult, error)
	CurrentUser(ctx context.Context, userID uuid.UUID) (*appidentity.UserInfo, error)
}

// AuthHandler handles registration and authentication endpoints
type AuthHandler struct {
	BaseHandler
	auth       AuthService
	requireJWT gin.HandlerFunc
}

// NewAuthHandler creates a new AuthHandler. requireJWT guards the
// routes that need an authenticated caller.
func NewAuthHandler(auth AuthService, requireJWT gin.HandlerFunc) *AuthHandler {
	return &AuthHandler{auth: auth, requireJWT: requireJWT}
}

// RegisterRoutes registers auth routes on the given group
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/register", h.PostRegister)
		auth.POST("/login", h.PostLogin)
		auth.POST("/refresh", h.PostRefresh)
		auth.GET("/me", h.requireJWT, h.GetMe)
	}
}

// PostRegister creates a new account
func (h *AuthHandler) PostRegister(c *gin.Context) {
	var input appidentity.RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.auth.Register(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// PostLogin authenticates a user
func (h *AuthHandler) PostLogin(c *gin.Context) {
	var input appidentity.LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.auth.Login(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// PostRefresh exchanges a refresh token for a new pair
func (h *AuthHandler) PostRefresh(c *gin.Context) {
	var input appidentity.RefreshInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.auth.Refresh(c.Request.Context(), input)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// GetMe returns the profile of the authenticated user
func (h *AuthHandler) GetMe(c *gin.Context) {
	userID, err := uuid.Parse(middleware.GetJWTUserID(c))
	if err != nil {
		h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
		return
	}

	info, err := h.auth.CurrentUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, info)
}
