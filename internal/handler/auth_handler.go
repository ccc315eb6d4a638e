package handler

import (
	"net/http"

	"store_rating/internal/logger"
	"store_rating/internal/model"
	"store_rating/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication and account requests
type AuthHandler struct {
	service service.AuthService
	log     *logger.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{service: s, log: log}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err, "failed to register user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"token":   token,
		"user": gin.H{
			"id":    user.ID,
			"name":  user.Name,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, token, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.log, err, "failed to login")
		return
	}

	userResponse := gin.H{
		"id":      user.ID,
		"name":    user.Name,
		"email":   user.Email,
		"role":    user.Role,
		"address": user.Address,
	}
	if user.Role == model.RoleStoreOwner && user.Store != nil {
		userResponse["store"] = user.Store
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"token":   token,
		"user":    userResponse,
	})
}

func (h *AuthHandler) Profile(c *gin.Context) {
	userID, ok := mustAuthUserID(c)
	if !ok {
		return
	}

	user, err := h.service.Profile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err, "failed to load profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Logout is a stateless acknowledgement; the client discards its token
func (h *AuthHandler) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logout successful"})
}

func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	userID, ok := mustAuthUserID(c)
	if !ok {
		return
	}

	var req model.UpdatePasswordRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.service.UpdatePassword(c.Request.Context(), userID, req.CurrentPassword, req.NewPassword); err != nil {
		respondError(c, h.log, err, "failed to update password")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated successfully"})
}

// RegisterAuthRoutes registers auth and own-account routes
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup, authMW, loginLimitMW, signupLimitMW gin.HandlerFunc) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", signupLimitMW, h.Register)
		authGroup.POST("/login", loginLimitMW, h.Login)
		authGroup.GET("/profile", authMW, h.Profile)
		authGroup.POST("/logout", authMW, h.Logout)
	}

	userGroup := rg.Group("/users")
	userGroup.Use(authMW) // Any authenticated role may change its own password
	{
		userGroup.PUT("/password", h.UpdatePassword)
	}
}
