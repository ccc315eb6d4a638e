package handler

import (
	"net/http"
	"strings"

	"store_rating/internal/logger"
	"store_rating/internal/model"
	"store_rating/internal/service"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the administrator endpoints
type AdminHandler struct {
	service service.AdminService
	cascade service.CascadeManager
	log     *logger.Logger
}

// NewAdminHandler creates a new AdminHandler
func NewAdminHandler(s service.AdminService, cascade service.CascadeManager, log *logger.Logger) *AdminHandler {
	return &AdminHandler{service: s, cascade: cascade, log: log}
}

func (h *AdminHandler) Dashboard(c *gin.Context) {
	stats, err := h.service.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, h.log, err, "failed to load dashboard")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) CreateUser(c *gin.Context) {
	var req model.CreateUserRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.service.CreateUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err, "failed to create user")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "User created successfully", "user": user})
}

func (h *AdminHandler) CreateStore(c *gin.Context) {
	var req model.CreateStoreRequest
	if !bindJSON(c, &req) {
		return
	}

	store, owner, err := h.service.CreateStore(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.log, err, "failed to create store")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "Store created successfully",
		"store":   store,
		"owner":   owner,
	})
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	filters := model.UserFilters{
		Search: strings.TrimSpace(c.Query("search")),
		Role:   c.Query("role"),
		Sort:   parseSort(c, "name", "asc"),
		Page:   parsePage(c),
	}
	users, pagination, err := h.service.ListUsers(c.Request.Context(), filters)
	if err != nil {
		respondError(c, h.log, err, "failed to list users")
		return
	}
	if users == nil {
		users = []model.UserDetail{}
	}
	c.JSON(http.StatusOK, gin.H{
		"users":      users,
		"pagination": pagination.Render("totalUsers"),
	})
}

func (h *AdminHandler) ListStores(c *gin.Context) {
	filters := model.StoreFilters{
		Search:       strings.TrimSpace(c.Query("search")),
		IncludeEmail: true,
		Sort:         parseSort(c, "name", "asc"),
		Page:         parsePage(c),
	}
	stores, pagination, err := h.service.ListStores(c.Request.Context(), filters)
	if err != nil {
		respondError(c, h.log, err, "failed to list stores")
		return
	}
	if stores == nil {
		stores = []model.StoreWithOwner{}
	}
	c.JSON(http.StatusOK, gin.H{
		"stores":     stores,
		"pagination": pagination.Render("totalStores"),
	})
}

func (h *AdminHandler) GetUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	user, err := h.service.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.log, err, "failed to load user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

func (h *AdminHandler) GetStore(c *gin.Context) {
	storeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	store, recent, err := h.service.GetStore(c.Request.Context(), storeID)
	if err != nil {
		respondError(c, h.log, err, "failed to load store")
		return
	}
	if recent == nil {
		recent = []model.RatingWithUser{}
	}
	c.JSON(http.StatusOK, gin.H{"store": store, "recentRatings": recent})
}

// DeactivateUser soft-deletes a user and, for owners, their store
func (h *AdminHandler) DeactivateUser(c *gin.Context) {
	adminID, ok := mustAuthUserID(c)
	if !ok {
		return
	}
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.cascade.DeactivateUser(c.Request.Context(), adminID, userID); err != nil {
		respondError(c, h.log, err, "failed to deactivate user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User deactivated successfully"})
}

// DeactivateStore soft-deletes a store and its owner
func (h *AdminHandler) DeactivateStore(c *gin.Context) {
	adminID, ok := mustAuthUserID(c)
	if !ok {
		return
	}
	storeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.cascade.DeactivateStore(c.Request.Context(), adminID, storeID); err != nil {
		respondError(c, h.log, err, "failed to deactivate store")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Store deactivated successfully"})
}

// RegisterAdminRoutes registers the admin-only routes
func (h *AdminHandler) RegisterAdminRoutes(rg *gin.RouterGroup, authMW, adminMW gin.HandlerFunc) {
	adminGroup := rg.Group("/admin")
	adminGroup.Use(authMW, adminMW)
	{
		adminGroup.GET("/dashboard", h.Dashboard)
		adminGroup.POST("/users", h.CreateUser)
		adminGroup.POST("/stores", h.CreateStore)
		adminGroup.GET("/users", h.ListUsers)
		adminGroup.GET("/stores", h.ListStores)
		adminGroup.GET("/users/:id", h.GetUser)
		adminGroup.GET("/stores/:id", h.GetStore)
		adminGroup.DELETE("/users/:id", h.DeactivateUser)
		adminGroup.DELETE("/stores/:id", h.DeactivateStore)
	}
}
