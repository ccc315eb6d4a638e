package handler

import (
	"net/http"
	"strings"

	"store_rating/internal/logger"
	"store_rating/internal/model"
	"store_rating/internal/service"

	"github.com/gin-gonic/gin"
)

// StoreHandler serves store browsing for normal users
type StoreHandler struct {
	service service.StoreService
	log     *logger.Logger
}

// NewStoreHandler creates a new StoreHandler
func NewStoreHandler(s service.StoreService, log *logger.Logger) *StoreHandler {
	return &StoreHandler{service: s, log: log}
}

func (h *StoreHandler) ListStores(c *gin.Context) {
	userID, ok := mustAuthUserID(c)
	if !ok {
		return
	}

	filters := model.StoreFilters{
		Search: strings.TrimSpace(c.Query("search")),
		Sort:   parseSort(c, "name", "asc"),
		Page:   parsePage(c),
	}
	stores, pagination, err := h.service.ListStores(c.Request.Context(), userID, filters)
	if err != nil {
		respondError(c, h.log, err, "failed to list stores")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"stores":     stores,
		"pagination": pagination.Render("totalStores"),
	})
}

func (h *StoreHandler) GetStore(c *gin.Context) {
	userID, ok := mustAuthUserID(c)
	if !ok {
		return
	}
	storeID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	store, err := h.service.GetStore(c.Request.Context(), userID, storeID)
	if err != nil {
		respondError(c, h.log, err, "failed to load store")
		return
	}
	c.JSON(http.StatusOK, gin.H{"store": store})
}

// RegisterStoreRoutes registers store browsing routes
func (h *StoreHandler) RegisterStoreRoutes(rg *gin.RouterGroup, authMW, userMW gin.HandlerFunc) {
	storeGroup := rg.Group("/stores")
	storeGroup.Use(authMW, userMW)
	{
		storeGroup.GET("", h.ListStores)
		storeGroup.GET("/:id", h.GetStore)
	}
}
