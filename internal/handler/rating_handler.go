package handler

import (
	"net/http"

	"store_rating/internal/logger"
	"store_rating/internal/model"
	"store_rating/internal/service"

	"github.com/gin-gonic/gin"
)

// RatingHandler handles rating submissions and store-owner feedback views
type RatingHandler struct {
	service service.RatingService
	log     *logger.Logger
}

// NewRatingHandler creates a new RatingHandler
func NewRatingHandler(s service.RatingService, log *logger.Logger) *RatingHandler {
	return &RatingHandler{service: s, log: log}
}

// SubmitRating creates the caller's rating for a store (201) or updates it (200)
func (h *RatingHandler) SubmitRating(c *gin.Context) {
	userID, ok := mustAuthUserID(c)
	if !ok {
		return
	}

	var req model.SubmitRatingRequest
	if !bindJSON(c, &req) {
		return
	}

	rating, created, err := h.service.SubmitRating(c.Request.Context(), userID, req)
	if err != nil {
		respondError(c, h.log, err, "failed to submit rating")
		return
	}

	if created {
		c.JSON(http.StatusCreated, gin.H{"message": "Rating submitted successfully", "rating": rating})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rating updated successfully", "rating": rating})
}

func (h *RatingHandler) DeleteRating(c *gin.Context) {
	userID, ok := mustAuthUserID(c)
	if !ok {
		return
	}
	storeID, ok := parseIDParam(c, "storeId")
	if !ok {
		return
	}

	if err := h.service.DeleteRating(c.Request.Context(), userID, storeID); err != nil {
		respondError(c, h.log, err, "failed to delete rating")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Rating deleted successfully"})
}

// StoreRatings lists the ratings of the caller's own store
func (h *RatingHandler) StoreRatings(c *gin.Context) {
	userID, ok := mustAuthUserID(c)
	if !ok {
		return
	}

	store, ratings, pagination, err := h.service.StoreRatingsForOwner(c.Request.Context(), userID,
		parseSort(c, "createdAt", "desc"), parsePage(c))
	if err != nil {
		respondError(c, h.log, err, "failed to load store ratings")
		return
	}
	if ratings == nil {
		ratings = []model.RatingWithUser{}
	}

	c.JSON(http.StatusOK, gin.H{
		"store":      store,
		"ratings":    ratings,
		"pagination": pagination.Render("totalRatings"),
	})
}

// RegisterRatingRoutes registers rating routes
func (h *RatingHandler) RegisterRatingRoutes(rg *gin.RouterGroup, authMW, userMW, storeOwnerMW gin.HandlerFunc) {
	ratingGroup := rg.Group("/ratings")
	ratingGroup.Use(authMW)
	{
		ratingGroup.POST("", userMW, h.SubmitRating)
		ratingGroup.GET("/store-ratings", storeOwnerMW, h.StoreRatings)
		ratingGroup.DELETE("/:storeId", userMW, h.DeleteRating)
	}
}
