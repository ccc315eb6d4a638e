package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"store_rating/internal/logger"
	"store_rating/internal/middleware"
	"store_rating/internal/model"
	"store_rating/internal/service"
	"store_rating/internal/utils"

	"github.com/gin-gonic/gin"
)

// Helper to get authenticated user ID from context
func getAuthUserID(c *gin.Context) (int, error) {
	userIDVal, exists := c.Get(middleware.AuthUserKey)
	if !exists {
		return 0, errors.New("user ID not found in context")
	}
	userID, ok := userIDVal.(int)
	if !ok {
		return 0, errors.New("invalid user ID type in context")
	}
	return userID, nil
}

// mustAuthUserID writes a 401 and returns false when the request carries no identity
func mustAuthUserID(c *gin.Context) (int, bool) {
	userID, err := getAuthUserID(c)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Authentication required"})
		return 0, false
	}
	return userID, true
}

func parseIDParam(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"message": service.ErrInvalidID.Error()})
		return 0, false
	}
	return id, true
}

// bindJSON binds the request body, writing a 400 with per-field details on failure
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Validation error",
			"details": utils.ValidationMessages(err),
		})
		return false
	}
	return true
}

// parsePage reads page and limit, clamping them to sane bounds
func parsePage(c *gin.Context) model.Page {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(model.DefaultPageLimit)))
	if err != nil || limit < 1 {
		limit = model.DefaultPageLimit
	}
	if limit > model.MaxPageLimit {
		limit = model.MaxPageLimit
	}
	return model.Page{Number: page, Limit: limit}
}

// parseSort reads sortBy and sortOrder; unknown fields are resolved by the repository whitelist
func parseSort(c *gin.Context, defaultField, defaultOrder string) model.Sort {
	return model.Sort{
		Field: c.DefaultQuery("sortBy", defaultField),
		Desc:  strings.EqualFold(c.DefaultQuery("sortOrder", defaultOrder), "desc"),
	}
}

// respondError maps service errors to status codes. Anything without a kind is
// logged and reported as a generic 500 so storage details never leak.
func respondError(c *gin.Context, log *logger.Logger, err error, action string) {
	var status int
	switch service.KindOf(err) {
	case service.KindInvalidInput:
		status = http.StatusBadRequest
	case service.KindUnauthenticated:
		status = http.StatusUnauthorized
	case service.KindForbidden:
		status = http.StatusForbidden
	case service.KindNotFound:
		status = http.StatusNotFound
	case service.KindConflict:
		status = http.StatusConflict
	default:
		log.Error(action, "error", err, "request_id", c.GetString(middleware.RequestIDKey))
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Internal server error"})
		return
	}
	var appErr *service.Error
	errors.As(err, &appErr)
	c.JSON(status, gin.H{"message": appErr.Message})
}
