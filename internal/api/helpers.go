package api

import (
	"context" // Context for Redis operations
	"net/http"
	"strconv" // Query parsing

	"credits_system/internal/middleware" // Context keys
	"credits_system/internal/utils"      // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// currentUserID returns the authenticated user id, answering 401 when absent
func currentUserID(c *gin.Context) (string, bool) {
	userID := c.GetString(middleware.UserIDKey) // Set by JWTAuthMiddleware
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "UNAUTHENTICATED"})
		return "", false
	}
	return userID, true
}

// Paging bounds shared by every listing
const (
	maxPageSize = 100       // Largest page a client may ask for
	maxPage     = 1_000_000 // Keeps page*page_size far from int overflow
)

// pagination reads page and page_size with the same bounds everywhere
func pagination(c *gin.Context) (int, int) {
	page := 1      // Default page
	pageSize := 20 // Default page size
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = min(v, maxPage) // Set page if valid, capped
		}
	}
	if ps := c.Query("page_size"); ps != "" {
		if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= maxPageSize {
			pageSize = v // Set page size if valid
		}
	}
	return page, pageSize
}

// totalPages returns how many pages of pageSize hold total rows
func totalPages(total int64, pageSize int) int {
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

// invalidateUser drops cached balance and history after a ledger mutation
func invalidateUser(ctx context.Context, rdb *redis.Client, userID string) {
	if err := utils.InvalidateUser(ctx, rdb, userID); err != nil {
		// Stale entries expire on their own; log and move on
		logrus.WithFields(logrus.Fields{
			"user_id": userID,
			"error":   err.Error(),
		}).Warn("Cache invalidation failed")
	}
}

// internalError logs err and answers 500
func internalError(c *gin.Context, msg string, err error, fields logrus.Fields) {
	if fields == nil {
		fields = logrus.Fields{}
	}
	fields["error"] = err.Error()
	logrus.WithFields(fields).Error(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
