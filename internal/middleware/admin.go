package middleware

import (
	"credits_system/internal/account" // User lookups
	"net/http"                        // HTTP status codes
	"strings"                         // Case-insensitive comparison

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// AdminOnlyMiddleware checks on each request that the caller's stored email is the admin email
func AdminOnlyMiddleware(accounts *account.Service, adminEmail string) gin.HandlerFunc {
	adminEmail = strings.ToLower(strings.TrimSpace(adminEmail)) // Normalize once
	return func(c *gin.Context) {
		userID := c.GetString(UserIDKey) // Get userID from context
		// Check if userID exists in context
		if userID == "" {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "UNAUTHENTICATED"})
			return
		}
		// With no admin configured nobody is an admin
		if adminEmail == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "FORBIDDEN"})
			return
		}
		user, err := accounts.Get(c.Request.Context(), userID) // Fetch user from database
		if err != nil {
			// If user not found or any error, abort with forbidden status
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "FORBIDDEN"})
			return
		}
		// Check if user is the admin
		if user.Email != adminEmail {
			logrus.WithFields(logrus.Fields{
				"user_id": userID,       // Caller
				"path":    c.FullPath(), // Requested route
			}).Warn("Admin route refused")
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "FORBIDDEN"})
			return
		}
		// If admin, proceed to the next handler
		c.Next()
	}
}
