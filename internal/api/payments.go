package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes

	"credits_system/internal/account" // User lookups
	"credits_system/internal/domain"  // Payment statuses
	"credits_system/internal/ledger"  // Credit ledger

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"golang.org/x/crypto/bcrypt"   // Secret verification
)

// WebhookSecretHeader carries the shared secret of the payment provider
const WebhookSecretHeader = "X-Webhook-Secret"

// PaymentWebhookRequest is the purchase notification sent by the payment provider
type PaymentWebhookRequest struct {
	Email       string `json:"email" binding:"required"`       // Buyer email
	ExternalRef string `json:"externalRef" binding:"required"` // Provider order id
	Status      string `json:"status" binding:"required"`      // PENDING, PAID or FAILED
}

// PaymentWebhookHandler credits confirmed purchases once per provider reference
func PaymentWebhookHandler(accounts *account.Service, l *ledger.Ledger, rdb *redis.Client, secretHash string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// The webhook stays closed until a secret is configured
		if secretHash == "" {
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "WEBHOOK_DISABLED"})
			return
		}
		secret := c.GetHeader(WebhookSecretHeader) // Shared secret from the provider
		if secret == "" || bcrypt.CompareHashAndPassword([]byte(secretHash), []byte(secret)) != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "UNAUTHENTICATED"})
			return
		}
		var req PaymentWebhookRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_REQUEST"})
			return
		}
		// Only confirmed purchases move credits
		if domain.PaymentStatus(req.Status) != domain.PaymentPaid {
			logrus.WithFields(logrus.Fields{
				"external_ref": req.ExternalRef, // Provider reference
				"status":       req.Status,      // Reported status
			}).Info("Payment notification ignored")
			c.JSON(http.StatusOK, gin.H{"ok": true, "granted": false})
			return
		}
		ctx := c.Request.Context()
		user, err := accounts.FindByEmail(ctx, req.Email) // Find the buyer
		if errors.Is(err, account.ErrUserNotFound) || errors.Is(err, account.ErrMissingEmail) {
			c.JSON(http.StatusNotFound, gin.H{"error": "USER_NOT_FOUND"})
			return
		}
		if err != nil {
			internalError(c, "WEBHOOK_FAILED", err, logrus.Fields{"external_ref": req.ExternalRef})
			return
		}
		granted, err := grantPurchase(ctx, l, rdb, user.ID, req.ExternalRef)
		if errors.Is(err, errGrantInProgress) {
			// The provider retries on non-2xx
			c.JSON(http.StatusConflict, gin.H{"error": "GRANT_IN_PROGRESS"})
			return
		}
		if err != nil {
			internalError(c, "WEBHOOK_FAILED", err, logrus.Fields{"external_ref": req.ExternalRef})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "granted": granted})
	}
}
