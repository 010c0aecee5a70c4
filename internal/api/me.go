package api

import (
	"context"  // Context for Redis operations
	"errors"   // Error matching
	"net/http" // HTTP status codes
	"time"     // Cache TTL

	"credits_system/internal/account" // User lookups
	"credits_system/internal/config"  // Public settings
	"credits_system/internal/ledger"  // Credit ledger
	"credits_system/internal/utils"   // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
)

// balanceTTL bounds how long a cached balance may be served
const balanceTTL = 60 * time.Second

// MeUser is the public part of the caller's profile
type MeUser struct {
	ID    string `json:"id"`    // User ID
	Name  string `json:"name"`  // Display name
	Email string `json:"email"` // Email
	Image string `json:"image"` // Avatar
}

// MeResponse summarizes the caller's account for the dashboard
type MeResponse struct {
	User        MeUser `json:"user"`        // Profile
	Credits     int64  `json:"credits"`     // Wallet balance
	IsPro       bool   `json:"isPro"`       // Has at least one paid purchase
	CheckoutURL string `json:"checkoutUrl"` // Where to buy credits
	AdminEmail  string `json:"adminEmail"`  // Contact for manual grants
}

// MeHandler returns the caller's profile, credits and entitlement
func MeHandler(accounts *account.Service, l *ledger.Ledger, rdb *redis.Client, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Get userID from context
		if !ok {
			return
		}
		ctx := c.Request.Context()
		user, err := accounts.Get(ctx, userID) // Load the profile
		if errors.Is(err, account.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "USER_NOT_FOUND"})
			return
		}
		if err != nil {
			internalError(c, "ME_FAILED", err, nil)
			return
		}
		credits, err := cachedBalance(ctx, l, rdb, userID) // Balance, cache first
		if err != nil && !errors.Is(err, ledger.ErrWalletNotFound) {
			internalError(c, "ME_FAILED", err, nil)
			return
		}
		isPro, err := l.IsPro(ctx, userID) // Entitlement from payment history
		if err != nil {
			internalError(c, "ME_FAILED", err, nil)
			return
		}
		c.JSON(http.StatusOK, MeResponse{
			User:        MeUser{ID: user.ID, Name: user.Name, Email: user.Email, Image: user.Image},
			Credits:     credits, // Zero when the wallet is missing
			IsPro:       isPro,
			CheckoutURL: cfg.CheckoutURL,
			AdminEmail:  cfg.AdminEmail,
		})
	}
}

// cachedBalance reads the balance through the Redis cache
func cachedBalance(ctx context.Context, l *ledger.Ledger, rdb *redis.Client, userID string) (int64, error) {
	key := utils.WalletKey(userID) // Cache key for wallet
	var balance int64
	// If found in cache, return it
	if found, err := utils.GetCache(ctx, rdb, key, &balance); err == nil && found {
		return balance, nil
	}
	balance, err := l.Balance(ctx, userID) // Fetch from DB
	if err != nil {
		return 0, err
	}
	_ = utils.SetCache(ctx, rdb, key, balance, balanceTTL) // Cache the balance
	return balance, nil
}
