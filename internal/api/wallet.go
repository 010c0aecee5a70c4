package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes

	"credits_system/internal/domain" // Importing domain models
	"credits_system/internal/ledger" // Credit ledger
	"credits_system/internal/utils"  // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// GetWalletHandler returns the balance of the authenticated user
func GetWalletHandler(l *ledger.Ledger, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Get userID from context
		if !ok {
			return
		}
		balance, err := cachedBalance(c.Request.Context(), l, rdb, userID)
		if errors.Is(err, ledger.ErrWalletNotFound) {
			// Every user gets a wallet on sign-in; a missing one is a data bug
			logrus.WithField("user_id", userID).Error("Wallet missing for existing user")
			c.JSON(http.StatusNotFound, gin.H{"error": "WALLET_NOT_FOUND"})
			return
		}
		if err != nil {
			internalError(c, "WALLET_FAILED", err, logrus.Fields{"user_id": userID})
			return
		}
		c.JSON(http.StatusOK, gin.H{"balance": balance}) // Return wallet info
	}
}

// historyPage is the cached shape of one transaction history page
type historyPage struct {
	Transactions []domain.Transaction `json:"transactions"` // List of transactions
	Page         int                  `json:"page"`         // Current page
	PageSize     int                  `json:"page_size"`    // Page size
	Total        int64                `json:"total"`        // Total transactions
	TotalPages   int                  `json:"total_pages"`  // Total pages
	Cached       bool                 `json:"cached"`       // Served from cache
}

// GetTransactionHistoryHandler returns the authenticated user's ledger entries, newest first
func GetTransactionHistoryHandler(l *ledger.Ledger, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c) // Get userID from context
		if !ok {
			return
		}
		page, pageSize := pagination(c) // Bounded paging parameters
		ctx := c.Request.Context()
		cacheKey := utils.TxHistoryKey(userID, page, pageSize) // Redis cache key
		var cached historyPage
		// If found in cache, return it
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			cached.Cached = true
			c.JSON(http.StatusOK, cached)
			return
		}
		txs, total, err := l.History(ctx, userID, page, pageSize) // Fetch paginated transactions
		if err != nil {
			internalError(c, "HISTORY_FAILED", err, logrus.Fields{"user_id": userID})
			return
		}
		if txs == nil {
			txs = []domain.Transaction{} // Render an empty list, not null
		}
		resp := historyPage{
			Transactions: txs,
			Page:         page,
			PageSize:     pageSize,
			Total:        total,
			TotalPages:   totalPages(total, pageSize), // Calculate total pages
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, balanceTTL) // Cache the result
		c.JSON(http.StatusOK, resp)                              // Return transaction history
	}
}
