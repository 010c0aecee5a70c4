package api

import (
	"errors"   // Error matching
	"net/http" // HTTP status codes
	"strconv"  // Message formatting
	"time"     // Date filters

	"credits_system/internal/account" // User lookups
	"credits_system/internal/domain"  // Importing domain models
	"credits_system/internal/ledger"  // Credit ledger
	"credits_system/internal/utils"   // Cache helpers

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// GrantCreditsRequest represents a manual credit grant
type GrantCreditsRequest struct {
	Email       string `json:"email"`       // Recipient email
	ExternalRef string `json:"externalRef"` // Optional purchase reference
}

// GrantCreditsHandler lets the admin credit a purchase to any user by email
func GrantCreditsHandler(accounts *account.Service, l *ledger.Ledger, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req GrantCreditsRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_REQUEST"})
			return
		}
		ctx := c.Request.Context()
		user, err := accounts.FindByEmail(ctx, req.Email) // Find target user
		switch {
		case errors.Is(err, account.ErrMissingEmail):
			c.JSON(http.StatusBadRequest, gin.H{"error": "MISSING_EMAIL"})
			return
		case errors.Is(err, account.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "USER_NOT_FOUND"})
			return
		case err != nil:
			internalError(c, "GRANT_FAILED", err, nil)
			return
		}
		granted, err := grantPurchase(ctx, l, rdb, user.ID, req.ExternalRef)
		if errors.Is(err, errGrantInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": "GRANT_IN_PROGRESS"})
			return
		}
		if err != nil {
			internalError(c, "GRANT_FAILED", err, logrus.Fields{"user_id": user.ID})
			return
		}
		if !granted {
			// Same reference credited before
			c.JSON(http.StatusOK, gin.H{"ok": true, "message": "Already credited (externalRef)"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "message": "Credits added: " + strconv.Itoa(ledger.PurchaseCredits)})
	}
}

// adminListTTL bounds how stale a cached admin listing can be
const adminListTTL = 60 * time.Second

// usersPage is the cached shape of one page of the user listing
type usersPage struct {
	Users      []ledger.Account `json:"users"`       // Users with balance and pro status
	Page       int              `json:"page"`        // Current page
	PageSize   int              `json:"page_size"`   // Page size
	Total      int64            `json:"total"`       // Total number of users
	TotalPages int              `json:"total_pages"` // Total pages
	Cached     bool             `json:"cached"`      // Served from cache
}

// ListUsersHandler returns all users with their balance and pro status
func ListUsersHandler(l *ledger.Ledger, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		page, pageSize := pagination(c)                 // Bounded paging parameters
		cacheKey := utils.AdminUsersKey(page, pageSize) // Redis cache key
		var cached usersPage
		// If cached data found, return it
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			cached.Cached = true
			c.JSON(http.StatusOK, cached)
			return
		}
		accounts, total, err := l.Accounts(ctx, page, pageSize) // Fetch paginated users
		if err != nil {
			internalError(c, "LIST_USERS_FAILED", err, nil)
			return
		}
		resp := usersPage{
			Users:      accounts,
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages(total, pageSize), // Calculate total pages
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, adminListTTL) // Cache the response for future requests
		c.JSON(http.StatusOK, resp)
	}
}

// ListTransactionsHandler returns all transactions, with optional filtering by user, type, or date
func ListTransactionsHandler(l *ledger.Ledger, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		filter := ledger.TransactionFilter{UserID: c.Query("user_id")} // Filter by user ID
		switch txType := domain.TransactionType(c.Query("type")); txType {
		case "", domain.TransactionFreeGrant, domain.TransactionUsage, domain.TransactionPurchase:
			filter.Type = txType // Filter by transaction type
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_TYPE"})
			return
		}
		from, err := parseDate(c.Query("from"), false) // Filter by start date
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_DATE"})
			return
		}
		to, err := parseDate(c.Query("to"), true) // Filter by end date
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_DATE"})
			return
		}
		filter.From, filter.To = from, to
		page, pageSize := pagination(c) // Bounded paging parameters
		// Build cache key from all normalized query params
		cacheKey := utils.AdminTransactionsKey(
			"user_id="+filter.UserID,
			"type="+string(filter.Type),
			"from="+c.Query("from"),
			"to="+c.Query("to"),
			"page="+strconv.Itoa(page),
			"page_size="+strconv.Itoa(pageSize),
		)
		var cached historyPage
		// If cached data found, return it
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			cached.Cached = true
			c.JSON(http.StatusOK, cached)
			return
		}
		txs, total, err := l.Transactions(ctx, filter, page, pageSize) // Fetch filtered transactions
		if err != nil {
			internalError(c, "LIST_TRANSACTIONS_FAILED", err, nil)
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
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, adminListTTL) // Cache the response for future requests
		c.JSON(http.StatusOK, resp)
	}
}

// parseDate reads an RFC 3339 timestamp or a plain date. A plain date used as
// an upper bound covers the whole day.
func parseDate(v string, endOfDay bool) (*time.Time, error) {
	if v == "" {
		return nil, nil // No filter
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.DateOnly, v)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond) // Last instant of the day
	}
	return &t, nil
}
