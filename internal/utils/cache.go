package utils

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"errors"        // Error matching
	"strconv"       // Page numbers in keys
	"strings"       // Key building
	"time"          // Time durations

	"github.com/google/uuid"       // Lock owner tokens
	"github.com/redis/go-redis/v9" // Redis client
)

// Cache key helpers
const (
	walletKeyPrefix    = "wallet:user:"    // Cached balance per user
	txHistoryKeyPrefix = "txhistory:user:" // Cached history pages per user
	adminKeyPrefix     = "admin:"          // Cached admin listings across all users
)

// WalletKey returns the balance cache key for userID
func WalletKey(userID string) string {
	return walletKeyPrefix + userID
}

// TxHistoryKey returns the cache key of one history page for userID
func TxHistoryKey(userID string, page, pageSize int) string {
	return txHistoryKeyPrefix + userID + ":page:" + strconv.Itoa(page) + ":size:" + strconv.Itoa(pageSize)
}

// AdminUsersKey returns the cache key of one page of the admin user listing
func AdminUsersKey(page, pageSize int) string {
	return adminKeyPrefix + "users:page=" + strconv.Itoa(page) + ":size=" + strconv.Itoa(pageSize)
}

// AdminTransactionsKey returns the cache key of one admin transaction listing;
// parts are the normalized query parameters
func AdminTransactionsKey(parts ...string) string {
	return adminKeyPrefix + "txs:" + strings.Join(parts, ":")
}

// GetCache retrieves a value from Redis and unmarshals it into dest
func GetCache(ctx context.Context, rdb *redis.Client, key string, dest any) (bool, error) {
	val, err := rdb.Get(ctx, key).Result() // Get value from Redis
	if errors.Is(err, redis.Nil) {
		return false, nil // Key does not exist
	} else if err != nil {
		return false, err // Other Redis error
	}
	return true, json.Unmarshal([]byte(val), dest) // Unmarshal JSON into dest
}

// SetCache sets a value in Redis with a specified TTL
func SetCache(ctx context.Context, rdb *redis.Client, key string, value any, ttl time.Duration) error {
	b, err := json.Marshal(value) // Marshal value to JSON
	if err != nil {
		return err // Return error if marshaling fails
	}
	return rdb.Set(ctx, key, b, ttl).Err() // Set value in Redis with TTL
}

// DeleteCache deletes keys from Redis
func DeleteCache(ctx context.Context, rdb *redis.Client, keys ...string) error {
	return rdb.Del(ctx, keys...).Err() // Delete keys from Redis
}

// InvalidateUser drops the cached balance and every cached history page of
// userID, along with the admin listings that include the user
func InvalidateUser(ctx context.Context, rdb *redis.Client, userID string) error {
	keys := []string{WalletKey(userID)} // Balance key
	// Collect all history pages regardless of page size, then admin pages
	for _, pattern := range []string{txHistoryKeyPrefix + userID + ":*", adminKeyPrefix + "*"} {
		iter := rdb.Scan(ctx, 0, pattern, 100).Iterator()
		for iter.Next(ctx) {
			keys = append(keys, iter.Val())
		}
		if err := iter.Err(); err != nil {
			return err
		}
	}
	return DeleteCache(ctx, rdb, keys...) // Delete everything in one round trip
}

// releaseScript deletes the lock only while it still holds the caller's token
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// AcquireLock takes a short-lived exclusive lock on key. It returns the owner
// token to pass to ReleaseLock, or an empty token if another holder has it.
func AcquireLock(ctx context.Context, rdb *redis.Client, key string, ttl time.Duration) (string, error) {
	token := uuid.NewString()                           // Unique per acquisition
	ok, err := rdb.SetNX(ctx, key, token, ttl).Result() // Set only if absent
	if err != nil || !ok {
		return "", err
	}
	return token, nil
}

// ReleaseLock releases key if it is still held with token. A lock that
// expired and was taken by someone else is left alone.
func ReleaseLock(ctx context.Context, rdb *redis.Client, key, token string) error {
	return releaseScript.Run(ctx, rdb, []string{key}, token).Err() // Compare-and-delete
}
