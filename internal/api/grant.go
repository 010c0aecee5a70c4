package api

import (
	"context" // Context for Redis operations
	"errors"  // Error values
	"time"    // Lock TTL

	"credits_system/internal/domain" // Importing domain models
	"credits_system/internal/ledger" // Credit ledger
	"credits_system/internal/utils"  // Lock helpers

	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
)

// grantLockTTL outlives any single grant
const grantLockTTL = 30 * time.Second

// errGrantInProgress means another request holds the lock for the same external reference
var errGrantInProgress = errors.New("GRANT_IN_PROGRESS")

// grantPurchase credits a purchase once per external reference. The lock
// serializes concurrent callers so the paid-payment check cannot race.
// It reports false when the reference was already credited.
func grantPurchase(ctx context.Context, l *ledger.Ledger, rdb *redis.Client, userID, externalRef string) (bool, error) {
	var ref *string
	if externalRef != "" {
		lockKey := "grant:ref:" + externalRef // One lock per reference
		token, err := utils.AcquireLock(ctx, rdb, lockKey, grantLockTTL)
		if err != nil {
			return false, err
		}
		if token == "" {
			return false, errGrantInProgress // Someone else is crediting this reference
		}
		defer func() {
			if err := utils.ReleaseLock(context.WithoutCancel(ctx), rdb, lockKey, token); err != nil {
				logrus.WithField("external_ref", externalRef).Warn("Grant lock release failed")
			}
		}()
		already, err := l.HasPaidPayment(ctx, externalRef) // Was this purchase credited before?
		if err != nil {
			return false, err
		}
		if already {
			return false, nil
		}
		ref = &externalRef
	}
	payment, err := l.Grant(ctx, userID, ledger.PurchaseCredits, ref)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"user_id":      userID,                 // Recipient
			"amount":       ledger.PurchaseCredits, // Credits
			"external_ref": externalRef,            // Provider reference
			"error":        err.Error(),            // Error message
		}).Error("Grant failed")
		return false, err
	}
	logrus.WithFields(logrus.Fields{
		"user_id":      userID,                     // Recipient
		"payment_id":   payment.ID,                 // New payment
		"amount":       ledger.PurchaseCredits,     // Credits
		"type":         domain.TransactionPurchase, // Transaction type
		"external_ref": externalRef,                // Provider reference
	}).Info("Purchase credits granted")
	invalidateUser(ctx, rdb, userID) // Balance and history changed
	return true, nil
}
