// Package ledger keeps wallet balances and the append-only credit
// transactions that explain them. For every user the sum of transaction
// amounts equals the wallet balance; every mutation here writes both sides
// inside one database transaction.
package ledger

import (
	"context" // Request-scoped cancellation
	"errors"  // Error matching
	"fmt"     // Error wrapping
	"math"    // Offset bounds

	"credits_system/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// Business constants.
const (
	FreeGrantCredits = 1000   // Credited once on first sign-in
	MessageCost      = 100    // Charged per chat message
	PurchaseCredits  = 100000 // Credited per confirmed purchase
	PaymentProvider  = "SUNIZE"
)

// Ledger performs credit operations against a store handle.
type Ledger struct {
	db *gorm.DB
}

// New returns a Ledger bound to db.
func New(db *gorm.DB) *Ledger {
	return &Ledger{db: db}
}

// WithTx returns a Ledger whose operations join tx. Mutations become
// savepoints of the enclosing transaction.
func (l *Ledger) WithTx(tx *gorm.DB) *Ledger {
	return &Ledger{db: tx}
}

// Balance returns the wallet balance of userID.
func (l *Ledger) Balance(ctx context.Context, userID string) (int64, error) {
	var wallet domain.Wallet // Wallet to load
	if err := l.db.WithContext(ctx).Where("user_id = ?", userID).Take(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrWalletNotFound // No wallet provisioned
		}
		return 0, fmt.Errorf("load wallet: %w", err)
	}
	return wallet.Balance, nil
}

// Debit charges amount credits to userID and records a USAGE transaction.
// A non-positive amount is a no-op.
func (l *Ledger) Debit(ctx context.Context, userID string, amount int64, projectID *string) error {
	if amount <= 0 {
		return nil // Nothing to charge, no wallet lookup
	}
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var wallet domain.Wallet // Current wallet state
		if err := tx.Where("user_id = ?", userID).Take(&wallet).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWalletNotFound
			}
			return err
		}
		// Check if wallet has sufficient balance
		if wallet.Balance < amount {
			return ErrInsufficientCredits
		}
		// The guard keeps the balance non-negative when debits race
		res := tx.Model(&domain.Wallet{}).
			Where("user_id = ? AND balance >= ?", userID, amount).
			Update("balance", gorm.Expr("balance - ?", amount))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientCredits // Lost the race to another debit
		}
		// Record the usage so the ledger sum follows the balance
		return tx.Create(&domain.Transaction{
			UserID:    userID,                  // Charged user
			Type:      domain.TransactionUsage, // Transaction type
			Amount:    -amount,                 // Debits are negative
			ProjectID: projectID,               // Project that consumed the credits
		}).Error
	})
	if errors.Is(err, ErrWalletNotFound) {
		logrus.WithFields(logrus.Fields{"user_id": userID, "amount": amount}).Error("Wallet missing for existing user")
	}
	return err
}

// Grant records a PAID payment and a PURCHASE transaction and credits the
// wallet. It does not check externalRef for earlier payments; callers that
// need idempotency use HasPaidPayment first.
//
// Grant succeeds for any positive credits on an existing wallet. A
// non-positive value is refused with ErrInvalidCredits and nothing is written.
func (l *Ledger) Grant(ctx context.Context, userID string, credits int64, externalRef *string) (*domain.Payment, error) {
	if credits <= 0 {
		return nil, ErrInvalidCredits
	}
	payment := &domain.Payment{
		UserID:         userID,             // Paying user
		Provider:       PaymentProvider,    // Payment provider tag
		Status:         domain.PaymentPaid, // Grants are only made for settled payments
		CreditsGranted: credits,            // Credits bought
		ExternalRef:    externalRef,        // Provider reference, if any
	}
	// Payment, ledger entry and balance change commit together
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(payment).Error; err != nil {
			return err
		}
		if err := tx.Create(&domain.Transaction{
			UserID: userID,                     // Credited user
			Type:   domain.TransactionPurchase, // Transaction type
			Amount: credits,                    // Credits are positive
		}).Error; err != nil {
			return err
		}
		return credit(tx, userID, credits)
	})
	if err != nil {
		if errors.Is(err, ErrWalletNotFound) {
			logrus.WithFields(logrus.Fields{"user_id": userID, "credits": credits}).Error("Wallet missing for existing user")
		}
		return nil, err
	}
	return payment, nil
}

// GrantFree applies the one-time FREE_GRANT to userID. It reports whether
// the grant was applied by this call.
func (l *Ledger) GrantFree(ctx context.Context, userID string) (bool, error) {
	granted := false
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64 // Earlier free grants
		if err := tx.Model(&domain.Transaction{}).
			Where("user_id = ? AND type = ?", userID, domain.TransactionFreeGrant).
			Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return nil // Already granted once
		}
		if err := tx.Create(&domain.Transaction{
			UserID: userID,                      // New user
			Type:   domain.TransactionFreeGrant, // Transaction type
			Amount: FreeGrantCredits,            // Welcome credits
		}).Error; err != nil {
			return err
		}
		if err := credit(tx, userID, FreeGrantCredits); err != nil {
			return err
		}
		granted = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return granted, nil
}

// IsPro reports whether userID has at least one PAID payment.
func (l *Ledger) IsPro(ctx context.Context, userID string) (bool, error) {
	var ids []string
	err := l.db.WithContext(ctx).Model(&domain.Payment{}).
		Where("user_id = ? AND status = ?", userID, domain.PaymentPaid).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return false, fmt.Errorf("query payments: %w", err)
	}
	return len(ids) > 0, nil
}

// HasPaidPayment reports whether a PAID payment with externalRef exists.
func (l *Ledger) HasPaidPayment(ctx context.Context, externalRef string) (bool, error) {
	var ids []string
	err := l.db.WithContext(ctx).Model(&domain.Payment{}).
		Where("external_ref = ? AND status = ?", externalRef, domain.PaymentPaid).
		Limit(1).
		Pluck("id", &ids).Error
	if err != nil {
		return false, fmt.Errorf("query payments: %w", err)
	}
	return len(ids) > 0, nil
}

// History returns a page of userID's transactions, newest first, and the total count.
func (l *Ledger) History(ctx context.Context, userID string, page, pageSize int) ([]domain.Transaction, int64, error) {
	return l.Transactions(ctx, TransactionFilter{UserID: userID}, page, pageSize)
}

// credit increments the wallet of userID inside tx.
func credit(tx *gorm.DB, userID string, credits int64) error {
	res := tx.Model(&domain.Wallet{}).
		Where("user_id = ?", userID).
		Update("balance", gorm.Expr("balance + ?", credits)) // Increment in place
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrWalletNotFound
	}
	return nil
}

// pageOffset converts a 1-based page into a row offset. Pages whose offset
// does not fit in an int are rejected.
func pageOffset(page, pageSize int) (int, error) {
	if page < 1 || pageSize < 1 || page-1 > math.MaxInt/pageSize {
		return 0, ErrInvalidPage
	}
	return (page - 1) * pageSize, nil
}
