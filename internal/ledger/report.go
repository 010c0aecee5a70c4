package ledger

import (
	"context" // Request-scoped cancellation
	"fmt"     // Error wrapping
	"time"    // Date range filters

	"credits_system/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// TransactionFilter narrows a transaction listing. Zero fields do not filter.
type TransactionFilter struct {
	UserID string                 // Owning user
	Type   domain.TransactionType // FREE_GRANT, USAGE or PURCHASE
	From   *time.Time             // Created at or after
	To     *time.Time             // Created at or before
}

// Transactions returns a page of transactions matching f, newest first, and
// the total number of matches.
func (l *Ledger) Transactions(ctx context.Context, f TransactionFilter, page, pageSize int) ([]domain.Transaction, int64, error) {
	offset, err := pageOffset(page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	// Fresh statement per query so Count and Find do not share state
	scope := func() *gorm.DB {
		query := l.db.WithContext(ctx).Model(&domain.Transaction{})
		if f.UserID != "" {
			query = query.Where("user_id = ?", f.UserID) // Filter by user
		}
		if f.Type != "" {
			query = query.Where("type = ?", f.Type) // Filter by transaction type
		}
		if f.From != nil {
			query = query.Where("created_at >= ?", *f.From) // Filter by start date
		}
		if f.To != nil {
			query = query.Where("created_at <= ?", *f.To) // Filter by end date
		}
		return query
	}
	var total int64 // Total matching transactions
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}
	var txs []domain.Transaction // Page of transactions
	if err := scope().Order("id desc").Offset(offset).Limit(pageSize).Find(&txs).Error; err != nil {
		return nil, 0, fmt.Errorf("fetch transactions: %w", err)
	}
	return txs, total, nil
}

// Account is a user as seen by the ledger: identity, balance and pro status.
type Account struct {
	ID      string `json:"id"`      // User ID
	Email   string `json:"email"`   // User email
	Name    string `json:"name"`    // Display name
	Balance int64  `json:"balance"` // Wallet balance, 0 without a wallet
	IsPro   bool   `json:"isPro"`   // Has a PAID payment
}

// Accounts returns a page of users with their balance and pro status, oldest
// first, and the total number of users.
func (l *Ledger) Accounts(ctx context.Context, page, pageSize int) ([]Account, int64, error) {
	offset, err := pageOffset(page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	db := l.db.WithContext(ctx)
	var total int64 // Total user count
	if err := db.Model(&domain.User{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	var users []domain.User // Page of users
	// Preload Wallet relation, apply offset and limit for pagination
	if err := db.Preload("Wallet").Order("created_at asc, id asc").Offset(offset).Limit(pageSize).Find(&users).Error; err != nil {
		return nil, 0, fmt.Errorf("fetch users: %w", err)
	}
	if len(users) == 0 {
		return []Account{}, total, nil
	}
	ids := make([]string, len(users)) // Users on this page
	for i, u := range users {
		ids[i] = u.ID
	}
	var proIDs []string // Users on this page with a PAID payment
	if err := db.Model(&domain.Payment{}).
		Where("user_id IN ? AND status = ?", ids, domain.PaymentPaid).
		Distinct().
		Pluck("user_id", &proIDs).Error; err != nil {
		return nil, 0, fmt.Errorf("query payments: %w", err)
	}
	pro := make(map[string]bool, len(proIDs))
	for _, id := range proIDs {
		pro[id] = true
	}
	accounts := make([]Account, len(users))
	// Map users to account summaries
	for i, u := range users {
		accounts[i] = Account{ID: u.ID, Email: u.Email, Name: u.Name, IsPro: pro[u.ID]}
		if u.Wallet != nil {
			accounts[i].Balance = u.Wallet.Balance // Missing wallets read as 0
		}
	}
	return accounts, total, nil
}
