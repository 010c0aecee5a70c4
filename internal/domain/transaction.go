package domain

import "time"

// TransactionType is the kind of ledger entry
type TransactionType string

const (
	TransactionFreeGrant TransactionType = "FREE_GRANT" // One-time welcome credits
	TransactionUsage     TransactionType = "USAGE"      // Credits spent on work
	TransactionPurchase  TransactionType = "PURCHASE"   // Credits bought through a payment
)

// Transaction Model. Rows are append-only; the id gives insertion order.
type Transaction struct {
	ID        uint            `gorm:"primaryKey" json:"id"`                 // Primary key
	UserID    string          `gorm:"size:36;not null;index" json:"userId"` // Owning user
	Type      TransactionType `gorm:"size:16;not null" json:"type"`         // FREE_GRANT, USAGE or PURCHASE
	Amount    int64           `gorm:"not null" json:"amount"`               // Signed change applied to the wallet
	ProjectID *string         `gorm:"size:36;index" json:"projectId"`       // Project that consumed the credits
	CreatedAt time.Time       `json:"createdAt"`                            // Timestamp of creation
}
