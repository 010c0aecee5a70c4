package domain

import "time"

// Wallet Model
type Wallet struct {
	UserID    string    `gorm:"primaryKey;size:36" json:"userId"`  // Owning user, one wallet per user
	Balance   int64     `gorm:"not null;default:0" json:"balance"` // Spendable credits, never negative
	UpdatedAt time.Time `json:"updatedAt"`                         // Last balance change
}
