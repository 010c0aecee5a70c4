package domain

import (
	"time" // Timestamps

	"github.com/google/uuid" // UUID primary keys
	"gorm.io/gorm"           // GORM hooks
)

// User Model
type User struct {
	ID           string        `gorm:"primaryKey;size:36" json:"id"`                           // Primary key (UUID)
	Email        string        `gorm:"uniqueIndex;size:255;not null" json:"email"`             // Unique email, lower-cased
	Name         string        `json:"name"`                                                   // Display name from the identity provider
	Image        string        `json:"image"`                                                  // Avatar URL
	GoogleID     *string       `gorm:"uniqueIndex;size:255" json:"-"`                          // Provider account id
	CreatedAt    time.Time     `json:"createdAt"`                                              // Timestamp of creation
	Wallet       *Wallet       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"` // One-to-one relationship with Wallet
	Projects     []Project     `gorm:"constraint:OnDelete:CASCADE;" json:"-"`                  // Owned projects
	Transactions []Transaction `gorm:"constraint:OnDelete:CASCADE;" json:"-"`                  // Ledger entries
	Payments     []Payment     `gorm:"constraint:OnDelete:CASCADE;" json:"-"`                  // Purchase confirmations
}

// BeforeCreate assigns a UUID when none is set
func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}
