package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentStatus is the state of an external purchase
type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentFailed  PaymentStatus = "FAILED"
)

// Payment Model
type Payment struct {
	ID             string        `gorm:"primaryKey;size:36" json:"id"`
	UserID         string        `gorm:"size:36;not null;index" json:"userId"`
	Provider       string        `gorm:"size:32;not null" json:"provider"`
	Status         PaymentStatus `gorm:"size:16;not null;index" json:"status"`
	CreditsGranted int64         `gorm:"not null" json:"creditsGranted"`
	ExternalRef    *string       `gorm:"size:255;index" json:"externalRef"` // Idempotency key from the provider
	CreatedAt      time.Time     `json:"createdAt"`
}

// BeforeCreate assigns a UUID when none is set
func (p *Payment) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
