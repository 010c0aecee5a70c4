package domain

import "time"

// Message roles
const (
	RoleUser  = "user"
	RoleAgent = "agent"
)

// Message Model. Append-only chat entry; ordered by id within a project.
type Message struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ProjectID   string    `gorm:"size:36;not null;index" json:"projectId"`
	Role        string    `gorm:"size:16;not null" json:"role"`
	Content     string    `gorm:"type:text;not null" json:"content"`
	CreditsUsed int64     `gorm:"not null;default:0" json:"creditsUsed"` // Zero for agent replies
	CreatedAt   time.Time `json:"createdAt"`
}
