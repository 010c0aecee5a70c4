package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectStatus is the lifecycle state of a project
type ProjectStatus string

const (
	ProjectDraft      ProjectStatus = "DRAFT"
	ProjectGenerating ProjectStatus = "GENERATING"
	ProjectReady      ProjectStatus = "READY"
	ProjectError      ProjectStatus = "ERROR"
)

// Project Model
type Project struct {
	ID          string        `gorm:"primaryKey;size:36" json:"id"`
	UserID      string        `gorm:"size:36;not null;index" json:"-"`
	Title       string        `gorm:"not null" json:"title"`
	Description string        `gorm:"type:text" json:"description"`
	Status      ProjectStatus `gorm:"size:16;not null" json:"status"`
	Messages    []Message     `gorm:"constraint:OnDelete:CASCADE;" json:"messages,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// BeforeCreate assigns a UUID and the DRAFT status when unset
func (p *Project) BeforeCreate(*gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Status == "" {
		p.Status = ProjectDraft
	}
	return nil
}
