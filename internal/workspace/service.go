// Package workspace manages projects and their chat messages. Posting a
// message is paid for with ledger credits.
package workspace

import (
	"context" // Request-scoped cancellation
	"errors"  // Error matching
	"fmt"     // Error wrapping
	"strings" // Input trimming

	"credits_system/internal/domain" // Importing domain models
	"credits_system/internal/ledger" // Message charges

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

var (
	ErrProjectNotFound = errors.New("PROJECT_NOT_FOUND") // Missing or owned by someone else
	ErrEmptyMessage    = errors.New("EMPTY_MESSAGE")     // Blank message content
)

// DefaultTitle is used when a project is created without one.
const DefaultTitle = "New project"

// Exchange is the pair of messages appended by a successful post.
type Exchange struct {
	UserMessage  domain.Message `json:"userMessage"`
	AgentMessage domain.Message `json:"agentMessage"`
}

// Service manages projects of a user.
type Service struct {
	db     *gorm.DB
	ledger *ledger.Ledger
}

// NewService returns a Service backed by db, charging messages through l.
func NewService(db *gorm.DB, l *ledger.Ledger) *Service {
	return &Service{db: db, ledger: l}
}

// List returns the projects of userID, most recently updated first.
func (s *Service) List(ctx context.Context, userID string) ([]domain.Project, error) {
	var projects []domain.Project
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at desc").
		Find(&projects).Error
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// Create stores a new DRAFT project for userID.
func (s *Service) Create(ctx context.Context, userID, title, description string) (*domain.Project, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		title = DefaultTitle // Untitled projects get a placeholder
	}
	project := &domain.Project{
		UserID:      userID,              // Owner
		Title:       title,               // Display title
		Description: description,         // Free-form brief
		Status:      domain.ProjectDraft, // Nothing generated yet
	}
	if err := s.db.WithContext(ctx).Create(project).Error; err != nil {
		return nil, fmt.Errorf("create project: %w", err)
	}
	return project, nil
}

// Get returns the project projectID owned by userID with its messages in
// posting order. Projects of other users are reported as not found.
func (s *Service) Get(ctx context.Context, userID, projectID string) (*domain.Project, error) {
	var project domain.Project
	err := s.db.WithContext(ctx).
		Preload("Messages", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Where("id = ? AND user_id = ?", projectID, userID).
		Take(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("load project: %w", err)
	}
	return &project, nil
}

// PostMessage charges ledger.MessageCost to userID and appends the user's
// message, the agent reply and the READY status to the project. The charge
// and the append commit together: a failure anywhere leaves both untouched.
func (s *Service) PostMessage(ctx context.Context, userID, projectID, content string) (*Exchange, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage // Rejected before any charge
	}
	var exchange Exchange // Messages appended by this post
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var project domain.Project // Ownership check
		if err := tx.Select("id").Where("id = ? AND user_id = ?", projectID, userID).Take(&project).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProjectNotFound
			}
			return err
		}
		// Charge first; insufficient credits aborts before anything is written
		if err := s.ledger.WithTx(tx).Debit(ctx, userID, ledger.MessageCost, &project.ID); err != nil {
			return err
		}
		exchange.UserMessage = domain.Message{
			ProjectID:   project.ID,
			Role:        domain.RoleUser,
			Content:     content,
			CreditsUsed: ledger.MessageCost, // Price of this message
		}
		if err := tx.Create(&exchange.UserMessage).Error; err != nil {
			return err
		}
		exchange.AgentMessage = domain.Message{
			ProjectID: project.ID,
			Role:      domain.RoleAgent,
			Content:   AgentReply(content), // Canned acknowledgement
		}
		if err := tx.Create(&exchange.AgentMessage).Error; err != nil {
			return err
		}
		return tx.Model(&domain.Project{}).Where("id = ?", project.ID).Update("status", domain.ProjectReady).Error // Also bumps updated_at
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{
		"user_id":    userID,                  // Charged user
		"project_id": projectID,               // Project charged for
		"amount":     ledger.MessageCost,      // Credits
		"type":       domain.TransactionUsage, // Transaction type
	}).Info("Message charged")
	return &exchange, nil
}
