// Package account provisions users on sign-in.
package account

import (
	"context" // Request-scoped cancellation
	"errors"  // Error matching
	"fmt"     // Error wrapping
	"strings" // Email normalization

	"credits_system/internal/domain" // Importing domain models
	"credits_system/internal/ledger" // Free grant on sign-in

	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

var (
	ErrUserNotFound = errors.New("USER_NOT_FOUND") // No user with that id or email
	ErrMissingEmail = errors.New("MISSING_EMAIL")  // Identity or request carried no email
)

// Identity is what the identity provider asserts about a signed-in person.
type Identity struct {
	Email             string // Verified email, the account key
	Name              string // Display name
	Image             string // Avatar URL
	ProviderAccountID string // Provider's stable account id
}

// Service owns user records.
type Service struct {
	db     *gorm.DB
	ledger *ledger.Ledger
}

// NewService returns a Service backed by db.
func NewService(db *gorm.DB, l *ledger.Ledger) *Service {
	return &Service{db: db, ledger: l}
}

// SignIn upserts the user for id by email, creating the wallet together
// with a new user, then applies the one-time free grant.
func (s *Service) SignIn(ctx context.Context, id Identity) (*domain.User, error) {
	email := normalizeEmail(id.Email) // Emails are stored lower-cased
	if email == "" {
		return nil, ErrMissingEmail
	}
	var user domain.User // Signed-in user
	var granted bool     // Whether this sign-in applied the free grant
	// Upsert and free grant commit together
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("email = ?", email).Take(&user).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			// First sign-in: create the user with an empty wallet
			user = domain.User{
				Email:    email,
				Name:     id.Name,
				Image:    id.Image,
				GoogleID: optional(id.ProviderAccountID),
				Wallet:   &domain.Wallet{},
			}
			if err := tx.Create(&user).Error; err != nil {
				return fmt.Errorf("create user: %w", err)
			}
		case err != nil:
			return fmt.Errorf("load user: %w", err)
		default:
			// Returning user: refresh what the provider sent
			updates := map[string]any{}
			if id.Name != "" {
				updates["name"] = id.Name
			}
			if id.Image != "" {
				updates["image"] = id.Image
			}
			if id.ProviderAccountID != "" {
				updates["google_id"] = id.ProviderAccountID
			}
			if len(updates) > 0 {
				if err := tx.Model(&user).Updates(updates).Error; err != nil {
					return fmt.Errorf("update user: %w", err)
				}
			}
		}
		granted, err = s.ledger.WithTx(tx).GrantFree(ctx, user.ID) // No-op after the first time
		return err
	})
	if err != nil {
		return nil, err
	}
	if granted {
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,                     // New user
			"amount":  ledger.FreeGrantCredits,     // Credits
			"type":    domain.TransactionFreeGrant, // Transaction type
		}).Info("Free credits granted")
	}
	return &user, nil
}

// Get returns the user with userID.
func (s *Service) Get(ctx context.Context, userID string) (*domain.User, error) {
	var user domain.User
	if err := s.db.WithContext(ctx).Where("id = ?", userID).Take(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &user, nil
}

// FindByEmail returns the user registered with email, compared case-insensitively.
func (s *Service) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, ErrMissingEmail
	}
	var user domain.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).Take(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &user, nil
}

// normalizeEmail trims and lower-cases email
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// optional maps "" to nil for nullable unique columns
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
