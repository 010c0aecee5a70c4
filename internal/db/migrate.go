package db

import (
	"credits_system/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// Migrate performs automatic migration for the database schema
func Migrate(db *gorm.DB) error {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	return db.AutoMigrate(
		&domain.User{},
		&domain.Wallet{},
		&domain.Project{},
		&domain.Message{},
		&domain.Transaction{},
		&domain.Payment{},
	)
}
