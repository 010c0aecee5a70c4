package db

import (
	"fmt"  // Error wrapping
	"time" // Connection lifetime

	"credits_system/internal/config" // Application configuration

	"github.com/glebarez/sqlite" // Pure Go SQLite driver for GORM
	"gorm.io/driver/mysql"       // MySQL driver for GORM
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/logger"        // GORM logger
)

// Open connects to the database selected by cfg.DBDriver
func Open(cfg *config.Config) (*gorm.DB, error) {
	switch cfg.DBDriver {
	case "mysql":
		db, err := gorm.Open(mysql.Open(cfg.DSN()), &gorm.Config{Logger: newLogger(cfg.LogLevel)})
		if err != nil {
			return nil, fmt.Errorf("open mysql: %w", err)
		}
		sqlDB, err := db.DB() // Underlying pool
		if err != nil {
			return nil, fmt.Errorf("get sql.DB: %w", err)
		}
		sqlDB.SetMaxOpenConns(25)                  // Upper bound on concurrent connections
		sqlDB.SetMaxIdleConns(10)                  // Keep a few warm
		sqlDB.SetConnMaxLifetime(30 * time.Minute) // Recycle before server-side timeouts
		return db, nil
	case "sqlite":
		return OpenSQLite(cfg.DBPath, newLogger(cfg.LogLevel))
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.DBDriver)
	}
}

// OpenSQLite opens a SQLite database with foreign keys enforced.
// A single connection serializes writers and keeps ":memory:" databases alive.
func OpenSQLite(path string, log logger.Interface) (*gorm.DB, error) {
	if log == nil {
		log = logger.Default.LogMode(logger.Silent)
	}
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{Logger: log})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	// Cascading deletes depend on this pragma
	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	return db, nil
}

// newLogger maps a level name to a GORM logger
func newLogger(level string) logger.Interface {
	var logLevel logger.LogLevel
	switch level {
	case "debug", "trace":
		logLevel = logger.Info // Log every statement
	case "info", "warn", "warning":
		logLevel = logger.Warn // Slow queries and warnings
	case "silent":
		logLevel = logger.Silent
	default:
		logLevel = logger.Error // Errors only
	}
	return logger.Default.LogMode(logLevel)
}
