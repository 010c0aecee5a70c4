// Package dbtest provides migrated in-memory databases for tests.
package dbtest

import (
	"testing"

	"credits_system/internal/db"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// New returns a migrated in-memory SQLite database closed at test cleanup
func New(t testing.TB) *gorm.DB {
	t.Helper()

	gdb, err := db.OpenSQLite(":memory:", nil)
	require.NoError(t, err, "failed to create test database")

	err = db.Migrate(gdb)
	require.NoError(t, err, "failed to run migrations")

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			sqlDB.Close()
		}
	})

	return gdb
}
