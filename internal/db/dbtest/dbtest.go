// Package dbtest provides a migrated SQLite database for package tests.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/GoBazaar/GoBazaar/internal/config"
	"github.com/GoBazaar/GoBazaar/internal/db"
)

// New opens a file backed SQLite database below t.TempDir and migrates it.
// A single connection is used so concurrent transactions queue instead of failing with SQLITE_BUSY.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := db.Open(&config.DB{
		GormEngine:   config.EngineSQLite,
		Path:         filepath.Join(t.TempDir(), "test.db"),
		MaxOpenConns: 1,
	})
	require.NoError(t, err, "failed to create test database")
	require.NoError(t, db.Migrate(gdb), "failed to migrate test database")

	t.Cleanup(func() {
		if sqlDB, err := gdb.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return gdb
}
