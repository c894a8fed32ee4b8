// Package testdb opens throwaway SQLite databases carrying the production schema.
package testdb

import (
	"path/filepath"
	"testing"

	"desaku-api/internal/adapters/persistence/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a migrated database backed by a file in t.TempDir()
func Open(t testing.TB) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "desaku.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}
