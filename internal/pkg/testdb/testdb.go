// Package testdb opens a migrated, throwaway SQLite database for tests.
package testdb

import (
	"testing"

	"notekeeper-be/internal/model"
	"notekeeper-be/pkg/database"

	"gorm.io/gorm"
)

func New(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.NewSQLiteDB("file::memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := model.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return db
}
