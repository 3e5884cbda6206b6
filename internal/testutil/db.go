// Package testutil opens throwaway databases for package tests.
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"go-wigstore-api/internal/model"
	"go-wigstore-api/pkg/database"

	"gorm.io/gorm"
)

var seq atomic.Int64

// NewDB returns a migrated in-memory sqlite database seeded with the
// default categories. It is closed when the test ends.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", name, seq.Add(1))

	db, err := database.Connect("sqlite", dsn, false)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close(db) })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	categories := append([]model.Category(nil), model.DefaultCategories...)
	if err := db.Create(&categories).Error; err != nil {
		t.Fatalf("seed categories: %v", err)
	}
	return db
}
