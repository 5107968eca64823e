// Package dbtest opens migrated in-memory sqlite databases for tests.
package dbtest

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	dbpkg "github.com/BruksfildServices01/clinic-scheduler/internal/db"
)

func New(t testing.TB, slotGuard bool) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	cfg := dbpkg.GormConfig()
	cfg.PrepareStmt = false

	db, err := gorm.Open(sqlite.Open(dsn), cfg)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db.DB(): %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := dbpkg.Migrate(db, slotGuard); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	t.Cleanup(func() { sqlDB.Close() })

	return db
}
