package services

import (
	"strings"
	"testing"

	"devsprint/backend/internal/models"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// The row lock is dialect-gated, so the generated SQL is asserted through dry
// runs: mysql must add FOR UPDATE, sqlite must not.
func TestLockForUpdate(t *testing.T) {
	t.Run("mysql takes a row lock", func(t *testing.T) {
		db, err := gorm.Open(mysql.New(mysql.Config{
			DSN:                       "app:app@tcp(127.0.0.1:3306)/devsprint",
			SkipInitializeWithVersion: true,
		}), &gorm.Config{
			DryRun:               true,
			DisableAutomaticPing: true,
			Logger:               gormlogger.Default.LogMode(gormlogger.Silent),
		})
		if err != nil {
			t.Fatalf("open mysql dialector: %v", err)
		}

		var project models.Project
		stmt := lockForUpdate(db).Find(&project, 1).Statement
		if !strings.Contains(stmt.SQL.String(), "FOR UPDATE") {
			t.Errorf("mysql query missing FOR UPDATE: %s", stmt.SQL.String())
		}
	})

	t.Run("sqlite skips the locking clause", func(t *testing.T) {
		db := newTestDB(t).Session(&gorm.Session{DryRun: true})

		var project models.Project
		stmt := lockForUpdate(db).Find(&project, 1).Statement
		if strings.Contains(stmt.SQL.String(), "FOR UPDATE") {
			t.Errorf("sqlite query should not lock: %s", stmt.SQL.String())
		}
	})
}
