// Package testutil provides an in-memory database and quiet logger for tests.
package testutil

import (
	"fmt"
	"io"
	"testing"

	"clinical-registry/internal/domain/entity"
	"clinical-registry/internal/infrastructure/database"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB returns a migrated in-memory SQLite database private to the test.
func DB(tb testing.TB) *gorm.DB {
	tb.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := database.NewSQLiteConnection(dsn, logger.Silent)
	if err != nil {
		tb.Fatalf("open test db: %v", err)
	}
	if err := db.AutoMigrate(database.Models()...); err != nil {
		tb.Fatalf("migrate test db: %v", err)
	}

	tb.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Logger returns a logger that discards its output.
func Logger(tb testing.TB) *logrus.Logger {
	tb.Helper()
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// SeedPatientRecord inserts a classified record with the given name and
// glucose reading.
func SeedPatientRecord(tb testing.TB, db *gorm.DB, name, glucose string) *entity.PatientRecord {
	tb.Helper()
	record := &entity.PatientRecord{
		Name:        name,
		GlucoseMgdl: decimal.RequireFromString(glucose),
	}
	record.Classify()
	if err := db.Create(record).Error; err != nil {
		tb.Fatalf("seed patient record: %v", err)
	}
	return record
}
