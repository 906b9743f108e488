package testutil

import (
	"fmt"
	"testing"
	"time"

	"alartmed/internal/domain/entity"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewTestDB opens an in-memory SQLite database migrated with every portal table.
// The database name is unique per call so tests in one process never share state.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:alartmed_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get database instance: %v", err)
	}
	// a single connection keeps the shared in-memory database free of table locks
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&entity.Identity{},
		&entity.Profile{},
		&entity.Specialty{},
		&entity.Appointment{},
		&entity.Medication{},
		&entity.Exam{},
		&entity.Notification{},
		&entity.AuditLog{},
	); err != nil {
		t.Fatalf("failed to auto-migrate models: %v", err)
	}

	t.Cleanup(func() {
		sqlDB.Close()
	})

	return db
}

// SeedSpecialty inserts a specialty and returns it
func SeedSpecialty(t *testing.T, db *gorm.DB, name string) entity.Specialty {
	t.Helper()

	specialty := entity.Specialty{Name: name}
	if err := db.Create(&specialty).Error; err != nil {
		t.Fatalf("failed to seed specialty: %v", err)
	}
	return specialty
}

// SeedExam inserts an exam for the patient and returns it
func SeedExam(t *testing.T, db *gorm.DB, exam entity.Exam) entity.Exam {
	t.Helper()

	if err := db.Create(&exam).Error; err != nil {
		t.Fatalf("failed to seed exam: %v", err)
	}
	return exam
}
