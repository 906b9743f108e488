package repository

import (
	"context"

	"alartmed/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ExamRepository interface {
	// FindByPatientID returns the most recently requested exams first. A limit <= 0 means no limit.
	FindByPatientID(ctx context.Context, db *gorm.DB, patientID uuid.UUID, limit int) ([]entity.Exam, error)
	FindByID(ctx context.Context, db *gorm.DB, patientID, id uuid.UUID) (*entity.Exam, error)
}
