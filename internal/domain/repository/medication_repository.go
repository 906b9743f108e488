package repository

import (
	"context"

	"alartmed/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MedicationRepository interface {
	Create(ctx context.Context, db *gorm.DB, medication *entity.Medication) error
	// FindByPatientID returns the newest medications first. A limit <= 0 means no limit.
	FindByPatientID(ctx context.Context, db *gorm.DB, patientID uuid.UUID, limit int) ([]entity.Medication, error)
	Delete(ctx context.Context, db *gorm.DB, patientID, id uuid.UUID) (int64, error)
}
