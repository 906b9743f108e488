package repository

import (
	"context"

	"alartmed/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AppointmentRepository interface {
	Create(ctx context.Context, db *gorm.DB, appointment *entity.Appointment) error
	// FindByPatientID returns every appointment of the patient, earliest date first.
	FindByPatientID(ctx context.Context, db *gorm.DB, patientID uuid.UUID) ([]entity.Appointment, error)
	// FindUpcoming returns at most limit scheduled appointments, earliest date first.
	FindUpcoming(ctx context.Context, db *gorm.DB, patientID uuid.UUID, limit int) ([]entity.Appointment, error)
}
