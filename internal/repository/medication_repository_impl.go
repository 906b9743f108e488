package repository

import (
	"context"

	"alartmed/internal/domain/entity"
	domainRepo "alartmed/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type medicationRepository struct {
	log *logrus.Logger
}

func NewMedicationRepository(log *logrus.Logger) domainRepo.MedicationRepository {
	return &medicationRepository{log: log}
}

func (r *medicationRepository) Create(ctx context.Context, db *gorm.DB, medication *entity.Medication) error {
	return db.WithContext(ctx).Create(medication).Error
}

// FindByPatientID scans row by row so that a row with an unreadable column (a
// malformed times list, typically written by another client) is logged and skipped
// instead of failing the whole listing.
func (r *medicationRepository) FindByPatientID(ctx context.Context, db *gorm.DB, patientID uuid.UUID, limit int) ([]entity.Medication, error) {
	query := db.WithContext(ctx).Model(&entity.Medication{}).
		Where("paciente_id = ?", patientID).
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	rows, err := query.Rows()
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	scanner := db.Session(&gorm.Session{NewDB: true})
	medications := make([]entity.Medication, 0)
	for rows.Next() {
		var medication entity.Medication
		if err := scanner.ScanRows(rows, &medication); err != nil {
			r.log.Warnf("Skipping malformed medication row for patient %s: %+v", patientID, err)
			continue
		}
		medications = append(medications, medication)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return medications, nil
}

func (r *medicationRepository) Delete(ctx context.Context, db *gorm.DB, patientID, id uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).
		Where("id = ? AND paciente_id = ?", id, patientID).
		Delete(&entity.Medication{})
	return result.RowsAffected, result.Error
}
