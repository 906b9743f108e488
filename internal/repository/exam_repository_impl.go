package repository

import (
	"context"
	"errors"

	"alartmed/internal/domain/entity"
	domainRepo "alartmed/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type examRepository struct{}

func NewExamRepository() domainRepo.ExamRepository {
	return &examRepository{}
}

func (r *examRepository) FindByPatientID(ctx context.Context, db *gorm.DB, patientID uuid.UUID, limit int) ([]entity.Exam, error) {
	var exams []entity.Exam
	query := db.WithContext(ctx).
		Where("paciente_id = ?", patientID).
		Order("data_solicitacao DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&exams).Error; err != nil {
		return nil, err
	}
	return exams, nil
}

func (r *examRepository) FindByID(ctx context.Context, db *gorm.DB, patientID, id uuid.UUID) (*entity.Exam, error) {
	var exam entity.Exam
	err := db.WithContext(ctx).Where("id = ? AND paciente_id = ?", id, patientID).First(&exam).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &exam, nil
}
