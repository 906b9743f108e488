package usecase

import (
	"context"
	"errors"

	"alartmed/internal/converter"
	"alartmed/internal/delivery/dto"
	"alartmed/internal/delivery/http/middleware"
	"alartmed/internal/domain/entity"
	"alartmed/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrExamNotFound = errors.New("exam not found")
)

type ExamUsecase interface {
	GetMyExams(ctx context.Context) (*dto.ExamListResponse, error)
	MarkExamSeen(ctx context.Context, examID uuid.UUID) (*dto.MarkExamSeenResponse, error)
}

type examUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	examRepo         repository.ExamRepository
	notificationRepo repository.NotificationRepository
}

func NewExamUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	examRepo repository.ExamRepository,
	notificationRepo repository.NotificationRepository,
) ExamUsecase {
	return &examUsecase{
		db:               db,
		log:              log,
		examRepo:         examRepo,
		notificationRepo: notificationRepo,
	}
}

// GetMyExams returns the patient's exams, most recently requested first
func (u *examUsecase) GetMyExams(ctx context.Context) (*dto.ExamListResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUserNotInContext
	}

	exams, err := u.examRepo.FindByPatientID(ctx, u.db, userID, 0)
	if err != nil {
		u.log.Warnf("Failed to find exams for patient %s: %+v", userID, err)
		return nil, err
	}

	return &dto.ExamListResponse{
		Exams: converter.ExamsToResponses(exams),
		Total: len(exams),
	}, nil
}

// MarkExamSeen marks every notification about the exam as read
func (u *examUsecase) MarkExamSeen(ctx context.Context, examID uuid.UUID) (*dto.MarkExamSeenResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUserNotInContext
	}

	exam, err := u.examRepo.FindByID(ctx, u.db, userID, examID)
	if err != nil {
		u.log.Warnf("Failed to find exam %s: %+v", examID, err)
		return nil, err
	}
	if exam == nil {
		return nil, ErrExamNotFound
	}

	updated, err := u.notificationRepo.MarkReadByReference(ctx, u.db, userID, entity.NotificationKindExam, exam.ID)
	if err != nil {
		u.log.Warnf("Failed to mark notifications of exam %s as read: %+v", examID, err)
		return nil, err
	}

	return &dto.MarkExamSeenResponse{Updated: updated}, nil
}
