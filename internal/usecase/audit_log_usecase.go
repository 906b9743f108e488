package usecase

import (
	"context"

	"alartmed/internal/converter"
	"alartmed/internal/delivery/dto"
	"alartmed/internal/delivery/http/middleware"
	"alartmed/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const activityLimit = 50

type AuditLogUsecase interface {
	GetMyActivity(ctx context.Context) (*dto.AuditLogListResponse, error)
}

type auditLogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	auditLogRepo repository.AuditLogRepository,
) AuditLogUsecase {
	return &auditLogUsecase{
		db:           db,
		log:          log,
		auditLogRepo: auditLogRepo,
	}
}

// GetMyActivity returns the user's most recent audit trail entries
func (u *auditLogUsecase) GetMyActivity(ctx context.Context) (*dto.AuditLogListResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUserNotInContext
	}

	logs, err := u.auditLogRepo.FindByUserID(ctx, u.db, userID, activityLimit)
	if err != nil {
		u.log.Warnf("Failed to find audit logs for user %s: %+v", userID, err)
		return nil, err
	}

	return &dto.AuditLogListResponse{
		Logs:  converter.AuditLogsToResponses(logs),
		Total: len(logs),
	}, nil
}
