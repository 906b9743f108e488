package usecase

import (
	"context"
	"testing"

	"alartmed/internal/delivery/http/middleware"
	"alartmed/internal/domain/entity"
	"alartmed/internal/gateway"
	"alartmed/internal/repository"
	"alartmed/internal/service"
	"alartmed/pkg/testutil"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func userContext(userID uuid.UUID) context.Context {
	return middleware.WithIdentity(context.Background(), &gateway.User{ID: userID, Email: "a@example.com"}, nil)
}

func newAuditService(db *gorm.DB) service.AuditService {
	return service.NewAuditService(db, testutil.NewLogger(), repository.NewAuditLogRepository())
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()

	var count int64
	if err := db.Model(model).Count(&count).Error; err != nil {
		t.Fatalf("failed to count rows: %v", err)
	}
	return count
}

func notificationsOf(t *testing.T, db *gorm.DB, ownerID uuid.UUID) []entity.Notification {
	t.Helper()

	var notifications []entity.Notification
	if err := db.Where("usuario_id = ?", ownerID).Order("mensagem ASC").Find(&notifications).Error; err != nil {
		t.Fatalf("failed to load notifications: %v", err)
	}
	return notifications
}
