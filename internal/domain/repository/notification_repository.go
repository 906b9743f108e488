package repository

import (
	"context"

	"alartmed/internal/domain/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NotificationFilter narrows a notification listing
type NotificationFilter struct {
	UnreadOnly bool
	Limit      int
}

type NotificationRepository interface {
	Create(ctx context.Context, db *gorm.DB, notification *entity.Notification) error
	FindByID(ctx context.Context, db *gorm.DB, ownerID, id uuid.UUID) (*entity.Notification, error)
	// FindByOwnerID returns the newest notifications first.
	FindByOwnerID(ctx context.Context, db *gorm.DB, ownerID uuid.UUID, filter NotificationFilter) ([]entity.Notification, error)
	MarkRead(ctx context.Context, db *gorm.DB, ownerID, id uuid.UUID) (int64, error)
	MarkAllRead(ctx context.Context, db *gorm.DB, ownerID uuid.UUID) (int64, error)
	MarkReadByReference(ctx context.Context, db *gorm.DB, ownerID uuid.UUID, kind entity.NotificationKind, referenceID uuid.UUID) (int64, error)
	DeleteByReference(ctx context.Context, db *gorm.DB, ownerID uuid.UUID, kind entity.NotificationKind, referenceID uuid.UUID) (int64, error)
}
