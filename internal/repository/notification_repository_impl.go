package repository

import (
	"context"
	"errors"

	"alartmed/internal/domain/entity"
	domainRepo "alartmed/internal/domain/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type notificationRepository struct{}

func NewNotificationRepository() domainRepo.NotificationRepository {
	return &notificationRepository{}
}

func (r *notificationRepository) Create(ctx context.Context, db *gorm.DB, notification *entity.Notification) error {
	return db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepository) FindByID(ctx context.Context, db *gorm.DB, ownerID, id uuid.UUID) (*entity.Notification, error) {
	var notification entity.Notification
	err := db.WithContext(ctx).Where("id = ? AND usuario_id = ?", id, ownerID).First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &notification, nil
}

func (r *notificationRepository) FindByOwnerID(ctx context.Context, db *gorm.DB, ownerID uuid.UUID, filter domainRepo.NotificationFilter) ([]entity.Notification, error) {
	var notifications []entity.Notification
	query := db.WithContext(ctx).Where("usuario_id = ?", ownerID)
	if filter.UnreadOnly {
		query = query.Where("lida = ?", false)
	}
	query = query.Order("created_at DESC")
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if err := query.Find(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, db *gorm.DB, ownerID, id uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.Notification{}).
		Where("id = ? AND usuario_id = ?", id, ownerID).
		Update("lida", true)
	return result.RowsAffected, result.Error
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, db *gorm.DB, ownerID uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.Notification{}).
		Where("usuario_id = ? AND lida = ?", ownerID, false).
		Update("lida", true)
	return result.RowsAffected, result.Error
}

func (r *notificationRepository) MarkReadByReference(ctx context.Context, db *gorm.DB, ownerID uuid.UUID, kind entity.NotificationKind, referenceID uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).Model(&entity.Notification{}).
		Where("usuario_id = ? AND tipo = ? AND referencia_id = ?", ownerID, kind, referenceID).
		Update("lida", true)
	return result.RowsAffected, result.Error
}

func (r *notificationRepository) DeleteByReference(ctx context.Context, db *gorm.DB, ownerID uuid.UUID, kind entity.NotificationKind, referenceID uuid.UUID) (int64, error) {
	result := db.WithContext(ctx).
		Where("usuario_id = ? AND tipo = ? AND referencia_id = ?", ownerID, kind, referenceID).
		Delete(&entity.Notification{})
	return result.RowsAffected, result.Error
}
