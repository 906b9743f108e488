package usecase

import (
	"context"
	"errors"

	"alartmed/internal/converter"
	"alartmed/internal/delivery/dto"
	"alartmed/internal/delivery/http/middleware"
	"alartmed/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrNotificationNotFound = errors.New("notification not found")
)

type NotificationUsecase interface {
	GetMyNotifications(ctx context.Context) (*dto.NotificationListResponse, error)
	MarkAsRead(ctx context.Context, notificationID uuid.UUID) (*dto.NotificationResponse, error)
	MarkAllAsRead(ctx context.Context) (*dto.MarkAllReadResponse, error)
}

type notificationUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	notificationRepo repository.NotificationRepository
}

func NewNotificationUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	notificationRepo repository.NotificationRepository,
) NotificationUsecase {
	return &notificationUsecase{
		db:               db,
		log:              log,
		notificationRepo: notificationRepo,
	}
}

// GetMyNotifications returns every notification of the user, newest first
func (u *notificationUsecase) GetMyNotifications(ctx context.Context) (*dto.NotificationListResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUserNotInContext
	}

	notifications, err := u.notificationRepo.FindByOwnerID(ctx, u.db, userID, repository.NotificationFilter{})
	if err != nil {
		u.log.Warnf("Failed to find notifications for user %s: %+v", userID, err)
		return nil, err
	}

	unread := 0
	for _, n := range notifications {
		if !n.Read {
			unread++
		}
	}

	return &dto.NotificationListResponse{
		Notifications: converter.NotificationsToResponses(notifications),
		Total:         len(notifications),
		Unread:        unread,
	}, nil
}

// MarkAsRead marks one notification as read and returns it without re-reading the store
func (u *notificationUsecase) MarkAsRead(ctx context.Context, notificationID uuid.UUID) (*dto.NotificationResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUserNotInContext
	}

	notification, err := u.notificationRepo.FindByID(ctx, u.db, userID, notificationID)
	if err != nil {
		u.log.Warnf("Failed to find notification %s: %+v", notificationID, err)
		return nil, err
	}
	if notification == nil {
		return nil, ErrNotificationNotFound
	}

	if _, err := u.notificationRepo.MarkRead(ctx, u.db, userID, notificationID); err != nil {
		u.log.Warnf("Failed to mark notification %s as read: %+v", notificationID, err)
		return nil, err
	}

	notification.Read = true
	return converter.NotificationToResponse(notification), nil
}

// MarkAllAsRead marks every unread notification of the user as read
func (u *notificationUsecase) MarkAllAsRead(ctx context.Context) (*dto.MarkAllReadResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUserNotInContext
	}

	updated, err := u.notificationRepo.MarkAllRead(ctx, u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to mark notifications of user %s as read: %+v", userID, err)
		return nil, err
	}

	return &dto.MarkAllReadResponse{Updated: updated}, nil
}
