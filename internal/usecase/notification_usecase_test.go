package usecase

import (
	"context"
	"testing"
	"time"

	"alartmed/internal/domain/entity"
	"alartmed/internal/repository"
	"alartmed/pkg/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedNotifications(t *testing.T, db *gorm.DB, ownerID uuid.UUID, n int) []entity.Notification {
	t.Helper()

	base := time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)
	created := make([]entity.Notification, 0, n)
	for i := 0; i < n; i++ {
		notification := entity.Notification{
			OwnerID:     ownerID,
			Kind:        entity.NotificationKindAppointment,
			ReferenceID: uuid.New(),
			Message:     "Consulta agendada",
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
		}
		require.NoError(t, db.Create(&notification).Error)
		created = append(created, notification)
	}
	return created
}

func TestNotificationUsecase_MarkAsReadChangesOnlyOne(t *testing.T) {
	db := testutil.NewTestDB(t)
	uc := NewNotificationUsecase(db, testutil.NewLogger(), repository.NewNotificationRepository())

	ownerID := uuid.New()
	seeded := seedNotifications(t, db, ownerID, 3)

	resp, err := uc.MarkAsRead(userContext(ownerID), seeded[1].ID)
	require.NoError(t, err)
	assert.True(t, resp.Read)
	assert.Equal(t, seeded[1].ID, resp.ID)

	list, err := uc.GetMyNotifications(userContext(ownerID))
	require.NoError(t, err)
	assert.Equal(t, 3, list.Total)
	assert.Equal(t, 2, list.Unread)
	// newest first
	assert.Equal(t, seeded[2].ID, list.Notifications[0].ID)
	for _, n := range list.Notifications {
		assert.Equal(t, n.ID == seeded[1].ID, n.Read)
	}
}

func TestNotificationUsecase_MarkAllAsRead(t *testing.T) {
	db := testutil.NewTestDB(t)
	uc := NewNotificationUsecase(db, testutil.NewLogger(), repository.NewNotificationRepository())

	ownerID := uuid.New()
	otherID := uuid.New()
	seeded := seedNotifications(t, db, ownerID, 3)
	seedNotifications(t, db, otherID, 2)

	_, err := uc.MarkAsRead(userContext(ownerID), seeded[0].ID)
	require.NoError(t, err)

	resp, err := uc.MarkAllAsRead(userContext(ownerID))
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.Updated)

	mine, err := uc.GetMyNotifications(userContext(ownerID))
	require.NoError(t, err)
	assert.Zero(t, mine.Unread)

	theirs, err := uc.GetMyNotifications(userContext(otherID))
	require.NoError(t, err)
	assert.Equal(t, 2, theirs.Unread)
}

func TestNotificationUsecase_MarkAsReadOtherOwner(t *testing.T) {
	db := testutil.NewTestDB(t)
	uc := NewNotificationUsecase(db, testutil.NewLogger(), repository.NewNotificationRepository())

	seeded := seedNotifications(t, db, uuid.New(), 1)

	_, err := uc.MarkAsRead(userContext(uuid.New()), seeded[0].ID)
	assert.ErrorIs(t, err, ErrNotificationNotFound)

	_, err = uc.MarkAllAsRead(context.Background())
	assert.ErrorIs(t, err, ErrUserNotInContext)
}
