package repository

import (
	"context"
	"testing"
	"time"

	"alartmed/internal/domain/entity"
	domainRepo "alartmed/internal/domain/repository"
	"alartmed/pkg/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedNotification(t *testing.T, db *gorm.DB, ownerID uuid.UUID, kind entity.NotificationKind, ref uuid.UUID, read bool, createdAt time.Time) entity.Notification {
	t.Helper()
	n := entity.Notification{
		OwnerID:     ownerID,
		Kind:        kind,
		ReferenceID: ref,
		Message:     "msg",
		Read:        read,
		CreatedAt:   createdAt,
	}
	require.NoError(t, NewNotificationRepository().Create(context.Background(), db, &n))
	return n
}

func TestNotificationRepository_FindByOwnerID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewNotificationRepository()
	ctx := context.Background()
	owner := uuid.New()
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	oldest := seedNotification(t, db, owner, entity.NotificationKindAppointment, uuid.New(), false, base)
	read := seedNotification(t, db, owner, entity.NotificationKindMedication, uuid.New(), true, base.Add(time.Hour))
	newest := seedNotification(t, db, owner, entity.NotificationKindExam, uuid.New(), false, base.Add(2*time.Hour))
	seedNotification(t, db, uuid.New(), entity.NotificationKindExam, uuid.New(), false, base.Add(3*time.Hour))

	all, err := repo.FindByOwnerID(ctx, db, owner, domainRepo.NotificationFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, newest.ID, all[0].ID)
	assert.Equal(t, read.ID, all[1].ID)
	assert.Equal(t, oldest.ID, all[2].ID)

	unread, err := repo.FindByOwnerID(ctx, db, owner, domainRepo.NotificationFilter{UnreadOnly: true, Limit: 1})
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, newest.ID, unread[0].ID)
}

func TestNotificationRepository_MarkRead_OnlyTouchesOneRow(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewNotificationRepository()
	ctx := context.Background()
	owner := uuid.New()
	now := time.Now()

	target := seedNotification(t, db, owner, entity.NotificationKindAppointment, uuid.New(), false, now)
	other := seedNotification(t, db, owner, entity.NotificationKindAppointment, uuid.New(), false, now)

	affected, err := repo.MarkRead(ctx, db, owner, target.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	got, err := repo.FindByID(ctx, db, owner, target.ID)
	require.NoError(t, err)
	assert.True(t, got.Read)

	untouched, err := repo.FindByID(ctx, db, owner, other.ID)
	require.NoError(t, err)
	assert.False(t, untouched.Read)
}

func TestNotificationRepository_MarkRead_ScopedByOwner(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewNotificationRepository()
	ctx := context.Background()
	owner := uuid.New()

	n := seedNotification(t, db, owner, entity.NotificationKindAppointment, uuid.New(), false, time.Now())

	affected, err := repo.MarkRead(ctx, db, uuid.New(), n.ID)
	require.NoError(t, err)
	assert.Zero(t, affected)

	got, err := repo.FindByID(ctx, db, owner, n.ID)
	require.NoError(t, err)
	assert.False(t, got.Read)
}

func TestNotificationRepository_MarkAllRead(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewNotificationRepository()
	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()
	now := time.Now()

	seedNotification(t, db, owner, entity.NotificationKindAppointment, uuid.New(), false, now)
	seedNotification(t, db, owner, entity.NotificationKindMedication, uuid.New(), false, now)
	seedNotification(t, db, owner, entity.NotificationKindExam, uuid.New(), true, now)
	seedNotification(t, db, stranger, entity.NotificationKindExam, uuid.New(), false, now)

	affected, err := repo.MarkAllRead(ctx, db, owner)
	require.NoError(t, err)
	assert.Equal(t, int64(2), affected)

	unread, err := repo.FindByOwnerID(ctx, db, owner, domainRepo.NotificationFilter{UnreadOnly: true})
	require.NoError(t, err)
	assert.Empty(t, unread)

	strangerUnread, err := repo.FindByOwnerID(ctx, db, stranger, domainRepo.NotificationFilter{UnreadOnly: true})
	require.NoError(t, err)
	assert.Len(t, strangerUnread, 1)
}

func TestNotificationRepository_ByReference(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewNotificationRepository()
	ctx := context.Background()
	owner := uuid.New()
	ref := uuid.New()
	now := time.Now()

	seedNotification(t, db, owner, entity.NotificationKindMedication, ref, false, now)
	seedNotification(t, db, owner, entity.NotificationKindMedication, ref, false, now)
	sameRefOtherKind := seedNotification(t, db, owner, entity.NotificationKindExam, ref, false, now)
	otherRef := seedNotification(t, db, owner, entity.NotificationKindMedication, uuid.New(), false, now)

	affected, err := repo.MarkReadByReference(ctx, db, owner, entity.NotificationKindExam, ref)
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	got, err := repo.FindByID(ctx, db, owner, sameRefOtherKind.ID)
	require.NoError(t, err)
	assert.True(t, got.Read)

	deleted, err := repo.DeleteByReference(ctx, db, owner, entity.NotificationKindMedication, ref)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	remaining, err := repo.FindByOwnerID(ctx, db, owner, domainRepo.NotificationFilter{})
	require.NoError(t, err)
	require.Len(t, remaining, 2)
	ids := []uuid.UUID{remaining[0].ID, remaining[1].ID}
	assert.Contains(t, ids, sameRefOtherKind.ID)
	assert.Contains(t, ids, otherRef.ID)
}
