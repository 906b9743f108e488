package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"alartmed/internal/delivery/dto"
	"alartmed/internal/domain/entity"
	"alartmed/internal/repository"
	"alartmed/pkg/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDashboard_LimitsEachSection(t *testing.T) {
	db := testutil.NewTestDB(t)
	log := testutil.NewLogger()
	appointmentRepo := repository.NewAppointmentRepository()
	medicationRepo := repository.NewMedicationRepository(log)
	examRepo := repository.NewExamRepository()
	notificationRepo := repository.NewNotificationRepository()
	audit := newAuditService(db)

	loc := time.UTC
	now := func() time.Time { return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC) }
	appointments := NewAppointmentUsecase(db, log, appointmentRepo, repository.NewSpecialtyRepository(), notificationRepo, audit, loc, now)
	medications := NewMedicationUsecase(db, log, medicationRepo, notificationRepo, audit)
	dashboard := NewDashboardUsecase(db, log, appointmentRepo, medicationRepo, examRepo, notificationRepo)

	patientID := uuid.New()
	ctx := userContext(patientID)
	specialty := testutil.SeedSpecialty(t, db, "Dermatologia")

	empty, err := dashboard.GetDashboard(ctx)
	require.NoError(t, err)
	assert.Empty(t, empty.UpcomingAppointments)
	assert.Empty(t, empty.Medications)
	assert.Empty(t, empty.Exams)
	assert.Empty(t, empty.Notifications)

	for day := 25; day >= 20; day-- {
		_, err := appointments.CreateAppointment(ctx, &dto.CreateAppointmentRequest{
			Date:        fmt.Sprintf("2026-10-%02d", day),
			Time:        "10:00",
			SpecialtyID: specialty.ID,
		})
		require.NoError(t, err)
	}
	for i := 0; i < 4; i++ {
		_, err := medications.CreateMedication(ctx, losartana("08:00"))
		require.NoError(t, err)
	}
	for i := 0; i < 4; i++ {
		testutil.SeedExam(t, db, entity.Exam{
			PatientID:   patientID,
			Type:        fmt.Sprintf("Exame %d", i),
			RequestedAt: time.Date(2026, 9, 1+i, 0, 0, 0, 0, time.UTC),
		})
	}

	resp, err := dashboard.GetDashboard(ctx)
	require.NoError(t, err)

	require.Len(t, resp.UpcomingAppointments, 3)
	assert.Equal(t, "2026-10-20", resp.UpcomingAppointments[0].Date)
	assert.Equal(t, "2026-10-22", resp.UpcomingAppointments[2].Date)
	require.NotNil(t, resp.UpcomingAppointments[0].Specialty)
	assert.Equal(t, "Dermatologia", resp.UpcomingAppointments[0].Specialty.Name)

	assert.Len(t, resp.Medications, 3)
	require.Len(t, resp.Exams, 3)
	assert.Equal(t, "Exame 3", resp.Exams[0].Type)
	assert.Len(t, resp.Notifications, 5)
	for _, n := range resp.Notifications {
		assert.False(t, n.Read)
	}
}

func TestDashboard_RequiresUser(t *testing.T) {
	db := testutil.NewTestDB(t)
	log := testutil.NewLogger()
	dashboard := NewDashboardUsecase(db, log, repository.NewAppointmentRepository(), repository.NewMedicationRepository(log), repository.NewExamRepository(), repository.NewNotificationRepository())

	_, err := dashboard.GetDashboard(context.Background())
	assert.ErrorIs(t, err, ErrUserNotInContext)
}
