package repository

import (
	"context"
	"testing"
	"time"

	"alartmed/internal/domain/entity"
	"alartmed/pkg/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppointmentRepository_FindUpcoming(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := NewAppointmentRepository()
	ctx := context.Background()
	patient := uuid.New()
	cardio := testutil.SeedSpecialty(t, db, "Cardiologia")
	day := func(d int) time.Time { return time.Date(2026, 11, d, 0, 0, 0, 0, time.UTC) }

	appointments := []entity.Appointment{
		{PatientID: patient, SpecialtyID: cardio.ID, Date: day(20), Time: "10:00", Status: entity.AppointmentStatusScheduled},
		{PatientID: patient, SpecialtyID: cardio.ID, Date: day(5), Time: "09:00", Status: entity.AppointmentStatusScheduled},
		{PatientID: patient, SpecialtyID: cardio.ID, Date: day(1), Time: "08:00", Status: entity.AppointmentStatusCancelled},
		{PatientID: patient, SpecialtyID: cardio.ID, Date: day(10), Time: "14:00", Status: entity.AppointmentStatusScheduled},
		{PatientID: patient, SpecialtyID: cardio.ID, Date: day(25), Time: "14:00", Status: entity.AppointmentStatusScheduled},
		{PatientID: uuid.New(), SpecialtyID: cardio.ID, Date: day(2), Time: "14:00", Status: entity.AppointmentStatusScheduled},
	}
	for i := range appointments {
		require.NoError(t, repo.Create(ctx, db, &appointments[i]))
	}

	upcoming, err := repo.FindUpcoming(ctx, db, patient, 3)
	require.NoError(t, err)
	require.Len(t, upcoming, 3)
	assert.Equal(t, day(5).Day(), upcoming[0].Date.Day())
	assert.Equal(t, day(10).Day(), upcoming[1].Date.Day())
	assert.Equal(t, day(20).Day(), upcoming[2].Date.Day())
	require.NotNil(t, upcoming[0].Specialty)
	assert.Equal(t, "Cardiologia", upcoming[0].Specialty.Name)

	all, err := repo.FindByPatientID(ctx, db, patient)
	require.NoError(t, err)
	assert.Len(t, all, 5)
	assert.Equal(t, entity.AppointmentStatusCancelled, all[0].Status)
}
