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

const (
	dashboardAppointments  = 3
	dashboardMedications   = 3
	dashboardExams         = 3
	dashboardNotifications = 5
)

type DashboardUsecase interface {
	GetDashboard(ctx context.Context) (*dto.DashboardResponse, error)
}

type dashboardUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	appointmentRepo  repository.AppointmentRepository
	medicationRepo   repository.MedicationRepository
	examRepo         repository.ExamRepository
	notificationRepo repository.NotificationRepository
}

func NewDashboardUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	medicationRepo repository.MedicationRepository,
	examRepo repository.ExamRepository,
	notificationRepo repository.NotificationRepository,
) DashboardUsecase {
	return &dashboardUsecase{
		db:               db,
		log:              log,
		appointmentRepo:  appointmentRepo,
		medicationRepo:   medicationRepo,
		examRepo:         examRepo,
		notificationRepo: notificationRepo,
	}
}

// GetDashboard loads the summary sections one after another
func (u *dashboardUsecase) GetDashboard(ctx context.Context) (*dto.DashboardResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUserNotInContext
	}

	appointments, err := u.appointmentRepo.FindUpcoming(ctx, u.db, userID, dashboardAppointments)
	if err != nil {
		u.log.Warnf("Failed to load upcoming appointments: %+v", err)
		return nil, err
	}

	medications, err := u.medicationRepo.FindByPatientID(ctx, u.db, userID, dashboardMedications)
	if err != nil {
		u.log.Warnf("Failed to load medications: %+v", err)
		return nil, err
	}

	exams, err := u.examRepo.FindByPatientID(ctx, u.db, userID, dashboardExams)
	if err != nil {
		u.log.Warnf("Failed to load exams: %+v", err)
		return nil, err
	}

	notifications, err := u.notificationRepo.FindByOwnerID(ctx, u.db, userID, repository.NotificationFilter{
		UnreadOnly: true,
		Limit:      dashboardNotifications,
	})
	if err != nil {
		u.log.Warnf("Failed to load unread notifications: %+v", err)
		return nil, err
	}

	return &dto.DashboardResponse{
		UpcomingAppointments: converter.AppointmentsToResponses(appointments),
		Medications:          converter.MedicationsToResponses(medications),
		Exams:                converter.ExamsToResponses(exams),
		Notifications:        converter.NotificationsToResponses(notifications),
	}, nil
}
