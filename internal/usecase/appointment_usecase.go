package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"alartmed/internal/converter"
	"alartmed/internal/delivery/dto"
	"alartmed/internal/delivery/http/middleware"
	"alartmed/internal/domain/entity"
	"alartmed/internal/domain/repository"
	"alartmed/internal/service"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	dateLayout        = "2006-01-02"
	displayDateLayout = "02/01/2006"
	clockLayout       = "15:04"

	MsgAppointmentCreated = "Consulta agendada com sucesso!"
)

var (
	ErrUserNotInContext    = errors.New("user not found in context")
	ErrPastAppointmentDate = errors.New("A data da consulta não pode ser no passado")
	ErrAppointmentFailed   = errors.New("Erro ao agendar consulta. Por favor, tente novamente.")
	ErrSpecialtyNotFound   = errors.New("specialty not found")
	ErrInvalidDate         = errors.New("invalid date")
	ErrInvalidTime         = errors.New("invalid time")
)

type AppointmentUsecase interface {
	GetMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error)
	CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error)
}

type appointmentUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	appointmentRepo  repository.AppointmentRepository
	specialtyRepo    repository.SpecialtyRepository
	notificationRepo repository.NotificationRepository
	auditService     service.AuditService
	location         *time.Location
	now              func() time.Time
}

func NewAppointmentUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	appointmentRepo repository.AppointmentRepository,
	specialtyRepo repository.SpecialtyRepository,
	notificationRepo repository.NotificationRepository,
	auditService service.AuditService,
	location *time.Location,
	now func() time.Time,
) AppointmentUsecase {
	if now == nil {
		now = time.Now
	}
	return &appointmentUsecase{
		db:               db,
		log:              log,
		appointmentRepo:  appointmentRepo,
		specialtyRepo:    specialtyRepo,
		notificationRepo: notificationRepo,
		auditService:     auditService,
		location:         location,
		now:              now,
	}
}

// GetMyAppointments returns the patient's appointments, earliest first
func (u *appointmentUsecase) GetMyAppointments(ctx context.Context) (*dto.AppointmentListResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUserNotInContext
	}

	appointments, err := u.appointmentRepo.FindByPatientID(ctx, u.db, userID)
	if err != nil {
		u.log.Warnf("Failed to find appointments for patient %s: %+v", userID, err)
		return nil, err
	}

	return &dto.AppointmentListResponse{
		Appointments: converter.AppointmentsToResponses(appointments),
		Total:        len(appointments),
	}, nil
}

// CreateAppointment books an appointment and records a notification for it.
// The two inserts are independent: a failed notification is logged and the booking still succeeds.
func (u *appointmentUsecase) CreateAppointment(ctx context.Context, req *dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUserNotInContext
	}

	date, err := time.ParseInLocation(dateLayout, req.Date, time.UTC)
	if err != nil {
		return nil, ErrInvalidDate
	}
	if date.Before(u.today()) {
		return nil, ErrPastAppointmentDate
	}
	at, err := normalizeClock(req.Time)
	if err != nil {
		return nil, ErrInvalidTime
	}

	specialty, err := u.specialtyRepo.FindByID(ctx, u.db, req.SpecialtyID)
	if err != nil {
		u.log.Warnf("Failed to find specialty %d: %+v", req.SpecialtyID, err)
		return nil, ErrAppointmentFailed
	}
	if specialty == nil {
		return nil, ErrSpecialtyNotFound
	}

	appointment := &entity.Appointment{
		PatientID:   userID,
		SpecialtyID: specialty.ID,
		Date:        date,
		Time:        at,
		Status:      entity.AppointmentStatusScheduled,
		Notes:       req.Notes,
	}
	if err := u.appointmentRepo.Create(ctx, u.db, appointment); err != nil {
		u.log.Warnf("Failed to create appointment: %+v", err)
		return nil, ErrAppointmentFailed
	}

	notification := &entity.Notification{
		OwnerID:     userID,
		Kind:        entity.NotificationKindAppointment,
		ReferenceID: appointment.ID,
		Message:     fmt.Sprintf("Consulta agendada para %s às %s", date.Format(displayDateLayout), at),
	}
	if err := u.notificationRepo.Create(ctx, u.db, notification); err != nil {
		u.log.Warnf("Failed to create notification for appointment %s: %+v", appointment.ID, err)
	}

	appointment.Specialty = specialty
	response := converter.AppointmentToResponse(appointment)
	u.auditService.LogCreate(ctx, userID, entity.AuditActionAppointmentBook, "appointment", appointment.ID.String(), response)

	return response, nil
}

// normalizeClock parses a time of day and returns it zero-padded as HH:MM
func normalizeClock(raw string) (string, error) {
	parsed, err := time.Parse(clockLayout, strings.TrimSpace(raw))
	if err != nil {
		return "", err
	}
	return parsed.Format(clockLayout), nil
}

// today is the current calendar date in the configured zone, as UTC midnight
func (u *appointmentUsecase) today() time.Time {
	now := u.now().In(u.location)
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
