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

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const MsgMedicationCreated = "Medicamento adicionado com sucesso!"

var (
	ErrMedicationTimesRequired = errors.New("Adicione pelo menos um horário para o medicamento")
	ErrMedicationFailed        = errors.New("Erro ao adicionar medicamento. Por favor, tente novamente.")
	ErrMedicationDeleteFailed  = errors.New("Erro ao excluir medicamento. Por favor, tente novamente.")
	ErrMedicationNotFound      = errors.New("medication not found")
	ErrInvalidMedicationTime   = errors.New("invalid medication time")
)

type MedicationUsecase interface {
	GetMyMedications(ctx context.Context) (*dto.MedicationListResponse, error)
	CreateMedication(ctx context.Context, req *dto.CreateMedicationRequest) (*dto.MedicationResponse, error)
	DeleteMedication(ctx context.Context, medicationID uuid.UUID) (*dto.MedicationListResponse, error)
}

type medicationUsecase struct {
	db               *gorm.DB
	log              *logrus.Logger
	medicationRepo   repository.MedicationRepository
	notificationRepo repository.NotificationRepository
	auditService     service.AuditService
}

func NewMedicationUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	medicationRepo repository.MedicationRepository,
	notificationRepo repository.NotificationRepository,
	auditService service.AuditService,
) MedicationUsecase {
	return &medicationUsecase{
		db:               db,
		log:              log,
		medicationRepo:   medicationRepo,
		notificationRepo: notificationRepo,
		auditService:     auditService,
	}
}

// GetMyMedications returns the patient's medications, newest first
func (u *medicationUsecase) GetMyMedications(ctx context.Context) (*dto.MedicationListResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUserNotInContext
	}
	return u.list(ctx, userID)
}

func (u *medicationUsecase) list(ctx context.Context, userID uuid.UUID) (*dto.MedicationListResponse, error) {
	medications, err := u.medicationRepo.FindByPatientID(ctx, u.db, userID, 0)
	if err != nil {
		u.log.Warnf("Failed to find medications for patient %s: %+v", userID, err)
		return nil, err
	}

	return &dto.MedicationListResponse{
		Medications: converter.MedicationsToResponses(medications),
		Total:       len(medications),
	}, nil
}

// CreateMedication stores the medication and one reminder notification per time of day.
// A reminder that cannot be stored is logged; the medication is still created.
func (u *medicationUsecase) CreateMedication(ctx context.Context, req *dto.CreateMedicationRequest) (*dto.MedicationResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUserNotInContext
	}

	times, err := normalizeTimes(req.Times)
	if err != nil {
		return nil, err
	}

	startDate, err := time.ParseInLocation(dateLayout, req.StartDate, time.UTC)
	if err != nil {
		return nil, ErrInvalidDate
	}
	var endDate *time.Time
	if req.EndDate != "" {
		parsed, err := time.ParseInLocation(dateLayout, req.EndDate, time.UTC)
		if err != nil {
			return nil, ErrInvalidDate
		}
		endDate = &parsed
	}

	medication := &entity.Medication{
		PatientID: userID,
		Name:      strings.TrimSpace(req.Name),
		Dosage:    strings.TrimSpace(req.Dosage),
		Frequency: strings.TrimSpace(req.Frequency),
		Times:     datatypes.JSONSlice[string](times),
		StartDate: startDate,
		EndDate:   endDate,
		Notes:     req.Notes,
	}
	if err := u.medicationRepo.Create(ctx, u.db, medication); err != nil {
		u.log.Warnf("Failed to create medication: %+v", err)
		return nil, ErrMedicationFailed
	}

	for _, at := range times {
		notification := &entity.Notification{
			OwnerID:     userID,
			Kind:        entity.NotificationKindMedication,
			ReferenceID: medication.ID,
			Message:     fmt.Sprintf("Lembrete para tomar %s (%s) às %s", medication.Name, medication.Dosage, at),
		}
		if err := u.notificationRepo.Create(ctx, u.db, notification); err != nil {
			u.log.Warnf("Failed to create reminder for medication %s at %s: %+v", medication.ID, at, err)
		}
	}

	response := converter.MedicationToResponse(medication)
	u.auditService.LogCreate(ctx, userID, entity.AuditActionMedicationCreate, "medication", medication.ID.String(), response)

	return response, nil
}

// DeleteMedication removes the medication's reminders, then the medication, and
// returns the refreshed list. A failed reminder delete is logged and does not stop it.
func (u *medicationUsecase) DeleteMedication(ctx context.Context, medicationID uuid.UUID) (*dto.MedicationListResponse, error) {
	userID, ok := middleware.GetUserIDFromContext(ctx)
	if !ok {
		return nil, ErrUserNotInContext
	}

	if _, err := u.notificationRepo.DeleteByReference(ctx, u.db, userID, entity.NotificationKindMedication, medicationID); err != nil {
		u.log.Warnf("Failed to delete reminders of medication %s: %+v", medicationID, err)
	}

	deleted, err := u.medicationRepo.Delete(ctx, u.db, userID, medicationID)
	if err != nil {
		u.log.Warnf("Failed to delete medication %s: %+v", medicationID, err)
		return nil, ErrMedicationDeleteFailed
	}
	if deleted == 0 {
		return nil, ErrMedicationNotFound
	}

	u.auditService.LogDelete(ctx, userID, entity.AuditActionMedicationDelete, "medication", medicationID.String(), nil)

	return u.list(ctx, userID)
}

// normalizeTimes drops blank entries and zero-pads the rest to HH:MM
func normalizeTimes(raw []string) ([]string, error) {
	times := make([]string, 0, len(raw))
	for _, t := range raw {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		at, err := normalizeClock(t)
		if err != nil {
			return nil, ErrInvalidMedicationTime
		}
		times = append(times, at)
	}
	if len(times) == 0 {
		return nil, ErrMedicationTimesRequired
	}
	return times, nil
}
