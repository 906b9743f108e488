package converter

import (
	"time"

	"alartmed/internal/delivery/dto"
	"alartmed/internal/domain/entity"
)

func formatOptionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(dateLayout)
	return &formatted
}

// MedicationToResponse converts a Medication entity to MedicationResponse DTO
func MedicationToResponse(medication *entity.Medication) *dto.MedicationResponse {
	if medication == nil {
		return nil
	}

	times := make([]string, len(medication.Times))
	copy(times, medication.Times)

	return &dto.MedicationResponse{
		ID:         medication.ID,
		Name:       medication.Name,
		Dosage:     medication.Dosage,
		Frequency:  medication.Frequency,
		Times:      times,
		StartDate:  medication.StartDate.Format(dateLayout),
		EndDate:    formatOptionalDate(medication.EndDate),
		Continuous: medication.IsContinuous(),
		Notes:      medication.Notes,
		CreatedAt:  medication.CreatedAt,
	}
}

func MedicationsToResponses(medications []entity.Medication) []dto.MedicationResponse {
	responses := make([]dto.MedicationResponse, len(medications))
	for i := range medications {
		responses[i] = *MedicationToResponse(&medications[i])
	}
	return responses
}
