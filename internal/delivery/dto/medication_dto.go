package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateMedicationRequest struct {
	Name      string   `json:"name" validate:"required,max=255"`
	Dosage    string   `json:"dosage" validate:"required,max=120"`
	Frequency string   `json:"frequency" validate:"required,max=120"`
	Times     []string `json:"times"`
	StartDate string   `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string   `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Notes     string   `json:"notes" validate:"omitempty,max=2000"`
}

// Response DTOs

type MedicationResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Dosage     string    `json:"dosage"`
	Frequency  string    `json:"frequency"`
	Times      []string  `json:"times"`
	StartDate  string    `json:"start_date"`
	EndDate    *string   `json:"end_date"`
	Continuous bool      `json:"continuous"`
	Notes      string    `json:"notes"`
	CreatedAt  time.Time `json:"created_at"`
}

type MedicationListResponse struct {
	Medications []MedicationResponse `json:"medications"`
	Total       int                  `json:"total"`
}
