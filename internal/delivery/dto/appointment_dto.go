package dto

import (
	"time"

	"github.com/google/uuid"
)

// Request DTOs

type CreateAppointmentRequest struct {
	Date        string `json:"date" validate:"required,datetime=2006-01-02"`
	Time        string `json:"time" validate:"required,datetime=15:04"`
	SpecialtyID int    `json:"specialty_id" validate:"required,min=1"`
	Notes       string `json:"notes" validate:"omitempty,max=2000"`
}

// Response DTOs

type AppointmentResponse struct {
	ID        uuid.UUID          `json:"id"`
	Date      string             `json:"date"`
	Time      string             `json:"time"`
	Status    string             `json:"status"`
	Notes     string             `json:"notes"`
	Specialty *SpecialtyResponse `json:"specialty,omitempty"`
	CreatedAt time.Time          `json:"created_at"`
}

type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}
