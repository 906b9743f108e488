package dto

import (
	"github.com/google/uuid"
)

type ExamResponse struct {
	ID              uuid.UUID `json:"id"`
	Type            string    `json:"type"`
	RequestedAt     string    `json:"requested_at"`
	PerformedAt     *string   `json:"performed_at"`
	ResultAt        *string   `json:"result_at"`
	ResultAvailable bool      `json:"result_available"`
	ResultURL       *string   `json:"result_url"`
	Notes           string    `json:"notes"`
}

type ExamListResponse struct {
	Exams []ExamResponse `json:"exams"`
	Total int            `json:"total"`
}

type MarkExamSeenResponse struct {
	Updated int64 `json:"updated"`
}
