package converter

import (
	"alartmed/internal/delivery/dto"
	"alartmed/internal/domain/entity"
)

// ExamToResponse converts an Exam entity to ExamResponse DTO
func ExamToResponse(exam *entity.Exam) *dto.ExamResponse {
	if exam == nil {
		return nil
	}

	return &dto.ExamResponse{
		ID:              exam.ID,
		Type:            exam.Type,
		RequestedAt:     exam.RequestedAt.Format(dateLayout),
		PerformedAt:     formatOptionalDate(exam.PerformedAt),
		ResultAt:        formatOptionalDate(exam.ResultAt),
		ResultAvailable: exam.ResultAvailable,
		ResultURL:       exam.ResultURL,
		Notes:           exam.Notes,
	}
}

func ExamsToResponses(exams []entity.Exam) []dto.ExamResponse {
	responses := make([]dto.ExamResponse, len(exams))
	for i := range exams {
		responses[i] = *ExamToResponse(&exams[i])
	}
	return responses
}
