package handler

import (
	"errors"
	"net/http"

	"alartmed/internal/usecase"
	"alartmed/pkg/response"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type ExamHandler struct {
	examUsecase usecase.ExamUsecase
}

func NewExamHandler(examUsecase usecase.ExamUsecase) *ExamHandler {
	return &ExamHandler{
		examUsecase: examUsecase,
	}
}

func (h *ExamHandler) GetMyExams(w http.ResponseWriter, r *http.Request) {
	exams, err := h.examUsecase.GetMyExams(r.Context())
	if err != nil {
		writeFeatureError(w, err, "Failed to get exams")
		return
	}

	response.Success(w, http.StatusOK, "Exams retrieved successfully", exams)
}

func (h *ExamHandler) MarkExamSeen(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	examID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid exam ID", nil)
		return
	}

	result, err := h.examUsecase.MarkExamSeen(r.Context(), examID)
	if err != nil {
		if errors.Is(err, usecase.ErrExamNotFound) {
			response.NotFound(w, "Exam not found")
			return
		}
		writeFeatureError(w, err, "Failed to update exam notifications")
		return
	}

	response.Success(w, http.StatusOK, "Exam marked as seen", result)
}
