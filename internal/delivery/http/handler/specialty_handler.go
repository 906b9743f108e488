package handler

import (
	"net/http"

	"alartmed/internal/usecase"
	"alartmed/pkg/response"
)

type SpecialtyHandler struct {
	specialtyUsecase usecase.SpecialtyUsecase
}

func NewSpecialtyHandler(specialtyUsecase usecase.SpecialtyUsecase) *SpecialtyHandler {
	return &SpecialtyHandler{
		specialtyUsecase: specialtyUsecase,
	}
}

func (h *SpecialtyHandler) GetAllSpecialties(w http.ResponseWriter, r *http.Request) {
	specialties, err := h.specialtyUsecase.GetAllSpecialties(r.Context())
	if err != nil {
		response.InternalServerError(w, "Failed to get specialties")
		return
	}

	response.Success(w, http.StatusOK, "Specialties retrieved successfully", specialties)
}
