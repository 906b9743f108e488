package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"alartmed/internal/delivery/dto"
	"alartmed/internal/usecase"
	"alartmed/pkg/response"
	"alartmed/pkg/validator"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type MedicationHandler struct {
	medicationUsecase usecase.MedicationUsecase
	validator         *validator.CustomValidator
}

func NewMedicationHandler(medicationUsecase usecase.MedicationUsecase, validator *validator.CustomValidator) *MedicationHandler {
	return &MedicationHandler{
		medicationUsecase: medicationUsecase,
		validator:         validator,
	}
}

func (h *MedicationHandler) GetMyMedications(w http.ResponseWriter, r *http.Request) {
	medications, err := h.medicationUsecase.GetMyMedications(r.Context())
	if err != nil {
		writeFeatureError(w, err, "Failed to get medications")
		return
	}

	response.Success(w, http.StatusOK, "Medications retrieved successfully", medications)
}

func (h *MedicationHandler) CreateMedication(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateMedicationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	medication, err := h.medicationUsecase.CreateMedication(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrMedicationTimesRequired),
			errors.Is(err, usecase.ErrInvalidMedicationTime),
			errors.Is(err, usecase.ErrInvalidDate):
			response.BadRequest(w, err.Error())
		default:
			writeFeatureError(w, err, usecase.ErrMedicationFailed.Error())
		}
		return
	}

	response.Success(w, http.StatusCreated, usecase.MsgMedicationCreated, medication)
}

func (h *MedicationHandler) DeleteMedication(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	medicationID, err := uuid.Parse(vars["id"])
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid medication ID", nil)
		return
	}

	medications, err := h.medicationUsecase.DeleteMedication(r.Context(), medicationID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrMedicationNotFound):
			response.NotFound(w, "Medication not found")
		default:
			writeFeatureError(w, err, usecase.ErrMedicationDeleteFailed.Error())
		}
		return
	}

	response.Success(w, http.StatusOK, "Medication deleted successfully", medications)
}
