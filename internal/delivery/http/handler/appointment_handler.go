package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"alartmed/internal/delivery/dto"
	"alartmed/internal/usecase"
	"alartmed/pkg/response"
	"alartmed/pkg/validator"
)

type AppointmentHandler struct {
	appointmentUsecase usecase.AppointmentUsecase
	validator          *validator.CustomValidator
}

func NewAppointmentHandler(appointmentUsecase usecase.AppointmentUsecase, validator *validator.CustomValidator) *AppointmentHandler {
	return &AppointmentHandler{
		appointmentUsecase: appointmentUsecase,
		validator:          validator,
	}
}

func (h *AppointmentHandler) GetMyAppointments(w http.ResponseWriter, r *http.Request) {
	appointments, err := h.appointmentUsecase.GetMyAppointments(r.Context())
	if err != nil {
		writeFeatureError(w, err, "Failed to get appointments")
		return
	}

	response.Success(w, http.StatusOK, "Appointments retrieved successfully", appointments)
}

func (h *AppointmentHandler) CreateAppointment(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAppointmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	appointment, err := h.appointmentUsecase.CreateAppointment(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrPastAppointmentDate), errors.Is(err, usecase.ErrInvalidDate), errors.Is(err, usecase.ErrInvalidTime):
			response.BadRequest(w, err.Error())
		case errors.Is(err, usecase.ErrSpecialtyNotFound):
			response.NotFound(w, "Specialty not found")
		default:
			writeFeatureError(w, err, usecase.ErrAppointmentFailed.Error())
		}
		return
	}

	response.Success(w, http.StatusCreated, usecase.MsgAppointmentCreated, appointment)
}

// writeFeatureError answers errors every guarded view shares
func writeFeatureError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, usecase.ErrUserNotInContext) {
		response.Redirect(w, "Unauthorized", "/")
		return
	}
	response.InternalServerError(w, fallback)
}
