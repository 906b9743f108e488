package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"alartmed/internal/delivery/dto"
	"alartmed/internal/delivery/http/middleware"
	"alartmed/internal/gateway"
	"alartmed/internal/usecase"
	"alartmed/pkg/response"
	"alartmed/pkg/validator"
)

type AuthHandler struct {
	authUsecase    usecase.AuthUsecase
	authMiddleware *middleware.AuthMiddleware
	validator      *validator.CustomValidator
}

func NewAuthHandler(authUsecase usecase.AuthUsecase, authMiddleware *middleware.AuthMiddleware, validator *validator.CustomValidator) *AuthHandler {
	return &AuthHandler{
		authUsecase:    authUsecase,
		authMiddleware: authMiddleware,
		validator:      validator,
	}
}

// Signup handles patient registration
// @Summary Register a new patient
// @Description Create an account and a patient profile, then sign in
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.SignupRequest true "Signup Request"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/signup [post]
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	holder, ok := middleware.GetHolderFromContext(r.Context())
	if !ok {
		response.InternalServerError(w, usecase.ErrSignupFailed.Error())
		return
	}

	var req dto.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.authUsecase.Signup(r.Context(), holder, &req); err != nil {
		h.authMiddleware.Persist(w, r)
		writeAuthError(w, err)
		return
	}
	h.authMiddleware.Persist(w, r)

	current, err := h.authUsecase.GetSession(r.Context(), holder)
	if err != nil {
		return
	}

	response.Success(w, http.StatusCreated, "Conta criada com sucesso!", current)
}

// Login handles password sign in
// @Summary Login
// @Description Sign in with email and password
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Login Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	holder, ok := middleware.GetHolderFromContext(r.Context())
	if !ok {
		response.InternalServerError(w, usecase.ErrLoginFailed.Error())
		return
	}

	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.authUsecase.Login(r.Context(), holder, &req); err != nil {
		writeAuthError(w, err)
		return
	}
	h.authMiddleware.Persist(w, r)

	current, err := h.authUsecase.GetSession(r.Context(), holder)
	if err != nil {
		return
	}

	response.Success(w, http.StatusOK, "Login realizado com sucesso!", current)
}

// Logout ends the client session and signs the user out everywhere
// @Summary Logout
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	holder, ok := middleware.GetHolderFromContext(r.Context())
	if !ok {
		response.InternalServerError(w, usecase.ErrLogoutFailed.Error())
		return
	}

	if err := h.authUsecase.Logout(r.Context(), holder); err != nil {
		writeAuthError(w, err)
		return
	}
	h.authMiddleware.Persist(w, r)

	response.Success(w, http.StatusOK, "Logout realizado com sucesso!", map[string]string{"redirect": "/"})
}

// ResetPassword sends a recovery email
// @Summary Request password reset
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.ResetPasswordRequest true "Reset Password Request"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /auth/reset-password [post]
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	holder, ok := middleware.GetHolderFromContext(r.Context())
	if !ok {
		response.InternalServerError(w, usecase.ErrResetFailed.Error())
		return
	}

	var req dto.ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.authUsecase.ResetPassword(r.Context(), holder, &req); err != nil {
		writeAuthError(w, err)
		return
	}

	response.Success(w, http.StatusOK, usecase.MsgResetEmailSent, nil)
}

// ConfirmResetPassword sets a new password with the token from the recovery email
// @Summary Confirm password reset
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body dto.ConfirmResetPasswordRequest true "Confirm Reset Password Request"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/reset-password/confirm [post]
func (h *AuthHandler) ConfirmResetPassword(w http.ResponseWriter, r *http.Request) {
	var req dto.ConfirmResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if err := h.validator.Validate(&req); err != nil {
		response.ValidationError(w, h.validator.FormatValidationErrors(err))
		return
	}

	if err := h.authUsecase.ConfirmPasswordReset(r.Context(), &req); err != nil {
		writeAuthError(w, err)
		return
	}

	response.Success(w, http.StatusOK, "Senha redefinida com sucesso!", nil)
}

// GetSession reports the settled state of the client session
// @Summary Current session
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/session [get]
func (h *AuthHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	holder, ok := middleware.GetHolderFromContext(r.Context())
	if !ok {
		response.Success(w, http.StatusOK, "Session retrieved successfully", dto.SessionResponse{Status: "unauthenticated"})
		return
	}

	current, err := h.authUsecase.GetSession(r.Context(), holder)
	if err != nil {
		return
	}
	h.authMiddleware.Persist(w, r)

	response.Success(w, http.StatusOK, "Session retrieved successfully", current)
}

func writeAuthError(w http.ResponseWriter, err error) {
	if authErr, ok := gateway.AsAuthError(err); ok {
		response.Error(w, authErr.Status, authErr.Message, authErr.Code)
		return
	}

	switch {
	case errors.Is(err, usecase.ErrPasswordMismatch):
		response.BadRequest(w, err.Error())
	default:
		response.InternalServerError(w, err.Error())
	}
}
