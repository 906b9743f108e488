package handler

import (
	"net/http"

	"alartmed/internal/usecase"
	"alartmed/pkg/response"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
	}
}

// GetMyActivity lists the signed-in user's recent actions
func (h *AuditLogHandler) GetMyActivity(w http.ResponseWriter, r *http.Request) {
	auditLogs, err := h.auditLogUsecase.GetMyActivity(r.Context())
	if err != nil {
		writeFeatureError(w, err, "Failed to get audit logs")
		return
	}

	response.Success(w, http.StatusOK, "Audit logs retrieved successfully", auditLogs)
}
