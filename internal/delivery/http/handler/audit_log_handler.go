package handler

import (
	"net/http"

	"clinical-registry/internal/delivery/dto"
	"clinical-registry/internal/usecase"
	"clinical-registry/pkg/response"
)

type AuditLogHandler struct {
	auditLogUsecase usecase.AuditLogUsecase
}

func NewAuditLogHandler(auditLogUsecase usecase.AuditLogUsecase) *AuditLogHandler {
	return &AuditLogHandler{
		auditLogUsecase: auditLogUsecase,
	}
}

func (h *AuditLogHandler) GetAllAuditLogs(w http.ResponseWriter, r *http.Request) {
	query := &dto.AuditLogListQuery{
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "page_size"),
	}

	result, err := h.auditLogUsecase.GetAllAuditLogs(r.Context(), query)
	if err != nil {
		response.InternalServerError(w, "Failed to get audit logs")
		return
	}

	meta := &response.Meta{
		Page:     result.Page,
		PageSize: result.PageSize,
		Total:    result.Total,
		Pages:    result.Pages,
	}

	response.SuccessWithMeta(w, http.StatusOK, "Audit logs retrieved successfully", result.Logs, meta)
}

func (h *AuditLogHandler) GetRecordHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	logs, err := h.auditLogUsecase.GetAuditLogsByRecord(r.Context(), id)
	if err != nil {
		response.InternalServerError(w, "Failed to get audit logs")
		return
	}

	response.Success(w, http.StatusOK, "Audit logs retrieved successfully", logs)
}
