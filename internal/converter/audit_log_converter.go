package converter

import (
	"clinical-registry/internal/delivery/dto"
	"clinical-registry/internal/domain/entity"

	"github.com/samber/lo"
)

// AuditLogToResponse converts a AuditLog entity to AuditLogResponse DTO
func AuditLogToResponse(log *entity.AuditLog) *dto.AuditLogResponse {
	if log == nil {
		return nil
	}

	return &dto.AuditLogResponse{
		ID:        log.ID,
		Actor:     log.Actor,
		Action:    log.Action,
		RecordID:  log.RecordID,
		Metadata:  log.Metadata,
		CreatedAt: log.CreatedAt.UTC(),
	}
}

// AuditLogsToResponses converts a slice of AuditLog entities to slice of AuditLogResponse DTOs
func AuditLogsToResponses(logs []entity.AuditLog) []dto.AuditLogResponse {
	return lo.Map(logs, func(log entity.AuditLog, _ int) dto.AuditLogResponse {
		return *AuditLogToResponse(&log)
	})
}
