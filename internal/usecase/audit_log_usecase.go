package usecase

import (
	"context"

	"clinical-registry/internal/converter"
	"clinical-registry/internal/delivery/dto"
	"clinical-registry/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AuditLogUsecase interface {
	GetAllAuditLogs(ctx context.Context, query *dto.AuditLogListQuery) (*dto.AuditLogListResponse, error)
	GetAuditLogsByRecord(ctx context.Context, recordID int64) ([]dto.AuditLogResponse, error)
}

type auditLogUsecase struct {
	db           *gorm.DB
	log          *logrus.Logger
	auditLogRepo repository.AuditLogRepository
}

func NewAuditLogUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	auditLogRepo repository.AuditLogRepository,
) AuditLogUsecase {
	return &auditLogUsecase{
		db:           db,
		log:          log,
		auditLogRepo: auditLogRepo,
	}
}

func (u *auditLogUsecase) GetAllAuditLogs(ctx context.Context, query *dto.AuditLogListQuery) (*dto.AuditLogListResponse, error) {
	page, pageSize := normalizePage(query.Page, query.PageSize)

	logs, total, err := u.auditLogRepo.FindAll(ctx, u.db, pageSize, (page-1)*pageSize)
	if err != nil {
		u.log.Warnf("Failed to find all audit logs: %+v", err)
		return nil, err
	}

	return &dto.AuditLogListResponse{
		Logs:     converter.AuditLogsToResponses(logs),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Pages:    totalPages(total, pageSize),
	}, nil
}

// GetAuditLogsByRecord returns the history of one record, oldest first. A
// deleted record keeps its history.
func (u *auditLogUsecase) GetAuditLogsByRecord(ctx context.Context, recordID int64) ([]dto.AuditLogResponse, error) {
	logs, err := u.auditLogRepo.FindByRecordID(ctx, u.db, recordID)
	if err != nil {
		u.log.Warnf("Failed to find audit logs for record %d: %+v", recordID, err)
		return nil, err
	}

	return converter.AuditLogsToResponses(logs), nil
}
