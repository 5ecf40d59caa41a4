package repository

import (
	"context"

	"clinical-registry/internal/domain/entity"

	"gorm.io/gorm"
)

type AuditLogRepository interface {
	Create(ctx context.Context, db *gorm.DB, log *entity.AuditLog) error
	FindAll(ctx context.Context, db *gorm.DB, limit, offset int) ([]entity.AuditLog, int64, error)
	FindByRecordID(ctx context.Context, db *gorm.DB, recordID int64) ([]entity.AuditLog, error)
}
