package service

import (
	"context"

	"clinical-registry/internal/domain/entity"
	"clinical-registry/internal/domain/repository"

	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AuditService interface {
	LogCreate(ctx context.Context, tx *gorm.DB, actor string, recordID int64, newValue interface{}) error
	LogUpdate(ctx context.Context, tx *gorm.DB, actor string, recordID int64, oldValue, newValue interface{}) error
	LogDelete(ctx context.Context, tx *gorm.DB, actor string, recordID int64, oldValue interface{}) error
}

type auditService struct {
	log       *logrus.Logger
	auditRepo repository.AuditLogRepository
}

func NewAuditService(log *logrus.Logger, auditRepo repository.AuditLogRepository) AuditService {
	return &auditService{
		log:       log,
		auditRepo: auditRepo,
	}
}

// LogCreate logs a create action
func (s *auditService) LogCreate(ctx context.Context, tx *gorm.DB, actor string, recordID int64, newValue interface{}) error {
	return s.write(ctx, tx, actor, entity.AuditActionPatientCreate, recordID, nil, newValue)
}

// LogUpdate logs an update action with old and new values
func (s *auditService) LogUpdate(ctx context.Context, tx *gorm.DB, actor string, recordID int64, oldValue, newValue interface{}) error {
	return s.write(ctx, tx, actor, entity.AuditActionPatientUpdate, recordID, oldValue, newValue)
}

// LogDelete logs a delete action with old value
func (s *auditService) LogDelete(ctx context.Context, tx *gorm.DB, actor string, recordID int64, oldValue interface{}) error {
	return s.write(ctx, tx, actor, entity.AuditActionPatientDelete, recordID, oldValue, nil)
}

func (s *auditService) write(ctx context.Context, tx *gorm.DB, actor, action string, recordID int64, oldValue, newValue interface{}) error {
	if actor == "" {
		actor = entity.ActorAnonymous
	}

	auditLog := &entity.AuditLog{
		Actor:    actor,
		Action:   action,
		RecordID: recordID,
		Metadata: datatypes.JSONMap{
			"old_value": oldValue,
			"new_value": newValue,
		},
	}

	if err := s.auditRepo.Create(ctx, tx, auditLog); err != nil {
		s.log.Warnf("Failed to create audit log: %+v", err)
		return err
	}

	return nil
}
