package repository

import (
	"context"

	"clinical-registry/internal/domain/entity"

	"gorm.io/gorm"
)

type PatientRecordRepository interface {
	Create(ctx context.Context, db *gorm.DB, record *entity.PatientRecord) error
	FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.PatientRecord, error)
	FindAll(ctx context.Context, db *gorm.DB, filter entity.PatientRecordFilter, limit, offset int) ([]entity.PatientRecord, int64, error)
	FindAllUnpaged(ctx context.Context, db *gorm.DB) ([]entity.PatientRecord, error)
	Update(ctx context.Context, db *gorm.DB, record *entity.PatientRecord) error
	Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error)
	Stats(ctx context.Context, db *gorm.DB) (*entity.PatientRecordStats, error)
}
