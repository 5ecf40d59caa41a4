package repository

import (
	"context"
	"errors"
	"strings"

	"clinical-registry/internal/domain/entity"
	domainRepo "clinical-registry/internal/domain/repository"

	"gorm.io/gorm"
)

type patientRecordRepository struct{}

func NewPatientRecordRepository() domainRepo.PatientRecordRepository {
	return &patientRecordRepository{}
}

func (r *patientRecordRepository) Create(ctx context.Context, db *gorm.DB, record *entity.PatientRecord) error {
	return db.WithContext(ctx).Create(record).Error
}

func (r *patientRecordRepository) FindByID(ctx context.Context, db *gorm.DB, id int64) (*entity.PatientRecord, error) {
	var record entity.PatientRecord
	err := db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}

func (r *patientRecordRepository) FindAll(ctx context.Context, db *gorm.DB, filter entity.PatientRecordFilter, limit, offset int) ([]entity.PatientRecord, int64, error) {
	var records []entity.PatientRecord
	var total int64

	if err := applyPatientRecordFilter(db.WithContext(ctx).Model(&entity.PatientRecord{}), filter).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := applyPatientRecordFilter(db.WithContext(ctx), filter).
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (r *patientRecordRepository) FindAllUnpaged(ctx context.Context, db *gorm.DB) ([]entity.PatientRecord, error) {
	var records []entity.PatientRecord
	if err := db.WithContext(ctx).Order("id DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *patientRecordRepository) Update(ctx context.Context, db *gorm.DB, record *entity.PatientRecord) error {
	return db.WithContext(ctx).Save(record).Error
}

func (r *patientRecordRepository) Delete(ctx context.Context, db *gorm.DB, id int64) (int64, error) {
	result := db.WithContext(ctx).Where("id = ?", id).Delete(&entity.PatientRecord{})
	return result.RowsAffected, result.Error
}

type bucketCount struct {
	Label *string
	Count int64
}

func (r *patientRecordRepository) Stats(ctx context.Context, db *gorm.DB) (*entity.PatientRecordStats, error) {
	stats := &entity.PatientRecordStats{
		ByRisk:        map[string]int64{},
		ByBMICategory: map[string]int64{},
	}

	if err := db.WithContext(ctx).Model(&entity.PatientRecord{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	var byRisk []bucketCount
	err := db.WithContext(ctx).Model(&entity.PatientRecord{}).
		Select("risk AS label, COUNT(*) AS count").
		Group("risk").
		Scan(&byRisk).Error
	if err != nil {
		return nil, err
	}
	foldBuckets(stats.ByRisk, byRisk)

	var byBMI []bucketCount
	err = db.WithContext(ctx).Model(&entity.PatientRecord{}).
		Select("bmi_cat AS label, COUNT(*) AS count").
		Group("bmi_cat").
		Scan(&byBMI).Error
	if err != nil {
		return nil, err
	}
	foldBuckets(stats.ByBMICategory, byBMI)

	if err := db.WithContext(ctx).Model(&entity.PatientRecord{}).Where("has_hypertension = ?", entity.FlagYes).Count(&stats.WithHypertension).Error; err != nil {
		return nil, err
	}
	if err := db.WithContext(ctx).Model(&entity.PatientRecord{}).Where("has_obesity = ?", entity.FlagYes).Count(&stats.WithObesity).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// applyPatientRecordFilter translates the filter into WHERE clauses. The name
// is matched as a literal substring.
func applyPatientRecordFilter(db *gorm.DB, filter entity.PatientRecordFilter) *gorm.DB {
	if risk := strings.TrimSpace(filter.Risk); risk != "" {
		db = db.Where("LOWER(risk) = LOWER(?)", risk)
	}
	if name := strings.TrimSpace(filter.Name); name != "" {
		db = db.Where(`LOWER(name) LIKE LOWER(?) ESCAPE '\'`, "%"+likeEscaper.Replace(name)+"%")
	}
	return db
}

// foldBuckets merges NULL and empty labels into the unknown bucket.
func foldBuckets(dst map[string]int64, rows []bucketCount) {
	for _, row := range rows {
		label := entity.UnknownBucket
		if row.Label != nil && *row.Label != "" {
			label = *row.Label
		}
		dst[label] += row.Count
	}
}
