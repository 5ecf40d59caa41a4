package usecase

import (
	"context"
	"errors"
	"strings"
	"time"

	"clinical-registry/internal/converter"
	"clinical-registry/internal/delivery/dto"
	"clinical-registry/internal/domain/entity"
	"clinical-registry/internal/domain/repository"
	"clinical-registry/internal/infrastructure/messaging"
	"clinical-registry/internal/service"
	"clinical-registry/pkg/fieldvalue"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

var (
	ErrPatientRecordNotFound = errors.New("patient record not found")
)

// ExportTrigger schedules regeneration of the export artifacts.
type ExportTrigger interface {
	Trigger()
}

type PatientRecordUsecase interface {
	List(ctx context.Context, query *dto.PatientRecordListQuery) (*dto.PatientRecordListResponse, error)
	Get(ctx context.Context, id int64) (*dto.PatientRecordResponse, error)
	Create(ctx context.Context, actor string, req *dto.CreatePatientRecordRequest) (*dto.PatientRecordResponse, error)
	Update(ctx context.Context, actor string, id int64, req *dto.UpdatePatientRecordRequest) (*dto.PatientRecordResponse, error)
	Delete(ctx context.Context, actor string, id int64) error
	Stats(ctx context.Context) (*dto.PatientRecordStatsResponse, error)
}

type patientRecordUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	patientRecordRepo repository.PatientRecordRepository
	auditService      service.AuditService
	statsCache        service.StatsCache
	publisher         messaging.EventPublisher
	exportTrigger     ExportTrigger
	now               func() time.Time
}

func NewPatientRecordUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	patientRecordRepo repository.PatientRecordRepository,
	auditService service.AuditService,
	statsCache service.StatsCache,
	publisher messaging.EventPublisher,
	exportTrigger ExportTrigger,
) PatientRecordUsecase {
	return &patientRecordUsecase{
		db:                db,
		log:               log,
		patientRecordRepo: patientRecordRepo,
		auditService:      auditService,
		statsCache:        statsCache,
		publisher:         publisher,
		exportTrigger:     exportTrigger,
		now:               time.Now,
	}
}

func (u *patientRecordUsecase) List(ctx context.Context, query *dto.PatientRecordListQuery) (*dto.PatientRecordListResponse, error) {
	page, pageSize := normalizePage(query.Page, query.PageSize)
	offset := (page - 1) * pageSize

	filter := entity.PatientRecordFilter{Risk: query.Risk, Name: query.Name}
	records, total, err := u.patientRecordRepo.FindAll(ctx, u.db, filter, pageSize, offset)
	if err != nil {
		u.log.Warnf("Failed to list patient records: %+v", err)
		return nil, err
	}

	return &dto.PatientRecordListResponse{
		Items:    converter.PatientRecordsToResponses(records),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		Pages:    totalPages(total, pageSize),
	}, nil
}

func (u *patientRecordUsecase) Get(ctx context.Context, id int64) (*dto.PatientRecordResponse, error) {
	record, err := u.patientRecordRepo.FindByID(ctx, u.db, id)
	if err != nil {
		u.log.Warnf("Failed to find patient record %d: %+v", id, err)
		return nil, err
	}
	if record == nil {
		return nil, ErrPatientRecordNotFound
	}

	return converter.PatientRecordToResponse(record), nil
}

func (u *patientRecordUsecase) Create(ctx context.Context, actor string, req *dto.CreatePatientRecordRequest) (*dto.PatientRecordResponse, error) {
	record, err := newPatientRecord(req)
	if err != nil {
		return nil, err
	}
	record.CreatedAt = u.now().UTC()
	record.Classify()

	err = u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := u.patientRecordRepo.Create(ctx, tx, record); err != nil {
			return err
		}
		return u.auditService.LogCreate(ctx, tx, actor, record.ID, converter.PatientRecordToRow(record))
	})
	if err != nil {
		u.log.Warnf("Failed to create patient record: %+v", err)
		return nil, err
	}

	u.afterWrite(ctx, entity.EventPatientRecordCreated, actor, record.ID, record)

	return converter.PatientRecordToResponse(record), nil
}

func (u *patientRecordUsecase) Update(ctx context.Context, actor string, id int64, req *dto.UpdatePatientRecordRequest) (*dto.PatientRecordResponse, error) {
	var record *entity.PatientRecord

	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		record, err = u.patientRecordRepo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		if record == nil {
			return ErrPatientRecordNotFound
		}

		before := converter.PatientRecordToRow(record)
		if err := applyPatientRecordUpdate(record, req); err != nil {
			return err
		}
		record.Classify()

		if err := u.patientRecordRepo.Update(ctx, tx, record); err != nil {
			return err
		}
		return u.auditService.LogUpdate(ctx, tx, actor, record.ID, before, converter.PatientRecordToRow(record))
	})
	if err != nil {
		var vErr *ValidationError
		if !errors.Is(err, ErrPatientRecordNotFound) && !errors.As(err, &vErr) {
			u.log.Warnf("Failed to update patient record %d: %+v", id, err)
		}
		return nil, err
	}

	u.afterWrite(ctx, entity.EventPatientRecordUpdated, actor, record.ID, record)

	return converter.PatientRecordToResponse(record), nil
}

// Delete removes the record if it exists. Deleting a missing id succeeds.
func (u *patientRecordUsecase) Delete(ctx context.Context, actor string, id int64) error {
	removed := false

	err := u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := u.patientRecordRepo.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}

		rows, err := u.patientRecordRepo.Delete(ctx, tx, id)
		if err != nil {
			return err
		}
		if rows == 0 || record == nil {
			return nil
		}

		removed = true
		return u.auditService.LogDelete(ctx, tx, actor, id, converter.PatientRecordToRow(record))
	})
	if err != nil {
		u.log.Warnf("Failed to delete patient record %d: %+v", id, err)
		return err
	}

	if removed {
		u.afterWrite(ctx, entity.EventPatientRecordDeleted, actor, id, nil)
		return nil
	}

	u.statsCache.Invalidate(ctx)
	u.exportTrigger.Trigger()
	return nil
}

func (u *patientRecordUsecase) Stats(ctx context.Context) (*dto.PatientRecordStatsResponse, error) {
	stats, generation, ok := u.statsCache.Get(ctx)
	if ok {
		return converter.PatientRecordStatsToResponse(stats), nil
	}

	stats, err := u.patientRecordRepo.Stats(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to compute patient record stats: %+v", err)
		return nil, err
	}
	u.statsCache.Set(ctx, generation, stats)

	return converter.PatientRecordStatsToResponse(stats), nil
}

// afterWrite runs the side effects of a committed mutation. Failures here
// are logged and never undo the write.
func (u *patientRecordUsecase) afterWrite(ctx context.Context, eventType, actor string, id int64, record *entity.PatientRecord) {
	u.statsCache.Invalidate(ctx)

	if actor == "" {
		actor = entity.ActorAnonymous
	}
	event := entity.PatientRecordEvent{
		Type:       eventType,
		RecordID:   id,
		Actor:      actor,
		OccurredAt: u.now().UTC(),
	}
	if record != nil {
		event.Record = converter.PatientRecordToRow(record)
	}
	if err := u.publisher.Publish(ctx, event); err != nil {
		u.log.Warnf("Failed to publish %s event: %+v", eventType, err)
	}

	u.exportTrigger.Trigger()
}

func newPatientRecord(req *dto.CreatePatientRecordRequest) (*entity.PatientRecord, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, newValidationError("name", "is required")
	}
	if req.GlucoseMgdl.IsEmpty() {
		return nil, newValidationError("glucose_mgdl", "is required")
	}
	glucose, err := parseGlucose(req.GlucoseMgdl)
	if err != nil {
		return nil, err
	}

	record := &entity.PatientRecord{
		Name:             name,
		Sex:              req.Sex,
		Schooling:        req.Schooling,
		GlucoseMgdl:      glucose,
		HasHypertension:  flag(req.HasHypertension),
		HasObesity:       flag(req.HasObesity),
		HasDyslipidemia:  flag(req.HasDyslipidemia),
		HasCKD:           flag(req.HasCKD),
		HasCVD:           flag(req.HasCVD),
		HasCOPDAsthma:    flag(req.HasCOPDAsthma),
		HasDepression:    flag(req.HasDepression),
		Smoker:           flag(req.Smoker),
		PhysicalActivity: req.PhysicalActivity,
		MedHTN:           flag(req.MedHTN),
		MedDM:            flag(req.MedDM),
		MedInsulin:       flag(req.MedInsulin),
		MedMetformin:     flag(req.MedMetformin),
		MedStatins:       flag(req.MedStatins),
		MedAntiplatelet:  flag(req.MedAntiplatelet),
		MedOther:         req.MedOther,
		Notes:            req.Notes,
	}

	if record.Age, err = parseInt("age", req.Age); err != nil {
		return nil, err
	}
	if record.Systolic, err = parseInt("systolic", req.Systolic); err != nil {
		return nil, err
	}
	if record.Diastolic, err = parseInt("diastolic", req.Diastolic); err != nil {
		return nil, err
	}
	if record.WeightKg, err = parseMeasurement("weight_kg", req.WeightKg); err != nil {
		return nil, err
	}
	if record.HeightCm, err = parseMeasurement("height_cm", req.HeightCm); err != nil {
		return nil, err
	}

	return record, nil
}

// applyPatientRecordUpdate copies the fields present in req onto record.
func applyPatientRecordUpdate(record *entity.PatientRecord, req *dto.UpdatePatientRecordRequest) error {
	var err error

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return newValidationError("name", "is required")
		}
		record.Name = name
	}
	if req.GlucoseMgdl.IsSet() {
		if req.GlucoseMgdl.IsEmpty() {
			return newValidationError("glucose_mgdl", "cannot be cleared")
		}
		if record.GlucoseMgdl, err = parseGlucose(req.GlucoseMgdl); err != nil {
			return err
		}
	}

	for _, f := range []struct {
		field string
		value fieldvalue.Number
		dst   **int
	}{
		{"age", req.Age, &record.Age},
		{"systolic", req.Systolic, &record.Systolic},
		{"diastolic", req.Diastolic, &record.Diastolic},
	} {
		if !f.value.IsSet() {
			continue
		}
		if *f.dst, err = parseInt(f.field, f.value); err != nil {
			return err
		}
	}

	if req.WeightKg.IsSet() {
		if record.WeightKg, err = parseMeasurement("weight_kg", req.WeightKg); err != nil {
			return err
		}
	}
	if req.HeightCm.IsSet() {
		if record.HeightCm, err = parseMeasurement("height_cm", req.HeightCm); err != nil {
			return err
		}
	}

	setString(&record.Sex, req.Sex)
	setString(&record.Schooling, req.Schooling)
	setString(&record.PhysicalActivity, req.PhysicalActivity)
	setString(&record.MedOther, req.MedOther)
	setString(&record.Notes, req.Notes)

	setFlag(&record.HasHypertension, req.HasHypertension)
	setFlag(&record.HasObesity, req.HasObesity)
	setFlag(&record.HasDyslipidemia, req.HasDyslipidemia)
	setFlag(&record.HasCKD, req.HasCKD)
	setFlag(&record.HasCVD, req.HasCVD)
	setFlag(&record.HasCOPDAsthma, req.HasCOPDAsthma)
	setFlag(&record.HasDepression, req.HasDepression)
	setFlag(&record.Smoker, req.Smoker)
	setFlag(&record.MedHTN, req.MedHTN)
	setFlag(&record.MedDM, req.MedDM)
	setFlag(&record.MedInsulin, req.MedInsulin)
	setFlag(&record.MedMetformin, req.MedMetformin)
	setFlag(&record.MedStatins, req.MedStatins)
	setFlag(&record.MedAntiplatelet, req.MedAntiplatelet)

	return nil
}

func parseInt(field string, n fieldvalue.Number) (*int, error) {
	v, err := n.IntPtr()
	if err != nil {
		return nil, newValidationError(field, "must be an integer")
	}
	return v, nil
}

// parseGlucose rounds the reading to the stored scale so the risk is
// classified from the value that is persisted.
func parseGlucose(n fieldvalue.Number) (decimal.Decimal, error) {
	d, err := n.Decimal()
	if err != nil {
		return decimal.Zero, newValidationError("glucose_mgdl", "must be a number")
	}
	return roundMeasurement("glucose_mgdl", d, entity.MaxGlucoseMgdl)
}

func parseMeasurement(field string, n fieldvalue.Number) (decimal.NullDecimal, error) {
	v, err := n.NullDecimal()
	if err != nil {
		return decimal.NullDecimal{}, newValidationError(field, "must be a number")
	}
	if !v.Valid {
		return v, nil
	}
	d, err := roundMeasurement(field, v.Decimal, entity.MaxBodyMeasurement)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

func roundMeasurement(field string, d, max decimal.Decimal) (decimal.Decimal, error) {
	d = d.Round(entity.MeasurementScale)
	if d.Abs().GreaterThan(max) {
		return decimal.Zero, newValidationError(field, "must be at most "+max.String())
	}
	return d, nil
}

func flag(f fieldvalue.Flag) entity.Flag {
	return entity.FlagOf(f.Bool())
}

func setFlag(dst *entity.Flag, f fieldvalue.Flag) {
	if f.IsSet() {
		*dst = flag(f)
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
