package usecase

import (
	"bytes"
	"context"

	"clinical-registry/internal/converter"
	"clinical-registry/internal/domain/repository"
	"clinical-registry/internal/infrastructure/export"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ExportFile is a rendered artifact ready to send or store.
type ExportFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

type ExportUsecase interface {
	// ExportTable returns every patient record, newest first.
	ExportTable(ctx context.Context) (*export.Table, error)
	Render(ctx context.Context, format string) (*ExportFile, error)
}

type exportUsecase struct {
	db                *gorm.DB
	log               *logrus.Logger
	patientRecordRepo repository.PatientRecordRepository
}

func NewExportUsecase(
	db *gorm.DB,
	log *logrus.Logger,
	patientRecordRepo repository.PatientRecordRepository,
) ExportUsecase {
	return &exportUsecase{
		db:                db,
		log:               log,
		patientRecordRepo: patientRecordRepo,
	}
}

func (u *exportUsecase) ExportTable(ctx context.Context) (*export.Table, error) {
	records, err := u.patientRecordRepo.FindAllUnpaged(ctx, u.db)
	if err != nil {
		u.log.Warnf("Failed to load patient records for export: %+v", err)
		return nil, err
	}
	return converter.PatientRecordsToTable(records), nil
}

func (u *exportUsecase) Render(ctx context.Context, format string) (*ExportFile, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	renderer, err := export.NewRenderer(f)
	if err != nil {
		return nil, err
	}

	table, err := u.ExportTable(ctx)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := renderer.Render(&buf, table); err != nil {
		u.log.Warnf("Failed to render %s export: %+v", f, err)
		return nil, err
	}

	return &ExportFile{
		FileName:    renderer.FileName(),
		ContentType: renderer.ContentType(),
		Data:        buf.Bytes(),
	}, nil
}
