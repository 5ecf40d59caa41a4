package converter

import (
	"time"

	"clinical-registry/internal/delivery/dto"
	"clinical-registry/internal/domain/entity"
	"clinical-registry/internal/infrastructure/export"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// PatientRecordToResponse converts a PatientRecord entity to PatientRecordResponse DTO
func PatientRecordToResponse(record *entity.PatientRecord) *dto.PatientRecordResponse {
	if record == nil {
		return nil
	}

	return &dto.PatientRecordResponse{
		ID:               record.ID,
		Name:             record.Name,
		Age:              record.Age,
		Sex:              record.Sex,
		Schooling:        record.Schooling,
		GlucoseMgdl:      record.GlucoseMgdl.InexactFloat64(),
		Risk:             string(record.Risk),
		HasHypertension:  int(record.HasHypertension),
		HasObesity:       int(record.HasObesity),
		HasDyslipidemia:  int(record.HasDyslipidemia),
		HasCKD:           int(record.HasCKD),
		HasCVD:           int(record.HasCVD),
		HasCOPDAsthma:    int(record.HasCOPDAsthma),
		HasDepression:    int(record.HasDepression),
		Systolic:         record.Systolic,
		Diastolic:        record.Diastolic,
		HTNStage:         stringPtr(record.HTNStage),
		WeightKg:         floatPtr(record.WeightKg),
		HeightCm:         floatPtr(record.HeightCm),
		BMI:              floatPtr(record.BMI),
		BMICategory:      stringPtr(record.BMICategory),
		Smoker:           int(record.Smoker),
		PhysicalActivity: record.PhysicalActivity,
		MedHTN:           int(record.MedHTN),
		MedDM:            int(record.MedDM),
		MedInsulin:       int(record.MedInsulin),
		MedMetformin:     int(record.MedMetformin),
		MedStatins:       int(record.MedStatins),
		MedAntiplatelet:  int(record.MedAntiplatelet),
		MedOther:         record.MedOther,
		Notes:            record.Notes,
		CreatedAt:        record.CreatedAt.UTC(),
	}
}

// PatientRecordsToResponses converts a slice of PatientRecord entities to slice of PatientRecordResponse DTOs
func PatientRecordsToResponses(records []entity.PatientRecord) []dto.PatientRecordResponse {
	return lo.Map(records, func(record entity.PatientRecord, _ int) dto.PatientRecordResponse {
		return *PatientRecordToResponse(&record)
	})
}

// PatientRecordToRow flattens a record into column name -> value, using only
// nil, int, int64, float64 and string values.
func PatientRecordToRow(record *entity.PatientRecord) map[string]interface{} {
	return map[string]interface{}{
		"id":                record.ID,
		"name":              record.Name,
		"age":               intValue(record.Age),
		"sex":               record.Sex,
		"schooling":         record.Schooling,
		"glucose_mgdl":      record.GlucoseMgdl.InexactFloat64(),
		"risk":              string(record.Risk),
		"has_hypertension":  int(record.HasHypertension),
		"has_obesity":       int(record.HasObesity),
		"has_dyslipidemia":  int(record.HasDyslipidemia),
		"has_ckd":           int(record.HasCKD),
		"has_cvd":           int(record.HasCVD),
		"has_copd_asthma":   int(record.HasCOPDAsthma),
		"has_depression":    int(record.HasDepression),
		"systolic":          intValue(record.Systolic),
		"diastolic":         intValue(record.Diastolic),
		"htn_stage":         stringValue(record.HTNStage),
		"weight_kg":         floatValue(record.WeightKg),
		"height_cm":         floatValue(record.HeightCm),
		"bmi":               floatValue(record.BMI),
		"bmi_cat":           stringValue(record.BMICategory),
		"smoker":            int(record.Smoker),
		"physical_activity": record.PhysicalActivity,
		"med_htn":           int(record.MedHTN),
		"med_dm":            int(record.MedDM),
		"med_insulin":       int(record.MedInsulin),
		"med_metformin":     int(record.MedMetformin),
		"med_statins":       int(record.MedStatins),
		"med_antiplatelet":  int(record.MedAntiplatelet),
		"med_other":         record.MedOther,
		"notes":             record.Notes,
		"created_at":        record.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// PatientRecordsToTable builds the export table over every given record.
func PatientRecordsToTable(records []entity.PatientRecord) *export.Table {
	return &export.Table{
		Columns: entity.PatientRecordColumns,
		Rows: lo.Map(records, func(record entity.PatientRecord, _ int) map[string]interface{} {
			return PatientRecordToRow(&record)
		}),
	}
}

func PatientRecordStatsToResponse(stats *entity.PatientRecordStats) *dto.PatientRecordStatsResponse {
	if stats == nil {
		return nil
	}

	return &dto.PatientRecordStatsResponse{
		Total:            stats.Total,
		ByRisk:           stats.ByRisk,
		ByBMICategory:    stats.ByBMICategory,
		WithHypertension: stats.WithHypertension,
		WithObesity:      stats.WithObesity,
	}
}

func floatPtr(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	v := d.Decimal.InexactFloat64()
	return &v
}

func stringPtr[T ~string](v *T) *string {
	if v == nil {
		return nil
	}
	s := string(*v)
	return &s
}

func floatValue(d decimal.NullDecimal) interface{} {
	if !d.Valid {
		return nil
	}
	return d.Decimal.InexactFloat64()
}

func intValue(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}

func stringValue[T ~string](v *T) interface{} {
	if v == nil {
		return nil
	}
	return string(*v)
}
