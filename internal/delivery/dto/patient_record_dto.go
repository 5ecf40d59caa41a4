package dto

import (
	"time"

	"clinical-registry/pkg/fieldvalue"
)

// Request DTOs

// CreatePatientRecordRequest accepts numbers and flags in the loose forms a
// browser form produces ("54", 54, "on", true).
type CreatePatientRecordRequest struct {
	Name      string            `json:"name" validate:"required,notblank,max=200"`
	Age       fieldvalue.Number `json:"age" validate:"omitempty,integer"`
	Sex       string            `json:"sex" validate:"max=20"`
	Schooling string            `json:"schooling" validate:"max=100"`

	GlucoseMgdl fieldvalue.Number `json:"glucose_mgdl" validate:"required,decimal"`

	HasHypertension fieldvalue.Flag `json:"has_hypertension"`
	HasObesity      fieldvalue.Flag `json:"has_obesity"`
	HasDyslipidemia fieldvalue.Flag `json:"has_dyslipidemia"`
	HasCKD          fieldvalue.Flag `json:"has_ckd"`
	HasCVD          fieldvalue.Flag `json:"has_cvd"`
	HasCOPDAsthma   fieldvalue.Flag `json:"has_copd_asthma"`
	HasDepression   fieldvalue.Flag `json:"has_depression"`

	Systolic  fieldvalue.Number `json:"systolic" validate:"omitempty,integer"`
	Diastolic fieldvalue.Number `json:"diastolic" validate:"omitempty,integer"`
	WeightKg  fieldvalue.Number `json:"weight_kg" validate:"omitempty,decimal"`
	HeightCm  fieldvalue.Number `json:"height_cm" validate:"omitempty,decimal"`

	Smoker           fieldvalue.Flag `json:"smoker"`
	PhysicalActivity string          `json:"physical_activity" validate:"max=100"`

	MedHTN          fieldvalue.Flag `json:"med_htn"`
	MedDM           fieldvalue.Flag `json:"med_dm"`
	MedInsulin      fieldvalue.Flag `json:"med_insulin"`
	MedMetformin    fieldvalue.Flag `json:"med_metformin"`
	MedStatins      fieldvalue.Flag `json:"med_statins"`
	MedAntiplatelet fieldvalue.Flag `json:"med_antiplatelet"`
	MedOther        string          `json:"med_other"`
	Notes           string          `json:"notes"`
}

// UpdatePatientRecordRequest is the closed set of updatable fields. Only
// fields present in the payload are applied; null or "" clears an optional
// number.
type UpdatePatientRecordRequest struct {
	Name      *string           `json:"name" validate:"omitempty,notblank,max=200"`
	Age       fieldvalue.Number `json:"age" validate:"omitempty,integer"`
	Sex       *string           `json:"sex" validate:"omitempty,max=20"`
	Schooling *string           `json:"schooling" validate:"omitempty,max=100"`

	GlucoseMgdl fieldvalue.Number `json:"glucose_mgdl" validate:"omitempty,decimal"`

	HasHypertension fieldvalue.Flag `json:"has_hypertension"`
	HasObesity      fieldvalue.Flag `json:"has_obesity"`
	HasDyslipidemia fieldvalue.Flag `json:"has_dyslipidemia"`
	HasCKD          fieldvalue.Flag `json:"has_ckd"`
	HasCVD          fieldvalue.Flag `json:"has_cvd"`
	HasCOPDAsthma   fieldvalue.Flag `json:"has_copd_asthma"`
	HasDepression   fieldvalue.Flag `json:"has_depression"`

	Systolic  fieldvalue.Number `json:"systolic" validate:"omitempty,integer"`
	Diastolic fieldvalue.Number `json:"diastolic" validate:"omitempty,integer"`
	WeightKg  fieldvalue.Number `json:"weight_kg" validate:"omitempty,decimal"`
	HeightCm  fieldvalue.Number `json:"height_cm" validate:"omitempty,decimal"`

	Smoker           fieldvalue.Flag `json:"smoker"`
	PhysicalActivity *string         `json:"physical_activity" validate:"omitempty,max=100"`

	MedHTN          fieldvalue.Flag `json:"med_htn"`
	MedDM           fieldvalue.Flag `json:"med_dm"`
	MedInsulin      fieldvalue.Flag `json:"med_insulin"`
	MedMetformin    fieldvalue.Flag `json:"med_metformin"`
	MedStatins      fieldvalue.Flag `json:"med_statins"`
	MedAntiplatelet fieldvalue.Flag `json:"med_antiplatelet"`
	MedOther        *string         `json:"med_other"`
	Notes           *string         `json:"notes"`
}

// PatientRecordListQuery carries list parameters. Nil page values were absent
// or unparseable.
type PatientRecordListQuery struct {
	Risk     string
	Name     string
	Page     *int
	PageSize *int
}

// Response DTOs

type PatientRecordResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Age       *int   `json:"age"`
	Sex       string `json:"sex"`
	Schooling string `json:"schooling"`

	GlucoseMgdl float64 `json:"glucose_mgdl"`
	Risk        string  `json:"risk"`

	HasHypertension int `json:"has_hypertension"`
	HasObesity      int `json:"has_obesity"`
	HasDyslipidemia int `json:"has_dyslipidemia"`
	HasCKD          int `json:"has_ckd"`
	HasCVD          int `json:"has_cvd"`
	HasCOPDAsthma   int `json:"has_copd_asthma"`
	HasDepression   int `json:"has_depression"`

	Systolic  *int    `json:"systolic"`
	Diastolic *int    `json:"diastolic"`
	HTNStage  *string `json:"htn_stage"`

	WeightKg    *float64 `json:"weight_kg"`
	HeightCm    *float64 `json:"height_cm"`
	BMI         *float64 `json:"bmi"`
	BMICategory *string  `json:"bmi_cat"`

	Smoker           int    `json:"smoker"`
	PhysicalActivity string `json:"physical_activity"`

	MedHTN          int    `json:"med_htn"`
	MedDM           int    `json:"med_dm"`
	MedInsulin      int    `json:"med_insulin"`
	MedMetformin    int    `json:"med_metformin"`
	MedStatins      int    `json:"med_statins"`
	MedAntiplatelet int    `json:"med_antiplatelet"`
	MedOther        string `json:"med_other"`
	Notes           string `json:"notes"`

	CreatedAt time.Time `json:"created_at"`
}

type PatientRecordListResponse struct {
	Items    []PatientRecordResponse `json:"items"`
	Total    int64                   `json:"total"`
	Page     int                     `json:"page"`
	PageSize int                     `json:"page_size"`
	Pages    int                     `json:"pages"`
}

type PatientRecordStatsResponse struct {
	Total            int64            `json:"total"`
	ByRisk           map[string]int64 `json:"by_risk"`
	ByBMICategory    map[string]int64 `json:"by_bmi_cat"`
	WithHypertension int64            `json:"with_hypertension"`
	WithObesity      int64            `json:"with_obesity"`
}
