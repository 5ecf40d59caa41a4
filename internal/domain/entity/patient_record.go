package entity

import (
	"time"

	"clinical-registry/internal/domain/clinical"

	"github.com/shopspring/decimal"
)

// Flag is a yes/no column stored as 0 or 1.
type Flag int8

const (
	FlagNo  Flag = 0
	FlagYes Flag = 1
)

// FlagOf normalizes any truthy input to FlagYes.
func FlagOf(on bool) Flag {
	if on {
		return FlagYes
	}
	return FlagNo
}

func (f Flag) Bool() bool {
	return f != FlagNo
}

// Measurements are stored with MeasurementScale decimal places. Values must
// round to at most the column maximum.
const MeasurementScale = 2

var (
	MaxGlucoseMgdl     = decimal.RequireFromString("99999.99")
	MaxBodyMeasurement = decimal.RequireFromString("9999.99")
)

// PatientRecord is one clinical encounter submission. Risk, BMI, BMICategory
// and HTNStage are derived from the measurements and never set directly.
type PatientRecord struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string `gorm:"type:varchar(200);not null;index" json:"name"`
	Age       *int   `json:"age"`
	Sex       string `gorm:"type:varchar(20);not null;default:''" json:"sex"`
	Schooling string `gorm:"type:varchar(100);not null;default:''" json:"schooling"`

	GlucoseMgdl decimal.Decimal `gorm:"type:decimal(7,2);not null" json:"glucose_mgdl"`
	Risk        clinical.Risk   `gorm:"type:varchar(32);not null;index" json:"risk"`

	HasHypertension Flag `gorm:"type:smallint;not null;default:0" json:"has_hypertension"`
	HasObesity      Flag `gorm:"type:smallint;not null;default:0" json:"has_obesity"`
	HasDyslipidemia Flag `gorm:"type:smallint;not null;default:0" json:"has_dyslipidemia"`
	HasCKD          Flag `gorm:"column:has_ckd;type:smallint;not null;default:0" json:"has_ckd"`
	HasCVD          Flag `gorm:"column:has_cvd;type:smallint;not null;default:0" json:"has_cvd"`
	HasCOPDAsthma   Flag `gorm:"column:has_copd_asthma;type:smallint;not null;default:0" json:"has_copd_asthma"`
	HasDepression   Flag `gorm:"type:smallint;not null;default:0" json:"has_depression"`

	Systolic  *int               `json:"systolic"`
	Diastolic *int               `json:"diastolic"`
	HTNStage  *clinical.HTNStage `gorm:"column:htn_stage;type:varchar(16)" json:"htn_stage"`

	WeightKg    decimal.NullDecimal   `gorm:"type:decimal(6,2)" json:"weight_kg"`
	HeightCm    decimal.NullDecimal   `gorm:"type:decimal(6,2)" json:"height_cm"`
	BMI         decimal.NullDecimal   `gorm:"column:bmi;type:numeric" json:"bmi"`
	BMICategory *clinical.BMICategory `gorm:"column:bmi_cat;type:varchar(16)" json:"bmi_cat"`

	Smoker           Flag   `gorm:"type:smallint;not null;default:0" json:"smoker"`
	PhysicalActivity string `gorm:"type:varchar(100);not null;default:''" json:"physical_activity"`

	MedHTN          Flag   `gorm:"column:med_htn;type:smallint;not null;default:0" json:"med_htn"`
	MedDM           Flag   `gorm:"column:med_dm;type:smallint;not null;default:0" json:"med_dm"`
	MedInsulin      Flag   `gorm:"type:smallint;not null;default:0" json:"med_insulin"`
	MedMetformin    Flag   `gorm:"type:smallint;not null;default:0" json:"med_metformin"`
	MedStatins      Flag   `gorm:"type:smallint;not null;default:0" json:"med_statins"`
	MedAntiplatelet Flag   `gorm:"type:smallint;not null;default:0" json:"med_antiplatelet"`
	MedOther        string `gorm:"type:text;not null;default:''" json:"med_other"`
	Notes           string `gorm:"type:text;not null;default:''" json:"notes"`

	CreatedAt time.Time `gorm:"autoCreateTime;index" json:"created_at"`
}

func (PatientRecord) TableName() string {
	return "patients"
}

// Classify recomputes every derived field from the current measurements.
func (p *PatientRecord) Classify() {
	p.Risk = clinical.RiskForGlucose(p.GlucoseMgdl)

	p.BMI = decimal.NullDecimal{}
	p.BMICategory = nil
	if bmi, ok := clinical.ComputeBMI(p.WeightKg, p.HeightCm); ok {
		p.BMI = decimal.NewNullDecimal(bmi.Value)
		category := bmi.Category
		p.BMICategory = &category
	}

	p.HTNStage = nil
	if stage, ok := clinical.ComputeHTNStage(p.Systolic, p.Diastolic); ok {
		p.HTNStage = &stage
	}
}

// PatientRecordColumns lists the table columns in storage order. Exports use
// it as their header.
var PatientRecordColumns = []string{
	"id", "name", "age", "sex", "schooling", "glucose_mgdl", "risk",
	"has_hypertension", "has_obesity", "has_dyslipidemia", "has_ckd", "has_cvd",
	"has_copd_asthma", "has_depression", "systolic", "diastolic", "htn_stage",
	"weight_kg", "height_cm", "bmi", "bmi_cat", "smoker", "physical_activity",
	"med_htn", "med_dm", "med_insulin", "med_metformin", "med_statins",
	"med_antiplatelet", "med_other", "notes", "created_at",
}
