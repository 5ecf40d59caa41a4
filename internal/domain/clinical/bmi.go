package clinical

import "github.com/shopspring/decimal"

type BMICategory string

const (
	BMIUnderweight BMICategory = "underweight"
	BMINormal      BMICategory = "normal"
	BMIOverweight  BMICategory = "overweight"
	BMIObesity     BMICategory = "obesity"
)

var (
	bmiNormalFloor      = decimal.RequireFromString("18.5")
	bmiOverweightFloor  = decimal.NewFromInt(25)
	bmiObesityFloor     = decimal.NewFromInt(30)
	centimetresPerMetre = decimal.NewFromInt(100)
)

// BMI is a body-mass index rounded to one decimal place and its category.
type BMI struct {
	Value    decimal.Decimal
	Category BMICategory
}

// ComputeBMI derives the body-mass index from weight in kilograms and height
// in centimetres. It returns false when either measurement is missing, zero
// or negative.
func ComputeBMI(weightKg, heightCm decimal.NullDecimal) (BMI, bool) {
	if !weightKg.Valid || !heightCm.Valid {
		return BMI{}, false
	}
	if !weightKg.Decimal.IsPositive() || !heightCm.Decimal.IsPositive() {
		return BMI{}, false
	}

	h := heightCm.Decimal.Div(centimetresPerMetre)
	bmi := weightKg.Decimal.DivRound(h.Mul(h), 8)

	return BMI{
		Value:    bmi.Round(1),
		Category: BMICategoryFor(bmi),
	}, true
}

// BMICategoryFor maps an index to its weight category.
func BMICategoryFor(bmi decimal.Decimal) BMICategory {
	switch {
	case bmi.LessThan(bmiNormalFloor):
		return BMIUnderweight
	case bmi.LessThan(bmiOverweightFloor):
		return BMINormal
	case bmi.LessThan(bmiObesityFloor):
		return BMIOverweight
	default:
		return BMIObesity
	}
}
