package clinical

import (
	"testing"

	"github.com/shopspring/decimal"
)

func nd(s string) decimal.NullDecimal {
	return decimal.NewNullDecimal(decimal.RequireFromString(s))
}

func TestComputeBMI(t *testing.T) {
	tests := []struct {
		name    string
		weight  decimal.NullDecimal
		height  decimal.NullDecimal
		wantOK  bool
		wantBMI string
		wantCat BMICategory
	}{
		{name: "normal", weight: nd("70"), height: nd("175"), wantOK: true, wantBMI: "22.9", wantCat: BMINormal},
		{name: "underweight", weight: nd("50"), height: nd("175"), wantOK: true, wantBMI: "16.3", wantCat: BMIUnderweight},
		{name: "overweight", weight: nd("85"), height: nd("175"), wantOK: true, wantBMI: "27.8", wantCat: BMIOverweight},
		{name: "obesity", weight: nd("120"), height: nd("170"), wantOK: true, wantBMI: "41.5", wantCat: BMIObesity},
		{name: "exactly 25 is overweight", weight: nd("100"), height: nd("200"), wantOK: true, wantBMI: "25", wantCat: BMIOverweight},
		{name: "zero weight", weight: nd("0"), height: nd("175")},
		{name: "zero height", weight: nd("70"), height: nd("0")},
		{name: "negative height", weight: nd("70"), height: nd("-170")},
		{name: "missing weight", weight: decimal.NullDecimal{}, height: nd("175")},
		{name: "missing height", weight: nd("70"), height: decimal.NullDecimal{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ComputeBMI(tt.weight, tt.height)
			if ok != tt.wantOK {
				t.Fatalf("ComputeBMI ok = %v, want %v", ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if !got.Value.Equal(decimal.RequireFromString(tt.wantBMI)) {
				t.Errorf("bmi = %s, want %s", got.Value, tt.wantBMI)
			}
			if got.Category != tt.wantCat {
				t.Errorf("category = %q, want %q", got.Category, tt.wantCat)
			}
		})
	}
}

func TestBMICategoryFor_Boundaries(t *testing.T) {
	tests := []struct {
		bmi  string
		want BMICategory
	}{
		{"18.49", BMIUnderweight},
		{"18.5", BMINormal},
		{"24.99", BMINormal},
		{"25", BMIOverweight},
		{"29.99", BMIOverweight},
		{"30", BMIObesity},
	}

	for _, tt := range tests {
		if got := BMICategoryFor(decimal.RequireFromString(tt.bmi)); got != tt.want {
			t.Errorf("BMICategoryFor(%s) = %q, want %q", tt.bmi, got, tt.want)
		}
	}
}
