// Package clinical holds the pure classification rules applied to patient
// measurements: glycemic risk, body-mass index and hypertension stage.
package clinical

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Risk is the glycemic risk derived from a fasting glucose reading in mg/dL.
type Risk string

const (
	RiskUnknown      Risk = "unknown"
	RiskHypoglycemia Risk = "high (hypoglycemia)"
	RiskLow          Risk = "low"
	RiskModerate     Risk = "moderate"
	RiskHigh         Risk = "high"
)

var (
	glucoseLowFloor      = decimal.NewFromInt(70)
	glucoseModerateFloor = decimal.NewFromInt(100)
	glucoseHighFloor     = decimal.NewFromInt(126)
)

// Risks lists every risk label in severity order.
func Risks() []Risk {
	return []Risk{RiskHypoglycemia, RiskLow, RiskModerate, RiskHigh, RiskUnknown}
}

// ComputeRisk classifies a raw glucose value. Values that do not parse as a
// number yield RiskUnknown.
func ComputeRisk(raw string) Risk {
	g, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return RiskUnknown
	}
	return RiskForGlucose(g)
}

// RiskForGlucose classifies a parsed glucose value. Every band is closed on
// its lower bound, so each real value lands in exactly one band.
func RiskForGlucose(g decimal.Decimal) Risk {
	switch {
	case g.LessThan(glucoseLowFloor):
		return RiskHypoglycemia
	case g.LessThan(glucoseModerateFloor):
		return RiskLow
	case g.LessThan(glucoseHighFloor):
		return RiskModerate
	default:
		return RiskHigh
	}
}
