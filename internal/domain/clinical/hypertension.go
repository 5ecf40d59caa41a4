package clinical

// HTNStage is the blood pressure stage derived from a systolic/diastolic pair.
type HTNStage string

const (
	HTNNormal   HTNStage = "normal"
	HTNElevated HTNStage = "elevated"
	HTNStage1   HTNStage = "stage 1"
	HTNStage2   HTNStage = "stage 2"
)

// ComputeHTNStage stages a blood pressure reading in mmHg. Rules are applied
// in order and the first match wins. A missing pressure yields false.
func ComputeHTNStage(systolic, diastolic *int) (HTNStage, bool) {
	if systolic == nil || diastolic == nil {
		return "", false
	}
	s, d := *systolic, *diastolic

	switch {
	case s < 120 && d < 80:
		return HTNNormal, true
	case s >= 120 && s <= 129 && d < 80:
		return HTNElevated, true
	case (s >= 130 && s <= 139) || (d >= 80 && d <= 89):
		return HTNStage1, true
	default:
		// s >= 140 or d >= 90: every pair that escapes the rules above.
		return HTNStage2, true
	}
}
