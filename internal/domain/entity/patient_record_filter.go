package entity

// PatientRecordFilter is a domain-level filter for listing patient records.
// Empty fields do not constrain the query.
type PatientRecordFilter struct {
	Risk string // case-insensitive exact match
	Name string // case-insensitive substring match
}

// UnknownBucket labels rows whose classification is absent in aggregate counts.
const UnknownBucket = "unknown"

// PatientRecordStats holds aggregate counts over all patient records.
type PatientRecordStats struct {
	Total            int64
	ByRisk           map[string]int64
	ByBMICategory    map[string]int64
	WithHypertension int64
	WithObesity      int64
}
