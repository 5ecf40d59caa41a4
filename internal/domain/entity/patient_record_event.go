package entity

import "time"

// Change event types published after a committed mutation.
const (
	EventPatientRecordCreated = "patient_record.created"
	EventPatientRecordUpdated = "patient_record.updated"
	EventPatientRecordDeleted = "patient_record.deleted"
)

// PatientRecordEvent describes a committed change to one patient record.
// Record is nil for deletions.
type PatientRecordEvent struct {
	Type       string                 `json:"type"`
	RecordID   int64                  `json:"record_id"`
	Actor      string                 `json:"actor"`
	OccurredAt time.Time              `json:"occurred_at"`
	Record     map[string]interface{} `json:"record,omitempty"`
}
