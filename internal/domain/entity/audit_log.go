package entity

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog records one mutation of a patient record.
type AuditLog struct {
	ID        int64             `gorm:"primaryKey;autoIncrement" json:"id"`
	Actor     string            `gorm:"type:varchar(200);not null;index" json:"actor"`
	Action    string            `gorm:"type:varchar(100);not null;index" json:"action"`
	RecordID  int64             `gorm:"not null;index" json:"record_id"`
	Metadata  datatypes.JSONMap `gorm:"type:jsonb" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"autoCreateTime;index" json:"created_at"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// ActorAnonymous is recorded when mutations are not authenticated.
const ActorAnonymous = "anonymous"

// Audit actions
const (
	AuditActionPatientCreate = "patient.create"
	AuditActionPatientUpdate = "patient.update"
	AuditActionPatientDelete = "patient.delete"
)
