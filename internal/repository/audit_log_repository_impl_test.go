package repository

import (
	"context"
	"testing"

	"clinical-registry/internal/domain/entity"
	"clinical-registry/internal/testutil"

	"gorm.io/datatypes"
)

func TestAuditLogRepository(t *testing.T) {
	db := testutil.DB(t)
	ctx := context.Background()
	repo := NewAuditLogRepository()

	entries := []*entity.AuditLog{
		{Actor: "alice", Action: entity.AuditActionPatientCreate, RecordID: 1, Metadata: datatypes.JSONMap{"new_value": map[string]interface{}{"name": "A"}}},
		{Actor: "alice", Action: entity.AuditActionPatientUpdate, RecordID: 1},
		{Actor: entity.ActorAnonymous, Action: entity.AuditActionPatientCreate, RecordID: 2},
	}
	for _, e := range entries {
		if err := repo.Create(ctx, db, e); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	logs, total, err := repo.FindAll(ctx, db, 2, 0)
	if err != nil || total != 3 || len(logs) != 2 {
		t.Fatalf("FindAll: total=%d len=%d err=%v", total, len(logs), err)
	}
	if logs[0].RecordID != 2 {
		t.Errorf("FindAll should return newest first, got record %d", logs[0].RecordID)
	}

	history, err := repo.FindByRecordID(ctx, db, 1)
	if err != nil || len(history) != 2 {
		t.Fatalf("FindByRecordID: len=%d err=%v", len(history), err)
	}
	if history[0].Action != entity.AuditActionPatientCreate {
		t.Errorf("history[0].Action = %q", history[0].Action)
	}
	if history[0].Metadata["new_value"] == nil {
		t.Error("metadata should round-trip through the JSON column")
	}
}
