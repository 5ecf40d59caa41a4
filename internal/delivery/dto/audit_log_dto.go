package dto

import (
	"time"
)

// Response DTOs

type AuditLogResponse struct {
	ID        int64                  `json:"id"`
	Actor     string                 `json:"actor"`
	Action    string                 `json:"action"`
	RecordID  int64                  `json:"record_id"`
	Metadata  map[string]interface{} `json:"metadata"`
	CreatedAt time.Time              `json:"created_at"`
}

type AuditLogListResponse struct {
	Logs     []AuditLogResponse `json:"logs"`
	Total    int64              `json:"total"`
	Page     int                `json:"page"`
	PageSize int                `json:"page_size"`
	Pages    int                `json:"pages"`
}

type AuditLogListQuery struct {
	Page     *int
	PageSize *int
}
