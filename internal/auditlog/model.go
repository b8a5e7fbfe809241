package auditlog

import (
	"time"

	"gorm.io/datatypes"
)

// Actions recorded by the lifecycle and auth flows.
const (
	ActionEventSubmitted = "EVENT_SUBMITTED"
	ActionEventApproved  = "EVENT_APPROVED"
	ActionEventRejected  = "EVENT_REJECTED"
	ActionEventUpdated   = "EVENT_UPDATED"
	ActionEventDeleted   = "EVENT_DELETED"
	ActionEventsImported = "EVENTS_IMPORTED"
	ActionRSVPUpdated    = "RSVP_UPDATED"
	ActionCommentAdded   = "COMMENT_ADDED"
)

// AuditLog represents the audit_logs table
type AuditLog struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    *uint          `gorm:"index" json:"user_id"` // nullable (e.g. failed login)
	EventID   *uint          `gorm:"index" json:"event_id"`
	Action    string         `gorm:"size:100;not null;index" json:"action"`
	Details   datatypes.JSON `gorm:"type:jsonb" json:"details"`
	IPAddress string         `gorm:"size:45" json:"ip_address"`
	Status    string         `gorm:"size:20;not null;index" json:"status"` // success/failure
	CreatedAt time.Time      `gorm:"autoCreateTime;index" json:"created_at"`
}

// TableName overrides table name for AuditLog
func (AuditLog) TableName() string {
	return "audit_logs"
}

// AuditLogFilter represents filters for querying audit logs
type AuditLogFilter struct {
	UserID   *uint
	EventID  *uint
	Action   string
	Status   string
	FromDate *time.Time
	ToDate   *time.Time
	Page     int
	Limit    int
}

// PaginatedAuditLogs represents a paginated audit log response
type PaginatedAuditLogs struct {
	Data       []AuditLog `json:"data"`
	Total      int64      `json:"total"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"total_pages"`
}
