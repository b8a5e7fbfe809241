package event

import (
	"time"
)

// Event statuses. An event is created pending (or approved when an admin
// submits it) and only ever moves between these three states.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Categories an event may be filed under.
var Categories = []string{
	"Community",
	"Arts",
	"Sports",
	"Education",
	"Business",
	"Government",
}

// ============================
// GORM Event Model
type Event struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UID          string    `gorm:"type:varchar(36);not null;uniqueIndex" json:"uid"`
	Title        string    `gorm:"type:varchar(100);not null" json:"title"`
	EventDate    time.Time `gorm:"not null;index" json:"event_date"`
	EventTime    string    `gorm:"type:varchar(5);not null" json:"event_time"` // 24h "15:04", floating local time
	Location     string    `gorm:"type:varchar(200)" json:"location"`
	Description  string    `gorm:"type:text" json:"description"`
	Link         string    `gorm:"type:text" json:"link,omitempty"`
	Category     string    `gorm:"type:varchar(50);index" json:"category,omitempty"`
	IsFree       bool      `gorm:"not null;default:false" json:"is_free"`
	IsAccessible bool      `gorm:"not null;default:false" json:"is_accessible"`
	SubmittedBy  *uint     `gorm:"index" json:"submitted_by"` // nil for imported events
	Status       string    `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Event) TableName() string {
	return "events"
}

// ============================
// Create Event Request
//
// No gin binding tags: the validator collects every violation in one pass
// instead of failing on the first missing field.
type CreateEventRequest struct {
	Title        string `json:"title"`
	EventDate    string `json:"event_date"` // "2006-01-02"
	EventTime    string `json:"event_time"` // "15:04"
	Location     string `json:"location"`
	Description  string `json:"description"`
	Link         string `json:"link"`
	Category     string `json:"category"`
	IsFree       bool   `json:"is_free"`
	IsAccessible bool   `json:"is_accessible"`
}

// ============================
// Update Event Request (partial; nil fields keep the stored value)
type UpdateEventRequest struct {
	Title        *string `json:"title"`
	EventDate    *string `json:"event_date"`
	EventTime    *string `json:"event_time"`
	Location     *string `json:"location"`
	Description  *string `json:"description"`
	Link         *string `json:"link"`
	Category     *string `json:"category"`
	IsFree       *bool   `json:"is_free"`
	IsAccessible *bool   `json:"is_accessible"`
}

// ============================
// Listing filters for the public approved view
type Filter struct {
	Search         string // matches title/description/location, case-insensitive
	Category       string
	FreeOnly       bool
	AccessibleOnly bool
	SortBy         string // "date" (default), "created", "title"
}

// StatusUpdateRequest is the admin moderation payload.
type StatusUpdateRequest struct {
	Status string `json:"status" binding:"required"`
}

// ExternalEvent is one row of an admin bulk import. UID is the source
// feed's stable identifier; rows whose UID is already stored are skipped so
// re-importing the same feed never duplicates events.
type ExternalEvent struct {
	UID          string `json:"uid"`
	Title        string `json:"title"`
	EventDate    string `json:"event_date"`
	EventTime    string `json:"event_time"`
	Location     string `json:"location"`
	Description  string `json:"description"`
	Link         string `json:"link"`
	Category     string `json:"category"`
	IsFree       bool   `json:"is_free"`
	IsAccessible bool   `json:"is_accessible"`
}

// ImportResult summarizes a bulk import: how many rows were stored and why
// the rest were skipped.
type ImportResult struct {
	Imported int                 `json:"imported"`
	Skipped  int                 `json:"skipped"`
	Errors   map[string][]string `json:"errors,omitempty"` // row title -> violations
}

// Stats is the moderation dashboard summary.
type Stats struct {
	Total      int64            `json:"total"`
	Pending    int64            `json:"pending"`
	Approved   int64            `json:"approved"`
	Rejected   int64            `json:"rejected"`
	Upcoming   int64            `json:"upcoming"`
	TotalRSVPs int64            `json:"total_rsvps"`
	ByCategory map[string]int64 `json:"by_category"` // approved events per category
}
