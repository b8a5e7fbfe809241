package notification

import (
	"fmt"
	"time"
)

// Change event types. Every change to the events table is announced as one
// of these, carrying only the event id and its new status; consumers re-read
// whatever views they care about instead of trusting a full payload.
const (
	ChangeInserted = "inserted"
	ChangeUpdated  = "updated"
	ChangeDeleted  = "deleted"
)

// ChangeEvent is the typed change notification published on every event
// mutation.
type ChangeEvent struct {
	Type    string `json:"type"`
	EventID uint   `json:"event_id"`
	Status  string `json:"status"`
}

// Validate checks a change event at the consumption boundary, before any
// dispatch, so a malformed broker payload never reaches handlers.
func (c ChangeEvent) Validate() error {
	switch c.Type {
	case ChangeInserted, ChangeUpdated, ChangeDeleted:
	default:
		return fmt.Errorf("unknown change type %q", c.Type)
	}
	if c.EventID == 0 {
		return fmt.Errorf("change event missing event id")
	}
	return nil
}

// InAppNotification represents the notifications table
type InAppNotification struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Title     string    `gorm:"type:varchar(200);not null" json:"title"`
	Body      string    `gorm:"type:text" json:"body"`
	IsRead    bool      `gorm:"not null;default:false" json:"is_read"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (InAppNotification) TableName() string {
	return "notifications"
}
