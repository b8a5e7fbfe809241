package rsvp

import (
	"time"
)

// RSVP statuses.
const (
	StatusAttending    = "attending"
	StatusNotAttending = "not_attending"
	StatusMaybe        = "maybe"
)

// RSVP represents the rsvps table. One row per (event, user); a later
// response replaces the earlier one.
type RSVP struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	EventID   uint      `gorm:"not null;index;uniqueIndex:idx_rsvp_event_user" json:"event_id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_rsvp_event_user" json:"user_id"`
	UserEmail string    `gorm:"type:varchar(254);not null" json:"user_email"`
	Status    string    `gorm:"type:varchar(20);not null" json:"status"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (RSVP) TableName() string {
	return "rsvps"
}

// ValidStatus reports whether s is one of the three RSVP statuses.
func ValidStatus(s string) bool {
	return s == StatusAttending || s == StatusNotAttending || s == StatusMaybe
}

// Counts is the per-event aggregate returned after every toggle.
type Counts struct {
	Attending    int64 `json:"attending"`
	NotAttending int64 `json:"not_attending"`
	Maybe        int64 `json:"maybe"`
}

// ToggleRequest is the RSVP upsert payload.
type ToggleRequest struct {
	Status string `json:"status" binding:"required"`
}

// ToggleResponse carries the caller's stored RSVP plus the fresh aggregate.
type ToggleResponse struct {
	RSVP   RSVP   `json:"rsvp"`
	Counts Counts `json:"counts"`
}
