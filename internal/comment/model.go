package comment

import (
	"time"
)

// Comment represents the comments table. Comments are append-only: nothing
// in the service edits or removes them, they only disappear with their event.
type Comment struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	EventID    uint      `gorm:"not null;index" json:"event_id"`
	AuthorID   uint      `gorm:"not null" json:"author_id"`
	AuthorName string    `gorm:"type:varchar(100);not null" json:"author_name"` // denormalized at creation
	Text       string    `gorm:"type:text;not null" json:"text"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Comment) TableName() string {
	return "comments"
}

// AddRequest is the comment creation payload.
type AddRequest struct {
	Text string `json:"text" binding:"required"`
}
