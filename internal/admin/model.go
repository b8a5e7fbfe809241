package admin

import (
	"time"
)

// UserRow is the admin view of an account: profile plus submission activity.
type UserRow struct {
	ID          uint      `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	IsAdmin     bool      `json:"is_admin"`
	Status      string    `json:"status"`
	Submissions int64     `json:"submissions"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserFilter narrows the admin user listing.
type UserFilter struct {
	Search string // matches email or name
	Status string
	Page   int
	Limit  int
}

// PaginatedUsers is the paged user listing response.
type PaginatedUsers struct {
	Data       []UserRow `json:"data"`
	Total      int64     `json:"total"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	TotalPages int       `json:"total_pages"`
}

// UserStatusRequest toggles an account between active and suspended.
type UserStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// UserAdminRequest grants or revokes the admin claim.
type UserAdminRequest struct {
	IsAdmin *bool `json:"is_admin" binding:"required"`
}
