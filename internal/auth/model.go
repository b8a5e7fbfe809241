package auth

import (
	"strconv"
	"time"
)

// User is an account on the community calendar. IsAdmin is an explicit
// stored authorization claim set when the account is provisioned, not
// derived from the email domain at request time.
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Email        string    `gorm:"type:varchar(254);not null;uniqueIndex" json:"email"`
	Name         string    `gorm:"type:varchar(100)" json:"name"`
	PasswordHash string    `gorm:"type:varchar(100);not null" json:"-"`
	IsAdmin      bool      `gorm:"not null;default:false" json:"is_admin"`
	Status       string    `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// Actor is the authenticated caller as seen by the domain services. Handlers
// build it from the verified JWT; services only ever authorize against it.
type Actor struct {
	UserID  uint
	Email   string
	Name    string
	IsAdmin bool
}

// Key is the identifier used for per-user throttling.
func (a Actor) Key() string {
	if a.UserID == 0 {
		return "anonymous"
	}
	return "user:" + strconv.FormatUint(uint64(a.UserID), 10)
}

// ============================
// Request / response DTOs

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

type UserResponse struct {
	ID      uint   `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	IsAdmin bool   `json:"is_admin"`
}

func toUserResponse(u *User) UserResponse {
	return UserResponse{ID: u.ID, Email: u.Email, Name: u.Name, IsAdmin: u.IsAdmin}
}
