package admin

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	ListUsers(ctx context.Context, f UserFilter) ([]UserRow, int64, error)
	SetUserStatus(ctx context.Context, userID uint, status string) error
	SetUserAdmin(ctx context.Context, userID uint, isAdmin bool) error
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) ListUsers(ctx context.Context, f UserFilter) ([]UserRow, int64, error) {
	query := r.db.WithContext(ctx).Table("users").
		Select(`users.id, users.email, users.name, users.is_admin, users.status, users.created_at,
			COUNT(events.id) AS submissions`).
		Joins("LEFT JOIN events ON events.submitted_by = users.id").
		Group("users.id, users.email, users.name, users.is_admin, users.status, users.created_at")

	if f.Search != "" {
		like := "%" + f.Search + "%"
		query = query.Where("users.email LIKE ? OR users.name LIKE ?", like, like)
	}
	if f.Status != "" {
		query = query.Where("users.status = ?", f.Status)
	}

	var total int64
	countQuery := r.db.WithContext(ctx).Table("users")
	if f.Search != "" {
		like := "%" + f.Search + "%"
		countQuery = countQuery.Where("users.email LIKE ? OR users.name LIKE ?", like, like)
	}
	if f.Status != "" {
		countQuery = countQuery.Where("users.status = ?", f.Status)
	}
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (f.Page - 1) * f.Limit
	var rows []UserRow
	err := query.
		Order("users.created_at DESC").
		Limit(f.Limit).
		Offset(offset).
		Scan(&rows).Error

	return rows, total, err
}

func (r *repository) SetUserStatus(ctx context.Context, userID uint, status string) error {
	result := r.db.WithContext(ctx).Table("users").
		Where("id = ?", userID).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) SetUserAdmin(ctx context.Context, userID uint, isAdmin bool) error {
	result := r.db.WithContext(ctx).Table("users").
		Where("id = ?", userID).
		Update("is_admin", isAdmin)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
