package notification

import (
	"context"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, n *InAppNotification) error
	ListForUser(ctx context.Context, userID uint, unreadOnly bool) ([]InAppNotification, error)
	MarkRead(ctx context.Context, id, userID uint) error
	AdminIDs(ctx context.Context) ([]uint, error)
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) Create(ctx context.Context, n *InAppNotification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *repository) ListForUser(ctx context.Context, userID uint, unreadOnly bool) ([]InAppNotification, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if unreadOnly {
		query = query.Where("is_read = ?", false)
	}
	var items []InAppNotification
	err := query.Order("created_at DESC").Limit(100).Find(&items).Error
	return items, err
}

// AdminIDs returns the ids of active admin accounts, the audience for
// moderation-queue notifications.
func (r *repository) AdminIDs(ctx context.Context) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Table("users").
		Where("is_admin = ? AND status = ?", true, "active").
		Pluck("id", &ids).Error
	return ids, err
}

func (r *repository) MarkRead(ctx context.Context, id, userID uint) error {
	result := r.db.WithContext(ctx).
		Model(&InAppNotification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
