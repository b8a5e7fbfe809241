package event

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, e *Event) error
	Update(ctx context.Context, e *Event) error
	UpdateStatus(ctx context.Context, id uint, status string) (*Event, error)
	GetByID(ctx context.Context, id uint) (*Event, error)
	ExistsByUID(ctx context.Context, uid string) (bool, error)
	ListApproved(ctx context.Context, f Filter) ([]Event, error)
	ListPending(ctx context.Context) ([]Event, error)
	ListByUser(ctx context.Context, userID uint) ([]Event, error)
	ListUpcoming(ctx context.Context, from time.Time, limit int) ([]Event, error)
	Delete(ctx context.Context, id uint) error
	CountByStatus(ctx context.Context) (map[string]int64, error)
	CountByCategory(ctx context.Context) (map[string]int64, error)
	CountUpcoming(ctx context.Context, from time.Time) (int64, error)
	CountRSVPs(ctx context.Context) (int64, error)
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

func (r *repository) Create(ctx context.Context, e *Event) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) Update(ctx context.Context, e *Event) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *repository) UpdateStatus(ctx context.Context, id uint, status string) (*Event, error) {
	var e Event
	if err := r.db.WithContext(ctx).First(&e, id).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(&e).Update("status", status).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) GetByID(ctx context.Context, id uint) (*Event, error) {
	var e Event
	if err := r.db.WithContext(ctx).First(&e, id).Error; err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) ExistsByUID(ctx context.Context, uid string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Event{}).Where("uid = ?", uid).Count(&n).Error
	return n > 0, err
}

func (r *repository) ListApproved(ctx context.Context, f Filter) ([]Event, error) {
	query := r.db.WithContext(ctx).Model(&Event{}).Where("status = ?", StatusApproved)

	if f.Search != "" {
		like := "%" + f.Search + "%"
		query = query.Where(
			"LOWER(title) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?) OR LOWER(location) LIKE LOWER(?)",
			like, like, like,
		)
	}
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if f.FreeOnly {
		query = query.Where("is_free = ?", true)
	}
	if f.AccessibleOnly {
		query = query.Where("is_accessible = ?", true)
	}

	switch f.SortBy {
	case "created":
		query = query.Order("created_at DESC")
	case "title":
		query = query.Order("title ASC")
	default:
		query = query.Order("event_date ASC, event_time ASC")
	}

	var events []Event
	err := query.Find(&events).Error
	return events, err
}

func (r *repository) ListPending(ctx context.Context) ([]Event, error) {
	var events []Event
	err := r.db.WithContext(ctx).
		Where("status = ?", StatusPending).
		Order("created_at DESC").
		Find(&events).Error
	return events, err
}

func (r *repository) ListByUser(ctx context.Context, userID uint) ([]Event, error) {
	var events []Event
	err := r.db.WithContext(ctx).
		Where("submitted_by = ?", userID).
		Order("created_at DESC").
		Find(&events).Error
	return events, err
}

func (r *repository) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]Event, error) {
	var events []Event
	query := r.db.WithContext(ctx).
		Where("status = ? AND event_date >= ?", StatusApproved, from).
		Order("event_date ASC, event_time ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&events).Error
	return events, err
}

// Delete removes the event and its RSVP and comment rows in one transaction.
func (r *repository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM rsvps WHERE event_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM comments WHERE event_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&Event{}, id).Error
	})
}

func (r *repository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Status string
		N      int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&Event{}).
		Select("status, COUNT(*) as n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Status] = r.N
	}
	return counts, nil
}

func (r *repository) CountByCategory(ctx context.Context) (map[string]int64, error) {
	type row struct {
		Category string
		N        int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&Event{}).
		Select("category, COUNT(*) as n").
		Where("status = ?", StatusApproved).
		Group("category").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Category] = r.N
	}
	return counts, nil
}

func (r *repository) CountRSVPs(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Table("rsvps").Count(&n).Error
	return n, err
}

func (r *repository) CountUpcoming(ctx context.Context, from time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Event{}).
		Where("status = ? AND event_date >= ?", StatusApproved, from).
		Count(&n).Error
	return n, err
}
