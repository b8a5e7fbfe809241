package rsvp

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Upsert(ctx context.Context, r *RSVP) error
	GetForUser(ctx context.Context, eventID, userID uint) (*RSVP, error)
	ListForEvent(ctx context.Context, eventID uint) ([]RSVP, error)
	CountsForEvent(ctx context.Context, eventID uint) (Counts, error)
}

type repository struct{ db *gorm.DB }

func NewRepository(db *gorm.DB) Repository {
	return &repository{db}
}

// Upsert inserts or replaces the (event, user) row, keyed on the unique
// index so two rows for the same pair can never exist.
func (r *repository) Upsert(ctx context.Context, row *RSVP) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "event_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "user_email", "updated_at"}),
	}).Create(row).Error
}

func (r *repository) GetForUser(ctx context.Context, eventID, userID uint) (*RSVP, error) {
	var row RSVP
	err := r.db.WithContext(ctx).
		Where("event_id = ? AND user_id = ?", eventID, userID).
		First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *repository) ListForEvent(ctx context.Context, eventID uint) ([]RSVP, error) {
	var rows []RSVP
	err := r.db.WithContext(ctx).
		Where("event_id = ?", eventID).
		Order("updated_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) CountsForEvent(ctx context.Context, eventID uint) (Counts, error) {
	type row struct {
		Status string
		N      int64
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&RSVP{}).
		Select("status, COUNT(*) as n").
		Where("event_id = ?", eventID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return Counts{}, err
	}

	var counts Counts
	for _, r := range rows {
		switch r.Status {
		case StatusAttending:
			counts.Attending = r.N
		case StatusNotAttending:
			counts.NotAttending = r.N
		case StatusMaybe:
			counts.Maybe = r.N
		}
	}
	return counts, nil
}
