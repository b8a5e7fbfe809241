package reports

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type ReportRepository interface {
	GetEventRows(ctx context.Context, start, end time.Time, status string) ([]EventReportRow, error)
	GetRSVPRows(ctx context.Context, start, end time.Time) ([]RSVPReportRow, error)
}

type reportRepository struct{ db *gorm.DB }

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db}
}

func (r *reportRepository) GetEventRows(ctx context.Context, start, end time.Time, status string) ([]EventReportRow, error) {
	query := r.db.WithContext(ctx).Table("events").
		Select(`events.id, events.title, events.event_date, events.event_time,
			events.location, events.category, events.status, events.created_at,
			COALESCE(users.email, 'imported') AS submitted_by`).
		Joins("LEFT JOIN users ON users.id = events.submitted_by").
		Where("events.created_at BETWEEN ? AND ?", start, end)

	if status != "" {
		query = query.Where("events.status = ?", status)
	}

	var rows []EventReportRow
	err := query.Order("events.created_at DESC").Scan(&rows).Error
	return rows, err
}

func (r *reportRepository) GetRSVPRows(ctx context.Context, start, end time.Time) ([]RSVPReportRow, error) {
	var rows []RSVPReportRow
	err := r.db.WithContext(ctx).Table("events").
		Select(`events.id AS event_id, events.title, events.event_date,
			COUNT(CASE WHEN rsvps.status = 'attending' THEN 1 END) AS attending,
			COUNT(CASE WHEN rsvps.status = 'not_attending' THEN 1 END) AS not_attending,
			COUNT(CASE WHEN rsvps.status = 'maybe' THEN 1 END) AS maybe,
			COUNT(rsvps.id) AS total`).
		Joins("LEFT JOIN rsvps ON rsvps.event_id = events.id").
		Where("events.event_date BETWEEN ? AND ?", start, end).
		Where("events.status = ?", "approved").
		Group("events.id, events.title, events.event_date").
		Order("events.event_date ASC").
		Scan(&rows).Error
	return rows, err
}
