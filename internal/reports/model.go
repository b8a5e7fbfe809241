package reports

import (
	"time"
)

// Report types and formats.
const (
	ReportTypeEvents = "events"
	ReportTypeRSVPs  = "rsvps"

	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatPDF   = "pdf"
)

// Date range presets.
const (
	DateRangeDaily   = "daily"
	DateRangeWeekly  = "weekly"
	DateRangeMonthly = "monthly"
	DateRangeYearly  = "yearly"
	DateRangeCustom  = "custom"
)

// EventReportRow is one line of the events report.
type EventReportRow struct {
	ID          uint      `json:"id"`
	Title       string    `json:"title"`
	EventDate   time.Time `json:"event_date"`
	EventTime   string    `json:"event_time"`
	Location    string    `json:"location"`
	Category    string    `json:"category"`
	Status      string    `json:"status"`
	SubmittedBy string    `json:"submitted_by"` // email, or "imported"
	CreatedAt   time.Time `json:"created_at"`
}

// RSVPReportRow aggregates attendance per event.
type RSVPReportRow struct {
	EventID      uint      `json:"event_id"`
	Title        string    `json:"title"`
	EventDate    time.Time `json:"event_date"`
	Attending    int64     `json:"attending"`
	NotAttending int64     `json:"not_attending"`
	Maybe        int64     `json:"maybe"`
	Total        int64     `json:"total"`
}

// ReportRequest carries the common query parameters.
type ReportRequest struct {
	DateRange string // preset or "custom"
	StartDate string // "2006-01-02", custom only
	EndDate   string
	Status    string // events report only; empty = all statuses
	Format    string
}

// ReportData is the union handed to the exporter.
type ReportData struct {
	Events []EventReportRow
	RSVPs  []RSVPReportRow
}
