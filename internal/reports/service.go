package reports

import (
	"context"

	"github.com/newwestevents/events-backend/internal/apperror"
	"github.com/newwestevents/events-backend/internal/auditlog"
)

// ReportService coordinates repo + exporter and audits every export.
type ReportService interface {
	GetEvents(ctx context.Context, req ReportRequest) ([]EventReportRow, error)
	GetRSVPs(ctx context.Context, req ReportRequest) ([]RSVPReportRow, error)
	Export(ctx context.Context, reportType string, req ReportRequest, userID *uint, ip string) ([]byte, string, string, error)
}

type reportService struct {
	repo     ReportRepository
	exporter ReportExporter
	auditSvc auditlog.Service
}

func NewReportService(repo ReportRepository, exporter ReportExporter, auditSvc auditlog.Service) ReportService {
	return &reportService{
		repo:     repo,
		exporter: exporter,
		auditSvc: auditSvc,
	}
}

func (s *reportService) GetEvents(ctx context.Context, req ReportRequest) ([]EventReportRow, error) {
	start, end, err := GetDateRange(req.DateRange, req.StartDate, req.EndDate)
	if err != nil {
		return nil, apperror.Validation([]string{err.Error()})
	}
	rows, err := s.repo.GetEventRows(ctx, start, end, req.Status)
	if err != nil {
		return nil, apperror.StoreUnavailable(err)
	}
	return rows, nil
}

func (s *reportService) GetRSVPs(ctx context.Context, req ReportRequest) ([]RSVPReportRow, error) {
	start, end, err := GetDateRange(req.DateRange, req.StartDate, req.EndDate)
	if err != nil {
		return nil, apperror.Validation([]string{err.Error()})
	}
	rows, err := s.repo.GetRSVPRows(ctx, start, end)
	if err != nil {
		return nil, apperror.StoreUnavailable(err)
	}
	return rows, nil
}

func (s *reportService) Export(ctx context.Context, reportType string, req ReportRequest, userID *uint, ip string) ([]byte, string, string, error) {
	var data ReportData

	switch reportType {
	case ReportTypeEvents:
		rows, err := s.GetEvents(ctx, req)
		if err != nil {
			return nil, "", "", err
		}
		data.Events = rows
	case ReportTypeRSVPs:
		rows, err := s.GetRSVPs(ctx, req)
		if err != nil {
			return nil, "", "", err
		}
		data.RSVPs = rows
	default:
		return nil, "", "", apperror.Validation([]string{"unknown report type: " + reportType})
	}

	content, filename, mimeType, err := s.exporter.Export(reportType, req.Format, data)
	if err != nil {
		return nil, "", "", apperror.Internal(err)
	}

	s.auditSvc.LogAction(ctx, userID, nil, "REPORT_EXPORTED",
		map[string]interface{}{"report": reportType, "format": req.Format, "file": filename},
		ip, "success")

	return content, filename, mimeType, nil
}
