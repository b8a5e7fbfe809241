package reports

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/newwestevents/events-backend/internal/apperror"
	"github.com/newwestevents/events-backend/middleware"
)

type Handler struct {
	service ReportService
}

func NewHandler(service ReportService) *Handler {
	return &Handler{service: service}
}

func requestFromQuery(c *gin.Context) ReportRequest {
	return ReportRequest{
		DateRange: c.DefaultQuery("date_range", DateRangeWeekly),
		StartDate: c.Query("start_date"),
		EndDate:   c.Query("end_date"),
		Status:    c.Query("status"),
		Format:    c.DefaultQuery("format", FormatCSV),
	}
}

// Events handles GET /admin/reports/events
// @Summary Events report (JSON rows)
// @Tags Reports
// @Produce json
// @Param date_range query string false "daily|weekly|monthly|yearly|custom (default weekly)"
// @Param start_date query string false "YYYY-MM-DD, custom range"
// @Param end_date query string false "YYYY-MM-DD, custom range"
// @Param status query string false "Filter by event status"
// @Success 200 {array} EventReportRow
// @Router /api/v1/admin/reports/events [get]
func (h *Handler) Events(c *gin.Context) {
	rows, err := h.service.GetEvents(c.Request.Context(), requestFromQuery(c))
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), apperror.Payload(err))
		return
	}
	c.JSON(http.StatusOK, rows)
}

// RSVPs handles GET /admin/reports/rsvps
// @Summary RSVP summary report (JSON rows)
// @Tags Reports
// @Produce json
// @Success 200 {array} RSVPReportRow
// @Router /api/v1/admin/reports/rsvps [get]
func (h *Handler) RSVPs(c *gin.Context) {
	rows, err := h.service.GetRSVPs(c.Request.Context(), requestFromQuery(c))
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), apperror.Payload(err))
		return
	}
	c.JSON(http.StatusOK, rows)
}

// Export handles GET /admin/reports/:type/export
// @Summary Download a report as csv, excel or pdf
// @Tags Reports
// @Produce octet-stream
// @Param type path string true "Report type: events or rsvps"
// @Param format query string false "csv (default), excel, pdf"
// @Success 200 {string} string "file content"
// @Router /api/v1/admin/reports/{type}/export [get]
func (h *Handler) Export(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}

	reportType := c.Param("type")
	uid := actor.UserID

	content, filename, mimeType, err := h.service.Export(
		c.Request.Context(), reportType, requestFromQuery(c), &uid, middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), apperror.Payload(err))
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, mimeType, content)
}
