package calendar

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/newwestevents/events-backend/internal/apperror"
	"github.com/newwestevents/events-backend/internal/event"
)

type Handler struct {
	events event.Service
}

func NewHandler(events event.Service) *Handler {
	return &Handler{events: events}
}

// Export handles GET /calendar.ics
// @Summary Download the approved events as an iCalendar file
// @Tags Calendar
// @Produce text/calendar
// @Param search query string false "Match against title, description, location"
// @Param category query string false "Filter by category"
// @Param free query bool false "Only free events"
// @Param accessible query bool false "Only accessible events"
// @Success 200 {string} string "iCalendar document"
// @Router /api/v1/calendar.ics [get]
func (h *Handler) Export(c *gin.Context) {
	// Same filters as the approved listing, so a subscribed calendar can
	// mirror any view of the site.
	filter := event.Filter{
		Search:         c.Query("search"),
		Category:       c.Query("category"),
		FreeOnly:       c.Query("free") == "true",
		AccessibleOnly: c.Query("accessible") == "true",
	}

	events, err := h.events.ListApproved(c.Request.Context(), filter)
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), apperror.Payload(err))
		return
	}

	body := Build(events, time.Now().UTC())
	c.Header("Content-Disposition", `attachment; filename="community-events.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}
