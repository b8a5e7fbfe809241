package notification

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/newwestevents/events-backend/middleware"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /notifications
// @Summary List the caller's notifications
// @Tags Notifications
// @Produce json
// @Param unread query bool false "Only unread notifications"
// @Success 200 {array} InAppNotification
// @Router /api/v1/notifications [get]
func (h *Handler) List(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	unreadOnly := c.Query("unread") == "true"

	items, err := h.service.ListForUser(c.Request.Context(), actor.UserID, unreadOnly)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve notifications"})
		return
	}
	c.JSON(http.StatusOK, items)
}

// MarkRead handles PATCH /notifications/:id/read
// @Summary Mark a notification read
// @Tags Notifications
// @Produce json
// @Param id path uint true "Notification ID"
// @Success 204
// @Router /api/v1/notifications/{id}/read [patch]
func (h *Handler) MarkRead(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), uint(id), actor.UserID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Notification not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
