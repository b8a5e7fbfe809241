package rsvp

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/newwestevents/events-backend/internal/apperror"
	"github.com/newwestevents/events-backend/middleware"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

func parseEventID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return 0, false
	}
	return uint(id), true
}

// Toggle handles PUT /events/:id/rsvp
// @Summary Set or change the caller's RSVP for an event
// @Tags RSVP
// @Accept json
// @Produce json
// @Param id path uint true "Event ID"
// @Param rsvp body ToggleRequest true "New status"
// @Success 200 {object} ToggleResponse
// @Router /api/v1/events/{id}/rsvp [put]
func (h *Handler) Toggle(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	eventID, ok := parseEventID(c)
	if !ok {
		return
	}

	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	resp, err := h.service.Toggle(c.Request.Context(), eventID, actor, req.Status, middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), apperror.Payload(err))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Counts handles GET /events/:id/rsvp/counts
// @Summary Per-status RSVP counts for an event
// @Tags RSVP
// @Produce json
// @Param id path uint true "Event ID"
// @Success 200 {object} Counts
// @Router /api/v1/events/{id}/rsvp/counts [get]
func (h *Handler) Counts(c *gin.Context) {
	eventID, ok := parseEventID(c)
	if !ok {
		return
	}

	counts, err := h.service.CountsForEvent(c.Request.Context(), eventID)
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), apperror.Payload(err))
		return
	}
	c.JSON(http.StatusOK, counts)
}

// Mine handles GET /events/:id/rsvp
// @Summary The caller's RSVP for an event
// @Tags RSVP
// @Produce json
// @Param id path uint true "Event ID"
// @Success 200 {object} RSVP
// @Failure 404 {object} gin.H
// @Router /api/v1/events/{id}/rsvp [get]
func (h *Handler) Mine(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	eventID, ok := parseEventID(c)
	if !ok {
		return
	}

	row, err := h.service.GetForUser(c.Request.Context(), eventID, actor)
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), apperror.Payload(err))
		return
	}
	c.JSON(http.StatusOK, row)
}
