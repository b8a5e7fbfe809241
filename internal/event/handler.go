package event

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

func respondErr(c *gin.Context, err error) {
	c.JSON(apperror.HTTPStatus(err), apperror.Payload(err))
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return 0, false
	}
	return uint(id), true
}

// List handles GET /events - the public approved listing
// @Summary List approved events
// @Tags Events
// @Produce json
// @Param search query string false "Match against title, description, location"
// @Param category query string false "Filter by category"
// @Param free query bool false "Only free events"
// @Param accessible query bool false "Only accessible events"
// @Param sort query string false "Sort order: date (default), created, title"
// @Success 200 {array} Event
// @Router /api/v1/events [get]
func (h *Handler) List(c *gin.Context) {
	filter := Filter{
		Search:         c.Query("search"),
		Category:       c.Query("category"),
		FreeOnly:       c.Query("free") == "true",
		AccessibleOnly: c.Query("accessible") == "true",
		SortBy:         c.Query("sort"),
	}

	events, err := h.service.ListApproved(c.Request.Context(), filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// Upcoming handles GET /events/upcoming
// @Summary List upcoming approved events
// @Tags Events
// @Produce json
// @Param limit query int false "Maximum number of events (default 10)"
// @Success 200 {array} Event
// @Router /api/v1/events/upcoming [get]
func (h *Handler) Upcoming(c *gin.Context) {
	limit := 10
	if limitStr := c.Query("limit"); limitStr != "" {
		if n, err := strconv.Atoi(limitStr); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	events, err := h.service.Upcoming(c.Request.Context(), limit)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// Get handles GET /events/:id
// @Summary Get one event
// @Tags Events
// @Produce json
// @Param id path uint true "Event ID"
// @Success 200 {object} Event
// @Failure 404 {object} gin.H
// @Router /api/v1/events/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	// Unauthenticated readers get the zero Actor: approved events only.
	actor, _ := middleware.GetActor(c)

	e, err := h.service.GetVisible(c.Request.Context(), id, actor)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// Submit handles POST /events
// @Summary Submit an event for moderation
// @Tags Events
// @Accept json
// @Produce json
// @Param event body CreateEventRequest true "Event details"
// @Success 201 {object} Event
// @Failure 400 {object} gin.H
// @Failure 429 {object} gin.H
// @Router /api/v1/events [post]
func (h *Handler) Submit(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	e, err := h.service.Submit(c.Request.Context(), req, actor, middleware.GetIPFromContext(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, e)
}

// Update handles PUT /events/:id
// @Summary Edit an event (admin or submitter)
// @Tags Events
// @Accept json
// @Produce json
// @Param id path uint true "Event ID"
// @Param event body UpdateEventRequest true "Fields to change"
// @Success 200 {object} Event
// @Router /api/v1/events/{id} [put]
func (h *Handler) Update(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	e, err := h.service.Edit(c.Request.Context(), id, req, actor, middleware.GetIPFromContext(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// Delete handles DELETE /events/:id
// @Summary Delete an event (admin or submitter)
// @Tags Events
// @Produce json
// @Param id path uint true "Event ID"
// @Success 204
// @Router /api/v1/events/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id, actor, middleware.GetIPFromContext(c)); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// MyEvents handles GET /users/me/events
// @Summary List the caller's submissions in every status
// @Tags Events
// @Produce json
// @Success 200 {array} Event
// @Router /api/v1/users/me/events [get]
func (h *Handler) MyEvents(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}

	events, err := h.service.ListByUser(c.Request.Context(), actor.UserID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// ===========================
// Admin endpoints

// ListPending handles GET /admin/events/pending
// @Summary List events waiting for moderation
// @Tags Admin
// @Produce json
// @Success 200 {array} Event
// @Router /api/v1/admin/events/pending [get]
func (h *Handler) ListPending(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}

	events, err := h.service.ListPending(c.Request.Context(), actor)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// UpdateStatus handles PATCH /admin/events/:id/status
// @Summary Approve or reject an event
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path uint true "Event ID"
// @Param status body StatusUpdateRequest true "New status: approved or rejected"
// @Success 200 {object} Event
// @Router /api/v1/admin/events/{id}/status [patch]
func (h *Handler) UpdateStatus(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	var (
		e   *Event
		err error
	)
	ip := middleware.GetIPFromContext(c)
	switch req.Status {
	case StatusApproved:
		e, err = h.service.Approve(c.Request.Context(), id, actor, ip)
	case StatusRejected:
		e, err = h.service.Reject(c.Request.Context(), id, actor, ip)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "status must be approved or rejected"})
		return
	}
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, e)
}

// Import handles POST /admin/events/import
// @Summary Bulk-import external events
// @Tags Admin
// @Accept json
// @Produce json
// @Param events body []ExternalEvent true "Events to import"
// @Success 200 {object} ImportResult
// @Router /api/v1/admin/events/import [post]
func (h *Handler) Import(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}

	var items []ExternalEvent
	if err := c.ShouldBindJSON(&items); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if len(items) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Nothing to import"})
		return
	}

	result, err := h.service.ImportExternal(c.Request.Context(), items, actor, middleware.GetIPFromContext(c))
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Stats handles GET /admin/events/stats
// @Summary Moderation dashboard counters
// @Tags Admin
// @Produce json
// @Success 200 {object} Stats
// @Router /api/v1/admin/events/stats [get]
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
