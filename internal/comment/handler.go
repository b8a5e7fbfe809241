package comment

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

// Add handles POST /events/:id/comments
// @Summary Comment on an event
// @Tags Comments
// @Accept json
// @Produce json
// @Param id path uint true "Event ID"
// @Param comment body AddRequest true "Comment text"
// @Success 201 {object} Comment
// @Router /api/v1/events/{id}/comments [post]
func (h *Handler) Add(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}

	eventID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	var req AddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	comment, err := h.service.Add(c.Request.Context(), uint(eventID), actor, req.Text, middleware.GetIPFromContext(c))
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), apperror.Payload(err))
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// List handles GET /events/:id/comments
// @Summary List an event's comments, oldest first
// @Tags Comments
// @Produce json
// @Param id path uint true "Event ID"
// @Success 200 {array} Comment
// @Router /api/v1/events/{id}/comments [get]
func (h *Handler) List(c *gin.Context) {
	eventID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid event ID"})
		return
	}

	comments, err := h.service.ListForEvent(c.Request.Context(), uint(eventID))
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), apperror.Payload(err))
		return
	}
	c.JSON(http.StatusOK, comments)
}
