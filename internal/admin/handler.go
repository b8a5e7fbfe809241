package admin

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

// ListUsers handles GET /admin/users
// @Summary List accounts with submission counts
// @Tags Admin
// @Produce json
// @Param search query string false "Match against email or name"
// @Param status query string false "Filter by account status"
// @Param page query int false "Page number (default 1)"
// @Param limit query int false "Records per page (default 20)"
// @Success 200 {object} PaginatedUsers
// @Router /api/v1/admin/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	filter := UserFilter{
		Search: c.Query("search"),
		Status: c.Query("status"),
		Page:   1,
		Limit:  20,
	}
	if pageStr := c.Query("page"); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page > 0 {
			filter.Page = page
		}
	}
	if limitStr := c.Query("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit <= 100 {
			filter.Limit = limit
		}
	}

	result, err := h.service.ListUsers(c.Request.Context(), filter)
	if err != nil {
		c.JSON(apperror.HTTPStatus(err), apperror.Payload(err))
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateUserStatus handles PATCH /admin/users/:id/status
// @Summary Activate or suspend an account
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path uint true "User ID"
// @Param status body UserStatusRequest true "New status"
// @Success 204
// @Router /api/v1/admin/users/{id}/status [patch]
func (h *Handler) UpdateUserStatus(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}

	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req UserStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.service.SetUserStatus(c.Request.Context(), uint(userID), req.Status, actor, middleware.GetIPFromContext(c)); err != nil {
		c.JSON(apperror.HTTPStatus(err), apperror.Payload(err))
		return
	}
	c.Status(http.StatusNoContent)
}

// UpdateUserAdmin handles PATCH /admin/users/:id/admin
// @Summary Grant or revoke the admin claim
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path uint true "User ID"
// @Param claim body UserAdminRequest true "Admin flag"
// @Success 204
// @Router /api/v1/admin/users/{id}/admin [patch]
func (h *Handler) UpdateUserAdmin(c *gin.Context) {
	actor, ok := middleware.MustActor(c)
	if !ok {
		return
	}

	userID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	var req UserAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.IsAdmin == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	if err := h.service.SetUserAdmin(c.Request.Context(), uint(userID), *req.IsAdmin, actor, middleware.GetIPFromContext(c)); err != nil {
		c.JSON(apperror.HTTPStatus(err), apperror.Payload(err))
		return
	}
	c.Status(http.StatusNoContent)
}
