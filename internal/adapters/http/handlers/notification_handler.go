package handlers

import (
	"errors"

	"loanflow-backend/internal/core/domain"
	"loanflow-backend/internal/core/services"
	"loanflow-backend/internal/pkg/pagination"
	"loanflow-backend/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// NotificationHandler handles the in-app notification inbox endpoints
type NotificationHandler struct {
	inboxService *services.InboxService
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(inboxService *services.InboxService) *NotificationHandler {
	return &NotificationHandler{inboxService: inboxService}
}

// List lists the caller's notifications
// @Summary List notifications
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Response
// @Router /notifications [get]
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	params := pagination.GetParams(c)

	output, err := h.inboxService.List(c.Context(), userID, params.Page, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list notifications")
	}
	return response.Success(c, "Notifications retrieved", output)
}

// MarkRead marks one notification read
// @Summary Mark notification read
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /notifications/{id}/read [post]
func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	notificationID, err := c.ParamsInt("id")
	if err != nil || notificationID < 1 {
		return response.BadRequest(c, "Invalid notification ID")
	}

	if err := h.inboxService.MarkRead(c.Context(), userID, uint(notificationID)); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Notification not found")
		}
		return response.InternalServerError(c, "Failed to mark notification read")
	}
	return response.Success(c, "Notification marked read", nil)
}

// MarkAllRead marks all of the caller's notifications read
// @Summary Mark all notifications read
// @Tags Notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /notifications/read-all [post]
func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	userID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	if err := h.inboxService.MarkAllRead(c.Context(), userID); err != nil {
		return response.InternalServerError(c, "Failed to mark notifications read")
	}
	return response.Success(c, "All notifications marked read", nil)
}
