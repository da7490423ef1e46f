package handlers

import (
	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/identity"
	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/cp-backend/internal/services"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type NotificationHandler struct {
	notificationService NotificationService
}

func NewNotificationHandler(notificationService NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationService: notificationService}
}

func (h *NotificationHandler) List(c *fiber.Ctx) error {
	return h.list(c, 0)
}

func (h *NotificationHandler) Latest(c *fiber.Ctx) error {
	return h.list(c, services.LatestNotificationsLimit)
}

func (h *NotificationHandler) list(c *fiber.Ctx, limit int) error {
	ownerID, err := identity.GetSubjectID(c)
	if err != nil {
		return unauthorized(c)
	}

	notifications, err := h.notificationService.List(c.UserContext(), ownerID, limit)
	if err != nil {
		return respondError(c, err, "Server error")
	}
	if notifications == nil {
		notifications = []models.Notification{}
	}

	return c.JSON(dto.DataResponse{Success: true, Data: notifications})
}

func (h *NotificationHandler) UnreadCount(c *fiber.Ctx) error {
	ownerID, err := identity.GetSubjectID(c)
	if err != nil {
		return unauthorized(c)
	}

	count, err := h.notificationService.UnreadCount(c.UserContext(), ownerID)
	if err != nil {
		return respondError(c, err, "Server error")
	}

	return c.JSON(dto.UnreadCountResponse{Success: true, UnreadCount: count})
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	ownerID, err := identity.GetSubjectID(c)
	if err != nil {
		return unauthorized(c)
	}

	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return badRequest(c, "Invalid notification ID")
	}

	if err := h.notificationService.MarkRead(c.UserContext(), ownerID, id); err != nil {
		return respondError(c, err, "Server error")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Notification marked as read",
	})
}

func (h *NotificationHandler) MarkAllRead(c *fiber.Ctx) error {
	ownerID, err := identity.GetSubjectID(c)
	if err != nil {
		return unauthorized(c)
	}

	updated, err := h.notificationService.MarkAllRead(c.UserContext(), ownerID)
	if err != nil {
		return respondError(c, err, "Server error")
	}

	return c.JSON(dto.MarkAllReadResponse{
		Success: true,
		Message: "All notifications marked as read",
		Updated: updated,
	})
}
