package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/civicpulse/backend/internal/dto"
	"github.com/civicpulse/backend/internal/services"
)

type NotificationHandler struct {
	notifications *services.NotificationService
}

func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List returns the caller's notifications, newest first. ?unread=true hides read ones.
func (h *NotificationHandler) List(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}

	views, err := h.notifications.ListForUser(c.UserContext(), p.UserID, c.QueryBool("unread"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(views)
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	p, err := principal(c)
	if err != nil {
		return err
	}
	notificationID, err := idParam(c, "id")
	if err != nil {
		return badRequest(c, "Invalid notification id")
	}

	if err := h.notifications.MarkRead(c.UserContext(), p.UserID, notificationID); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Notification marked as read"})
}
