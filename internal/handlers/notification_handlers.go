package handlers

import (
	"taskboard/internal/middleware"
	"taskboard/internal/models"
	"taskboard/internal/services"

	"github.com/labstack/echo/v4"
)

// NotificationHandlers serves the caller's own notifications.
type NotificationHandlers struct {
	notificationService services.NotificationService
}

func NewNotificationHandlers(notificationService services.NotificationService) *NotificationHandlers {
	return &NotificationHandlers{notificationService: notificationService}
}

func (h *NotificationHandlers) ListNotifications(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}

	q := query(c)
	params := q.ListParams()
	filters := models.NotificationFilters{Unread: q.Bool("unread")}
	if err := q.Err(); err != nil {
		return err
	}

	page, err := h.notificationService.List(c.Request().Context(), principal, filters, params)
	if err != nil {
		return err
	}
	return ok(c, page)
}

// MarkRead handles POST /notifications/:id/read
func (h *NotificationHandlers) MarkRead(c echo.Context) error {
	principal, err := middleware.PrincipalFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	notification, err := h.notificationService.MarkRead(c.Request().Context(), principal, id)
	if err != nil {
		return err
	}
	return ok(c, notification)
}
