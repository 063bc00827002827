package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/procline/error_service/internal/api/rest/middleware"
	"github.com/procline/error_service/internal/helper/utils"
	"github.com/procline/error_service/internal/services"
)

type NotificationHandler struct {
	svc services.NotificationService
}

func NewNotificationHandler(svc services.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

func (h *NotificationHandler) SetupRoutes(api fiber.Router) {
	notifications := api.Group("/notifications")

	notifications.Get("/", h.ListNotifications)
	notifications.Get("/unread", h.ListUnread)
	notifications.Get("/count", h.UnreadCount)
	notifications.Post("/read-all", h.MarkAllRead)
	notifications.Post("/:id/read", h.MarkRead)
	notifications.Delete("/:id", h.DeleteNotification)
}

func (h *NotificationHandler) ListNotifications(ctx *fiber.Ctx) error {
	actor := middleware.ActorFromCtx(ctx)
	list, err := h.svc.ListForUser(actor.ID)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, list)
}

func (h *NotificationHandler) ListUnread(ctx *fiber.Ctx) error {
	actor := middleware.ActorFromCtx(ctx)
	list, err := h.svc.ListUnread(actor.ID)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, list)
}

func (h *NotificationHandler) UnreadCount(ctx *fiber.Ctx) error {
	actor := middleware.ActorFromCtx(ctx)
	count, err := h.svc.UnreadCount(actor.ID)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, count)
}

func (h *NotificationHandler) MarkRead(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid id")
	}
	actor := middleware.ActorFromCtx(ctx)
	if err := h.svc.MarkRead(actor.ID, uint(id)); err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, "Marked as read")
}

func (h *NotificationHandler) MarkAllRead(ctx *fiber.Ctx) error {
	actor := middleware.ActorFromCtx(ctx)
	n, err := h.svc.MarkAllRead(actor.ID)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, fmt.Sprintf("Marked %d notifications as read", n))
}

func (h *NotificationHandler) DeleteNotification(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid id")
	}
	actor := middleware.ActorFromCtx(ctx)
	if err := h.svc.Delete(actor.ID, uint(id)); err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
