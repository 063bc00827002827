package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/procline/error_service/internal/api/rest/middleware"
	"github.com/procline/error_service/internal/dto"
	"github.com/procline/error_service/internal/helper/utils"
	"github.com/procline/error_service/internal/services"
)

type AuditHandler struct {
	svc services.AuditService
}

func NewAuditHandler(svc services.AuditService) *AuditHandler {
	return &AuditHandler{svc: svc}
}

func (h *AuditHandler) SetupRoutes(api fiber.Router) {
	audit := api.Group("/audit-logs")

	audit.Get("/", h.ListAuditLogs)
	audit.Get("/entity/:entityType/:entityId", h.ListEntityAuditLogs)
	audit.Get("/:id", h.GetAuditLog)
}

func (h *AuditHandler) ListAuditLogs(ctx *fiber.Ctx) error {
	filter := dto.AuditLogFilter{
		EntityType: ctx.Query("entityType"),
		Page:       ctx.QueryInt("page", 1),
		PageSize:   ctx.QueryInt("pageSize", 50),
	}
	if v := ctx.QueryInt("entityId", 0); v > 0 {
		id := uint(v)
		filter.EntityID = &id
	}
	if v := ctx.Query("fromDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid fromDate")
		}
		filter.FromDate = &t
	}
	if v := ctx.Query("toDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid toDate")
		}
		filter.ToDate = &t
	}

	page, err := h.svc.ListAuditLogs(middleware.ActorFromCtx(ctx), filter)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, page)
}

func (h *AuditHandler) GetAuditLog(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid id")
	}
	log, err := h.svc.GetAuditLog(middleware.ActorFromCtx(ctx), uint(id))
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, log)
}

func (h *AuditHandler) ListEntityAuditLogs(ctx *fiber.Ctx) error {
	entityID, err := ctx.ParamsInt("entityId")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid entity id")
	}
	logs, err := h.svc.ListEntityAuditLogs(middleware.ActorFromCtx(ctx), ctx.Params("entityType"), uint(entityID))
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, logs)
}
