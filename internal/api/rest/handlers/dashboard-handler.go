package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/procline/error_service/internal/api/rest/middleware"
	"github.com/procline/error_service/internal/dto"
	"github.com/procline/error_service/internal/helper/utils"
	"github.com/procline/error_service/internal/services"
)

type DashboardHandler struct {
	svc services.DashboardService
}

func NewDashboardHandler(svc services.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

func (h *DashboardHandler) SetupRoutes(api fiber.Router) {
	dashboard := api.Group("/dashboard")

	dashboard.Get("/", h.GetDashboard)
	dashboard.Get("/report", h.GetReport)
}

func (h *DashboardHandler) GetDashboard(ctx *fiber.Ctx) error {
	data, err := h.svc.GetDashboard()
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, data)
}

func (h *DashboardHandler) GetReport(ctx *fiber.Ctx) error {
	filter := dto.ReportFilter{
		ProcessLine: ctx.Query("processLine"),
		Severity:    ctx.Query("severity"),
	}
	if v := ctx.Query("fromDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid fromDate")
		}
		filter.FromDate = t
	}
	if v := ctx.Query("toDate"); v != "" {
		t, err := time.Parse(time.RFC3339, v)
		if err != nil {
			return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid toDate")
		}
		filter.ToDate = t
	}

	report, err := h.svc.GetReport(middleware.ActorFromCtx(ctx), filter)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, report)
}
