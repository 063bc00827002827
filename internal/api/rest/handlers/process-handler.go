package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/procline/error_service/internal/api/rest/middleware"
	"github.com/procline/error_service/internal/dto"
	"github.com/procline/error_service/internal/helper/utils"
	"github.com/procline/error_service/internal/services"
)

type ProcessHandler struct {
	svc services.ProcessService
}

func NewProcessHandler(svc services.ProcessService) *ProcessHandler {
	return &ProcessHandler{svc: svc}
}

func (h *ProcessHandler) SetupRoutes(api fiber.Router) {
	processes := api.Group("/processes")

	processes.Get("/", h.ListProcesses)
	processes.Get("/:id", h.GetProcess)
	processes.Post("/", h.CreateProcess)
	processes.Put("/:id", h.UpdateProcess)
	processes.Delete("/:id", h.DeleteProcess)
	processes.Post("/:id/steps", h.AddStep)
}

func (h *ProcessHandler) ListProcesses(ctx *fiber.Ctx) error {
	list, err := h.svc.ListProcesses()
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, list)
}

func (h *ProcessHandler) GetProcess(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid id")
	}
	p, err := h.svc.GetProcess(uint(id))
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, p)
}

func (h *ProcessHandler) CreateProcess(ctx *fiber.Ctx) error {
	var requestBody dto.ProcessRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	p, err := h.svc.CreateProcess(middleware.ActorFromCtx(ctx), requestBody)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, p)
}

func (h *ProcessHandler) UpdateProcess(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid id")
	}
	var requestBody dto.ProcessRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	p, err := h.svc.UpdateProcess(middleware.ActorFromCtx(ctx), uint(id), requestBody)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, p)
}

func (h *ProcessHandler) DeleteProcess(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteProcess(middleware.ActorFromCtx(ctx), uint(id)); err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (h *ProcessHandler) AddStep(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid id")
	}
	var requestBody dto.ProcessStepRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	step, err := h.svc.AddStep(middleware.ActorFromCtx(ctx), uint(id), requestBody)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, step)
}
