package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/procline/error_service/internal/api/rest/middleware"
	"github.com/procline/error_service/internal/dto"
	"github.com/procline/error_service/internal/helper/utils"
	"github.com/procline/error_service/internal/services"
)

type UserHandler struct {
	svc services.UserService
}

func NewUserHandler(svc services.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// SetupAuthRoutes registers the routes that do not require a token.
func (h *UserHandler) SetupAuthRoutes(api fiber.Router) {
	auth := api.Group("/auth")
	auth.Post("/register", h.Register)
	auth.Post("/login", h.Login)
}

func (h *UserHandler) SetupRoutes(api fiber.Router) {
	users := api.Group("/users")

	users.Get("/", h.ListUsers)
	users.Get("/employees", h.ListEmployees)
	users.Get("/:id", h.GetUser)
	users.Put("/:id", h.UpdateUser)
	users.Delete("/:id", h.DeactivateUser)
}

func (h *UserHandler) Register(ctx *fiber.Ctx) error {
	var requestBody dto.RegisterRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	user, err := h.svc.Register(requestBody)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, dto.ToUserResponse(user))
}

func (h *UserHandler) Login(ctx *fiber.Ctx) error {
	var requestBody dto.UserLogin
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "username and password are required")
	}

	resp, err := h.svc.Login(requestBody)
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusUnauthorized, "Invalid credentials")
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, resp)
}

func (h *UserHandler) ListUsers(ctx *fiber.Ctx) error {
	users, err := h.svc.ListUsers(middleware.ActorFromCtx(ctx))
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, users)
}

func (h *UserHandler) ListEmployees(ctx *fiber.Ctx) error {
	users, err := h.svc.ListEmployees(middleware.ActorFromCtx(ctx))
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, users)
}

func (h *UserHandler) GetUser(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid id")
	}
	user, err := h.svc.GetUser(uint(id))
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, user)
}

func (h *UserHandler) UpdateUser(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid id")
	}
	var requestBody dto.UpdateUserRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	user, err := h.svc.UpdateUser(middleware.ActorFromCtx(ctx), uint(id), requestBody)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, user)
}

func (h *UserHandler) DeactivateUser(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeactivateUser(middleware.ActorFromCtx(ctx), uint(id)); err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}
