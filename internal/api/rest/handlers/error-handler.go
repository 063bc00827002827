package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/procline/error_service/internal/api/rest/middleware"
	"github.com/procline/error_service/internal/dto"
	"github.com/procline/error_service/internal/helper/utils"
	"github.com/procline/error_service/internal/services"
	pkgutils "github.com/procline/error_service/pkg/utils"
)

// maxAttachmentSize caps uploaded attachment files at 10 MiB.
const maxAttachmentSize = 10 << 20

type ErrorHandler struct {
	svc services.ErrorService
}

func NewErrorHandler(svc services.ErrorService) *ErrorHandler {
	return &ErrorHandler{svc: svc}
}

func (h *ErrorHandler) SetupRoutes(api fiber.Router) {
	errs := api.Group("/errors")

	errs.Get("/", h.ListErrors)
	errs.Get("/:id", h.GetError)
	errs.Post("/", h.CreateError)
	errs.Put("/:id", h.UpdateError)
	errs.Delete("/:id", h.DeleteError)
	errs.Post("/:id/assign", h.AssignError)
	errs.Post("/:id/comments", h.AddComment)
	errs.Post("/:id/attachments", h.UploadAttachment)
}

func (h *ErrorHandler) ListErrors(ctx *fiber.Ctx) error {
	list, err := h.svc.ListErrors()
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, list)
}

func (h *ErrorHandler) GetError(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid id")
	}
	e, err := h.svc.GetError(uint(id))
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, e)
}

func (h *ErrorHandler) CreateError(ctx *fiber.Ctx) error {
	var requestBody dto.CreateErrorRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	e, err := h.svc.CreateError(middleware.ActorFromCtx(ctx), requestBody)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, e)
}

func (h *ErrorHandler) UpdateError(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid id")
	}
	var requestBody dto.UpdateErrorRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	e, err := h.svc.UpdateError(middleware.ActorFromCtx(ctx), uint(id), requestBody)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, e)
}

func (h *ErrorHandler) DeleteError(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid id")
	}
	if err := h.svc.DeleteError(middleware.ActorFromCtx(ctx), uint(id)); err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return ctx.SendStatus(fiber.StatusNoContent)
}

func (h *ErrorHandler) AssignError(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid id")
	}
	var requestBody dto.AssignErrorRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	e, err := h.svc.AssignError(middleware.ActorFromCtx(ctx), uint(id), requestBody)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusOK, e)
}

func (h *ErrorHandler) AddComment(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid id")
	}
	var requestBody dto.CommentRequest
	if err := ctx.BodyParser(&requestBody); err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "Please provide valid inputs")
	}

	c, err := h.svc.AddComment(middleware.ActorFromCtx(ctx), uint(id), requestBody)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, c)
}

func (h *ErrorHandler) UploadAttachment(ctx *fiber.Ctx) error {
	id, err := ctx.ParamsInt("id")
	if err != nil {
		return utils.ResponseError(ctx, fiber.StatusBadRequest, "invalid id")
	}

	// missing file is a no-op success, mirroring the attach contract
	var upload *dto.AttachmentUpload
	if fh, err := ctx.FormFile("file"); err == nil && fh != nil {
		f, err := fh.Open()
		if err != nil {
			return utils.ResponseError(ctx, fiber.StatusBadRequest, "could not read file")
		}
		defer f.Close()

		data, err := pkgutils.ReadAllLimit(f, maxAttachmentSize)
		if err != nil {
			return utils.ResponseError(ctx, fiber.StatusBadRequest, err.Error())
		}
		upload = &dto.AttachmentUpload{
			FileName:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Data:        data,
		}
	}

	a, err := h.svc.AddAttachment(ctx.UserContext(), middleware.ActorFromCtx(ctx), uint(id), upload)
	if err != nil {
		return utils.ResponseFromError(ctx, err)
	}
	if a == nil {
		return utils.ResponseSuccess(ctx, fiber.StatusOK, "File uploaded successfully")
	}
	return utils.ResponseSuccess(ctx, fiber.StatusCreated, a)
}
