package controller

import (
	"ai-docflow-be/internal/dto"
	"ai-docflow-be/internal/pkg/serverutils"
	"ai-docflow-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IFlowController interface {
	RegisterRoutes(r fiber.Router, middlewares ...fiber.Handler)
	SubmitTask(ctx *fiber.Ctx) error
}

type flowController struct {
	service service.IFlowService
}

func NewFlowController(service service.IFlowService) IFlowController {
	return &flowController{service: service}
}

func (c *flowController) RegisterRoutes(r fiber.Router, middlewares ...fiber.Handler) {
	h := r.Group("/flow/v1")
	for _, m := range middlewares {
		h.Use(m)
	}
	h.Post("/task", c.SubmitTask)
}

func (c *flowController) SubmitTask(ctx *fiber.Ctx) error {
	var req dto.TaskRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	}

	res, err := c.service.Execute(ctx.Context(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Task executed", res))
}
