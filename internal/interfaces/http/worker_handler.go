package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arcrobot/admin_backend/internal/application"
)

type WorkerHandler struct {
	service *application.WorkerService
}

func NewWorkerHandler(service *application.WorkerService) *WorkerHandler {
	return &WorkerHandler{service: service}
}

func workerInput(c *fiber.Ctx) application.WorkerInput {
	return application.WorkerInput{
		Name:        c.FormValue("name"),
		Description: c.FormValue("description"),
		WorkerType:  c.FormValue("worker_type"),
		Image:       c.FormValue("image"),
		ImageFile:   formFile(c, "image"),
	}
}

func (h *WorkerHandler) List(c *fiber.Ctx) error {
	res, err := h.service.List(c.UserContext(), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

func (h *WorkerHandler) Get(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid ID")
	}
	worker, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(worker)
}

func (h *WorkerHandler) Create(c *fiber.Ctx) error {
	worker, err := h.service.Create(c.UserContext(), workerInput(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(worker)
}

func (h *WorkerHandler) Update(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid ID")
	}
	worker, err := h.service.Update(c.UserContext(), id, workerInput(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(worker)
}

func (h *WorkerHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid ID")
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Worker deleted"})
}
