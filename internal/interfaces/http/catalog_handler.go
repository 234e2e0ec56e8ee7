package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arcrobot/admin_backend/internal/application"
)

type CatalogHandler struct {
	service *application.CatalogService
}

func NewCatalogHandler(service *application.CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func catalogInput(c *fiber.Ctx) application.CatalogInput {
	return application.CatalogInput{
		Name:         c.FormValue("name"),
		Title:        c.FormValue("title"),
		Subtitle:     c.FormValue("subtitle"),
		Description:  c.FormValue("description"),
		Property:     c.FormValue("property"),
		Price:        c.FormValue("price"),
		IsDiscount:   c.FormValue("isDiscount", c.FormValue("is_discount")),
		DeliveryDays: c.FormValue("delivery_days"),
		StorageDays:  c.FormValue("storage_days"),
		OrderKey:     c.FormValue("order_key"),
		Images:       optionalFormValue(c, "images"),
		OtherImages:  optionalFormValue(c, "other_images"),
	}
}

func (h *CatalogHandler) List(c *fiber.Ctx) error {
	res, err := h.service.List(c.UserContext(), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

func (h *CatalogHandler) Get(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid ID")
	}
	item, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

func (h *CatalogHandler) Create(c *fiber.Ctx) error {
	item, err := h.service.Create(c.UserContext(), application.CreateCatalogInput{
		CatalogInput: catalogInput(c),
		Files:        formFiles(c, "files"),
		OtherFiles:   formFiles(c, "other_files"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

func (h *CatalogHandler) Update(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid ID")
	}
	item, err := h.service.Update(c.UserContext(), id, application.UpdateCatalogInput{
		CatalogInput:       catalogInput(c),
		UpdatedImages:      formFiles(c, "updatedImages"),
		NewImages:          formFiles(c, "newImages"),
		UpdatedOtherImages: formFiles(c, "updatedOtherImages"),
		NewOtherImages:     formFiles(c, "newOtherImages"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

func (h *CatalogHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid ID")
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Catalog deleted"})
}

func (h *CatalogHandler) ListHome(c *fiber.Ctx) error {
	items, err := h.service.ListHome(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(items)
}

func (h *CatalogHandler) AddToHome(c *fiber.Ctx) error {
	var req struct {
		ID int64 `json:"id" form:"id"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	item, err := h.service.AddToHome(c.UserContext(), req.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

func (h *CatalogHandler) RemoveFromHome(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid ID")
	}
	item, err := h.service.RemoveFromHome(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}
