package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arcrobot/admin_backend/internal/application"
)

type BlogHandler struct {
	service *application.BlogService
}

func NewBlogHandler(service *application.BlogService) *BlogHandler {
	return &BlogHandler{service: service}
}

func blogInput(c *fiber.Ctx) application.BlogInput {
	return application.BlogInput{
		Title:             c.FormValue("title"),
		Subtitles:         c.FormValue("subtitles"),
		Description:       c.FormValue("description"),
		AuthorName:        c.FormValue("author_name"),
		AuthorDescription: c.FormValue("author_description"),
		AuthorPhone:       c.FormValue("author_phone"),
		OrderKey:          c.FormValue("order_key"),
	}
}

func (h *BlogHandler) List(c *fiber.Ctx) error {
	res, err := h.service.List(c.UserContext(), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

func (h *BlogHandler) Get(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid ID")
	}
	blog, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(blog)
}

func (h *BlogHandler) Create(c *fiber.Ctx) error {
	blog, err := h.service.Create(c.UserContext(), application.CreateBlogInput{
		BlogInput:   blogInput(c),
		Files:       formFiles(c, "files"),
		AuthorImage: formFile(c, "author_image"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(blog)
}

func (h *BlogHandler) Update(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid ID")
	}
	blog, err := h.service.Update(c.UserContext(), id, application.UpdateBlogInput{
		BlogInput:      blogInput(c),
		Images:         optionalFormValue(c, "images"),
		AuthorOldImage: c.FormValue("author_old_image"),
		UpdatedImages:  formFiles(c, "updatedImages"),
		NewImages:      formFiles(c, "newImages"),
		AuthorImage:    formFile(c, "author_image"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(blog)
}

func (h *BlogHandler) Delete(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid ID")
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Blog deleted"})
}
