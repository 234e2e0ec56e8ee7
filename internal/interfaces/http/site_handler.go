package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arcrobot/admin_backend/internal/application"
)

type SiteHandler struct {
	service *application.SiteService
}

func NewSiteHandler(service *application.SiteService) *SiteHandler {
	return &SiteHandler{service: service}
}

func (h *SiteHandler) List(c *fiber.Ctx) error {
	res, err := h.service.List(c.UserContext(), pageFromQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

func (h *SiteHandler) Get(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid ID")
	}
	site, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(site)
}

func (h *SiteHandler) Update(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid ID")
	}
	var req struct {
		Name string `json:"name" form:"name"`
		Link string `json:"link" form:"link"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	site, err := h.service.Update(c.UserContext(), id, req.Name, req.Link)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(site)
}
