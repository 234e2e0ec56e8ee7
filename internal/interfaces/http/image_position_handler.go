package http

import (
	"net/url"

	"github.com/gofiber/fiber/v2"

	"github.com/arcrobot/admin_backend/internal/application"
)

type ImagePositionHandler struct {
	service *application.ImagePositionService
}

func NewImagePositionHandler(service *application.ImagePositionService) *ImagePositionHandler {
	return &ImagePositionHandler{service: service}
}

func (h *ImagePositionHandler) Create(c *fiber.Ctx) error {
	position, err := h.service.Create(c.UserContext(), application.ImagePositionInput{
		CatalogID:   c.FormValue("catalog_id"),
		ImageURL:    c.FormValue("image_url"),
		Title:       c.FormValue("title"),
		Top:         c.FormValue("top"),
		LeftPos:     c.FormValue("left_pos", c.FormValue("left")),
		Description: c.FormValue("description"),
		Image:       formFile(c, "image"),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(position)
}

// ListByImage answers GET /api/image-position/:image_url, where the image
// URL arrives path-escaped.
func (h *ImagePositionHandler) ListByImage(c *fiber.Ctx) error {
	imageURL, err := url.PathUnescape(c.Params("image_url"))
	if err != nil {
		return badRequest(c, "Invalid image_url")
	}
	positions, err := h.service.ListByImageURL(c.UserContext(), imageURL)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(positions)
}
