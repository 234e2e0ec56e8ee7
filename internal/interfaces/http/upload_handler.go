package http

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	services "github.com/arcrobot/admin_backend/internal/service"
)

type UploadHandler struct {
	uploader services.Uploader
}

func NewUploadHandler(uploader services.Uploader) *UploadHandler {
	return &UploadHandler{uploader: uploader}
}

// HandleUploadFile stores the multipart file "file" and returns its URL.
func (h *UploadHandler) HandleUploadFile(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return badRequest(c, fmt.Sprintf("Error retrieving file: %v", err))
	}

	url, err := h.uploader.Upload(c.UserContext(), fileHeader)
	if err != nil {
		return respondError(c, fmt.Errorf("error uploading file: %w", err))
	}
	return c.JSON(fiber.Map{"url": url})
}
