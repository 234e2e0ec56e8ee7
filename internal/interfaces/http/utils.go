package http

import (
	"errors"
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/arcrobot/admin_backend/internal/application"
	"github.com/arcrobot/admin_backend/internal/domain"
)

// errorKey is the fiber local under which a handler leaves the error it
// answered with, for the request logger.
const errorKey = "handler_error"

// errorStatus maps service errors to HTTP status codes.
func errorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrRankConflict):
		return fiber.StatusConflict
	case errors.Is(err, application.ErrRateLimited):
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}

func respondError(c *fiber.Ctx, err error) error {
	c.Locals(errorKey, err)
	return c.Status(errorStatus(err)).JSON(fiber.Map{"error": err.Error()})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

func parseID(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

// pageFromQuery reads ?page=&pageSize=, falling back to the defaults.
func pageFromQuery(c *fiber.Ctx) domain.Page {
	return domain.NewPage(c.QueryInt("page", 1), c.QueryInt("pageSize", domain.DefaultPageSize))
}

// formFiles returns the files uploaded under key, nil when the request is
// not multipart.
func formFiles(c *fiber.Ctx, key string) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil {
		return nil
	}
	return form.File[key]
}

func formFile(c *fiber.Ctx, key string) *multipart.FileHeader {
	if files := formFiles(c, key); len(files) > 0 {
		return files[0]
	}
	return nil
}

// optionalFormValue tells an absent field (nil) from an empty one.
func optionalFormValue(c *fiber.Ctx, key string) *string {
	if form, err := c.MultipartForm(); err == nil {
		if values, ok := form.Value[key]; ok && len(values) > 0 {
			return &values[0]
		}
		return nil
	}
	if args := c.Request().PostArgs(); args.Has(key) {
		v := string(args.Peek(key))
		return &v
	}
	return nil
}
