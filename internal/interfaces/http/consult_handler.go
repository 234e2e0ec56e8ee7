package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arcrobot/admin_backend/internal/application"
)

type ConsultHandler struct {
	service *application.ConsultService
	limiter *application.RateLimiter
}

// NewConsultHandler creates the handler; limiter may be nil.
func NewConsultHandler(service *application.ConsultService, limiter *application.RateLimiter) *ConsultHandler {
	return &ConsultHandler{service: service, limiter: limiter}
}

func (h *ConsultHandler) List(c *fiber.Ctx) error {
	consults, err := h.service.List(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(consults)
}

func (h *ConsultHandler) Get(c *fiber.Ctx) error {
	id, ok := parseID(c)
	if !ok {
		return badRequest(c, "Invalid ID")
	}
	consult, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(consult)
}

func (h *ConsultHandler) Create(c *fiber.Ctx) error {
	if h.limiter != nil {
		if err := h.limiter.Allow(c.IP()); err != nil {
			return respondError(c, err)
		}
	}

	var req struct {
		Name        string `json:"name" form:"name"`
		PhoneNumber string `json:"phone_number" form:"phone_number"`
		Email       string `json:"email" form:"email"`
		Reason      string `json:"reason" form:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}
	consult, err := h.service.Create(c.UserContext(), req.Name, req.PhoneNumber, req.Email, req.Reason)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(consult)
}
