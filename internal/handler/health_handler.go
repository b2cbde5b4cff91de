package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/planguardpro/stripe-backend/internal/config"
	"github.com/planguardpro/stripe-backend/internal/models"
)

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	return c.JSON(models.HealthResponse{
		Status:  "ok",
		Service: config.ServiceName,
	})
}
