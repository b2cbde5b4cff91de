package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/stripe/stripe-go/v74/webhook"
	"go.uber.org/zap"

	"github.com/planguardpro/stripe-backend/internal/config"
	"github.com/planguardpro/stripe-backend/internal/models"
	"github.com/planguardpro/stripe-backend/internal/service"
	"github.com/planguardpro/stripe-backend/pkg/utils"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
	validator      *utils.Validator
	webhookSecret  string
	logger         *zap.Logger
}

func NewPaymentHandler(paymentService *service.PaymentService, validator *utils.Validator, cfg *config.Config, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
		validator:      validator,
		webhookSecret:  cfg.Stripe.WebhookSecret,
		logger:         logger,
	}
}

func (h *PaymentHandler) CreateCheckoutSession(c *fiber.Ctx) error {
	var req models.CreateCheckoutSessionRequest
	if err := c.BodyParser(&req); err != nil {
		// Malformed bodies coerce to defaults rather than failing the order.
		req = models.CreateCheckoutSessionRequest{}
	}

	if err := h.validator.Struct(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(models.ErrorResponse("Invalid request: " + err.Error()))
	}

	resp, err := h.paymentService.CreateCheckoutSession(&req)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(models.ErrorResponse(err.Error()))
	}

	return c.JSON(resp)
}

func (h *PaymentHandler) HandleStripeWebhook(c *fiber.Ctx) error {
	payload := c.Body()
	signature := c.Get("Stripe-Signature")

	// Verify against the raw body; parsing it first would invalidate the
	// signature.
	event, err := webhook.ConstructEventWithOptions(payload, signature, h.webhookSecret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		})
	if err != nil {
		h.logger.Warn("webhook signature verification failed", zap.Error(err))
		return c.Status(fiber.StatusBadRequest).SendString("Webhook signature verification failed")
	}

	if err := h.paymentService.HandleStripeWebhook(&event); err != nil {
		// Acknowledge anyway; Stripe must not redeliver because our side
		// effects are incomplete.
		h.logger.Error("webhook dispatch failed",
			zap.String("type", event.Type),
			zap.Error(err),
		)
	}

	return c.JSON(models.WebhookAck{Received: true})
}

func (h *PaymentHandler) GetCheckoutSession(c *fiber.Ctx) error {
	details, err := h.paymentService.GetCheckoutSession(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(models.ErrorResponse("Session not found"))
	}

	return c.JSON(details)
}
