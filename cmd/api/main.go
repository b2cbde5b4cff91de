package main

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/planguardpro/stripe-backend/internal/config"
	"github.com/planguardpro/stripe-backend/internal/handler"
	"github.com/planguardpro/stripe-backend/internal/service"
	"github.com/planguardpro/stripe-backend/pkg/logger"
	"github.com/planguardpro/stripe-backend/pkg/payment"
	"github.com/planguardpro/stripe-backend/pkg/utils"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	cfg := config.LoadConfig()

	zapLogger, err := logger.New()
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer zapLogger.Sync()

	// Stripe service
	stripeService := payment.NewStripeService(cfg.Stripe.SecretKey, cfg.Domain)

	// Order recorder (logging stands in for persistence for now)
	recorder := service.NewLogRecorder(zapLogger)

	// Payment service
	paymentService := service.NewPaymentService(stripeService, recorder, zapLogger)

	validator := utils.NewValidator()

	// Handlers
	paymentHandler := handler.NewPaymentHandler(paymentService, validator, cfg, zapLogger)
	healthHandler := handler.NewHealthHandler()

	// Router
	app := fiber.New()

	app.Use(fiberlogger.New())

	// Stripe webhook (server-to-server, outside the CORS'd group)
	app.Post("/webhook", paymentHandler.HandleStripeWebhook)

	api := app.Group("/api")
	api.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Domain,
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST",
	}))
	api.Use(limiter.New(limiter.Config{
		Max:        60,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	api.Post("/create-checkout-session", paymentHandler.CreateCheckoutSession)
	api.Get("/checkout-session/:sessionId", paymentHandler.GetCheckoutSession)
	api.Get("/health", healthHandler.Check)

	zapLogger.Info("starting server",
		zap.String("service", config.ServiceName),
		zap.String("port", cfg.Port),
	)

	log.Fatal(app.Listen(":" + cfg.Port))
}
