package config

import (
	"os"
)

const ServiceName = "planguardpro-stripe"

type StripeConfig struct {
	SecretKey     string
	WebhookSecret string
}

type Config struct {
	Stripe StripeConfig
	// Domain is the canonical public origin, e.g. https://planguardpro.ca.
	// It builds the checkout redirect URLs and is the only origin CORS allows.
	Domain string
	Port   string
}

func LoadConfig() *Config {
	cfg := &Config{}

	cfg.Stripe.SecretKey = os.Getenv("STRIPE_SECRET_KEY")
	cfg.Stripe.WebhookSecret = os.Getenv("STRIPE_WEBHOOK_SECRET")

	cfg.Domain = os.Getenv("DOMAIN")
	if cfg.Domain == "" {
		cfg.Domain = "http://localhost:5173"
	}

	cfg.Port = os.Getenv("PORT")
	if cfg.Port == "" {
		cfg.Port = "3001"
	}

	return cfg
}
