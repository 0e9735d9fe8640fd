package controller

import (
	"github.com/ashleytower/voice-email-agent/internal/config"

	"github.com/gofiber/fiber/v2"
)

const serviceName = "Voice-First AI Email Agent"

type IHealthController interface {
	RegisterRoutes(app *fiber.App)
	Root(ctx *fiber.Ctx) error
	Health(ctx *fiber.Ctx) error
}

type healthController struct {
	cfg *config.Config
}

func NewHealthController(cfg *config.Config) IHealthController {
	return &healthController{cfg: cfg}
}

func (c *healthController) RegisterRoutes(app *fiber.App) {
	app.Get("/", c.Root)
	app.Get("/health", c.Health)
}

func (c *healthController) Root(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"status":  "healthy",
		"service": serviceName,
		"version": "1.0.0",
	})
}

// Health reports which external integrations have credentials configured.
// It does not probe them.
func (c *healthController) Health(ctx *fiber.Ctx) error {
	return ctx.JSON(fiber.Map{
		"status":      "healthy",
		"environment": c.cfg.App.Environment,
		"services": fiber.Map{
			"openai":   c.cfg.OpenAI.APIKey != "",
			"database": c.cfg.Database.Connection != "",
			"gmail":    c.cfg.Gmail.ClientID != "",
			"smtp":     c.cfg.SMTP.Host != "",
			"nats":     c.cfg.App.NatsURL != "",
		},
	})
}
