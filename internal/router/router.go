package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/crfpa-grader-api/internal/config"
	"github.com/noah-isme/crfpa-grader-api/internal/handler"
	"github.com/noah-isme/crfpa-grader-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	GradeHandler  *handler.GradeHandler
	EnableMetrics bool
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/health", handler.HealthCheck(cfg))

	if deps.EnableMetrics {
		app.Get(observability.MetricsPath, observability.MetricsHandler())
	}

	if deps.GradeHandler != nil {
		deps.GradeHandler.Register(app)
	}
}
