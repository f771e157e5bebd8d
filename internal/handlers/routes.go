package handlers

import "github.com/gofiber/fiber/v2"

// SetupRoutes registers the web page and the JSON API.
func SetupRoutes(app *fiber.App, evaluation *EvaluationHandler, health *HealthHandler) {
	app.Get("/", evaluation.HandleIndex)
	app.Post("/evaluate", evaluation.HandleEvaluatePage)

	api := app.Group("/api/v1")
	api.Get("/health", health.HandleHealth)
	api.Post("/evaluate", evaluation.HandleEvaluate)
}
