package api

import (
	"github.com/gofiber/fiber/v2"
)

// SetupRoutes registers all HTTP routes on the app.
func SetupRoutes(app *fiber.App, handler *Handler) {
	app.Get("/health", handler.HealthCheck)

	v1 := app.Group("/api/v1")
	{
		v1.Get("/areas", handler.ListAreas)
		v1.Get("/traffic/:location", handler.GetTraffic)
		v1.Get("/weather/:location", handler.GetWeather)
		v1.Get("/insight/:location", handler.GetInsight)
		v1.Get("/analysis/:location", handler.GetAnalysis)
		v1.Get("/prompt/:location", handler.GetPrompt)
		v1.Get("/status", handler.GetStatus)
	}
}
