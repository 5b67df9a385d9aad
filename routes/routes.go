package routes

import (
	"app/handlers"
	"app/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupRoutes defines all the routes for the application.
func SetupRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// --- Authentication Routes ---
	auth := api.Group("/auth")
	auth.Post("/login", handlers.HandleLogin)

	// --- Analytics Routes ---
	analytics := api.Group("/analytics", middleware.JWTMiddleware)
	analytics.Post("/run", handlers.HandleRunAnalysis)
	analytics.Get("/result", handlers.HandleGetAnalysis)
	analytics.Delete("/result", handlers.HandleEvictAnalysis)
	analytics.Get("/dashboard/summary", handlers.HandleGetDashboardSummary)
	analytics.Post("/chat", handlers.HandleAnalyticsChat)
}
