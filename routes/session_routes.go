package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tasmeeapp/pairing_backend/handlers"
	"github.com/tasmeeapp/pairing_backend/middleware"
)

func SessionRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	sessions := api.Group("/sessions", middleware.Protected())
	sessions.Get("/me", handlers.GetMySessions)
	sessions.Get("/:sessionId", handlers.GetSession)
	sessions.Post("/:sessionId/end", handlers.EndSession)
	sessions.Post("/:sessionId/cancel", handlers.CancelSession)
	sessions.Post("/:sessionId/rating", handlers.SubmitRating)
}
