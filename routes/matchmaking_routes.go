package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tasmeeapp/pairing_backend/handlers"
	"github.com/tasmeeapp/pairing_backend/middleware"
)

func MatchmakingRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	queue := api.Group("/matchmaking", middleware.Protected())
	queue.Post("/enter", handlers.EnterQueue)
	queue.Delete("/leave", handlers.LeaveQueue)
	queue.Get("/status", handlers.GetQueueStatus)
}
