package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tasmeeapp/pairing_backend/handlers"
	"github.com/tasmeeapp/pairing_backend/middleware"
)

func ProfileRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	profile := api.Group("/profile/me", middleware.Protected())
	profile.Get("", handlers.GetMyProfile)
	profile.Put("", handlers.UpdateMyProfile)
	profile.Get("/ratings", handlers.GetMyRatings)

	api.Get("/profiles/teachers", middleware.Protected(), handlers.ListTeachers)
}
