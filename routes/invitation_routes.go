package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tasmeeapp/pairing_backend/handlers"
	"github.com/tasmeeapp/pairing_backend/middleware"
)

func InvitationRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	invitations := api.Group("/invitations", middleware.Protected())
	invitations.Post("", handlers.CreateInvitation)
	invitations.Get("", handlers.ListInvitations)
	invitations.Post("/:invitationId/respond", handlers.RespondToInvitation)
	invitations.Delete("/:invitationId", handlers.CancelInvitation)
}
