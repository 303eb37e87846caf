package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tasmeeapp/pairing_backend/services"
)

type CreateInvitationRequest struct {
	InviteeID     string     `json:"invitee_id" validate:"required,uuid"`
	SessionType   string     `json:"session_type" validate:"required,oneof=correction memorization"`
	ScheduledTime *time.Time `json:"scheduled_time"`
}

type RespondRequest struct {
	Accept *bool `json:"accept" validate:"required"`
}

func CreateInvitation(c *fiber.Ctx) error {
	profileID, err := currentProfileID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req CreateInvitationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	inviteeID, _ := uuid.Parse(req.InviteeID)

	invitation, err := services.CreateInvitation(profileID, inviteeID, req.SessionType, req.ScheduledTime)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(invitation)
}

func ListInvitations(c *fiber.Ctx) error {
	profileID, err := currentProfileID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	list, err := services.ListInvitations(profileID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(list)
}

func RespondToInvitation(c *fiber.Ctx) error {
	profileID, err := currentProfileID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	invitationID, err := uuid.Parse(c.Params("invitationId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid invitation ID"})
	}

	var req RespondRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := services.RespondToInvitation(invitationID, profileID, *req.Accept)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(result)
}

func CancelInvitation(c *fiber.Ctx) error {
	profileID, err := currentProfileID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	invitationID, err := uuid.Parse(c.Params("invitationId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid invitation ID"})
	}

	invitation, err := services.CancelInvitation(invitationID, profileID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(invitation)
}
