package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tasmeeapp/pairing_backend/services"
)

type EndSessionRequest struct {
	DurationSeconds *int `json:"duration_seconds" validate:"required,min=0"`
}

func EndSession(c *fiber.Ctx) error {
	profileID, err := currentProfileID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session ID"})
	}

	var req EndSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	session, err := services.EndSession(sessionID, profileID, *req.DurationSeconds)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(session)
}

func CancelSession(c *fiber.Ctx) error {
	profileID, err := currentProfileID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session ID"})
	}

	session, err := services.CancelSession(sessionID, profileID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(session)
}

func GetSession(c *fiber.Ctx) error {
	profileID, err := currentProfileID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session ID"})
	}

	session, err := services.GetSessionFor(sessionID, profileID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(session)
}

func GetMySessions(c *fiber.Ctx) error {
	profileID, err := currentProfileID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	sessions, err := services.ListSessions(profileID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(sessions)
}
