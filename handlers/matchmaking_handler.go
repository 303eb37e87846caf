package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tasmeeapp/pairing_backend/services"
)

type EnterQueueRequest struct {
	SessionType string `json:"session_type" validate:"required,oneof=correction memorization"`
}

func EnterQueue(c *fiber.Ctx) error {
	profileID, err := currentProfileID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req EnterQueueRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	result, err := services.EnterQueue(profileID, req.SessionType)
	if err != nil {
		return serviceError(c, err)
	}
	if result.Matched {
		return c.Status(fiber.StatusCreated).JSON(result)
	}
	return c.JSON(result)
}

func LeaveQueue(c *fiber.Ctx) error {
	profileID, err := currentProfileID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	sessionType := c.Query("session_type", "correction")
	if err := services.LeaveQueue(profileID, sessionType); err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fiber.Map{"message": "Left the queue"})
}

func GetQueueStatus(c *fiber.Ctx) error {
	profileID, err := currentProfileID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	sessionType := c.Query("session_type", "correction")
	state, err := services.GetQueueState(profileID, sessionType)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(state)
}
