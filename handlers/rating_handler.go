package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/tasmeeapp/pairing_backend/services"
)

type RatingRequest struct {
	Score   int     `json:"score" validate:"required"`
	Comment *string `json:"comment"`
}

func SubmitRating(c *fiber.Ctx) error {
	profileID, err := currentProfileID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}
	sessionID, err := uuid.Parse(c.Params("sessionId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid session ID"})
	}

	var req RatingRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	rating, err := services.SubmitRating(sessionID, profileID, req.Score, req.Comment)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(rating)
}

func GetMyRatings(c *fiber.Ctx) error {
	profileID, err := currentProfileID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	ratings, err := services.ListRatingsFor(profileID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(ratings)
}
