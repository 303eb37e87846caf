package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tasmeeapp/pairing_backend/database"
	"github.com/tasmeeapp/pairing_backend/services"
)

type UpdateProfileRequest struct {
	Name *string `json:"name"`
	Role *string `json:"role" validate:"omitempty,oneof=teacher student both"`
}

func GetMyProfile(c *fiber.Ctx) error {
	profileID, err := currentProfileID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	profile, err := services.GetProfile(profileID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(profile)
}

func UpdateMyProfile(c *fiber.Ctx) error {
	profileID, err := currentProfileID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	profile, err := services.GetProfile(profileID)
	if err != nil {
		return serviceError(c, err)
	}

	if req.Name != nil {
		profile.Name = *req.Name
	}
	if req.Role != nil {
		profile.Role = *req.Role
	}

	if err := database.DB.Save(profile).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update profile"})
	}
	return c.JSON(profile)
}

// ListTeachers backs the invitation screen's browse tab: same-gender
// profiles able to take the teacher slot, best-rated first.
func ListTeachers(c *fiber.Ctx) error {
	profileID, err := currentProfileID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	teachers, err := services.ListAvailableTeachers(profileID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(teachers)
}
