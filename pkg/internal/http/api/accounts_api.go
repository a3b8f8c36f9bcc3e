package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/wavedeck-app/wavedeck/pkg/internal/models"
	"github.com/wavedeck-app/wavedeck/pkg/internal/services"
)

func getUserinfo(c *fiber.Ctx) error {
	user := c.Locals("user").(models.Account)

	profile, err := services.ResolveProfile(user)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return c.JSON(profile)
}
