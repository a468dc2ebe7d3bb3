package routes

import "github.com/gofiber/fiber/v2"

var Version = "v0.1"

func APIVersion(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": "planner",
		"version": Version,
	})
}
