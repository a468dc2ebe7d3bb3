package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/travigo/planner/pkg/api/routes"
	"github.com/travigo/planner/pkg/config"
)

func NewApp(cfg config.RouterConfig) *fiber.App {
	webApp := fiber.New()
	webApp.Use(NewLogger())

	group := webApp.Group("/core")

	group.Get("version", routes.APIVersion)

	routes.StopsRouter(group.Group("/stops"))

	routes.PlannerRouter(group.Group("/planner"), cfg)

	return webApp
}

func SetupServer(listen string, cfg config.RouterConfig) error {
	return NewApp(cfg).Listen(listen)
}
