package routes

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/travigo/planner/pkg/ctdf"
	"github.com/travigo/planner/pkg/dataaggregator"
	"github.com/travigo/planner/pkg/dataaggregator/query"
	"github.com/travigo/planner/pkg/dataaggregator/source/transitstops"
)

func StopsRouter(router fiber.Router) {
	router.Get("/:identifier", getStop)
}

func getStop(c *fiber.Ctx) error {
	identifier := c.Params("identifier")

	stop, err := dataaggregator.Lookup[*ctdf.Stop](c.UserContext(), query.Stop{
		PrimaryIdentifier: identifier,
	})
	if errors.Is(err, transitstops.ErrStopNotFound) {
		c.SendStatus(fiber.StatusNotFound)
		return c.JSON(fiber.Map{
			"error": "Could not find Stop matching Stop Identifier",
		})
	} else if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	stopReduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: []string{"basic", "detailed"},
	}, stop)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce Stop",
		})
	}

	return c.JSON(stopReduced)
}
