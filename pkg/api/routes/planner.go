package routes

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/liip/sheriff"
	"github.com/rs/zerolog/log"
	"github.com/travigo/planner/pkg/config"
	"github.com/travigo/planner/pkg/ctdf"
	"github.com/travigo/planner/pkg/dataaggregator"
	"github.com/travigo/planner/pkg/dataaggregator/query"
	"github.com/travigo/planner/pkg/routing"
	"github.com/travigo/planner/pkg/street"
)

var errBadPlace = errors.New("place should be a lat,lon pair or a stop identifier")

func PlannerRouter(router fiber.Router, cfg config.RouterConfig) {
	router.Get("/plan", func(c *fiber.Ctx) error {
		return getPlan(c, cfg)
	})
}

func getPlan(c *fiber.Ctx, cfg config.RouterConfig) error {
	request := routing.NewRouteRequest(cfg)

	var err error
	request.From, err = resolvePlace(c, c.Query("from"))
	if err != nil {
		return badRequest(c, fmt.Sprintf("Parameter from: %s", err))
	}
	request.To, err = resolvePlace(c, c.Query("to"))
	if err != nil {
		return badRequest(c, fmt.Sprintf("Parameter to: %s", err))
	}

	if dateTimeString := c.Query("datetime"); dateTimeString != "" {
		request.DateTime, err = time.Parse(time.RFC3339, dateTimeString)
		if err != nil {
			return badRequest(c, "Parameter datetime should be an RFS3339/ISO8601 datetime")
		}
	}

	request.ArriveBy = c.QueryBool("arriveBy", false)
	request.Preferences.Transit.IgnoreRealtimeUpdates = c.QueryBool("ignoreRealtime", false)

	if numItineraries := c.QueryInt("numItineraries", 0); numItineraries > 0 {
		request.Preferences.ItineraryFilter.NumItineraries = numItineraries
	}

	if searchWindow := c.Query("searchWindow"); searchWindow != "" {
		window, err := config.ParseDuration(searchWindow)
		if err != nil {
			return badRequest(c, "Parameter searchWindow should be an ISO8601 duration")
		}
		request.SearchWindow = window.Value()
	}

	for parameter, streetRequest := range map[string]*routing.StreetRequest{
		"accessMode": &request.Journey.Access,
		"egressMode": &request.Journey.Egress,
	} {
		if value := c.Query(parameter); value != "" {
			mode, err := street.ParseMode(value)
			if err != nil {
				return badRequest(c, fmt.Sprintf("Parameter %s: %s", parameter, err))
			}
			streetRequest.Mode = mode
		}
	}

	if transportTypes := c.Query("transportTypes"); transportTypes != "" {
		for _, transportType := range strings.Split(transportTypes, ",") {
			request.Journey.Transit.TransportTypes = append(request.Journey.Transit.TransportTypes, ctdf.TransportType(transportType))
		}
	}
	request.Journey.Transit.Filter = c.Query("filter")
	request.Preferences.ItineraryFilter.DebugProfile = c.Query("debugItineraryFilter", request.Preferences.ItineraryFilter.DebugProfile)

	results, err := dataaggregator.Lookup[*ctdf.JourneyPlanResults](c.UserContext(), query.JourneyPlan{
		Request:   request,
		SkipCache: c.QueryBool("skipCache", false),
	})
	if validationError, ok := routing.AsValidationError(err); ok {
		c.SendStatus(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"errors": validationError.Errors,
		})
	} else if err != nil {
		log.Error().Err(err).Msg("Journey planning failed")

		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	groups := []string{"basic", "detailed"}
	if c.QueryBool("debug", false) {
		groups = append(groups, "debug")
	}

	reduced, err := sheriff.Marshal(&sheriff.Options{
		Groups: groups,
	}, results)
	if err != nil {
		c.SendStatus(fiber.StatusInternalServerError)
		return c.JSON(fiber.Map{
			"error": "Sherrif could not reduce JourneyPlanResults",
		})
	}

	return c.JSON(reduced)
}

// resolvePlace accepts "lat,lon" or the primary identifier of a stop
func resolvePlace(c *fiber.Ctx, value string) (*ctdf.Location, error) {
	if value == "" {
		return nil, errBadPlace
	}

	if latitudeString, longitudeString, found := strings.Cut(value, ","); found {
		latitude, latErr := strconv.ParseFloat(strings.TrimSpace(latitudeString), 64)
		longitude, lonErr := strconv.ParseFloat(strings.TrimSpace(longitudeString), 64)
		if latErr != nil || lonErr != nil || latitude < -90 || latitude > 90 || longitude < -180 || longitude > 180 {
			return nil, errBadPlace
		}
		return ctdf.NewLocation(latitude, longitude), nil
	}

	stop, err := dataaggregator.Lookup[*ctdf.Stop](c.UserContext(), query.Stop{
		PrimaryIdentifier: value,
	})
	if err != nil {
		return nil, err
	}
	if stop == nil || stop.Location == nil {
		return nil, errBadPlace
	}

	return stop.Location, nil
}

func badRequest(c *fiber.Ctx, message string) error {
	c.SendStatus(fiber.StatusBadRequest)
	return c.JSON(fiber.Map{
		"error": message,
	})
}
