package routing

import (
	"errors"
	"fmt"
	"time"

	"github.com/travigo/planner/pkg/ctdf"
	"github.com/travigo/planner/pkg/raptor"
	"github.com/travigo/planner/pkg/street"
	"github.com/travigo/planner/pkg/transit"
)

var ErrUnknownStopIndex = errors.New("path references a stop missing from the transit layer")

// ItineraryMapper turns an engine path into a JourneyPlan
type ItineraryMapper interface {
	CreateItinerary(path *raptor.Path, layer *transit.Layer, transitSearchTimeZero time.Time) (ctdf.JourneyPlan, error)
}

type DefaultItineraryMapper struct{}

func (DefaultItineraryMapper) CreateItinerary(path *raptor.Path, layer *transit.Layer, transitSearchTimeZero time.Time) (ctdf.JourneyPlan, error) {
	toTime := func(seconds int) time.Time {
		return transitSearchTimeZero.Add(time.Duration(seconds) * time.Second)
	}

	stopRef := func(stopIndex int) (string, error) {
		if stopIndex == raptor.NotSet {
			return "", nil
		}
		stop := layer.StopByIndex(stopIndex)
		if stop == nil {
			return "", fmt.Errorf("stop %d: %w", stopIndex, ErrUnknownStopIndex)
		}
		return stop.PrimaryIdentifier, nil
	}

	routeItems := make([]ctdf.JourneyPlanRouteItem, 0, len(path.Legs))

	for _, leg := range path.Legs {
		originStopRef, err := stopRef(leg.FromStop)
		if err != nil {
			return ctdf.JourneyPlan{}, err
		}
		destinationStopRef, err := stopRef(leg.ToStop)
		if err != nil {
			return ctdf.JourneyPlan{}, err
		}

		routeItem := ctdf.JourneyPlanRouteItem{
			OriginStopRef:      originStopRef,
			DestinationStopRef: destinationStopRef,
			StartTime:          toTime(leg.FromTime),
			ArrivalTime:        toTime(leg.ToTime),
		}

		switch leg.Type {
		case raptor.LegTypeTransit:
			trip := leg.Trip
			routeItem.Type = ctdf.JourneyPlanRouteItemTypeTransit
			routeItem.Mode = string(trip.TripPattern().TransportType)
			routeItem.TransportType = trip.TripPattern().TransportType
			routeItem.TripPattern = trip.TripPattern()
			routeItem.JourneyRef = trip.OriginalTripTimes().JourneyRef
			routeItem.ServiceDate = trip.ServiceDate()
			routeItem.Realtime = trip.OriginalTripTimes().RealtimeUpdated
		case raptor.LegTypeTransfer:
			routeItem.Type = ctdf.JourneyPlanRouteItemTypeStreet
			routeItem.Mode = street.ModeWalk.String()
		case raptor.LegTypeAccess, raptor.LegTypeEgress:
			accessEgress := leg.AccessEgress
			if accessEgress.DurationInSeconds == 0 {
				continue
			}

			routeItem.Type = ctdf.JourneyPlanRouteItemTypeStreet
			routeItem.Mode = accessEgress.Mode
			routeItem.Distance = accessEgress.Distance

			// any wait for the vehicle belongs to the transit leg, not the street leg
			if leg.Type == raptor.LegTypeAccess {
				routeItem.ArrivalTime = toTime(leg.FromTime + accessEgress.DurationInSeconds)
			} else {
				routeItem.StartTime = toTime(leg.ToTime - accessEgress.DurationInSeconds)
			}
		}

		routeItems = append(routeItems, routeItem)
	}

	startTime := toTime(path.StartTime)
	arrivalTime := toTime(path.EndTime)

	return ctdf.JourneyPlan{
		RouteItems:        routeItems,
		StartTime:         startTime,
		ArrivalTime:       arrivalTime,
		Duration:          arrivalTime.Sub(startTime),
		GeneralizedCost:   path.GeneralizedCost,
		NumberOfTransfers: path.NumberOfTransfers,
	}, nil
}
