package routing

import (
	"time"

	"github.com/travigo/planner/pkg/raptor"
	"github.com/travigo/planner/pkg/util"
)

// TransitSearchTimeZero is midnight of the request's service day. Every engine time is
// counted in seconds from it.
func TransitSearchTimeZero(request *RouteRequest, timeZone *time.Location) time.Time {
	return util.ServiceDate(request.DateTime, timeZone)
}

func MapRaptorRequest(request *RouteRequest, transitSearchTimeZero time.Time, accesses []raptor.AccessEgress, egresses []raptor.AccessEgress) raptor.Request {
	requestTime := util.SecondsBetween(transitSearchTimeZero, request.DateTime)

	searchParams := raptor.SearchParams{
		EarliestDepartureTime: raptor.NotSet,
		LatestArrivalTime:     raptor.NotSet,
		SearchWindowInSeconds: raptor.NotSet,
		ArriveBy:              request.ArriveBy,
		MaxNumberOfTransfers:  request.Preferences.Transit.MaxNumberOfTransfers,
	}

	if request.ArriveBy {
		searchParams.LatestArrivalTime = requestTime
	} else {
		searchParams.EarliestDepartureTime = requestTime
	}

	if request.SearchWindow > 0 {
		searchParams.SearchWindowInSeconds = int(request.SearchWindow / time.Second)
	}

	transitPreferences := request.Preferences.Transit

	return raptor.Request{
		SearchParams: searchParams,
		Weights: raptor.CostWeights{
			BoardCost:         transitPreferences.BoardCost,
			TransferCost:      transitPreferences.TransferCost,
			WaitReluctance:    transitPreferences.WaitReluctance,
			TransitReluctance: transitPreferences.TransitReluctance,
		},
		Accesses: accesses,
		Egresses: egresses,
	}
}
