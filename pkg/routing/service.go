package routing

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/planner/pkg/ctdf"
	"github.com/travigo/planner/pkg/raptor"
	"github.com/travigo/planner/pkg/routing/filterchain"
)

// Service plans journeys: transit routing followed by the itinerary filter chain
type Service struct {
	router *TransitRouter
	events EventSink
}

func NewService(router *TransitRouter, events EventSink) *Service {
	if events == nil {
		events = noopEventSink{}
	}

	return &Service{
		router: router,
		events: events,
	}
}

func (s *Service) Plan(ctx context.Context, request *RouteRequest) (*ctdf.JourneyPlanResults, error) {
	trace := &routeTrace{timer: NewRoutingTimer(), event: newRoutingEvent(request)}
	defer func() {
		trace.event.Timings = trace.timer.milliseconds()
		s.events.Record(trace.event)
	}()

	results, err := s.plan(ctx, request, trace)
	if err != nil {
		trace.event.FailReason = failReason(err)

		log.Debug().Err(err).Str("request", trace.event.RequestID).Msg("Journey planning failed")
		return nil, err
	}

	trace.event.Success = true
	trace.event.NumItineraries = len(results.JourneyPlans)

	return results, nil
}

func (s *Service) plan(ctx context.Context, request *RouteRequest, trace *routeTrace) (*ctdf.JourneyPlanResults, error) {
	profile, err := filterchain.ParseDebugProfile(request.Preferences.ItineraryFilter.DebugProfile)
	if err != nil {
		return nil, err
	}

	result, err := s.router.route(ctx, request, trace)
	if err != nil {
		return nil, err
	}

	transitSearchTimeZero := TransitSearchTimeZero(request, s.router.transitService.TimeZone())
	windowStart, window := searchWindow(request, result.SearchParams, transitSearchTimeZero)

	itineraries := result.Itineraries
	if !request.ArriveBy && window > 0 {
		itineraries = filterchain.FlagOutsideSearchWindow(itineraries, windowStart.Add(window))
	}

	itineraries = filterchain.NewDeleteResultHandler(profile, request.Preferences.ItineraryFilter.NumItineraries).Filter(itineraries)

	return &ctdf.JourneyPlanResults{
		JourneyPlans:      itineraries,
		SearchWindowStart: windowStart,
		SearchWindow:      window,
	}, nil
}

// searchWindow returns where the search window the engine used starts, and how long it is.
// Arrive-by windows end at the requested time.
func searchWindow(request *RouteRequest, searchParams raptor.SearchParams, transitSearchTimeZero time.Time) (time.Time, time.Duration) {
	if searchParams.SearchWindowInSeconds <= 0 {
		return request.DateTime, 0
	}

	window := time.Duration(searchParams.SearchWindowInSeconds) * time.Second

	if searchParams.ArriveBy && searchParams.LatestArrivalTime != raptor.NotSet {
		end := transitSearchTimeZero.Add(time.Duration(searchParams.LatestArrivalTime) * time.Second)
		return end.Add(-window), window
	}
	if searchParams.EarliestDepartureTime != raptor.NotSet {
		return transitSearchTimeZero.Add(time.Duration(searchParams.EarliestDepartureTime) * time.Second), window
	}

	return request.DateTime, window
}
