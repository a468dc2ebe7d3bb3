package routing

import (
	"context"
	"time"

	"github.com/kr/pretty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/travigo/planner/pkg/ctdf"
	"github.com/travigo/planner/pkg/raptor"
	"github.com/travigo/planner/pkg/street"
	"github.com/travigo/planner/pkg/transit"
)

// AccessEgressFetcher is implemented by AccessEgressRouter
type AccessEgressFetcher interface {
	Fetch(ctx context.Context, request *RouteRequest, vertices *street.TemporaryVerticesContainer, kind AccessEgressType, transitSearchTimeZero time.Time) ([]raptor.AccessEgress, error)
}

// TransferOptimizer rewrites engine paths to prefer better transfers. It must not add
// stops or trips.
type TransferOptimizer interface {
	Optimize(paths []*raptor.Path) []*raptor.Path
}

type TransitRouterOptions struct {
	TransitService *transit.Service
	Graph          *street.Graph
	LinkRadius     float64

	AccessEgress      AccessEgressFetcher
	Engine            raptor.Engine
	TransferOptimizer TransferOptimizer
	ItineraryMapper   ItineraryMapper
	Strategy          ConcurrencyStrategy

	AdditionalPastSearchDays   int
	AdditionalFutureSearchDays int
}

type TransitRouter struct {
	transitService *transit.Service
	graph          *street.Graph
	linkRadius     float64

	accessEgress      AccessEgressFetcher
	engine            raptor.Engine
	transferOptimizer TransferOptimizer
	itineraryMapper   ItineraryMapper
	strategy          ConcurrencyStrategy

	additionalPastSearchDays   int
	additionalFutureSearchDays int
}

type TransitRouterResult struct {
	Itineraries  []ctdf.JourneyPlan
	SearchParams raptor.SearchParams
}

func NewTransitRouter(options TransitRouterOptions) *TransitRouter {
	router := &TransitRouter{
		transitService:             options.TransitService,
		graph:                      options.Graph,
		linkRadius:                 options.LinkRadius,
		accessEgress:               options.AccessEgress,
		engine:                     options.Engine,
		transferOptimizer:          options.TransferOptimizer,
		itineraryMapper:            options.ItineraryMapper,
		strategy:                   options.Strategy,
		additionalPastSearchDays:   options.AdditionalPastSearchDays,
		additionalFutureSearchDays: options.AdditionalFutureSearchDays,
	}

	if router.itineraryMapper == nil {
		router.itineraryMapper = DefaultItineraryMapper{}
	}
	if router.strategy == nil {
		router.strategy = SequentialStrategy{}
	}
	if router.engine == nil {
		router.engine = raptor.DirectSearch{}
	}

	return router
}

// routeTrace carries the per request diagnostics filled in while routing
type routeTrace struct {
	timer *RoutingTimer
	event *RoutingEvent
}

func (r *TransitRouter) Route(ctx context.Context, request *RouteRequest) (*TransitRouterResult, error) {
	return r.route(ctx, request, &routeTrace{timer: NewRoutingTimer(), event: newRoutingEvent(request)})
}

func (r *TransitRouter) route(ctx context.Context, request *RouteRequest, trace *routeTrace) (*TransitRouterResult, error) {
	vertices := street.NewTemporaryVerticesContainer(r.graph, request.From, request.To, r.linkRadius)
	defer vertices.Close()

	if !request.Journey.Transit.Enabled {
		return &TransitRouterResult{}, nil
	}

	if !r.transitService.TransitFeedCovers(request.DateTime) {
		return nil, NewValidationError(RoutingError{Code: OutsideServicePeriod, InputField: InputFieldDateTime})
	}

	transitLayer := r.transitService.RealtimeTransitLayer()
	if request.Preferences.Transit.IgnoreRealtimeUpdates {
		transitLayer = r.transitService.TransitLayer()
	}

	transitSearchTimeZero := TransitSearchTimeZero(request, r.transitService.TimeZone())

	var accesses, egresses []raptor.AccessEgress
	fetch := func(kind AccessEgressType, results *[]raptor.AccessEgress) func() error {
		return func() error {
			defer trace.timer.Start(kind.String())()

			fetched, err := r.accessEgress.Fetch(ctx, request, vertices, kind, transitSearchTimeZero)
			if err != nil {
				return err
			}
			*results = fetched
			return nil
		}
	}

	err := r.strategy.Run(fetch(Access, &accesses), fetch(Egress, &egresses))
	if err != nil {
		return nil, err
	}

	trace.event.NumAccesses = len(accesses)
	trace.event.NumEgresses = len(egresses)

	var routingErrors []RoutingError
	if len(accesses) == 0 {
		routingErrors = append(routingErrors, RoutingError{Code: NoStopsInRange, InputField: InputFieldFromPlace})
	}
	if len(egresses) == 0 {
		routingErrors = append(routingErrors, RoutingError{Code: NoStopsInRange, InputField: InputFieldToPlace})
	}
	if len(routingErrors) > 0 {
		return nil, NewValidationError(routingErrors...)
	}

	filter, err := NewTransitDataProviderFilter(request)
	if err != nil {
		return nil, err
	}

	stopProviderTimer := trace.timer.Start("transitdata")
	transitData, err := raptor.NewRequestTransitData(
		transitLayer,
		transitSearchTimeZero,
		r.additionalPastSearchDays,
		r.additionalFutureSearchDays,
		filter,
	)
	stopProviderTimer()
	if err != nil {
		return nil, err
	}

	raptorRequest := MapRaptorRequest(request, transitSearchTimeZero, accesses, egresses)

	stopEngineTimer := trace.timer.Start("engine")
	response, err := r.engine.Route(ctx, raptorRequest, transitData)
	stopEngineTimer()
	if err != nil {
		return nil, err
	}

	if zerolog.GlobalLevel() <= zerolog.TraceLevel {
		log.Trace().Msg(pretty.Sprint(response.RequestUsed.SearchParams))
	}

	trace.event.NumPaths = len(response.Paths)

	searchParams := response.RequestUsed.SearchParams
	if searchParams.SearchWindowInSeconds <= 0 && len(response.Paths) == 0 {
		return nil, NewValidationError(RoutingError{Code: NoTransitConnection, InputField: InputFieldNone})
	}

	paths := response.Paths
	if request.Preferences.Transfer.Optimization && r.transferOptimizer != nil {
		if response.ContainsUnknownPaths {
			log.Warn().Int("paths", len(paths)).Msg("Engine returned unknown paths, skipping transfer optimization")
			trace.event.OptimizationSkipped = true
		} else {
			stopOptimizeTimer := trace.timer.Start("optimize")
			paths = r.transferOptimizer.Optimize(paths)
			stopOptimizeTimer()
		}
	}

	stopMappingTimer := trace.timer.Start("mapping")
	defer stopMappingTimer()

	itineraries := make([]ctdf.JourneyPlan, 0, len(paths))
	for _, path := range paths {
		itinerary, err := r.itineraryMapper.CreateItinerary(path, transitLayer, transitSearchTimeZero)
		if err != nil {
			return nil, err
		}
		itineraries = append(itineraries, itinerary)
	}

	return &TransitRouterResult{
		Itineraries:  itineraries,
		SearchParams: searchParams,
	}, nil
}
