package routing

import (
	"context"
	"time"

	"github.com/travigo/planner/pkg/config"
	"github.com/travigo/planner/pkg/ctdf"
	"github.com/travigo/planner/pkg/raptor"
	"github.com/travigo/planner/pkg/street"
	"github.com/travigo/planner/pkg/transit"
)

var (
	testDay = time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)

	originLocation      = ctdf.NewLocation(51.5, -0.1)
	destinationLocation = ctdf.NewLocation(51.6005, -0.1)
	nowhereLocation     = ctdf.NewLocation(40.0, 10.0)
)

// routingFixture is one pattern A -> B -> C with journeys j1 (08:00) and j2 (09:00).
// The origin is next to A and the destination next to C.
type routingFixture struct {
	stops   []*ctdf.Stop
	pattern *ctdf.TripPattern
	service *transit.Service
	graph   *street.Graph
}

func fixtureTrip(journeyRef string, departure int) *ctdf.TripTimes {
	return &ctdf.TripTimes{
		JourneyRef:     journeyRef,
		ArrivalTimes:   []int{departure, departure + 600, departure + 1200},
		DepartureTimes: []int{departure, departure + 600, departure + 1200},
	}
}

func newRoutingFixture() *routingFixture {
	stops := []*ctdf.Stop{
		{PrimaryIdentifier: "GB:ATCO:A", Location: ctdf.NewLocation(51.5005, -0.1)},
		{PrimaryIdentifier: "GB:ATCO:B", Location: ctdf.NewLocation(51.55, -0.1)},
		{PrimaryIdentifier: "GB:ATCO:C", Location: ctdf.NewLocation(51.6, -0.1)},
	}

	pattern := &ctdf.TripPattern{
		PrimaryIdentifier: "pattern-1",
		ServiceName:       "1",
		OperatorRef:       "GB:NOC:TEST",
		TransportType:     ctdf.TransportTypeBus,
		StopRefs:          []string{"GB:ATCO:A", "GB:ATCO:B", "GB:ATCO:C"},
	}

	layer := transit.NewLayer(stops, []*ctdf.TripPatternForDate{
		ctdf.NewTripPatternForDate(pattern, testDay, []*ctdf.TripTimes{
			fixtureTrip("j1", 8*3600),
			fixtureTrip("j2", 9*3600),
		}),
	})

	return &routingFixture{
		stops:   stops,
		pattern: pattern,
		service: transit.NewService(layer, nil, time.UTC),
		graph:   street.NewGraph(stops),
	}
}

func (f *routingFixture) delayJourney(journeyRef string, departure int) error {
	return f.service.UpdateRealtimeLayer(func(current *transit.Layer) (*transit.Layer, error) {
		delayed := fixtureTrip(journeyRef, departure)
		delayed.RealtimeUpdated = true

		return current.WithTripPatternsForDate([]*ctdf.TripPatternForDate{
			ctdf.NewTripPatternForDate(f.pattern, testDay, []*ctdf.TripTimes{delayed, fixtureTrip("j2", 9*3600)}),
		}), nil
	})
}

func (f *routingFixture) router(options TransitRouterOptions) *TransitRouter {
	options.TransitService = f.service
	options.Graph = f.graph
	if options.LinkRadius == 0 {
		options.LinkRadius = 500
	}
	if options.AccessEgress == nil {
		options.AccessEgress = NewAccessEgressRouter(AccessEgressRouterOptions{
			StreetSearcher: street.NewNearbyStopFinder(100, time.Minute),
		})
	}
	return NewTransitRouter(options)
}

// linkedEdges counts the temporary edges still attached to stop vertices
func (f *routingFixture) linkedEdges() int {
	count := 0
	for i := range f.stops {
		vertex := f.graph.StopVertex(i)
		count += len(vertex.Incoming()) + len(vertex.Outgoing())
	}
	return count
}

func testRequest() *RouteRequest {
	request := NewRouteRequest(config.Default())
	request.DateTime = testDay.Add(7*time.Hour + 30*time.Minute)
	request.From = originLocation
	request.To = destinationLocation
	return request
}

type fetcherFunc func(ctx context.Context, request *RouteRequest, vertices *street.TemporaryVerticesContainer, kind AccessEgressType, transitSearchTimeZero time.Time) ([]raptor.AccessEgress, error)

func (f fetcherFunc) Fetch(ctx context.Context, request *RouteRequest, vertices *street.TemporaryVerticesContainer, kind AccessEgressType, transitSearchTimeZero time.Time) ([]raptor.AccessEgress, error) {
	return f(ctx, request, vertices, kind, transitSearchTimeZero)
}

type engineFunc func(ctx context.Context, request raptor.Request, data raptor.TransitDataProvider) (*raptor.Response, error)

func (f engineFunc) Route(ctx context.Context, request raptor.Request, data raptor.TransitDataProvider) (*raptor.Response, error) {
	return f(ctx, request, data)
}

type countingOptimizer struct {
	calls int
}

func (o *countingOptimizer) Optimize(paths []*raptor.Path) []*raptor.Path {
	o.calls++
	return paths
}

type recordingEventSink struct {
	events []*RoutingEvent
}

func (s *recordingEventSink) Record(event *RoutingEvent) {
	s.events = append(s.events, event)
}

type fakeStreetSearcher struct {
	results map[street.Mode][]street.NearbyStop
	calls   []street.Mode
	limits  []time.Duration
	err     error
}

func (s *fakeStreetSearcher) FindNearbyStops(_ context.Context, _ *street.Vertex, _ bool, mode street.Mode, maxDuration time.Duration) ([]street.NearbyStop, error) {
	s.calls = append(s.calls, mode)
	s.limits = append(s.limits, maxDuration)
	if s.err != nil {
		return nil, s.err
	}
	return s.results[mode], nil
}

type fakeRideHailing struct {
	arrival time.Duration
	err     error
}

func (fakeRideHailing) Name() string {
	return "test-taxi"
}

func (r fakeRideHailing) ArrivalTime(context.Context, *ctdf.Location) (time.Duration, error) {
	return r.arrival, r.err
}

type fakeFlexRouter struct {
	results []raptor.AccessEgress
	calls   int
}

func (r *fakeFlexRouter) RouteAccessEgress(context.Context, *RouteRequest, *street.TemporaryVerticesContainer, AccessEgressType) ([]raptor.AccessEgress, error) {
	r.calls++
	return r.results, nil
}
