package routing

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/planner/pkg/ctdf"
	"github.com/travigo/planner/pkg/raptor"
	"github.com/travigo/planner/pkg/street"
	"github.com/travigo/planner/pkg/util"
)

type AccessEgressType int

const (
	Access AccessEgressType = iota
	Egress
)

func (t AccessEgressType) IsAccess() bool {
	return t == Access
}

func (t AccessEgressType) IsEgress() bool {
	return t == Egress
}

func (t AccessEgressType) String() string {
	if t == Access {
		return "access"
	}
	return "egress"
}

// StreetSearcher finds the stops reachable from a request vertex
type StreetSearcher interface {
	FindNearbyStops(ctx context.Context, vertex *street.Vertex, reverse bool, mode street.Mode, maxDuration time.Duration) ([]street.NearbyStop, error)
}

// RideHailingService estimates how long until a vehicle can pick up at a location
type RideHailingService interface {
	Name() string
	ArrivalTime(ctx context.Context, location *ctdf.Location) (time.Duration, error)
}

// FlexRouter produces access/egress legs using flexible (demand responsive) services
type FlexRouter interface {
	RouteAccessEgress(ctx context.Context, request *RouteRequest, vertices *street.TemporaryVerticesContainer, kind AccessEgressType) ([]raptor.AccessEgress, error)
}

type AccessEgressRouterOptions struct {
	StreetSearcher      StreetSearcher
	RideHailingServices []RideHailingService
	FlexRouter          FlexRouter
	FlexRoutingEnabled  bool

	Now func() time.Time
}

type AccessEgressRouter struct {
	streetSearcher      StreetSearcher
	rideHailingServices []RideHailingService
	flexRouter          FlexRouter
	flexRoutingEnabled  bool
	now                 func() time.Time
}

func NewAccessEgressRouter(options AccessEgressRouterOptions) *AccessEgressRouter {
	now := options.Now
	if now == nil {
		now = time.Now
	}

	return &AccessEgressRouter{
		streetSearcher:      options.StreetSearcher,
		rideHailingServices: options.RideHailingServices,
		flexRouter:          options.FlexRouter,
		flexRoutingEnabled:  options.FlexRoutingEnabled,
		now:                 now,
	}
}

// Fetch returns the stops reachable from the origin (access) or the destination (egress)
func (r *AccessEgressRouter) Fetch(ctx context.Context, request *RouteRequest, vertices *street.TemporaryVerticesContainer, kind AccessEgressType, transitSearchTimeZero time.Time) ([]raptor.AccessEgress, error) {
	accessRequest := request.Clone()
	streetRequest := accessRequest.Journey.Egress
	if kind.IsAccess() {
		streetRequest = accessRequest.Journey.Access
		accessRequest.Journey.AllowArrivingInRentedVehicleAtDestination = false
	}

	durationLimit := accessRequest.Preferences.Street.MaxAccessEgressDuration.ValueOf(streetRequest.Mode)

	nearbyStops, err := r.streetSearch(ctx, accessRequest, vertices, streetRequest.Mode, kind, durationLimit)
	if err != nil {
		return nil, err
	}

	results := mapNearbyStops(nearbyStops)

	if streetRequest.Mode == street.ModeCarHailing {
		results = r.timeshiftRideHailing(ctx, accessRequest, kind, results, transitSearchTimeZero)
	}

	if r.flexRoutingEnabled && streetRequest.Mode == street.ModeFlexible && r.flexRouter != nil {
		flexResults, err := r.flexRouter.RouteAccessEgress(ctx, accessRequest, vertices, kind)
		if err != nil {
			return nil, err
		}
		for _, flex := range flexResults {
			flex.Flex = true
			results = append(results, flex)
		}
	}

	log.Debug().
		Str("type", kind.String()).
		Str("mode", streetRequest.Mode.String()).
		Dur("limit", durationLimit).
		Int("results", len(results)).
		Msg("Fetched access/egress")

	return results, nil
}

func (r *AccessEgressRouter) streetSearch(ctx context.Context, request *RouteRequest, vertices *street.TemporaryVerticesContainer, mode street.Mode, kind AccessEgressType, durationLimit time.Duration) ([]street.NearbyStop, error) {
	if mode == street.ModeNotSet || r.streetSearcher == nil {
		return nil, nil
	}

	vertex := vertices.From
	if kind.IsEgress() {
		vertex = vertices.To
	}

	searchMode := mode
	if mode == street.ModeFlexible {
		// flex services are reached on foot, the flex router adds the rides
		searchMode = street.ModeWalk
	}

	nearbyStops, err := r.streetSearcher.FindNearbyStops(ctx, vertex, kind.IsEgress(), searchMode, durationLimit)
	if err != nil {
		return nil, err
	}

	if mode == street.ModeCarHailing {
		// walking to a stop stays possible while waiting on a car
		walkLimit := request.Preferences.Street.MaxAccessEgressDuration.ValueOf(street.ModeWalk)
		walking, err := r.streetSearcher.FindNearbyStops(ctx, vertex, kind.IsEgress(), street.ModeWalk, walkLimit)
		if err != nil {
			return nil, err
		}
		combined := make([]street.NearbyStop, 0, len(walking)+len(nearbyStops))
		combined = append(combined, walking...)
		nearbyStops = append(combined, nearbyStops...)
	}

	return nearbyStops, nil
}

func mapNearbyStops(nearbyStops []street.NearbyStop) []raptor.AccessEgress {
	results := make([]raptor.AccessEgress, 0, len(nearbyStops))

	for _, nearbyStop := range nearbyStops {
		results = append(results, raptor.AccessEgress{
			StopIndex:         nearbyStop.StopIndex,
			DurationInSeconds: nearbyStop.DurationInSeconds,
			GeneralizedCost:   int(float64(nearbyStop.DurationInSeconds) * nearbyStop.Mode.Reluctance()),
			Mode:              nearbyStop.Mode.String(),
			Distance:          nearbyStop.Distance,
			EarliestStartTime: raptor.NotSet,
		})
	}

	return results
}

// timeshiftRideHailing holds back driving accesses until a ride hailing vehicle can be at
// the origin. Walking results and egresses are returned unchanged. When no estimate can
// be had the driving results are dropped.
func (r *AccessEgressRouter) timeshiftRideHailing(ctx context.Context, request *RouteRequest, kind AccessEgressType, results []raptor.AccessEgress, transitSearchTimeZero time.Time) []raptor.AccessEgress {
	if !kind.IsAccess() {
		return results
	}

	isDriving := func(result raptor.AccessEgress) bool {
		mode, err := street.ParseMode(result.Mode)
		return err == nil && mode.IncludesDriving()
	}

	if len(r.rideHailingServices) == 0 {
		log.Warn().Msg("Ride hailing requested but no ride hailing service is configured")
		return util.Filter(results, func(result raptor.AccessEgress) bool { return !isDriving(result) })
	}

	service := r.rideHailingServices[0]
	arrival, err := service.ArrivalTime(ctx, request.From)
	if err != nil {
		log.Error().Err(err).Str("service", service.Name()).Msg("Failed to get ride hailing arrival time")
		return util.Filter(results, func(result raptor.AccessEgress) bool { return !isDriving(result) })
	}

	pickupTime := r.now().Add(arrival)
	if request.DateTime.After(pickupTime) {
		pickupTime = request.DateTime
	}
	earliestStartTime := util.SecondsBetween(transitSearchTimeZero, pickupTime)

	shifted := make([]raptor.AccessEgress, 0, len(results))
	for _, result := range results {
		if isDriving(result) {
			result.RideHailing = true
			result.EarliestStartTime = earliestStartTime
		}
		shifted = append(shifted, result)
	}

	return shifted
}
