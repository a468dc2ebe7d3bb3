package routing

import (
	"time"

	"github.com/jinzhu/copier"
	"github.com/travigo/planner/pkg/config"
	"github.com/travigo/planner/pkg/ctdf"
	"github.com/travigo/planner/pkg/street"
)

type RouteRequest struct {
	DateTime time.Time
	ArriveBy bool

	From *ctdf.Location
	To   *ctdf.Location

	// SearchWindow of 0 lets the engine pick one
	SearchWindow time.Duration

	Journey     JourneyRequest
	Preferences RoutingPreferences
}

type JourneyRequest struct {
	Access StreetRequest
	Egress StreetRequest
	Direct StreetRequest

	Transit TransitRequest

	AllowArrivingInRentedVehicleAtDestination bool
}

type StreetRequest struct {
	Mode street.Mode
}

type TransitRequest struct {
	Enabled bool

	// TransportTypes limits the patterns searched, empty means all
	TransportTypes  []ctdf.TransportType
	BannedOperators []string
	BannedJourneys  []string

	// Filter is an expression over pattern attributes, see PatternEnv
	Filter string
}

type RoutingPreferences struct {
	Street          StreetPreferences
	Transit         TransitPreferences
	Transfer        TransferPreferences
	ItineraryFilter ItineraryFilterPreferences
}

type StreetPreferences struct {
	MaxAccessEgressDuration DurationForMode
}

type TransitPreferences struct {
	IgnoreRealtimeUpdates bool

	BoardCost            int
	TransferCost         int
	WaitReluctance       float64
	TransitReluctance    float64
	MaxNumberOfTransfers int
}

type TransferPreferences struct {
	Optimization bool
}

type ItineraryFilterPreferences struct {
	DebugProfile   string
	NumItineraries int
}

// DurationForMode is a default duration with per mode overrides
type DurationForMode struct {
	Default time.Duration
	ForMode map[street.Mode]time.Duration
}

func (d DurationForMode) ValueOf(mode street.Mode) time.Duration {
	if value, exists := d.ForMode[mode]; exists {
		return value
	}
	return d.Default
}

// NewRouteRequest returns a walk/transit/walk request carrying the configured preferences
func NewRouteRequest(cfg config.RouterConfig) *RouteRequest {
	forMode := map[street.Mode]time.Duration{}
	for name := range cfg.Street.MaxAccessEgressDurationForMode {
		mode, err := street.ParseMode(name)
		if err != nil {
			continue
		}
		forMode[mode] = cfg.Street.MaxAccessEgressDurationFor(name)
	}

	return &RouteRequest{
		DateTime:     time.Now(),
		SearchWindow: cfg.Search.SearchWindow.Value(),
		Journey: JourneyRequest{
			Access:  StreetRequest{Mode: street.ModeWalk},
			Egress:  StreetRequest{Mode: street.ModeWalk},
			Direct:  StreetRequest{Mode: street.ModeWalk},
			Transit: TransitRequest{Enabled: true},

			AllowArrivingInRentedVehicleAtDestination: true,
		},
		Preferences: RoutingPreferences{
			Street: StreetPreferences{
				MaxAccessEgressDuration: DurationForMode{
					Default: cfg.Street.MaxAccessEgressDuration.Value(),
					ForMode: forMode,
				},
			},
			Transit: TransitPreferences{
				BoardCost:            cfg.Search.BoardCost,
				TransferCost:         cfg.Search.TransferCost,
				WaitReluctance:       cfg.Search.WaitReluctance,
				TransitReluctance:    cfg.Search.TransitReluctance,
				MaxNumberOfTransfers: cfg.Search.MaxNumberOfTransfers,
			},
			Transfer: TransferPreferences{
				Optimization: true,
			},
			ItineraryFilter: ItineraryFilterPreferences{
				DebugProfile:   cfg.Search.ItineraryFilterDebugProfile,
				NumItineraries: cfg.Search.NumItineraries,
			},
		},
	}
}

// Clone returns a deep copy that can be modified without affecting the receiver
func (r *RouteRequest) Clone() *RouteRequest {
	var clone RouteRequest
	if err := copier.CopyWithOption(&clone, r, copier.Option{DeepCopy: true}); err != nil {
		// Only reachable with mismatched types, which can not happen copying to the same type
		panic(err)
	}
	return &clone
}
