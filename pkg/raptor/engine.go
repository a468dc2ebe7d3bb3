package raptor

import (
	"context"
)

// NotSet marks an unset time or duration in seconds
const NotSet = -1

// Engine is a path search over a request scoped timetable. Implementations own the
// search iteration; callers only hand over the provider and the access/egress sets.
type Engine interface {
	Route(ctx context.Context, request Request, data TransitDataProvider) (*Response, error)
}

// TransitDataProvider is the timetable view an Engine searches
type TransitDataProvider interface {
	Patterns() []*TripPatternForDates
	PatternsForStop(stopIndex int) []*TripPatternForDates
	StopCount() int
}

type SearchParams struct {
	// Times are seconds relative to the transit search time zero
	EarliestDepartureTime int
	LatestArrivalTime     int
	SearchWindowInSeconds int

	ArriveBy             bool
	MaxNumberOfTransfers int
}

type CostWeights struct {
	BoardCost         int
	TransferCost      int
	WaitReluctance    float64
	TransitReluctance float64
}

type Request struct {
	SearchParams SearchParams
	Weights      CostWeights

	Accesses []AccessEgress
	Egresses []AccessEgress
}

type Response struct {
	Paths       []*Path
	RequestUsed Request

	// ContainsUnknownPaths is set by engines that fall back to heuristics and can not
	// vouch for every returned path
	ContainsUnknownPaths bool
}

type LegType string

const (
	LegTypeAccess   LegType = "Access"
	LegTypeTransit  LegType = "Transit"
	LegTypeTransfer LegType = "Transfer"
	LegTypeEgress   LegType = "Egress"
)

type PathLeg struct {
	Type LegType

	// Stop indexes, NotSet for the origin and destination ends
	FromStop int
	ToStop   int

	FromTime int
	ToTime   int

	AccessEgress *AccessEgress

	Trip               *TripScheduleWithOffset
	BoardStopPosition  int
	AlightStopPosition int

	// GuaranteedTransfer is set on a transit leg when the transfer onto it is guaranteed
	GuaranteedTransfer bool
}

type Path struct {
	Legs []PathLeg

	StartTime int
	EndTime   int

	NumberOfTransfers int
	GeneralizedCost   int
}

func (p *Path) TransitLegs() []PathLeg {
	var legs []PathLeg
	for _, leg := range p.Legs {
		if leg.Type == LegTypeTransit {
			legs = append(legs, leg)
		}
	}
	return legs
}

// Copy returns a path with its own leg slice; trips and access/egress records are shared
// as they are immutable
func (p *Path) Copy() *Path {
	copied := *p
	copied.Legs = make([]PathLeg, len(p.Legs))
	copy(copied.Legs, p.Legs)
	return &copied
}

func (p *Path) Duration() int {
	return p.EndTime - p.StartTime
}
