package routing

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/rs/zerolog/log"
	"github.com/travigo/planner/pkg/ctdf"
)

// PatternEnv is what a TransitRequest.Filter expression can see, e.g.
// `TransportType == "Bus" && OperatorRef != "GB:NOC:ABCD"`
type PatternEnv struct {
	PrimaryIdentifier string
	ServiceRef        string
	ServiceName       string
	OperatorRef       string
	TransportType     string
	NumberOfStops     int
}

// TransitDataProviderFilter decides which patterns and journeys a request may use
type TransitDataProviderFilter struct {
	transportTypes  map[ctdf.TransportType]bool
	bannedOperators map[string]bool
	bannedJourneys  map[string]bool

	program *vm.Program
}

func NewTransitDataProviderFilter(request *RouteRequest) (*TransitDataProviderFilter, error) {
	transitRequest := request.Journey.Transit

	filter := &TransitDataProviderFilter{
		transportTypes:  map[ctdf.TransportType]bool{},
		bannedOperators: map[string]bool{},
		bannedJourneys:  map[string]bool{},
	}

	for _, transportType := range transitRequest.TransportTypes {
		filter.transportTypes[transportType] = true
	}
	for _, operator := range transitRequest.BannedOperators {
		filter.bannedOperators[operator] = true
	}
	for _, journey := range transitRequest.BannedJourneys {
		filter.bannedJourneys[journey] = true
	}

	if transitRequest.Filter != "" {
		program, err := expr.Compile(transitRequest.Filter, expr.Env(PatternEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compiling pattern filter: %w", err)
		}
		filter.program = program
	}

	return filter, nil
}

func (f *TransitDataProviderFilter) TripPatternPredicate(pattern *ctdf.TripPattern) bool {
	if len(f.transportTypes) > 0 && !f.transportTypes[pattern.TransportType] {
		return false
	}
	if f.bannedOperators[pattern.OperatorRef] {
		return false
	}

	if f.program == nil {
		return true
	}

	result, err := expr.Run(f.program, PatternEnv{
		PrimaryIdentifier: pattern.PrimaryIdentifier,
		ServiceRef:        pattern.ServiceRef,
		ServiceName:       pattern.ServiceName,
		OperatorRef:       pattern.OperatorRef,
		TransportType:     string(pattern.TransportType),
		NumberOfStops:     pattern.NumberOfStops(),
	})
	if err != nil {
		log.Error().Err(err).Str("pattern", pattern.PrimaryIdentifier).Msg("Pattern filter failed")
		return false
	}

	matched, _ := result.(bool)
	return matched
}

func (f *TransitDataProviderFilter) TripTimesPredicate(tripTimes *ctdf.TripTimes) bool {
	return !f.bannedJourneys[tripTimes.JourneyRef]
}
