package raptor

import (
	"time"

	"github.com/rs/zerolog/log"
	"github.com/travigo/planner/pkg/ctdf"
	"github.com/travigo/planner/pkg/transit"
	"github.com/travigo/planner/pkg/util"
)

// PatternFilter restricts which patterns and journeys take part in one search
type PatternFilter interface {
	TripPatternPredicate(pattern *ctdf.TripPattern) bool
	TripTimesPredicate(tripTimes *ctdf.TripTimes) bool
}

// RequestTransitData is the timetable for one request: every pattern running in the
// search days flattened into a TripPatternForDates relative to the search time zero
type RequestTransitData struct {
	transitLayer          *transit.Layer
	transitSearchTimeZero time.Time

	patterns       []*TripPatternForDates
	patternsByStop map[int][]*TripPatternForDates
}

func NewRequestTransitData(transitLayer *transit.Layer, transitSearchTimeZero time.Time, additionalPastSearchDays int, additionalFutureSearchDays int, filter PatternFilter) (*RequestTransitData, error) {
	type patternDates struct {
		dates   []*ctdf.TripPatternForDate
		offsets []int
	}

	byPattern := map[*ctdf.TripPattern]*patternDates{}
	var patternOrder []*ctdf.TripPattern

	for day := -additionalPastSearchDays; day <= additionalFutureSearchDays; day++ {
		serviceDate := util.ShiftServiceDays(transitSearchTimeZero, day)
		offset := util.SecondsBetween(transitSearchTimeZero, serviceDate)

		for _, tripPatternForDate := range transitLayer.TripPatternsForDate(serviceDate) {
			pattern := tripPatternForDate.TripPattern

			if filter != nil {
				if !filter.TripPatternPredicate(pattern) {
					continue
				}
				tripPatternForDate = filterTripTimes(tripPatternForDate, filter)
			}

			entry, exists := byPattern[pattern]
			if !exists {
				entry = &patternDates{}
				byPattern[pattern] = entry
				patternOrder = append(patternOrder, pattern)
			}
			entry.dates = append(entry.dates, tripPatternForDate)
			entry.offsets = append(entry.offsets, offset)
		}
	}

	data := &RequestTransitData{
		transitLayer:          transitLayer,
		transitSearchTimeZero: transitSearchTimeZero,
		patternsByStop:        map[int][]*TripPatternForDates{},
	}

	for _, pattern := range patternOrder {
		entry := byPattern[pattern]

		timetable, err := NewTripPatternForDates(pattern, entry.dates, entry.offsets)
		if err != nil {
			return nil, err
		}
		if timetable.NumberOfTripSchedules() == 0 {
			continue
		}

		data.patterns = append(data.patterns, timetable)

		seen := map[int]bool{}
		for position := 0; position < pattern.NumberOfStops(); position++ {
			stopIndex := pattern.StopIndex(position)
			if seen[stopIndex] {
				continue
			}
			seen[stopIndex] = true
			data.patternsByStop[stopIndex] = append(data.patternsByStop[stopIndex], timetable)
		}
	}

	log.Debug().
		Time("timezero", transitSearchTimeZero).
		Int("patterns", len(data.patterns)).
		Msg("Built request transit data")

	return data, nil
}

func filterTripTimes(tripPatternForDate *ctdf.TripPatternForDate, filter PatternFilter) *ctdf.TripPatternForDate {
	tripTimes := tripPatternForDate.TripTimes()
	filtered := util.Filter(tripTimes, filter.TripTimesPredicate)
	if len(filtered) == len(tripTimes) {
		return tripPatternForDate
	}

	return ctdf.NewTripPatternForDate(tripPatternForDate.TripPattern, tripPatternForDate.ServiceDate, filtered)
}

func (r *RequestTransitData) Patterns() []*TripPatternForDates {
	return r.patterns
}

func (r *RequestTransitData) PatternsForStop(stopIndex int) []*TripPatternForDates {
	return r.patternsByStop[stopIndex]
}

func (r *RequestTransitData) StopCount() int {
	return r.transitLayer.StopCount()
}

func (r *RequestTransitData) TransitLayer() *transit.Layer {
	return r.transitLayer
}

func (r *RequestTransitData) TransitSearchTimeZero() time.Time {
	return r.transitSearchTimeZero
}
