package transit

import (
	"sort"
	"time"

	"github.com/travigo/planner/pkg/ctdf"
	"github.com/travigo/planner/pkg/util"
)

// Layer is one immutable view of the timetable: the stop model plus the trip patterns
// running on each service date. Realtime updates produce a new Layer rather than
// modifying an existing one.
type Layer struct {
	stops          []*ctdf.Stop
	stopIndexByRef map[string]int

	tripPatternsForDate map[string][]*ctdf.TripPatternForDate
	serviceDates        []time.Time
}

// NewLayer indexes stops in the given order and resolves each pattern's stop refs to
// stop indexes. Patterns referencing unknown stops are dropped.
func NewLayer(stops []*ctdf.Stop, tripPatternsForDate []*ctdf.TripPatternForDate) *Layer {
	layer := &Layer{
		stops:               stops,
		stopIndexByRef:      map[string]int{},
		tripPatternsForDate: map[string][]*ctdf.TripPatternForDate{},
	}

	for i, stop := range stops {
		stop.Index = i
		layer.stopIndexByRef[stop.PrimaryIdentifier] = i
	}

	resolved := map[*ctdf.TripPattern]bool{}
	for _, tripPatternForDate := range tripPatternsForDate {
		pattern := tripPatternForDate.TripPattern

		ok, seen := resolved[pattern]
		if !seen {
			ok = layer.resolveStopIndexes(pattern)
			resolved[pattern] = ok
		}
		if !ok {
			continue
		}

		layer.addTripPatternForDate(tripPatternForDate)
	}

	layer.sortServiceDates()

	return layer
}

func (l *Layer) resolveStopIndexes(pattern *ctdf.TripPattern) bool {
	if len(pattern.StopIndexes) == len(pattern.StopRefs) && len(pattern.StopIndexes) > 0 {
		return true
	}

	indexes := make([]int, len(pattern.StopRefs))
	for i, ref := range pattern.StopRefs {
		index, exists := l.stopIndexByRef[ref]
		if !exists {
			return false
		}
		indexes[i] = index
	}
	pattern.StopIndexes = indexes

	return true
}

func (l *Layer) addTripPatternForDate(tripPatternForDate *ctdf.TripPatternForDate) {
	key := tripPatternForDate.ServiceDate.Format(util.ServiceDateFormat)

	if _, exists := l.tripPatternsForDate[key]; !exists {
		l.serviceDates = append(l.serviceDates, tripPatternForDate.ServiceDate)
	}
	l.tripPatternsForDate[key] = append(l.tripPatternsForDate[key], tripPatternForDate)
}

func (l *Layer) sortServiceDates() {
	sort.Slice(l.serviceDates, func(i, j int) bool {
		return l.serviceDates[i].Before(l.serviceDates[j])
	})
}

// TripPatternsForDate returns the patterns running on the service date, in load order
func (l *Layer) TripPatternsForDate(serviceDate time.Time) []*ctdf.TripPatternForDate {
	return l.tripPatternsForDate[serviceDate.Format(util.ServiceDateFormat)]
}

func (l *Layer) Stops() []*ctdf.Stop {
	return l.stops
}

func (l *Layer) StopCount() int {
	return len(l.stops)
}

func (l *Layer) StopByIndex(index int) *ctdf.Stop {
	if index < 0 || index >= len(l.stops) {
		return nil
	}
	return l.stops[index]
}

func (l *Layer) StopIndex(primaryIdentifier string) (int, bool) {
	index, exists := l.stopIndexByRef[primaryIdentifier]
	return index, exists
}

func (l *Layer) ServiceDates() []time.Time {
	return l.serviceDates
}

// WithTripPatternsForDate returns a new layer where every replacement takes the place of
// the entry sharing its pattern and service date. Unmatched replacements are added.
// The receiver is left untouched.
func (l *Layer) WithTripPatternsForDate(replacements []*ctdf.TripPatternForDate) *Layer {
	updated := &Layer{
		stops:               l.stops,
		stopIndexByRef:      l.stopIndexByRef,
		tripPatternsForDate: make(map[string][]*ctdf.TripPatternForDate, len(l.tripPatternsForDate)),
		serviceDates:        append([]time.Time(nil), l.serviceDates...),
	}
	for key, entries := range l.tripPatternsForDate {
		updated.tripPatternsForDate[key] = entries
	}

	for _, replacement := range replacements {
		key := replacement.ServiceDate.Format(util.ServiceDateFormat)
		entries := updated.tripPatternsForDate[key]

		copied := make([]*ctdf.TripPatternForDate, len(entries), len(entries)+1)
		copy(copied, entries)

		replaced := false
		for i, existing := range copied {
			if existing.TripPattern.PrimaryIdentifier == replacement.TripPattern.PrimaryIdentifier {
				copied[i] = replacement
				replaced = true
				break
			}
		}
		if !replaced {
			if len(entries) == 0 {
				updated.serviceDates = append(updated.serviceDates, replacement.ServiceDate)
			}
			copied = append(copied, replacement)
		}

		updated.tripPatternsForDate[key] = copied
	}

	updated.sortServiceDates()

	return updated
}

// FindTripPatternForDate looks up the trip set holding a journey on a service date
func (l *Layer) FindTripPatternForDate(journeyRef string, serviceDate time.Time) (*ctdf.TripPatternForDate, int, bool) {
	for _, tripPatternForDate := range l.TripPatternsForDate(serviceDate) {
		for i, tripTimes := range tripPatternForDate.TripTimes() {
			if tripTimes.JourneyRef == journeyRef {
				return tripPatternForDate, i, true
			}
		}
	}
	return nil, 0, false
}
