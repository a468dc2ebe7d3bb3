package ctdf

import (
	"sort"
	"time"
)

// TripPatternForDate is the set of journeys of one pattern running on one service date
type TripPatternForDate struct {
	TripPattern *TripPattern
	ServiceDate time.Time

	tripTimes []*TripTimes
}

// NewTripPatternForDate keeps its own copy of tripTimes ordered by departure from the first stop
func NewTripPatternForDate(tripPattern *TripPattern, serviceDate time.Time, tripTimes []*TripTimes) *TripPatternForDate {
	sorted := make([]*TripTimes, len(tripTimes))
	copy(sorted, tripTimes)

	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].DepartureTime(0) < sorted[j].DepartureTime(0)
	})

	return &TripPatternForDate{
		TripPattern: tripPattern,
		ServiceDate: serviceDate,
		tripTimes:   sorted,
	}
}

func (t *TripPatternForDate) NumberOfTripSchedules() int {
	return len(t.tripTimes)
}

func (t *TripPatternForDate) GetTripTimes(index int) *TripTimes {
	return t.tripTimes[index]
}

func (t *TripPatternForDate) TripTimes() []*TripTimes {
	return t.tripTimes
}
