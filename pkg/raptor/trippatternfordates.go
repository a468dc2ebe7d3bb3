package raptor

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/travigo/planner/pkg/ctdf"
	"github.com/travigo/planner/pkg/util"
)

var (
	ErrNoTripPatternForDates = errors.New("no trip patterns for dates given")
	ErrOffsetCountMismatch   = errors.New("offset count does not match trip pattern for dates count")
	ErrStopCountMismatch     = errors.New("trip times stop count does not match trip pattern")
	ErrTripIndexOutOfBounds  = errors.New("trip index out of bounds")
)

// TripPatternForDates is the timetable of one pattern over several service dates,
// flattened so the search can index any trip on any date with a single integer.
//
// Times for stop position s and trip i live at s*numberOfTripSchedules + i. Trips keep
// the order of the dates they were built from and within a date are ordered by first
// departure. Values are in seconds since the transit search time zero.
type TripPatternForDates struct {
	tripPattern *ctdf.TripPattern

	tripPatternForDates []*ctdf.TripPatternForDate
	offsets             []int

	numberOfTripSchedules int

	arrivalTimes   []int
	departureTimes []int
}

func NewTripPatternForDates(tripPattern *ctdf.TripPattern, tripPatternForDates []*ctdf.TripPatternForDate, offsets []int) (*TripPatternForDates, error) {
	if len(tripPatternForDates) == 0 {
		return nil, ErrNoTripPatternForDates
	}
	if len(offsets) != len(tripPatternForDates) {
		return nil, fmt.Errorf("%w: %d offsets for %d dates", ErrOffsetCountMismatch, len(offsets), len(tripPatternForDates))
	}

	numberOfStops := tripPattern.NumberOfStops()

	numberOfTripSchedules := 0
	for _, tripPatternForDate := range tripPatternForDates {
		for _, tripTimes := range tripPatternForDate.TripTimes() {
			if tripTimes.NumberOfStops() != numberOfStops {
				return nil, fmt.Errorf("%w: journey %s has %d stops, pattern %s has %d",
					ErrStopCountMismatch, tripTimes.JourneyRef, tripTimes.NumberOfStops(), tripPattern.PrimaryIdentifier, numberOfStops)
			}
		}
		numberOfTripSchedules += tripPatternForDate.NumberOfTripSchedules()
	}

	arrivalTimes := make([]int, numberOfStops*numberOfTripSchedules)
	departureTimes := make([]int, numberOfStops*numberOfTripSchedules)

	i := 0
	for d, tripPatternForDate := range tripPatternForDates {
		offset := offsets[d]

		for _, tripTimes := range tripPatternForDate.TripTimes() {
			for s := 0; s < numberOfStops; s++ {
				arrivalTimes[s*numberOfTripSchedules+i] = tripTimes.ArrivalTime(s) + offset
				departureTimes[s*numberOfTripSchedules+i] = tripTimes.DepartureTime(s) + offset
			}
			i++
		}
	}

	datesCopy := make([]*ctdf.TripPatternForDate, len(tripPatternForDates))
	copy(datesCopy, tripPatternForDates)
	offsetsCopy := make([]int, len(offsets))
	copy(offsetsCopy, offsets)

	return &TripPatternForDates{
		tripPattern:           tripPattern,
		tripPatternForDates:   datesCopy,
		offsets:               offsetsCopy,
		numberOfTripSchedules: numberOfTripSchedules,
		arrivalTimes:          arrivalTimes,
		departureTimes:        departureTimes,
	}, nil
}

func (t *TripPatternForDates) TripPattern() *ctdf.TripPattern {
	return t.tripPattern
}

func (t *TripPatternForDates) NumberOfTripSchedules() int {
	return t.numberOfTripSchedules
}

func (t *TripPatternForDates) NumberOfStopsInPattern() int {
	return t.tripPattern.NumberOfStops()
}

func (t *TripPatternForDates) ArrivalTime(stopPosition int, tripIndex int) int {
	return t.arrivalTimes[stopPosition*t.numberOfTripSchedules+tripIndex]
}

func (t *TripPatternForDates) DepartureTime(stopPosition int, tripIndex int) int {
	return t.departureTimes[stopPosition*t.numberOfTripSchedules+tripIndex]
}

// ArrivalTimes returns an accessor over all trips' arrival times at one stop position
func (t *TripPatternForDates) ArrivalTimes(stopPosition int) func(tripIndex int) int {
	base := stopPosition * t.numberOfTripSchedules
	return func(tripIndex int) int {
		return t.arrivalTimes[base+tripIndex]
	}
}

func (t *TripPatternForDates) DepartureTimes(stopPosition int) func(tripIndex int) int {
	base := stopPosition * t.numberOfTripSchedules
	return func(tripIndex int) int {
		return t.departureTimes[base+tripIndex]
	}
}

// GetTripSchedule resolves a flattened trip index back to its date and trip
func (t *TripPatternForDates) GetTripSchedule(tripIndex int) (TripScheduleWithOffset, error) {
	if tripIndex < 0 {
		return TripScheduleWithOffset{}, fmt.Errorf("%w: %d", ErrTripIndexOutOfBounds, tripIndex)
	}

	index := tripIndex
	for d, tripPatternForDate := range t.tripPatternForDates {
		count := tripPatternForDate.NumberOfTripSchedules()
		if index < count {
			return TripScheduleWithOffset{
				timetable:     t,
				tripTimes:     tripPatternForDate.GetTripTimes(index),
				serviceDate:   tripPatternForDate.ServiceDate,
				secondsOffset: t.offsets[d],
			}, nil
		}
		index -= count
	}

	return TripScheduleWithOffset{}, fmt.Errorf("%w: %d of %d", ErrTripIndexOutOfBounds, tripIndex, t.numberOfTripSchedules)
}

func (t *TripPatternForDates) BoardingPossibleAt(stopPosition int) bool {
	return t.tripPattern.CanBoard(stopPosition)
}

func (t *TripPatternForDates) AlightingPossibleAt(stopPosition int) bool {
	return t.tripPattern.CanAlight(stopPosition)
}

func (t *TripPatternForDates) StopIndex(stopPosition int) int {
	return t.tripPattern.StopIndex(stopPosition)
}

func (t *TripPatternForDates) Offsets() []int {
	return t.offsets
}

func (t *TripPatternForDates) ServiceDates() []time.Time {
	dates := make([]time.Time, len(t.tripPatternForDates))
	for i, tripPatternForDate := range t.tripPatternForDates {
		dates[i] = tripPatternForDate.ServiceDate
	}
	return dates
}

func (t *TripPatternForDates) String() string {
	dates := make([]string, len(t.tripPatternForDates))
	for i, tripPatternForDate := range t.tripPatternForDates {
		dates[i] = tripPatternForDate.ServiceDate.Format(util.ServiceDateFormat)
	}

	return fmt.Sprintf("TripPatternForDates{%s, trips: %d, dates: [%s], offsets: %v}",
		t.tripPattern, t.numberOfTripSchedules, strings.Join(dates, ", "), t.offsets)
}
