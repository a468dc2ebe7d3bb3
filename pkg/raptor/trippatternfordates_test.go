package raptor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/planner/pkg/ctdf"
)

func testPattern(stopIndexes ...int) *ctdf.TripPattern {
	refs := make([]string, len(stopIndexes))
	for i := range stopIndexes {
		refs[i] = "stop"
	}
	return &ctdf.TripPattern{
		PrimaryIdentifier: "test-pattern",
		ServiceName:       "1",
		TransportType:     ctdf.TransportTypeBus,
		StopRefs:          refs,
		StopIndexes:       stopIndexes,
	}
}

// testTrip departs the first stop at start and spends step seconds between stops
func testTrip(ref string, start int, step int, stops int) *ctdf.TripTimes {
	tripTimes := &ctdf.TripTimes{JourneyRef: ref}
	for s := 0; s < stops; s++ {
		tripTimes.ArrivalTimes = append(tripTimes.ArrivalTimes, start+s*step)
		tripTimes.DepartureTimes = append(tripTimes.DepartureTimes, start+s*step+30)
	}
	return tripTimes
}

var testDay = time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)

func TestNewTripPatternForDatesLayout(t *testing.T) {
	pattern := testPattern(0, 1, 2)

	day1 := ctdf.NewTripPatternForDate(pattern, testDay, []*ctdf.TripTimes{
		testTrip("a", 3600, 600, 3),
		testTrip("b", 7200, 600, 3),
	})
	day2 := ctdf.NewTripPatternForDate(pattern, testDay.AddDate(0, 0, 1), []*ctdf.TripTimes{
		testTrip("c", 1800, 900, 3),
	})

	timetable, err := NewTripPatternForDates(pattern, []*ctdf.TripPatternForDate{day1, day2}, []int{0, 86400})
	require.NoError(t, err)

	assert.Equal(t, 3, timetable.NumberOfTripSchedules())
	assert.Equal(t, 3, timetable.NumberOfStopsInPattern())
	assert.Len(t, timetable.arrivalTimes, 9)
	assert.Len(t, timetable.departureTimes, 9)

	dates := []*ctdf.TripPatternForDate{day1, day2}
	offsets := []int{0, 86400}
	for s := 0; s < 3; s++ {
		i := 0
		for d, date := range dates {
			for _, tripTimes := range date.TripTimes() {
				assert.Equal(t, tripTimes.ArrivalTime(s)+offsets[d], timetable.ArrivalTime(s, i))
				assert.Equal(t, tripTimes.DepartureTime(s)+offsets[d], timetable.DepartureTime(s, i))
				assert.Equal(t, timetable.arrivalTimes[s*3+i], timetable.ArrivalTime(s, i))
				i++
			}
		}
	}

	assert.Equal(t, 86400+1800+900, timetable.ArrivalTimes(1)(2))
	assert.Equal(t, 3600+30, timetable.DepartureTimes(0)(0))
	assert.Equal(t, []time.Time{testDay, testDay.AddDate(0, 0, 1)}, timetable.ServiceDates())
	assert.Equal(t, []int{0, 86400}, timetable.Offsets())
	assert.Contains(t, timetable.String(), "2024-03-12")
}

func TestNewTripPatternForDatesSortsWithinDate(t *testing.T) {
	pattern := testPattern(0, 1)
	date := ctdf.NewTripPatternForDate(pattern, testDay, []*ctdf.TripTimes{
		testTrip("late", 9000, 60, 2),
		testTrip("early", 3000, 60, 2),
	})

	timetable, err := NewTripPatternForDates(pattern, []*ctdf.TripPatternForDate{date}, []int{0})
	require.NoError(t, err)

	schedule, err := timetable.GetTripSchedule(0)
	require.NoError(t, err)
	assert.Equal(t, "early", schedule.OriginalTripTimes().JourneyRef)
}

func TestGetTripScheduleResolvesDateAndOffset(t *testing.T) {
	pattern := testPattern(0, 1)

	dates := []*ctdf.TripPatternForDate{
		ctdf.NewTripPatternForDate(pattern, testDay.AddDate(0, 0, -1), []*ctdf.TripTimes{
			testTrip("y1", 80000, 600, 2),
		}),
		ctdf.NewTripPatternForDate(pattern, testDay, []*ctdf.TripTimes{
			testTrip("t1", 3600, 600, 2),
			testTrip("t2", 5400, 600, 2),
			testTrip("t3", 7200, 600, 2),
		}),
		ctdf.NewTripPatternForDate(pattern, testDay.AddDate(0, 0, 1), nil),
		ctdf.NewTripPatternForDate(pattern, testDay.AddDate(0, 0, 2), []*ctdf.TripTimes{
			testTrip("n1", 600, 600, 2),
		}),
	}
	offsets := []int{-86400, 0, 86400, 172800}

	timetable, err := NewTripPatternForDates(pattern, dates, offsets)
	require.NoError(t, err)
	require.Equal(t, 5, timetable.NumberOfTripSchedules())

	tests := []struct {
		index       int
		journeyRef  string
		serviceDate time.Time
		offset      int
	}{
		{0, "y1", testDay.AddDate(0, 0, -1), -86400},
		{1, "t1", testDay, 0},
		{3, "t3", testDay, 0},
		{4, "n1", testDay.AddDate(0, 0, 2), 172800},
	}

	for _, test := range tests {
		schedule, err := timetable.GetTripSchedule(test.index)
		require.NoError(t, err)

		assert.Equal(t, test.journeyRef, schedule.OriginalTripTimes().JourneyRef)
		assert.Equal(t, test.serviceDate, schedule.ServiceDate())
		assert.Equal(t, test.offset, schedule.SecondsOffset())
		assert.Same(t, pattern, schedule.TripPattern())
		assert.Same(t, timetable, schedule.Timetable())

		for s := 0; s < 2; s++ {
			assert.Equal(t, timetable.ArrivalTime(s, test.index), schedule.ArrivalTime(s))
			assert.Equal(t, timetable.DepartureTime(s, test.index), schedule.DepartureTime(s))
		}
	}
}

func TestGetTripScheduleOutOfBounds(t *testing.T) {
	pattern := testPattern(0, 1)
	date := ctdf.NewTripPatternForDate(pattern, testDay, []*ctdf.TripTimes{testTrip("a", 0, 60, 2)})

	timetable, err := NewTripPatternForDates(pattern, []*ctdf.TripPatternForDate{date}, []int{0})
	require.NoError(t, err)

	for _, index := range []int{-1, 1, 100} {
		_, err := timetable.GetTripSchedule(index)
		assert.ErrorIs(t, err, ErrTripIndexOutOfBounds)
	}
}

func TestNewTripPatternForDatesErrors(t *testing.T) {
	pattern := testPattern(0, 1, 2)
	good := ctdf.NewTripPatternForDate(pattern, testDay, []*ctdf.TripTimes{testTrip("a", 0, 60, 3)})
	short := ctdf.NewTripPatternForDate(pattern, testDay, []*ctdf.TripTimes{testTrip("b", 0, 60, 2)})

	_, err := NewTripPatternForDates(pattern, nil, nil)
	assert.ErrorIs(t, err, ErrNoTripPatternForDates)

	_, err = NewTripPatternForDates(pattern, []*ctdf.TripPatternForDate{good}, []int{0, 1})
	assert.ErrorIs(t, err, ErrOffsetCountMismatch)

	_, err = NewTripPatternForDates(pattern, []*ctdf.TripPatternForDate{good, short}, []int{0, 86400})
	assert.ErrorIs(t, err, ErrStopCountMismatch)
}

func TestNewTripPatternForDatesZeroTrips(t *testing.T) {
	pattern := testPattern(0, 1)
	empty := []*ctdf.TripPatternForDate{
		ctdf.NewTripPatternForDate(pattern, testDay, nil),
		ctdf.NewTripPatternForDate(pattern, testDay.AddDate(0, 0, 1), nil),
	}

	timetable, err := NewTripPatternForDates(pattern, empty, []int{0, 86400})
	require.NoError(t, err)
	assert.Equal(t, 0, timetable.NumberOfTripSchedules())

	_, err = timetable.GetTripSchedule(0)
	assert.ErrorIs(t, err, ErrTripIndexOutOfBounds)
}

func TestBoardingAndAlightingDelegateToPattern(t *testing.T) {
	pattern := testPattern(4, 5, 6)
	pattern.Boarding = []bool{true, false, false}
	pattern.Alighting = []bool{false, true}

	date := ctdf.NewTripPatternForDate(pattern, testDay, nil)
	timetable, err := NewTripPatternForDates(pattern, []*ctdf.TripPatternForDate{date}, []int{0})
	require.NoError(t, err)

	assert.True(t, timetable.BoardingPossibleAt(0))
	assert.False(t, timetable.BoardingPossibleAt(1))
	assert.False(t, timetable.AlightingPossibleAt(0))
	assert.True(t, timetable.AlightingPossibleAt(2))
	assert.Equal(t, 5, timetable.StopIndex(1))
}
