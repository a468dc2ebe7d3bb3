package raptor

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/planner/pkg/ctdf"
	"github.com/travigo/planner/pkg/transit"
)

type rejectFilter struct {
	pattern    string
	journeyRef string
}

func (f rejectFilter) TripPatternPredicate(pattern *ctdf.TripPattern) bool {
	return pattern.PrimaryIdentifier != f.pattern
}

func (f rejectFilter) TripTimesPredicate(tripTimes *ctdf.TripTimes) bool {
	return tripTimes.JourneyRef != f.journeyRef
}

func testStops(count int) []*ctdf.Stop {
	stops := make([]*ctdf.Stop, count)
	for i := range stops {
		stops[i] = &ctdf.Stop{
			PrimaryIdentifier: string(rune('A' + i)),
			Location:          ctdf.NewLocation(51.5+float64(i)*0.01, -0.1),
		}
	}
	return stops
}

func testLayer(t *testing.T) (*transit.Layer, *ctdf.TripPattern, *ctdf.TripPattern) {
	t.Helper()

	main := &ctdf.TripPattern{PrimaryIdentifier: "main", StopRefs: []string{"A", "B", "C"}}
	branch := &ctdf.TripPattern{PrimaryIdentifier: "branch", StopRefs: []string{"C", "D"}}

	var tripPatternsForDate []*ctdf.TripPatternForDate
	for day := -1; day <= 1; day++ {
		tripPatternsForDate = append(tripPatternsForDate, ctdf.NewTripPatternForDate(main, testDay.AddDate(0, 0, day), []*ctdf.TripTimes{
			testTrip("main-1", 8*3600, 600, 3),
			testTrip("skip", 9*3600, 600, 3),
		}))
	}
	tripPatternsForDate = append(tripPatternsForDate, ctdf.NewTripPatternForDate(branch, testDay, []*ctdf.TripTimes{
		testTrip("branch-1", 10*3600, 600, 2),
	}))

	return transit.NewLayer(testStops(4), tripPatternsForDate), main, branch
}

func TestRequestTransitDataFlattensSearchDays(t *testing.T) {
	layer, main, branch := testLayer(t)

	data, err := NewRequestTransitData(layer, testDay, 1, 1, nil)
	require.NoError(t, err)

	require.Len(t, data.Patterns(), 2)
	mainTimetable := data.Patterns()[0]

	assert.Same(t, main, mainTimetable.TripPattern())
	assert.Equal(t, []int{-86400, 0, 86400}, mainTimetable.Offsets())
	assert.Equal(t, 6, mainTimetable.NumberOfTripSchedules())
	assert.Equal(t, 8*3600+30-86400, mainTimetable.DepartureTime(0, 0))

	assert.Len(t, data.PatternsForStop(0), 1)
	assert.Len(t, data.PatternsForStop(2), 2)
	assert.Same(t, branch, data.PatternsForStop(3)[0].TripPattern())
	assert.Equal(t, 4, data.StopCount())
	assert.Equal(t, testDay, data.TransitSearchTimeZero())
}

func TestRequestTransitDataLimitsDays(t *testing.T) {
	layer, _, _ := testLayer(t)

	data, err := NewRequestTransitData(layer, testDay, 0, 0, nil)
	require.NoError(t, err)

	require.Len(t, data.Patterns(), 2)
	assert.Equal(t, []int{0}, data.Patterns()[0].Offsets())
}

func TestRequestTransitDataAppliesFilter(t *testing.T) {
	layer, _, _ := testLayer(t)

	data, err := NewRequestTransitData(layer, testDay, 1, 1, rejectFilter{pattern: "branch", journeyRef: "skip"})
	require.NoError(t, err)

	require.Len(t, data.Patterns(), 1)
	assert.Equal(t, 3, data.Patterns()[0].NumberOfTripSchedules())
	assert.Empty(t, data.PatternsForStop(3))

	for i := 0; i < 3; i++ {
		schedule, err := data.Patterns()[0].GetTripSchedule(i)
		require.NoError(t, err)
		assert.Equal(t, "main-1", schedule.OriginalTripTimes().JourneyRef)
	}

	// The layer itself is untouched
	assert.Equal(t, 2, layer.TripPatternsForDate(testDay)[0].NumberOfTripSchedules())
}

func TestRequestTransitDataAcrossDaylightSaving(t *testing.T) {
	london, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)

	// Clocks go forward on 2024-03-31
	timeZero := time.Date(2024, 3, 31, 0, 0, 0, 0, london)
	pattern := &ctdf.TripPattern{PrimaryIdentifier: "dst", StopRefs: []string{"A", "B"}}
	layer := transit.NewLayer(testStops(2), []*ctdf.TripPatternForDate{
		ctdf.NewTripPatternForDate(pattern, time.Date(2024, 4, 1, 0, 0, 0, 0, london), []*ctdf.TripTimes{testTrip("x", 0, 60, 2)}),
	})

	data, err := NewRequestTransitData(layer, timeZero, 0, 1, nil)
	require.NoError(t, err)

	require.Len(t, data.Patterns(), 1)
	assert.Equal(t, []int{23 * 3600}, data.Patterns()[0].Offsets())
}
