package transferoptimization

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/planner/pkg/ctdf"
	"github.com/travigo/planner/pkg/raptor"
	"github.com/travigo/planner/pkg/transit"
)

var serviceDay = time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)

func trip(t *testing.T, journeyRef string, stopRefs []string, departure int) *raptor.TripScheduleWithOffset {
	pattern := &ctdf.TripPattern{
		PrimaryIdentifier: "pattern-" + journeyRef,
		StopRefs:          stopRefs,
		StopIndexes:       make([]int, len(stopRefs)),
	}

	tripTimes := &ctdf.TripTimes{JourneyRef: journeyRef}
	for i := range stopRefs {
		tripTimes.ArrivalTimes = append(tripTimes.ArrivalTimes, departure+i*300)
		tripTimes.DepartureTimes = append(tripTimes.DepartureTimes, departure+i*300)
	}

	timetable, err := raptor.NewTripPatternForDates(pattern, []*ctdf.TripPatternForDate{
		ctdf.NewTripPatternForDate(pattern, serviceDay, []*ctdf.TripTimes{tripTimes}),
	}, []int{0})
	require.NoError(t, err)

	schedule, err := timetable.GetTripSchedule(0)
	require.NoError(t, err)
	return &schedule
}

func twoLegPath(first *raptor.TripScheduleWithOffset, second *raptor.TripScheduleWithOffset, cost int) *raptor.Path {
	return &raptor.Path{
		Legs: []raptor.PathLeg{
			{Type: raptor.LegTypeAccess},
			{Type: raptor.LegTypeTransit, Trip: first, BoardStopPosition: 0, AlightStopPosition: 1},
			{Type: raptor.LegTypeTransfer},
			{Type: raptor.LegTypeTransit, Trip: second, BoardStopPosition: 0, AlightStopPosition: 1},
			{Type: raptor.LegTypeEgress},
		},
		StartTime:         3600,
		EndTime:           7200,
		NumberOfTransfers: 1,
		GeneralizedCost:   cost,
	}
}

func TestOptimizePrefersGuaranteedTransfer(t *testing.T) {
	optimizer := NewOptimizer(transit.NewTransferService([]transit.GuaranteedTransfer{
		{FromJourneyRef: "a", FromStopRef: "B", ToJourneyRef: "x", ToStopRef: "B"},
	}))

	a := trip(t, "a", []string{"A", "B"}, 3600)
	x := trip(t, "x", []string{"B", "C"}, 4800)
	y := trip(t, "y", []string{"B", "C"}, 4800)

	cheaper := twoLegPath(a, y, 1000)
	guaranteed := twoLegPath(a, x, 1200)
	other := &raptor.Path{StartTime: 3000, EndTime: 7200, NumberOfTransfers: 0, GeneralizedCost: 900}

	input := []*raptor.Path{cheaper, other, guaranteed}
	optimized := optimizer.Optimize(input)

	require.Len(t, optimized, 2)
	assert.Equal(t, 1200, optimized[0].GeneralizedCost)
	assert.True(t, optimized[0].Legs[3].GuaranteedTransfer)
	assert.False(t, optimized[0].Legs[1].GuaranteedTransfer)
	assert.Equal(t, other.GeneralizedCost, optimized[1].GeneralizedCost)

	// the engine's paths are not modified
	assert.False(t, guaranteed.Legs[3].GuaranteedTransfer)
	assert.Len(t, input, 3)
}

func TestOptimizeWildcardStopAndCostTieBreak(t *testing.T) {
	optimizer := NewOptimizer(transit.NewTransferService([]transit.GuaranteedTransfer{
		{FromJourneyRef: "a", ToJourneyRef: "x"},
	}))

	a := trip(t, "a", []string{"A", "B"}, 3600)
	x := trip(t, "x", []string{"B", "C"}, 4800)
	y := trip(t, "y", []string{"B", "C"}, 4800)

	t.Run("wildcard stops match", func(t *testing.T) {
		optimized := optimizer.Optimize([]*raptor.Path{twoLegPath(a, x, 500)})
		require.Len(t, optimized, 1)
		assert.True(t, optimized[0].Legs[3].GuaranteedTransfer)
	})

	t.Run("equal guarantees keep the cheaper path", func(t *testing.T) {
		optimized := optimizer.Optimize([]*raptor.Path{twoLegPath(a, y, 800), twoLegPath(a, y, 700)})
		require.Len(t, optimized, 1)
		assert.Equal(t, 700, optimized[0].GeneralizedCost)
	})
}

func TestOptimizeWithoutTransfers(t *testing.T) {
	optimizer := NewOptimizer(nil)

	paths := []*raptor.Path{
		{StartTime: 100, EndTime: 200, GeneralizedCost: 10},
		{StartTime: 150, EndTime: 260, GeneralizedCost: 12},
	}

	optimized := optimizer.Optimize(paths)

	require.Len(t, optimized, 2)
	assert.Equal(t, paths[0].StartTime, optimized[0].StartTime)
	assert.Equal(t, paths[1].StartTime, optimized[1].StartTime)
	assert.NotSame(t, paths[0], optimized[0])

	assert.Empty(t, optimizer.Optimize(nil))
}
