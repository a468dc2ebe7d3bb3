package raptor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/planner/pkg/ctdf"
	"github.com/travigo/planner/pkg/transit"
)

func directSearchData(t *testing.T) *RequestTransitData {
	t.Helper()

	pattern := &ctdf.TripPattern{PrimaryIdentifier: "line", StopRefs: []string{"A", "B", "C"}}
	layer := transit.NewLayer(testStops(3), []*ctdf.TripPatternForDate{
		ctdf.NewTripPatternForDate(pattern, testDay, []*ctdf.TripTimes{
			testTrip("t-0800", 8*3600, 600, 3),
			testTrip("t-0830", 8*3600+1800, 600, 3),
			testTrip("t-1000", 10*3600, 600, 3),
		}),
	})

	data, err := NewRequestTransitData(layer, testDay, 0, 0, nil)
	require.NoError(t, err)
	return data
}

func walk(stopIndex int, duration int) AccessEgress {
	return AccessEgress{
		StopIndex:         stopIndex,
		DurationInSeconds: duration,
		GeneralizedCost:   duration * 2,
		Mode:              "WALK",
		EarliestStartTime: NotSet,
	}
}

func TestDirectSearchDepartAfter(t *testing.T) {
	data := directSearchData(t)

	response, err := DirectSearch{}.Route(context.Background(), Request{
		SearchParams: SearchParams{
			EarliestDepartureTime: 8*3600 + 60,
			LatestArrivalTime:     NotSet,
			SearchWindowInSeconds: 3600,
		},
		Accesses: []AccessEgress{walk(0, 120)},
		Egresses: []AccessEgress{walk(2, 60)},
	}, data)
	require.NoError(t, err)

	require.Len(t, response.Paths, 1)
	path := response.Paths[0]

	assert.Equal(t, 8*3600+1800+30-120, path.StartTime)
	assert.Equal(t, 8*3600+1800+1200+60, path.EndTime)
	assert.Equal(t, 0, path.NumberOfTransfers)
	require.Len(t, path.TransitLegs(), 1)
	assert.Equal(t, "t-0830", path.TransitLegs()[0].Trip.OriginalTripTimes().JourneyRef)
	assert.Equal(t, 3600, response.RequestUsed.SearchParams.SearchWindowInSeconds)
	assert.False(t, response.ContainsUnknownPaths)
}

func TestDirectSearchArriveBy(t *testing.T) {
	data := directSearchData(t)

	response, err := DirectSearch{}.Route(context.Background(), Request{
		SearchParams: SearchParams{
			EarliestDepartureTime: NotSet,
			LatestArrivalTime:     9 * 3600,
			SearchWindowInSeconds: 3600,
			ArriveBy:              true,
		},
		Accesses: []AccessEgress{walk(0, 0)},
		Egresses: []AccessEgress{walk(2, 0)},
	}, data)
	require.NoError(t, err)

	require.Len(t, response.Paths, 2)
	assert.Equal(t, "t-0800", response.Paths[0].TransitLegs()[0].Trip.OriginalTripTimes().JourneyRef)
	assert.Equal(t, "t-0830", response.Paths[1].TransitLegs()[0].Trip.OriginalTripTimes().JourneyRef)
}

func TestDirectSearchDynamicWindow(t *testing.T) {
	data := directSearchData(t)

	request := Request{
		SearchParams: SearchParams{
			EarliestDepartureTime: 7 * 3600,
			LatestArrivalTime:     NotSet,
			SearchWindowInSeconds: NotSet,
		},
		Accesses: []AccessEgress{walk(0, 0)},
		Egresses: []AccessEgress{walk(2, 0)},
	}

	response, err := DirectSearch{DefaultWindow: 7200}.Route(context.Background(), request, data)
	require.NoError(t, err)
	assert.Equal(t, 7200, response.RequestUsed.SearchParams.SearchWindowInSeconds)
	assert.Len(t, response.Paths, 2)

	request.SearchParams.EarliestDepartureTime = 23 * 3600
	response, err = DirectSearch{}.Route(context.Background(), request, data)
	require.NoError(t, err)
	assert.Equal(t, 0, response.RequestUsed.SearchParams.SearchWindowInSeconds)
	assert.Empty(t, response.Paths)
}

func TestDirectSearchRespectsEarliestStartTime(t *testing.T) {
	data := directSearchData(t)

	hailing := walk(0, 300)
	hailing.Mode = "CAR_HAILING"
	hailing.RideHailing = true
	hailing.EarliestStartTime = 9 * 3600

	response, err := DirectSearch{}.Route(context.Background(), Request{
		SearchParams: SearchParams{
			EarliestDepartureTime: 7 * 3600,
			LatestArrivalTime:     NotSet,
			SearchWindowInSeconds: 4 * 3600,
		},
		Accesses: []AccessEgress{hailing},
		Egresses: []AccessEgress{walk(1, 0)},
	}, data)
	require.NoError(t, err)

	require.Len(t, response.Paths, 1)
	assert.Equal(t, "t-1000", response.Paths[0].TransitLegs()[0].Trip.OriginalTripTimes().JourneyRef)
}

func TestDirectSearchKeepsBestAlightingPerTrip(t *testing.T) {
	data := directSearchData(t)

	response, err := DirectSearch{}.Route(context.Background(), Request{
		SearchParams: SearchParams{
			EarliestDepartureTime: 9*3600 + 1800,
			LatestArrivalTime:     NotSet,
			SearchWindowInSeconds: 3600,
		},
		Accesses: []AccessEgress{walk(0, 0)},
		Egresses: []AccessEgress{walk(1, 900), walk(2, 60)},
	}, data)
	require.NoError(t, err)

	require.Len(t, response.Paths, 1)
	assert.Equal(t, 2, response.Paths[0].TransitLegs()[0].AlightStopPosition)
}

func TestDirectSearchHonoursCancelledContext(t *testing.T) {
	data := directSearchData(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DirectSearch{}.Route(ctx, Request{
		SearchParams: SearchParams{SearchWindowInSeconds: 3600},
		Accesses:     []AccessEgress{walk(0, 0)},
	}, data)
	assert.ErrorIs(t, err, context.Canceled)
}
