package planner

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/travigo/planner/pkg/config"
	"github.com/travigo/planner/pkg/ctdf"
	"github.com/travigo/planner/pkg/routing"
	"github.com/travigo/planner/pkg/transit"
)

func writeStopsCSV(t *testing.T) string {
	path := filepath.Join(t.TempDir(), "Stops.csv")
	content := strings.Join([]string{
		"ATCOCode,NaptanCode,CommonName,Easting,Northing,Longitude,Latitude,StopType",
		"490000001,74245,Oxford Circus,,,-0.14,51.515,BCT",
		"490000002,74246,Regent Street,,,-0.141,51.512,BCT",
	}, "\n")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadTransitServiceFromStopsCSV(t *testing.T) {
	cfg := config.Default()
	cfg.Transit.StopsCSV = writeStopsCSV(t)

	transitService, err := LoadTransitService(context.Background(), cfg)
	require.NoError(t, err)

	layer := transitService.TransitLayer()
	assert.Equal(t, 2, layer.StopCount())
	assert.Empty(t, layer.ServiceDates())
	assert.Equal(t, "Europe/London", transitService.TimeZone().String())
}

func TestLoadTransitServiceWithoutSource(t *testing.T) {
	_, err := LoadTransitService(context.Background(), config.Default())
	assert.Error(t, err)
}

func TestPlannerWithoutTimetable(t *testing.T) {
	cfg := config.Default()
	cfg.Transit.StopsCSV = writeStopsCSV(t)
	cfg.RideHailing.Enabled = true
	cfg.Transit.RealtimeStopRefPrefix = "GB:ATCO:"

	transitService, err := LoadTransitService(context.Background(), cfg)
	require.NoError(t, err)

	planner := New(cfg, transitService, nil)
	assert.Equal(t, "GB:ATCO:", planner.RealtimeOptions().StopRefPrefix)
	assert.NotNil(t, planner.Graph.StopVertex(1))

	request := routing.NewRouteRequest(cfg)
	request.From = ctdf.NewLocation(51.515, -0.14)
	request.To = ctdf.NewLocation(51.512, -0.141)
	request.DateTime = time.Now()

	_, err = planner.Service.Plan(context.Background(), request)
	validationError, ok := routing.AsValidationError(err)
	require.True(t, ok)
	assert.True(t, validationError.HasCode(routing.OutsideServicePeriod))
}

func TestPlannerReplaceLayer(t *testing.T) {
	cfg := config.Default()
	cfg.Transit.StopsCSV = writeStopsCSV(t)

	transitService, err := LoadTransitService(context.Background(), cfg)
	require.NoError(t, err)
	planner := New(cfg, transitService, nil)

	newStops := func(identifiers ...string) []*ctdf.Stop {
		stops := []*ctdf.Stop{}
		for _, identifier := range identifiers {
			stops = append(stops, &ctdf.Stop{PrimaryIdentifier: identifier, Location: ctdf.NewLocation(51.515, -0.14)})
		}
		return stops
	}
	stops := newStops("GB:ATCO:490000001", "GB:ATCO:490000002")
	pattern := &ctdf.TripPattern{PrimaryIdentifier: "p1", StopRefs: []string{"GB:ATCO:490000001", "GB:ATCO:490000002"}}
	serviceDate := time.Date(2024, 3, 11, 0, 0, 0, 0, cfg.Location())

	layer := transit.NewLayer(stops, []*ctdf.TripPatternForDate{
		ctdf.NewTripPatternForDate(pattern, serviceDate, []*ctdf.TripTimes{
			{JourneyRef: "j1", ArrivalTimes: []int{28800, 29100}, DepartureTimes: []int{28800, 29100}},
		}),
	})

	require.NoError(t, planner.ReplaceLayer(layer))
	assert.Same(t, layer, transitService.TransitLayer())
	assert.Same(t, layer, transitService.RealtimeTransitLayer())
	assert.True(t, transitService.TransitFeedCovers(serviceDate.Add(8*time.Hour)))

	reordered := transit.NewLayer(newStops("GB:ATCO:490000002", "GB:ATCO:490000001"), nil)
	assert.ErrorIs(t, planner.ReplaceLayer(reordered), ErrStopsChanged)

	shorter := transit.NewLayer(newStops("GB:ATCO:490000001"), nil)
	assert.ErrorIs(t, planner.ReplaceLayer(shorter), ErrStopsChanged)
	assert.Same(t, layer, transitService.TransitLayer())
}
