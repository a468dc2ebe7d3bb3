package street

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/bluele/gcache"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

// NearbyStop is a stop reachable from a search vertex within the duration limit
type NearbyStop struct {
	StopIndex         int
	Distance          float64
	DurationInSeconds int
	Mode              Mode
}

// NearbyStopFinder walks the edges linked to a temporary vertex. Results are cached by
// a rounded location so repeated searches from the same spot skip the scan.
type NearbyStopFinder struct {
	cache gcache.Cache
}

func NewNearbyStopFinder(cacheSize int, expiration time.Duration) *NearbyStopFinder {
	return &NearbyStopFinder{
		cache: gcache.New(cacheSize).
			LRU().
			Expiration(expiration).
			Build(),
	}
}

// FindNearbyStops returns stops reachable from vertex (or reaching it when reverse is
// set) using mode within maxDuration, nearest first. The returned slice is the caller's
// own and never aliases the cache.
func (f *NearbyStopFinder) FindNearbyStops(ctx context.Context, vertex *Vertex, reverse bool, mode Mode, maxDuration time.Duration) ([]NearbyStop, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cacheKey := ""
	if vertex.Location != nil {
		cacheKey = makeCacheKey(vertex.Location.Latitude(), vertex.Location.Longitude(), reverse, mode, maxDuration)
		if cached, err := f.cache.Get(cacheKey); err == nil {
			if stops, ok := cached.([]NearbyStop); ok {
				log.Debug().Str("key", cacheKey).Msg("Nearby stop cache hit")
				return slices.Clone(stops), nil
			}
		}
	}

	edges := vertex.Outgoing()
	if reverse {
		edges = vertex.Incoming()
	}

	maxSeconds := int(maxDuration / time.Second)
	stops := []NearbyStop{}

	for _, edge := range edges {
		stopVertex := edge.To
		if reverse {
			stopVertex = edge.From
		}
		if !stopVertex.IsStop() {
			continue
		}

		duration := int(math.Ceil(edge.Distance / mode.Speed()))
		if duration > maxSeconds {
			continue
		}

		stops = append(stops, NearbyStop{
			StopIndex:         stopVertex.StopIndex,
			Distance:          edge.Distance,
			DurationInSeconds: duration,
			Mode:              mode,
		})
	}

	sort.SliceStable(stops, func(i, j int) bool {
		return stops[i].DurationInSeconds < stops[j].DurationInSeconds
	})

	if cacheKey != "" {
		if err := f.cache.Set(cacheKey, stops); err != nil {
			log.Error().Err(err).Msg("Failed to cache nearby stops")
		}
		return slices.Clone(stops), nil
	}

	return stops, nil
}

func quantizeCoord(coord float64) float64 {
	return math.Round(coord*10000) / 10000
}

func makeCacheKey(latitude float64, longitude float64, reverse bool, mode Mode, maxDuration time.Duration) string {
	return fmt.Sprintf("%.4f,%.4f/%t/%s/%d", quantizeCoord(latitude), quantizeCoord(longitude), reverse, mode, int(maxDuration/time.Second))
}
