package street

import (
	"math"
	"sort"

	"github.com/tidwall/rtree"
	"github.com/travigo/planner/pkg/ctdf"
)

const metersPerDegreeLatitude = 111320.0

// StopIndex is a spatial index over stop locations
type StopIndex struct {
	tree rtree.RTree
}

func NewStopIndex(stops []*ctdf.Stop) *StopIndex {
	index := &StopIndex{}

	for _, stop := range stops {
		if stop.Location == nil || len(stop.Location.Coordinates) != 2 {
			continue
		}

		point := [2]float64{stop.Location.Longitude(), stop.Location.Latitude()}
		index.tree.Insert(point, point, stop)
	}

	return index
}

func (i *StopIndex) Len() int {
	return i.tree.Len()
}

// Within returns the stops within radius meters of location, nearest first
func (i *StopIndex) Within(location *ctdf.Location, radius float64) []*ctdf.Stop {
	latitudeDelta := radius / metersPerDegreeLatitude
	longitudeDelta := radius / (metersPerDegreeLatitude * math.Max(math.Cos(location.Latitude()*math.Pi/180), 0.01))

	minPoint := [2]float64{location.Longitude() - longitudeDelta, location.Latitude() - latitudeDelta}
	maxPoint := [2]float64{location.Longitude() + longitudeDelta, location.Latitude() + latitudeDelta}

	type stopDistance struct {
		stop     *ctdf.Stop
		distance float64
	}
	var found []stopDistance

	i.tree.Search(minPoint, maxPoint, func(_, _ [2]float64, data interface{}) bool {
		stop := data.(*ctdf.Stop)
		distance := location.Distance(stop.Location)
		if distance <= radius {
			found = append(found, stopDistance{stop, distance})
		}
		return true
	})

	sort.Slice(found, func(a, b int) bool {
		return found[a].distance < found[b].distance
	})

	stops := make([]*ctdf.Stop, len(found))
	for n, entry := range found {
		stops[n] = entry.stop
	}
	return stops
}
