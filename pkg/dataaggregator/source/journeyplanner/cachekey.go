package journeyplanner

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/travigo/planner/pkg/ctdf"
	"github.com/travigo/planner/pkg/routing"
)

func locationKey(location *ctdf.Location) string {
	if location == nil {
		return "-"
	}
	return fmt.Sprintf("%.5f,%.5f", location.Latitude(), location.Longitude())
}

// cacheKey identifies a request by everything the API lets a caller change. Request
// times are rounded down to the minute.
func cacheKey(request *routing.RouteRequest) string {
	transit := request.Journey.Transit

	transportTypes := make([]string, len(transit.TransportTypes))
	for i, transportType := range transit.TransportTypes {
		transportTypes[i] = string(transportType)
	}
	sort.Strings(transportTypes)

	parts := []string{
		locationKey(request.From),
		locationKey(request.To),
		request.DateTime.UTC().Truncate(time.Minute).Format(time.RFC3339),
		fmt.Sprintf("%t/%t/%t", request.ArriveBy, transit.Enabled, request.Preferences.Transit.IgnoreRealtimeUpdates),
		request.SearchWindow.String(),
		request.Journey.Access.Mode.String(),
		request.Journey.Egress.Mode.String(),
		strings.Join(transportTypes, ","),
		transit.Filter,
		request.Preferences.ItineraryFilter.DebugProfile,
		fmt.Sprint(request.Preferences.ItineraryFilter.NumItineraries),
	}

	return "cachedresults/journeyplan/" + strings.Join(parts, "/")
}
