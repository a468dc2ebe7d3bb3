package filterchain

import (
	"time"

	"github.com/travigo/planner/pkg/ctdf"
)

const OutsideSearchWindowTag = "outside-search-window"

// FlagOutsideSearchWindow returns a new slice in which itineraries departing after
// latestDepartureTime carry the outside-search-window notice. A zero latestDepartureTime
// flags nothing.
func FlagOutsideSearchWindow(itineraries []ctdf.JourneyPlan, latestDepartureTime time.Time) []ctdf.JourneyPlan {
	flagged := make([]ctdf.JourneyPlan, 0, len(itineraries))

	for _, itinerary := range itineraries {
		if !latestDepartureTime.IsZero() && itinerary.StartTime.After(latestDepartureTime) && !itinerary.HasSystemNotice(OutsideSearchWindowTag) {
			itinerary = itinerary.WithSystemNotice(ctdf.SystemNotice{
				Tag:  OutsideSearchWindowTag,
				Text: "Departs after the end of the search window",
			})
		}
		flagged = append(flagged, itinerary)
	}

	return flagged
}
