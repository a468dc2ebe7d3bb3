package transit

import (
	"time"

	"github.com/MobilityData/gtfs-realtime-bindings/golang/gtfs"
	"github.com/rs/zerolog/log"
	"github.com/travigo/planner/pkg/ctdf"
	"github.com/travigo/planner/pkg/util"
)

type RealtimeOptions struct {
	TimeZone *time.Location

	// StopRefPrefix is prepended to GTFS stop ids to match stop primary identifiers
	StopRefPrefix string

	Now func() time.Time
}

type TripUpdateStats struct {
	Applied   int
	Cancelled int
	Unmatched int
}

type journeyLocation struct {
	tripPatternForDate *ctdf.TripPatternForDate
}

type pendingTripSet struct {
	original  *ctdf.TripPatternForDate
	tripTimes []*ctdf.TripTimes
}

// ApplyTripUpdates returns a layer with the feed's trip updates applied. The given layer
// and its trip sets are not modified; changed trip sets are rebuilt and swapped in.
func ApplyTripUpdates(layer *Layer, feed *gtfs.FeedMessage, options RealtimeOptions) (*Layer, TripUpdateStats) {
	stats := TripUpdateStats{}

	timeZone := options.TimeZone
	if timeZone == nil {
		timeZone = time.UTC
	}
	now := time.Now
	if options.Now != nil {
		now = options.Now
	}

	journeysByDate := map[string]map[string]journeyLocation{}
	pending := map[*ctdf.TripPatternForDate]*pendingTripSet{}
	var pendingOrder []*ctdf.TripPatternForDate

	for _, entity := range feed.GetEntity() {
		tripUpdate := entity.GetTripUpdate()
		if tripUpdate == nil {
			continue
		}

		trip := tripUpdate.GetTrip()
		tripID := trip.GetTripId()
		if tripID == "" {
			stats.Unmatched++
			continue
		}

		serviceDate := util.ServiceDate(now(), timeZone)
		if trip.StartDate != nil {
			parsed, err := time.ParseInLocation("20060102", trip.GetStartDate(), timeZone)
			if err != nil {
				log.Error().Err(err).Str("trip", tripID).Msg("Failed to parse start date")
				stats.Unmatched++
				continue
			}
			serviceDate = parsed
		}

		dateKey := serviceDate.Format(util.ServiceDateFormat)
		journeys, exists := journeysByDate[dateKey]
		if !exists {
			journeys = indexJourneys(layer, serviceDate)
			journeysByDate[dateKey] = journeys
		}

		location, exists := journeys[tripID]
		if !exists {
			stats.Unmatched++
			continue
		}

		tripSet, exists := pending[location.tripPatternForDate]
		if !exists {
			tripSet = &pendingTripSet{
				original:  location.tripPatternForDate,
				tripTimes: append([]*ctdf.TripTimes(nil), location.tripPatternForDate.TripTimes()...),
			}
			pending[location.tripPatternForDate] = tripSet
			pendingOrder = append(pendingOrder, location.tripPatternForDate)
		}

		position := findJourney(tripSet.tripTimes, tripID)
		if position < 0 {
			// already cancelled earlier in this feed
			stats.Unmatched++
			continue
		}

		if trip.GetScheduleRelationship() == gtfs.TripDescriptor_CANCELED {
			tripSet.tripTimes = append(tripSet.tripTimes[:position:position], tripSet.tripTimes[position+1:]...)
			stats.Cancelled++
			continue
		}

		updated := applyStopTimeUpdates(
			tripSet.tripTimes[position],
			location.tripPatternForDate.TripPattern,
			tripUpdate.GetStopTimeUpdate(),
			serviceDate,
			options.StopRefPrefix,
		)
		tripSet.tripTimes[position] = updated
		stats.Applied++
	}

	if len(pendingOrder) == 0 {
		return layer, stats
	}

	replacements := make([]*ctdf.TripPatternForDate, 0, len(pendingOrder))
	for _, original := range pendingOrder {
		tripSet := pending[original]
		replacements = append(replacements, ctdf.NewTripPatternForDate(original.TripPattern, original.ServiceDate, tripSet.tripTimes))
	}

	return layer.WithTripPatternsForDate(replacements), stats
}

func indexJourneys(layer *Layer, serviceDate time.Time) map[string]journeyLocation {
	journeys := map[string]journeyLocation{}

	for _, tripPatternForDate := range layer.TripPatternsForDate(serviceDate) {
		for _, tripTimes := range tripPatternForDate.TripTimes() {
			journeys[tripTimes.JourneyRef] = journeyLocation{
				tripPatternForDate: tripPatternForDate,
			}
		}
	}

	return journeys
}

func findJourney(tripTimes []*ctdf.TripTimes, journeyRef string) int {
	for i, candidate := range tripTimes {
		if candidate.JourneyRef == journeyRef {
			return i
		}
	}
	return -1
}

// applyStopTimeUpdates returns new trip times with each update applied at its stop and
// the resulting delay carried forward until the next update. Stops before the first
// update keep their times.
func applyStopTimeUpdates(scheduled *ctdf.TripTimes, pattern *ctdf.TripPattern, updates []*gtfs.TripUpdate_StopTimeUpdate, serviceDate time.Time, stopRefPrefix string) *ctdf.TripTimes {
	numberOfStops := scheduled.NumberOfStops()
	arrivals := append([]int(nil), scheduled.ArrivalTimes...)
	departures := append([]int(nil), scheduled.DepartureTimes...)

	delay := 0
	propagating := false
	nextPosition := 0

	for _, update := range updates {
		stopRef := stopRefPrefix + update.GetStopId()

		position := -1
		for p := nextPosition; p < numberOfStops && p < len(pattern.StopRefs); p++ {
			if pattern.StopRefs[p] == stopRef {
				position = p
				break
			}
		}
		if position < 0 {
			continue
		}

		if propagating {
			for p := nextPosition; p < position; p++ {
				arrivals[p] += delay
				departures[p] += delay
			}
		}

		arrival := arrivals[position] + delay
		if event := update.GetArrival(); event != nil {
			arrival = eventTime(event, arrivals[position], serviceDate)
		}
		arrivalDelay := arrival - arrivals[position]

		departure := departures[position] + arrivalDelay
		if event := update.GetDeparture(); event != nil {
			departure = eventTime(event, departures[position], serviceDate)
		}
		delay = departure - departures[position]

		arrivals[position] = arrival
		departures[position] = departure

		propagating = true
		nextPosition = position + 1
	}

	if propagating {
		for p := nextPosition; p < numberOfStops; p++ {
			arrivals[p] += delay
			departures[p] += delay
		}
	}

	for p := 0; p < numberOfStops; p++ {
		if p > 0 && arrivals[p] < departures[p-1] {
			arrivals[p] = departures[p-1]
		}
		if departures[p] < arrivals[p] {
			departures[p] = arrivals[p]
		}
	}

	return &ctdf.TripTimes{
		JourneyRef:      scheduled.JourneyRef,
		ArrivalTimes:    arrivals,
		DepartureTimes:  departures,
		RealtimeUpdated: true,
	}
}

func eventTime(event *gtfs.TripUpdate_StopTimeEvent, scheduled int, serviceDate time.Time) int {
	if event.Time != nil {
		return util.SecondsBetween(serviceDate, time.Unix(event.GetTime(), 0))
	}
	if event.Delay != nil {
		return scheduled + int(event.GetDelay())
	}
	return scheduled
}
