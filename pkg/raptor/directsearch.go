package raptor

import (
	"context"
	"sort"

	"golang.org/x/exp/slices"
)

const DefaultDirectSearchWindow = 40 * 60

// DirectSearch finds journeys using a single trip: board at an access stop, stay on,
// alight at an egress stop. It never transfers so MaxNumberOfTransfers has no effect.
//
// With no search window set the whole timetable horizon is scanned and the window
// becomes DefaultWindow from the first journey found, or 0 when nothing runs.
type DirectSearch struct {
	DefaultWindow int
}

type directCandidate struct {
	timetable *TripPatternForDates
	tripIndex int

	access AccessEgress
	egress AccessEgress

	boardPosition  int
	alightPosition int

	startTime int
	endTime   int
	cost      int
}

type tripKey struct {
	timetable *TripPatternForDates
	tripIndex int
}

func (d DirectSearch) Route(ctx context.Context, request Request, data TransitDataProvider) (*Response, error) {
	params := request.SearchParams

	candidates, err := d.collect(ctx, request, data)
	if err != nil {
		return nil, err
	}

	window := params.SearchWindowInSeconds
	if window == NotSet {
		if len(candidates) == 0 {
			window = 0
		} else {
			window = d.DefaultWindow
			if window <= 0 {
				window = DefaultDirectSearchWindow
			}
		}
	}

	candidates = slices.DeleteFunc(candidates, func(c directCandidate) bool {
		if params.ArriveBy {
			return c.endTime < params.LatestArrivalTime-window
		}
		return c.startTime > params.EarliestDepartureTime+window
	})

	// One journey per trip, the quickest boarding/alighting pair wins
	best := map[tripKey]directCandidate{}
	for _, candidate := range candidates {
		key := tripKey{candidate.timetable, candidate.tripIndex}
		existing, exists := best[key]
		if !exists || candidate.better(existing, params.ArriveBy) {
			best[key] = candidate
		}
	}

	paths := make([]*Path, 0, len(best))
	for _, candidate := range best {
		path, err := candidate.path()
		if err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}

	sort.Slice(paths, func(i, j int) bool {
		if paths[i].StartTime != paths[j].StartTime {
			return paths[i].StartTime < paths[j].StartTime
		}
		if paths[i].EndTime != paths[j].EndTime {
			return paths[i].EndTime < paths[j].EndTime
		}
		return paths[i].GeneralizedCost < paths[j].GeneralizedCost
	})

	requestUsed := request
	requestUsed.SearchParams.SearchWindowInSeconds = window

	return &Response{
		Paths:       paths,
		RequestUsed: requestUsed,
	}, nil
}

func (d DirectSearch) collect(ctx context.Context, request Request, data TransitDataProvider) ([]directCandidate, error) {
	params := request.SearchParams

	egressesByStop := map[int][]AccessEgress{}
	for _, egress := range request.Egresses {
		egressesByStop[egress.StopIndex] = append(egressesByStop[egress.StopIndex], egress)
	}

	var candidates []directCandidate

	for _, access := range request.Accesses {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for _, timetable := range data.PatternsForStop(access.StopIndex) {
			numberOfStops := timetable.NumberOfStopsInPattern()

			for board := 0; board < numberOfStops; board++ {
				if timetable.StopIndex(board) != access.StopIndex || !timetable.BoardingPossibleAt(board) {
					continue
				}

				for alight := board + 1; alight < numberOfStops; alight++ {
					egresses := egressesByStop[timetable.StopIndex(alight)]
					if len(egresses) == 0 || !timetable.AlightingPossibleAt(alight) {
						continue
					}

					departures := timetable.DepartureTimes(board)
					arrivals := timetable.ArrivalTimes(alight)

					for trip := 0; trip < timetable.NumberOfTripSchedules(); trip++ {
						departure := departures(trip)
						startTime := departure - access.DurationInSeconds

						if access.HasTimeRestriction() && startTime < access.EarliestStartTime {
							continue
						}
						if !params.ArriveBy && params.EarliestDepartureTime != NotSet && startTime < params.EarliestDepartureTime {
							continue
						}

						for _, egress := range egresses {
							endTime := arrivals(trip) + egress.DurationInSeconds
							if params.ArriveBy && params.LatestArrivalTime != NotSet && endTime > params.LatestArrivalTime {
								continue
							}

							transitTime := arrivals(trip) - departure
							cost := access.GeneralizedCost + egress.GeneralizedCost + request.Weights.BoardCost +
								int(float64(transitTime)*transitReluctance(request.Weights))

							candidates = append(candidates, directCandidate{
								timetable:      timetable,
								tripIndex:      trip,
								access:         access,
								egress:         egress,
								boardPosition:  board,
								alightPosition: alight,
								startTime:      startTime,
								endTime:        endTime,
								cost:           cost,
							})
						}
					}
				}
			}
		}
	}

	return candidates, nil
}

func transitReluctance(weights CostWeights) float64 {
	if weights.TransitReluctance <= 0 {
		return 1
	}
	return weights.TransitReluctance
}

func (c directCandidate) better(other directCandidate, arriveBy bool) bool {
	if arriveBy {
		if c.startTime != other.startTime {
			return c.startTime > other.startTime
		}
	} else if c.endTime != other.endTime {
		return c.endTime < other.endTime
	}
	if c.Duration() != other.Duration() {
		return c.Duration() < other.Duration()
	}
	return c.cost < other.cost
}

func (c directCandidate) Duration() int {
	return c.endTime - c.startTime
}

func (c directCandidate) path() (*Path, error) {
	trip, err := c.timetable.GetTripSchedule(c.tripIndex)
	if err != nil {
		return nil, err
	}

	access := c.access
	egress := c.egress

	boardTime := trip.DepartureTime(c.boardPosition)
	alightTime := trip.ArrivalTime(c.alightPosition)

	return &Path{
		Legs: []PathLeg{
			{
				Type:         LegTypeAccess,
				FromStop:     NotSet,
				ToStop:       access.StopIndex,
				FromTime:     c.startTime,
				ToTime:       boardTime,
				AccessEgress: &access,
			},
			{
				Type:               LegTypeTransit,
				FromStop:           c.timetable.StopIndex(c.boardPosition),
				ToStop:             c.timetable.StopIndex(c.alightPosition),
				FromTime:           boardTime,
				ToTime:             alightTime,
				Trip:               &trip,
				BoardStopPosition:  c.boardPosition,
				AlightStopPosition: c.alightPosition,
			},
			{
				Type:         LegTypeEgress,
				FromStop:     egress.StopIndex,
				ToStop:       NotSet,
				FromTime:     alightTime,
				ToTime:       c.endTime,
				AccessEgress: &egress,
			},
		},
		StartTime:         c.startTime,
		EndTime:           c.endTime,
		NumberOfTransfers: 0,
		GeneralizedCost:   c.cost,
	}, nil
}
